package journal_test

import (
	"context"
	"testing"
	"time"

	"stagehand/internal/journal"
	"stagehand/internal/testsupport"
)

func TestAddAndGet(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))

	rec, err := store.Add(context.Background(), journal.Record{
		SessionID:         "b9a1c9e2-2f6a-4f5e-8c34-0c1d2e3f4a5b",
		JobName:           "tool-run-17",
		WorkingDirectory:  "/tmp/job17/working",
		CompletedNormally: true,
		Failed:            false,
		FailureCount:      0,
		CleanupRequested:  true,
		Duration:          1500 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if rec.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if rec.Status() != "succeeded" {
		t.Fatalf("Status() = %q, want succeeded", rec.Status())
	}
	if !rec.CleanupRequested {
		t.Fatal("cleanup flag lost on round trip")
	}
	if rec.Duration != 1500*time.Millisecond {
		t.Fatalf("duration = %v, want 1.5s", rec.Duration)
	}
	if rec.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}
}

func TestAddRequiresSessionID(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))

	if _, err := store.Add(context.Background(), journal.Record{JobName: "x"}); err == nil {
		t.Fatal("expected error for empty session id")
	}
}

func TestFailuresRoundTrip(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))

	rec := testsupport.NewRun(t, store, journal.Record{
		JobName:          "tool-run-18",
		WorkingDirectory: "/tmp/job18/working",
		Failed:           true,
		FailureCount:     2,
		Failures: []string{
			"fetch dataset_1.dat: connection reset",
			"fetch galaxy.json: worker returned 500",
		},
		CleanupError: "clean request failed",
	})

	loaded, err := store.GetByID(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if loaded == nil {
		t.Fatal("record not found")
	}
	if len(loaded.Failures) != 2 {
		t.Fatalf("failures = %v, want 2 entries", loaded.Failures)
	}
	if loaded.Failures[1] != "fetch galaxy.json: worker returned 500" {
		t.Fatalf("failure[1] = %q", loaded.Failures[1])
	}
	if loaded.CleanupError != "clean request failed" {
		t.Fatalf("cleanup error = %q", loaded.CleanupError)
	}
	if loaded.Status() != "failed" {
		t.Fatalf("Status() = %q, want failed", loaded.Status())
	}
}

func TestGetByIDMissing(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))

	rec, err := store.GetByID(context.Background(), 9999)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record, got %+v", rec)
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))

	for _, name := range []string{"run-a", "run-b", "run-c"} {
		testsupport.NewRun(t, store, journal.Record{JobName: name})
	}

	records, err := store.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	if records[0].JobName != "run-c" || records[1].JobName != "run-b" {
		t.Fatalf("order = %s, %s; want run-c, run-b", records[0].JobName, records[1].JobName)
	}
}

func TestSummarize(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))

	testsupport.NewRun(t, store, journal.Record{JobName: "ok", CleanupRequested: true})
	testsupport.NewRun(t, store, journal.Record{JobName: "bad", Failed: true, FailureCount: 1})

	stats, err := store.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if stats.Total != 2 || stats.Succeeded != 1 || stats.Failed != 1 || stats.Cleaned != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	testsupport.NewRun(t, store, journal.Record{JobName: "persisted"})
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenJournal(t, cfg)
	records, err := reopened.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List after reopen: %v", err)
	}
	if len(records) != 1 || records[0].JobName != "persisted" {
		t.Fatalf("records after reopen = %+v", records)
	}
}
