package testsupport

import (
	"context"
	"testing"
	"time"

	"stagehand/internal/config"
	"stagehand/internal/journal"
)

// MustOpenJournal opens a journal.Store for tests and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewRun records a harvest run for tests using the provided store.
func NewRun(t testing.TB, store *journal.Store, rec journal.Record) *journal.Record {
	t.Helper()

	if rec.SessionID == "" {
		rec.SessionID = "test-session"
	}
	if rec.Duration == 0 {
		rec.Duration = time.Second
	}
	stored, err := store.Add(context.Background(), rec)
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return stored
}
