package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Record describes one completed harvest run.
type Record struct {
	ID                int64
	SessionID         string
	JobName           string
	WorkingDirectory  string
	CompletedNormally bool
	Failed            bool
	FailureCount      int
	Failures          []string
	CleanupRequested  bool
	CleanupError      string
	Duration          time.Duration
	CreatedAt         time.Time
}

// Status returns a short label summarizing the run outcome.
func (r Record) Status() string {
	if r.Failed {
		return "failed"
	}
	return "succeeded"
}

const recordColumns = "id, session_id, job_name, working_directory, completed_normally, failed, failure_count, failures, cleanup_requested, cleanup_error, duration_ms, created_at"

// failureSeparator joins failure messages into a single column. Newlines are
// not expected inside individual messages.
const failureSeparator = "\n"

// Add appends a harvest run to the journal and returns the stored record.
func (s *Store) Add(ctx context.Context, rec Record) (*Record, error) {
	if strings.TrimSpace(rec.SessionID) == "" {
		return nil, errors.New("session id is required")
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO harvest_runs (
            session_id, job_name, working_directory, completed_normally,
            failed, failure_count, failures, cleanup_requested,
            cleanup_error, duration_ms, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.JobName,
		rec.WorkingDirectory,
		boolToInt(rec.CompletedNormally),
		boolToInt(rec.Failed),
		rec.FailureCount,
		nullableString(strings.Join(rec.Failures, failureSeparator)),
		boolToInt(rec.CleanupRequested),
		nullableString(rec.CleanupError),
		rec.Duration.Milliseconds(),
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert harvest run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the record with the given ID or nil when absent.
func (s *Store) GetByID(ctx context.Context, id int64) (*Record, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM harvest_runs WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get harvest run %d: %w", id, err)
	}
	return rec, nil
}

// List returns the most recent runs, newest first, capped at limit. A limit
// of zero or less means no cap.
func (s *Store) List(ctx context.Context, limit int) ([]*Record, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + recordColumns + " FROM harvest_runs ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list harvest runs: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan harvest run: %w", scanErr)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate harvest runs: %w", err)
	}
	return records, nil
}

// Stats summarizes the journal contents.
type Stats struct {
	Total     int
	Succeeded int
	Failed    int
	Cleaned   int
}

// Summarize computes aggregate counts over all recorded runs.
func (s *Store) Summarize(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	var stats Stats
	err := s.db.QueryRowContext(ctx, `
        SELECT
            COUNT(1),
            COALESCE(SUM(CASE WHEN failed = 0 THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN failed = 1 THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN cleanup_requested = 1 THEN 1 ELSE 0 END), 0)
        FROM harvest_runs`,
	).Scan(&stats.Total, &stats.Succeeded, &stats.Failed, &stats.Cleaned)
	if err != nil {
		return Stats{}, fmt.Errorf("summarize harvest runs: %w", err)
	}
	return stats, nil
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id                int64
		sessionID         string
		jobName           string
		workingDirectory  string
		completedNormally int64
		failed            int64
		failureCount      int64
		failures          sql.NullString
		cleanupRequested  int64
		cleanupError      sql.NullString
		durationMillis    int64
		createdRaw        string
	)

	if err := scanner.Scan(
		&id,
		&sessionID,
		&jobName,
		&workingDirectory,
		&completedNormally,
		&failed,
		&failureCount,
		&failures,
		&cleanupRequested,
		&cleanupError,
		&durationMillis,
		&createdRaw,
	); err != nil {
		return nil, err
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdRaw)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
	}

	rec := &Record{
		ID:                id,
		SessionID:         sessionID,
		JobName:           jobName,
		WorkingDirectory:  workingDirectory,
		CompletedNormally: completedNormally != 0,
		Failed:            failed != 0,
		FailureCount:      int(failureCount),
		CleanupRequested:  cleanupRequested != 0,
		CleanupError:      cleanupError.String,
		Duration:          time.Duration(durationMillis) * time.Millisecond,
		CreatedAt:         createdAt,
	}
	if failures.Valid && failures.String != "" {
		rec.Failures = strings.Split(failures.String, failureSeparator)
	}
	return rec, nil
}

func boolToInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
