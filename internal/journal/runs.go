package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
	StatusFailed    = "failed"
)

// Run is one invocation of the sorter against a root.
type Run struct {
	ID         string
	Root       string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Moved      int
	Failed     int
	Extracted  int
	Reaped     int
	Summary    string
}

// Totals are the counters stored when a run finishes.
type Totals struct {
	Moved     int
	Failed    int
	Extracted int
	Reaped    int
}

// ErrRunNotFound is returned when no run matches an identifier.
var ErrRunNotFound = errors.New("run not found")

// BeginRun inserts a running row for root and returns it.
func (s *Store) BeginRun(ctx context.Context, root string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Root:      root,
		StartedAt: time.Now().UTC(),
		Status:    StatusRunning,
	}
	err := s.exec(ctx,
		"INSERT INTO runs (id, root, started_at, status) VALUES (?, ?, ?, ?)",
		run.ID, run.Root, formatTime(run.StartedAt), run.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// FinishRun stores the final status, counters and rendered summary of a run.
func (s *Store) FinishRun(ctx context.Context, id, status string, totals Totals, summary string) error {
	err := s.exec(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, moved = ?, failed = ?, extracted = ?, reaped = ?, summary = ?
		WHERE id = ?`,
		formatTime(time.Now()), status, totals.Moved, totals.Failed, totals.Extracted, totals.Reaped, summary, id,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}
	return nil
}

// ListRuns returns the most recent runs first. A limit below 1 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := runColumns + " ORDER BY started_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun returns the run whose id equals or starts with id. An ambiguous
// prefix is reported as not found.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, runColumns+" WHERE id = ? OR id LIKE ? || '%' LIMIT 2", id, id)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var found []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(found) != 1 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return found[0], nil
}

const runColumns = `SELECT id, root, started_at, finished_at, status, moved, failed, extracted, reaped, summary FROM runs`

func scanRun(rows *sql.Rows) (*Run, error) {
	var (
		run      Run
		started  string
		finished sql.NullString
	)
	if err := rows.Scan(&run.ID, &run.Root, &started, &finished, &run.Status,
		&run.Moved, &run.Failed, &run.Extracted, &run.Reaped, &run.Summary); err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = parseTime(started)
	if finished.Valid {
		run.FinishedAt = parseTime(finished.String)
	}
	return &run, nil
}
