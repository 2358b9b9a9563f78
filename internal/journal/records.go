package journal

import (
	"context"
	"fmt"
	"time"

	"dirsort/internal/extract"
	"dirsort/internal/organizer"
	"dirsort/internal/services"
)

// MoveRecord is a journaled file move.
type MoveRecord struct {
	RunID     string
	Source    string
	Target    string
	Category  string
	Extension string
	Collided  bool
	MovedAt   time.Time
}

// ExtractionRecord is a journaled archive extraction attempt.
type ExtractionRecord struct {
	RunID      string
	Archive    string
	Dest       string
	Format     string
	Entries    int
	Status     string
	Error      string
	FinishedAt time.Time
}

// AddMove appends a move to run runID.
func (s *Store) AddMove(ctx context.Context, runID string, move organizer.Move) error {
	err := s.exec(ctx,
		`INSERT INTO moves (run_id, source, target, category, extension, collided, moved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, move.Source, move.Target, string(move.Category), move.Extension, move.Collided, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("insert move: %w", err)
	}
	return nil
}

// AddExtraction appends an extraction attempt to run runID.
func (s *Store) AddExtraction(ctx context.Context, runID string, ex extract.Extraction) error {
	status, message := "extracted", ""
	if ex.Err != nil {
		status, message = string(services.FailureOutcome(ex.Err)), ex.Err.Error()
	}
	err := s.exec(ctx,
		`INSERT INTO extractions (run_id, archive, dest, format, entries, status, error, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, ex.Archive, ex.Dest, ex.Format, ex.Entries, status, message, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("insert extraction: %w", err)
	}
	return nil
}

// ListMoves returns the moves of a run in the order they were recorded.
func (s *Store) ListMoves(ctx context.Context, runID string) ([]MoveRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, source, target, category, extension, collided, moved_at
		FROM moves WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}
	defer rows.Close()

	var out []MoveRecord
	for rows.Next() {
		var (
			rec     MoveRecord
			movedAt string
		)
		if err := rows.Scan(&rec.RunID, &rec.Source, &rec.Target, &rec.Category, &rec.Extension, &rec.Collided, &movedAt); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		rec.MovedAt = parseTime(movedAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListExtractions returns the extraction attempts of a run.
func (s *Store) ListExtractions(ctx context.Context, runID string) ([]ExtractionRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, archive, dest, format, entries, status, error, finished_at
		FROM extractions WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list extractions: %w", err)
	}
	defer rows.Close()

	var out []ExtractionRecord
	for rows.Next() {
		var (
			rec        ExtractionRecord
			finishedAt string
		)
		if err := rows.Scan(&rec.RunID, &rec.Archive, &rec.Dest, &rec.Format, &rec.Entries, &rec.Status, &rec.Error, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan extraction: %w", err)
		}
		rec.FinishedAt = parseTime(finishedAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// RunRecorder binds a run id so the store can be handed to the walk and
// extract passes as their recorder.
type RunRecorder struct {
	store *Store
	runID string
}

// Recorder returns a recorder appending to run runID.
func (s *Store) Recorder(runID string) *RunRecorder {
	return &RunRecorder{store: s, runID: runID}
}

// RecordMove implements organizer.MoveRecorder.
func (r *RunRecorder) RecordMove(ctx context.Context, move organizer.Move) error {
	return r.store.AddMove(ctx, r.runID, move)
}

// RecordExtraction implements extract.Recorder.
func (r *RunRecorder) RecordExtraction(ctx context.Context, ex extract.Extraction) error {
	return r.store.AddExtraction(ctx, r.runID, ex)
}

var (
	_ organizer.MoveRecorder = (*RunRecorder)(nil)
	_ extract.Recorder       = (*RunRecorder)(nil)
)
