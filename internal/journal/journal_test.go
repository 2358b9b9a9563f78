package journal_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"dirsort/internal/category"
	"dirsort/internal/extract"
	"dirsort/internal/journal"
	"dirsort/internal/organizer"
	"dirsort/internal/services"
	"dirsort/internal/testsupport"
)

func TestRunLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, "/data/inbox")
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	rec := store.Recorder(run.ID)
	if err := rec.RecordMove(ctx, organizer.Move{
		Source:    "/data/inbox/a.TXT",
		Target:    "/data/inbox/documents/a.TXT",
		Category:  category.Documents,
		Extension: ".TXT",
	}); err != nil {
		t.Fatalf("RecordMove: %v", err)
	}
	if err := rec.RecordMove(ctx, organizer.Move{
		Source:    "/data/inbox/b.png",
		Target:    "/data/inbox/images/b_x.png",
		Category:  category.Images,
		Extension: ".png",
		Collided:  true,
	}); err != nil {
		t.Fatalf("RecordMove: %v", err)
	}
	if err := rec.RecordExtraction(ctx, extract.Extraction{Archive: "x.zip", Format: "zip", Err: errors.New("boom")}); err != nil {
		t.Fatalf("RecordExtraction: %v", err)
	}
	corrupt := services.Wrap(services.ErrArchiveFormat, "extract", "open", "bad.rar", nil)
	if err := rec.RecordExtraction(ctx, extract.Extraction{Archive: "bad.rar", Format: "rar", Err: corrupt}); err != nil {
		t.Fatalf("RecordExtraction: %v", err)
	}
	if err := store.FinishRun(ctx, run.ID, journal.StatusCompleted, journal.Totals{Moved: 2, Failed: 1}, "summary"); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	got, err := store.GetRun(ctx, run.ID[:8])
	if err != nil {
		t.Fatalf("GetRun by prefix: %v", err)
	}
	if got.Status != journal.StatusCompleted || got.Moved != 2 || got.Failed != 1 || got.Summary != "summary" {
		t.Fatalf("unexpected run %+v", got)
	}
	if got.FinishedAt.IsZero() || got.StartedAt.IsZero() {
		t.Fatalf("timestamps not stored: %+v", got)
	}

	moves, err := store.ListMoves(ctx, run.ID)
	if err != nil {
		t.Fatalf("ListMoves: %v", err)
	}
	if len(moves) != 2 || moves[0].Category != "documents" || !moves[1].Collided {
		t.Fatalf("unexpected moves %+v", moves)
	}

	exs, err := store.ListExtractions(ctx, run.ID)
	if err != nil {
		t.Fatalf("ListExtractions: %v", err)
	}
	if len(exs) != 2 || exs[0].Status != "failed" || exs[0].Error != "boom" || exs[1].Status != "unsupported" {
		t.Fatalf("unexpected extractions %+v", exs)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		run, err := store.BeginRun(ctx, "/root")
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, run.ID)
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Fatalf("unexpected order: %+v", runs)
	}
	if runs[0].Status != journal.StatusRunning {
		t.Fatalf("expected running status, got %s", runs[0].Status)
	}
}

func TestGetRunUnknown(t *testing.T) {
	store := testsupport.MustOpenJournal(t, testsupport.NewConfig(t))
	if _, err := store.GetRun(context.Background(), "missing"); !errors.Is(err, journal.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	store, err := journal.OpenPath(path)
	if err != nil {
		t.Fatal(err)
	}
	run, err := store.BeginRun(context.Background(), "/r")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := journal.OpenPath(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.GetRun(context.Background(), run.ID); err != nil {
		t.Fatalf("GetRun after reopen: %v", err)
	}
}
