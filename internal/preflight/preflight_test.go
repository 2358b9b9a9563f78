package preflight_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"dirsort/internal/preflight"
	"dirsort/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := preflight.CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := preflight.CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	testsupport.WriteText(t, f, "x")
	result := preflight.CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAll_AllPass(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	root := t.TempDir()

	results := preflight.RunAll(context.Background(), cfg, root)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d: %+v", len(results), results)
	}
	if failed := preflight.Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
	if results[0].Name != "Sort root" {
		t.Fatalf("expected root check first, got %q", results[0].Name)
	}
	if !testsupport.Exists(cfg.JournalPath()) {
		t.Fatal("expected journal check to create the database")
	}
}

func TestRunAll_MissingStateDirAndNoRoot(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutJournal())

	results := preflight.RunAll(context.Background(), cfg, "")
	failed := preflight.Failed(results)
	if len(failed) != 2 {
		t.Fatalf("expected state and log dir failures, got %+v", failed)
	}
	for _, r := range results {
		if r.Name == "Sort root" {
			t.Fatal("root check should be skipped for an empty root")
		}
		if r.Name == "Journal" && (!r.Passed || r.Detail != "Disabled") {
			t.Fatalf("unexpected journal result %+v", r)
		}
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := preflight.RunAll(context.Background(), nil, "/tmp"); results != nil {
		t.Fatalf("expected nil results, got %+v", results)
	}
}
