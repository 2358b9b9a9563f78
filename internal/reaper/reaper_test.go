package reaper_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"dirsort/internal/logging"
	"dirsort/internal/reaper"
	"dirsort/internal/testsupport"
)

func dirs(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != root {
			rel, _ := filepath.Rel(root, path)
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestDeleteEmptyFolders(t *testing.T) {
	root := t.TempDir()
	testsupport.MkdirAll(t, filepath.Join(root, "tmp"))
	testsupport.MkdirAll(t, filepath.Join(root, "a", "b", "c"))
	testsupport.MkdirAll(t, filepath.Join(root, "keep", "empty"))
	testsupport.WriteText(t, filepath.Join(root, "keep", "sub", "file.txt"), "x")
	testsupport.WriteText(t, filepath.Join(root, "loose.txt"), "x")

	stats, err := reaper.New(2, logging.NewNop()).DeleteEmptyFolders(context.Background(), root)
	if err != nil {
		t.Fatalf("DeleteEmptyFolders: %v", err)
	}

	want := []string{"keep", "keep/sub"}
	if got := dirs(t, root); !reflect.DeepEqual(got, want) {
		t.Fatalf("dirs = %v, want %v", got, want)
	}
	if stats.Scanned != 3 || stats.Removed != 5 || stats.Failed != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if !testsupport.Exists(filepath.Join(root, "loose.txt")) {
		t.Fatal("root files must survive")
	}
}

func TestDeleteEmptyFoldersSymlinkCountsAsContent(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "target.txt")
	testsupport.WriteText(t, target, "x")
	link := filepath.Join(root, "links", "deep", "l")
	testsupport.MkdirAll(t, filepath.Dir(link))
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlink unsupported: %v", err)
	}

	if _, err := reaper.New(1, nil).DeleteEmptyFolders(context.Background(), root); err != nil {
		t.Fatal(err)
	}
	if !testsupport.Exists(link) {
		t.Fatal("directory holding a symlink was removed")
	}
}

func TestDeleteEmptyFoldersIsIdempotent(t *testing.T) {
	root := t.TempDir()
	testsupport.MkdirAll(t, filepath.Join(root, "x", "y"))
	testsupport.WriteText(t, filepath.Join(root, "z", "f"), "f")

	r := reaper.New(2, nil)
	if _, err := r.DeleteEmptyFolders(context.Background(), root); err != nil {
		t.Fatal(err)
	}
	before := dirs(t, root)
	stats, err := r.DeleteEmptyFolders(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Removed != 0 {
		t.Fatalf("second pass removed %d dirs", stats.Removed)
	}
	if got := dirs(t, root); !reflect.DeepEqual(got, before) {
		t.Fatalf("second pass changed tree: %v vs %v", got, before)
	}
}

func TestDeleteEmptyFoldersMissingRoot(t *testing.T) {
	if _, err := reaper.New(2, nil).DeleteEmptyFolders(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error")
	}
}
