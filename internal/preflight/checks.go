package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"dirsort/internal/config"
	"dirsort/internal/journal"
)

// CheckDirectoryAccess verifies path is an existing directory the process can
// list, create entries in and traverse.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckJournal opens the journal, which creates or migrates it, and reports
// how many runs it holds.
func CheckJournal(ctx context.Context, cfg *config.Config) Result {
	const name = "Journal"

	store, err := journal.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.JournalPath(), err)}
	}
	defer store.Close()

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", store.Path(), err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d runs)", store.Path(), len(runs))}
}
