// Package reaper removes directories left without files after a sort.
package reaper

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"dirsort/internal/logging"
	"dirsort/internal/services"
)

// Stats summarizes one reaper pass.
type Stats struct {
	// Scanned counts the immediate child directories of root.
	Scanned int
	Removed int
	Failed  int
}

// Reaper deletes empty directory trees below a root.
type Reaper struct {
	workers int
	logger  *slog.Logger
}

// New creates a reaper processing up to workers top-level directories at once.
func New(workers int, logger *slog.Logger) *Reaper {
	if workers < 1 {
		workers = 1
	}
	return &Reaper{workers: workers, logger: logging.NewComponentLogger(logger, "reaper")}
}

// DeleteEmptyFolders removes every directory under root that holds no
// non-directory entry at any depth. Root itself is kept. Each immediate child
// of root is handled by one worker with a sequential post-order descent.
func (r *Reaper) DeleteEmptyFolders(ctx context.Context, root string) (Stats, error) {
	var stats Stats
	entries, err := os.ReadDir(root)
	if err != nil {
		return stats, services.Wrap(services.ErrFileOperation, "reap", "read root", "Failed to list "+root, err)
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(r.workers)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		stats.Scanned++
		dir := filepath.Join(root, entry.Name())
		g.Go(func() error {
			var local Stats
			r.reap(ctx, dir, &local)
			mu.Lock()
			stats.Removed += local.Removed
			stats.Failed += local.Failed
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	logging.WithContext(ctx, r.logger).Info("empty directories removed",
		logging.Int("scanned", stats.Scanned),
		logging.Int("removed", stats.Removed),
		logging.Int("failed", stats.Failed),
	)
	return stats, ctx.Err()
}

// reap reports whether dir was removed.
func (r *Reaper) reap(ctx context.Context, dir string, stats *Stats) bool {
	if ctx.Err() != nil {
		return false
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		r.warn(ctx, dir, "read directory", err)
		stats.Failed++
		return false
	}
	empty := true
	for _, entry := range entries {
		if !entry.IsDir() {
			empty = false
			continue
		}
		if !r.reap(ctx, filepath.Join(dir, entry.Name()), stats) {
			empty = false
		}
	}
	if !empty || ctx.Err() != nil {
		return false
	}
	if err := os.Remove(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true
		}
		r.warn(ctx, dir, "remove directory", err)
		stats.Failed++
		return false
	}
	stats.Removed++
	return true
}

func (r *Reaper) warn(ctx context.Context, dir, op string, err error) {
	logging.WarnWithContext(logging.WithContext(ctx, r.logger), "directory kept", "reap_failed",
		logging.String("path", dir),
		logging.String("operation", op),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check directory permissions"),
		logging.String(logging.FieldImpact, "empty directory left in place"),
	)
}
