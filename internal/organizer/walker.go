package organizer

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"dirsort/internal/category"
	"dirsort/internal/logging"
	"dirsort/internal/report"
	"dirsort/internal/services"
)

// Entry is a file discovered during the snapshot walk.
type Entry struct {
	Path string
	// Rel is Path relative to the walked root, slash separated.
	Rel string
}

// WalkStats summarizes one walk pass.
type WalkStats struct {
	Discovered int
	Moved      int
	Collided   int
	Failed     int
	// Skipped counts entries that are not regular files or symlinks to one,
	// plus excluded paths.
	Skipped int
}

// Progress observes the dispatch of snapshot entries.
type Progress interface {
	Begin(total int)
	Step()
	Done()
}

// Options tunes a Walker.
type Options struct {
	// Workers bounds concurrent moves. Values below 1 mean 1.
	Workers int
	// SkipNestedCategoryDirs skips any directory named like a category at any
	// depth, not only the top-level ones.
	SkipNestedCategoryDirs bool
	// Exclude lists absolute paths left untouched, such as the journal and
	// lock directories when they live under the root. Directories are pruned.
	Exclude  []string
	Recorder MoveRecorder
	Progress Progress
}

// Walker fans files under a root out to a Mover.
type Walker struct {
	table    *category.Table
	result   *report.Result
	base     *slog.Logger
	logger   *slog.Logger
	opts     Options
	excluded map[string]struct{}
}

// NewWalker creates a walker that classifies with table and records moved
// extensions into result.
func NewWalker(table *category.Table, result *report.Result, logger *slog.Logger, opts Options) *Walker {
	if table == nil {
		table = category.Default()
	}
	if result == nil {
		result = report.NewResult()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	excluded := make(map[string]struct{}, len(opts.Exclude))
	for _, path := range opts.Exclude {
		if path != "" {
			excluded[filepath.Clean(path)] = struct{}{}
		}
	}
	return &Walker{
		table:    table,
		result:   result,
		base:     logger,
		logger:   logging.NewComponentLogger(logger, "walker"),
		opts:     opts,
		excluded: excluded,
	}
}

// Snapshot lists every file under root, skipping already sorted category
// directories. The listing completes before any file is moved, so files moved
// by the pass are never rediscovered.
func (w *Walker) Snapshot(ctx context.Context, root string) ([]Entry, int, error) {
	logger := logging.WithContext(ctx, w.logger)
	var entries []Entry
	skipped := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			logging.WarnWithContext(logger, "unreadable path skipped", "walk_read_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check directory permissions"),
				logging.String(logging.FieldImpact, "files below this path are not sorted"),
			)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		if _, ok := w.excluded[filepath.Clean(path)]; ok {
			logger.Debug("skipping excluded path", logging.String("path", path))
			if d.IsDir() {
				return filepath.SkipDir
			}
			skipped++
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if w.sortedDir(rel) {
				logger.Debug("skipping sorted directory", logging.String("path", path))
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() || (d.Type()&fs.ModeSymlink != 0 && linksToFile(path)) {
			entries = append(entries, Entry{Path: path, Rel: rel})
			return nil
		}
		skipped++
		return nil
	})
	if err != nil {
		return nil, skipped, err
	}
	return entries, skipped, nil
}

// linksToFile reports whether the symlink at path resolves to a regular file.
// Broken links and links to directories are left where they are.
func linksToFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (w *Walker) sortedDir(rel string) bool {
	segments := strings.Split(rel, "/")
	if len(segments) == 1 {
		return category.IsDirName(segments[0])
	}
	if !w.opts.SkipNestedCategoryDirs {
		return false
	}
	for _, segment := range segments {
		if category.IsDirName(segment) {
			return true
		}
	}
	return false
}

// ProcessFiles moves every file under root into its category directory and
// returns once all moves have finished. Per-file failures are logged and
// counted; only a failure to read root itself or cancellation is returned.
func (w *Walker) ProcessFiles(ctx context.Context, root string) (WalkStats, error) {
	logger := logging.WithContext(ctx, w.logger)
	entries, skipped, err := w.Snapshot(ctx, root)
	stats := WalkStats{Discovered: len(entries), Skipped: skipped}
	if err != nil {
		return stats, services.Wrap(services.ErrFileOperation, "walk", "snapshot", "Failed to list files under "+root, err)
	}
	logger.Info("walk snapshot complete",
		logging.Int("files", len(entries)),
		logging.Int("skipped", skipped),
		logging.Int("workers", w.opts.Workers),
	)

	mover := NewMover(root, w.result, w.base).WithRecorder(w.opts.Recorder)
	if w.opts.Progress != nil {
		w.opts.Progress.Begin(len(entries))
		defer w.opts.Progress.Done()
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(w.opts.Workers)
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			cat := w.classify(entry.Path)
			move, err := mover.Move(ctx, entry.Path, cat)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			mu.Lock()
			switch {
			case err != nil:
				stats.Failed++
			case move.Collided:
				stats.Moved++
				stats.Collided++
			default:
				stats.Moved++
			}
			mu.Unlock()
			if w.opts.Progress != nil {
				w.opts.Progress.Step()
			}
			if err != nil {
				logging.WarnWithContext(logger, "file left in place", "move_failed",
					logging.String("path", entry.Path),
					logging.String(logging.FieldCategory, string(cat)),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check permissions on the file and the category directory"),
					logging.String(logging.FieldImpact, "file was not sorted"),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

func (w *Walker) classify(path string) category.Category {
	_, ext := splitName(filepath.Base(path))
	return w.table.ClassifyExt(ext)
}
