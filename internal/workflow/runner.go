package workflow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"dirsort/internal/config"
	"dirsort/internal/extract"
	"dirsort/internal/journal"
	"dirsort/internal/logging"
	"dirsort/internal/organizer"
	"dirsort/internal/preflight"
	"dirsort/internal/reaper"
	"dirsort/internal/report"
	"dirsort/internal/services"
)

// Pass names used in logs, contexts and timings.
const (
	PassWalk    = "walk"
	PassReap    = "reap"
	PassExtract = "extract"
)

// ErrRootBusy is returned when another process holds the lock for a root.
var ErrRootBusy = errors.New("root is being sorted by another process")

// Runner executes the sorter passes.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	journal  *journal.Store
	progress organizer.Progress
	timing   bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithJournal records runs in store.
func WithJournal(store *journal.Store) Option {
	return func(r *Runner) {
		r.journal = store
	}
}

// WithProgress reports walk progress to p.
func WithProgress(p organizer.Progress) Option {
	return func(r *Runner) {
		r.progress = p
	}
}

// WithTiming logs pass durations at info level instead of debug.
func WithTiming(enabled bool) Option {
	return func(r *Runner) {
		r.timing = enabled
	}
}

// NewRunner constructs a runner for cfg.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	r := &Runner{cfg: cfg, logger: logging.NewComponentLogger(logger, "workflow")}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run sorts root. A root that does not exist is logged as a warning and
// yields an empty summary. Per-file failures are counted in the summary and
// never abort the run.
func (r *Runner) Run(ctx context.Context, root string) (*Summary, error) {
	abs, err := config.ExpandPath(root)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "resolve root", "Invalid root path", err)
	}
	summary := &Summary{Root: abs, Result: report.NewResult()}
	logger := r.logger.With(logging.String("root", abs))

	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		summary.RootMissing = true
		logging.WarnWithContext(logger, "root does not exist", "root_missing",
			logging.String(logging.FieldErrorHint, "check the path argument"),
			logging.String(logging.FieldImpact, "nothing to sort"),
		)
		return summary, nil
	case err != nil:
		return nil, services.Wrap(services.ErrFileOperation, "", "stat root", "Cannot access "+abs, err)
	case !info.IsDir():
		return nil, services.Wrap(services.ErrConfiguration, "", "validate root", abs+" is not a directory", nil)
	}
	if check := preflight.CheckDirectoryAccess("root", abs); !check.Passed {
		return nil, services.Wrap(services.ErrFileOperation, "", "check root", "Cannot sort "+check.Detail, nil)
	}

	unlock, err := r.lockRoot(abs)
	if err != nil {
		return nil, err
	}
	defer unlock()

	run := r.beginRun(ctx, logger, abs)
	if run != nil {
		summary.RunID = run.ID
		ctx = services.WithRunID(ctx, run.ID)
	}

	start := time.Now()
	runErr := r.runPasses(ctx, abs, summary)
	summary.Elapsed = time.Since(start)

	r.finishRun(ctx, logger, summary, runErr)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logging.ErrorWithContext(logging.WithContext(ctx, logger), "sort aborted", "run_failed",
			logging.Error(runErr),
			logging.String(logging.FieldErrorHint, "check that the root is readable"),
		)
	}
	logging.WithContext(ctx, logger).Info("sort finished",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("moved", summary.Walk.Moved),
		logging.Int("failed", summary.Walk.Failed),
		logging.Int("dirs_removed", summary.Reap.Removed),
		logging.Int("archives_extracted", summary.Extract.Extracted),
		logging.Duration("elapsed", summary.Elapsed),
		logging.String("summary", summary.Result.RenderInline()),
	)
	return summary, runErr
}

func (r *Runner) runPasses(ctx context.Context, root string, summary *Summary) error {
	var recorder *journal.RunRecorder
	if r.journal != nil && summary.RunID != "" {
		recorder = r.journal.Recorder(summary.RunID)
	}

	walkOpts := organizer.Options{
		Workers:                r.cfg.WalkWorkers(),
		SkipNestedCategoryDirs: r.cfg.Sorter.SkipNestedCategoryDirs,
		Exclude:                r.statePaths(root),
		Progress:               r.progress,
	}
	if recorder != nil {
		walkOpts.Recorder = recorder
	}
	walker := organizer.NewWalker(r.cfg.CategoryTable(), summary.Result, r.logger, walkOpts)
	if err := r.timePass(ctx, PassWalk, summary, func(ctx context.Context) error {
		stats, err := walker.ProcessFiles(ctx, root)
		summary.Walk = stats
		return err
	}); err != nil {
		return err
	}

	rp := reaper.New(r.cfg.Sorter.ReaperWorkers, r.logger)
	if err := r.timePass(ctx, PassReap, summary, func(ctx context.Context) error {
		stats, err := rp.DeleteEmptyFolders(ctx, root)
		summary.Reap = stats
		return err
	}); err != nil {
		return err
	}

	if !r.cfg.Sorter.ExtractArchives {
		logging.WithContext(ctx, r.logger).Debug("archive extraction disabled",
			logging.Args(logging.DecisionAttrs("extract_archives", "skipped", "sorter.extract_archives is false")...)...,
		)
		return nil
	}
	ex := extract.New(r.cfg.CategoryTable(), r.cfg.Sorter.ExtractWorkers, r.logger)
	if recorder != nil {
		ex.WithRecorder(recorder)
	}
	return r.timePass(ctx, PassExtract, summary, func(ctx context.Context) error {
		stats, err := ex.ExtractArchives(ctx, root)
		summary.Extract = stats
		return err
	})
}

func (r *Runner) timePass(ctx context.Context, pass string, summary *Summary, fn func(context.Context) error) error {
	ctx = services.WithPass(ctx, pass)
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	summary.Timings = append(summary.Timings, PassTiming{Pass: pass, Elapsed: elapsed})

	logger := logging.WithContext(ctx, r.logger)
	level := slog.LevelDebug
	if r.timing {
		level = slog.LevelInfo
	}
	logger.Log(ctx, level, "pass finished", logging.Args(logging.Duration("elapsed", elapsed))...)
	return err
}

// lockRoot takes the per-root advisory lock.
func (r *Runner) lockRoot(root string) (func(), error) {
	dir := r.cfg.LockDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "ensure lock dir", "Failed to create "+dir, err)
	}
	path := LockPath(dir, root)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrFileOperation, "", "acquire lock", "Failed to lock "+path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s (lock %s)", ErrRootBusy, root, path)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release root lock", logging.String("lock", path), logging.Error(err))
		}
	}, nil
}

// statePaths returns the directories and files dirsort itself writes that lie
// inside root, so the walk never moves its own journal, locks or logs.
func (r *Runner) statePaths(root string) []string {
	journalPath := r.cfg.JournalPath()
	candidates := []string{
		r.cfg.Paths.StateDir,
		r.cfg.Paths.LogDir,
		r.cfg.LockDir(),
		journalPath,
		journalPath + "-wal",
		journalPath + "-shm",
		journalPath + "-journal",
	}
	var out []string
	for _, path := range candidates {
		if path == "" {
			continue
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." || !filepath.IsLocal(rel) {
			continue
		}
		out = append(out, filepath.Join(root, rel))
	}
	return out
}

// LockPath returns the lock file guarding root inside dir.
func LockPath(dir, root string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(root)))
	return filepath.Join(dir, hex.EncodeToString(sum[:8])+".lock")
}

func (r *Runner) beginRun(ctx context.Context, logger *slog.Logger, root string) *journal.Run {
	if r.journal == nil {
		return nil
	}
	run, err := r.journal.BeginRun(ctx, root)
	if err != nil {
		logging.WarnWithContext(logger, "journal unavailable", "journal_begin_failed",
			logging.Error(services.Wrap(services.ErrJournal, "", "begin run", "", err)),
			logging.String(logging.FieldErrorHint, "check state_dir permissions or run with --no-journal"),
			logging.String(logging.FieldImpact, "this run is not listed in history"),
		)
		return nil
	}
	return run
}

func (r *Runner) finishRun(ctx context.Context, logger *slog.Logger, summary *Summary, runErr error) {
	if r.journal == nil || summary.RunID == "" {
		return
	}
	status := journal.StatusCompleted
	switch {
	case errors.Is(runErr, context.Canceled), errors.Is(runErr, context.DeadlineExceeded):
		status = journal.StatusCanceled
	case runErr != nil:
		status = journal.StatusFailed
	}
	totals := journal.Totals{
		Moved:     summary.Walk.Moved,
		Failed:    summary.Walk.Failed + summary.Extract.Failed,
		Extracted: summary.Extract.Extracted,
		Reaped:    summary.Reap.Removed,
	}
	if err := r.journal.FinishRun(context.WithoutCancel(ctx), summary.RunID, status, totals, summary.Result.Render()); err != nil {
		logging.WarnWithContext(logger, "journal update failed", "journal_finish_failed",
			logging.Error(services.Wrap(services.ErrJournal, "", "finish run", "", err)),
			logging.String(logging.FieldErrorHint, "check state_dir permissions"),
			logging.String(logging.FieldImpact, "run shows as running in history"),
		)
	}
}
