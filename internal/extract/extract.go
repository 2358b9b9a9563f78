package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mholt/archives"
	"golang.org/x/sync/errgroup"

	"dirsort/internal/category"
	"dirsort/internal/keylock"
	"dirsort/internal/logging"
	"dirsort/internal/services"
)

var errUnsafeEntry = errors.New("entry escapes destination")

// Extraction is the outcome of unpacking one archive.
type Extraction struct {
	Archive string
	Dest    string
	Format  string
	// Entries counts files written; directories and links are not counted.
	Entries int
	Err     error
}

// Recorder receives every extraction attempt. Implementations must be safe
// for concurrent use.
type Recorder interface {
	RecordExtraction(ctx context.Context, ex Extraction) error
}

// Stats summarizes one extraction pass.
type Stats struct {
	Found     int
	Extracted int
	Failed    int
}

// Extractor unpacks archives in root/archives.
type Extractor struct {
	table    *category.Table
	workers  int
	locks    *keylock.Map[string]
	recorder Recorder
	logger   *slog.Logger
}

// New creates an extractor running up to workers archives at once. The table
// decides which files in the archives directory are considered.
func New(table *category.Table, workers int, logger *slog.Logger) *Extractor {
	if table == nil {
		table = category.Default()
	}
	if workers < 1 {
		workers = 1
	}
	return &Extractor{
		table:   table,
		workers: workers,
		locks:   keylock.New[string](),
		logger:  logging.NewComponentLogger(logger, "extractor"),
	}
}

// WithRecorder attaches a recorder notified after each archive.
func (e *Extractor) WithRecorder(r Recorder) *Extractor {
	e.recorder = r
	return e
}

// ExtractArchives unpacks every archive directly inside root/archives. A
// missing archives directory is not an error.
func (e *Extractor) ExtractArchives(ctx context.Context, root string) (Stats, error) {
	var stats Stats
	logger := logging.WithContext(ctx, e.logger)
	dir := filepath.Join(root, string(category.Archives))
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("no archives directory", logging.String("path", dir))
		return stats, nil
	}
	if err != nil {
		return stats, services.Wrap(services.ErrFileOperation, "extract", "read archives dir", "Failed to list "+dir, err)
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(e.workers)
	for _, entry := range entries {
		if !entry.Type().IsRegular() || e.table.Classify(entry.Name()) != category.Archives {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		stats.Found++
		path := filepath.Join(dir, entry.Name())
		g.Go(func() error {
			ex := e.Extract(ctx, path)
			mu.Lock()
			if ex.Err != nil {
				stats.Failed++
			} else {
				stats.Extracted++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	logger.Info("archives processed",
		logging.Int("found", stats.Found),
		logging.Int("extracted", stats.Extracted),
		logging.Int("failed", stats.Failed),
	)
	return stats, ctx.Err()
}

// Extract unpacks a single archive next to itself and deletes it on success.
// Failures leave the archive in place and remove an output directory this
// call created.
func (e *Extractor) Extract(ctx context.Context, path string) Extraction {
	logger := logging.WithContext(ctx, e.logger)
	ex := Extraction{Archive: path}

	format, ok := DetectFormat(path)
	if !ok {
		ex.Err = services.Wrap(services.ErrArchiveFormat, "extract", "detect format", "Unsupported archive "+filepath.Base(path), nil)
		e.finish(ctx, logger, ex)
		return ex
	}
	ex.Format = format.Name
	ex.Dest = filepath.Join(filepath.Dir(path), format.Stem)

	unlock := e.locks.Lock(ex.Dest)
	ex.Entries, ex.Err = e.unpack(ctx, path, ex.Dest, format)
	if ex.Err == nil {
		if err := os.Remove(path); err != nil {
			ex.Err = services.Wrap(services.ErrFileOperation, "extract", "remove archive", "Extracted but could not delete "+filepath.Base(path), err)
		}
	}
	unlock()

	e.finish(ctx, logger, ex)
	return ex
}

func (e *Extractor) finish(ctx context.Context, logger *slog.Logger, ex Extraction) {
	if ex.Err != nil {
		logging.WarnWithContext(logger, "archive not extracted", "extract_failed",
			logging.String("archive", ex.Archive),
			logging.String("format", ex.Format),
			logging.Error(ex.Err),
			logging.String(logging.FieldErrorHint, "verify the archive opens with another tool"),
			logging.String(logging.FieldImpact, "archive kept in place"),
		)
	} else {
		logger.Debug("archive extracted",
			logging.String("archive", ex.Archive),
			logging.String("dest", ex.Dest),
			logging.Int("entries", ex.Entries),
		)
	}
	if e.recorder != nil {
		if err := e.recorder.RecordExtraction(ctx, ex); err != nil {
			logging.WarnWithContext(logger, "journal write failed", "journal_extract_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check state_dir permissions or run with --no-journal"),
				logging.String(logging.FieldImpact, "extraction is not listed in history"),
			)
		}
	}
}

func (e *Extractor) unpack(ctx context.Context, path, dest string, format Format) (int, error) {
	var undo rollback
	if err := undo.mkdirAll(dest); err != nil {
		return 0, services.Wrap(services.ErrFileOperation, "extract", "create output dir", "Failed to create "+dest, err)
	}

	src, err := os.Open(path)
	if err != nil {
		undo.run()
		return 0, services.Wrap(services.ErrFileOperation, "extract", "open archive", "Failed to open "+filepath.Base(path), err)
	}
	defer src.Close()

	var written int
	if format.Stream != nil {
		err = e.decompress(src, dest, format, &undo)
		if err == nil {
			written = 1
		}
	} else {
		err = format.Extractor.Extract(ctx, src, func(_ context.Context, f archives.FileInfo) error {
			wrote, err := e.writeEntry(dest, f, &undo)
			if wrote {
				written++
			}
			return err
		})
	}
	if err != nil {
		undo.run()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, err
		}
		return 0, services.Wrap(services.ErrArchiveFormat, "extract", "read "+format.Name, "Failed to unpack "+filepath.Base(path), err)
	}
	return written, nil
}

func (e *Extractor) decompress(src io.Reader, dest string, format Format, undo *rollback) error {
	rc, err := format.Stream.OpenReader(src)
	if err != nil {
		return err
	}
	defer rc.Close()
	return writeFile(filepath.Join(dest, format.Stem), rc, 0o644, undo)
}

// writeEntry materializes one archive member under dest. Links are skipped.
func (e *Extractor) writeEntry(dest string, f archives.FileInfo, undo *rollback) (bool, error) {
	name := filepath.FromSlash(strings.TrimLeft(strings.ReplaceAll(f.NameInArchive, "\\", "/"), "/"))
	name = filepath.Clean(name)
	if name == "." {
		return false, nil
	}
	if !filepath.IsLocal(name) {
		return false, fmt.Errorf("%w: %s", errUnsafeEntry, f.NameInArchive)
	}
	target := filepath.Join(dest, name)

	switch {
	case f.IsDir():
		return false, undo.mkdirAll(target)
	case f.LinkTarget != "" || f.Mode()&fs.ModeSymlink != 0:
		e.logger.Debug("archive link skipped",
			logging.String("entry", f.NameInArchive),
			logging.String("link_target", f.LinkTarget),
		)
		return false, nil
	case !f.Mode().IsRegular():
		return false, nil
	}

	if err := undo.mkdirAll(filepath.Dir(target)); err != nil {
		return false, err
	}
	rc, err := f.Open()
	if err != nil {
		return false, err
	}
	defer rc.Close()

	mode := f.Mode().Perm() | 0o600
	if err := writeFile(target, rc, mode, undo); err != nil {
		return false, err
	}
	return true, nil
}

// writeFile copies r into path without replacing an existing file. A taken
// name gets a uuid suffix before the extension.
func writeFile(path string, r io.Reader, mode fs.FileMode, undo *rollback) error {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode)
	if errors.Is(err, fs.ErrExist) {
		ext := filepath.Ext(path)
		path = strings.TrimSuffix(path, ext) + "_" + uuid.NewString() + ext
		out, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode)
	}
	if err != nil {
		return err
	}
	undo.add(path)
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// rollback remembers the files and directories one extraction attempt
// created, so a failed attempt leaves pre-existing content exactly as it was.
type rollback struct {
	paths []string
}

func (u *rollback) add(path string) {
	u.paths = append(u.paths, path)
}

// mkdirAll creates dir and its missing parents, recording each one created.
func (u *rollback) mkdirAll(dir string) error {
	var missing []string
	for p := filepath.Clean(dir); ; p = filepath.Dir(p) {
		if _, err := os.Lstat(p); err == nil || !errors.Is(err, fs.ErrNotExist) {
			break
		}
		missing = append(missing, p)
		if filepath.Dir(p) == p {
			break
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i := len(missing) - 1; i >= 0; i-- {
		u.add(missing[i])
	}
	return nil
}

// run removes the recorded paths newest first. Directories are created before
// their contents, so children are always gone by the time a parent is reached.
func (u *rollback) run() {
	for i := len(u.paths) - 1; i >= 0; i-- {
		_ = os.Remove(u.paths[i])
	}
	u.paths = nil
}
