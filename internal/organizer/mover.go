package organizer

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"dirsort/internal/category"
	"dirsort/internal/fileutil"
	"dirsort/internal/keylock"
	"dirsort/internal/logging"
	"dirsort/internal/report"
	"dirsort/internal/services"
	"dirsort/internal/textutil"
)

// Move describes one completed relocation.
type Move struct {
	Source    string
	Target    string
	Category  category.Category
	Extension string
	// Collided is set when the normalized name was taken and a unique suffix
	// was appended.
	Collided bool
}

// MoveRecorder receives every completed move. Implementations must be safe
// for concurrent use.
type MoveRecorder interface {
	RecordMove(ctx context.Context, move Move) error
}

// Mover relocates files into root/<category> under a per-category lock.
type Mover struct {
	root     string
	result   *report.Result
	locks    *keylock.Map[category.Category]
	recorder MoveRecorder
	logger   *slog.Logger
	token    func() string
}

// NewMover creates a mover filing into category directories under root. The
// result is shared with the caller and receives every moved extension.
func NewMover(root string, result *report.Result, logger *slog.Logger) *Mover {
	if result == nil {
		result = report.NewResult()
	}
	return &Mover{
		root:   root,
		result: result,
		locks:  keylock.New[category.Category](),
		logger: logging.NewComponentLogger(logger, "mover"),
		token:  uuid.NewString,
	}
}

// WithRecorder attaches a recorder notified after each successful move.
func (m *Mover) WithRecorder(r MoveRecorder) *Mover {
	m.recorder = r
	return m
}

// Move relocates filePath into root/<cat> with a normalized name. When the
// name is taken, a single uuid-suffixed name is tried instead; existing files
// are never replaced. The extension is recorded only after the rename
// succeeds.
func (m *Mover) Move(ctx context.Context, filePath string, cat category.Category) (Move, error) {
	if err := ctx.Err(); err != nil {
		return Move{}, err
	}
	stem, ext := splitName(filepath.Base(filePath))
	move, err := m.relocate(filePath, cat, textutil.Normalize(stem), ext)
	if err != nil {
		return Move{}, err
	}

	m.result.RecordMove(cat, ext)

	logger := logging.WithContext(services.WithCategory(ctx, string(cat)), m.logger)
	logger.Debug("file moved",
		logging.String("source", filePath),
		logging.String("target", move.Target),
		logging.Bool("collided", move.Collided),
	)
	if m.recorder != nil {
		if err := m.recorder.RecordMove(ctx, move); err != nil {
			logging.WarnWithContext(logger, "journal write failed", "journal_move_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check state_dir permissions or run with --no-journal"),
				logging.String(logging.FieldImpact, "move is not listed in history"),
			)
		}
	}
	return move, nil
}

// relocate performs the rename while holding the category lock.
func (m *Mover) relocate(filePath string, cat category.Category, name, ext string) (Move, error) {
	dir := filepath.Join(m.root, string(cat))

	unlock := m.locks.Lock(cat)
	defer unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Move{}, services.Wrap(services.ErrFileOperation, "walk", "create category dir", "Failed to create "+string(cat)+" directory", err)
	}

	move := Move{Source: filePath, Category: cat, Extension: ext}
	move.Target = filepath.Join(dir, name+ext)
	if _, err := os.Lstat(move.Target); err == nil {
		move.Target = m.uniqueTarget(dir, name, ext)
		move.Collided = true
	}

	err := fileutil.Move(filePath, move.Target)
	if errors.Is(err, fs.ErrExist) && !move.Collided {
		// Another writer claimed the name between the check and the rename.
		move.Target = m.uniqueTarget(dir, name, ext)
		move.Collided = true
		err = fileutil.Move(filePath, move.Target)
	}
	if err != nil {
		return Move{}, services.Wrap(services.ErrFileOperation, "walk", "move file", "Failed to move "+filepath.Base(filePath), err)
	}
	return move, nil
}

func (m *Mover) uniqueTarget(dir, name, ext string) string {
	return filepath.Join(dir, name+"_"+m.token()+ext)
}

// splitName separates a base name into stem and suffix. A leading dot does
// not start a suffix, so ".bashrc" has no extension.
func splitName(base string) (string, string) {
	ext := filepath.Ext(base)
	if ext == base {
		return base, ""
	}
	return strings.TrimSuffix(base, ext), ext
}
