package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"dirsort/internal/category"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains state and log directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Sorter contains worker pool sizes and pass toggles.
type Sorter struct {
	// Workers bounds the walk pass fan-out. 0 selects 4 * NumCPU.
	Workers         int  `toml:"workers"`
	ReaperWorkers   int  `toml:"reaper_workers"`
	ExtractWorkers  int  `toml:"extract_workers"`
	ExtractArchives bool `toml:"extract_archives"`
	// SkipNestedCategoryDirs restores the legacy rule that skips any file with
	// a category-named directory anywhere in its root-relative path.
	SkipNestedCategoryDirs bool `toml:"skip_nested_category_dirs"`
}

// Journal contains configuration for the SQLite run journal.
type Journal struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// RetentionDays prunes daily log files older than this. 0 keeps them all.
	RetentionDays int `toml:"retention_days"`
}

// Config encapsulates all configuration values for dirsort.
//
// Configuration sections:
//   - Paths: state (journal, locks) and log directories
//   - Sorter: worker pool sizes and pass toggles
//   - Journal: run journal persistence
//   - Logging: log format and level
//   - Categories: extra extensions appended to the named categories
type Config struct {
	Paths      Paths               `toml:"paths"`
	Sorter     Sorter              `toml:"sorter"`
	Journal    Journal             `toml:"journal"`
	Logging    Logging             `toml:"logging"`
	Categories map[string][]string `toml:"categories"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/dirsort/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/dirsort/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("dirsort.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// WalkWorkers returns the effective walk pool size.
func (c *Config) WalkWorkers() int {
	if c.Sorter.Workers > 0 {
		return c.Sorter.Workers
	}
	return 4 * runtime.NumCPU()
}

// JournalPath returns the journal database location.
func (c *Config) JournalPath() string {
	if strings.TrimSpace(c.Journal.Path) != "" {
		return c.Journal.Path
	}
	return filepath.Join(c.Paths.StateDir, "journal.db")
}

// LockDir returns the directory holding per-root run locks.
func (c *Config) LockDir() string {
	return filepath.Join(c.Paths.StateDir, "locks")
}

// CategoryTable builds the classification table including configured extras.
func (c *Config) CategoryTable() *category.Table {
	if len(c.Categories) == 0 {
		return category.Default()
	}
	extra := make(map[category.Category][]string, len(c.Categories))
	for name, exts := range c.Categories {
		extra[category.Category(name)] = exts
	}
	return category.New(extra)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
