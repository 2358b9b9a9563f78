package testsupport

import (
	"path/filepath"
	"testing"

	"dirsort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Pools are kept small so tests exercise contention.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "state", "logs")
	cfgVal.Sorter.Workers = 4

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithWorkers overrides the walk pool size.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sorter.Workers = n
	}
}

// WithoutJournal disables the run journal.
func WithoutJournal() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = false
	}
}

// WithoutExtraction disables the archive pass.
func WithoutExtraction() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sorter.ExtractArchives = false
	}
}

// WithExtensions appends extensions to a category.
func WithExtensions(cat string, exts ...string) ConfigOption {
	return func(b *configBuilder) {
		if b.cfg.Categories == nil {
			b.cfg.Categories = map[string][]string{}
		}
		b.cfg.Categories[cat] = append(b.cfg.Categories[cat], exts...)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
