package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSorter()
	c.normalizeCategories()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if value, ok := os.LookupEnv("DIRSORT_STATE_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.StateDir = strings.TrimSpace(value)
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Journal.Path, err = expandPath(strings.TrimSpace(c.Journal.Path)); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeSorter() {
	if c.Sorter.Workers < 0 {
		c.Sorter.Workers = 0
	}
	if c.Sorter.ReaperWorkers == 0 {
		c.Sorter.ReaperWorkers = defaultReaperWorkers
	}
	if c.Sorter.ExtractWorkers == 0 {
		c.Sorter.ExtractWorkers = defaultExtractWorkers
	}
}

func (c *Config) normalizeCategories() {
	if len(c.Categories) == 0 {
		return
	}
	normalized := make(map[string][]string, len(c.Categories))
	for name, exts := range c.Categories {
		key := strings.ToLower(strings.TrimSpace(name))
		seen := make(map[string]struct{}, len(exts))
		for _, ext := range normalized[key] {
			seen[ext] = struct{}{}
		}
		for _, ext := range exts {
			value := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(ext), "."))
			if value == "" {
				continue
			}
			if _, exists := seen[value]; exists {
				continue
			}
			seen[value] = struct{}{}
			normalized[key] = append(normalized[key], value)
		}
		if _, ok := normalized[key]; !ok {
			normalized[key] = nil
		}
	}
	c.Categories = normalized
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("DIRSORT_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
