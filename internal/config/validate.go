package config

import (
	"errors"
	"fmt"
	"sort"

	"dirsort/internal/category"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSorter(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateCategories(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateSorter() error {
	if c.Sorter.Workers < 0 {
		return errors.New("sorter.workers must be zero (auto) or positive")
	}
	if c.Sorter.ReaperWorkers <= 0 {
		return errors.New("sorter.reaper_workers must be positive")
	}
	if c.Sorter.ExtractWorkers <= 0 {
		return errors.New("sorter.extract_workers must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be zero or positive")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q (use debug, info, warn, or error)", c.Logging.Level)
	}
}

func (c *Config) validateCategories() error {
	names := make([]string, 0, len(c.Categories))
	for name := range c.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !category.Valid(name) {
			return fmt.Errorf("categories.%s: unknown category (use images, video, documents, audio, or archives)", name)
		}
		if category.Category(name) == category.Other {
			return errors.New("categories.other: the catch-all category cannot list extensions")
		}
	}
	return nil
}
