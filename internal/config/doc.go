// Package config loads, normalizes, and validates dirsort configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// DIRSORT_STATE_DIR and DIRSORT_LOG_LEVEL. The Config type centralizes every
// knob the CLI and the sorter passes need, including worker pool sizes and the
// extra extensions appended to the category table.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
