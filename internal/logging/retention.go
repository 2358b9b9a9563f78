package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// RetentionTarget names a directory and the file pattern pruned inside it.
// Exclude lists files kept regardless of age, typically the active log.
type RetentionTarget struct {
	Dir     string
	Pattern string
	Exclude []string
}

// CleanupOldLogs removes matching files older than retentionDays and returns
// how many were removed. A retentionDays value of 0 disables pruning.
func CleanupOldLogs(logger *slog.Logger, retentionDays int, targets ...RetentionTarget) int {
	if retentionDays <= 0 {
		return 0
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	removed := 0
	for _, target := range targets {
		if target.Dir == "" || target.Pattern == "" {
			continue
		}
		keep := make(map[string]struct{}, len(target.Exclude))
		for _, path := range target.Exclude {
			keep[filepath.Clean(path)] = struct{}{}
		}

		matches, err := filepath.Glob(filepath.Join(target.Dir, target.Pattern))
		if err != nil {
			continue
		}
		for _, path := range matches {
			if _, skip := keep[filepath.Clean(path)]; skip {
				continue
			}
			info, err := os.Lstat(path)
			if err != nil || !info.Mode().IsRegular() || !info.ModTime().Before(cutoff) {
				continue
			}
			if err := os.Remove(path); err != nil {
				WarnWithContext(logger, "log retention remove failed; file remains", "log_retention_failed",
					String("path", path),
					Error(err),
					String(FieldErrorHint, "check permissions on log_dir"),
					String(FieldImpact, "old log file remains on disk"),
				)
				continue
			}
			removed++
			if logger != nil {
				logger.Debug("log pruned",
					String("path", path),
					String(FieldEventType, "log_pruned"),
				)
			}
		}
	}
	return removed
}
