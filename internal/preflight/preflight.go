package preflight

import (
	"context"
	"strings"

	"dirsort/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks that apply to cfg. The root check is skipped when
// root is empty.
func RunAll(ctx context.Context, cfg *config.Config, root string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if strings.TrimSpace(root) != "" {
		results = append(results, CheckDirectoryAccess("Sort root", root))
	}
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	if cfg.Journal.Enabled {
		results = append(results, CheckJournal(ctx, cfg))
	} else {
		results = append(results, Result{Name: "Journal", Passed: true, Detail: "Disabled"})
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
