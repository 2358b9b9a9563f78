package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"dirsort/internal/journal"
	"dirsort/internal/logging"
	"dirsort/internal/workflow"
)

type sortOptions struct {
	timing    bool
	table     bool
	noJournal bool
	progress  bool
}

func runSort(cmd *cobra.Command, ctx *commandContext, root string, opts sortOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	runnerOpts := []workflow.Option{workflow.WithTiming(opts.timing)}
	if cfg.Journal.Enabled && !opts.noJournal {
		store, err := journal.Open(cfg)
		if err != nil {
			logging.WarnWithContext(logger, "journal unavailable; continuing without it", "journal_open_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "delete the journal file or run with --no-journal"),
				logging.String(logging.FieldImpact, "this run is not listed in history"),
			)
		} else {
			defer store.Close()
			runnerOpts = append(runnerOpts, workflow.WithJournal(store))
		}
	}
	if opts.progress && isTerminal(os.Stderr) {
		runnerOpts = append(runnerOpts, workflow.WithProgress(newProgressBar(os.Stderr)))
	}

	summary, err := workflow.NewRunner(cfg, logger, runnerOpts...).Run(cmd.Context(), root)
	if summary == nil {
		return err
	}

	out := cmd.OutOrStdout()
	renderSummary(out, summary, opts.table, shouldColorize(out))
	if opts.timing {
		renderStats(out, summary)
	}
	return err
}

func renderStats(out io.Writer, summary *workflow.Summary) {
	rows := make([][]string, 0, len(summary.Timings)+1)
	for _, timing := range summary.Timings {
		rows = append(rows, []string{timing.Pass, passCounts(summary, timing.Pass), formatElapsed(timing.Elapsed)})
	}
	rows = append(rows, []string{"total", "", formatElapsed(summary.Elapsed)})
	fmt.Fprintln(out, renderTable([]string{"Pass", "Result", "Elapsed"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
}

func passCounts(summary *workflow.Summary, pass string) string {
	switch pass {
	case workflow.PassWalk:
		w := summary.Walk
		return fmt.Sprintf("%d moved, %d renamed, %d failed", w.Moved, w.Collided, w.Failed)
	case workflow.PassReap:
		return fmt.Sprintf("%d dirs removed", summary.Reap.Removed)
	case workflow.PassExtract:
		e := summary.Extract
		return fmt.Sprintf("%d extracted, %d kept", e.Extracted, e.Failed)
	default:
		return ""
	}
}
