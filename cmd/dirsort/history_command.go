package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"dirsort/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past runs recorded in the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if _, err := os.Stat(cfg.JournalPath()); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
				return nil
			}
			store, err := journal.Open(cfg)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			if runID != "" {
				return showRun(cmd, store, runID)
			}
			return listRuns(cmd, store, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to list (0 for all)")
	cmd.Flags().StringVar(&runID, "run", "", "Show the moves of one run (id or unique prefix)")
	return cmd
}

func listRuns(cmd *cobra.Command, store *journal.Store, limit int) error {
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet")
		return nil
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format(time.DateTime),
			run.Status,
			run.Root,
			strconv.Itoa(run.Moved),
			strconv.Itoa(run.Failed),
			strconv.Itoa(run.Extracted),
			strconv.Itoa(run.Reaped),
		})
	}
	headers := []string{"Run", "Started", "Status", "Root", "Moved", "Failed", "Extracted", "Dirs removed"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
	return nil
}

func showRun(cmd *cobra.Command, store *journal.Store, id string) error {
	run, err := store.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}
	moves, err := store.ListMoves(cmd.Context(), run.ID)
	if err != nil {
		return err
	}
	extractions, err := store.ListExtractions(cmd.Context(), run.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s) on %s\n", run.ID, run.Status, run.Root)
	if len(moves) > 0 {
		rows := make([][]string, 0, len(moves))
		for _, move := range moves {
			renamed := ""
			if move.Collided {
				renamed = "yes"
			}
			rows = append(rows, []string{relativeTo(run.Root, move.Source), relativeTo(run.Root, move.Target), move.Category, renamed})
		}
		fmt.Fprintln(out, renderTable([]string{"Source", "Target", "Category", "Renamed"}, rows, nil))
	}
	if len(extractions) > 0 {
		rows := make([][]string, 0, len(extractions))
		for _, ex := range extractions {
			rows = append(rows, []string{relativeTo(run.Root, ex.Archive), ex.Format, ex.Status, strconv.Itoa(ex.Entries), ex.Error})
		}
		fmt.Fprintln(out, renderTable([]string{"Archive", "Format", "Status", "Files", "Error"}, rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}))
	}
	if len(moves) == 0 && len(extractions) == 0 {
		fmt.Fprintln(out, "No files were moved in this run")
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func relativeTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}
