package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dirsort/internal/config"
	"dirsort/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [root]",
		Short: "Verify the state directory, journal and an optional root are usable",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var root string
			if len(args) == 1 {
				if root, err = config.ExpandPath(args[0]); err != nil {
					return err
				}
			}

			results := preflight.RunAll(cmd.Context(), cfg, root)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "ok"
				if !r.Passed {
					status = "FAIL"
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Check", "Status", "Detail"}, rows, nil))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d check(s) failed", len(failed))
			}
			return nil
		},
	}
}
