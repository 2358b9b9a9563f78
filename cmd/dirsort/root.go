package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var opts sortOptions

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "dirsort [flags] <root>",
		Short:         "Sort a directory into category folders",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          requireRoot,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, ctx, args[0], opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().BoolVarP(&opts.timing, "timing", "t", false, "Log the execution time of each pass")
	rootCmd.Flags().BoolVar(&opts.table, "table", false, "Render the summary as a table")
	rootCmd.Flags().BoolVar(&opts.noJournal, "no-journal", false, "Do not record this run in the journal")
	rootCmd.Flags().BoolVar(&opts.progress, "progress", false, "Show a progress bar while moving files (terminal only)")

	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))

	return rootCmd
}
