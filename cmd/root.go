// Package cmd provides the calheat command line interface.
package cmd

import (
	"context"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stsysd/calheat/config"
	"github.com/stsysd/calheat/logging"
)

// NewRootCommand returns the root command with all subcommands attached
func NewRootCommand(fs afero.Fs, ctx context.Context, cfg *config.Config, logger *logging.Logger) *cobra.Command {
	cobra.EnableCommandSorting = false
	rootCmd := &cobra.Command{
		Use:   "calheat",
		Short: "Calendar heatmaps from query results.",
		Long: `calheat turns a dated query result into a calendar heatmap: one row of
seven days per week, one block per year, colored by the measure value.
It runs as an HTTP service or renders SVG/PNG files from the command line.`,
		SilenceUsage: true,
	}
	rootCmd.SetContext(ctx)
	rootCmd.AddCommand(NewServeCommand(fs, ctx, cfg, logger))
	rootCmd.AddCommand(NewRenderCommand(fs, ctx, cfg, logger))
	rootCmd.AddCommand(NewOptionsCommand())
	rootCmd.AddCommand(NewSampleCommand(fs, logger))

	return rootCmd
}
