package main

import (
	"github.com/spf13/cobra"

	"github.com/ianferguson/contracting-hours/internal/config"
	"github.com/ianferguson/contracting-hours/internal/logger"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "hours",
		Short: "Automated contracting hours billing",
		Long: `Query contracting hours from the warehouse, build a CSV and PDF invoice
for each configured client, email them to the client contact, and archive
copies to cloud storage.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetVerbose(verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newRunCmd(cfg),
		newPreviewCmd(cfg),
		newNameCmd(cfg),
		newConfigCmd(cfg),
	)

	return rootCmd
}
