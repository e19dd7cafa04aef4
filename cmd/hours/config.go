package main

import (
	"github.com/spf13/cobra"

	"github.com/ianferguson/contracting-hours/internal/config"
)

func newConfigCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Dump the resolved non-secret configuration",
		Run: func(cmd *cobra.Command, args []string) {
			cfg.Dump()
		},
	}
}
