package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ianferguson/contracting-hours/internal/assets"
	"github.com/ianferguson/contracting-hours/internal/config"
)

func newNameCmd(cfg *config.Config) *cobra.Command {
	var client string
	var daysBack int

	cmd := &cobra.Command{
		Use:   "name",
		Short: "Print the attachment naming convention for a client",
		RunE: func(cmd *cobra.Command, args []string) error {
			billing, err := loadBilling(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}

			name, err := assets.AttachmentName(billing.Company.Short(), client, daysBack, time.Now())
			if err != nil {
				return err
			}

			fmt.Println(name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&client, "client", "c", "", "Client name")
	cmd.Flags().IntVarP(&daysBack, "days-back", "d", cfg.DaysBack, "Number of days back the window covers")
	cmd.MarkFlagRequired("client")

	return cmd
}
