package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ianferguson/contracting-hours/internal/assets"
	"github.com/ianferguson/contracting-hours/internal/config"
	"github.com/ianferguson/contracting-hours/internal/invoice"
	"github.com/ianferguson/contracting-hours/internal/service"
)

func newPreviewCmd(cfg *config.Config) *cobra.Command {
	var client string
	var daysBack int
	var archive bool

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Build the attachment bundle for one client without sending",
		Long: `Build the CSV and PDF invoice for a single client and print where they
were written. Nothing is emailed or uploaded; the bundle directory is
kept so the artifacts can be inspected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			billing, err := loadBilling(ctx, cfg, nil)
			if err != nil {
				return err
			}

			wh, err := newWarehouse(ctx, cfg)
			if err != nil {
				return err
			}
			defer wh.Close()

			builder := assets.NewBuilder(invoice.NewPDFRenderer(), cfg.AssetsDir, cfg.Schema())
			billingService := service.NewBillingService(wh, builder, nil, nil, cfg, billing)

			bundle, zipPath, err := billingService.Preview(ctx, client, daysBack, time.Now(), archive)
			if err != nil {
				return err
			}
			if bundle == nil {
				fmt.Println("No contracting hours found for the specified period.")
				return nil
			}

			fmt.Printf("CSV: %s\n", bundle.CSVPath)
			fmt.Printf("PDF: %s\n", bundle.PDFPath)
			if zipPath != "" {
				fmt.Printf("Zip: %s\n", zipPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&client, "client", "c", "", "Client name from the billing config")
	cmd.Flags().IntVarP(&daysBack, "days-back", "d", cfg.DaysBack, "Number of days back to query for contracting hours")
	cmd.Flags().BoolVarP(&archive, "archive", "a", false, "Also zip the bundle with the attachment naming convention")
	cmd.MarkFlagRequired("client")

	return cmd
}
