package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ianferguson/contracting-hours/internal/assets"
	"github.com/ianferguson/contracting-hours/internal/config"
	"github.com/ianferguson/contracting-hours/internal/email"
	"github.com/ianferguson/contracting-hours/internal/invoice"
	"github.com/ianferguson/contracting-hours/internal/service"
	"github.com/ianferguson/contracting-hours/internal/storage"
	"github.com/ianferguson/contracting-hours/pkg/resend"
)

func newRunCmd(cfg *config.Config) *cobra.Command {
	var daysBack int
	var bucket string
	var keep bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the billing pipeline for all configured clients",
		Long: `For each configured client: query contracting hours for the trailing
window, build the CSV and PDF invoice attachments, email them to the
client contact, and archive copies to cloud storage. Clients with no
hours in the window are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if bucket != "" {
				cfg.BucketName = bucket
			}
			if err := cfg.ValidateRun(); err != nil {
				return err
			}

			// One reference time for the whole run.
			ref := time.Now()

			gcs, err := storage.NewGCS(ctx, cfg.BucketName)
			if err != nil {
				return err
			}

			billing, err := loadBilling(ctx, cfg, gcs)
			if err != nil {
				return err
			}

			wh, err := newWarehouse(ctx, cfg)
			if err != nil {
				return err
			}
			defer wh.Close()

			builder := assets.NewBuilder(invoice.NewPDFRenderer(), cfg.AssetsDir, cfg.Schema())
			sender := email.NewResendSender(resend.New(cfg.ResendAPIKey), cfg.SenderAddress)

			billingService := service.NewBillingService(wh, builder, sender, gcs, cfg, billing)
			if err := billingService.Run(ctx, service.RunOptions{
				DaysBack:   daysBack,
				KeepAssets: keep,
				Ref:        ref,
			}); err != nil {
				return fmt.Errorf("pipeline finished with failures: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&daysBack, "days-back", "d", cfg.DaysBack, "Number of days back to query for contracting hours")
	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "GCS bucket for email assets (default: GCS_BUCKET_NAME)")
	cmd.Flags().BoolVarP(&keep, "keep", "k", false, "Keep the generated attachment directories for audit")

	return cmd
}
