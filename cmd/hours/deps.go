package main

import (
	"context"

	"github.com/ianferguson/contracting-hours/internal/config"
	"github.com/ianferguson/contracting-hours/internal/storage"
	"github.com/ianferguson/contracting-hours/internal/warehouse"
)

// loadBilling resolves the client and company maps. Production reads the
// config blob from the assets bucket when a storage client is supplied;
// otherwise the untracked local JSON file is used.
func loadBilling(ctx context.Context, cfg *config.Config, gcs *storage.GCS) (*config.Billing, error) {
	if !cfg.IsProduction() || gcs == nil {
		return config.LoadBillingFile(cfg.ConfigPath)
	}

	data, err := gcs.Download(ctx, cfg.ConfigBlob)
	if err != nil {
		return nil, err
	}
	return config.ParseBilling(data)
}

func newWarehouse(ctx context.Context, cfg *config.Config) (warehouse.Warehouse, error) {
	if cfg.IsProduction() {
		return warehouse.NewBigQuery(ctx, cfg.BigQueryProject, cfg.Schema())
	}
	return warehouse.NewSQL(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.Schema())
}
