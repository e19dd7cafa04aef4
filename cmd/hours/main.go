package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ianferguson/contracting-hours/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	rootCmd := newRootCmd(cfg)
	return rootCmd.ExecuteContext(context.Background())
}
