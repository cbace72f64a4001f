package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyli-org/explorer/internal/config"
	"github.com/hyli-org/explorer/internal/metrics"
	"github.com/hyli-org/explorer/internal/pipeline"
	"github.com/hyli-org/explorer/internal/storage"
)

func runEvents(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadEvents(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("events start",
		zap.String("in", cfg.In),
		zap.String("out", cfg.Out),
		zap.String("errors", cfg.Errors),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.String("checkpoint", cfg.Checkpoint),
	)

	paths := storage.JsonlPaths{EventRecords: cfg.Out, DecodeErrors: cfg.Errors}
	return runPipeline(ctx, cfg.Common, paths, func(m *metrics.Metrics) pipeline.Processor {
		return pipeline.NewEventProcessor(m)
	}, logger)
}
