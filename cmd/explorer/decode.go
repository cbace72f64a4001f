package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyli-org/explorer/internal/config"
	"github.com/hyli-org/explorer/internal/contracts"
	"github.com/hyli-org/explorer/internal/metrics"
	"github.com/hyli-org/explorer/internal/pipeline"
	"github.com/hyli-org/explorer/internal/storage"
)

func runDecode(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadDecode(cfgFile, cmd.Flags())
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

	decoder, err := contracts.NewBlobDecoder(contracts.NewRegistry(), contracts.BlobDecoderConfig{
		ContractMap:     cfg.ContractMap,
		VersionFallback: cfg.VersionFallback,
		IncludeRaw:      cfg.IncludeRaw,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("decode start",
		zap.String("in", cfg.In),
		zap.String("out", cfg.Out),
		zap.String("errors", cfg.Errors),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.String("checkpoint", cfg.Checkpoint),
		zap.Int("contract_routes", len(cfg.ContractMap)),
		zap.Bool("version_fallback", cfg.VersionFallback),
	)

	paths := storage.JsonlPaths{DecodedBlobs: cfg.Out, DecodeErrors: cfg.Errors}
	return runPipeline(ctx, cfg.Common, paths, func(m *metrics.Metrics) pipeline.Processor {
		return pipeline.NewBlobProcessor(decoder, m, logger)
	}, logger)
}
