package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/hyli-org/explorer/internal/config"
	"github.com/hyli-org/explorer/internal/metrics"
	"github.com/hyli-org/explorer/internal/pipeline"
	"github.com/hyli-org/explorer/internal/storage"
	"github.com/hyli-org/explorer/internal/storage/postgres"
)

// freshState ignores the stored checkpoint but still records progress.
type freshState struct {
	pipeline.StateStore
}

func (freshState) Load(context.Context) (uint64, bool, error) {
	return 0, false, nil
}

// runPipeline wires sinks, checkpoint state and metrics around one processor.
func runPipeline(ctx context.Context, cfg config.Common, paths storage.JsonlPaths, newProcessor func(*metrics.Metrics) pipeline.Processor, logger *zap.Logger) error {
	var m *metrics.Metrics
	if cfg.MetricsAddr != "" {
		m = metrics.Init()
		stopMetrics := serveMetrics(cfg.MetricsAddr, logger)
		defer stopMetrics()
	}

	var sinks storage.Multi
	if paths.DecodedBlobs != "" || paths.EventRecords != "" || paths.DecodeErrors != "" {
		jsonl := storage.NewJsonlStorage(paths)
		if !cfg.Resume {
			if err := jsonl.Truncate(); err != nil {
				return err
			}
		}
		sinks = append(sinks, jsonl)
	}

	var store *postgres.Store
	if cfg.PGDSN != "" {
		var err error
		store, err = postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		sinks = append(sinks, store)
	}

	var state pipeline.StateStore
	switch {
	case cfg.Checkpoint != "":
		state = &pipeline.FileStateStore{Path: cfg.Checkpoint}
	case store != nil:
		state = &pipeline.DBStateStore{Store: store, Name: cfg.StateName}
	}
	if state != nil && !cfg.Resume {
		state = freshState{state}
	}

	input, closeInput, err := openInput(cfg.In)
	if err != nil {
		return err
	}
	defer closeInput()

	runner := pipeline.NewRunner(pipeline.RunConfig{
		BatchSize: cfg.BatchSize,
		Retry: pipeline.RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  cfg.RetryBackoff,
		},
	}, newProcessor(m), sinks, state, m, logger)

	start := time.Now()
	stats, err := runner.Run(ctx, input)
	logger.Info("run complete",
		zap.Int("lines", stats.Lines),
		zap.Int("resumed", stats.Resumed),
		zap.Int("records", stats.Records),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
		zap.Int("batches", stats.Batches),
		zap.Uint64("last_height", stats.LastHeight),
		zap.Duration("elapsed", time.Since(start)),
	)
	return err
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return file, func() { file.Close() }, nil
}

func serveMetrics(addr string, logger *zap.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("metrics listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
