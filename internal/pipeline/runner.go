package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/hyli-org/explorer/internal/metrics"
	"github.com/hyli-org/explorer/internal/model"
	"github.com/hyli-org/explorer/internal/storage"
)

const maxLineSize = 10 * 1024 * 1024

// RunConfig holds runtime settings for a pipeline run.
type RunConfig struct {
	// BatchSize is the number of output records buffered before a flush.
	// Flushes only happen at block boundaries.
	BatchSize int
	Retry     RetryPolicy
}

// Stats summarizes a run.
type Stats struct {
	Lines      int
	Resumed    int
	Records    int
	Skipped    int
	Failed     int
	Batches    int
	LastHeight uint64
}

// Runner streams JSONL input through a Processor into storage. Input lines
// must be ordered by block height; the checkpoint is the highest block whose
// output has been fully flushed.
type Runner struct {
	cfg       RunConfig
	processor Processor
	storage   storage.Storage
	state     StateStore
	metrics   *metrics.Metrics
	logger    *zap.Logger

	pending       Output
	pendingHeight uint64
	pendingAny    bool
}

// NewRunner builds a Runner with its dependencies. state may be nil.
func NewRunner(cfg RunConfig, processor Processor, sink storage.Storage, state StateStore, m *metrics.Metrics, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:       cfg,
		processor: processor,
		storage:   sink,
		state:     state,
		metrics:   m,
		logger:    logger,
	}
}

// Run consumes input until EOF or cancellation.
func (r *Runner) Run(ctx context.Context, input io.Reader) (Stats, error) {
	var stats Stats
	if r.processor == nil {
		return stats, fmt.Errorf("processor is nil")
	}
	if r.storage == nil {
		return stats, fmt.Errorf("storage is nil")
	}
	if r.cfg.BatchSize <= 0 {
		return stats, fmt.Errorf("batch size must be greater than zero")
	}

	var resumeFrom uint64
	resuming := false
	if r.state != nil {
		last, ok, err := r.state.Load(ctx)
		if err != nil {
			return stats, fmt.Errorf("load checkpoint: %w", err)
		}
		if ok {
			resumeFrom, resuming = last, true
			stats.LastHeight = last
			r.pendingHeight = last
			r.logger.Info("resume from checkpoint", zap.Uint64("last_processed", last))
		}
	}

	scanner := bufio.NewScanner(input)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		stats.Lines++
		r.metrics.LineRead()

		out, err := r.processor.Process(line)
		if err != nil {
			stats.Failed++
			r.logger.Debug("skip unparseable line", zap.Int("line", lineNo), zap.Error(err))
			out = Output{
				BlockHeight: r.pendingHeight,
				Errors:      []model.DecodeError{{Source: model.SourceInput, Index: lineNo, Error: err.Error()}},
			}
		} else if resuming && out.BlockHeight <= resumeFrom {
			stats.Resumed++
			continue
		}

		if r.pendingAny && out.BlockHeight != r.pendingHeight && r.pending.size() >= r.cfg.BatchSize {
			if err := r.flush(ctx, &stats); err != nil {
				return stats, err
			}
		}
		r.add(out, &stats)
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("scan input: %w", err)
	}

	if r.pendingAny {
		if err := r.flush(ctx, &stats); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (r *Runner) add(out Output, stats *Stats) {
	stats.Records += len(out.Blobs) + len(out.Events)
	stats.Skipped += out.Skipped
	stats.Failed += countItemErrors(out.Errors)

	r.pending.Blobs = append(r.pending.Blobs, out.Blobs...)
	r.pending.Events = append(r.pending.Events, out.Events...)
	r.pending.Errors = append(r.pending.Errors, out.Errors...)
	if !r.pendingAny || out.BlockHeight > r.pendingHeight {
		r.pendingHeight = out.BlockHeight
	}
	r.pendingAny = true
}

func countItemErrors(errs []model.DecodeError) int {
	n := 0
	for _, e := range errs {
		if e.Source != model.SourceInput {
			n++
		}
	}
	return n
}

func (r *Runner) flush(ctx context.Context, stats *Stats) error {
	onRetry := func(attempt int, err error) {
		r.metrics.SinkRetried()
		r.logger.Warn("sink write failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
	}

	batch := r.pending
	if err := withRetry(ctx, r.cfg.Retry, onRetry, func(ctx context.Context) error {
		return r.storage.PutDecodedBlobs(ctx, batch.Blobs)
	}); err != nil {
		return fmt.Errorf("store decoded blobs: %w", err)
	}
	if err := withRetry(ctx, r.cfg.Retry, onRetry, func(ctx context.Context) error {
		return r.storage.PutEventRecords(ctx, batch.Events)
	}); err != nil {
		return fmt.Errorf("store event records: %w", err)
	}
	if err := withRetry(ctx, r.cfg.Retry, onRetry, func(ctx context.Context) error {
		return r.storage.PutDecodeErrors(ctx, batch.Errors)
	}); err != nil {
		return fmt.Errorf("store decode errors: %w", err)
	}

	height := r.pendingHeight
	if height < stats.LastHeight {
		height = stats.LastHeight
	}
	if r.state != nil {
		if err := r.state.Save(ctx, height); err != nil {
			return fmt.Errorf("save checkpoint: %w", err)
		}
	}
	r.metrics.BatchFlushed()
	r.metrics.Checkpoint(height)
	stats.Batches++
	stats.LastHeight = height

	r.logger.Debug("batch complete",
		zap.Int("blobs", len(batch.Blobs)),
		zap.Int("events", len(batch.Events)),
		zap.Int("errors", len(batch.Errors)),
		zap.Uint64("height", height),
	)

	r.pending = Output{}
	r.pendingAny = false
	return nil
}
