package pipeline

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyli-org/explorer/internal/contracts"
	"github.com/hyli-org/explorer/internal/events"
	"github.com/hyli-org/explorer/internal/metrics"
	"github.com/hyli-org/explorer/internal/model"
)

// Output is what one input line produced.
type Output struct {
	BlockHeight uint64
	Blobs       []model.DecodedBlob
	Events      []model.EventRecord
	Errors      []model.DecodeError
	Skipped     int
}

func (o Output) size() int {
	return len(o.Blobs) + len(o.Events) + len(o.Errors)
}

// Processor turns one JSONL input line into output records. An error means
// the line itself could not be parsed; per-item failures go to Output.Errors.
type Processor interface {
	Process(line []byte) (Output, error)
}

// BlobProcessor decodes the blobs of indexer transactions.
type BlobProcessor struct {
	decoder *contracts.BlobDecoder
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewBlobProcessor(decoder *contracts.BlobDecoder, m *metrics.Metrics, logger *zap.Logger) *BlobProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlobProcessor{decoder: decoder, metrics: m, logger: logger}
}

func (p *BlobProcessor) Process(line []byte) (Output, error) {
	var tx model.TransactionInfo
	if err := json.Unmarshal(line, &tx); err != nil {
		return Output{}, fmt.Errorf("parse transaction: %w", err)
	}

	out := Output{BlockHeight: tx.BlockHeight}
	for _, blob := range tx.BlobRecords() {
		if !p.decoder.CanDecode(blob.ContractName) {
			out.Skipped++
			p.metrics.BlobSkipped()
			continue
		}
		decoded, err := p.decoder.Decode(blob)
		if err != nil {
			p.logger.Debug("blob decode failed",
				zap.String("tx", blob.TxHash),
				zap.Int("blob_index", blob.BlobIndex),
				zap.String("contract", blob.ContractName),
				zap.Error(err),
			)
			p.metrics.ActionFailed(blob.ContractName)
			out.Errors = append(out.Errors, decodeErrorFromBlob(blob, err))
			continue
		}
		p.metrics.ActionDecoded(decoded.Domain, decoded.Action)
		out.Blobs = append(out.Blobs, *decoded)
	}
	return out, nil
}

// EventProcessor splits and normalizes indexer event entries.
type EventProcessor struct {
	metrics *metrics.Metrics
}

func NewEventProcessor(m *metrics.Metrics) *EventProcessor {
	return &EventProcessor{metrics: m}
}

func (p *EventProcessor) Process(line []byte) (Output, error) {
	var entry model.EventEntry
	if err := json.Unmarshal(line, &entry); err != nil {
		return Output{}, fmt.Errorf("parse event entry: %w", err)
	}

	out := Output{BlockHeight: entry.BlockHeight}
	infos := events.SplitEntry(entry)
	if dropped := len(entry.Events) - len(infos); dropped > 0 {
		out.Errors = append(out.Errors, model.DecodeError{
			Source:      model.SourceEvent,
			TxHash:      entry.TxHash,
			BlockHeight: entry.BlockHeight,
			Error:       fmt.Sprintf("%d events are not named objects", dropped),
		})
	}
	for _, info := range infos {
		rec := events.Record(entry.TxHash, info)
		p.metrics.EventNormalized(rec.Severity)
		out.Events = append(out.Events, rec)
	}
	return out, nil
}

func decodeErrorFromBlob(blob model.BlobRecord, err error) model.DecodeError {
	return model.DecodeError{
		Source:       model.SourceBlob,
		TxHash:       blob.TxHash,
		BlockHeight:  blob.BlockHeight,
		Index:        blob.BlobIndex,
		ContractName: blob.ContractName,
		Error:        err.Error(),
	}
}
