package storage

import (
	"context"
	"errors"

	"github.com/hyli-org/explorer/internal/model"
)

// Storage defines a sink for decoded output.
type Storage interface {
	PutDecodedBlobs(ctx context.Context, blobs []model.DecodedBlob) error
	PutEventRecords(ctx context.Context, records []model.EventRecord) error
	PutDecodeErrors(ctx context.Context, errs []model.DecodeError) error
}

// Multi writes every batch to all of its sinks and joins their errors.
type Multi []Storage

func (m Multi) PutDecodedBlobs(ctx context.Context, blobs []model.DecodedBlob) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.PutDecodedBlobs(ctx, blobs))
	}
	return errors.Join(errs...)
}

func (m Multi) PutEventRecords(ctx context.Context, records []model.EventRecord) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.PutEventRecords(ctx, records))
	}
	return errors.Join(errs...)
}

func (m Multi) PutDecodeErrors(ctx context.Context, decodeErrs []model.DecodeError) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.PutDecodeErrors(ctx, decodeErrs))
	}
	return errors.Join(errs...)
}
