package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hyli-org/explorer/internal/model"
)

// JsonlPaths names one file per output stream. An empty path drops the stream.
type JsonlPaths struct {
	DecodedBlobs string
	EventRecords string
	DecodeErrors string
}

// JsonlStorage appends records to JSONL files.
type JsonlStorage struct {
	paths JsonlPaths
	mu    sync.Mutex
}

func NewJsonlStorage(paths JsonlPaths) *JsonlStorage {
	return &JsonlStorage{paths: paths}
}

// Truncate empties every configured file, for runs that do not resume.
func (s *JsonlStorage) Truncate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, path := range []string{s.paths.DecodedBlobs, s.paths.EventRecords, s.paths.DecodeErrors} {
		if path == "" {
			continue
		}
		if err := ensureDir(path); err != nil {
			return err
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return fmt.Errorf("truncate %s: %w", path, err)
		}
	}
	return nil
}

// PutDecodedBlobs appends decoded blobs as JSON lines.
func (s *JsonlStorage) PutDecodedBlobs(_ context.Context, blobs []model.DecodedBlob) error {
	return appendJSONL(s, s.paths.DecodedBlobs, "decoded blob", blobs)
}

// PutEventRecords appends event records as JSON lines.
func (s *JsonlStorage) PutEventRecords(_ context.Context, records []model.EventRecord) error {
	return appendJSONL(s, s.paths.EventRecords, "event record", records)
}

// PutDecodeErrors appends decode errors as JSON lines.
func (s *JsonlStorage) PutDecodeErrors(_ context.Context, errs []model.DecodeError) error {
	return appendJSONL(s, s.paths.DecodeErrors, "decode error", errs)
}

func appendJSONL[T any](s *JsonlStorage, path, what string, records []T) error {
	if path == "" || len(records) == 0 {
		return nil
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", what, err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write %s: %w", what, err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}
