package postgres

import (
	"context"
	"strings"
	"testing"
)

func TestNewStoreRequiresDSN(t *testing.T) {
	if _, err := NewStore(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}

func TestSchemaDeclaresTables(t *testing.T) {
	for _, table := range []string{"decoded_blobs", "processed_events", "decode_errors", "indexer_state"} {
		if !strings.Contains(Schema, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Fatalf("schema missing %s", table)
		}
	}
}

func TestStateTableStoresBlockHeight(t *testing.T) {
	if !strings.Contains(Schema, "last_processed_block  BIGINT NOT NULL") {
		t.Fatalf("indexer_state must keep the last processed block height")
	}
	if strings.Contains(Schema, "last_processed_ts") {
		t.Fatalf("indexer_state must not declare a timestamp checkpoint")
	}
}

func TestNullHelpers(t *testing.T) {
	if nullString("") != nil || nullInt(0) != nil {
		t.Fatalf("zero values must map to NULL")
	}
	if got := nullString("x"); got == nil || *got != "x" {
		t.Fatalf("nullString(x) = %v", got)
	}
	if got := nullInt(3); got == nil || *got != 3 {
		t.Fatalf("nullInt(3) = %v", got)
	}
}
