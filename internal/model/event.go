package model

import "encoding/json"

// EventEntry groups the raw events of one transaction in one block.
type EventEntry struct {
	TxHash      string            `json:"tx_hash,omitempty"`
	BlockHash   string            `json:"block_hash"`
	BlockHeight uint64            `json:"block_height"`
	Events      []json.RawMessage `json:"events"`
}

// EventInfo is a single raw event after splitting an entry.
type EventInfo struct {
	Name        string          `json:"name"`
	BlockHash   string          `json:"block_hash"`
	BlockHeight uint64          `json:"block_height"`
	Index       uint64          `json:"index"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	Raw         json.RawMessage `json:"raw,omitempty"`
}

// EventRecord is a normalized event ready for storage.
type EventRecord struct {
	TxHash      string      `json:"tx_hash"`
	BlockHash   string      `json:"block_hash"`
	BlockHeight uint64      `json:"block_height"`
	Index       uint64      `json:"index"`
	Kind        string      `json:"kind"`
	Severity    string      `json:"severity"`
	Description string      `json:"description"`
	Event       interface{} `json:"event"`
}
