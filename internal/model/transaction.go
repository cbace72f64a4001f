package model

import (
	"encoding/json"
)

// TransactionInfo is one transaction as exported by the Hyli indexer.
type TransactionInfo struct {
	TxHash            string      `json:"tx_hash"`
	BlockHash         string      `json:"block_hash"`
	BlockHeight       uint64      `json:"block_height"`
	TransactionType   string      `json:"transaction_type"`
	TransactionStatus string      `json:"transaction_status"`
	ParentDPHash      string      `json:"parent_dp_hash"`
	Timestamp         uint64      `json:"timestamp"`
	Index             *uint64     `json:"index,omitempty"`
	Identity          string      `json:"identity,omitempty"`
	Blobs             []BlobInfo  `json:"blobs,omitempty"`
	Events            []EventInfo `json:"events,omitempty"`
}

// BlobRecords flattens the transaction blobs into decoder input.
func (tx TransactionInfo) BlobRecords() []BlobRecord {
	out := make([]BlobRecord, 0, len(tx.Blobs))
	for i, blob := range tx.Blobs {
		out = append(out, BlobRecord{
			TxHash:       tx.TxHash,
			BlockHeight:  tx.BlockHeight,
			BlobIndex:    i,
			ContractName: blob.ContractName,
			Data:         blob.Data,
		})
	}
	return out
}

// BlobInfo is a contract-addressed payload attached to a transaction.
// Data is hex encoded.
type BlobInfo struct {
	ContractName string       `json:"contract_name"`
	Data         string       `json:"data"`
	ProofOutputs []HyliOutput `json:"proof_outputs,omitempty"`
}

// HyliOutput is the public output of a blob proof. Byte arrays are kept raw.
type HyliOutput struct {
	Version        uint32          `json:"version"`
	InitialState   json.RawMessage `json:"initial_state,omitempty"`
	NextState      json.RawMessage `json:"next_state,omitempty"`
	Identity       string          `json:"identity"`
	Index          uint64          `json:"index"`
	Blobs          json.RawMessage `json:"blobs,omitempty"`
	TxHash         string          `json:"tx_hash"`
	Success        bool            `json:"success"`
	TxCtx          json.RawMessage `json:"tx_ctx,omitempty"`
	OnchainEffects json.RawMessage `json:"onchain_effects,omitempty"`
	ProgramOutputs json.RawMessage `json:"program_outputs,omitempty"`
}
