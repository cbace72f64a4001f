package model

// BlobRecord is one blob addressed by its transaction and position.
type BlobRecord struct {
	TxHash       string `json:"tx_hash"`
	BlockHeight  uint64 `json:"block_height"`
	BlobIndex    int    `json:"blob_index"`
	ContractName string `json:"contract_name"`
	Data         string `json:"data"`
}

// DecodedBlob is a blob decoded into its contract action.
type DecodedBlob struct {
	TxHash       string      `json:"tx_hash"`
	BlockHeight  uint64      `json:"block_height"`
	BlobIndex    int         `json:"blob_index"`
	ContractName string      `json:"contract_name"`
	Domain       string      `json:"domain"`
	Version      int         `json:"version"`
	Envelope     string      `json:"envelope"`
	Action       string      `json:"action"`
	ID           string      `json:"id,omitempty"`
	Caller       *uint64     `json:"caller,omitempty"`
	Callees      []uint64    `json:"callees,omitempty"`
	Decoded      interface{} `json:"decoded"`
	FallbackFrom int         `json:"fallback_from,omitempty"`
	Raw          *RawBlobRef `json:"raw,omitempty"`
}

// RawBlobRef keeps the undecoded payload for traceability.
type RawBlobRef struct {
	Data string `json:"data"`
}
