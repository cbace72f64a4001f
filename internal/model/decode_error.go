package model

// DecodeError records a failure for a blob or an input line.
type DecodeError struct {
	Source       string `json:"source"`
	TxHash       string `json:"tx_hash"`
	BlockHeight  uint64 `json:"block_height"`
	Index        int    `json:"index"`
	ContractName string `json:"contract_name,omitempty"`
	Error        string `json:"error"`
}

const (
	SourceBlob  = "blob"
	SourceEvent = "event"
	SourceInput = "input"
)
