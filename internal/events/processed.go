package events

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ProcessedEvent is a raw event with its known arguments named. Absent
// arguments stay empty; it is never mutated after Normalize returns.
type ProcessedEvent struct {
	Kind           string  `json:"kind"`
	TxHash         string  `json:"tx_hash,omitempty"`
	LaneID         string  `json:"lane_id,omitempty"`
	SequenceNumber *uint64 `json:"sequence_number,omitempty"`
	ContractName   string  `json:"contract_name,omitempty"`
	ProgramID      string  `json:"program_id,omitempty"`
	Error          string  `json:"error,omitempty"`
	BlobIndex      *uint64 `json:"blob_index,omitempty"`
	Success        *bool   `json:"success,omitempty"`
	Reason         string  `json:"reason,omitempty"`
	Extra          Extra   `json:"extra,omitempty"`
}

// ExtraField is one passthrough value.
type ExtraField struct {
	Key   string
	Value json.RawMessage
}

// Extra is an insertion-ordered JSON object.
type Extra []ExtraField

// Get returns the raw JSON stored under key.
func (e Extra) Get(key string) (json.RawMessage, bool) {
	for _, f := range e {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

func (e Extra) has(key string) bool {
	_, ok := e.Get(key)
	return ok
}

func (e Extra) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(f.Value) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(f.Value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON keeps the key order of the source object.
func (e *Extra) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*e = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("extra: expected object")
	}
	var out Extra
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		out = append(out, ExtraField{Key: key, Value: raw})
	}
	*e = out
	return nil
}
