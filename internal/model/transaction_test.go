package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestTransactionInfoJSONRoundTrip(t *testing.T) {
	index := uint64(3)
	original := TransactionInfo{
		TxHash:            "9f1c",
		BlockHash:         "77aa",
		BlockHeight:       1200,
		TransactionType:   "BlobTransaction",
		TransactionStatus: "Success",
		ParentDPHash:      "dp01",
		Timestamp:         1700000000,
		Index:             &index,
		Identity:          "bob@wallet",
		Blobs: []BlobInfo{
			{ContractName: "wallet", Data: "0a0b"},
			{
				ContractName: "orderbook",
				Data:         "ff",
				ProofOutputs: []HyliOutput{{
					Version:      1,
					InitialState: json.RawMessage(`[1,2]`),
					Identity:     "bob@wallet",
					Index:        1,
					TxHash:       "9f1c",
					Success:      true,
				}},
			},
		},
	}

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		t.Fatalf("unmarshal fields failed: %v", err)
	}
	for _, key := range []string{"tx_hash", "block_hash", "block_height", "parent_dp_hash", "blobs"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("missing field %q in %s", key, b)
		}
	}
	if _, ok := fields["events"]; ok {
		t.Fatalf("empty events must be omitted: %s", b)
	}

	var decoded TransactionInfo
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", original, decoded)
	}
}

func TestBlobRecordsCarryPosition(t *testing.T) {
	tx := TransactionInfo{
		TxHash:      "aa",
		BlockHeight: 9,
		Blobs:       []BlobInfo{{ContractName: "wallet", Data: "01"}, {ContractName: "hyli", Data: "02"}},
	}
	records := tx.BlobRecords()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	want := BlobRecord{TxHash: "aa", BlockHeight: 9, BlobIndex: 1, ContractName: "hyli", Data: "02"}
	if records[1] != want {
		t.Fatalf("unexpected record: %+v", records[1])
	}
}

func TestDecodedBlobOmitsEmptyOptionalFields(t *testing.T) {
	data, err := json.Marshal(DecodedBlob{TxHash: "aa", Domain: "wallet", Action: "VerifyIdentity"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, key := range []string{"id", "caller", "callees", "fallback_from", "raw"} {
		if _, ok := decoded[key]; ok {
			t.Fatalf("%s should be omitted", key)
		}
	}
	if _, ok := decoded["decoded"]; !ok {
		t.Fatalf("decoded should always be present")
	}
}
