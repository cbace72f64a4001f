package events

import (
	"encoding/json"
	"testing"
)

func extraString(t *testing.T, ev ProcessedEvent, key string) string {
	t.Helper()
	raw, ok := ev.Extra.Get(key)
	if !ok {
		t.Fatalf("expected extra %q in %+v", key, ev.Extra)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatalf("extra %q is not a string: %s", key, raw)
	}
	return s
}

func TestNormalizeTxErrorPositional(t *testing.T) {
	ev := Normalize("TxError", []byte(`["a1b2c3", "insufficient funds"]`))
	if ev.Kind != "TxError" || ev.TxHash != "a1b2c3" || ev.Error != "insufficient funds" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if len(ev.Extra) != 0 {
		t.Fatalf("expected no extra, got %+v", ev.Extra)
	}
	if got := Classify("TxError"); got != SeverityWarning {
		t.Fatalf("expected warning, got %s", got)
	}
	if got := ClassifyEvent(ev); got != SeverityError {
		t.Fatalf("populated error must classify as error, got %s", got)
	}
}

func TestNormalizeSettled(t *testing.T) {
	ev := Normalize("Settled", []byte(`["deadbeef", {"blobs": [], "identity": "bob@wallet"}]`))
	if ev.TxHash != "deadbeef" {
		t.Fatalf("expected tx hash deadbeef, got %q", ev.TxHash)
	}
	if ev.Error != "" || ev.Reason != "" || len(ev.Extra) != 0 {
		t.Fatalf("unexpected fields: %+v", ev)
	}
	if got := ClassifyEvent(ev); got != SeveritySuccess {
		t.Fatalf("expected success, got %s", got)
	}
}

func TestNormalizeUnknownKindPassthrough(t *testing.T) {
	ev := Normalize("UnknownFutureEvent", []byte(`{"foo": 1}`))
	if ev.Kind != "UnknownFutureEvent" {
		t.Fatalf("kind mismatch: %q", ev.Kind)
	}
	raw, ok := ev.Extra.Get("foo")
	if !ok || string(raw) != "1" {
		t.Fatalf("expected extra foo=1, got %+v", ev.Extra)
	}
	if got := ClassifyEvent(ev); got != SeverityInfo {
		t.Fatalf("expected info, got %s", got)
	}

	ev = Normalize("UnknownFutureEvent", []byte(`[1, "two"]`))
	if raw, ok := ev.Extra.Get("args"); !ok || string(raw) != `[1, "two"]` {
		t.Fatalf("expected args passthrough, got %+v", ev.Extra)
	}
}

func TestNormalizeEmptyPayload(t *testing.T) {
	for _, payload := range []string{"", "  ", "null"} {
		ev := Normalize("Settled", []byte(payload))
		if ev.Kind != "Settled" || ev.TxHash != "" || ev.Extra != nil {
			t.Fatalf("payload %q: expected bare event, got %+v", payload, ev)
		}
	}
}

func TestNormalizeMalformedPayloadPassesThrough(t *testing.T) {
	ev := Normalize("TxError", []byte("oops"))
	if ev.Kind != "TxError" || ev.TxHash != "" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if got := extraString(t, ev, "value"); got != "oops" {
		t.Fatalf("expected raw bytes kept, got %q", got)
	}

	ev = Normalize("UnknownFutureEvent", []byte("{not json"))
	if got := extraString(t, ev, "value"); got != "{not json" {
		t.Fatalf("expected raw bytes kept, got %q", got)
	}
	if got := ClassifyEvent(ev); got != SeverityInfo {
		t.Fatalf("expected info, got %s", got)
	}
}

func TestNormalizeKnownKindWithoutMatchesPassesThrough(t *testing.T) {
	ev := Normalize("Settled", []byte(`{"foo": 1}`))
	if ev.TxHash != "" {
		t.Fatalf("unexpected tx hash %q", ev.TxHash)
	}
	if raw, ok := ev.Extra.Get("foo"); !ok || string(raw) != "1" {
		t.Fatalf("expected extra foo=1, got %+v", ev.Extra)
	}

	ev = Normalize("TxError", []byte(`"oops"`))
	if raw, ok := ev.Extra.Get("value"); !ok || string(raw) != `"oops"` {
		t.Fatalf("expected scalar passthrough, got %+v", ev.Extra)
	}

	ev = Normalize("TimedOut", []byte(`[]`))
	if ev.Reason != "Transaction timed out" {
		t.Fatalf("expected constant reason, got %q", ev.Reason)
	}
	if raw, ok := ev.Extra.Get("args"); !ok || string(raw) != "[]" {
		t.Fatalf("expected args passthrough, got %+v", ev.Extra)
	}
}

func TestNormalizeMissingArguments(t *testing.T) {
	ev := Normalize("SequencedBlobTransaction", []byte(`["abc"]`))
	if ev.TxHash != "abc" {
		t.Fatalf("expected tx hash, got %+v", ev)
	}
	if ev.LaneID != "" || ev.SequenceNumber != nil {
		t.Fatalf("missing arguments must stay empty: %+v", ev)
	}

	ev = Normalize("SequencedBlobTransaction", []byte(`["abc", "lane-1", 42]`))
	if ev.LaneID != "lane-1" || ev.SequenceNumber == nil || *ev.SequenceNumber != 42 {
		t.Fatalf("unexpected sequencing fields: %+v", ev)
	}
}

func TestNormalizeTxHashPair(t *testing.T) {
	ev := Normalize("Settled", []byte(`[["dp0", "tx1"]]`))
	if ev.TxHash != "tx1" {
		t.Fatalf("expected second element of the hash pair, got %q", ev.TxHash)
	}
	ev = Normalize("Settled", []byte(`[{"0": "dp0", "1": "tx2"}]`))
	if ev.TxHash != "tx2" {
		t.Fatalf("expected numeric-keyed pair to resolve, got %q", ev.TxHash)
	}
}

func TestNormalizeNewProof(t *testing.T) {
	payload := `[
		"tx9",
		{"contract_name": "wallet", "data": [1, 2, 255]},
		3,
		[[170, 187], "risc0", "tx8"],
		7
	]`
	ev := Normalize("NewProof", []byte(payload))
	if ev.TxHash != "tx9" || ev.ProgramID != "aabb" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.BlobIndex == nil || *ev.BlobIndex != 3 {
		t.Fatalf("expected blob index 3, got %v", ev.BlobIndex)
	}
	if got := extraString(t, ev, "blobContractName"); got != "wallet" {
		t.Fatalf("blobContractName = %q", got)
	}
	if got := extraString(t, ev, "blobData"); got != "0102ff" {
		t.Fatalf("blobData = %q", got)
	}
	if got := extraString(t, ev, "verifier"); got != "risc0" {
		t.Fatalf("verifier = %q", got)
	}
	if got := extraString(t, ev, "relatedTxHash"); got != "tx8" {
		t.Fatalf("relatedTxHash = %q", got)
	}
	if raw, _ := ev.Extra.Get("proofIndex"); string(raw) != "7" {
		t.Fatalf("proofIndex = %s", raw)
	}
}

func TestNormalizeBlobSettledSuccess(t *testing.T) {
	payload := `["tx1", {}, {"contract_name": "orderbook", "data": "0x0a0b"}, 0, ["0xc0de", "sp1", null, {"success": false}], 2]`
	ev := Normalize("BlobSettled", []byte(payload))
	if ev.Success == nil || *ev.Success {
		t.Fatalf("expected success=false, got %v", ev.Success)
	}
	if ev.ProgramID != "c0de" {
		t.Fatalf("program id = %q", ev.ProgramID)
	}
	if got := extraString(t, ev, "blobData"); got != "0a0b" {
		t.Fatalf("blobData = %q", got)
	}
	// success=false alone does not change the severity
	if got := ClassifyEvent(ev); got != SeveritySuccess {
		t.Fatalf("expected success severity, got %s", got)
	}
}

func TestNormalizeTaggedPayload(t *testing.T) {
	payload := `{"type": "RejectedBlobTransaction", "tx_hash": "ff01", "laneId": "l2", "seq": "11", "salt": "s3cr3t", "note": "x"}`
	ev := Normalize("", []byte(payload))
	if ev.Kind != "RejectedBlobTransaction" {
		t.Fatalf("discriminant not used as kind: %q", ev.Kind)
	}
	if ev.TxHash != "ff01" || ev.LaneID != "l2" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.SequenceNumber == nil || *ev.SequenceNumber != 11 {
		t.Fatalf("expected sequence number 11, got %v", ev.SequenceNumber)
	}
	if ev.Reason != "Transaction rejected during blob processing" {
		t.Fatalf("reason = %q", ev.Reason)
	}
	if got := extraString(t, ev, "salt"); got != Masked {
		t.Fatalf("salt must be masked, got %q", got)
	}
	if got := extraString(t, ev, "note"); got != "x" {
		t.Fatalf("note = %q", got)
	}
	if _, ok := ev.Extra.Get("type"); ok {
		t.Fatalf("discriminant leaked into extra: %+v", ev.Extra)
	}
	if got := ClassifyEvent(ev); got != SeverityWarning {
		t.Fatalf("expected warning, got %s", got)
	}
}

func TestNormalizeRedactsUnknownPassthrough(t *testing.T) {
	ev := Normalize("WalletRegistered", []byte(`{"account": "bob", "invite_code": "abc"}`))
	if got := extraString(t, ev, "invite_code"); got != Masked {
		t.Fatalf("invite_code must be masked, got %q", got)
	}
	if got := extraString(t, ev, "account"); got != "bob" {
		t.Fatalf("account = %q", got)
	}
}

func TestDetectShape(t *testing.T) {
	cases := map[string]Shape{
		`["a"]`:               ShapePositional,
		`{"0": "a"}`:          ShapePositional,
		`{"type": "Settled"}`: ShapeTagged,
		`{"kind": "Settled"}`: ShapeTagged,
		`{"type": ""}`:        ShapePositional,
		`{"type": 3}`:         ShapePositional,
		`"scalar"`:            ShapePositional,
	}
	for raw, want := range cases {
		if got := DetectShape([]byte(raw)).Shape; got != want {
			t.Fatalf("%s: expected %s, got %s", raw, want, got)
		}
	}

	p := DetectShape([]byte(" {not json "))
	if p.Shape != ShapePositional || !p.Malformed || string(p.Raw) != "{not json" || p.Empty() {
		t.Fatalf("unexpected malformed payload: %+v", p)
	}
}

func TestClassifyTable(t *testing.T) {
	cases := map[string]Severity{
		"RejectedBlobTransaction":      SeverityWarning,
		"DuplicateBlobTransaction":     SeverityWarning,
		"TxError":                      SeverityWarning,
		"SettledAsFailed":              SeverityError,
		"TimedOut":                     SeverityError,
		"Settled":                      SeveritySuccess,
		"SequencedBlobTransaction":     SeveritySuccess,
		"SequencedProofTransaction":    SeveritySuccess,
		"NewProof":                     SeveritySuccess,
		"BlobSettled":                  SeveritySuccess,
		"ContractRegistered":           SeveritySuccess,
		"ContractDeleted":              SeverityInfo,
		"ContractTimeoutWindowUpdated": SeverityInfo,
		"":                             SeverityInfo,
	}
	for kind, want := range cases {
		if got := Classify(kind); got != want {
			t.Fatalf("%q: expected %s, got %s", kind, want, got)
		}
	}
}

func TestProcessedEventJSONKeepsExtraOrder(t *testing.T) {
	ev := Normalize("Mystery", []byte(`{"zeta": 1, "alpha": [2], "mid": {"k": "v"}}`))
	out, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"kind":"Mystery","extra":{"zeta":1,"alpha":[2],"mid":{"k":"v"}}}`
	if string(out) != want {
		t.Fatalf("expected %s, got %s", want, out)
	}

	var back ProcessedEvent
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back.Extra) != 3 || back.Extra[0].Key != "zeta" || back.Extra[2].Key != "mid" {
		t.Fatalf("order lost: %+v", back.Extra)
	}
}

func TestKnownKindsCoverTable(t *testing.T) {
	kinds := KnownKinds()
	if len(kinds) != 15 {
		t.Fatalf("expected 15 kinds, got %d: %v", len(kinds), kinds)
	}
	for _, kind := range kinds {
		if Describe(ProcessedEvent{Kind: kind}) == "Event: "+kind {
			t.Fatalf("%s has no description", kind)
		}
	}
}
