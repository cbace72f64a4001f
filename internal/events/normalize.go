package events

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/tidwall/gjson"
)

// Masked replaces sensitive passthrough values.
const Masked = "***"

var redactedKeys = map[string]struct{}{
	"salt":        {},
	"invite_code": {},
	"inviteCode":  {},
}

// skipped keys carry the discriminant or the position of the event itself.
var skippedKeys = map[string]struct{}{
	"type":  {},
	"kind":  {},
	"index": {},
}

// Normalize names the arguments of one raw event. It never fails: missing
// arguments are left empty, and unknown kinds or payloads none of whose
// arguments match keep their whole payload under Extra.
func Normalize(kind string, raw []byte) ProcessedEvent {
	return NormalizePayload(kind, DetectShape(raw))
}

// NormalizePayload is Normalize for an already classified payload.
func NormalizePayload(kind string, p Payload) ProcessedEvent {
	if kind == "" {
		kind = p.Discriminant()
	}
	ev := ProcessedEvent{Kind: kind}
	if p.Empty() {
		return ev
	}

	spec, known := extractionTable[kind]
	if !known || p.Malformed {
		ev.Extra = passthrough(p)
		return ev
	}

	consumed := make(map[string]struct{})
	var extras Extra
	matched := 0
	for _, f := range spec.fields {
		result, key := lookup(p, f)
		if !result.Exists() {
			continue
		}
		matched++
		if key != "" {
			consumed[key] = struct{}{}
		}
		ev.assign(f, result, &extras)
	}
	ev.Reason = spec.reason
	if matched == 0 {
		ev.Extra = passthrough(p)
		return ev
	}

	if p.Shape == ShapeTagged {
		p.root.ForEach(func(k, v gjson.Result) bool {
			key := k.String()
			if _, skip := skippedKeys[key]; skip {
				return true
			}
			if _, done := consumed[key]; done || extras.has(key) {
				return true
			}
			extras = append(extras, ExtraField{Key: key, Value: rawValue(key, v)})
			return true
		})
	}
	ev.Extra = extras
	return ev
}

func lookup(p Payload, f fieldSpec) (gjson.Result, string) {
	if p.Shape != ShapeTagged {
		return p.get(f.path), ""
	}
	keys := f.keys
	if f.target != targetExtra {
		keys = taggedAliases[f.target]
	}
	for _, key := range keys {
		if r := p.root.Get(key); r.Exists() {
			return r, key
		}
	}
	return gjson.Result{}, ""
}

func (ev *ProcessedEvent) assign(f fieldSpec, r gjson.Result, extras *Extra) {
	switch f.target {
	case targetTxHash:
		ev.TxHash, _ = coerceString(r, f.coerce)
	case targetLaneID:
		ev.LaneID, _ = coerceString(r, f.coerce)
	case targetContractName:
		ev.ContractName, _ = coerceString(r, f.coerce)
	case targetProgramID:
		ev.ProgramID, _ = coerceString(r, f.coerce)
	case targetError:
		ev.Error, _ = coerceString(r, f.coerce)
	case targetSequenceNumber:
		if n, ok := toUint(r); ok {
			ev.SequenceNumber = &n
		}
	case targetBlobIndex:
		if n, ok := toUint(r); ok {
			ev.BlobIndex = &n
		}
	case targetSuccess:
		if r.Type == gjson.True || r.Type == gjson.False {
			b := r.Bool()
			ev.Success = &b
		}
	case targetExtra:
		if value, ok := coerceRaw(r, f.coerce); ok {
			*extras = append(*extras, ExtraField{Key: f.extra, Value: value})
		}
	}
}

func coerceString(r gjson.Result, c coercion) (string, bool) {
	switch c {
	case asString:
		if r.Type == gjson.String {
			return r.Str, true
		}
	case asHash:
		return toHash(r)
	case asHex:
		return toHex(r)
	}
	return "", false
}

func coerceRaw(r gjson.Result, c coercion) (json.RawMessage, bool) {
	switch c {
	case asString, asHash, asHex:
		s, ok := coerceString(r, c)
		if !ok {
			return nil, false
		}
		b, _ := json.Marshal(s)
		return b, true
	case asUint:
		n, ok := toUint(r)
		if !ok {
			return nil, false
		}
		return json.RawMessage(strconv.FormatUint(n, 10)), true
	case asBool:
		if r.Type == gjson.True || r.Type == gjson.False {
			return json.RawMessage(strconv.FormatBool(r.Bool())), true
		}
		return nil, false
	default:
		if r.Type == gjson.Null || r.Raw == "" {
			return nil, false
		}
		return json.RawMessage(r.Raw), true
	}
}

// toHash accepts a hash string or a (data proposal hash, tx hash) pair.
func toHash(r gjson.Result) (string, bool) {
	switch {
	case r.Type == gjson.String:
		return r.Str, r.Str != ""
	case r.IsArray() || r.IsObject():
		if inner := r.Get("1"); inner.Type == gjson.String {
			return inner.Str, inner.Str != ""
		}
		if inner := r.Get("tx_hash"); inner.Type == gjson.String {
			return inner.Str, inner.Str != ""
		}
	}
	return "", false
}

func toUint(r gjson.Result) (uint64, bool) {
	switch r.Type {
	case gjson.Number:
		n, err := strconv.ParseUint(r.Raw, 10, 64)
		return n, err == nil
	case gjson.String:
		n, err := strconv.ParseUint(r.Str, 10, 64)
		return n, err == nil
	}
	return 0, false
}

// toHex renders a byte array or a hex string as lowercase hex without prefix.
func toHex(r gjson.Result) (string, bool) {
	switch {
	case r.Type == gjson.String:
		s := strings.TrimSpace(r.Str)
		if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
			s = "0x" + s
		}
		b, err := hexutil.Decode(s)
		if err != nil {
			return "", false
		}
		return common.Bytes2Hex(b), true
	case r.IsArray():
		items := r.Array()
		b := make([]byte, 0, len(items))
		for _, item := range items {
			if item.Type != gjson.Number {
				return "", false
			}
			n, err := strconv.ParseUint(item.Raw, 10, 8)
			if err != nil {
				return "", false
			}
			b = append(b, byte(n))
		}
		return common.Bytes2Hex(b), true
	}
	return "", false
}

func passthrough(p Payload) Extra {
	switch {
	case p.Malformed:
		b, _ := json.Marshal(string(p.Raw))
		return Extra{{Key: "value", Value: b}}
	case p.root.IsObject():
		var out Extra
		p.root.ForEach(func(k, v gjson.Result) bool {
			key := k.String()
			if p.Shape == ShapeTagged && (key == "type" || key == "kind") {
				return true
			}
			out = append(out, ExtraField{Key: key, Value: rawValue(key, v)})
			return true
		})
		return out
	case p.root.IsArray():
		return Extra{{Key: "args", Value: json.RawMessage(p.root.Raw)}}
	default:
		return Extra{{Key: "value", Value: json.RawMessage(p.root.Raw)}}
	}
}

func rawValue(key string, v gjson.Result) json.RawMessage {
	if _, ok := redactedKeys[key]; ok {
		b, _ := json.Marshal(Masked)
		return b
	}
	return json.RawMessage(v.Raw)
}
