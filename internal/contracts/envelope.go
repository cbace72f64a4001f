package contracts

import (
	"fmt"

	"github.com/hyli-org/explorer/internal/borsh"
)

// Envelope is the outer wire structure wrapping an action.
type Envelope uint8

const (
	EnvelopeBare Envelope = iota + 1
	EnvelopeIDTupled
	EnvelopeStructuredBlob
	EnvelopeStructuredBlobIDTupled
)

func (e Envelope) String() string {
	switch e {
	case EnvelopeBare:
		return "bare"
	case EnvelopeIDTupled:
		return "id_tupled"
	case EnvelopeStructuredBlob:
		return "structured_blob"
	case EnvelopeStructuredBlobIDTupled:
		return "structured_blob_id_tupled"
	default:
		return fmt.Sprintf("envelope(%d)", uint8(e))
	}
}

func (e Envelope) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// StructuredBlob is the runtime's structured blob envelope:
// {caller: Option<BlobIndex>, callees: Option<Vec<BlobIndex>>, parameters}.
func StructuredBlob(parameters *borsh.Schema) *borsh.Schema {
	return borsh.Struct(
		borsh.F("caller", borsh.Option(borsh.U64())),
		borsh.F("callees", borsh.Option(borsh.Vec(borsh.U64()))),
		borsh.F("parameters", parameters),
	)
}

// WithID wraps an action in a (u128 id, action) tuple.
func WithID(action *borsh.Schema) *borsh.Schema {
	return borsh.Tuple(borsh.U128(), action)
}

// Wrap returns the full wire schema of action under envelope e.
func Wrap(e Envelope, action *borsh.Schema) *borsh.Schema {
	switch e {
	case EnvelopeIDTupled:
		return WithID(action)
	case EnvelopeStructuredBlob:
		return StructuredBlob(action)
	case EnvelopeStructuredBlobIDTupled:
		return StructuredBlob(WithID(action))
	default:
		return action
	}
}

// unwrapped is the action extracted from its envelope plus the envelope header.
type unwrapped struct {
	action  borsh.Value
	id      string
	caller  *uint64
	callees []uint64
}

func unwrap(e Envelope, v borsh.Value) (unwrapped, error) {
	var out unwrapped
	switch e {
	case EnvelopeBare:
		out.action = v
		return out, nil
	case EnvelopeIDTupled:
		return splitID(v)
	case EnvelopeStructuredBlob, EnvelopeStructuredBlobIDTupled:
		params, ok := v.Field("parameters")
		if !ok {
			return out, fmt.Errorf("structured blob without parameters")
		}
		if e == EnvelopeStructuredBlobIDTupled {
			var err error
			out, err = splitID(params)
			if err != nil {
				return out, err
			}
		} else {
			out.action = params
		}
		if caller, ok := v.Field("caller"); ok && caller.Some != nil {
			if idx, ok := caller.Some.Uint64(); ok {
				out.caller = &idx
			}
		}
		if callees, ok := v.Field("callees"); ok && callees.Some != nil {
			out.callees = make([]uint64, 0, len(callees.Some.Items))
			for _, item := range callees.Some.Items {
				if idx, ok := item.Uint64(); ok {
					out.callees = append(out.callees, idx)
				}
			}
		}
		return out, nil
	}
	return out, fmt.Errorf("unsupported envelope %s", e)
}

func splitID(v borsh.Value) (unwrapped, error) {
	id, okID := v.Field("0")
	action, okAction := v.Field("1")
	if !okID || !okAction || id.Int == nil {
		return unwrapped{}, fmt.Errorf("malformed id tuple")
	}
	return unwrapped{action: action, id: id.Int.String()}, nil
}
