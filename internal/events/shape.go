package events

import (
	"bytes"

	"github.com/tidwall/gjson"
)

// Shape tells how an event payload names its arguments.
type Shape uint8

const (
	// ShapePositional payloads are argument lists indexed by position: JSON
	// arrays, objects keyed "0", "1", ... and anything without a discriminant.
	ShapePositional Shape = iota + 1
	// ShapeTagged payloads are objects carrying a "type" or "kind" string.
	ShapeTagged
)

func (s Shape) String() string {
	switch s {
	case ShapeTagged:
		return "tagged"
	case ShapePositional:
		return "positional"
	default:
		return "unknown"
	}
}

// Payload is a raw event payload with its shape resolved.
//
// Malformed payloads are not valid JSON; Raw keeps their bytes.
type Payload struct {
	Shape     Shape
	Raw       []byte
	Malformed bool
	root      gjson.Result
}

// DetectShape classifies raw once; downstream code only switches on Shape.
func DetectShape(raw []byte) Payload {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Payload{Shape: ShapePositional}
	}
	if !gjson.ValidBytes(raw) {
		return Payload{Shape: ShapePositional, Raw: raw, Malformed: true}
	}
	root := gjson.ParseBytes(raw)
	p := Payload{Shape: ShapePositional, Raw: raw, root: root}
	if root.IsObject() {
		for _, key := range []string{"type", "kind"} {
			tag := root.Get(key)
			if tag.Type == gjson.String && tag.Str != "" {
				p.Shape = ShapeTagged
				break
			}
		}
	}
	return p
}

// Empty reports a missing or null payload.
func (p Payload) Empty() bool {
	if p.Malformed {
		return false
	}
	return len(p.Raw) == 0 || p.root.Type == gjson.Null
}

// Discriminant returns the tagged payload's kind, if any.
func (p Payload) Discriminant() string {
	if p.Shape != ShapeTagged {
		return ""
	}
	for _, key := range []string{"type", "kind"} {
		if tag := p.root.Get(key); tag.Type == gjson.String && tag.Str != "" {
			return tag.Str
		}
	}
	return ""
}

func (p Payload) get(path string) gjson.Result {
	if p.Empty() || p.Malformed || path == "" {
		return gjson.Result{}
	}
	return p.root.Get(path)
}
