package borsh

import (
	"bytes"
	"encoding/json"
	"math"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// NamedValue is one decoded struct field.
type NamedValue struct {
	Name  string
	Value Value
}

// Value is a decoded value tree mirroring its schema.
type Value struct {
	Kind    Kind
	Int     *big.Int
	Width   int
	Signed  bool
	Float   float64
	Bool    bool
	Str     string
	Bytes   []byte
	Items   []Value
	Fields  []NamedValue
	Tag     uint8
	Variant string
	Payload *Value
	Some    *Value
}

// Named pairs a field name with its value.
func Named(name string, v Value) NamedValue {
	return NamedValue{Name: name, Value: v}
}

func NewInt(width int, signed bool, x *big.Int) Value {
	return Value{Kind: KindInt, Width: width, Signed: signed, Int: new(big.Int).Set(x)}
}

func NewUint(width int, x uint64) Value {
	return Value{Kind: KindInt, Width: width, Int: new(big.Int).SetUint64(x)}
}

func NewSint(width int, x int64) Value {
	return Value{Kind: KindInt, Width: width, Signed: true, Int: big.NewInt(x)}
}

func NewFloat(width int, f float64) Value {
	return Value{Kind: KindFloat, Width: width, Float: f}
}

func NewBool(b bool) Value         { return Value{Kind: KindBool, Bool: b} }
func NewString(s string) Value     { return Value{Kind: KindString, Str: s} }
func NewBytes(b []byte) Value      { return Value{Kind: KindBytes, Bytes: b} }
func NewFixedBytes(b []byte) Value { return Value{Kind: KindFixedBytes, Bytes: b} }

func NewVec(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindVec, Items: items}
}

func NewStruct(fields ...NamedValue) Value {
	return Value{Kind: KindStruct, Fields: fields}
}

func NewUnit() Value { return Value{Kind: KindStruct} }

func NewTuple(items ...Value) Value {
	fields := make([]NamedValue, len(items))
	for i, item := range items {
		fields[i] = NamedValue{Name: strconv.Itoa(i), Value: item}
	}
	return NewStruct(fields...)
}

func NewEnum(tag uint8, variant string, payload Value) Value {
	return Value{Kind: KindEnum, Tag: tag, Variant: variant, Payload: &payload}
}

func None() Value { return Value{Kind: KindOption} }

func Some(v Value) Value { return Value{Kind: KindOption, Some: &v} }

// Field returns a struct field by name.
func (v Value) Field(name string) (Value, bool) {
	if v.Kind != KindStruct {
		return Value{}, false
	}
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Index returns the i-th element of a sequence.
func (v Value) Index(i int) (Value, bool) {
	if v.Kind != KindVec || i < 0 || i >= len(v.Items) {
		return Value{}, false
	}
	return v.Items[i], true
}

// Path walks struct fields, enum payloads and options. Enum payloads are
// entered without naming the variant.
func (v Value) Path(names ...string) (Value, bool) {
	cur := v
	for _, name := range names {
		cur = cur.unwrap()
		next, ok := cur.Field(name)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

func (v Value) unwrap() Value {
	for {
		switch {
		case v.Kind == KindEnum && v.Payload != nil:
			v = *v.Payload
		case v.Kind == KindOption && v.Some != nil:
			v = *v.Some
		default:
			return v
		}
	}
}

// With returns a copy of a struct value with the named field replaced.
// Values that are not structs or lack the field are returned unchanged.
func (v Value) With(name string, field Value) Value {
	if v.Kind != KindStruct {
		return v
	}
	out := v
	out.Fields = make([]NamedValue, len(v.Fields))
	copy(out.Fields, v.Fields)
	for i := range out.Fields {
		if out.Fields[i].Name == name {
			out.Fields[i].Value = field
		}
	}
	return out
}

// Uint64 reports the integer as uint64 when it fits.
func (v Value) Uint64() (uint64, bool) {
	if v.Kind != KindInt || v.Int == nil || v.Int.Sign() < 0 || !v.Int.IsUint64() {
		return 0, false
	}
	return v.Int.Uint64(), true
}

// Equal reports deep equality. Integer widths are ignored; floats compare by bits.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindInt:
		if v.Int == nil || o.Int == nil {
			return v.Int == o.Int
		}
		return v.Int.Cmp(o.Int) == 0
	case KindFloat:
		return math.Float64bits(v.Float) == math.Float64bits(o.Float)
	case KindBool:
		return v.Bool == o.Bool
	case KindString:
		return v.Str == o.Str
	case KindFixedBytes, KindBytes:
		return bytes.Equal(v.Bytes, o.Bytes)
	case KindOption:
		if v.Some == nil || o.Some == nil {
			return v.Some == nil && o.Some == nil
		}
		return v.Some.Equal(*o.Some)
	case KindVec:
		if len(v.Items) != len(o.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	case KindStruct:
		if len(v.Fields) != len(o.Fields) {
			return false
		}
		for i := range v.Fields {
			if v.Fields[i].Name != o.Fields[i].Name || !v.Fields[i].Value.Equal(o.Fields[i].Value) {
				return false
			}
		}
		return true
	case KindEnum:
		if v.Tag != o.Tag || v.Variant != o.Variant {
			return false
		}
		if v.Payload == nil || o.Payload == nil {
			return v.Payload == nil && o.Payload == nil
		}
		return v.Payload.Equal(*o.Payload)
	}
	return false
}

// MarshalJSON renders the value with struct fields in declared order.
// Integers wider than 32 bits are rendered as decimal strings and byte
// sequences as lowercase hex.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.Kind {
	case KindInt:
		if v.Int == nil {
			buf.WriteString("null")
			return nil
		}
		if v.Width > 0 && v.Width <= 4 {
			buf.WriteString(v.Int.String())
			return nil
		}
		buf.WriteByte('"')
		buf.WriteString(v.Int.String())
		buf.WriteByte('"')
	case KindFloat:
		if math.IsNaN(v.Float) || math.IsInf(v.Float, 0) {
			return writeJSONString(buf, strconv.FormatFloat(v.Float, 'g', -1, 64))
		}
		buf.WriteString(strconv.FormatFloat(v.Float, 'g', -1, 64))
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case KindString:
		return writeJSONString(buf, v.Str)
	case KindFixedBytes, KindBytes:
		return writeJSONString(buf, common.Bytes2Hex(v.Bytes))
	case KindOption:
		if v.Some == nil {
			buf.WriteString("null")
			return nil
		}
		return v.Some.writeJSON(buf)
	case KindVec:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindStruct:
		buf.WriteByte('{')
		for i, f := range v.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, f.Name); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := f.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindEnum:
		buf.WriteByte('{')
		if err := writeJSONString(buf, v.Variant); err != nil {
			return err
		}
		buf.WriteByte(':')
		if v.Payload == nil {
			buf.WriteString("{}")
		} else if err := v.Payload.writeJSON(buf); err != nil {
			return err
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
