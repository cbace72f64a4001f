package borsh

import (
	"fmt"
	"strings"
)

// Kind identifies the shape of a schema node or decoded value.
type Kind uint8

const (
	KindInt Kind = iota + 1
	KindFloat
	KindBool
	KindString
	KindFixedBytes
	KindBytes
	KindOption
	KindVec
	KindStruct
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindFixedBytes:
		return "fixed_bytes"
	case KindBytes:
		return "bytes"
	case KindOption:
		return "option"
	case KindVec:
		return "vec"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Field is a named struct field or enum variant. Order is part of the wire format.
type Field struct {
	Name   string
	Schema *Schema
}

// Schema describes how a value is laid out on the wire.
// Schemas are built once and never mutated.
type Schema struct {
	Kind   Kind
	Width  int
	Signed bool
	Len    int
	Elem   *Schema
	Fields []Field
	Tuple  bool
}

// F builds a struct field or an enum variant.
func F(name string, s *Schema) Field {
	return Field{Name: name, Schema: s}
}

func intSchema(width int, signed bool) *Schema {
	return &Schema{Kind: KindInt, Width: width, Signed: signed}
}

func U8() *Schema   { return intSchema(1, false) }
func U16() *Schema  { return intSchema(2, false) }
func U32() *Schema  { return intSchema(4, false) }
func U64() *Schema  { return intSchema(8, false) }
func U128() *Schema { return intSchema(16, false) }
func I8() *Schema   { return intSchema(1, true) }
func I16() *Schema  { return intSchema(2, true) }
func I32() *Schema  { return intSchema(4, true) }
func I64() *Schema  { return intSchema(8, true) }
func I128() *Schema { return intSchema(16, true) }

func F32() *Schema { return &Schema{Kind: KindFloat, Width: 4} }
func F64() *Schema { return &Schema{Kind: KindFloat, Width: 8} }

func Bool() *Schema   { return &Schema{Kind: KindBool} }
func String() *Schema { return &Schema{Kind: KindString} }

// FixedBytes is exactly n raw bytes with no length prefix.
func FixedBytes(n int) *Schema { return &Schema{Kind: KindFixedBytes, Len: n} }

// Bytes is a u32 length prefix followed by raw bytes.
func Bytes() *Schema { return &Schema{Kind: KindBytes} }

func Option(inner *Schema) *Schema { return &Schema{Kind: KindOption, Elem: inner} }
func Vec(inner *Schema) *Schema    { return &Schema{Kind: KindVec, Elem: inner} }

func Struct(fields ...Field) *Schema {
	return &Schema{Kind: KindStruct, Fields: fields}
}

// Unit is an empty struct; it occupies zero bytes.
func Unit() *Schema { return Struct() }

// Tuple is a struct whose fields are named by position ("0", "1", ...).
func Tuple(items ...*Schema) *Schema {
	fields := make([]Field, len(items))
	for i, item := range items {
		fields[i] = Field{Name: fmt.Sprintf("%d", i), Schema: item}
	}
	return &Schema{Kind: KindStruct, Fields: fields, Tuple: true}
}

func Enum(variants ...Field) *Schema {
	return &Schema{Kind: KindEnum, Fields: variants}
}

// Variant returns the index of the named variant, or -1.
func (s *Schema) Variant(name string) int {
	if s == nil || s.Kind != KindEnum {
		return -1
	}
	for i, v := range s.Fields {
		if v.Name == name {
			return i
		}
	}
	return -1
}

// Lookup returns the schema of the named struct field.
func (s *Schema) Lookup(name string) (*Schema, bool) {
	if s == nil || s.Kind != KindStruct {
		return nil, false
	}
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Schema, true
		}
	}
	return nil, false
}

// ZeroSized reports whether every value of s encodes to zero bytes: unit,
// empty fixed byte arrays and structs made only of those.
func (s *Schema) ZeroSized() bool {
	if s == nil {
		return false
	}
	switch s.Kind {
	case KindFixedBytes:
		return s.Len == 0
	case KindStruct:
		for _, f := range s.Fields {
			if !f.Schema.ZeroSized() {
				return false
			}
		}
		return true
	}
	return false
}

func (s *Schema) String() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s *Schema) write(b *strings.Builder) {
	if s == nil {
		b.WriteString("<nil>")
		return
	}
	switch s.Kind {
	case KindInt:
		if s.Signed {
			fmt.Fprintf(b, "i%d", s.Width*8)
		} else {
			fmt.Fprintf(b, "u%d", s.Width*8)
		}
	case KindFloat:
		fmt.Fprintf(b, "f%d", s.Width*8)
	case KindBool:
		b.WriteString("bool")
	case KindString:
		b.WriteString("String")
	case KindFixedBytes:
		fmt.Fprintf(b, "[u8; %d]", s.Len)
	case KindBytes:
		b.WriteString("Vec<u8>")
	case KindOption:
		b.WriteString("Option<")
		s.Elem.write(b)
		b.WriteString(">")
	case KindVec:
		b.WriteString("Vec<")
		s.Elem.write(b)
		b.WriteString(">")
	case KindStruct:
		if s.Tuple {
			b.WriteString("(")
			for i, f := range s.Fields {
				if i > 0 {
					b.WriteString(", ")
				}
				f.Schema.write(b)
			}
			b.WriteString(")")
			return
		}
		if len(s.Fields) == 0 {
			b.WriteString("()")
			return
		}
		b.WriteString("{")
		for i, f := range s.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			f.Schema.write(b)
		}
		b.WriteString("}")
	case KindEnum:
		b.WriteString("enum {")
		for i, v := range s.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(v.Name)
			if v.Schema != nil && !(v.Schema.Kind == KindStruct && len(v.Schema.Fields) == 0) {
				b.WriteString(" ")
				v.Schema.write(b)
			}
		}
		b.WriteString("}")
	default:
		b.WriteString(s.Kind.String())
	}
}
