// Package borshtest generates random values that are valid under a schema.
package borshtest

import (
	"math/big"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/hyli-org/explorer/internal/borsh"
)

// MaxItems bounds generated vector and byte-sequence lengths.
const MaxItems = 4

// Value returns a random value valid under s.
func Value(f *gofakeit.Faker, s *borsh.Schema) borsh.Value {
	switch s.Kind {
	case borsh.KindInt:
		raw := make([]byte, s.Width)
		for i := range raw {
			raw[i] = f.Uint8()
		}
		x := new(big.Int).SetBytes(raw)
		if s.Signed && raw[0]&0x80 != 0 {
			x.Sub(x, new(big.Int).Lsh(big.NewInt(1), uint(s.Width*8)))
		}
		return borsh.NewInt(s.Width, s.Signed, x)

	case borsh.KindFloat:
		v := f.Float64Range(-1e6, 1e6)
		if s.Width == 4 {
			v = float64(float32(v))
		}
		return borsh.NewFloat(s.Width, v)

	case borsh.KindBool:
		return borsh.NewBool(f.Bool())

	case borsh.KindString:
		switch f.IntRange(0, 3) {
		case 0:
			return borsh.NewString("")
		case 1:
			return borsh.NewString(f.Emoji() + f.LetterN(3))
		default:
			return borsh.NewString(f.LetterN(uint(f.IntRange(1, 24))))
		}

	case borsh.KindFixedBytes:
		return borsh.NewFixedBytes(randomBytes(f, s.Len))

	case borsh.KindBytes:
		return borsh.NewBytes(randomBytes(f, f.IntRange(0, 2*MaxItems)))

	case borsh.KindOption:
		if f.Bool() {
			return borsh.None()
		}
		return borsh.Some(Value(f, s.Elem))

	case borsh.KindVec:
		n := f.IntRange(0, MaxItems)
		if s.Elem.ZeroSized() {
			n = 0
		}
		items := make([]borsh.Value, n)
		for i := range items {
			items[i] = Value(f, s.Elem)
		}
		return borsh.NewVec(items...)

	case borsh.KindStruct:
		fields := make([]borsh.NamedValue, len(s.Fields))
		for i, field := range s.Fields {
			fields[i] = borsh.Named(field.Name, Value(f, field.Schema))
		}
		return borsh.NewStruct(fields...)

	case borsh.KindEnum:
		tag := f.IntRange(0, len(s.Fields)-1)
		variant := s.Fields[tag]
		return borsh.NewEnum(uint8(tag), variant.Name, Value(f, variant.Schema))
	}
	return borsh.Value{}
}

// Variant returns a random value of s forced to the given enum variant.
func Variant(f *gofakeit.Faker, s *borsh.Schema, tag int) borsh.Value {
	variant := s.Fields[tag]
	return borsh.NewEnum(uint8(tag), variant.Name, Value(f, variant.Schema))
}

// Minimal returns the shortest valid value of s: empty strings and
// sequences, absent options and the first enum variant.
func Minimal(s *borsh.Schema) borsh.Value {
	switch s.Kind {
	case borsh.KindInt:
		return borsh.NewInt(s.Width, s.Signed, big.NewInt(0))
	case borsh.KindFloat:
		return borsh.NewFloat(s.Width, 0)
	case borsh.KindBool:
		return borsh.NewBool(false)
	case borsh.KindString:
		return borsh.NewString("")
	case borsh.KindFixedBytes:
		return borsh.NewFixedBytes(make([]byte, s.Len))
	case borsh.KindBytes:
		return borsh.NewBytes([]byte{})
	case borsh.KindOption:
		return borsh.None()
	case borsh.KindVec:
		return borsh.NewVec()
	case borsh.KindStruct:
		fields := make([]borsh.NamedValue, len(s.Fields))
		for i, field := range s.Fields {
			fields[i] = borsh.Named(field.Name, Minimal(field.Schema))
		}
		return borsh.NewStruct(fields...)
	case borsh.KindEnum:
		return borsh.NewEnum(0, s.Fields[0].Name, Minimal(s.Fields[0].Schema))
	}
	return borsh.Value{}
}

func randomBytes(f *gofakeit.Faker, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = f.Uint8()
	}
	return out
}
