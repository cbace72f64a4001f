package borsh

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"unicode/utf8"
)

// Marshal encodes v under schema s. It is the inverse of Unmarshal.
func Marshal(s *Schema, v Value) ([]byte, error) {
	return Encode(nil, s, v)
}

// Encode appends the encoding of v under schema s to dst.
func Encode(dst []byte, s *Schema, v Value) ([]byte, error) {
	if s == nil {
		return dst, ErrNilSchema
	}
	if v.Kind != s.Kind {
		return dst, fmt.Errorf("%w: expected %s, got %s", ErrValueMismatch, s.Kind, v.Kind)
	}

	switch s.Kind {
	case KindInt:
		b, err := bigToLE(v.Int, s.Width, s.Signed)
		if err != nil {
			return dst, err
		}
		return append(dst, b...), nil

	case KindFloat:
		switch s.Width {
		case 4:
			return binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(v.Float))), nil
		case 8:
			return binary.LittleEndian.AppendUint64(dst, math.Float64bits(v.Float)), nil
		}
		return dst, fmt.Errorf("unsupported float width %d", s.Width)

	case KindBool:
		if v.Bool {
			return append(dst, 1), nil
		}
		return append(dst, 0), nil

	case KindString:
		if !utf8.ValidString(v.Str) {
			return dst, ErrInvalidUTF8
		}
		dst, err := appendLen(dst, len(v.Str))
		if err != nil {
			return dst, err
		}
		return append(dst, v.Str...), nil

	case KindFixedBytes:
		if len(v.Bytes) != s.Len {
			return dst, &LengthMismatchError{Expected: s.Len, Actual: len(v.Bytes)}
		}
		return append(dst, v.Bytes...), nil

	case KindBytes:
		dst, err := appendLen(dst, len(v.Bytes))
		if err != nil {
			return dst, err
		}
		return append(dst, v.Bytes...), nil

	case KindOption:
		if v.Some == nil {
			return append(dst, 0), nil
		}
		return Encode(append(dst, 1), s.Elem, *v.Some)

	case KindVec:
		if len(v.Items) > 0 && s.Elem.ZeroSized() {
			return dst, &ZeroSizedVecError{Offset: len(dst), Count: len(v.Items)}
		}
		dst, err := appendLen(dst, len(v.Items))
		if err != nil {
			return dst, err
		}
		for i, item := range v.Items {
			dst, err = Encode(dst, s.Elem, item)
			if err != nil {
				return dst, fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return dst, nil

	case KindStruct:
		if len(v.Fields) != len(s.Fields) {
			return dst, fmt.Errorf("%w: expected %d fields, got %d", ErrValueMismatch, len(s.Fields), len(v.Fields))
		}
		var err error
		for i, f := range s.Fields {
			if v.Fields[i].Name != f.Name {
				return dst, fmt.Errorf("%w: expected field %s, got %s", ErrValueMismatch, f.Name, v.Fields[i].Name)
			}
			dst, err = Encode(dst, f.Schema, v.Fields[i].Value)
			if err != nil {
				return dst, fmt.Errorf("%s: %w", f.Name, err)
			}
		}
		return dst, nil

	case KindEnum:
		tag := int(v.Tag)
		if tag >= len(s.Fields) {
			return dst, &InvalidTagError{Tag: tag, MaxValid: len(s.Fields) - 1}
		}
		variant := s.Fields[tag]
		if v.Variant != "" && v.Variant != variant.Name {
			return dst, fmt.Errorf("%w: tag %d is %s, got %s", ErrValueMismatch, tag, variant.Name, v.Variant)
		}
		payload := NewUnit()
		if v.Payload != nil {
			payload = *v.Payload
		}
		dst, err := Encode(append(dst, v.Tag), variant.Schema, payload)
		if err != nil {
			return dst, fmt.Errorf("%s: %w", variant.Name, err)
		}
		return dst, nil
	}

	return dst, fmt.Errorf("unsupported schema kind %s", s.Kind)
}

func appendLen(dst []byte, n int) ([]byte, error) {
	if uint64(n) > math.MaxUint32 {
		return dst, fmt.Errorf("%w: length %d exceeds u32", ErrIntegerRange, n)
	}
	return binary.LittleEndian.AppendUint32(dst, uint32(n)), nil
}

func bigToLE(x *big.Int, width int, signed bool) ([]byte, error) {
	if x == nil {
		return nil, fmt.Errorf("%w: nil integer", ErrValueMismatch)
	}
	bits := uint(width * 8)
	n := new(big.Int).Set(x)
	if signed {
		limit := new(big.Int).Lsh(big.NewInt(1), bits-1)
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("%w: %s does not fit i%d", ErrIntegerRange, x, bits)
		}
		if n.Sign() < 0 {
			n.Add(n, new(big.Int).Lsh(big.NewInt(1), bits))
		}
	} else if n.Sign() < 0 || n.BitLen() > int(bits) {
		return nil, fmt.Errorf("%w: %s does not fit u%d", ErrIntegerRange, x, bits)
	}

	be := n.FillBytes(make([]byte, width))
	le := make([]byte, width)
	for i := range be {
		le[width-1-i] = be[i]
	}
	return le, nil
}
