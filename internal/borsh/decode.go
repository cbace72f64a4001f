package borsh

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"unicode/utf8"
)

// Decode reads one value of schema s from buf starting at offset and returns
// the value with the offset just past it. It never reads beyond len(buf)
// and does not retain buf.
func Decode(s *Schema, buf []byte, offset int) (Value, int, error) {
	if s == nil {
		return Value{}, offset, ErrNilSchema
	}
	if offset < 0 || offset > len(buf) {
		return Value{}, offset, &BufferUnderrunError{Offset: offset, Needed: 0, Available: len(buf)}
	}
	r := &reader{buf: buf, off: offset}
	v, err := r.value(s)
	if err != nil {
		return Value{}, offset, err
	}
	return v, r.off, nil
}

// Unmarshal decodes the whole buffer and rejects trailing bytes.
func Unmarshal(s *Schema, buf []byte) (Value, error) {
	v, off, err := Decode(s, buf, 0)
	if err != nil {
		return Value{}, err
	}
	if off != len(buf) {
		return Value{}, &TrailingBytesError{Consumed: off, Total: len(buf)}
	}
	return v, nil
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, &BufferUnderrunError{Offset: r.off, Needed: n, Available: r.remaining()}
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) u32() (int, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return int(binary.LittleEndian.Uint32(b)), nil
}

func (r *reader) tag(maxValid int) (int, error) {
	start := r.off
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	tag := int(b[0])
	if tag > maxValid {
		r.off = start
		return 0, &InvalidTagError{Offset: start, Tag: tag, MaxValid: maxValid}
	}
	return tag, nil
}

func (r *reader) value(s *Schema) (Value, error) {
	switch s.Kind {
	case KindInt:
		b, err := r.take(s.Width)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindInt, Width: s.Width, Signed: s.Signed, Int: leToBig(b, s.Signed)}, nil

	case KindFloat:
		b, err := r.take(s.Width)
		if err != nil {
			return Value{}, err
		}
		var f float64
		switch s.Width {
		case 4:
			f = float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		case 8:
			f = math.Float64frombits(binary.LittleEndian.Uint64(b))
		default:
			return Value{}, fmt.Errorf("unsupported float width %d", s.Width)
		}
		return NewFloat(s.Width, f), nil

	case KindBool:
		tag, err := r.tag(1)
		if err != nil {
			return Value{}, err
		}
		return NewBool(tag == 1), nil

	case KindString:
		n, err := r.u32()
		if err != nil {
			return Value{}, err
		}
		start := r.off
		b, err := r.take(n)
		if err != nil {
			return Value{}, err
		}
		if !utf8.Valid(b) {
			return Value{}, &InvalidUTF8Error{Offset: start}
		}
		return NewString(string(b)), nil

	case KindFixedBytes:
		b, err := r.take(s.Len)
		if err != nil {
			return Value{}, err
		}
		return NewFixedBytes(clone(b)), nil

	case KindBytes:
		n, err := r.u32()
		if err != nil {
			return Value{}, err
		}
		b, err := r.take(n)
		if err != nil {
			return Value{}, err
		}
		return NewBytes(clone(b)), nil

	case KindOption:
		tag, err := r.tag(1)
		if err != nil {
			return Value{}, err
		}
		if tag == 0 {
			return None(), nil
		}
		inner, err := r.value(s.Elem)
		if err != nil {
			return Value{}, err
		}
		return Some(inner), nil

	case KindVec:
		start := r.off
		n, err := r.u32()
		if err != nil {
			return Value{}, err
		}
		if n > 0 && s.Elem.ZeroSized() {
			return Value{}, &ZeroSizedVecError{Offset: start, Count: n}
		}
		// counts are untrusted; cap preallocation by the bytes left
		capHint := n
		if capHint > r.remaining() {
			capHint = r.remaining()
		}
		items := make([]Value, 0, capHint)
		for i := 0; i < n; i++ {
			item, err := r.value(s.Elem)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, item)
		}
		return NewVec(items...), nil

	case KindStruct:
		fields := make([]NamedValue, 0, len(s.Fields))
		for _, f := range s.Fields {
			v, err := r.value(f.Schema)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", f.Name, err)
			}
			fields = append(fields, NamedValue{Name: f.Name, Value: v})
		}
		return NewStruct(fields...), nil

	case KindEnum:
		tag, err := r.tag(len(s.Fields) - 1)
		if err != nil {
			return Value{}, err
		}
		variant := s.Fields[tag]
		payload, err := r.value(variant.Schema)
		if err != nil {
			return Value{}, fmt.Errorf("%s: %w", variant.Name, err)
		}
		return NewEnum(uint8(tag), variant.Name, payload), nil
	}

	return Value{}, fmt.Errorf("unsupported schema kind %s", s.Kind)
}

func leToBig(b []byte, signed bool) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	x := new(big.Int).SetBytes(be)
	if signed && len(b) > 0 && b[len(b)-1]&0x80 != 0 {
		x.Sub(x, new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8)))
	}
	return x
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
