package borsh

import (
	"errors"
	"fmt"
)

var (
	ErrBufferUnderrun = errors.New("buffer underrun")
	ErrInvalidTag     = errors.New("invalid tag")
	ErrInvalidUTF8    = errors.New("invalid utf-8")
	ErrLengthMismatch = errors.New("length mismatch")
	ErrTrailingBytes  = errors.New("trailing bytes")
	ErrValueMismatch  = errors.New("value does not match schema")
	ErrIntegerRange   = errors.New("integer out of range")
	ErrNilSchema      = errors.New("nil schema")
	ErrZeroSizedVec   = errors.New("non-empty vector of zero-sized elements")
)

// BufferUnderrunError reports a read past the end of the buffer.
type BufferUnderrunError struct {
	Offset    int
	Needed    int
	Available int
}

func (e *BufferUnderrunError) Error() string {
	return fmt.Sprintf("buffer underrun at offset %d: needed %d bytes, %d available", e.Offset, e.Needed, e.Available)
}

func (e *BufferUnderrunError) Is(target error) bool { return target == ErrBufferUnderrun }

// InvalidTagError reports an enum discriminant, bool byte or option tag
// outside its valid range.
type InvalidTagError struct {
	Offset   int
	Tag      int
	MaxValid int
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("invalid tag %d at offset %d (max valid %d)", e.Tag, e.Offset, e.MaxValid)
}

func (e *InvalidTagError) Is(target error) bool { return target == ErrInvalidTag }

type InvalidUTF8Error struct {
	Offset int
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("invalid utf-8 string at offset %d", e.Offset)
}

func (e *InvalidUTF8Error) Is(target error) bool { return target == ErrInvalidUTF8 }

// LengthMismatchError reports a buffer whose total length differs from a
// fixed expected size.
type LengthMismatchError struct {
	Expected int
	Actual   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("length mismatch: expected %d bytes, got %d", e.Expected, e.Actual)
}

func (e *LengthMismatchError) Is(target error) bool { return target == ErrLengthMismatch }

type TrailingBytesError struct {
	Consumed int
	Total    int
}

func (e *TrailingBytesError) Error() string {
	return fmt.Sprintf("trailing bytes: consumed %d of %d", e.Consumed, e.Total)
}

func (e *TrailingBytesError) Is(target error) bool { return target == ErrTrailingBytes }

// ZeroSizedVecError rejects a vector count over an element type that
// consumes no input.
type ZeroSizedVecError struct {
	Offset int
	Count  int
}

func (e *ZeroSizedVecError) Error() string {
	return fmt.Sprintf("vector of %d zero-sized elements at offset %d", e.Count, e.Offset)
}

func (e *ZeroSizedVecError) Is(target error) bool { return target == ErrZeroSizedVec }

// CheckLength fails with LengthMismatchError unless buf is exactly expected bytes long.
func CheckLength(buf []byte, expected int) error {
	if len(buf) != expected {
		return &LengthMismatchError{Expected: expected, Actual: len(buf)}
	}
	return nil
}
