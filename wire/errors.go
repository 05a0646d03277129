package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrShortBuffer is returned when the input ends before a declared length.
	ErrShortBuffer = errors.New("short buffer")

	// ErrMalformed is returned when the input is structurally invalid.
	ErrMalformed = errors.New("malformed input")

	// ErrVarintOverflow is returned when a value does not fit the varint encoding.
	ErrVarintOverflow = fmt.Errorf("varint value exceeds %d", MaxVarint)
)

// DecodeError describes a failed read of a named wire sub-field.
//
// The underlying cause (ErrShortBuffer or ErrMalformed) can be matched with
// errors.Is.
type DecodeError struct {
	// Field names the wire sub-field that could not be decoded,
	// e.g. "dimension count" or "cells".
	Field string
	// Offset is the cursor position at which the read started.
	Offset int
	// Need and Have are set for short reads.
	Need   int
	Have   int
	Detail string
	cause  error
}

func (e *DecodeError) Error() string {
	if errors.Is(e.cause, ErrShortBuffer) {
		return fmt.Sprintf("decode %s at offset %d: need %d bytes, have %d", e.Field, e.Offset, e.Need, e.Have)
	}
	if e.Detail != "" {
		return fmt.Sprintf("decode %s at offset %d: %s", e.Field, e.Offset, e.Detail)
	}
	return fmt.Sprintf("decode %s at offset %d: %v", e.Field, e.Offset, e.cause)
}

func (e *DecodeError) Unwrap() error { return e.cause }

// Malformed returns a *DecodeError for structurally invalid input at the
// cursor's current position.
func (c *Cursor) Malformed(field, format string, args ...any) error {
	return malformed(field, c.pos, format, args...)
}

// MalformedAt returns a *DecodeError for structurally invalid input read at
// offset.
func MalformedAt(field string, offset int, format string, args ...any) error {
	return malformed(field, offset, format, args...)
}

func shortBuffer(field string, offset, need, have int) error {
	return &DecodeError{Field: field, Offset: offset, Need: need, Have: have, cause: ErrShortBuffer}
}

func malformed(field string, offset int, format string, args ...any) error {
	return &DecodeError{Field: field, Offset: offset, Detail: fmt.Sprintf(format, args...), cause: ErrMalformed}
}
