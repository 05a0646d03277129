package wire

import (
	"encoding/binary"
	"math"
)

// MaxVarint is the largest value PutVarint can encode.
const MaxVarint = 1<<30 - 1

// Cursor is a read/write cursor over a byte buffer.
//
// Writes append to the end of the buffer. Reads consume from the current
// position and never read past the end: every multi-byte read checks the
// remaining length first and fails with a *DecodeError naming the wire
// sub-field being decoded.
type Cursor struct {
	buf []byte
	pos int
}

// NewReader returns a cursor positioned at the start of data.
// The cursor does not copy data; callers must not mutate it while reading.
func NewReader(data []byte) *Cursor {
	return &Cursor{buf: data}
}

// NewWriter returns an empty cursor with the given initial capacity.
func NewWriter(capacity int) *Cursor {
	return &Cursor{buf: make([]byte, 0, capacity)}
}

// Bytes returns the whole underlying buffer.
func (c *Cursor) Bytes() []byte { return c.buf }

// Pos returns the current read position.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// Len returns the total number of bytes in the buffer.
func (c *Cursor) Len() int { return len(c.buf) }

// Require checks that at least n bytes remain.
func (c *Cursor) Require(n int, field string) error {
	if n < 0 || c.Remaining() < n {
		return shortBuffer(field, c.pos, n, c.Remaining())
	}
	return nil
}

// RequireElems checks that count elements of width bytes each remain.
// It is safe against count*width overflow and is meant to run before
// allocating storage for count elements.
func (c *Cursor) RequireElems(count uint64, width int, field string) error {
	if width <= 0 {
		width = 1
	}
	have := c.Remaining()
	if count > uint64(have)/uint64(width) { //nolint:gosec // have >= 0
		need := math.MaxInt
		if count <= uint64(math.MaxInt/width) {
			need = int(count) * width //nolint:gosec // bounded above
		}
		return shortBuffer(field, c.pos, need, have)
	}
	return nil
}

// Done fails if unread bytes remain after a complete decode.
func (c *Cursor) Done(field string) error {
	if r := c.Remaining(); r != 0 {
		return malformed(field, c.pos, "%d trailing bytes", r)
	}
	return nil
}

// PutVarint appends v using the 1-4 byte variable length encoding.
//
// The two high bits of the first byte hold the total byte count minus one;
// the remaining bits hold v in big-endian order.
func (c *Cursor) PutVarint(v uint32) error {
	switch {
	case v < 1<<6:
		c.buf = append(c.buf, byte(v))
	case v < 1<<14:
		c.buf = append(c.buf, 0x40|byte(v>>8), byte(v))
	case v < 1<<22:
		c.buf = append(c.buf, 0x80|byte(v>>16), byte(v>>8), byte(v))
	case v <= MaxVarint:
		c.buf = append(c.buf, 0xC0|byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	default:
		return ErrVarintOverflow
	}
	return nil
}

// Varint reads a value written by PutVarint.
func (c *Cursor) Varint(field string) (uint32, error) {
	if err := c.Require(1, field); err != nil {
		return 0, err
	}
	first := c.buf[c.pos]
	n := int(first>>6) + 1
	if err := c.Require(n, field); err != nil {
		return 0, err
	}
	v := uint32(first & 0x3F)
	for i := 1; i < n; i++ {
		v = v<<8 | uint32(c.buf[c.pos+i])
	}
	if VarintSize(v) != n {
		return 0, malformed(field, c.pos, "non-minimal %d byte varint for %d", n, v)
	}
	c.pos += n
	return v, nil
}

// VarintSize returns the encoded size of v, or 0 if v is too large.
func VarintSize(v uint32) int {
	switch {
	case v < 1<<6:
		return 1
	case v < 1<<14:
		return 2
	case v < 1<<22:
		return 3
	case v <= MaxVarint:
		return 4
	default:
		return 0
	}
}

// PutString appends a varint length followed by the raw bytes of s.
func (c *Cursor) PutString(s string) error {
	if len(s) > MaxVarint {
		return ErrVarintOverflow
	}
	if err := c.PutVarint(uint32(len(s))); err != nil { //nolint:gosec // bounded above
		return err
	}
	c.buf = append(c.buf, s...)
	return nil
}

// String reads a length-prefixed string.
func (c *Cursor) String(field string) (string, error) {
	b, err := c.LengthPrefixed(field)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// PutBytes appends a varint length followed by b.
func (c *Cursor) PutBytes(b []byte) error {
	if len(b) > MaxVarint {
		return ErrVarintOverflow
	}
	if err := c.PutVarint(uint32(len(b))); err != nil { //nolint:gosec // bounded above
		return err
	}
	c.buf = append(c.buf, b...)
	return nil
}

// LengthPrefixed reads a varint length and returns a sub-slice of that many
// bytes. The returned slice aliases the cursor buffer.
func (c *Cursor) LengthPrefixed(field string) ([]byte, error) {
	at := c.pos
	n, err := c.Varint(field + " length")
	if err != nil {
		return nil, err
	}
	b, err := c.Next(int(n), field)
	if err != nil {
		c.pos = at
		return nil, err
	}
	return b, nil
}

// PutRaw appends b without a length prefix.
func (c *Cursor) PutRaw(b []byte) {
	c.buf = append(c.buf, b...)
}

// Next consumes n bytes and returns them. The returned slice aliases the
// cursor buffer.
func (c *Cursor) Next(n int, field string) ([]byte, error) {
	if err := c.Require(n, field); err != nil {
		return nil, err
	}
	b := c.buf[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return b, nil
}

// PutUint8 appends a single byte.
func (c *Cursor) PutUint8(v uint8) { c.buf = append(c.buf, v) }

// Uint8 reads a single byte.
func (c *Cursor) Uint8(field string) (uint8, error) {
	if err := c.Require(1, field); err != nil {
		return 0, err
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

// PutUint16 appends v in big-endian order.
func (c *Cursor) PutUint16(v uint16) { c.buf = binary.BigEndian.AppendUint16(c.buf, v) }

// Uint16 reads a big-endian uint16.
func (c *Cursor) Uint16(field string) (uint16, error) {
	b, err := c.Next(2, field)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// PutUint32 appends v in big-endian order.
func (c *Cursor) PutUint32(v uint32) { c.buf = binary.BigEndian.AppendUint32(c.buf, v) }

// Uint32 reads a big-endian uint32.
func (c *Cursor) Uint32(field string) (uint32, error) {
	b, err := c.Next(4, field)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// PutUint64 appends v in big-endian order.
func (c *Cursor) PutUint64(v uint64) { c.buf = binary.BigEndian.AppendUint64(c.buf, v) }

// Uint64 reads a big-endian uint64.
func (c *Cursor) Uint64(field string) (uint64, error) {
	b, err := c.Next(8, field)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// PutInt64 appends v as a big-endian two's complement integer.
func (c *Cursor) PutInt64(v int64) { c.PutUint64(uint64(v)) } //nolint:gosec // bit reinterpretation

// Int64 reads a value written by PutInt64.
func (c *Cursor) Int64(field string) (int64, error) {
	v, err := c.Uint64(field)
	return int64(v), err //nolint:gosec // bit reinterpretation
}

// PutFloat64 appends the IEEE 754 bits of v in big-endian order.
func (c *Cursor) PutFloat64(v float64) { c.PutUint64(math.Float64bits(v)) }

// Float64 reads a value written by PutFloat64.
func (c *Cursor) Float64(field string) (float64, error) {
	v, err := c.Uint64(field)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// PutBool appends 1 for true and 0 for false.
func (c *Cursor) PutBool(v bool) {
	if v {
		c.buf = append(c.buf, 1)
	} else {
		c.buf = append(c.buf, 0)
	}
}

// Bool reads a single byte; any value other than 0 or 1 is malformed.
func (c *Cursor) Bool(field string) (bool, error) {
	at := c.pos
	b, err := c.Uint8(field)
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		c.pos = at
		return false, malformed(field, at, "invalid bool byte 0x%02x", b)
	}
}
