package tensor

import (
	"fmt"

	"github.com/hupe1980/docupdate/wire"
)

// Dense binary format:
//
//	varint dimCount
//	{ string name, varint size } x dimCount   (declared order)
//	{ float64 cell } x product(sizes)          (row-major, big-endian)

// cellWidth is the encoded size of one cell.
const cellWidth = 8

// Encode appends the dense binary form of d to c.
//
// Encode panics if the cell count disagrees with the type: a *Dense can only
// reach that state through a programming error, never through input.
func (d *Dense) Encode(c *wire.Cursor) error {
	dims := d.typ.dims
	if err := c.PutVarint(uint32(len(dims))); err != nil { //nolint:gosec // overflow reported by PutVarint
		return fmt.Errorf("encode dimension count: %w", err)
	}
	cellsSize := uint64(1)
	for _, dim := range dims {
		if err := c.PutString(dim.Name); err != nil {
			return fmt.Errorf("encode dimension %q name: %w", dim.Name, err)
		}
		if err := c.PutVarint(dim.Size); err != nil {
			return fmt.Errorf("encode dimension %q size: %w", dim.Name, err)
		}
		cellsSize = mulSat(cellsSize, uint64(dim.Size))
	}
	if cellsSize != uint64(len(d.cells)) {
		panic(fmt.Sprintf("tensor: %s holds %d cells, want %d", d.typ, len(d.cells), cellsSize))
	}
	for _, v := range d.cells {
		c.PutFloat64(v)
	}
	return nil
}

// EncodedSize returns the number of bytes Encode appends.
func (d *Dense) EncodedSize() int {
	n := wire.VarintSize(uint32(len(d.typ.dims))) //nolint:gosec // rank is small
	for _, dim := range d.typ.dims {
		n += wire.VarintSize(uint32(len(dim.Name))) + len(dim.Name) //nolint:gosec // names are short
		n += wire.VarintSize(dim.Size)
	}
	return n + len(d.cells)*cellWidth
}

// Decode reads one dense tensor from c.
//
// The declared shape is checked against the remaining input before any cell
// storage is allocated. On error no tensor is returned and the error is a
// *wire.DecodeError naming the stage that under-ran: "dimension count",
// "dimension[i] name", "dimension[i] size" or "cells".
func Decode(c *wire.Cursor) (*Dense, error) {
	count, err := c.Varint("dimension count")
	if err != nil {
		return nil, err
	}
	// Every dimension takes at least two bytes: name length and size.
	if err := c.RequireElems(uint64(count), 2, "dimension count"); err != nil {
		return nil, err
	}

	dims := make([]Dimension, 0, count)
	cellsSize := uint64(1)
	for i := range int(count) {
		name, err := c.String(fmt.Sprintf("dimension[%d] name", i))
		if err != nil {
			return nil, err
		}
		size, err := c.Varint(fmt.Sprintf("dimension[%d] size", i))
		if err != nil {
			return nil, err
		}
		dims = append(dims, Dimension{Name: name, Size: size})
		cellsSize = mulSat(cellsSize, uint64(size))
	}

	typ, err := NewType(dims...)
	if err != nil {
		return nil, c.Malformed("dimensions", "%v", err)
	}

	if err := c.RequireElems(cellsSize, cellWidth, "cells"); err != nil {
		return nil, err
	}
	cells := make([]float64, cellsSize)
	for i := range cells {
		v, err := c.Float64("cells")
		if err != nil {
			return nil, err
		}
		cells[i] = v
	}
	return &Dense{typ: typ, cells: cells}, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (d *Dense) MarshalBinary() ([]byte, error) {
	c := wire.NewWriter(d.EncodedSize())
	if err := d.Encode(c); err != nil {
		return nil, err
	}
	return c.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// The whole input must be consumed; trailing bytes are an error.
func (d *Dense) UnmarshalBinary(data []byte) error {
	c := wire.NewReader(data)
	t, err := Decode(c)
	if err != nil {
		return err
	}
	if err := c.Done("tensor"); err != nil {
		return err
	}
	*d = *t
	return nil
}

// Serialize returns the dense binary form of d.
func Serialize(d *Dense) ([]byte, error) { return d.MarshalBinary() }

// Deserialize decodes a tensor that occupies all of data.
func Deserialize(data []byte) (*Dense, error) {
	var d Dense
	if err := d.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &d, nil
}
