package tensor

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/hupe1980/docupdate/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryRoundtrip(t *testing.T) {
	tests := []struct {
		name  string
		dims  []Dimension
		cells []float64
	}{
		{"Scalar", nil, []float64{42.5}},
		{"Vector", []Dimension{{"x", 3}}, []float64{1, -2, 3.25}},
		{"Matrix", []Dimension{{"x", 2}, {"y", 3}}, []float64{1, 2, 3, 4, 5, 6}},
		{"Cube", []Dimension{{"a", 2}, {"b", 1}, {"c", 2}}, []float64{1, 2, 3, 4}},
		{"EmptyDimension", []Dimension{{"x", 0}}, nil},
		{"EmptyInnerDimension", []Dimension{{"x", 5}, {"y", 0}}, nil},
		{"SpecialValues", []Dimension{{"v", 4}}, []float64{math.Inf(1), math.Inf(-1), math.NaN(), math.SmallestNonzeroFloat64}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := NewType(tt.dims...)
			require.NoError(t, err)
			in, err := NewDense(typ, tt.cells)
			require.NoError(t, err)

			b, err := Serialize(in)
			require.NoError(t, err)
			assert.Equal(t, in.EncodedSize(), len(b))

			out, err := Deserialize(b)
			require.NoError(t, err)
			assert.True(t, in.Equal(out), "got %s, want %s", out, in)
			assert.True(t, in.Type().Equal(out.Type()))
		})
	}
}

func TestSerialize_Layout(t *testing.T) {
	typ := MustType(Dimension{"x", 2}, Dimension{"y", 3})
	in, err := NewDense(typ, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	got, err := in.MarshalBinary()
	require.NoError(t, err)

	want := []byte{
		0x02,            // dimension count
		0x01, 'x', 0x02, // x[2]
		0x01, 'y', 0x03, // y[3]
	}
	for _, v := range []float64{1, 2, 3, 4, 5, 6} {
		want = binary.BigEndian.AppendUint64(want, math.Float64bits(v))
	}
	assert.Equal(t, want, got)

	out, err := Deserialize(want)
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
	assert.Equal(t, "tensor(x[2],y[3])", out.Type().String())

	v, err := out.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)
}

func TestSerialize_ZeroDimensionsIsDouble(t *testing.T) {
	b, err := Scalar(7).MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, byte(0), b[0])
	assert.Len(t, b, 9)

	out, err := Deserialize(b)
	require.NoError(t, err)
	assert.True(t, out.Type().IsDouble())
	assert.Equal(t, 7.0, out.Cell(0))
}

func TestDeserialize_Truncated(t *testing.T) {
	typ := MustType(Dimension{"x", 2}, Dimension{"y", 3})
	in, err := NewDense(typ, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	full, err := in.MarshalBinary()
	require.NoError(t, err)

	tests := []struct {
		name  string
		data  []byte
		field string
	}{
		{"Empty", nil, "dimension count"},
		{"NoDimensions", full[:1], "dimension count"},
		{"MissingName", full[:5], "dimension[1] name"},
		{"ShortName", []byte{0x01, 0x03, 'a'}, "dimension[0] name"},
		{"MissingSize", full[:6], "dimension[1] size"},
		{"MissingCells", full[:7], "cells"},
		{"PartialCells", full[:len(full)-1], "cells"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Deserialize(tt.data)
			assert.Nil(t, out)

			var de *wire.DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.field, de.Field)
			assert.ErrorIs(t, err, wire.ErrShortBuffer)
		})
	}
}

func TestDeserialize_HostileShape(t *testing.T) {
	// Declares a 2^29 x 2^29 tensor backed by no cell data. Decoding must fail
	// before allocating cell storage.
	c := wire.NewWriter(16)
	require.NoError(t, c.PutVarint(2))
	require.NoError(t, c.PutString("a"))
	require.NoError(t, c.PutVarint(1<<29))
	require.NoError(t, c.PutString("b"))
	require.NoError(t, c.PutVarint(1<<29))
	c.PutFloat64(1)

	_, err := Deserialize(c.Bytes())
	var de *wire.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "cells", de.Field)
	assert.Equal(t, 8, de.Have)
}

func TestDeserialize_HostileDimensionCount(t *testing.T) {
	c := wire.NewWriter(8)
	require.NoError(t, c.PutVarint(wire.MaxVarint))

	_, err := Deserialize(c.Bytes())
	var de *wire.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "dimension count", de.Field)
}

func TestDeserialize_ZeroSizeDimension(t *testing.T) {
	c := wire.NewWriter(8)
	require.NoError(t, c.PutVarint(2))
	require.NoError(t, c.PutString("x"))
	require.NoError(t, c.PutVarint(1<<20))
	require.NoError(t, c.PutString("y"))
	require.NoError(t, c.PutVarint(0))

	out, err := Deserialize(c.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, uint64(0), out.Type().CellCount())
}

func TestDeserialize_DuplicateDimension(t *testing.T) {
	c := wire.NewWriter(8)
	require.NoError(t, c.PutVarint(2))
	require.NoError(t, c.PutString("x"))
	require.NoError(t, c.PutVarint(1))
	require.NoError(t, c.PutString("x"))
	require.NoError(t, c.PutVarint(1))
	c.PutFloat64(1)

	_, err := Deserialize(c.Bytes())
	assert.ErrorIs(t, err, wire.ErrMalformed)
}

func TestDeserialize_TrailingBytes(t *testing.T) {
	b, err := Scalar(1).MarshalBinary()
	require.NoError(t, err)

	_, err = Deserialize(append(b, 0))
	assert.ErrorIs(t, err, wire.ErrMalformed)
}

func TestDecode_ConsumesExactly(t *testing.T) {
	c := wire.NewWriter(64)
	a, err := NewDense(MustType(Dimension{"x", 2}), []float64{1, 2})
	require.NoError(t, err)
	require.NoError(t, a.Encode(c))
	require.NoError(t, Scalar(3).Encode(c))

	r := wire.NewReader(c.Bytes())
	first, err := Decode(r)
	require.NoError(t, err)
	assert.Equal(t, a.EncodedSize(), r.Pos())

	second, err := Decode(r)
	require.NoError(t, err)
	assert.True(t, a.Equal(first))
	assert.True(t, Scalar(3).Equal(second))
	assert.NoError(t, r.Done("stream"))
}

func TestEncode_BrokenInvariantPanics(t *testing.T) {
	broken := &Dense{typ: MustType(Dimension{"x", 3}), cells: []float64{1}}
	assert.Panics(t, func() {
		_ = broken.Encode(wire.NewWriter(16))
	})
}
