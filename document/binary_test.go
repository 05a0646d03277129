package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/docupdate/tensor"
	"github.com/hupe1980/docupdate/wire"
)

func TestValueRoundtrip(t *testing.T) {
	item, doc := testTypes(t)
	emb, _ := doc.Field("embedding")
	dense, err := tensor.NewDense(emb.Type.Tensor(), []float64{0.5, -1})
	require.NoError(t, err)

	it := NewStruct(item).MustSet("name", NewString("a")).MustSet("tags", Strings("x", "y"))
	root := NewStruct(doc).
		MustSet("title", NewString("Hello")).
		MustSet("year", NewInt(-42)).
		MustSet("score", NewDouble(3.5)).
		MustSet("live", NewBool(true)).
		MustSet("tags", Strings()).
		MustSet("items", MustArray(ArrayOf(item), it, NewStruct(item))).
		MustSet("embedding", NewTensor(dense))

	tests := []struct {
		name string
		typ  *DataType
		v    Value
	}{
		{"String", String, NewString("héllo")},
		{"Int", Int, NewInt(-1)},
		{"Double", Double, NewDouble(2.25)},
		{"Bool", Bool, NewBool(false)},
		{"Tensor", emb.Type, NewTensor(dense)},
		{"EmptyArray", ArrayOf(Int), MustArray(ArrayOf(Int))},
		{"Struct", doc, root},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := wire.NewWriter(64)
			require.NoError(t, EncodeValue(w, tt.typ, tt.v))

			r := wire.NewReader(w.Bytes())
			got, err := DecodeValue(r, tt.typ, "value")
			require.NoError(t, err)
			assert.True(t, tt.v.Equal(got), "got %s, want %s", got, tt.v)
			assert.NoError(t, r.Done("value"))
		})
	}
}

func TestEncodeValue_Any(t *testing.T) {
	err := EncodeValue(wire.NewWriter(8), Any, NewInt(1))
	assert.ErrorIs(t, err, ErrNotSelfDescribing)

	_, doc := testTypes(t)
	root := NewStruct(doc).MustSet("extra", NewInt(1))
	err = EncodeValue(wire.NewWriter(8), doc, root)
	assert.ErrorIs(t, err, ErrNotSelfDescribing)

	_, err = DecodeValue(wire.NewReader([]byte{0}), Any, "value")
	assert.ErrorIs(t, err, ErrNotSelfDescribing)
}

func TestEncodeValue_TypeMismatch(t *testing.T) {
	err := EncodeValue(wire.NewWriter(8), Int, NewString("a"))
	assert.ErrorIs(t, err, ErrIncompatibleType)
}

func TestDecodeValue_Truncated(t *testing.T) {
	w := wire.NewWriter(32)
	require.NoError(t, EncodeValue(w, ArrayOf(String), Strings("ab", "cd")))
	full := w.Bytes()

	tests := []struct {
		name  string
		data  []byte
		field string
	}{
		{"Empty", nil, "payload count"},
		{"CountOnly", full[:1], "payload"},
		{"PartialElement", full[:len(full)-1], "payload[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := DecodeValue(wire.NewReader(tt.data), ArrayOf(String), "payload")
			assert.Nil(t, v)
			var de *wire.DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.field, de.Field)
			assert.ErrorIs(t, err, wire.ErrShortBuffer)
		})
	}
}

func TestDecodeValue_HostileCount(t *testing.T) {
	w := wire.NewWriter(8)
	require.NoError(t, w.PutVarint(wire.MaxVarint))
	_, err := DecodeValue(wire.NewReader(w.Bytes()), ArrayOf(Double), "payload")
	var de *wire.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "payload", de.Field)
}

func TestDecodeValue_Struct(t *testing.T) {
	item, _ := testTypes(t)

	t.Run("UnknownField", func(t *testing.T) {
		w := wire.NewWriter(16)
		require.NoError(t, w.PutVarint(1))
		require.NoError(t, w.PutString("nope"))
		_, err := DecodeValue(wire.NewReader(w.Bytes()), item, "item")
		assert.ErrorIs(t, err, wire.ErrMalformed)
	})
	t.Run("DuplicateField", func(t *testing.T) {
		w := wire.NewWriter(16)
		require.NoError(t, w.PutVarint(2))
		require.NoError(t, w.PutString("name"))
		require.NoError(t, w.PutString("a"))
		require.NoError(t, w.PutString("name"))
		require.NoError(t, w.PutString("b"))
		_, err := DecodeValue(wire.NewReader(w.Bytes()), item, "item")
		assert.ErrorIs(t, err, wire.ErrMalformed)
	})
	t.Run("TooManyFields", func(t *testing.T) {
		w := wire.NewWriter(16)
		require.NoError(t, w.PutVarint(3))
		_, err := DecodeValue(wire.NewReader(w.Bytes()), item, "item")
		assert.ErrorIs(t, err, wire.ErrMalformed)
	})
}

func TestDecodeValue_TensorTypeMismatch(t *testing.T) {
	w := wire.NewWriter(16)
	require.NoError(t, tensor.Scalar(1).Encode(w))
	typ := TensorOf(tensor.MustType(tensor.Dimension{Name: "x", Size: 1}))
	_, err := DecodeValue(wire.NewReader(w.Bytes()), typ, "embedding")
	assert.ErrorIs(t, err, wire.ErrMalformed)
}
