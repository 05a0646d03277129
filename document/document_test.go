package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/docupdate/tensor"
)

func testTypes(t *testing.T) (item, doc *DataType) {
	t.Helper()
	item = MustStructType("item",
		Field{Name: "name", Type: String},
		Field{Name: "tags", Type: ArrayOf(String)},
	)
	doc = MustStructType("music",
		Field{Name: "title", Type: String},
		Field{Name: "year", Type: Int},
		Field{Name: "score", Type: Double},
		Field{Name: "live", Type: Bool},
		Field{Name: "tags", Type: ArrayOf(String)},
		Field{Name: "items", Type: ArrayOf(item)},
		Field{Name: "embedding", Type: TensorOf(tensor.MustType(tensor.Dimension{Name: "x", Size: 2}))},
		Field{Name: "extra", Type: Any},
	)
	return item, doc
}

func TestNewStructType(t *testing.T) {
	t.Run("DuplicateField", func(t *testing.T) {
		_, err := NewStructType("s", Field{Name: "a", Type: Int}, Field{Name: "a", Type: String})
		assert.ErrorIs(t, err, ErrInvalidType)
	})
	t.Run("MissingName", func(t *testing.T) {
		_, err := NewStructType("")
		assert.ErrorIs(t, err, ErrInvalidType)
	})
	t.Run("MissingFieldType", func(t *testing.T) {
		_, err := NewStructType("s", Field{Name: "a"})
		assert.ErrorIs(t, err, ErrInvalidType)
	})
	t.Run("Recursive", func(t *testing.T) {
		node := MustStructType("node", Field{Name: "label", Type: String})
		require.NoError(t, node.AddField(Field{Name: "children", Type: ArrayOf(node)}))
		f, ok := node.Field("children")
		require.True(t, ok)
		assert.True(t, f.Type.Elem().Equal(node))
	})
}

func TestIsAssignable(t *testing.T) {
	item, _ := testTypes(t)
	tests := []struct {
		name     string
		src, dst *DataType
		want     bool
	}{
		{"Same", String, String, true},
		{"Different", Int, String, false},
		{"AnyAcceptsAll", ArrayOf(item), Any, true},
		{"ArrayOfAny", ArrayOf(String), ArrayOf(Any), true},
		{"ArrayElem", ArrayOf(Int), ArrayOf(String), false},
		{"StructNominal", MustStructType("item"), item, true},
		{"StructOther", MustStructType("other"), item, false},
		{"Nil", nil, String, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAssignable(tt.src, tt.dst))
		})
	}
}

func TestNewValue(t *testing.T) {
	item, doc := testTypes(t)
	assert.True(t, NewString("").Equal(String.NewValue()))
	assert.True(t, NewInt(0).Equal(Int.NewValue()))
	assert.Equal(t, KindCollection, ArrayOf(item).NewValue().Kind())
	assert.Equal(t, 0, doc.NewValue().(*Struct).Len())
	assert.Nil(t, Any.NewValue())

	f, _ := doc.Field("embedding")
	v := f.Type.NewValue()
	s, ok := AsScalar(v)
	require.True(t, ok)
	d, ok := s.AsTensor()
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0}, d.Cells())
}

func TestArray(t *testing.T) {
	a := Strings("x")
	require.NoError(t, a.Add(NewString("a")))
	assert.Equal(t, 2, a.Len())

	var te *TypeError
	err := a.Add(NewInt(1))
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, ErrIncompatibleType)
	assert.Equal(t, "string", te.Declared)
	assert.Equal(t, "int", te.Actual)
	assert.Equal(t, 2, a.Len())

	require.NoError(t, a.Set(0, NewString("y")))
	assert.ErrorIs(t, a.Set(5, NewString("z")), ErrIndexOutOfRange)

	require.NoError(t, a.RemoveAt(0))
	assert.True(t, Strings("a").Equal(a))
	assert.ErrorIs(t, a.RemoveAt(1), ErrIndexOutOfRange)
	assert.Nil(t, a.At(3))
	assert.Equal(t, `["a"]`, a.String())
}

func TestStruct(t *testing.T) {
	_, doc := testTypes(t)
	s := NewStruct(doc)

	require.NoError(t, s.Set("title", NewString("t")))
	assert.ErrorIs(t, s.Set("nope", NewString("t")), ErrUnknownField)
	assert.ErrorIs(t, s.Set("year", NewString("t")), ErrIncompatibleType)
	require.NoError(t, s.Set("extra", NewBool(true)))
	require.NoError(t, s.Set("year", NewInt(1999)))

	assert.Equal(t, []string{"title", "year", "extra"}, s.FieldNames())
	assert.True(t, s.Remove("extra"))
	assert.False(t, s.Remove("extra"))
	assert.False(t, s.Has("extra"))
	assert.Equal(t, `music{title:"t",year:1999}`, s.String())
}

func TestCloneIsIndependent(t *testing.T) {
	item, doc := testTypes(t)
	d := MustNew(doc, "id:1")
	it := NewStruct(item).MustSet("name", NewString("a")).MustSet("tags", Strings("x"))
	require.NoError(t, d.Set("items", MustArray(ArrayOf(item), it)))

	c := d.Clone()
	require.True(t, d.Equal(c))

	items, _ := c.Get("items")
	first, _ := AsStruct(items.(*Array).At(0))
	tags, _ := first.Get("tags")
	require.NoError(t, tags.(*Array).Add(NewString("y")))

	assert.False(t, d.Equal(c))
	orig, _ := d.Get("items")
	origTags, _ := orig.(*Array).At(0).(*Struct).Get("tags")
	assert.Equal(t, 1, origTags.(*Array).Len())
}

func TestEqual_DifferentKinds(t *testing.T) {
	assert.False(t, NewString("a").Equal(Strings("a")))
	assert.False(t, Strings("a").Equal(NewString("a")))
	assert.False(t, NewInt(1).Equal(NewDouble(1)))
	assert.False(t, NewInt(1).Equal(nil))
}

func TestAssign(t *testing.T) {
	t.Run("Scalar", func(t *testing.T) {
		dst := NewInt(1)
		require.NoError(t, Assign(dst, NewInt(2)))
		assert.True(t, NewInt(2).Equal(dst))
	})
	t.Run("ArrayCopies", func(t *testing.T) {
		dst := Strings("x")
		src := Strings("a", "b")
		require.NoError(t, Assign(dst, src))
		require.NoError(t, src.Add(NewString("c")))
		assert.True(t, Strings("a", "b").Equal(dst))
	})
	t.Run("KindMismatch", func(t *testing.T) {
		dst := NewInt(1)
		err := Assign(dst, Strings("a"))
		assert.ErrorIs(t, err, ErrIncompatibleType)
		assert.True(t, NewInt(1).Equal(dst))
	})
	t.Run("TypeMismatch", func(t *testing.T) {
		assert.ErrorIs(t, Assign(NewInt(1), NewString("a")), ErrIncompatibleType)
	})
}

func TestAssignAs(t *testing.T) {
	t.Run("AnyScalarTakesSourceType", func(t *testing.T) {
		dst := NewInt(7)
		require.NoError(t, AssignAs(Any, dst, NewString("s")))
		assert.True(t, NewString("s").Equal(dst))
	})
	t.Run("AnyArrayTakesSourceType", func(t *testing.T) {
		dst := Strings("x")
		src := MustArray(ArrayOf(Int), NewInt(1))
		require.NoError(t, AssignAs(Any, dst, src))
		assert.Equal(t, "array<int>", dst.TypeName())
		assert.True(t, src.Equal(dst))
	})
	t.Run("ArrayOfAnyKeepsDeclaredType", func(t *testing.T) {
		dst := MustArray(ArrayOf(Any), NewInt(1))
		require.NoError(t, AssignAs(ArrayOf(Any), dst, Strings("a")))
		assert.Equal(t, "array<any>", dst.TypeName())
		assert.Equal(t, 1, dst.Len())
	})
	t.Run("KindStillChecked", func(t *testing.T) {
		dst := NewInt(7)
		assert.ErrorIs(t, AssignAs(Any, dst, Strings("a")), ErrIncompatibleType)
		assert.True(t, NewInt(7).Equal(dst))
	})
	t.Run("DeclaredTypeChecked", func(t *testing.T) {
		assert.ErrorIs(t, AssignAs(Int, NewInt(1), NewString("a")), ErrIncompatibleType)
	})
}

func TestDocumentDirty(t *testing.T) {
	_, doc := testTypes(t)
	d := MustNew(doc, "id:1")
	assert.False(t, d.Dirty())
	d.MarkDirty()
	assert.True(t, d.Dirty())
	assert.True(t, d.Clone().Dirty())
	d.Clean()
	assert.False(t, d.Dirty())

	_, err := New(String, "id:2")
	assert.ErrorIs(t, err, ErrInvalidType)
}
