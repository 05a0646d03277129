package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentJSON(t *testing.T) {
	_, doc := testTypes(t)
	d := MustNew(doc, "id:1")
	require.NoError(t, d.Set("title", NewString("Hello")))
	require.NoError(t, d.Set("tags", Strings("a", "b")))

	b, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"id:1","type":"music","fields":{"title":"Hello","tags":["a","b"]}}`, string(b))
}

func TestParseJSON(t *testing.T) {
	item, doc := testTypes(t)

	v, err := ParseJSON(doc, []byte(`{
		"title": "t",
		"year": 1999,
		"score": 1,
		"items": [{"name": "a", "tags": ["x"]}],
		"embedding": [1, 2],
		"extra": ["a", 1.5]
	}`))
	require.NoError(t, err)

	want := NewStruct(doc).
		MustSet("title", NewString("t")).
		MustSet("year", NewInt(1999)).
		MustSet("score", NewDouble(1)).
		MustSet("items", MustArray(ArrayOf(item), NewStruct(item).MustSet("name", NewString("a")).MustSet("tags", Strings("x")))).
		MustSet("extra", MustArray(ArrayOf(Any), NewString("a"), NewDouble(1.5)))
	emb, _ := doc.Field("embedding")
	e, err := FromAny(emb.Type, []any{1.0, 2.0})
	require.NoError(t, err)
	want.MustSet("embedding", e)

	assert.True(t, want.Equal(v), "got %s", v)
}

func TestFromAny_Errors(t *testing.T) {
	_, doc := testTypes(t)
	emb, _ := doc.Field("embedding")

	tests := []struct {
		name string
		typ  *DataType
		x    any
	}{
		{"IntFromFraction", Int, 1.5},
		{"StringFromBool", String, true},
		{"UnknownField", doc, map[string]any{"nope": 1}},
		{"TensorShape", emb.Type, []any{1.0}},
		{"AnyMap", Any, map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromAny(tt.typ, tt.x)
			assert.Error(t, err)
		})
	}
}
