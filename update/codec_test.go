package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/docupdate/document"
	"github.com/hupe1980/docupdate/fieldpath"
	"github.com/hupe1980/docupdate/schema"
	"github.com/hupe1980/docupdate/wire"
)

func TestCodec_Roundtrip(t *testing.T) {
	repo := newRepo(t)

	build := func(t *testing.T, where string, assignOpts ...func(*AssignOptions)) []PathUpdate {
		t.Helper()
		add, err := NewAdd(repo, "music", "tags", where, document.Strings("a", "b"))
		require.NoError(t, err)
		addItems, err := NewAdd(repo, "music", "items", where, document.MustArray(document.ArrayOf(itemType),
			document.NewStruct(itemType).MustSet("name", document.NewString("n")).MustSet("tags", document.Strings("t"))))
		require.NoError(t, err)
		empty, err := NewAdd(repo, "music", "items[*].tags", where, document.Strings())
		require.NoError(t, err)
		assign, err := NewAssign(repo, "music", "score", where, document.NewDouble(2.5), assignOpts...)
		require.NoError(t, err)
		rm, err := NewRemove(repo, "music", "items[3]", where)
		require.NoError(t, err)
		return []PathUpdate{add, addItems, empty, assign, rm}
	}

	tests := []struct {
		name       string
		version    Version
		where      string
		assignOpts []func(*AssignOptions)
	}{
		{"V1", FormatV1, "", nil},
		{"V2", FormatV2, "", nil},
		{"V2Where", FormatV2, "value != nil", nil},
		{"V3", FormatV3, "value != nil", []func(*AssignOptions){WithCreateMissingPath(), WithRemoveIfZero()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, u := range build(t, tt.where, tt.assignOpts...) {
				data, err := Encode(u, tt.version)
				require.NoError(t, err, u.String())

				got, err := Decode(repo, "music", data, tt.version)
				require.NoError(t, err, u.String())
				assert.True(t, u.Equal(got), "got %s, want %s", got, u)
			}
		})
	}
}

func TestEncode_Layout(t *testing.T) {
	repo := newRepo(t)
	u, err := NewAdd(repo, "music", "tags", "", document.Strings("a", "b"))
	require.NoError(t, err)

	got, err := Encode(u, FormatV2)
	require.NoError(t, err)

	want := []byte{
		0x04, 't', 'a', 'g', 's', // field path
		0x00,           // where-clause
		0x01,           // tag
		0x02,           // element count
		0x01, 'a',      // "a"
		0x01, 'b',      // "b"
	}
	assert.Equal(t, want, got)

	got, err = Encode(u, FormatV1)
	require.NoError(t, err)
	assert.Equal(t, append(want[:5:5], want[6:]...), got)
}

func TestEncode_VersionGating(t *testing.T) {
	repo := newRepo(t)

	withWhere, err := NewRemove(repo, "music", "tags", "value == 'x'")
	require.NoError(t, err)
	_, err = Encode(withWhere, FormatV1)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	withFlags, err := NewAssign(repo, "music", "year", "", document.NewInt(1), WithRemoveIfZero())
	require.NoError(t, err)
	_, err = Encode(withFlags, FormatV2)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, err = Encode(withFlags, Version(9))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
	_, err = Decode(repo, "music", []byte{0}, Version(0))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecode_Truncated(t *testing.T) {
	repo := newRepo(t)
	u, err := NewAdd(repo, "music", "tags", "", document.Strings("ab", "cd"))
	require.NoError(t, err)
	full, err := Encode(u, FormatV3)
	require.NoError(t, err)

	tests := []struct {
		name  string
		data  []byte
		field string
	}{
		{"Empty", nil, "field path length"},
		{"PartialPath", full[:3], "field path"},
		{"MissingWhere", full[:5], "where-clause length"},
		{"MissingTag", full[:6], "update tag"},
		{"MissingCount", full[:7], "add payload count"},
		{"PartialElement", full[:len(full)-1], "add payload[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := Decode(repo, "music", tt.data, FormatV3)
			assert.Nil(t, u)
			var de *wire.DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.field, de.Field)
			assert.ErrorIs(t, err, wire.ErrShortBuffer)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	repo := newRepo(t)

	record := func(path string, tag byte, payload ...byte) []byte {
		c := wire.NewWriter(16)
		require.NoError(t, c.PutString(path))
		require.NoError(t, c.PutString(""))
		c.PutUint8(tag)
		c.PutRaw(payload)
		return c.Bytes()
	}

	t.Run("UnknownTag", func(t *testing.T) {
		_, err := Decode(repo, "music", record("tags", 9), FormatV3)
		var de *wire.DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "update tag", de.Field)
		assert.ErrorIs(t, err, wire.ErrMalformed)
	})
	t.Run("InvalidPath", func(t *testing.T) {
		_, err := Decode(repo, "music", record("tags[", 3), FormatV3)
		var de *wire.DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "field path", de.Field)
	})
	t.Run("UnresolvedPath", func(t *testing.T) {
		_, err := Decode(repo, "music", record("nope", 3), FormatV3)
		var re *schema.ResolutionError
		require.ErrorAs(t, err, &re)
		assert.ErrorIs(t, err, fieldpath.ErrFieldNotFound)
	})
	t.Run("TrailingBytes", func(t *testing.T) {
		_, err := Decode(repo, "music", record("tags", 3, 0xFF), FormatV3)
		assert.ErrorIs(t, err, wire.ErrMalformed)
	})
	t.Run("UnknownAssignFlags", func(t *testing.T) {
		_, err := Decode(repo, "music", record("year", 2, 0x80), FormatV3)
		assert.ErrorIs(t, err, wire.ErrMalformed)
	})
	t.Run("AnyIsNotSelfDescribing", func(t *testing.T) {
		_, err := Decode(repo, "music", record("items[0].meta", 1, 0x01, 0x00), FormatV3)
		assert.ErrorIs(t, err, document.ErrNotSelfDescribing)

		_, err = Decode(repo, "music", record("items[0].meta", 2, 0x00, 0x00), FormatV3)
		assert.ErrorIs(t, err, document.ErrNotSelfDescribing)
	})
	t.Run("AnyPayloadEncode", func(t *testing.T) {
		u, err := NewAdd(repo, "music", "items[0].meta", "", document.Strings("a"))
		require.NoError(t, err)
		_, err = Encode(u, FormatV3)
		assert.ErrorIs(t, err, document.ErrNotSelfDescribing)
	})
	t.Run("HostileCount", func(t *testing.T) {
		_, err := Decode(repo, "music", record("tags", 1, 0xFF, 0xFF, 0xFF, 0xFF), FormatV3)
		var de *wire.DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "add payload", de.Field)
	})
}

func TestDecodeFrom_ConsumesExactly(t *testing.T) {
	repo := newRepo(t)
	a, err := NewAdd(repo, "music", "tags", "", document.Strings("a"))
	require.NoError(t, err)
	r, err := NewRemove(repo, "music", "title", "")
	require.NoError(t, err)

	c := wire.NewWriter(32)
	require.NoError(t, EncodeTo(c, a, CurrentVersion))
	require.NoError(t, EncodeTo(c, r, CurrentVersion))

	rd := wire.NewReader(c.Bytes())
	first, err := DecodeFrom(rd, repo, "music", CurrentVersion)
	require.NoError(t, err)
	second, err := DecodeFrom(rd, repo, "music", CurrentVersion)
	require.NoError(t, err)
	assert.True(t, a.Equal(first))
	assert.True(t, r.Equal(second))
	assert.NoError(t, rd.Done("stream"))
}
