package batch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/docupdate/document"
	"github.com/hupe1980/docupdate/fieldpath"
	"github.com/hupe1980/docupdate/schema"
	"github.com/hupe1980/docupdate/update"
)

var (
	musicType = document.MustStructType("music",
		document.Field{Name: "title", Type: document.String},
		document.Field{Name: "tags", Type: document.ArrayOf(document.String)},
	)
	bookType = document.MustStructType("book",
		document.Field{Name: "title", Type: document.String},
	)
)

func newRepo(t *testing.T) *schema.Registry {
	t.Helper()
	r := schema.NewRegistry()
	require.NoError(t, r.RegisterDocument(musicType))
	require.NoError(t, r.RegisterDocument(bookType))
	return r
}

func musicDocs(t *testing.T, n int) []*document.Document {
	t.Helper()
	docs := make([]*document.Document, n)
	for i := range docs {
		docs[i] = document.MustNew(musicType, fmt.Sprintf("id:music:%d", i))
		title := "y"
		if i%2 == 0 {
			title = "x"
		}
		require.NoError(t, docs[i].Set("title", document.NewString(title)))
	}
	return docs
}

func TestApplier_Outcomes(t *testing.T) {
	repo := newRepo(t)
	docs := musicDocs(t, 10)
	docs[7] = document.MustNew(bookType, "id:book:7")

	u, err := update.NewAssign(repo, "music", "title", "", document.NewString("x"))
	require.NoError(t, err)

	res, err := NewApplier(func(o *Options) { o.Concurrency = 3 }).Apply(context.Background(), docs, u)
	require.NoError(t, err)

	assert.Equal(t, []uint32{1, 3, 5, 9}, res.Modified.ToArray())
	assert.Equal(t, []uint32{0, 2, 4, 6, 8}, res.Unchanged.ToArray())
	assert.Equal(t, []uint32{7}, res.Failed.ToArray())
	assert.True(t, res.Partial.IsEmpty())
	assert.Equal(t, uint64(10), res.Processed())

	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, update.ErrDocumentType)
	var de *DocumentError
	require.ErrorAs(t, res.Err, &de)
	assert.Equal(t, 7, de.Index)
	assert.Equal(t, "id:book:7", de.ID)

	for i, d := range docs {
		if i == 7 {
			continue
		}
		v, _ := d.Get("title")
		assert.True(t, document.NewString("x").Equal(v))
		assert.Equal(t, i%2 == 1, d.Dirty(), "document %d", i)
	}
}

type compilerFunc func(clause string) (fieldpath.Predicate, error)

func (f compilerFunc) Compile(clause string) (fieldpath.Predicate, error) { return f(clause) }

func TestApplier_PartialChange(t *testing.T) {
	repo := newRepo(t)
	docs := musicDocs(t, 2)
	require.NoError(t, docs[0].Set("tags", document.Strings("a", "stop", "c")))
	require.NoError(t, docs[1].Set("tags", document.Strings("stop", "c")))

	// Matches every tag and fails on the tag named by the clause.
	failOn := compilerFunc(func(clause string) (fieldpath.Predicate, error) {
		return fieldpath.PredicateFunc(func(loc fieldpath.Location) (bool, error) {
			if loc.Value.Equal(document.NewString(clause)) {
				return false, errors.New("cannot evaluate")
			}
			return true, nil
		}), nil
	})

	u, err := update.NewRemove(repo, "music", "tags[*]", "stop")
	require.NoError(t, err)

	res, err := NewApplier(func(o *Options) { o.Predicates = failOn }).Apply(context.Background(), docs, u)
	require.NoError(t, err)

	assert.Equal(t, []uint32{0, 1}, res.Failed.ToArray())
	assert.Equal(t, []uint32{0}, res.Partial.ToArray())
	assert.True(t, res.Modified.IsEmpty())
	assert.Equal(t, uint64(2), res.Processed())

	tags, _ := docs[0].Get("tags")
	assert.True(t, document.Strings("stop", "c").Equal(tags), "got %s", tags)
	assert.True(t, docs[0].Dirty())
	assert.False(t, docs[1].Dirty())
}

func TestApplier_ErrorsInIndexOrder(t *testing.T) {
	repo := newRepo(t)
	docs := make([]*document.Document, 6)
	for i := range docs {
		docs[i] = document.MustNew(bookType, fmt.Sprintf("id:book:%d", i))
	}
	u, err := update.NewAdd(repo, "music", "tags", "", document.Strings("a"))
	require.NoError(t, err)

	res, err := NewApplier().Apply(context.Background(), docs, u)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), res.Failed.GetCardinality())

	var merr *multierror.Error
	require.ErrorAs(t, res.Err, &merr)
	require.Len(t, merr.Errors, 6)
	for i, e := range merr.Errors {
		var de *DocumentError
		require.ErrorAs(t, e, &de)
		assert.Equal(t, i, de.Index)
	}
}

func TestApplier_Duplicate(t *testing.T) {
	repo := newRepo(t)
	docs := musicDocs(t, 2)
	u, err := update.NewAdd(repo, "music", "tags", "", document.Strings("a"))
	require.NoError(t, err)

	_, err = NewApplier().Apply(context.Background(), []*document.Document{docs[0], docs[1], docs[0]}, u)
	assert.ErrorIs(t, err, ErrDuplicateDocument)
}

func TestApplier_Cancelled(t *testing.T) {
	repo := newRepo(t)
	docs := musicDocs(t, 4)
	u, err := update.NewAdd(repo, "music", "tags", "", document.Strings("a"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := NewApplier().Apply(ctx, docs, u)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, uint64(0), res.Processed())
	for _, d := range docs {
		assert.False(t, d.Dirty())
	}
}

func TestApplier_RateLimited(t *testing.T) {
	repo := newRepo(t)
	docs := musicDocs(t, 5)
	u, err := update.NewAdd(repo, "music", "tags", "", document.Strings("a", "b"))
	require.NoError(t, err)

	a := NewApplier(func(o *Options) {
		o.Concurrency = 2
		o.RateLimit = 1000
		o.Burst = 1
	})
	res, err := a.Apply(context.Background(), docs, u)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), res.Modified.GetCardinality())
	assert.NoError(t, res.Err)

	for _, d := range docs {
		tags, ok := d.Get("tags")
		require.True(t, ok)
		assert.True(t, document.Strings("a", "b").Equal(tags))
	}
}
