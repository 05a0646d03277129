package minio

import (
	"context"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/docupdate/blobstore"
)

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := "localhost:9000"
	bucket := "test-docupdate"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ping, pingCancel := context.WithTimeout(ctx, 2*time.Second)
	_, err = client.ListBuckets(ping)
	pingCancel()
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "test-prefix/")

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "seg/000001", data))

	got, err := store.Get(ctx, "seg/000001")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "seg/")
	require.NoError(t, err)
	assert.Contains(t, names, "seg/000001")

	require.NoError(t, store.Delete(ctx, "seg/000001"))
	_, err = store.Get(ctx, "seg/000001")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
