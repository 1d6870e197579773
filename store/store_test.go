package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgessner/canopy/store"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	doc, err := s.Get(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, doc, "getting an absent document is not an error")

	require.NoError(t, s.Put(ctx, "model-a", []byte("module a")))
	require.NoError(t, s.Put(ctx, "model-b", []byte("module b")))

	doc, err = s.Get(ctx, "model-a")
	require.NoError(t, err)
	assert.Equal(t, []byte("module a"), doc)

	require.NoError(t, s.Put(ctx, "model-a", []byte("module a v2")))
	doc, err = s.Get(ctx, "model-a")
	require.NoError(t, err)
	assert.Equal(t, []byte("module a v2"), doc, "putting under an existing name replaces the document")

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"model-a", "model-b"}, names, "listed names are sorted")

	require.NoError(t, s.Delete(ctx, "model-a"))
	doc, err = s.Get(ctx, "model-a")
	require.NoError(t, err)
	assert.Nil(t, doc)
	require.NoError(t, s.Delete(ctx, "never-existed"), "deleting an absent document is not an error")

	require.NoError(t, s.Close(ctx))
}

func TestMemoryStoreIsolatesDocuments(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	original := []byte("immutable?")
	require.NoError(t, s.Put(ctx, "doc", original))
	original[0] = 'X'

	doc, err := s.Get(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, []byte("immutable?"), doc, "the store must not alias the caller's slice")
}

func TestMemoryStoreHonorsContext(t *testing.T) {
	s := store.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Put(ctx, "doc", []byte("x")), context.Canceled)
	_, err := s.Get(ctx, "doc")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Delete(ctx, "doc"), context.Canceled)
}
