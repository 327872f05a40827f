package rag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreReplaceAndLoad(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	m, err := store.Manifest()
	require.NoError(t, err)
	assert.Nil(t, m)

	first := []Chunk{
		{ID: "d-0000", Source: "a.md", Content: "old one", Embedding: []float32{1, 0}},
		{ID: "d-0001", Source: "a.md", Content: "old two", Embedding: []float32{0, 1}},
	}
	require.NoError(t, store.Replace(first, Manifest{EmbeddingModel: "m1", ChunkCount: 2, BuiltAt: time.Now()}))

	second := []Chunk{{ID: "e-0000", Source: "b.md", Content: "new", Embedding: []float32{0.5, 0.5}}}
	require.NoError(t, store.Replace(second, Manifest{EmbeddingModel: "m2", Documents: []string{"b.md"}, ChunkCount: 1}))

	chunks, err := store.LoadChunks()
	require.NoError(t, err)
	if assert.Len(t, chunks, 1) {
		assert.Equal(t, "e-0000", chunks[0].ID)
		assert.Equal(t, []float32{0.5, 0.5}, chunks[0].Embedding)
	}

	m, err = store.Manifest()
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "m2", m.EmbeddingModel)
	assert.Equal(t, []string{"b.md"}, m.Documents)
}
