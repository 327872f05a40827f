package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2, 3}, []float32{2, 4, 6}), 1e-6)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	assert.Zero(t, CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Zero(t, CosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}

func TestVectorIndexSearchOrdersByScore(t *testing.T) {
	idx := newVectorIndex([]Chunk{
		{ID: "a", Embedding: []float32{0, 1}},
		{ID: "b", Embedding: []float32{1, 0}},
		{ID: "c", Embedding: []float32{1, 1}},
		{ID: "empty"},
	})

	hits := idx.Search([]float32{1, 0}, 2)
	if assert.Len(t, hits, 2) {
		assert.Equal(t, "b", hits[0].Chunk.ID)
		assert.Equal(t, "c", hits[1].Chunk.ID)
	}

	assert.Len(t, idx.Search([]float32{1, 0}, 0), 3)
}
