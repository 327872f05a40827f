package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTextOverlapsWords(t *testing.T) {
	text := "one two three four five six seven"

	chunks := SplitText(text, 3, 1)
	assert.Equal(t, []string{
		"one two three",
		"three four five",
		"five six seven",
	}, chunks)
}

func TestSplitTextEdgeCases(t *testing.T) {
	assert.Nil(t, SplitText("   \n\t ", 10, 2))
	assert.Equal(t, []string{"a b"}, SplitText("a   b", 10, 2))
	// overlap 이 size 이상이면 겹침 없이 자른다.
	assert.Equal(t, []string{"a b", "c d"}, SplitText("a b c d", 2, 5))
	assert.Equal(t, []string{"a b c d"}, SplitText("a b c d", 0, 0))
}

func TestChunkDocumentsAssignsStableIDs(t *testing.T) {
	docs := []Document{
		{ID: "doc1", Name: "one.md", Content: strings.Repeat("word ", 5)},
		{ID: "doc2", Name: "two.txt", Content: "short"},
	}

	chunks := ChunkDocuments(docs, 3, 0)
	if assert.Len(t, chunks, 3) {
		assert.Equal(t, "doc1-0000", chunks[0].ID)
		assert.Equal(t, "doc1-0001", chunks[1].ID)
		assert.Equal(t, "one.md", chunks[1].Source)
		assert.Equal(t, 1, chunks[1].Index)
		assert.Equal(t, "doc2-0000", chunks[2].ID)
		assert.Empty(t, chunks[2].Embedding)
	}
}
