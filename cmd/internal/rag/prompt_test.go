package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lisa/models"
)

func TestContextualQuestionWithoutHistory(t *testing.T) {
	assert.Equal(t, "What is BIOS?", ContextualQuestion("What is BIOS?", nil, 4))
}

func TestContextualQuestionFoldsRecentTurns(t *testing.T) {
	history := []models.Message{
		{Role: models.RoleUser, Content: "m1"},
		{Role: models.RoleAssistant, Content: "m2"},
		{Role: models.RoleUser, Content: "m3"},
		{Role: models.RoleAssistant, Content: "m4"},
		{Role: models.RoleUser, Content: "m5"},
	}

	got := ContextualQuestion("next?", history, 4)
	assert.Equal(t, "Given this conversation history:\nassistant: m2\nuser: m3\nassistant: m4\nuser: m5\n\nQuestion: next?", got)
}

func TestBuildAnswerPromptIncludesSources(t *testing.T) {
	msgs := BuildAnswerPrompt("when is the release?", []ScoredChunk{
		{Chunk: Chunk{Source: "release.md", Content: "Release is on Friday."}},
		{Chunk: Chunk{Source: "notes.txt", Content: "Freeze starts Wednesday."}},
	})

	if assert.Len(t, msgs, 1) {
		assert.Equal(t, models.RoleUser, msgs[0].Role)
		assert.Contains(t, msgs[0].Content, "file_name: release.md\n\nRelease is on Friday.")
		assert.Contains(t, msgs[0].Content, "file_name: notes.txt")
		assert.Contains(t, msgs[0].Content, "Query: when is the release?\nAnswer: ")
	}
}
