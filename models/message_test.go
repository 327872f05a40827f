package models_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"lisa/models"
)

func makeHistory(n int) []models.Message {
	out := make([]models.Message, n)
	for i := range out {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		out[i] = models.Message{ID: fmt.Sprintf("m-%d", i), Role: role, Content: fmt.Sprintf("content %d", i), Timestamp: int64(i)}
	}
	return out
}

func TestRecentMessagesKeepsNewestInOrder(t *testing.T) {
	history := makeHistory(12)

	recent := models.RecentMessages(history, 10)

	assert.Len(t, recent, 10)
	assert.Equal(t, "m-2", recent[0].ID)
	assert.Equal(t, "m-11", recent[9].ID)
	for i := 1; i < len(recent); i++ {
		assert.Less(t, recent[i-1].Timestamp, recent[i].Timestamp)
	}
}

func TestRecentMessagesShortHistory(t *testing.T) {
	history := makeHistory(3)
	recent := models.RecentMessages(history, 10)
	assert.Equal(t, history, recent)

	recent[0].Content = "changed"
	assert.Equal(t, "content 0", history[0].Content)
}

func TestRecentMessagesEmpty(t *testing.T) {
	assert.Empty(t, models.RecentMessages(nil, 10))
	assert.Empty(t, models.RecentMessages(makeHistory(4), 0))
}

func TestToPromptMessages(t *testing.T) {
	prompt := models.ToPromptMessages(makeHistory(2))
	assert.Equal(t, []models.PromptMessage{
		{Role: models.RoleUser, Content: "content 0"},
		{Role: models.RoleAssistant, Content: "content 1"},
	}, prompt)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "hello", models.Excerpt("hello", 10))
	assert.Equal(t, "hel...", models.Excerpt("hello", 3))
	assert.Equal(t, "안녕...", models.Excerpt("안녕하세요", 2))
	assert.Equal(t, "hello", models.Excerpt("hello", 0))
}
