package rag

import (
	"fmt"
	"strings"

	"lisa/models"
)

// ContextualQuestion 은 history 의 마지막 turns 개를 "role: content" 줄로 접어
// 질문 앞에 붙인다. history 가 비어있으면 question 을 그대로 반환한다.
func ContextualQuestion(question string, history []models.Message, turns int) string {
	recent := models.RecentMessages(history, turns)
	if len(recent) == 0 {
		return question
	}
	lines := make([]string, len(recent))
	for i, m := range recent {
		lines[i] = fmt.Sprintf("%s: %s", m.Role, m.Content)
	}
	return fmt.Sprintf("Given this conversation history:\n%s\n\nQuestion: %s", strings.Join(lines, "\n"), question)
}

// BuildAnswerPrompt 는 검색된 청크를 문맥으로 하는 질의응답 프롬프트를 만든다.
func BuildAnswerPrompt(query string, hits []ScoredChunk) []models.PromptMessage {
	parts := make([]string, len(hits))
	for i, h := range hits {
		parts[i] = fmt.Sprintf("file_name: %s\n\n%s", h.Chunk.Source, h.Chunk.Content)
	}

	var sb strings.Builder
	sb.WriteString("Context information is below.\n")
	sb.WriteString("---------------------\n")
	sb.WriteString(strings.Join(parts, "\n\n"))
	sb.WriteString("\n---------------------\n")
	sb.WriteString("Given the context information and not prior knowledge, answer the query.\n")
	sb.WriteString("Query: ")
	sb.WriteString(query)
	sb.WriteString("\nAnswer: ")

	return []models.PromptMessage{{Role: models.RoleUser, Content: sb.String()}}
}
