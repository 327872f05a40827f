package rag

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"lisa/models"
)

var testVocabulary = []string{"bios", "firmware", "release", "holiday", "coffee"}

// keywordEmbedder 는 어휘 출현 횟수로 벡터를 만드는 테스트용 임베더다.
type keywordEmbedder struct {
	calls atomic.Int32
	err   error
}

func (e *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.calls.Add(1)
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec := make([]float32, len(testVocabulary)+1)
		lower := strings.ToLower(t)
		for j, w := range testVocabulary {
			vec[j] = float32(strings.Count(lower, w))
		}
		vec[len(testVocabulary)] = 0.01
		out[i] = vec
	}
	return out, nil
}

type stubCompleter struct {
	mu       sync.Mutex
	answer   string
	err      error
	received [][]models.PromptMessage
}

func (c *stubCompleter) Complete(_ context.Context, messages []models.PromptMessage) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.received = append(c.received, messages)
	return c.answer, c.err
}

func (c *stubCompleter) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.received)
}

var errEmbedUnavailable = errors.New("embedding quota exceeded")
