package rag

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// GeminiEmbedder 는 Gemini embedding 모델로 텍스트를 벡터화한다.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

// NewGeminiEmbedder 는 apiKey 가 비어있으면 ErrNoEmbedder 를 반환한다.
// httpClient 는 outbound 로깅/트레이싱을 위해 주입받으며 nil 이어도 된다.
func NewGeminiEmbedder(ctx context.Context, apiKey, model string, httpClient *http.Client) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, ErrNoEmbedder
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiEmbedder{client: client, model: model}, nil
}

func (e *GeminiEmbedder) Model() string {
	return e.model
}

func (e *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini returned %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}

	out := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		out[i] = emb.Values
	}
	return out, nil
}
