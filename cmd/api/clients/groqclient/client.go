package groqclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"lisa/cmd/api/httpclient"
	"lisa/cmd/api/quota"
	"lisa/config"
	"lisa/models"
)

// ErrMissingAPIKey 는 GROQ_API_KEY 가 설정되지 않은 상태에서 호출했을 때 반환된다.
var ErrMissingAPIKey = errors.New("GROQ_API_KEY environment variable is not set")

// Client 는 Groq 의 OpenAI 호환 chat completions API 클라이언트다.
type Client struct {
	base        *httpclient.BaseClient
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	limiter     *quota.Limiter
}

type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	// HTTPClient 가 주어지면 Timeout 은 무시된다.
	HTTPClient *http.Client
	Limiter    *quota.Limiter
}

type ChatCompletionRequest struct {
	Model       string                 `json:"model"`
	Messages    []models.PromptMessage `json:"messages"`
	Temperature float64                `json:"temperature"`
	MaxTokens   int                    `json:"max_tokens"`
}

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int                  `json:"index"`
	Message      models.PromptMessage `json:"message"`
	FinishReason string               `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("groq request failed: status=%d body=%s", e.StatusCode, e.Body)
}

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = httpclient.New(httpclient.Config{Timeout: opts.Timeout})
	}
	return &Client{
		base:        httpclient.NewBaseClientWithClient(httpClient, opts.BaseURL),
		apiKey:      opts.APIKey,
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		limiter:     opts.Limiter,
	}
}

// NewFromConfig 는 config.yaml 의 llm 섹션과 GROQ_API_KEY 로 클라이언트를 만든다.
func NewFromConfig(cfg config.LLMConfig, limiter *quota.Limiter) *Client {
	temperature := 0.7
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	return New(Options{
		BaseURL:     cfg.BaseURL,
		APIKey:      os.Getenv("GROQ_API_KEY"),
		Model:       cfg.Model,
		Temperature: temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		Limiter:     limiter,
	})
}

func (c *Client) Model() string {
	return c.model
}

// Complete 는 messages 를 그대로 전송하고 첫 번째 choice 의 content 를 반환한다.
// choice 가 없으면 빈 문자열을 반환하며, 대체 문구 처리는 호출자의 몫이다.
func (c *Client) Complete(ctx context.Context, messages []models.PromptMessage) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	if err := c.limiter.Reserve(ctx); err != nil {
		return "", fmt.Errorf("groq quota: %w", err)
	}

	buf, err := json.Marshal(ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := c.base.NewRequest(ctx, http.MethodPost, "/chat/completions", nil, bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.base.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	const maxBodySize = 5 * 1024 * 1024
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if readErr != nil {
		return "", fmt.Errorf("groq response read failed: %w", readErr)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out ChatCompletionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("groq response decode failed: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}
