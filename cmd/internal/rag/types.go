package rag

import (
	"context"
	"errors"
	"time"

	"lisa/models"
)

var (
	// ErrNoDocuments 는 인덱스 없이(문서 없음/초기화 실패) Query 가 호출됐을 때 반환된다.
	ErrNoDocuments = errors.New("rag: no documents indexed")
	// ErrEmptyAnswer 는 검색 경로가 공백뿐인 답변을 만들었을 때 반환된다.
	ErrEmptyAnswer = errors.New("rag: empty answer")
	// ErrNoEmbedder 는 임베딩 제공자가 설정되지 않았을 때 반환된다.
	ErrNoEmbedder = errors.New("rag: no embedding provider configured")
)

// Embedder 는 텍스트 묶음을 벡터로 바꾼다. 결과 순서는 입력 순서와 같아야 한다.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer 는 검색된 문맥으로 답변을 합성할 때 쓰는 LLM 이다.
type Completer interface {
	Complete(ctx context.Context, messages []models.PromptMessage) (string, error)
}

type Document struct {
	ID      string
	Name    string
	Path    string
	Content string
}

type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Source     string    `json:"source"`
	Index      int       `json:"index"`
	Content    string    `json:"content"`
	Embedding  []float32 `json:"embedding"`
}

type ScoredChunk struct {
	Chunk Chunk
	Score float32
}

// Manifest 는 저장된 인덱스가 어떤 문서/모델로 만들어졌는지 기록한다.
type Manifest struct {
	EmbeddingModel string    `json:"embedding_model"`
	Documents      []string  `json:"documents"`
	ChunkCount     int       `json:"chunk_count"`
	BuiltAt        time.Time `json:"built_at"`
}

// Status 는 /api/rag-status 와 indexer CLI 가 보여주는 준비 상태다.
type Status struct {
	Ready        bool `json:"ready"`
	HasDocuments bool `json:"hasDocuments"`
	Chunks       int  `json:"-"`
}
