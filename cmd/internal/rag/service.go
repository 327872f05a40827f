package rag

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"sync/atomic"

	"lisa/cmd/internal/logger"
	"lisa/models"
)

// DefaultHistoryTurns 는 검색 질의에 접어 넣는 최근 대화 개수다.
const DefaultHistoryTurns = 4

type Options struct {
	DocumentsDir   string
	StorageDir     string
	EmbeddingModel string
	TopK           int
	ChunkSize      int
	ChunkOverlap   int
	EmbedBatchSize int
	HistoryTurns   int
}

// Service 는 문서 인덱스 기반 검색 서비스다.
//
// 프로세스 시작 시 Start 로 한 번만 비동기 초기화하며, 결과(문서 있음/없음)는
// 프로세스 수명 동안 바뀌지 않는다. 초기화 실패는 재시도하지 않는다.
type Service struct {
	embedder  Embedder
	completer Completer
	opts      Options

	startOnce    sync.Once
	done         chan struct{}
	ready        atomic.Bool
	hasDocuments atomic.Bool

	// index 는 done 이 닫히기 전에 한 번만 기록된다.
	index *vectorIndex
}

// NewService 는 embedder 가 nil 이면 항상 "문서 없음" 으로 초기화되는 서비스를 만든다.
func NewService(embedder Embedder, completer Completer, opts Options) *Service {
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	if opts.HistoryTurns <= 0 {
		opts.HistoryTurns = DefaultHistoryTurns
	}
	return &Service{
		embedder:  embedder,
		completer: completer,
		opts:      opts,
		done:      make(chan struct{}),
	}
}

// Start 는 초기화를 백그라운드로 시작한다. 두 번째 호출부터는 아무것도 하지 않는다.
func (s *Service) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go s.run(ctx)
	})
}

// Wait 는 초기화가 끝나거나 ctx 가 끝날 때까지 기다린다.
func (s *Service) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsReady 는 초기화 시도가 (성공/실패와 무관하게) 끝났는지를 반환한다.
func (s *Service) IsReady() bool {
	return s.ready.Load()
}

// HasDocuments 는 인덱스가 만들어졌거나 로드됐는지를 반환한다. 블로킹하지 않는다.
func (s *Service) HasDocuments() bool {
	return s.hasDocuments.Load()
}

func (s *Service) Status() Status {
	st := Status{Ready: s.IsReady(), HasDocuments: s.HasDocuments()}
	if st.HasDocuments {
		st.Chunks = s.index.Len()
	}
	return st
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	logger.Log.Info("initializing LISA RAG system...")
	idx, err := s.loadOrBuild(ctx)
	switch {
	case err != nil:
		logger.ErrorWithFields("rag initialization failed, answering with base LLM only", logger.Fields{
			"error": err.Error(),
		})
	case idx != nil:
		s.index = idx
		s.hasDocuments.Store(true)
		logger.InfoWithFields("LISA RAG system ready", logger.Fields{"chunks": idx.Len()})
	}
	s.ready.Store(true)
}

func (s *Service) loadOrBuild(ctx context.Context) (*vectorIndex, error) {
	if s.embedder == nil {
		logger.Log.Warn("no embedding provider configured, RAG will use base LLM without additional context")
		return nil, nil
	}

	files, err := ListDocumentFiles(s.opts.DocumentsDir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Log.Warnf("no data directory found at %s, RAG will use base LLM without additional context", s.opts.DocumentsDir)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if len(files) == 0 {
		logger.Log.Warnf("no documents found in %s", s.opts.DocumentsDir)
		return nil, nil
	}
	logger.Log.Infof("found %d documents, loading...", len(files))

	store, err := OpenStore(s.opts.StorageDir)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	chunks, err := loadPersisted(store, s.opts.EmbeddingModel)
	if err != nil {
		return nil, err
	}
	if len(chunks) > 0 {
		logger.Log.Infof("loaded existing vector index from %s", s.opts.StorageDir)
		return newVectorIndex(chunks), nil
	}

	logger.Log.Info("building new vector index from documents...")
	docs, err := LoadDocuments(ctx, s.opts.DocumentsDir, files)
	if err != nil {
		return nil, err
	}
	chunks, err = BuildIndex(ctx, store, s.embedder, docs, s.opts)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	if len(chunks) == 0 {
		logger.Log.Warnf("documents in %s contain no indexable text", s.opts.DocumentsDir)
		return nil, nil
	}
	logger.Log.Infof("vector index created and saved to %s", s.opts.StorageDir)
	return newVectorIndex(chunks), nil
}

// loadPersisted 는 같은 임베딩 모델로 만든 인덱스가 저장돼 있으면 그 청크를 반환한다.
// 모델이 다르면 벡터 공간이 달라 재사용할 수 없으므로 nil 을 반환해 재빌드하게 한다.
func loadPersisted(store *Store, embeddingModel string) ([]Chunk, error) {
	manifest, err := store.Manifest()
	if err != nil || manifest == nil {
		return nil, err
	}
	if manifest.EmbeddingModel != embeddingModel {
		logger.Log.Warnf("stored index was built with %q, rebuilding for %q", manifest.EmbeddingModel, embeddingModel)
		return nil, nil
	}
	return store.LoadChunks()
}

// Query 는 질문(최근 대화 포함)으로 관련 청크를 찾고 LLM 으로 답을 합성한다.
// 초기화가 끝나지 않았으면 끝날 때까지 기다린다.
func (s *Service) Query(ctx context.Context, question string, history []models.Message) (string, error) {
	s.Start(context.WithoutCancel(ctx))
	if err := s.Wait(ctx); err != nil {
		return "", err
	}
	if s.index == nil {
		return "", ErrNoDocuments
	}

	contextual := ContextualQuestion(question, history, s.opts.HistoryTurns)
	vectors, err := s.embedder.Embed(ctx, []string{contextual})
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return "", fmt.Errorf("embed query: got %d vectors", len(vectors))
	}

	hits := s.index.Search(vectors[0], s.opts.TopK)
	logger.DebugWithFields("rag retrieved chunks", logger.Fields{"hits": len(hits)})

	answer, err := s.completer.Complete(ctx, BuildAnswerPrompt(contextual, hits))
	if err != nil {
		return "", fmt.Errorf("synthesize answer: %w", err)
	}
	if strings.TrimSpace(answer) == "" {
		return "", ErrEmptyAnswer
	}
	return answer, nil
}
