package services

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"lisa/cmd/api/trace"
	"lisa/cmd/internal/logger"
	"lisa/cmd/internal/rag"
	"lisa/models"
)

// HistoryWindow 는 다운스트림으로 보내는 최근 대화 개수다. 설정으로 바꾸지 않는다.
const HistoryWindow = 10

// maxPendingRecords 는 동시에 진행 중일 수 있는 턴 기록 수다. 넘치면 기록을 버린다.
const maxPendingRecords = 64

const (
	SystemPrompt = "You are LISA, an AI assistant for the BIOS team. You are helpful, professional, and knowledgeable. Provide clear, concise responses that help the team be more productive."

	// FallbackReply 는 모델이 빈 응답을 돌려줬을 때 대신 보내는 문장이다.
	FallbackReply = "I apologize, but I couldn't generate a response."

	ErrCodeChatFailed     = "Failed to process chat request"
	ErrCodeInvalidRequest = "message is required"
)

// Completer 는 chat completion LLM 이다. groqclient.Client 가 구현한다.
type Completer interface {
	Complete(ctx context.Context, messages []models.PromptMessage) (string, error)
}

// Retriever 는 문서 검색 기반 답변기다. rag.Service 가 구현한다.
type Retriever interface {
	HasDocuments() bool
	Query(ctx context.Context, question string, history []models.Message) (string, error)
}

type ChatError struct {
	StatusCode int
	ErrorCode  string
	Cause      error
}

func (e *ChatError) Error() string {
	if e == nil {
		return ErrCodeChatFailed
	}
	return e.ErrorCode
}

func (e *ChatError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type ChatServiceOptions struct {
	ModelName        string
	LLMTimeout       time.Duration
	RetrievalTimeout time.Duration
	Recorder         TurnRecorder
}

type ChatService struct {
	completer Completer
	retriever Retriever
	recorder  TurnRecorder

	modelName        string
	llmTimeout       time.Duration
	retrievalTimeout time.Duration

	recordSlots chan struct{}
	recordWG    sync.WaitGroup

	now func() time.Time
}

// NewChatService 는 retriever 가 nil 이면 항상 직접 응답 경로만 쓴다.
func NewChatService(completer Completer, retriever Retriever, opts ChatServiceOptions) *ChatService {
	recorder := opts.Recorder
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &ChatService{
		completer:        completer,
		retriever:        retriever,
		recorder:         recorder,
		modelName:        opts.ModelName,
		llmTimeout:       opts.LLMTimeout,
		retrievalTimeout: opts.RetrievalTimeout,
		recordSlots:      make(chan struct{}, maxPendingRecords),
		now:              time.Now,
	}
}

type ChatReply struct {
	Message   string
	Timestamp int64
	Route     models.ChatRoute
}

// Chat 은 한 턴을 처리한다. 검색 경로가 실패하면 직접 응답으로 넘어가며,
// 직접 응답까지 실패했을 때만 ChatError 를 반환한다.
func (s *ChatService) Chat(ctx context.Context, message string, history []models.Message) (ChatReply, *ChatError) {
	if message == "" {
		return ChatReply{}, &ChatError{StatusCode: http.StatusBadRequest, ErrorCode: ErrCodeInvalidRequest}
	}

	started := s.now()
	trimmed := models.RecentMessages(history, HistoryWindow)
	outcome := s.Route(ctx, message, trimmed)
	completed := s.now()

	s.recordAsync(ctx, Turn{
		RequestID:     trace.RequestIDFromContext(ctx),
		ModelName:     s.modelName,
		Question:      message,
		HistoryLength: len(trimmed),
		Outcome:       outcome,
		StartedAt:     started,
		CompletedAt:   completed,
	})

	if outcome.Kind == OutcomeFailed {
		return ChatReply{}, &ChatError{
			StatusCode: http.StatusInternalServerError,
			ErrorCode:  ErrCodeChatFailed,
			Cause:      outcome.Err,
		}
	}
	return ChatReply{
		Message:   outcome.Text,
		Timestamp: completed.UnixMilli(),
		Route:     outcome.Kind.Route(),
	}, nil
}

// recordAsync 는 응답을 붙잡지 않도록 턴 기록을 백그라운드에서 수행한다.
func (s *ChatService) recordAsync(ctx context.Context, turn Turn) {
	if _, ok := s.recorder.(NopRecorder); ok {
		return
	}
	select {
	case s.recordSlots <- struct{}{}:
	default:
		logger.WarnWithFields("turn recorder is saturated, dropping chat turn", logger.Fields{
			"request_id": turn.RequestID,
		})
		return
	}

	s.recordWG.Add(1)
	go func() {
		defer s.recordWG.Done()
		defer func() { <-s.recordSlots }()
		s.recorder.RecordTurn(context.WithoutCancel(ctx), turn)
	}()
}

// Flush 는 진행 중인 턴 기록이 모두 끝나거나 ctx 가 끝날 때까지 기다린다.
func (s *ChatService) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.recordWG.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Route 는 history 가 이미 잘려 있다고 가정하고 검색/직접 응답 경로를 고른다.
func (s *ChatService) Route(ctx context.Context, message string, history []models.Message) Outcome {
	var retrievalErr error

	if s.retriever != nil && s.retriever.HasDocuments() {
		text, err := s.retrieve(ctx, message, history)
		if err == nil && strings.TrimSpace(text) == "" {
			err = rag.ErrEmptyAnswer
		}
		if err == nil {
			return Retrieved(text)
		}
		retrievalErr = err
		logger.WarnWithFields("rag query failed, falling back to direct completion", logger.Fields{
			"request_id": trace.RequestIDFromContext(ctx),
			"error":      err.Error(),
		})
	}

	text, err := s.complete(ctx, message, history)
	if err != nil {
		logger.ErrorWithFields("chat completion failed", logger.Fields{
			"request_id": trace.RequestIDFromContext(ctx),
			"model":      s.modelName,
			"error":      err.Error(),
		})
		return Failed(err, retrievalErr)
	}
	return Direct(text, retrievalErr)
}

func (s *ChatService) retrieve(ctx context.Context, message string, history []models.Message) (string, error) {
	ctx, cancel := withOptionalTimeout(ctx, s.retrievalTimeout)
	defer cancel()
	return s.retriever.Query(ctx, message, history)
}

func (s *ChatService) complete(ctx context.Context, message string, history []models.Message) (string, error) {
	ctx, cancel := withOptionalTimeout(ctx, s.llmTimeout)
	defer cancel()

	text, err := s.completer.Complete(ctx, BuildDirectPrompt(message, history))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return FallbackReply, nil
	}
	return text, nil
}

// BuildDirectPrompt 는 [system persona] + history + [user message] 순서의 프롬프트를 만든다.
func BuildDirectPrompt(message string, history []models.Message) []models.PromptMessage {
	msgs := make([]models.PromptMessage, 0, len(history)+2)
	msgs = append(msgs, models.PromptMessage{Role: models.RoleSystem, Content: SystemPrompt})
	msgs = append(msgs, models.ToPromptMessages(history)...)
	msgs = append(msgs, models.PromptMessage{Role: models.RoleUser, Content: message})
	return msgs
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
