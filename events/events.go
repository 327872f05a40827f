package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lisa/models"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	ChatTurnCompleted EventType = "chat.turn_completed"
)

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"` // "api" 등
	Version   string    `json:"version"`
}

func NewBaseEvent(t EventType, source string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now(),
		Source:    source,
		Version:   "1.0",
	}
}

// ChatTurnCompletedEvent 는 /api/chat 한 번의 처리 결과다. 실패한 턴도 발행한다.
type ChatTurnCompletedEvent struct {
	BaseEvent
	RequestID      string           `json:"request_id"`
	Route          models.ChatRoute `json:"route"`
	ModelName      string           `json:"model_name"`
	Question       string           `json:"question"`
	HistoryLength  int              `json:"history_length"`
	Answer         string           `json:"answer,omitempty"`
	RetrievalError string           `json:"retrieval_error,omitempty"`
	ErrorMessage   string           `json:"error_message,omitempty"`
	DurationMs     int64            `json:"duration_ms"`
	RequestedAt    time.Time        `json:"requested_at"`
	CompletedAt    time.Time        `json:"completed_at"`
}

// ToChatLog 는 이벤트를 chat_logs 도큐먼트로 바꾼다. 답변은 excerptLen 자로 자른다.
func (e ChatTurnCompletedEvent) ToChatLog(excerptLen int) models.ChatLog {
	log := models.ChatLog{
		EventID:       e.ID,
		RequestID:     e.RequestID,
		Route:         e.Route,
		ModelName:     e.ModelName,
		Question:      e.Question,
		HistoryLength: e.HistoryLength,
		AnswerExcerpt: models.Excerpt(e.Answer, excerptLen),
		DurationMs:    e.DurationMs,
		RequestedAt:   e.RequestedAt,
		CompletedAt:   e.CompletedAt,
	}
	if e.RetrievalError != "" {
		msg := e.RetrievalError
		log.RetrievalError = &msg
	}
	if e.ErrorMessage != "" {
		msg := e.ErrorMessage
		log.ErrorMessage = &msg
	}
	return log
}

// DeserializeEvent 이벤트 타입에 따라 적절한 구조체로 역직렬화
func DeserializeEvent(eventType EventType, data []byte) (any, error) {
	var event any
	switch eventType {
	case ChatTurnCompleted:
		event = &ChatTurnCompletedEvent{}
	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return event, nil
}
