package services

import (
	"context"
	"time"

	"lisa/cmd/internal/eventbus"
	"lisa/cmd/internal/logger"
	"lisa/events"
	"lisa/models"
)

const (
	answerExcerptLen = 500
	recordTimeout    = 5 * time.Second
)

// Turn 은 기록 대상이 되는 한 턴의 요약이다.
type Turn struct {
	RequestID     string
	ModelName     string
	Question      string
	HistoryLength int
	Outcome       Outcome
	StartedAt     time.Time
	CompletedAt   time.Time
}

func (t Turn) Event() events.ChatTurnCompletedEvent {
	evt := events.ChatTurnCompletedEvent{
		BaseEvent:     events.NewBaseEvent(events.ChatTurnCompleted, "api"),
		RequestID:     t.RequestID,
		Route:         t.Outcome.Kind.Route(),
		ModelName:     t.ModelName,
		Question:      t.Question,
		HistoryLength: t.HistoryLength,
		Answer:        t.Outcome.Text,
		DurationMs:    t.CompletedAt.Sub(t.StartedAt).Milliseconds(),
		RequestedAt:   t.StartedAt,
		CompletedAt:   t.CompletedAt,
	}
	if t.Outcome.RetrievalErr != nil {
		evt.RetrievalError = t.Outcome.RetrievalErr.Error()
	}
	if t.Outcome.Err != nil {
		evt.ErrorMessage = t.Outcome.Err.Error()
	}
	return evt
}

// TurnRecorder 는 턴 기록기다. 기록 실패는 로그로만 남기고 응답에 영향을 주지 않는다.
type TurnRecorder interface {
	RecordTurn(ctx context.Context, turn Turn)
}

type NopRecorder struct{}

func (NopRecorder) RecordTurn(context.Context, Turn) {}

// EventRecorder 는 턴을 chat.turn_completed 이벤트로 발행한다.
type EventRecorder struct {
	bus   eventbus.Publisher
	topic eventbus.Topic
}

func NewEventRecorder(bus eventbus.Publisher, topic eventbus.Topic) *EventRecorder {
	return &EventRecorder{bus: bus, topic: topic}
}

func (r *EventRecorder) RecordTurn(ctx context.Context, turn Turn) {
	evt := turn.Event()
	busEvt, err := eventbus.NewJSONEvent(evt.ID, evt, 0)
	if err != nil {
		logger.ErrorWithFields("failed to encode chat turn event", logger.Fields{
			"request_id": turn.RequestID,
			"error":      err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()
	if err := r.bus.Publish(ctx, r.topic.Base(), busEvt); err != nil {
		logger.ErrorWithFields("failed to publish chat turn event", logger.Fields{
			"request_id": turn.RequestID,
			"topic":      r.topic.Base(),
			"error":      err.Error(),
		})
	}
}

// ChatLogInserter 는 repositories.ChatLogRepository 가 구현한다.
type ChatLogInserter interface {
	Insert(ctx context.Context, log models.ChatLog) error
}

// RepositoryRecorder 는 kafka 없이 chat_logs 에 바로 쓴다.
type RepositoryRecorder struct {
	repo ChatLogInserter
}

func NewRepositoryRecorder(repo ChatLogInserter) *RepositoryRecorder {
	return &RepositoryRecorder{repo: repo}
}

func (r *RepositoryRecorder) RecordTurn(ctx context.Context, turn Turn) {
	ctx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()
	if err := r.repo.Insert(ctx, turn.Event().ToChatLog(answerExcerptLen)); err != nil {
		logger.ErrorWithFields("failed to insert chat log", logger.Fields{
			"request_id": turn.RequestID,
			"error":      err.Error(),
		})
	}
}
