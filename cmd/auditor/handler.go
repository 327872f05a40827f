package main

import (
	"context"
	"encoding/json"

	"lisa/cmd/internal/eventbus"
	"lisa/cmd/internal/logger"
	"lisa/events"
	"lisa/models"
)

const answerExcerptLen = 500

type chatLogWriter interface {
	Insert(ctx context.Context, log models.ChatLog) error
}

// TurnHandler 는 이벤트 타입을 보고 chat.turn_completed 만 저장한다.
type TurnHandler struct {
	repo chatLogWriter
}

func NewTurnHandler(repo chatLogWriter) *TurnHandler {
	return &TurnHandler{repo: repo}
}

func (h *TurnHandler) Handle(ctx context.Context, ev eventbus.Event) error {
	// BaseEvent.Type 은 payload top-level 에 있다.
	var peek struct {
		Type events.EventType `json:"type"`
	}
	if err := json.Unmarshal(ev.Payload, &peek); err != nil {
		return err
	}
	if peek.Type != events.ChatTurnCompleted {
		// 다른 서비스용 이벤트는 무시하고 커밋한다.
		return nil
	}

	decoded, err := events.DeserializeEvent(peek.Type, ev.Payload)
	if err != nil {
		return err
	}
	turn := decoded.(*events.ChatTurnCompletedEvent)

	if err := h.repo.Insert(ctx, turn.ToChatLog(answerExcerptLen)); err != nil {
		return err
	}
	logger.DebugWithFields("chat turn stored", logger.Fields{
		"request_id": turn.RequestID,
		"route":      string(turn.Route),
	})
	return nil
}
