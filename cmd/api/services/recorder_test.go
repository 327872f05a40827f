package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lisa/cmd/api/services"
	"lisa/cmd/internal/eventbus"
	"lisa/events"
	"lisa/models"
)

type fakePublisher struct {
	topic string
	event eventbus.Event
	err   error
}

func (p *fakePublisher) Publish(_ context.Context, topic string, event eventbus.Event) error {
	p.topic = topic
	p.event = event
	return p.err
}

type fakeInserter struct {
	logs []models.ChatLog
	err  error
}

func (f *fakeInserter) Insert(_ context.Context, log models.ChatLog) error {
	f.logs = append(f.logs, log)
	return f.err
}

func sampleTurn() services.Turn {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	return services.Turn{
		RequestID:     "req-42",
		ModelName:     "llama-3.3-70b-versatile",
		Question:      "What changed in the last release?",
		HistoryLength: 2,
		Outcome:       services.Direct(strings.Repeat("a", 600), errors.New("rag: empty answer")),
		StartedAt:     start,
		CompletedAt:   start.Add(1500 * time.Millisecond),
	}
}

func TestEventRecorderPublishesTurn(t *testing.T) {
	pub := &fakePublisher{}
	services.NewEventRecorder(pub, eventbus.TopicChatEvents).RecordTurn(context.Background(), sampleTurn())

	assert.Equal(t, "lisa.chat.events", pub.topic)
	evt, err := eventbus.DecodeJSON[events.ChatTurnCompletedEvent](pub.event)
	require.NoError(t, err)

	assert.Equal(t, pub.event.ID, evt.ID)
	assert.Equal(t, events.ChatTurnCompleted, evt.Type)
	assert.Equal(t, "req-42", evt.RequestID)
	assert.Equal(t, models.ChatRouteDirect, evt.Route)
	assert.Equal(t, int64(1500), evt.DurationMs)
	assert.Equal(t, "rag: empty answer", evt.RetrievalError)
	assert.Empty(t, evt.ErrorMessage)
}

func TestEventRecorderSwallowsPublishError(t *testing.T) {
	useRecordingLogger(t)
	pub := &fakePublisher{err: errors.New("broker down")}
	assert.NotPanics(t, func() {
		services.NewEventRecorder(pub, eventbus.TopicChatEvents).RecordTurn(context.Background(), sampleTurn())
	})
}

func TestRepositoryRecorderInsertsChatLog(t *testing.T) {
	repo := &fakeInserter{}
	services.NewRepositoryRecorder(repo).RecordTurn(context.Background(), sampleTurn())

	require.Len(t, repo.logs, 1)
	log := repo.logs[0]
	assert.NotEmpty(t, log.EventID)
	assert.Equal(t, "req-42", log.RequestID)
	assert.Equal(t, models.ChatRouteDirect, log.Route)
	assert.Equal(t, 2, log.HistoryLength)
	assert.Equal(t, 503, len(log.AnswerExcerpt))
	require.NotNil(t, log.RetrievalError)
	assert.Equal(t, "rag: empty answer", *log.RetrievalError)
	assert.Nil(t, log.ErrorMessage)
}
