package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lisa/cmd/internal/eventbus"
	"lisa/events"
	"lisa/models"
)

type memoryRepo struct {
	logs []models.ChatLog
	err  error
}

func (m *memoryRepo) Insert(_ context.Context, log models.ChatLog) error {
	if m.err != nil {
		return m.err
	}
	m.logs = append(m.logs, log)
	return nil
}

func TestTurnHandlerStoresChatTurn(t *testing.T) {
	repo := &memoryRepo{}
	h := NewTurnHandler(repo)

	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	evt := events.ChatTurnCompletedEvent{
		BaseEvent:    events.NewBaseEvent(events.ChatTurnCompleted, "api"),
		RequestID:    "req-7",
		Route:        models.ChatRouteFailed,
		Question:     "hi",
		ErrorMessage: "groq down",
		RequestedAt:  at,
		CompletedAt:  at.Add(time.Second),
		DurationMs:   1000,
	}
	busEvt, err := eventbus.NewJSONEvent(evt.ID, evt, 0)
	require.NoError(t, err)

	require.NoError(t, h.Handle(context.Background(), busEvt))
	require.Len(t, repo.logs, 1)
	assert.Equal(t, "req-7", repo.logs[0].RequestID)
	assert.Equal(t, models.ChatRouteFailed, repo.logs[0].Route)
	require.NotNil(t, repo.logs[0].ErrorMessage)
	assert.Equal(t, "groq down", *repo.logs[0].ErrorMessage)
	assert.True(t, at.Equal(repo.logs[0].RequestedAt))
}

func TestTurnHandlerIgnoresOtherEvents(t *testing.T) {
	repo := &memoryRepo{}
	busEvt, err := eventbus.NewJSONEvent("", map[string]string{"type": "something.else"}, 0)
	require.NoError(t, err)

	require.NoError(t, NewTurnHandler(repo).Handle(context.Background(), busEvt))
	assert.Empty(t, repo.logs)
}

func TestTurnHandlerReturnsInsertError(t *testing.T) {
	repo := &memoryRepo{err: errors.New("mongo unavailable")}
	evt := events.ChatTurnCompletedEvent{BaseEvent: events.NewBaseEvent(events.ChatTurnCompleted, "api")}
	busEvt, err := eventbus.NewJSONEvent(evt.ID, evt, 0)
	require.NoError(t, err)

	assert.Error(t, NewTurnHandler(repo).Handle(context.Background(), busEvt))
}

type countingRepo struct {
	since  time.Time
	counts map[models.ChatRoute]int64
	err    error
}

func (c *countingRepo) CountByRoute(_ context.Context, since time.Time) (map[models.ChatRoute]int64, error) {
	c.since = since
	return c.counts, c.err
}

func TestLogRouteSummaryQueriesWindow(t *testing.T) {
	repo := &countingRepo{counts: map[models.ChatRoute]int64{models.ChatRouteDirect: 3}}

	before := time.Now()
	logRouteSummary(context.Background(), repo, time.Hour)

	assert.WithinDuration(t, before.Add(-time.Hour), repo.since, time.Second)
}

func TestLogRouteSummaryToleratesError(t *testing.T) {
	repo := &countingRepo{err: errors.New("aggregate failed")}
	assert.NotPanics(t, func() {
		logRouteSummary(context.Background(), repo, time.Hour)
	})
}

func TestTurnHandlerKeepsTurnsSharingRequestID(t *testing.T) {
	repo := &memoryRepo{}
	h := NewTurnHandler(repo)

	for i := 0; i < 2; i++ {
		evt := events.ChatTurnCompletedEvent{
			BaseEvent: events.NewBaseEvent(events.ChatTurnCompleted, "api"),
			RequestID: "abc",
			Route:     models.ChatRouteDirect,
		}
		busEvt, err := eventbus.NewJSONEvent(evt.ID, evt, 0)
		require.NoError(t, err)
		require.NoError(t, h.Handle(context.Background(), busEvt))
	}

	require.Len(t, repo.logs, 2)
	assert.Equal(t, repo.logs[0].RequestID, repo.logs[1].RequestID)
	assert.NotEmpty(t, repo.logs[0].EventID)
	assert.NotEqual(t, repo.logs[0].EventID, repo.logs[1].EventID)
}
