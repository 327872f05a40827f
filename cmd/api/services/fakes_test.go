package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"lisa/cmd/api/services"
	"lisa/cmd/internal/logger"
	"lisa/models"
)

type fakeCompleter struct {
	mu    sync.Mutex
	reply string
	err   error
	calls [][]models.PromptMessage
}

func (f *fakeCompleter) Complete(_ context.Context, messages []models.PromptMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, messages)
	return f.reply, f.err
}

type retrieverCall struct {
	question string
	history  []models.Message
}

type fakeRetriever struct {
	mu           sync.Mutex
	hasDocuments bool
	reply        string
	err          error
	block        bool
	calls        []retrieverCall
}

func (f *fakeRetriever) HasDocuments() bool {
	return f.hasDocuments
}

func (f *fakeRetriever) Query(ctx context.Context, question string, history []models.Message) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, retrieverCall{question: question, history: history})
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Debug(args ...any) {}
func (l *recordingLogger) Info(args ...any)  {}
func (l *recordingLogger) Error(args ...any) {}
func (l *recordingLogger) Warn(args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprint(args...))
}
func (l *recordingLogger) Debugf(format string, args ...any) {}
func (l *recordingLogger) Infof(format string, args ...any)  {}
func (l *recordingLogger) Errorf(format string, args ...any) {}
func (l *recordingLogger) Warnf(format string, args ...any) {
	l.Warn(fmt.Sprintf(format, args...))
}

func (l *recordingLogger) warnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warns)
}

// useRecordingLogger 는 테스트 동안 전역 로거를 교체한다.
func useRecordingLogger(t *testing.T) *recordingLogger {
	t.Helper()
	rec := &recordingLogger{}
	prev := logger.Log
	logger.Log = rec
	t.Cleanup(func() { logger.Log = prev })
	return rec
}

type capturingRecorder struct {
	mu    sync.Mutex
	turns []services.Turn
}

func (r *capturingRecorder) RecordTurn(_ context.Context, turn services.Turn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns = append(r.turns, turn)
}

func (r *capturingRecorder) recorded() []services.Turn {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]services.Turn(nil), r.turns...)
}

// blockingRecorder 는 release 가 닫힐 때까지 기록을 붙잡는다.
type blockingRecorder struct {
	release chan struct{}
	inner   capturingRecorder
}

func (r *blockingRecorder) RecordTurn(ctx context.Context, turn services.Turn) {
	<-r.release
	r.inner.RecordTurn(ctx, turn)
}

func makeHistory(n int) []models.Message {
	out := make([]models.Message, n)
	for i := range out {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		out[i] = models.Message{
			ID:        fmt.Sprintf("%s-%d", role, i),
			Role:      role,
			Content:   fmt.Sprintf("m%d", i),
			Timestamp: int64(1_700_000_000_000 + i),
		}
	}
	return out
}
