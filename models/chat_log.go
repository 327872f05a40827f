package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatRoute 는 한 턴의 응답이 어느 경로에서 만들어졌는지를 나타낸다.
type ChatRoute string

const (
	ChatRouteRetrieval ChatRoute = "retrieval"
	ChatRouteDirect    ChatRoute = "direct"
	ChatRouteFailed    ChatRoute = "failed"
)

// ChatLog stores one completed chat turn (audit/monitoring purpose)
// Collection: chat_logs
type ChatLog struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	// EventID 는 서버가 턴마다 발급한 이벤트 ID 다. 재전달된 이벤트의 중복 저장을 막는 키로 쓴다.
	EventID        string             `bson:"event_id,omitempty" json:"event_id"`
	// RequestID 는 클라이언트가 보낸 X-Request-Id 일 수 있어 턴마다 유일하지 않다.
	RequestID      string             `bson:"request_id,omitempty" json:"request_id"`
	Route          ChatRoute          `bson:"route" json:"route"`
	ModelName      string             `bson:"model_name" json:"model_name"`
	Question       string             `bson:"question" json:"question"`
	HistoryLength  int                `bson:"history_length" json:"history_length"`
	AnswerExcerpt  string             `bson:"answer_excerpt" json:"answer_excerpt"`
	RetrievalError *string            `bson:"retrieval_error,omitempty" json:"retrieval_error,omitempty"`
	ErrorMessage   *string            `bson:"error_message,omitempty" json:"error_message,omitempty"`
	DurationMs     int64              `bson:"duration_ms" json:"duration_ms"`
	RequestedAt    time.Time          `bson:"requested_at" json:"requested_at"`
	CompletedAt    time.Time          `bson:"completed_at" json:"completed_at"`
}

// Excerpt 는 s 를 최대 n 개 rune 으로 자른다. 잘렸으면 "..." 을 붙인다.
func Excerpt(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
