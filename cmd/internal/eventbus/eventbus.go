package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// RetryDelays 는 n 번째 재시도(1-based)가 대기할 시간이다.
// 대화 기록 적재는 몽고 일시 장애 정도만 견디면 되므로 짧게 잡는다.
var RetryDelays = []time.Duration{
	5 * time.Second,
	30 * time.Second,
	2 * time.Minute,
}

var (
	ErrMaxRetryExceeded = errors.New("eventbus: max retry exceeded")
	ErrNoBrokers        = errors.New("eventbus: KAFKA_BOOTSTRAP_SERVERS is not set")
)

// Topic 은 기본 토픽 이름으로부터 재시도/DLQ 토픽 이름을 만든다.
type Topic struct {
	base string
}

func NewTopic(base string) Topic {
	return Topic{base: base}
}

func (t Topic) Base() string {
	return t.base
}

func (t Topic) DLQ() string {
	return t.base + ".dlq"
}

// RetryTopics 는 "<base>.retry.<delay>" 형식의 재시도 토픽 전체를 반환한다.
func (t Topic) RetryTopics() []string {
	topics := make([]string, len(RetryDelays))
	for i := range RetryDelays {
		topics[i], _ = t.RetryTopic(i + 1)
	}
	return topics
}

// RetryTopic 은 retryCount 번째 재시도 토픽을 반환한다.
func (t Topic) RetryTopic(retryCount int) (string, error) {
	if retryCount <= 0 || retryCount > len(RetryDelays) {
		return "", ErrMaxRetryExceeded
	}
	return fmt.Sprintf("%s.retry.%s", t.base, RetryDelays[retryCount-1]), nil
}

// ParseRetryDelay 는 재시도 토픽 이름 끝의 지연 시간을 읽는다.
// 예: "lisa.chat.events.retry.30s" -> 30s
func ParseRetryDelay(name string) (time.Duration, bool) {
	idx := strings.LastIndex(name, ".retry.")
	if idx == -1 || idx+len(".retry.") >= len(name) {
		return 0, false
	}
	d, err := time.ParseDuration(name[idx+len(".retry."):])
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

// Event 는 Kafka 메시지 본문이다. Payload 는 도메인 이벤트(JSON)다.
type Event struct {
	ID        string          `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	Retry     int             `json:"retry"`
	MaxRetry  int             `json:"max_retry"`
	LastError string          `json:"last_error,omitempty"`
}

type EventHandler func(ctx context.Context, event Event) error

// Publisher 는 API 서버가 의존하는 발행 전용 인터페이스다.
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
}

type EventBus interface {
	Publisher
	// Subscribe 는 기본 토픽을 소비하며 실패한 이벤트를 재시도/DLQ 토픽으로 보낸다.
	Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error
	// StartRetryReinjector 는 재시도 토픽의 이벤트를 지연 후 기본 토픽으로 되돌린다.
	StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error
	Close()
}
