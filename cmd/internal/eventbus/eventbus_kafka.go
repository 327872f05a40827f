package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"lisa/cmd/internal/logger"
)

const pollTimeout = 100 * time.Millisecond

// KafkaEventBus 는 confluent-kafka-go 기반 EventBus 구현이다.
type KafkaEventBus struct {
	Producer *kafka.Producer
	Brokers  string
}

func NewKafkaEventBus(brokers string) (*KafkaEventBus, error) {
	producerCfg := &kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
		"retries":           5,
	}
	if maxBytes := intFromEnv("KAFKA_MESSAGE_MAX_BYTES"); maxBytes > 0 {
		(*producerCfg)["message.max.bytes"] = maxBytes
	}

	p, err := kafka.NewProducer(producerCfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer 생성 실패: %w", err)
	}

	// 전달 보고서 중 deliveryChan 없이 발행된 메시지의 실패만 여기서 잡힌다.
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					logger.Log.Errorf("메시지 전달 실패 %v: %v", ev.TopicPartition, ev.TopicPartition.Error)
				}
			case kafka.Error:
				logger.Log.Errorf("kafka 오류: %v", ev)
			}
		}
	}()

	return &KafkaEventBus{Producer: p, Brokers: brokers}, nil
}

// Close 는 남은 메시지를 최대 5초간 플러시한 뒤 producer 를 닫는다.
func (k *KafkaEventBus) Close() {
	if k.Producer == nil {
		return
	}
	if remaining := k.Producer.Flush(5000); remaining > 0 {
		logger.Log.Warnf("플러시 후에도 %d개의 메시지가 남아 있습니다.", remaining)
	}
	k.Producer.Close()
	logger.Log.Info("kafka producer 종료")
}

// Publish 는 이벤트를 발행하고 브로커의 전달 확인까지 기다린다.
func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("이벤트 마샬링 실패: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)
	err = k.Producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          data,
		Key:            []byte(event.ID),
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("메시지 발행 실패: %w", err)
	}

	select {
	case ev := <-deliveryChan:
		if m, ok := ev.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			return fmt.Errorf("메시지 전달 실패: %w", m.TopicPartition.Error)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (k *KafkaEventBus) newConsumer(groupID string) (*kafka.Consumer, error) {
	cfg := &kafka.ConfigMap{
		"bootstrap.servers":             k.Brokers,
		"group.id":                      groupID,
		"auto.offset.reset":             "earliest",
		"enable.auto.commit":            false,
		"partition.assignment.strategy": "range",
	}
	if maxPoll := intFromEnv("KAFKA_MAX_POLL_INTERVAL_MS"); maxPoll > 0 {
		(*cfg)["max.poll.interval.ms"] = maxPoll
	}
	return kafka.NewConsumer(cfg)
}

// Subscribe 는 기본 토픽을 소비한다. handler 가 실패하면 다음 재시도 토픽으로,
// 재시도를 모두 쓰면 DLQ 로 보낸다. 발행에 실패한 메시지는 커밋하지 않는다.
func (k *KafkaEventBus) Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error {
	c, err := k.newConsumer(groupID)
	if err != nil {
		return fmt.Errorf("kafka consumer 생성 실패: %w", err)
	}
	defer c.Close()

	if err := c.SubscribeTopics([]string{topic.Base()}, nil); err != nil {
		return fmt.Errorf("토픽 구독 실패 %s: %w", topic.Base(), err)
	}
	logger.Log.Infof("메인 컨슈머 (%s) 시작. 구독 토픽: %s", groupID, topic.Base())

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("메인 컨슈머 종료 중")
			return ctx.Err()
		default:
		}

		msg, err := c.ReadMessage(pollTimeout)
		if err != nil {
			continue
		}

		var evt Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			logger.Log.Errorf("토픽 %s 의 이벤트 페이로드 오류: %v. 건너뛰고 커밋합니다.", *msg.TopicPartition.Topic, err)
			c.CommitMessage(msg)
			continue
		}
		if evt.MaxRetry <= 0 || evt.MaxRetry > len(RetryDelays) {
			evt.MaxRetry = len(RetryDelays)
		}

		if evt.Retry > 0 {
			logger.Log.Infof("이벤트 %s 처리 시작 (재시도 %d/%d)", evt.ID, evt.Retry, evt.MaxRetry)
		} else {
			logger.Log.Debugf("이벤트 %s 처리 시작", evt.ID)
		}

		if herr := handler(ctx, evt); herr != nil {
			if err := k.scheduleRetry(ctx, topic, evt, herr); err != nil {
				logger.Log.Errorf("이벤트 %s 재시도 예약 실패: %v. 오프셋 커밋 안함.", evt.ID, err)
				continue
			}
		}

		if _, err := c.CommitMessage(msg); err != nil {
			logger.Log.Errorf("오프셋 커밋 오류: %v", err)
		}
	}
}

func (k *KafkaEventBus) scheduleRetry(ctx context.Context, topic Topic, evt Event, cause error) error {
	evt.LastError = cause.Error()
	next := evt.Retry + 1

	retryTopic, err := topic.RetryTopic(next)
	if next > evt.MaxRetry || errors.Is(err, ErrMaxRetryExceeded) {
		logger.Log.Errorf("이벤트 %s 최대 재시도 초과. DLQ %s 로 전송. 최종 오류: %s", evt.ID, topic.DLQ(), evt.LastError)
		return k.Publish(ctx, topic.DLQ(), evt)
	}
	if err != nil {
		return err
	}

	evt.Retry = next
	logger.Log.Warnf("이벤트 %s 처리 실패. 재시도 %d/%d 를 %s 에 예약.", evt.ID, evt.Retry, evt.MaxRetry, retryTopic)
	return k.Publish(ctx, retryTopic, evt)
}

// StartRetryReinjector 는 재시도 토픽을 소비하며, 토픽 이름의 지연 시간이 지난
// 메시지를 기본 토픽으로 다시 발행한다.
func (k *KafkaEventBus) StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error {
	c, err := k.newConsumer(groupID)
	if err != nil {
		return fmt.Errorf("kafka 재주입기 생성 실패: %w", err)
	}
	defer c.Close()

	retryTopics := topic.RetryTopics()
	if err := c.SubscribeTopics(retryTopics, nil); err != nil {
		return fmt.Errorf("재시도 토픽 구독 실패 %v: %w", retryTopics, err)
	}
	logger.Log.Infof("재주입 컨슈머 (%s) 시작. 구독 토픽: %s", groupID, strings.Join(retryTopics, ", "))

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("재주입 컨슈머 종료 중")
			return ctx.Err()
		default:
		}

		msg, err := c.ReadMessage(pollTimeout)
		if err != nil {
			var kerr kafka.Error
			if errors.As(err, &kerr) {
				if kerr.Code() == kafka.ErrTimedOut {
					continue
				}
				if kerr.IsFatal() {
					return fmt.Errorf("재주입 컨슈머 치명적 오류: %w", err)
				}
			}
			logger.Log.Errorf("재주입 컨슈머 ReadMessage 오류: %v", err)
			time.Sleep(500 * time.Millisecond)
			continue
		}

		topicName := *msg.TopicPartition.Topic
		delay, ok := ParseRetryDelay(topicName)
		if !ok {
			logger.Log.Errorf("재시도 토픽 이름 파싱 실패: %s. 건너뛰고 커밋합니다.", topicName)
			c.CommitMessage(msg)
			continue
		}

		// 아직 때가 안 됐으면 잠깐 쉬고 같은 오프셋으로 되감아 다시 읽는다.
		if remaining := time.Until(msg.Timestamp.Add(delay)); remaining > 0 {
			time.Sleep(min(max(remaining, 50*time.Millisecond), 500*time.Millisecond))
			if err := c.Seek(msg.TopicPartition, 1000); err != nil {
				logger.Log.Errorf("재주입 컨슈머 seek 오류: %v", err)
			}
			continue
		}

		var evt Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			logger.Log.Errorf("재시도 토픽 %s 의 이벤트 페이로드 오류: %v. 건너뛰고 커밋합니다.", topicName, err)
			c.CommitMessage(msg)
			continue
		}

		logger.Log.Infof("이벤트 %s 를 %s 에서 %s 로 재주입 (재시도 %d)", evt.ID, topicName, topic.Base(), evt.Retry)
		if err := k.Publish(ctx, topic.Base(), evt); err != nil {
			logger.Log.Errorf("이벤트 %s 재주입 실패: %v. 오프셋 커밋 안함.", evt.ID, err)
			continue
		}
		if _, err := c.CommitMessage(msg); err != nil {
			logger.Log.Errorf("재주입 후 커밋 오류: %v", err)
		}
	}
}

// intFromEnv 는 양의 정수 환경변수를 읽는다. 비어있거나 잘못된 값이면 0 을 반환해
// 라이브러리 기본값을 쓰게 한다.
func intFromEnv(key string) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		logger.Log.Warnf("%s 환경변수 값(%q)이 올바르지 않아 기본값을 사용합니다.", key, raw)
		return 0
	}
	return v
}
