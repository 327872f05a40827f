package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"lisa/cmd/internal/eventbus"
	"lisa/cmd/internal/logger"
)

func main() {
	// 로그 레벨은 LOG_LEVEL 환경변수로 제어한다.
	logger.InitFromEnv("LOG_LEVEL")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	brokers, err := eventbus.BrokersFromEnv()
	if err != nil {
		logger.Log.Error(err.Error())
		os.Exit(1)
	}
	for _, t := range eventbus.AllTopics {
		if err := eventbus.EnsureTopics(brokers, t, 3); err != nil {
			logger.Log.Errorf("failed to ensure eventbus topics for %s: %v", t.Base(), err)
		}
	}

	bus, err := eventbus.NewKafkaEventBus(brokers)
	if err != nil {
		logger.Log.Errorf("failed to create event bus: %v", err)
		os.Exit(1)
	}
	defer bus.Close()

	groupID := eventbus.GroupIDFromEnv("lisa") + "-retry-worker"
	logger.Log.Info("starting retry worker...")

	var wg sync.WaitGroup
	for _, topic := range eventbus.AllTopics {
		wg.Add(1)
		go func() {
			defer wg.Done()
			topicGroupID := groupID + "-" + strings.ReplaceAll(topic.Base(), ".", "-")
			if err := bus.StartRetryReinjector(ctx, topicGroupID, topic); err != nil && !errors.Is(err, context.Canceled) {
				logger.Log.Errorf("retry reinjector error for %s: %v", topic.Base(), err)
			}
		}()
	}

	<-ctx.Done()
	logger.Log.Info("received shutdown signal, shutting down retry worker...")
	wg.Wait()
	logger.Log.Info("retry worker stopped")
}
