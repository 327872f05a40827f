package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lisa/cmd/internal/eventbus"
	"lisa/cmd/internal/logger"
	"lisa/config"
	"lisa/db"
	"lisa/repositories"
)

// auditor 는 chat.turn_completed 이벤트를 소비해 chat_logs 컬렉션에 적재한다.
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level, cfg.Logging.File)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Init(ctx, os.Getenv("MONGO_URI"), cfg.Mongo.DBName); err != nil {
		logger.Log.Errorf("failed to initialize MongoDB: %v", err)
		os.Exit(1)
	}
	defer db.Disconnect(context.Background())

	brokers, err := eventbus.BrokersFromEnv()
	if err != nil {
		logger.Log.Error(err.Error())
		os.Exit(1)
	}
	if err := eventbus.EnsureTopics(brokers, eventbus.TopicChatEvents, 3); err != nil {
		logger.Log.Errorf("failed to ensure eventbus topics: %v", err)
	}

	bus, err := eventbus.NewKafkaEventBus(brokers)
	if err != nil {
		logger.Log.Errorf("failed to create event bus: %v", err)
		os.Exit(1)
	}
	defer bus.Close()

	repo := repositories.NewChatLogRepository(db.Database())
	handler := NewTurnHandler(repo)
	go runRouteSummary(ctx, repo, time.Hour)
	groupID := eventbus.GroupIDFromEnv("lisa") + "-auditor"

	logger.Log.Info("starting auditor...")
	err = bus.Subscribe(ctx, groupID, eventbus.TopicChatEvents, handler.Handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.Errorf("eventbus subscribe error: %v", err)
	}
	logger.Log.Info("auditor stopped")
}
