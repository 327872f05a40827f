package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lisa/cmd/api/clients/groqclient"
	"lisa/cmd/api/httpclient"
	"lisa/cmd/api/quota"
	"lisa/cmd/api/router"
	"lisa/cmd/api/services"
	"lisa/cmd/internal/eventbus"
	"lisa/cmd/internal/logger"
	"lisa/cmd/internal/rag"
	"lisa/config"
	"lisa/db"
	"lisa/repositories"
)

// @title           LISA API
// @version         1.0
// @description     BIOS team AI assistant chat API
// @BasePath        /
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level, cfg.Logging.File)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if os.Getenv("GROQ_API_KEY") == "" {
		logger.Log.Warn("GROQ_API_KEY is not set, chat requests will fail")
	}

	limiter := quota.NewLimiterFromConfig(cfg.LLM.Quota)
	groq := groqclient.NewFromConfig(cfg.LLM, limiter)

	ragSvc := rag.NewService(newEmbedder(ctx, cfg.Retrieval), groq, ragOptions(cfg.Retrieval))
	ragSvc.Start(ctx)

	recorder, closeRecorder := newTurnRecorder(ctx, cfg)
	defer closeRecorder()

	chatSvc := services.NewChatService(groq, ragSvc, services.ChatServiceOptions{
		ModelName:        groq.Model(),
		LLMTimeout:       time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		RetrievalTimeout: time.Duration(cfg.Retrieval.TimeoutSeconds) * time.Second,
		Recorder:         recorder,
	})

	r := router.New(router.Deps{
		Chat:               chatSvc,
		Status:             ragSvc,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Infof("LISA server running on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorf("http server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("received shutdown signal, shutting down LISA server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("graceful shutdown failed: %v", err)
	}
	if err := chatSvc.Flush(shutdownCtx); err != nil {
		logger.Log.Warnf("pending chat turn records were not flushed: %v", err)
	}
	logger.Log.Info("LISA server stopped")
}

func ragOptions(cfg config.RetrievalConfig) rag.Options {
	return rag.Options{
		DocumentsDir:   config.ResolvePath(cfg.DocumentsDir),
		StorageDir:     config.ResolvePath(cfg.StorageDir),
		EmbeddingModel: cfg.EmbeddingModel,
		TopK:           cfg.TopK,
		ChunkSize:      cfg.ChunkSize,
		ChunkOverlap:   cfg.ChunkOverlap,
		EmbedBatchSize: cfg.EmbedBatchSize,
	}
}

// newEmbedder 는 GEMINI_API_KEY 가 없으면 nil 을 반환한다. 이때 RAG 는 문서 없음으로 정착한다.
func newEmbedder(ctx context.Context, cfg config.RetrievalConfig) rag.Embedder {
	httpClient := httpclient.New(httpclient.Config{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second})
	embedder, err := rag.NewGeminiEmbedder(ctx, os.Getenv("GEMINI_API_KEY"), cfg.EmbeddingModel, httpClient)
	if err != nil {
		if !errors.Is(err, rag.ErrNoEmbedder) {
			logger.Log.Errorf("failed to create embedder: %v", err)
		}
		return nil
	}
	return embedder
}

// newTurnRecorder 는 kafka 가 설정돼 있으면 이벤트 발행, MONGO_URI 만 있으면 직접 저장,
// 둘 다 없으면 기록하지 않는 recorder 를 고른다.
func newTurnRecorder(ctx context.Context, cfg config.AppConfig) (services.TurnRecorder, func()) {
	noop := func() {}
	if !cfg.Audit.Enabled {
		return services.NopRecorder{}, noop
	}

	if brokers, err := eventbus.BrokersFromEnv(); err == nil {
		if err := eventbus.EnsureTopics(brokers, eventbus.TopicChatEvents, 3); err != nil {
			logger.Log.Errorf("failed to ensure eventbus topics: %v", err)
		}
		bus, err := eventbus.NewKafkaEventBus(brokers)
		if err == nil {
			logger.Log.Infof("chat turns will be published to %s", eventbus.TopicChatEvents.Base())
			return services.NewEventRecorder(bus, eventbus.TopicChatEvents), bus.Close
		}
		logger.Log.Errorf("failed to create event bus: %v", err)
	}

	if err := db.Init(ctx, os.Getenv("MONGO_URI"), cfg.Mongo.DBName); err == nil {
		logger.Log.Info("chat turns will be written to MongoDB directly")
		return services.NewRepositoryRecorder(repositories.NewChatLogRepository(db.Database())), func() {
			_ = db.Disconnect(context.Background())
		}
	} else if !errors.Is(err, db.ErrNoURI) {
		logger.Log.Errorf("failed to initialize MongoDB: %v", err)
	}

	logger.Log.Warn("audit is enabled but neither kafka nor mongo is configured, chat turns will not be recorded")
	return services.NopRecorder{}, noop
}
