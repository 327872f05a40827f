package main

import (
	"context"
	"time"

	"lisa/cmd/internal/logger"
	"lisa/models"
)

type routeCounter interface {
	CountByRoute(ctx context.Context, since time.Time) (map[models.ChatRoute]int64, error)
}

// logRouteSummary 는 최근 window 동안의 경로별 턴 수를 로그로 남긴다.
func logRouteSummary(ctx context.Context, repo routeCounter, window time.Duration) {
	counts, err := repo.CountByRoute(ctx, time.Now().Add(-window))
	if err != nil {
		logger.WarnWithFields("failed to aggregate chat logs", logger.Fields{"error": err.Error()})
		return
	}
	logger.InfoWithFields("chat route summary", logger.Fields{
		"window":    window.String(),
		"retrieval": counts[models.ChatRouteRetrieval],
		"direct":    counts[models.ChatRouteDirect],
		"failed":    counts[models.ChatRouteFailed],
	})
}

// runRouteSummary 는 ctx 가 끝날 때까지 interval 마다 logRouteSummary 를 호출한다.
func runRouteSummary(ctx context.Context, repo routeCounter, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logRouteSummary(ctx, repo, 24*time.Hour)
		}
	}
}
