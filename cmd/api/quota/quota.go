package quota

import (
	"context"
	"errors"
	"sync"
	"time"

	"lisa/config"
)

// ErrDailyQuotaExhausted 는 오늘의 LLM 호출 한도를 모두 소진했을 때 반환된다.
var ErrDailyQuotaExhausted = errors.New("llm daily quota exhausted")

// Limiter 는 Groq 호출에 대한 분당/일일 한도를 관리한다.
// 분당 한도는 최근 1분 동안의 호출 수로 센다. 한도 안에서는 동시 요청이 서로를 기다리지 않는다.
// API 인스턴스 하나를 전제로 인메모리로 동작하며, 재시작되면 카운터가 초기화된다.
type Limiter struct {
	mu sync.Mutex

	dailyLimit int
	usedToday  int
	dayKey     string

	perMinute int
	// recent 는 최근 window 안의 호출 시각이다. 오래된 것이 앞에 온다.
	recent []time.Time

	now func() time.Time
}

const window = time.Minute

// NewLimiterFromConfig 는 config.yaml 의 llm.quota 설정으로 Limiter 를 만든다.
// 값이 0 이하인 방향은 제한하지 않는다.
func NewLimiterFromConfig(cfg config.QuotaConfig) *Limiter {
	return NewLimiter(cfg.RequestsPerMinute, cfg.RequestsPerDay)
}

func NewLimiter(requestsPerMinute, requestsPerDay int) *Limiter {
	if requestsPerDay < 0 {
		requestsPerDay = 0
	}
	if requestsPerMinute < 0 {
		requestsPerMinute = 0
	}
	return &Limiter{
		dailyLimit: requestsPerDay,
		perMinute:  requestsPerMinute,
		now:        time.Now,
	}
}

// Reserve 는 LLM 호출 직전에 한도를 적용한다.
// - 분당 한도: 최근 1분 호출 수가 한도에 닿았으면 가장 오래된 호출이 창 밖으로 나갈 때까지 대기한다 (ctx 취소 시 ctx.Err()).
// - 일일 한도 초과: ErrDailyQuotaExhausted.
func (l *Limiter) Reserve(ctx context.Context) error {
	if l == nil {
		return nil
	}
	for {
		l.mu.Lock()

		now := l.now().UTC()
		todayKey := now.Format("2006-01-02")
		if l.dayKey != todayKey {
			l.dayKey = todayKey
			l.usedToday = 0
		}

		if l.dailyLimit > 0 && l.usedToday >= l.dailyLimit {
			l.mu.Unlock()
			return ErrDailyQuotaExhausted
		}

		var delay time.Duration
		if l.perMinute > 0 {
			l.evictBefore(now.Add(-window))
			if len(l.recent) >= l.perMinute {
				delay = l.recent[0].Add(window).Sub(now)
			}
		}

		if delay <= 0 {
			l.usedToday++
			if l.perMinute > 0 {
				l.recent = append(l.recent, now)
			}
			l.mu.Unlock()
			return nil
		}

		// 락을 풀고 대기한 뒤 상태를 다시 평가한다.
		l.mu.Unlock()
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// evictBefore 는 cutoff 이전(포함) 호출을 창에서 제거한다.
func (l *Limiter) evictBefore(cutoff time.Time) {
	n := 0
	for n < len(l.recent) && !l.recent[n].After(cutoff) {
		n++
	}
	if n > 0 {
		l.recent = append(l.recent[:0], l.recent[n:]...)
	}
}
