package quota

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveUnlimited(t *testing.T) {
	l := NewLimiter(0, 0)
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Reserve(context.Background()))
	}
}

func TestReserveDailyLimit(t *testing.T) {
	l := NewLimiter(0, 2)

	require.NoError(t, l.Reserve(context.Background()))
	require.NoError(t, l.Reserve(context.Background()))
	assert.ErrorIs(t, l.Reserve(context.Background()), ErrDailyQuotaExhausted)
}

func TestReserveDailyLimitResetsNextDay(t *testing.T) {
	day := time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC)
	l := NewLimiter(0, 1)
	l.now = func() time.Time { return day }

	require.NoError(t, l.Reserve(context.Background()))
	assert.ErrorIs(t, l.Reserve(context.Background()), ErrDailyQuotaExhausted)

	day = day.Add(2 * time.Minute)
	assert.NoError(t, l.Reserve(context.Background()))
}

func TestReserveRespectsContextWhileWaiting(t *testing.T) {
	l := NewLimiter(1, 0) // 1 req/min
	require.NoError(t, l.Reserve(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Reserve(ctx), context.DeadlineExceeded)
}

func TestReserveAllowsConcurrentBurstWithinMinuteQuota(t *testing.T) {
	l := NewLimiter(30, 14400)

	start := time.Now()
	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = l.Reserve(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestReserveWaitsOnlyWhenMinuteWindowIsFull(t *testing.T) {
	clock := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(2, 0)
	l.now = func() time.Time { return clock }

	require.NoError(t, l.Reserve(context.Background()))
	require.NoError(t, l.Reserve(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Reserve(ctx), context.DeadlineExceeded)

	// 첫 호출이 1분 창을 벗어나면 다시 허용된다.
	clock = clock.Add(window + time.Second)
	assert.NoError(t, l.Reserve(context.Background()))
}

func TestNilLimiterAllowsEverything(t *testing.T) {
	var l *Limiter
	assert.NoError(t, l.Reserve(context.Background()))
}
