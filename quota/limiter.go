package quota

import (
	"context"
	"sync"
	"time"

	"portal-noticias/config"
)

// Limiter 는 기사 생성용 LLM 호출의 분당/일일 한도를 관리한다.
// 수집기 인스턴스가 하나라는 전제의 인메모리 구현이라 재시작하면 카운터가 초기화된다.
type Limiter struct {
	mu sync.Mutex

	dailyLimit int
	usedToday  int
	dayKey     string

	interval time.Duration
	lastCall time.Time

	now func() time.Time
}

// NewLimiter 는 0 이하의 값을 "제한 없음"으로 취급한다.
func NewLimiter(cfg config.QuotaConfig) *Limiter {
	var interval time.Duration
	if cfg.RequestsPerMinute > 0 {
		interval = time.Minute / time.Duration(cfg.RequestsPerMinute)
	}
	daily := cfg.RequestsPerDay
	if daily < 0 {
		daily = 0
	}
	return &Limiter{dailyLimit: daily, interval: interval, now: time.Now}
}

// WaitAndReserve 는 생성 호출 전에 한도를 적용한다.
// - 일일 한도 소진: (false, nil), 호출자는 생성을 건너뛴다.
// - 컨텍스트 취소: (false, ctx.Err())
func (l *Limiter) WaitAndReserve(ctx context.Context) (bool, error) {
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
			return false, nil
		}

		var delay time.Duration
		if l.interval > 0 && !l.lastCall.IsZero() {
			delay = l.lastCall.Add(l.interval).Sub(now)
		}

		if delay <= 0 {
			l.usedToday++
			l.lastCall = now
			l.mu.Unlock()
			return true, nil
		}

		l.mu.Unlock()
		t := time.NewTimer(delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return false, ctx.Err()
		}
	}
}

// Remaining 은 오늘 남은 호출 수이다. 일일 제한이 없으면 -1.
func (l *Limiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.dailyLimit <= 0 {
		return -1
	}
	if l.dayKey != l.now().UTC().Format("2006-01-02") {
		return l.dailyLimit
	}
	return l.dailyLimit - l.usedToday
}
