package collector

import (
	"context"
	"strconv"
	"strings"
	"time"

	"portal-noticias/config"
	"portal-noticias/models"
)

type Runner interface {
	Run(ctx context.Context, trigger models.RunTrigger) (*RunResult, error)
}

// Scheduler runs the collector every schedule_interval minutes.
// The interval row is re-read after every run so admin changes apply without a restart.
type Scheduler struct {
	runner   Runner
	cfg      ConfigStore
	fallback time.Duration
	after    func(d time.Duration) <-chan time.Time
}

func NewScheduler(runner Runner, cfg ConfigStore, fallback time.Duration) *Scheduler {
	return &Scheduler{runner: runner, cfg: cfg, fallback: fallback, after: time.After}
}

// ParseInterval 은 분 단위 정수 문자열을 해석한다. 잘못된 값은 fallback.
func ParseInterval(values []string, fallback time.Duration) time.Duration {
	for _, v := range values {
		m, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil && m > 0 {
			return time.Duration(m) * time.Minute
		}
	}
	return fallback
}

func (s *Scheduler) interval(ctx context.Context) time.Duration {
	values, err := s.cfg.ActiveValues(ctx, models.ConfigScheduleInterval)
	if err != nil {
		config.Logger.Warnf("scheduler: load interval failed, using %s: %v", s.fallback, err)
		return s.fallback
	}
	return ParseInterval(values, s.fallback)
}

// Start blocks until ctx is cancelled. The first run happens after one interval.
func (s *Scheduler) Start(ctx context.Context) error {
	for {
		wait := s.interval(ctx)
		config.Logger.Infof("scheduler: next collection in %s", wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.after(wait):
		}

		if _, err := s.runner.Run(ctx, models.TriggerScheduler); err != nil {
			config.Logger.Errorf("scheduler: collection run error: %v", err)
		}
	}
}
