package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"portal-noticias/models"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		values []string
		want   time.Duration
	}{
		{nil, time.Hour},
		{[]string{"30"}, 30 * time.Minute},
		{[]string{" 15 "}, 15 * time.Minute},
		{[]string{"abc", "0", "45"}, 45 * time.Minute},
		{[]string{"-5"}, time.Hour},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseInterval(tt.values, time.Hour), tt.values)
	}
}

type countingRunner struct {
	triggers []models.RunTrigger
	cancel   context.CancelFunc
}

func (r *countingRunner) Run(ctx context.Context, trigger models.RunTrigger) (*RunResult, error) {
	r.triggers = append(r.triggers, trigger)
	if len(r.triggers) == 2 {
		r.cancel()
	}
	return nil, errors.New("run errors do not stop the scheduler")
}

func TestSchedulerRunsEveryInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := &countingRunner{cancel: cancel}

	s := NewScheduler(runner, fakeConfig{models.ConfigScheduleInterval: {"10"}}, time.Hour)
	var waits []time.Duration
	s.after = func(d time.Duration) <-chan time.Time {
		waits = append(waits, d)
		if len(waits) > 2 {
			// 세 번째 대기는 취소로만 끝난다
			return nil
		}
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		return ch
	}

	err := s.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []models.RunTrigger{models.TriggerScheduler, models.TriggerScheduler}, runner.triggers)
	assert.Equal(t, 10*time.Minute, waits[0])
}
