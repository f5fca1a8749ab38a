package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/AbdulWasayUl/go-weather-logger/internal/logger"
	"github.com/go-co-op/gocron"
)

// LookupFunc performs one lookup for city. Failures are its own to report.
type LookupFunc func(ctx context.Context, city string)

type Scheduler struct {
	Cron *gocron.Scheduler
}

// New returns a scheduler that never runs two lookups at once.
func New() *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{Cron: s}
}

// Watch runs lookup for city immediately and then every interval, blocking
// until ctx is cancelled.
func (s *Scheduler) Watch(ctx context.Context, city string, interval time.Duration, lookup LookupFunc) error {
	if interval <= 0 {
		return errors.New("watch interval must be positive")
	}
	if lookup == nil {
		return errors.New("lookup func is nil")
	}

	_, err := s.Cron.Every(interval).Do(func() {
		logger.Info("--- Scheduled lookup for %s started ---", city)
		defer logger.Info("--- Scheduled lookup for %s finished ---", city)
		lookup(ctx, city)
	})
	if err != nil {
		logger.Error("Failed to schedule job: %v", err)
		return err
	}

	s.Cron.StartAsync()
	<-ctx.Done()
	s.Cron.Stop()
	return nil
}
