package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Task func(ctx context.Context) error

// Every runs task immediately and then on each tick until ctx is done.
func Every(ctx context.Context, interval time.Duration, name string, task Task, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("scheduler").With(zap.String("task", name))

	t := time.NewTicker(interval)
	defer t.Stop()

	run := func() {
		if err := task(ctx); err != nil && ctx.Err() == nil {
			log.Warn("task failed", zap.Error(err))
		}
	}

	// run immediately
	run()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}

// Cron runs task on a standard five-field schedule in tz until ctx is
// done. Overlapping firings are skipped.
func Cron(ctx context.Context, spec, tz, name string, task Task, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("scheduler").With(zap.String("task", name))

	loc := time.Local
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("schedule timezone %q: %w", tz, err)
		}
		loc = l
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	_, err := c.AddFunc(spec, func() {
		log.Info("firing")
		if err := task(ctx); err != nil && ctx.Err() == nil {
			log.Warn("task failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}

	c.Start()
	for _, e := range c.Entries() {
		log.Info("scheduled", zap.String("spec", spec), zap.Time("next", e.Next))
	}
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
