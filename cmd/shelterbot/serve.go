package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shikkq/4eremsha/internal/events"
	"github.com/shikkq/4eremsha/internal/httpapi"
	"github.com/shikkq/4eremsha/internal/notify"
	"github.com/shikkq/4eremsha/internal/poll"
	"github.com/shikkq/4eremsha/internal/rank"
	"github.com/shikkq/4eremsha/internal/scheduler"
	"github.com/shikkq/4eremsha/internal/scrape"
	"github.com/shikkq/4eremsha/internal/secrets"
)

func newServeCommand() *cobra.Command {
	var noSchedule bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local API, the ingestion schedule and the favorites refresher",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			return a.serve(cmd.Context(), !noSchedule)
		},
	}
	cmd.Flags().BoolVar(&noSchedule, "no-schedule", false, "serve the API without scheduled runs")
	return cmd
}

// unavailable stands in for the driver when ingestion cannot be wired.
type unavailable struct{ err error }

func (u unavailable) Run(context.Context, []string) (scrape.Report, error) {
	return scrape.Report{}, u.err
}

// telegram returns the notifier, or nil when notifications are off.
func (a *app) telegram() (poll.Notifier, error) {
	tg, err := notify.NewTelegram(a.cfg.Telegram, a.log)
	if errors.Is(err, notify.ErrDisabled) {
		a.log.Info("telegram notifications disabled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tg, nil
}

func (a *app) serve(ctx context.Context, schedule bool) error {
	log := a.log
	log.Info("starting", zap.String("config", a.cfgPath), zap.String("data_dir", a.cfg.App.DataDir))

	hub := events.NewHub()
	notifier, err := a.telegram()
	if err != nil {
		return err
	}

	var ingest poll.Ingester
	driver, err := a.newDriver(ctx)
	switch {
	case err == nil:
		ingest = driver
	case errors.Is(err, errNoToken):
		log.Warn("ingestion disabled", zap.Error(err))
		ingest = unavailable{err: err}
	default:
		return err
	}
	runner := poll.NewRunner(ingest, hub, notifier, log)
	if driver != nil {
		driver.OnAccepted = runner.OnAccepted
	}

	srv := &http.Server{
		Addr: fmt.Sprintf("127.0.0.1:%d", a.cfg.App.Port),
		Handler: httpapi.Handler(httpapi.Deps{
			BaseCtx:   ctx,
			DB:        a.db,
			Hub:       hub,
			Cfg:       a.cfg,
			Runs:      runner,
			Scorer:    rank.NewScorer(a.cfg),
			Metrics:   a.metrics,
			Log:       log,
			Now:       time.Now,
			SetSecret: secrets.Set,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(log.Named("http")),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if schedule && a.cfg.Schedule.Enabled && driver != nil {
		g.Go(func() error {
			return scheduler.Cron(gctx, a.cfg.Schedule.Cron, a.cfg.Schedule.Timezone, "ingest", runner.Task, log)
		})
	}

	if schedule && a.cfg.Schedule.FavoritesMinutes > 0 {
		if task, err := a.favoritesTask(hub); err != nil {
			log.Warn("favorites refresh disabled", zap.Error(err))
		} else {
			g.Go(func() error {
				interval := time.Duration(a.cfg.Schedule.FavoritesMinutes) * time.Minute
				scheduler.Every(gctx, interval, "favorites", task, log)
				return nil
			})
		}
	}

	err = g.Wait()
	log.Info("stopped")
	return err
}

// favoritesTask refreshes favorite shelters and announces new posts.
func (a *app) favoritesTask(hub *events.Hub) (scheduler.Task, error) {
	_, fetch, err := a.fetchers()
	if err != nil {
		return nil, err
	}
	ref := scrape.NewFavoritesRefresher(a.cfg, a.db, fetch, a.log)
	ref.Metrics = a.metrics

	return func(ctx context.Context) error {
		n, err := ref.Run(ctx)
		if n > 0 {
			hub.Publish(events.MakeEvent("", events.TypeFavoritesRefreshed, 1, map[string]int{"added": n}))
		}
		return err
	}, nil
}
