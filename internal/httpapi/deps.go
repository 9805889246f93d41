package httpapi

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shikkq/4eremsha/internal/config"
	"github.com/shikkq/4eremsha/internal/events"
	"github.com/shikkq/4eremsha/internal/metrics"
	"github.com/shikkq/4eremsha/internal/rank"
	"github.com/shikkq/4eremsha/internal/scrape"
	"github.com/shikkq/4eremsha/internal/scrape/types"
	"github.com/shikkq/4eremsha/internal/store"
)

type RunController interface {
	RunOnce(ctx context.Context, reqID string, cities []string) (scrape.Report, error)
	Status() types.ScrapeStatus
}

type Deps struct {
	// BaseCtx outlives requests; background runs use it.
	BaseCtx context.Context

	DB      *store.DB
	Hub     *events.Hub
	Cfg     config.Config
	Runs    RunController
	Scorer  rank.PostScorer
	Metrics *metrics.Metrics
	Log     *zap.Logger
	Now     func() time.Time

	// Keychain writes (inject for testability)
	SetSecret func(account, value string) error
}
