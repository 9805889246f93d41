// Package poll wraps ingestion runs with status tracking and SSE events.
package poll

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/shikkq/4eremsha/internal/events"
	"github.com/shikkq/4eremsha/internal/scrape"
	"github.com/shikkq/4eremsha/internal/scrape/types"
)

type Ingester interface {
	Run(ctx context.Context, cities []string) (scrape.Report, error)
}

// Notifier receives every newly stored shelter.
type Notifier interface {
	NotifyShelter(ctx context.Context, a scrape.Accepted) error
}

type Runner struct {
	ingest  Ingester
	hub     *events.Hub
	notify  Notifier
	log     *zap.Logger
	running atomic.Bool
	status  atomic.Value // types.ScrapeStatus
}

func NewRunner(ingest Ingester, hub *events.Hub, notify Notifier, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runner{ingest: ingest, hub: hub, notify: notify, log: log.Named("poll")}
	r.status.Store(types.ScrapeStatus{})
	return r
}

func (r *Runner) Status() types.ScrapeStatus {
	return r.status.Load().(types.ScrapeStatus)
}

// OnAccepted is meant for scrape.Driver.OnAccepted.
func (r *Runner) OnAccepted(ctx context.Context, a scrape.Accepted) {
	r.hub.Publish(events.MakeEvent("", events.TypeShelterAdded, 1, a.Record))
	if r.notify == nil {
		return
	}
	if err := r.notify.NotifyShelter(ctx, a); err != nil {
		r.log.Warn("notify failed", zap.String("shelter_id", a.Record.ShelterID), zap.Error(err))
	}
}

// RunOnce runs one ingestion pass. Calls that overlap an active run in
// this process return scrape.ErrRunInProgress.
func (r *Runner) RunOnce(ctx context.Context, reqID string, cities []string) (scrape.Report, error) {
	if !r.running.CompareAndSwap(false, true) {
		return scrape.Report{}, scrape.ErrRunInProgress
	}
	defer r.running.Store(false)

	st := r.Status()
	st.Running = true
	st.LastRunAt = time.Now().Format(time.RFC3339)
	r.status.Store(st)
	r.hub.Publish(events.MakeEvent(reqID, events.TypeRunStarted, 1, map[string]any{"cities": cities}))

	rep, err := r.ingest.Run(ctx, cities)

	st = r.Status()
	st.Running = false
	st.RunID = rep.RunID
	st.LastAdded = rep.Accepted
	st.LastSkipped = rep.Seen + rep.Filtered + rep.NoCandidate + rep.LowScore + rep.Duplicates
	if err != nil {
		st.LastError = err.Error()
		r.log.Warn("run failed", zap.Error(err))
	} else {
		st.LastError = ""
		st.LastOkAt = time.Now().Format(time.RFC3339)
	}
	r.status.Store(st)
	r.hub.Publish(events.MakeEvent(reqID, events.TypeRunFinished, 1, rep))
	return rep, err
}

// Task adapts RunOnce to the scheduler over the configured cities.
func (r *Runner) Task(ctx context.Context) error {
	_, err := r.RunOnce(ctx, "", nil)
	return err
}
