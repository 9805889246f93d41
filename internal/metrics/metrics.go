// Package metrics holds the Prometheus collectors of the ingestion run.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shelterbot"

// Source outcomes.
const (
	OutcomeSeen        = "seen"
	OutcomeFiltered    = "filtered"
	OutcomeNoCandidate = "no_candidate"
	OutcomeLowScore    = "low_score"
	OutcomeAccepted    = "accepted"
	OutcomeDuplicate   = "duplicate"
	OutcomeFailed      = "failed"
)

// Error stages.
const (
	StageSearch = "search"
	StageFetch  = "fetch"
	StageStore  = "store"
	StageDedup  = "dedup"
	StageNotify = "notify"
)

// Metrics methods are safe on a nil receiver so callers can run without
// a registry.
type Metrics struct {
	reg *prometheus.Registry

	Sources        *prometheus.CounterVec
	Errors         *prometheus.CounterVec
	Runs           *prometheus.CounterVec
	RunDuration    prometheus.Histogram
	CandidateScore prometheus.Histogram
	FavoritePosts  prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		Sources: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sources_total",
			Help:      "Candidate sources by decision outcome",
		}, []string{"outcome"}),
		Errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Collaborator failures by stage",
		}, []string{"stage"}),
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Ingestion runs by result",
		}, []string{"result"}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of one ingestion run",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}),
		CandidateScore: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "candidate_score",
			Help:      "Score of the best post per evaluated source",
			Buckets:   prometheus.LinearBuckets(-3, 1, 16),
		}),
		FavoritePosts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "favorite_posts_total",
			Help:      "New posts stored for favorite shelters",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) Source(outcome string) {
	if m == nil {
		return
	}
	m.Sources.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Error(stage string) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(stage).Inc()
}

func (m *Metrics) Score(score int) {
	if m == nil {
		return
	}
	m.CandidateScore.Observe(float64(score))
}

func (m *Metrics) Run(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(result).Inc()
	m.RunDuration.Observe(d.Seconds())
}

func (m *Metrics) FavoritePost() {
	if m == nil {
		return
	}
	m.FavoritePosts.Inc()
}
