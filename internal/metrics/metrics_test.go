package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Source(OutcomeAccepted)
	m.Source(OutcomeAccepted)
	m.Source(OutcomeFiltered)
	m.Error(StageFetch)
	m.Run("ok", 3*time.Second)
	m.Score(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Sources.WithLabelValues(OutcomeAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Sources.WithLabelValues(OutcomeFiltered)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Errors.WithLabelValues(StageFetch)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("ok")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CandidateScore))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Source(OutcomeSeen)
		m.Error(StageStore)
		m.Score(1)
		m.Run("failed", time.Second)
		m.FavoritePost()
	})
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.Source(OutcomeSeen)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `shelterbot_sources_total{outcome="seen"} 1`)
}
