package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishguard/internal/domain"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveAnalysis(domain.Phishing, 120*time.Millisecond)
	m.ObserveAnalysis(domain.Phishing, 80*time.Millisecond)
	m.ObserveAnalysis(domain.Safe, time.Second)
	m.AnalysisFailed(ReasonInvalidURL)
	m.AcquisitionMiss(SourceDNS)
	m.AcquisitionMiss(SourceDNS)
	m.VerdictDropped()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.analyses.WithLabelValues("Phishing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analyses.WithLabelValues("Safe")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues(ReasonInvalidURL)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.misses.WithLabelValues(SourceDNS)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dropped))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAnalysis(domain.Safe, time.Second)
		m.AnalysisFailed(ReasonInternal)
		m.AcquisitionMiss(SourceDocument)
		m.VerdictDropped()
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveAnalysis(domain.Suspicious, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `phishguard_analyses_total{classification="Suspicious"} 1`)
}
