package metrics_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"marketwatch/internal/metrics"
)

func TestMetrics_Record(t *testing.T) {
	t.Parallel()

	m := metrics.New("test")
	m.ObserveFetch("stocks", metrics.OutcomeOK, 10*time.Millisecond)
	m.ObserveFetch("stocks", metrics.OutcomeOK, 20*time.Millisecond)
	m.ObserveFetch("forex", metrics.OutcomeRateLimited, time.Millisecond)
	m.SetSize("stocks", 3)
	m.AddInFlight("commodities", 1)
	m.RejectPoints(2)
	m.RejectPoints(0)
	m.DropEvent()

	require.InDelta(t, 2, testutil.ToFloat64(m.FetchTotal.WithLabelValues("stocks", metrics.OutcomeOK)), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.FetchTotal.WithLabelValues("forex", metrics.OutcomeRateLimited)), 0)
	require.InDelta(t, 3, testutil.ToFloat64(m.WatchlistSize.WithLabelValues("stocks")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.InFlight.WithLabelValues("commodities")), 0)
	require.InDelta(t, 2, testutil.ToFloat64(m.PointsRejected), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.EventsDropped), 0)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	require.NotPanics(t, func() {
		m.ObserveFetch("stocks", metrics.OutcomeOK, time.Second)
		m.AddInFlight("stocks", 1)
		m.SetSize("stocks", 1)
		m.RejectPoints(1)
		m.DropEvent()
	})
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := metrics.New("test")
	m.SetSize("forex", 2)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rr.Code)
	require.Contains(t, rr.Body.String(), `test_watchlist_size{kind="forex"} 2`)
}
