package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "experiment40_auth_submissions_total",
		Help: "Login and registration submissions by outcome.",
	}, []string{"kind", "outcome"})

	AccountsRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "experiment40_accounts_requests_total",
		Help: "Requests sent to the remote accounts API.",
	}, []string{"endpoint", "status"})

	AccountsRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "experiment40_accounts_request_duration_seconds",
		Help:    "Latency of requests to the remote accounts API.",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"endpoint"})

	CacheFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "experiment40_session_cache_fetches_total",
		Help: "Session cache loader calls by result.",
	}, []string{"result"})

	VisitorsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "experiment40_visitors_active",
		Help: "Visitors with an in-memory session cache.",
	})
)
