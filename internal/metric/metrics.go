package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Calls made to the storefront backend, by endpoint template and outcome.
	BackendRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "goldmart",
		Subsystem: "backend",
		Name:      "requests_total",
		Help:      "Backend REST calls by endpoint and status code",
	}, []string{"endpoint", "status"})

	BackendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "goldmart",
		Subsystem: "backend",
		Name:      "request_duration_seconds",
		Help:      "Backend REST call latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	ForcedLogoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "goldmart",
		Subsystem: "session",
		Name:      "forced_logouts_total",
		Help:      "Sessions cleared after a 401 from the backend",
	}, []string{"scope"})

	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "goldmart",
		Subsystem: "cart",
		Name:      "mutations_total",
		Help:      "Cart operations applied",
	}, []string{"op"})

	PaymentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "goldmart",
		Subsystem: "payment",
		Name:      "outcomes_total",
		Help:      "Payment attempts by method and outcome",
	}, []string{"method", "outcome"})

	PollRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "goldmart",
		Subsystem: "poll",
		Name:      "runs_total",
		Help:      "Periodic refreshes executed",
	}, []string{"task", "status"})

	RequestMetrics = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "goldmart",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Gateway request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
)

func ObserveBackend(endpoint string, status int, d time.Duration) {
	BackendRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	BackendDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func ObserveRequest(t time.Duration, status int) {
	RequestMetrics.WithLabelValues(strconv.Itoa(status)).Observe(t.Seconds())
}
