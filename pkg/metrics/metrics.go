package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RunsInQueue         prometheus.Gauge
	RunsTotal           *prometheus.CounterVec
	RunFailuresTotal    *prometheus.CounterVec
	RunDuration         *prometheus.HistogramVec
	ProductsCollected   *prometheus.CounterVec
	LoadMoreClicksTotal prometheus.Counter

	initOnce sync.Once
)

// Init registers all collectors with the default registry. It is safe to
// call more than once.
func Init() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RunsInQueue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "collection_runs_in_queue",
			Help: "Current number of collection runs waiting in the queue.",
		},
	)

	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collection_runs_total",
			Help: "Total number of finished collection runs.",
		},
		[]string{"outcome"}, // target_reached, stalled, exhausted
	)

	RunFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collection_run_failures_total",
			Help: "Total number of collection runs that ended with an error.",
		},
		[]string{"error_type"},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collection_run_duration_seconds",
			Help:    "Duration of collection runs.",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1200},
		},
		[]string{"domain"},
	)

	ProductsCollected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collected_products_total",
			Help: "Total number of unique product URLs exported.",
		},
		[]string{"domain"},
	)

	LoadMoreClicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "load_more_clicks_total",
			Help: "Total number of load-more controls activated.",
		},
	)
}
