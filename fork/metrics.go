package fork

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cheatnet",
		Subsystem: "fork",
		Name:      "requests_total",
		Help:      "JSON-RPC requests sent to the fork node",
	}, []string{"method", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cheatnet",
		Subsystem: "fork",
		Name:      "request_duration_seconds",
		Help:      "Round trip time of requests to the fork node",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"method"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cheatnet",
		Subsystem: "fork",
		Name:      "cache_lookups_total",
		Help:      "Fork cache lookups by layer and result",
	}, []string{"layer", "hit"})
)
