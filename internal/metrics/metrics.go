package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Operations counts record operations by name and result
	// (ok, matched, not_found, invalid, error).
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interntrack",
		Name:      "operations_total",
		Help:      "Record operations handled, by operation and result.",
	}, []string{"operation", "result"})

	// ActivityEvents counts activity events the worker has recorded, by kind.
	ActivityEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interntrack",
		Name:      "activity_events_total",
		Help:      "Activity events consumed from the queue, by kind.",
	}, []string{"kind"})

	// RateLimited counts requests rejected by the rate limiter.
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "interntrack",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter.",
	})
)
