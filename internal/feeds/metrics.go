// Package feeds provides clients for the upstream line, history,
// defense and score suppliers.
package feeds

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedRequestsTotal tracks upstream feed requests
	FeedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_requests_total",
			Help: "Total number of upstream feed requests",
		},
		[]string{"feed", "status"}, // status: success, failure
	)

	// HistoryCacheHitRatio tracks the history snapshot cache hit ratio
	HistoryCacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_history_cache_hit_ratio",
			Help: "Game log history cache hit ratio",
		},
	)

	// StreamReconnectsTotal tracks line stream reconnection attempts
	StreamReconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_stream_reconnects_total",
			Help: "Total number of line stream reconnection attempts",
		},
	)

	// StreamLinesTotal tracks prop lines received over the stream
	StreamLinesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_stream_lines_total",
			Help: "Total number of prop line updates received over the stream",
		},
		[]string{"status"}, // status: accepted, malformed
	)
)
