package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderbot_turns_total",
			Help: "Conversation turns processed, by classified intent",
		},
		[]string{"intent"},
	)

	OrdersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orderbot_orders_total",
			Help: "Orders recorded across all sessions",
		},
	)

	OrderValueTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orderbot_order_value_total",
			Help: "Sum of recorded order totals (Rs)",
		},
	)

	StationNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderbot_station_notifications_total",
			Help: "Station notifications attempted, by station and outcome",
		},
		[]string{"station", "outcome"},
	)

	FallbackDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orderbot_fallback_duration_seconds",
			Help:    "Language-model fallback latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 8),
		},
	)

	SessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orderbot_sessions_started_total",
			Help: "Sessions started since process start",
		},
	)
)
