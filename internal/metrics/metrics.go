package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mariochat_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mariochat_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Connection metrics
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mariochat_connections_active",
			Help: "Currently connected participants",
		},
	)

	ConnectionsRefused = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mariochat_connections_refused_total",
			Help: "Connections refused because the chat was full",
		},
	)

	// Chat metrics
	MessagesRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mariochat_messages_relayed_total",
			Help: "Messages relayed to clients",
		},
		[]string{"kind"}, // "room", "private" or "system"
	)

	TypingEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mariochat_typing_events_total",
			Help: "Typing start/stop events processed",
		},
	)

	HistoryReplays = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mariochat_history_replays_total",
			Help: "Room history catch-up payloads sent",
		},
	)

	// Transport metrics
	EventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mariochat_events_dropped_total",
			Help: "Outbound events dropped because a session's send buffer was full",
		},
	)
)
