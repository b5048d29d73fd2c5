package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "picstream_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// MongoCommandLatency records document-store command latency by command name.
	MongoCommandLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "picstream_mongo_command_latency_seconds",
		Help:    "MongoDB command latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"command"})

	// MongoCommandErrors counts failed document-store commands by command name.
	MongoCommandErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "picstream_mongo_command_errors_total",
		Help: "Total number of failed MongoDB commands",
	}, []string{"command"})

	// WebSocketConnections is the gauge of active WebSocket connections.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "picstream_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "picstream_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// ChatMessagesTotal counts chat messages flowing through the gateway.
	ChatMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "picstream_chat_messages_total",
		Help: "Total number of chat messages by direction",
	}, []string{"direction"})
)

// ObserveMongoCommand records the latency of a single store command.
func ObserveMongoCommand(command string, start time.Time) {
	MongoCommandLatency.WithLabelValues(command).Observe(time.Since(start).Seconds())
}
