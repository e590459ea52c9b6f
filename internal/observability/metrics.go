package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	protocolMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "feed",
			Subsystem: "server",
			Name:      "protocol_messages_total",
			Help:      "Inbound protocol messages by kind.",
		},
		[]string{"kind"},
	)
	malformedMessages = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "feed",
			Subsystem: "server",
			Name:      "malformed_messages_total",
			Help:      "Inbound datagrams dropped as malformed.",
		},
	)
	connectedClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "feed",
			Subsystem: "server",
			Name:      "connected_clients",
			Help:      "Clients currently registered for broadcast.",
		},
	)
	clientEvictions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "feed",
			Subsystem: "server",
			Name:      "client_evictions_total",
			Help:      "Clients evicted after heartbeat timeout.",
		},
	)
	broadcastLines = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "feed",
			Subsystem: "server",
			Name:      "broadcast_lines_total",
			Help:      "Data lines pulled from the feed and broadcast.",
		},
	)
	broadcastSendErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "feed",
			Subsystem: "server",
			Name:      "broadcast_send_errors_total",
			Help:      "Per-client broadcast send failures.",
		},
	)

	relayDatagrams = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "feed",
			Subsystem: "relay",
			Name:      "datagrams_total",
			Help:      "Datagrams received by the relay.",
		},
	)
	relayAcks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "feed",
			Subsystem: "relay",
			Name:      "acks_total",
			Help:      "ACK replies received from the server.",
		},
	)
	relayForwards = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "feed",
			Subsystem: "relay",
			Name:      "forwards_total",
			Help:      "Data lines forwarded to the downstream sink.",
		},
	)
	relayForwardErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "feed",
			Subsystem: "relay",
			Name:      "forward_errors_total",
			Help:      "Sink forward failures.",
		},
	)
	relayHeartbeatErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "feed",
			Subsystem: "relay",
			Name:      "heartbeat_send_errors_total",
			Help:      "Heartbeat send failures (retried next tick).",
		},
	)

	adminRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "feed",
			Subsystem: "admin",
			Name:      "requests_total",
			Help:      "Admin HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	adminDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "feed",
			Subsystem: "admin",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			protocolMessages, malformedMessages, connectedClients,
			clientEvictions, broadcastLines, broadcastSendErrors,
			relayDatagrams, relayAcks, relayForwards,
			relayForwardErrors, relayHeartbeatErrors,
			adminRequests, adminDuration,
		)
	})
}

func RecordProtocolMessage(kind string) {
	RegisterMetrics()
	protocolMessages.WithLabelValues(kind).Inc()
}

func RecordMalformedMessage() {
	RegisterMetrics()
	malformedMessages.Inc()
}

func SetConnectedClients(n int) {
	RegisterMetrics()
	connectedClients.Set(float64(n))
}

func RecordEvictions(n int) {
	RegisterMetrics()
	clientEvictions.Add(float64(n))
}

func RecordBroadcastLine() {
	RegisterMetrics()
	broadcastLines.Inc()
}

func RecordBroadcastSendError() {
	RegisterMetrics()
	broadcastSendErrors.Inc()
}

func RecordRelayDatagram() {
	RegisterMetrics()
	relayDatagrams.Inc()
}

func RecordRelayAck() {
	RegisterMetrics()
	relayAcks.Inc()
}

func RecordRelayForward() {
	RegisterMetrics()
	relayForwards.Inc()
}

func RecordRelayForwardError() {
	RegisterMetrics()
	relayForwardErrors.Inc()
}

func RecordRelayHeartbeatError() {
	RegisterMetrics()
	relayHeartbeatErrors.Inc()
}

func RecordAdminRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	adminRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	adminDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}
