package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "chatllm"

// Metrics are the Prometheus collectors of the browser surface.
type Metrics struct {
	Connections  prometheus.Gauge
	Prompts      *prometheus.CounterVec
	TurnDuration *prometheus.HistogramVec
	Fragments    prometheus.Counter
	ClientErrors *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "websocket_connections",
			Help:      "Number of open browser connections.",
		}),
		Prompts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "prompts_total",
			Help:      "Prompts processed, by model and outcome.",
		}, []string{"model", "outcome"}),
		TurnDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "turn_duration_seconds",
			Help:      "Time from prompt submission to the appended reply.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
		}, []string{"model"}),
		Fragments: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "stream_fragments_total",
			Help:      "Streamed fragments forwarded to browsers.",
		}),
		ClientErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "client_message_errors_total",
			Help:      "Rejected browser messages, by reason.",
		}, []string{"reason"}),
	}
}
