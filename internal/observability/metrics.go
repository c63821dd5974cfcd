package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	coderMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skysync",
			Subsystem: "coder",
			Name:      "messages_total",
			Help:      "Messages decoded or encoded by the coder.",
		},
		[]string{"backend", "op", "type"},
	)
	coderErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skysync",
			Subsystem: "coder",
			Name:      "errors_total",
			Help:      "Coder failures by reason.",
		},
		[]string{"backend", "op", "reason"},
	)
	coderEncodedBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "skysync",
			Subsystem: "coder",
			Name:      "encoded_body_bytes",
			Help:      "Size of encoded message bodies in bytes.",
			Buckets:   prometheus.ExponentialBuckets(32, 4, 8),
		},
		[]string{"backend", "type"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(coderMessages, coderErrors, coderEncodedBytes)
	})
}

func RecordCoderMessage(backend, op, msgType string) {
	RegisterMetrics()
	coderMessages.WithLabelValues(backend, op, msgType).Inc()
}

func RecordCoderError(backend, op, reason string) {
	RegisterMetrics()
	coderErrors.WithLabelValues(backend, op, reason).Inc()
}

func RecordEncodedSize(backend, msgType string, n int) {
	RegisterMetrics()
	coderEncodedBytes.WithLabelValues(backend, msgType).Observe(float64(n))
}
