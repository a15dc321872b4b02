package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NotificationMetrics tracks outbound chat deliveries.
type NotificationMetrics struct {
	deliveries *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

// NewNotificationMetrics registers the notification metrics on the provided registerer.
func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	if reg == nil {
		return &NotificationMetrics{}
	}
	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notifications",
		Name:      "deliveries_total",
		Help:      "Notification deliveries by kind and outcome.",
	}, []string{"kind", "result"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "notifications",
		Name:      "delivery_duration_seconds",
		Help:      "Time spent delivering a notification.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})
	reg.MustRegister(deliveries, latency)
	return &NotificationMetrics{deliveries: deliveries, latency: latency}
}

// Observe records one delivery attempt.
func (m *NotificationMetrics) Observe(kind string, duration time.Duration, err error) {
	if m == nil || m.deliveries == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	kind = normalizeLabel(kind)
	m.deliveries.WithLabelValues(kind, result).Inc()
	m.latency.WithLabelValues(kind).Observe(duration.Seconds())
}
