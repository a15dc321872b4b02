package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	ResultApplied  = "applied"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// PurchaseMetrics counts purchase creations and lifecycle transitions.
type PurchaseMetrics struct {
	created     *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewPurchaseMetrics registers the purchase metrics on the provided registerer.
func NewPurchaseMetrics(reg prometheus.Registerer) *PurchaseMetrics {
	if reg == nil {
		return &PurchaseMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "purchases",
		Name:      "created_total",
		Help:      "Purchases created, split by urgency.",
	}, []string{"urgent"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "purchases",
		Name:      "transitions_total",
		Help:      "Purchase status events by outcome.",
	}, []string{"event", "result"})
	reg.MustRegister(created, transitions)
	return &PurchaseMetrics{created: created, transitions: transitions}
}

// IncCreated counts a new purchase.
func (m *PurchaseMetrics) IncCreated(urgent bool) {
	if m == nil || m.created == nil {
		return
	}
	label := "false"
	if urgent {
		label = "true"
	}
	m.created.WithLabelValues(label).Inc()
}

// IncTransition counts an event outcome.
func (m *PurchaseMetrics) IncTransition(event, result string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(event), normalizeLabel(result)).Inc()
}
