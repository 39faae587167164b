package reconcile

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Metrics are the prometheus collectors updated by the reconciler.
type Metrics struct {
	iterations  *prometheus.CounterVec
	duration    prometheus.Histogram
	driverOps   *prometheus.CounterVec
	allocations *prometheus.CounterVec
	failures    *prometheus.CounterVec
}

// NewMetrics creates the reconciler collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netreconciler",
			Name:      "iterations_total",
			Help:      "Reconciliation iterations by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "netreconciler",
			Name:      "iteration_duration_seconds",
			Help:      "Duration of reconciliation iterations.",
			Buckets:   prometheus.DefBuckets,
		}),
		driverOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netreconciler",
			Name:      "driver_operations_total",
			Help:      "Driver calls by operation and result.",
		}, []string{"op", "result"}),
		allocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netreconciler",
			Name:      "port_allocations_total",
			Help:      "Port allocations by result.",
		}, []string{"result"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netreconciler",
			Name:      "item_failures_total",
			Help:      "Isolated per-item failures by stage.",
		}, []string{"stage"}),
	}
	if reg != nil {
		reg.MustRegister(m.iterations, m.duration, m.driverOps, m.allocations, m.failures)
	}
	return m
}

func (m *Metrics) driverOp(op string, err error) {
	m.driverOps.WithLabelValues(op, result(err)).Inc()
}

func (m *Metrics) allocation(err error) {
	m.allocations.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) failure(stage string) {
	m.failures.WithLabelValues(stage).Inc()
}

func result(err error) string {
	if err != nil {
		return resultFailure
	}
	return resultSuccess
}
