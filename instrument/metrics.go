// Package instrument exports allocator activity to Prometheus.
package instrument

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opAllocate = "allocate"
	opResize   = "resize"
	opFree     = "free"
)

// Metrics holds the collectors shared by every instrumented allocator; each
// allocator is told apart by its name label.
type Metrics struct {
	operations     *prometheus.CounterVec
	failures       *prometheus.CounterVec
	requestedBytes *prometheus.CounterVec
	freedBytes     *prometheus.CounterVec
}

// NewMetrics registers allocator metrics with r. A nil registerer leaves
// them unregistered.
func NewMetrics(r prometheus.Registerer) *Metrics {
	return &Metrics{
		operations: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "alloc_operations_total",
			Help: "Total number of allocator operations.",
		}, []string{"allocator", "op"}),
		failures: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "alloc_failures_total",
			Help: "Total number of failed allocate and resize operations.",
		}, []string{"allocator", "op"}),
		requestedBytes: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "alloc_requested_bytes_total",
			Help: "Total number of bytes returned by successful allocate and resize operations.",
		}, []string{"allocator"}),
		freedBytes: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "alloc_freed_bytes_total",
			Help: "Total number of bytes passed to free.",
		}, []string{"allocator"}),
	}
}
