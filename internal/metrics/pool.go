// Package metrics exposes Prometheus instrumentation for the bignum pool
// allocator. PoolMetrics implements the bignum.Trace hook, so wiring it into
// a context is a construction-time option rather than code in the hot path.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gitter-badger/OpenCKMS/internal/bignum"
)

const (
	namespace = "openckms"
	subsystem = "bnpool"
)

// PoolMetrics tracks pool allocator behaviour. All methods are safe for
// concurrent use across contexts; each individual context remains
// single-threaded.
type PoolMetrics struct {
	depth       prometheus.Gauge
	mark        prometheus.Gauge
	acquired    prometheus.Counter
	released    prometheus.Counter
	exhausted   prometheus.Counter
	extAcquired *prometheus.CounterVec
}

// NewPoolMetrics creates the pool metric set and registers it with reg.
func NewPoolMetrics(reg prometheus.Registerer) *PoolMetrics {
	m := &PoolMetrics{
		depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "checkpoint_depth",
			Help:      "Current checkpoint nesting depth.",
		}),
		mark: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "allocation_mark",
			Help:      "Current standard-pool allocation mark in slots.",
		}),
		acquired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "acquired_total",
			Help:      "Standard-pool temporaries handed out.",
		}),
		released: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "released_total",
			Help:      "Standard-pool temporaries zeroized and reclaimed.",
		}),
		exhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "exhausted_total",
			Help:      "Failed acquisitions due to pool capacity.",
		}),
		extAcquired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ext_acquired_total",
			Help:      "Extended-pool acquisitions by purpose.",
		}, []string{"purpose"}),
	}
	reg.MustRegister(m.depth, m.mark, m.acquired, m.released, m.exhausted, m.extAcquired)
	return m
}

// CheckpointStart implements bignum.Trace.
func (m *PoolMetrics) CheckpointStart(depth, mark int) {
	m.depth.Set(float64(depth))
	m.mark.Set(float64(mark))
}

// CheckpointEnd implements bignum.Trace. The restored allocation mark is the
// released frame's top minus the slots it cleared, so the gauge drops by
// exactly cleared.
func (m *PoolMetrics) CheckpointEnd(depth, cleared int) {
	m.depth.Set(float64(depth - 1))
	m.mark.Sub(float64(cleared))
	m.released.Add(float64(cleared))
}

// Acquire implements bignum.Trace.
func (m *PoolMetrics) Acquire(index int) {
	m.acquired.Inc()
	m.mark.Set(float64(index + 1))
}

// AcquireExt implements bignum.Trace.
func (m *PoolMetrics) AcquireExt(purpose bignum.ExtPurpose) {
	m.extAcquired.WithLabelValues(purpose.String()).Inc()
}

// ReleaseExt implements bignum.Trace.
func (m *PoolMetrics) ReleaseExt(bignum.ExtPurpose) {}

// Exhausted implements bignum.Trace.
func (m *PoolMetrics) Exhausted(int) {
	m.exhausted.Inc()
}

var _ bignum.Trace = (*PoolMetrics)(nil)
