// Package metrics exports allocator activity to Prometheus.
//
// Instrumented wraps any allocator and counts calls, bytes and failures.
// StatsGauges publishes an allocator's Stats snapshot. Both are labelled with
// an allocator name so several tiers can share one registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/RDFacendola/Syntropy-sub008/alloc"
	"github.com/RDFacendola/Syntropy-sub008/memory"
)

const (
	namespace = "syntropy"
	subsystem = "alloc"
)

// Metrics holds the counters shared by every Instrumented allocator of a
// registry.
type Metrics struct {
	allocations      *prometheus.CounterVec
	allocatedBytes   *prometheus.CounterVec
	deallocations    *prometheus.CounterVec
	deallocatedBytes *prometheus.CounterVec
}

// NewMetrics registers the allocator counters with reg. A nil reg creates
// unregistered counters.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		allocations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "allocations_total",
			Help:      "Allocate calls by allocator and outcome.",
		}, []string{"allocator", "outcome"}),
		allocatedBytes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "allocated_bytes_total",
			Help:      "Bytes handed out by successful Allocate calls.",
		}, []string{"allocator"}),
		deallocations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "deallocations_total",
			Help:      "Deallocate calls by allocator.",
		}, []string{"allocator"}),
		deallocatedBytes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "deallocated_bytes_total",
			Help:      "Bytes returned through Deallocate.",
		}, []string{"allocator"}),
	}
}

// Instrumented is an allocator decorator that counts every call made
// through it. Counters are resolved once at construction so the hot path is
// a handful of atomic adds.
//
// Instrumented exposes only the Allocator capability; wrap the outermost
// allocator of a composition rather than a fallback side.
type Instrumented[A alloc.Allocator] struct {
	inner A

	ok         prometheus.Counter
	failed     prometheus.Counter
	bytes      prometheus.Counter
	frees      prometheus.Counter
	freedBytes prometheus.Counter
}

// Instrument wraps inner, labelling its counters with name.
func Instrument[A alloc.Allocator](inner A, name string, m *Metrics) *Instrumented[A] {
	return &Instrumented[A]{
		inner:      inner,
		ok:         m.allocations.WithLabelValues(name, "ok"),
		failed:     m.allocations.WithLabelValues(name, "failed"),
		bytes:      m.allocatedBytes.WithLabelValues(name),
		frees:      m.deallocations.WithLabelValues(name),
		freedBytes: m.deallocatedBytes.WithLabelValues(name),
	}
}

// Allocate forwards to the wrapped allocator and records the outcome.
func (i *Instrumented[A]) Allocate(size int, align memory.Alignment) []byte {
	block := i.inner.Allocate(size, align)
	if block == nil {
		i.failed.Inc()
		return nil
	}
	i.ok.Inc()
	i.bytes.Add(float64(size))
	return block
}

// Deallocate records the call and forwards to the wrapped allocator.
func (i *Instrumented[A]) Deallocate(block []byte, align memory.Alignment) {
	i.frees.Inc()
	i.freedBytes.Add(float64(len(block)))
	i.inner.Deallocate(block, align)
}

// Underlying returns the wrapped allocator.
func (i *Instrumented[A]) Underlying() A {
	return i.inner
}

var _ alloc.Allocator = (*Instrumented[*alloc.SystemAllocator])(nil)
