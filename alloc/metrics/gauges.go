package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/RDFacendola/Syntropy-sub008/alloc"
)

// StatsGauges publishes alloc.Stats snapshots of one allocator.
//
// Gauges are only as fresh as the last Update; call it from the goroutine
// that owns the allocator, e.g. after each frame or request.
type StatsGauges struct {
	allocated prometheus.Gauge
	reserved  prometheus.Gauge
	committed prometheus.Gauge
	blocks    prometheus.Gauge
}

// NewStatsGauges registers the gauges for the allocator called name with reg.
// Several allocators may register with the same reg under different names.
func NewStatsGauges(reg prometheus.Registerer, name string) *StatsGauges {
	labels := prometheus.Labels{"allocator": name}
	gauge := func(metric, help string) prometheus.Gauge {
		return promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        metric,
			Help:        help,
			ConstLabels: labels,
		})
	}

	return &StatsGauges{
		allocated: gauge("allocated_bytes", "Bytes currently handed out, alignment padding included."),
		reserved:  gauge("reserved_bytes", "Bytes of backing memory or address space held."),
		committed: gauge("committed_bytes", "Reserved bytes backed by physical memory."),
		blocks:    gauge("backing_blocks", "Backing chunks or regions held."),
	}
}

// Update sets every gauge from st.
func (g *StatsGauges) Update(st alloc.Stats) {
	g.allocated.Set(float64(st.Allocated))
	g.reserved.Set(float64(st.Reserved))
	g.committed.Set(float64(st.Committed))
	g.blocks.Set(float64(st.Blocks))
}

// Observe updates the gauges from r's current Stats.
func (g *StatsGauges) Observe(r alloc.StatsReporter) {
	g.Update(r.Stats())
}
