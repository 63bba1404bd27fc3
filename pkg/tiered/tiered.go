package tiered

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/RDFacendola/Syntropy-sub008/alloc"
	"github.com/RDFacendola/Syntropy-sub008/alloc/metrics"
	"github.com/RDFacendola/Syntropy-sub008/internal/logger"
	"github.com/RDFacendola/Syntropy-sub008/memory"
)

type (
	primaryAllocator  = *alloc.VirtualStackAllocator
	fallbackAllocator = *alloc.StackAllocator[*alloc.SystemAllocator]
)

// Checkpoint is a snapshot of both tiers.
type Checkpoint struct {
	primary  alloc.VirtualCheckpoint
	fallback alloc.StackCheckpoint
}

// Option customizes New.
type Option func(*options)

type options struct {
	reg prometheus.Registerer
}

// WithRegisterer publishes per-tier Stats gauges to reg. Gauges are refreshed
// by Allocator.Publish.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.reg = reg
	}
}

// Allocator is a two-tier allocator: a virtual stack serves requests until
// its reservation is exhausted, after which a chunked stack over the Go heap
// takes over. Both tiers rewind together, so the allocator can back a
// ScopeAllocator.
//
// Allocator is not safe for concurrent use.
type Allocator struct {
	cfg      Config
	primary  primaryAllocator
	fallback fallbackAllocator
	tier     *alloc.FallbackAllocator[primaryAllocator, fallbackAllocator]

	primaryGauges  *metrics.StatsGauges
	fallbackGauges *metrics.StatsGauges

	closed bool
}

// New validates cfg and builds the tier. If cfg.Log.Enabled is set, the
// package logger is configured from cfg.Log.
func New(cfg Config, opts ...Option) (*Allocator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if cfg.Log.Enabled {
		logger.Init(cfg.Log.loggerOptions())
	}

	primary, err := alloc.NewVirtualStack(int(cfg.Virtual.Capacity.Bytes()), int(cfg.Virtual.Granularity.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("tiered: primary: %w", err)
	}
	fallback := alloc.NewStack(alloc.NewSystem(), int(cfg.Stack.Granularity.Bytes()))

	a := &Allocator{
		cfg:      cfg,
		primary:  primary,
		fallback: fallback,
		tier:     alloc.NewFallback(primary, fallback),
	}
	if o.reg != nil {
		a.primaryGauges = metrics.NewStatsGauges(o.reg, "tiered_primary")
		a.fallbackGauges = metrics.NewStatsGauges(o.reg, "tiered_fallback")
		a.Publish()
	}

	logger.L.Info("tiered: allocator ready",
		"capacity", humanize.IBytes(uint64(primary.Capacity())),
		"commit_granularity", humanize.IBytes(uint64(primary.Granularity())),
		"chunk_granularity", humanize.IBytes(uint64(fallback.Granularity())))
	return a, nil
}

// Allocate serves the request from the virtual stack, or from the heap stack
// once the reservation is exhausted. Returns nil after Close.
func (a *Allocator) Allocate(size int, align memory.Alignment) []byte {
	if a.closed {
		return nil
	}
	return a.tier.Allocate(size, align)
}

// Deallocate is a no-op on both tiers; memory is reclaimed by Rewind or
// DeallocateAll.
func (a *Allocator) Deallocate(block []byte, align memory.Alignment) {
	if a.closed {
		return
	}
	a.tier.Deallocate(block, align)
}

// Owns reports whether either tier owns block.
func (a *Allocator) Owns(block []byte) bool {
	if a.closed {
		return false
	}
	return a.tier.Owns(block)
}

// DeallocateAll releases every block of both tiers.
func (a *Allocator) DeallocateAll() {
	if a.closed {
		return
	}
	a.tier.DeallocateAll()
}

// Checkpoint snapshots both tiers.
func (a *Allocator) Checkpoint() Checkpoint {
	return Checkpoint{
		primary:  a.primary.Checkpoint(),
		fallback: a.fallback.Checkpoint(),
	}
}

// Rewind restores both tiers to checkpoint.
func (a *Allocator) Rewind(checkpoint Checkpoint) {
	if a.closed {
		return
	}
	a.fallback.Rewind(checkpoint.fallback)
	a.primary.Rewind(checkpoint.primary)
}

// Stats returns the combined usage of both tiers.
func (a *Allocator) Stats() alloc.Stats {
	return a.primary.Stats().Add(a.fallback.Stats())
}

// PrimaryStats returns the usage of the virtual stack.
func (a *Allocator) PrimaryStats() alloc.Stats {
	return a.primary.Stats()
}

// FallbackStats returns the usage of the heap stack.
func (a *Allocator) FallbackStats() alloc.Stats {
	return a.fallback.Stats()
}

// Publish refreshes the Stats gauges registered through WithRegisterer.
// Without a registerer it does nothing.
func (a *Allocator) Publish() {
	if a.primaryGauges == nil {
		return
	}
	a.primaryGauges.Observe(a.primary)
	a.fallbackGauges.Observe(a.fallback)
}

// Config returns the configuration the allocator was built with.
func (a *Allocator) Config() Config {
	return a.cfg
}

// Close releases both tiers. Every block becomes invalid and further
// allocations fail. Closing twice is a no-op.
func (a *Allocator) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	a.fallback.DeallocateAll()
	err := a.primary.Close()
	a.Publish()
	if err != nil {
		return fmt.Errorf("tiered: close: %w", err)
	}
	return nil
}

// Compile-time interface checks
var (
	_ alloc.OwningAllocator      = (*Allocator)(nil)
	_ alloc.BulkDeallocator      = (*Allocator)(nil)
	_ alloc.Rewinder[Checkpoint] = (*Allocator)(nil)
	_ alloc.StatsReporter        = (*Allocator)(nil)
)
