/*
Package tiered provides a ready-made, configurable allocator tier.

A tier combines a virtual stack, which reserves a large address range and
commits pages as it grows, with a chunked stack over the Go heap that takes
over once the reservation is exhausted. Both rewind together, so a tier can
back an alloc.ScopeAllocator directly.

# Quick Start

	a, err := tiered.New(tiered.DefaultConfig())
	if err != nil {
	    log.Fatal(err)
	}
	defer a.Close()

	block := a.Allocate(256, 16)

# Configuration

Configurations are plain structs with YAML tags; sizes accept units:

	virtual:
	  capacity: 1GB
	  granularity: 64KB
	stack:
	  granularity: 64KB
	log:
	  enabled: true
	  level: debug
	  format: json

LoadConfig decodes such a document over DefaultConfig, rejects unknown
fields and validates the result. Validation errors wrap ErrInvalidConfig.

# Scopes

	scope := alloc.NewScope[tiered.Checkpoint](a)
	defer scope.Close()

	v, err := alloc.New(scope, vec3{1, 2, 3})

# Metrics

WithRegisterer publishes per-tier alloc.Stats as Prometheus gauges labelled
tiered_primary and tiered_fallback. Call Publish to refresh them.
*/
package tiered
