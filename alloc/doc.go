// Package alloc provides composable, single-goroutine allocators that trade
// generality for predictable, pattern-specific performance.
//
// # Overview
//
// Every allocator hands out raw byte blocks ([]byte) and satisfies the
// Allocator interface:
//
//   - Allocate(size, align): returns a block, or nil when exhausted
//   - Deallocate(block, align): returns a block obtained from Allocate
//
// Optional capabilities are expressed as additional interfaces:
//
//   - Owner: Owns(block) reports whether a block belongs to the allocator
//   - BulkDeallocator: DeallocateAll() releases every block at once
//   - Rewinder[C]: Checkpoint() / Rewind(C) give LIFO scope semantics
//
// # Implementations
//
// SystemAllocator: leaf allocator over the Go heap.
//
// StackAllocator: chunked bump allocator
//
//   - Bump allocation inside the active chunk, O(1)
//   - New chunks of at least Granularity bytes from an underlying allocator
//   - Checkpoint/Rewind pops every chunk acquired after the checkpoint
//   - Deallocate is a no-op; memory comes back through Rewind or DeallocateAll
//
// VirtualStackAllocator: bump allocator inside one reserved address range
//
//   - Address space is reserved up front, pages are committed on demand
//   - Rewind and DeallocateAll decommit pages past the restored cursor
//
// FallbackAllocator: routes requests to a primary allocator and retries on a
// fallback when the primary is exhausted. Deallocate is routed by ownership.
//
// ScopeAllocator: gives heterogeneous objects LIFO finalization on top of any
// rewindable allocator.
//
// PolymorphicAllocator: type-erasing wrapper exposing BaseAllocator, used to
// carry an allocator through a context.Context.
//
// # Usage Example
//
//	stack := alloc.NewStack(alloc.NewSystem(), 64<<10)
//	defer stack.DeallocateAll()
//
//	scope := alloc.NewScope[alloc.StackCheckpoint](stack)
//	defer scope.Close()
//
//	v, err := alloc.New(scope, Vec3{X: 1, Y: 2, Z: 3})
//	if err != nil {
//	    return err
//	}
//
// # Failure
//
// Exhaustion is reported as a nil block and never logged. Passing a foreign
// block to Deallocate, freeing twice or rewinding to a stale checkpoint is
// undefined; build with -tags allocdebug to turn these into panics.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must synchronize access
// externally.
//
// # Related Packages
//
//   - github.com/RDFacendola/Syntropy-sub008/memory: span and alignment primitives
//   - github.com/RDFacendola/Syntropy-sub008/alloc/metrics: Prometheus instrumentation
//   - github.com/RDFacendola/Syntropy-sub008/pkg/tiered: configured allocator tiers
package alloc
