package alloc

import "github.com/RDFacendola/Syntropy-sub008/memory"

// Allocator is the capability every allocator provides and every composing
// allocator requires of its parameters.
type Allocator interface {
	// Allocate returns a block of exactly size bytes whose first byte is
	// aligned to align, or nil if the request cannot be satisfied.
	// The block's capacity equals its length.
	Allocate(size int, align memory.Alignment) []byte

	// Deallocate returns a block obtained from Allocate with the same
	// alignment. Passing any other block is undefined.
	Deallocate(block []byte, align memory.Alignment)
}

// Owner is implemented by allocators that can tell whether a block belongs
// to them. Composite allocators use it to route deallocations.
type Owner interface {
	Owns(block []byte) bool
}

// OwningAllocator is an Allocator that implements Owner.
type OwningAllocator interface {
	Allocator
	Owner
}

// BulkDeallocator is implemented by allocators that can release every
// outstanding block in one call.
type BulkDeallocator interface {
	DeallocateAll()
}

// Rewinder is an Allocator whose state can be captured and later restored.
// Rewinding releases every block allocated after the checkpoint was taken.
type Rewinder[C any] interface {
	Allocator
	Checkpoint() C
	Rewind(checkpoint C)
}

// StatsReporter is implemented by allocators that track their memory usage.
type StatsReporter interface {
	Stats() Stats
}

// chunkAlignment is the alignment used for backing blocks an allocator
// requests on its own behalf.
const chunkAlignment = memory.MaxAlignment
