package alloc

import (
	"fmt"

	"github.com/RDFacendola/Syntropy-sub008/memory"
)

// Capability names an optional allocator interface.
type Capability uint8

const (
	// CapOwns is the Owner interface.
	CapOwns Capability = 1 << iota

	// CapDeallocateAll is the BulkDeallocator interface.
	CapDeallocateAll
)

func (c Capability) String() string {
	switch c {
	case CapOwns:
		return "Owns"
	case CapDeallocateAll:
		return "DeallocateAll"
	default:
		return fmt.Sprintf("Capability(%d)", uint8(c))
	}
}

// capabilities returns the optional interfaces a implements.
func capabilities(a any) Capability {
	var c Capability
	if _, ok := a.(Owner); ok {
		c |= CapOwns
	}
	if _, ok := a.(BulkDeallocator); ok {
		c |= CapDeallocateAll
	}
	return c
}

// FallbackAllocator tries a primary allocator first and retries on a
// fallback allocator when the primary returns nil.
//
// Deallocate must know which side produced a block, so at least one side
// has to implement Owner. This is enforced by the constructors' type
// constraints: NewFallback routes by primary ownership and
// NewFallbackSecondaryOwns routes by inverted fallback ownership. There is no
// constructor for two non-owning allocators.
//
// Owns and DeallocateAll exist on every FallbackAllocator but need both
// sides to implement Owner and BulkDeallocator respectively. Calling them on
// a composite that lacks the capability panics with an error wrapping
// ErrUnsupported; check Supports first when the sides are not known
// statically.
//
// The ownership partitions of the two sides must be disjoint.
type FallbackAllocator[P, F Allocator] struct {
	primary   P
	fallback  F
	inPrimary func(block []byte) bool
	caps      Capability // capabilities supported by both sides
}

// NewFallback composes primary and fallback, routing Deallocate by the
// primary's ownership.
func NewFallback[P OwningAllocator, F Allocator](primary P, fallback F) *FallbackAllocator[P, F] {
	f := &FallbackAllocator[P, F]{
		primary:  primary,
		fallback: fallback,
		caps:     capabilities(primary) & capabilities(fallback),
	}
	f.inPrimary = func(block []byte) bool {
		return f.primary.Owns(block)
	}
	return f
}

// NewFallbackSecondaryOwns composes primary and fallback, routing Deallocate
// by the fallback's ownership: blocks the fallback does not own go back to the
// primary.
func NewFallbackSecondaryOwns[P Allocator, F OwningAllocator](primary P, fallback F) *FallbackAllocator[P, F] {
	f := &FallbackAllocator[P, F]{
		primary:  primary,
		fallback: fallback,
		caps:     capabilities(primary) & capabilities(fallback),
	}
	f.inPrimary = func(block []byte) bool {
		return !f.fallback.Owns(block)
	}
	return f
}

// Allocate tries the primary allocator, then the fallback.
func (f *FallbackAllocator[P, F]) Allocate(size int, align memory.Alignment) []byte {
	if block := f.primary.Allocate(size, align); block != nil {
		return block
	}
	return f.fallback.Allocate(size, align)
}

// Deallocate returns block to whichever side owns it.
func (f *FallbackAllocator[P, F]) Deallocate(block []byte, align memory.Alignment) {
	if f.inPrimary(block) {
		f.primary.Deallocate(block, align)
		return
	}
	f.fallback.Deallocate(block, align)
}

// Supports reports whether both sides implement capability c, which is
// required by the composite's Owns and DeallocateAll.
func (f *FallbackAllocator[P, F]) Supports(c Capability) bool {
	return f.caps&c == c
}

// Owns reports whether either side owns block.
//
// Both sides must implement Owner; otherwise Owns panics with an error
// wrapping ErrUnsupported.
func (f *FallbackAllocator[P, F]) Owns(block []byte) bool {
	f.require(CapOwns)
	return any(f.primary).(Owner).Owns(block) || any(f.fallback).(Owner).Owns(block)
}

// DeallocateAll releases every block on both sides.
//
// Both sides must implement BulkDeallocator; otherwise DeallocateAll panics
// with an error wrapping ErrUnsupported.
func (f *FallbackAllocator[P, F]) DeallocateAll() {
	f.require(CapDeallocateAll)
	any(f.primary).(BulkDeallocator).DeallocateAll()
	any(f.fallback).(BulkDeallocator).DeallocateAll()
}

func (f *FallbackAllocator[P, F]) require(c Capability) {
	if !f.Supports(c) {
		panic(fmt.Errorf("%w: fallback %s requires both allocators to support it", ErrUnsupported, c))
	}
}

// Primary returns the primary allocator.
func (f *FallbackAllocator[P, F]) Primary() P {
	return f.primary
}

// Fallback returns the fallback allocator.
func (f *FallbackAllocator[P, F]) Fallback() F {
	return f.fallback
}

// Compile-time interface check
var _ Allocator = (*FallbackAllocator[*StackAllocator[*SystemAllocator], *SystemAllocator])(nil)
