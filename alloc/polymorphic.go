package alloc

import "github.com/RDFacendola/Syntropy-sub008/memory"

// BaseAllocator is the type-erased allocator handle stored wherever the
// concrete allocator type must not leak, such as the active allocator of a
// context.
type BaseAllocator interface {
	Allocator
}

// PolymorphicAllocator adapts a concrete allocator to BaseAllocator.
//
// Generic composites such as StackAllocator[A] are monomorphized over their
// parameters; PolymorphicAllocator is the explicit point where a composition
// is erased to a single dynamic interface.
type PolymorphicAllocator[A Allocator] struct {
	impl A
}

// NewPolymorphic wraps impl.
func NewPolymorphic[A Allocator](impl A) *PolymorphicAllocator[A] {
	return &PolymorphicAllocator[A]{impl: impl}
}

// Allocate forwards to the wrapped allocator.
func (p *PolymorphicAllocator[A]) Allocate(size int, align memory.Alignment) []byte {
	return p.impl.Allocate(size, align)
}

// Deallocate forwards to the wrapped allocator.
func (p *PolymorphicAllocator[A]) Deallocate(block []byte, align memory.Alignment) {
	p.impl.Deallocate(block, align)
}

// Underlying returns the wrapped allocator.
func (p *PolymorphicAllocator[A]) Underlying() A {
	return p.impl
}

var _ BaseAllocator = (*PolymorphicAllocator[*SystemAllocator])(nil)
