package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPolymorphicAllocator_Forwarding tests that calls reach the wrapped allocator.
func TestPolymorphicAllocator_Forwarding(t *testing.T) {
	rec := newRecording()
	p := NewPolymorphic(rec)

	block := p.Allocate(32, 8)
	require.NotNil(t, block)
	require.Len(t, rec.allocated, 1)

	p.Deallocate(block, 8)
	assert.Len(t, rec.deallocated, 1)
	assert.Same(t, rec, p.Underlying())
}

// TestPolymorphicAllocator_Heterogeneous tests that differently composed
// allocators share one dynamic type.
func TestPolymorphicAllocator_Heterogeneous(t *testing.T) {
	virtual := newTestVirtualStack(t, 1<<20, 0)

	allocators := []BaseAllocator{
		NewPolymorphic(NewSystem()),
		NewPolymorphic(NewStack(NewSystem(), 256)),
		NewPolymorphic(virtual),
		NewPolymorphic(NewFallback(NewStack(NewSystem(), 64), NewSystem())),
	}

	for i, a := range allocators {
		block := a.Allocate(100, 16)
		require.NotNil(t, block, "allocator %d", i)
		assert.Len(t, block, 100)
		a.Deallocate(block, 16)
	}
}

// TestContext_Default tests that a bare context yields the system allocator.
func TestContext_Default(t *testing.T) {
	a := FromContext(t.Context())
	require.NotNil(t, a)
	assert.Same(t, Default(), a)

	p, ok := a.(*PolymorphicAllocator[*SystemAllocator])
	require.True(t, ok, "Default should wrap the system allocator")
	assert.NotNil(t, p.Underlying())
}

// TestContext_WithAllocator tests installing and restoring the active allocator.
func TestContext_WithAllocator(t *testing.T) {
	outer := NewPolymorphic(NewStack(NewSystem(), 256))
	inner := NewPolymorphic(newRecording())

	base := t.Context()
	ctx := WithAllocator(base, outer)
	assert.Same(t, outer, FromContext(ctx))

	nested := WithAllocator(ctx, inner)
	assert.Same(t, inner, FromContext(nested))

	// Leaving the nested scope restores the previous allocator.
	assert.Same(t, outer, FromContext(ctx))
	assert.Same(t, Default(), FromContext(base))

	// Allocating through the context reaches the installed allocator.
	block := FromContext(nested).Allocate(16, 8)
	require.NotNil(t, block)
	assert.Len(t, inner.Underlying().allocated, 1)
}

// TestContext_NilAllocator tests that installing nil falls back to the default.
func TestContext_NilAllocator(t *testing.T) {
	ctx := WithAllocator(t.Context(), nil)
	assert.Same(t, Default(), FromContext(ctx))
}
