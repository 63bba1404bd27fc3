package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RDFacendola/Syntropy-sub008/internal/vmem"
	"github.com/RDFacendola/Syntropy-sub008/memory"
)

// TestFallbackAllocator_Routing tests that requests the primary cannot hold
// are served by the fallback and freed through it.
func TestFallbackAllocator_Routing(t *testing.T) {
	capacity := vmem.PageSize()
	primary := newTestVirtualStack(t, capacity, 0)
	fallback := newRecording()
	f := NewFallback(primary, fallback)

	big := f.Allocate(capacity+1, 8)
	require.NotNil(t, big, "Oversized request should fall back")
	assert.False(t, primary.Owns(big))
	assert.True(t, fallback.Owns(big))
	assert.True(t, f.Owns(big))

	small := f.Allocate(capacity, 8)
	require.NotNil(t, small, "Request of exactly the primary capacity should fit")
	assert.True(t, primary.Owns(small))
	assert.Len(t, fallback.allocated, 1, "Primary hit should not touch the fallback")

	f.Deallocate(big, 8)
	require.Len(t, fallback.deallocated, 1, "Fallback block should be freed by the fallback")
	assert.Equal(t, memory.Address(big), memory.Address(fallback.deallocated[0]))

	f.Deallocate(small, 8)
	assert.Len(t, fallback.deallocated, 1, "Primary block should not reach the fallback")
	assert.True(t, primary.Owns(small))
}

// TestFallbackAllocator_PrimaryExhausted tests spilling once the primary is full.
func TestFallbackAllocator_PrimaryExhausted(t *testing.T) {
	page := vmem.PageSize()
	primary := newTestVirtualStack(t, page, 0)
	fallback := newRecording()
	f := NewFallback(primary, fallback)

	for range page / 64 {
		require.NotNil(t, f.Allocate(64, 8))
	}
	assert.Empty(t, fallback.allocated)

	spilled := f.Allocate(64, 8)
	require.NotNil(t, spilled)
	assert.True(t, fallback.Owns(spilled))
}

// TestFallbackAllocator_BothExhausted tests that nil is returned when
// neither side can serve.
func TestFallbackAllocator_BothExhausted(t *testing.T) {
	primary := newTestVirtualStack(t, vmem.PageSize(), 0)
	fallback := newRecording()
	fallback.limit = 0
	f := NewFallback(primary, fallback)

	assert.Nil(t, f.Allocate(2*vmem.PageSize(), 8))
}

// TestFallbackAllocator_SecondaryOwns tests routing by the fallback's
// ownership when the primary cannot tell its blocks apart.
func TestFallbackAllocator_SecondaryOwns(t *testing.T) {
	primaryRec := newRecording()
	primaryRec.limit = 1
	fallback := newRecording()
	f := NewFallbackSecondaryOwns(plainAllocator{primaryRec}, fallback)

	a := f.Allocate(32, 8)
	b := f.Allocate(32, 8)
	require.NotNil(t, a)
	require.NotNil(t, b)
	require.True(t, fallback.Owns(b), "Second request should spill to the fallback")

	f.Deallocate(a, 8)
	f.Deallocate(b, 8)

	require.Len(t, primaryRec.deallocated, 1)
	require.Len(t, fallback.deallocated, 1)
	assert.Equal(t, memory.Address(a), memory.Address(primaryRec.deallocated[0]))
	assert.Equal(t, memory.Address(b), memory.Address(fallback.deallocated[0]))

	assert.False(t, f.Supports(CapOwns))
	requirePanicsWith(t, ErrUnsupported, func() { f.Owns(a) })
}

// TestFallbackAllocator_OwnsDisjunction tests that Owns reports blocks of
// either side.
func TestFallbackAllocator_OwnsDisjunction(t *testing.T) {
	primary := NewStack(NewSystem(), 64)
	fallback := newRecording()
	f := NewFallback(primary, fallback)

	a := f.Allocate(32, 8)
	b := f.Allocate(128, 8) // served by a fresh, larger chunk of the stack
	require.NotNil(t, a)
	require.NotNil(t, b)

	external := fallback.Allocate(16, 8)
	require.NotNil(t, external)

	assert.True(t, f.Owns(a))
	assert.True(t, f.Owns(b))
	assert.True(t, f.Owns(external))
	assert.False(t, f.Owns(make([]byte, 8)))
}

// TestFallbackAllocator_Capabilities tests capability reporting and the
// panics raised when a side lacks one.
func TestFallbackAllocator_Capabilities(t *testing.T) {
	t.Run("both capable", func(t *testing.T) {
		primary := newTestVirtualStack(t, vmem.PageSize(), 0)
		fallback := NewStack(NewSystem(), 256)
		f := NewFallback(primary, fallback)

		assert.True(t, f.Supports(CapOwns))
		assert.True(t, f.Supports(CapDeallocateAll))
		assert.True(t, f.Supports(CapOwns|CapDeallocateAll))

		require.NotNil(t, f.Allocate(64, 8))
		require.NotNil(t, f.Allocate(2*vmem.PageSize(), 8))

		f.DeallocateAll()
		assert.Equal(t, 0, primary.Stats().Allocated)
		assert.Equal(t, 0, fallback.Stats().Blocks)
	})

	t.Run("fallback lacks both", func(t *testing.T) {
		f := NewFallback(NewStack(NewSystem(), 256), NewSystem())

		assert.False(t, f.Supports(CapOwns))
		assert.False(t, f.Supports(CapDeallocateAll))

		block := f.Allocate(8, 8)
		require.NotNil(t, block)

		requirePanicsWith(t, ErrUnsupported, func() { f.Owns(block) })
		requirePanicsWith(t, ErrUnsupported, func() { f.DeallocateAll() })

		// Routing still works through the primary's ownership.
		f.Deallocate(block, 8)
	})

	t.Run("owner without bulk release", func(t *testing.T) {
		fallback := newRecording()
		f := NewFallback(NewStack(NewSystem(), 256), struct{ OwningAllocator }{fallback})

		assert.True(t, f.Supports(CapOwns))
		assert.False(t, f.Supports(CapDeallocateAll))
		requirePanicsWith(t, ErrUnsupported, func() { f.DeallocateAll() })
	})
}

// TestFallbackAllocator_Accessors tests Primary and Fallback.
func TestFallbackAllocator_Accessors(t *testing.T) {
	primary := NewStack(NewSystem(), 64)
	fallback := NewSystem()
	f := NewFallback(primary, fallback)

	assert.Same(t, primary, f.Primary())
	assert.Same(t, fallback, f.Fallback())
}

func TestCapability_String(t *testing.T) {
	assert.Equal(t, "Owns", CapOwns.String())
	assert.Equal(t, "DeallocateAll", CapDeallocateAll.String())
	assert.Equal(t, "Capability(3)", (CapOwns | CapDeallocateAll).String())
}
