package alloc

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/RDFacendola/Syntropy-sub008/memory"
)

// ============================================================================
// Test Allocators
// ============================================================================

// recordingAllocator is a heap-backed allocator that records every block it
// hands out and every block returned to it. It optionally refuses requests
// once limit allocations were served (limit < 0 means unlimited).
type recordingAllocator struct {
	sys         SystemAllocator
	live        [][]byte
	allocated   [][]byte
	deallocated [][]byte
	limit       int
}

func newRecording() *recordingAllocator {
	return &recordingAllocator{limit: -1}
}

func (r *recordingAllocator) Allocate(size int, align memory.Alignment) []byte {
	if r.limit >= 0 && len(r.allocated) >= r.limit {
		return nil
	}
	block := r.sys.Allocate(size, align)
	if block == nil {
		return nil
	}
	r.allocated = append(r.allocated, block)
	r.live = append(r.live, block)
	return block
}

func (r *recordingAllocator) Deallocate(block []byte, _ memory.Alignment) {
	r.deallocated = append(r.deallocated, block)
	for i, b := range r.live {
		if memory.Address(b) == memory.Address(block) {
			r.live = append(r.live[:i], r.live[i+1:]...)
			return
		}
	}
}

func (r *recordingAllocator) Owns(block []byte) bool {
	for _, b := range r.live {
		if memory.Contains(b, block) {
			return true
		}
	}
	return false
}

func (r *recordingAllocator) DeallocateAll() {
	r.deallocated = append(r.deallocated, r.live...)
	r.live = nil
}

// lastAllocated returns the most recent block handed out.
func (r *recordingAllocator) lastAllocated() []byte {
	if len(r.allocated) == 0 {
		return nil
	}
	return r.allocated[len(r.allocated)-1]
}

// plainAllocator hides every optional capability of the wrapped allocator.
type plainAllocator struct {
	Allocator
}

// spyPager records commit/decommit traffic and can be told to fail.
type spyPager struct {
	inner         pager
	committed     [][]byte
	decommitted   [][]byte
	failCommit    bool
	failDecommits bool
}

var errInjected = errors.New("injected failure")

func (p *spyPager) Commit(span []byte) error {
	if p.failCommit {
		return errInjected
	}
	p.committed = append(p.committed, span)
	return p.inner.Commit(span)
}

func (p *spyPager) Decommit(span []byte) error {
	if p.failDecommits {
		return errInjected
	}
	p.decommitted = append(p.decommitted, span)
	return p.inner.Decommit(span)
}

// ============================================================================
// Construction Utilities
// ============================================================================

// newTestVirtualStack reserves capacity bytes and closes the allocator when
// the test ends.
func newTestVirtualStack(t testing.TB, capacity, granularity int) *VirtualStackAllocator {
	t.Helper()

	v, err := NewVirtualStack(capacity, granularity)
	require.NoError(t, err, "NewVirtualStack should not error")
	t.Cleanup(func() {
		require.NoError(t, v.Close())
	})
	return v
}

// spyOn replaces the allocator's pager with a recording one.
func spyOn(v *VirtualStackAllocator) *spyPager {
	spy := &spyPager{inner: v.pages}
	v.pages = spy
	return spy
}

// ============================================================================
// Assertion Utilities
// ============================================================================

// bytesOf views the memory of *p as a byte span.
func bytesOf[T any](p *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), unsafe.Sizeof(*p))
}

// requirePanicsWith runs fn and requires it to panic with an error matching target.
func requirePanicsWith(t *testing.T, target error, fn func()) {
	t.Helper()

	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %T", r)
		require.ErrorIs(t, err, target)
	}()
	fn()
}

// overlaps reports whether a and b share at least one byte.
func overlaps(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	return memory.Address(a) < memory.End(b) && memory.Address(b) < memory.End(a)
}

// requireDisjointIncreasing checks that blocks are pairwise disjoint and
// strictly increasing in address.
func requireDisjointIncreasing(t *testing.T, blocks [][]byte) {
	t.Helper()

	for i := 1; i < len(blocks); i++ {
		prev, cur := blocks[i-1], blocks[i]
		require.Greater(t, memory.Address(cur), memory.Address(prev), "block %d should follow block %d", i, i-1)
		require.GreaterOrEqual(t, memory.Address(cur), memory.End(prev), "block %d overlaps block %d", i, i-1)
	}
}
