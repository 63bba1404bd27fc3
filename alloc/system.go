package alloc

import (
	"github.com/RDFacendola/Syntropy-sub008/internal/buf"
	"github.com/RDFacendola/Syntropy-sub008/memory"
)

// SystemAllocator is the leaf allocator: a thin wrapper over the Go heap.
//
// Blocks are carved out of an over-allocated byte slice so that any
// power-of-two alignment can be honoured. Deallocate drops the block and the
// runtime reclaims it once it is no longer referenced. SystemAllocator is
// stateless and does not implement Owner.
type SystemAllocator struct{}

// NewSystem returns a SystemAllocator.
func NewSystem() *SystemAllocator {
	return &SystemAllocator{}
}

// Allocate returns a zeroed block of size bytes aligned to align, or nil if
// the arguments are invalid or the heap refuses the request.
func (*SystemAllocator) Allocate(size int, align memory.Alignment) (block []byte) {
	if size < 0 || !align.Valid() {
		return nil
	}
	n, ok := buf.PaddedSize(size, uintptr(align))
	if !ok {
		return nil
	}

	// make panics on lengths the runtime cannot represent.
	defer func() {
		if recover() != nil {
			block = nil
		}
	}()
	raw := make([]byte, n)

	pad := memory.Padding(memory.Address(raw), align)
	return memory.Window(raw, pad, size)
}

// Deallocate is a no-op: the runtime reclaims unreferenced blocks.
func (*SystemAllocator) Deallocate([]byte, memory.Alignment) {}

// Compile-time interface check
var _ Allocator = (*SystemAllocator)(nil)
