package alloc

import (
	"github.com/RDFacendola/Syntropy-sub008/internal/buf"
	"github.com/RDFacendola/Syntropy-sub008/internal/check"
	"github.com/RDFacendola/Syntropy-sub008/internal/logger"
	"github.com/RDFacendola/Syntropy-sub008/memory"
)

// DefaultGranularity is the chunk size used when NewStack is given a
// non-positive granularity.
const DefaultGranularity = 64 << 10

// chunk is one backing block of a StackAllocator.
type chunk struct {
	block []byte // as returned by the underlying allocator
	free  int    // offset of the first unallocated byte in block
}

// bump carves size bytes aligned to align out of the unallocated tail of the
// chunk. Returns nil when the tail is too small.
func (c *chunk) bump(size int, align memory.Alignment) []byte {
	start := c.free + memory.Padding(memory.Address(c.block)+uintptr(c.free), align)
	if !buf.Has(c.block, start, size) {
		return nil
	}
	c.free = start + size
	return memory.Window(c.block, start, size)
}

// StackCheckpoint is a snapshot of a StackAllocator's progress.
// It stays valid until the chunk it references is released by a Rewind to an
// older checkpoint or by DeallocateAll.
type StackCheckpoint struct {
	depth int     // number of chunks held
	free  int     // free offset of the active chunk
	base  uintptr // address of the active chunk, for debug validation
}

// StackAllocator is a chunked bump allocator.
//
// Key characteristics:
//   - O(1) allocation: bump pointer inside the active chunk
//   - Chunks of at least granularity bytes are requested from the underlying
//     allocator on exhaustion and released through it on Rewind/DeallocateAll
//   - Deallocate of a single block is a no-op
//   - Checkpoint/Rewind give stack-like scopes without per-block frees
//
// Chunks are kept in a slice used as a stack; the last element is the active
// chunk and every element below it was active before it.
type StackAllocator[A Allocator] struct {
	under       A
	granularity int
	chunks      []chunk
}

// NewStack creates a StackAllocator drawing chunks from under.
//
// Parameters:
//   - under: The allocator chunks are requested from and released to
//   - granularity: Minimum chunk size in bytes (DefaultGranularity if <= 0)
func NewStack[A Allocator](under A, granularity int) *StackAllocator[A] {
	if granularity <= 0 {
		granularity = DefaultGranularity
	}
	return &StackAllocator[A]{
		under:       under,
		granularity: granularity,
	}
}

// Allocate bump-allocates size bytes aligned to align.
//
// When the active chunk cannot fit the request, a new chunk of
// max(granularity, size+align-1) bytes is requested from the underlying
// allocator and becomes the active chunk. If that request fails the
// allocator is left untouched and nil is returned.
func (s *StackAllocator[A]) Allocate(size int, align memory.Alignment) []byte {
	if size < 0 || !align.Valid() {
		return nil
	}

	if n := len(s.chunks); n > 0 {
		if block := s.chunks[n-1].bump(size, align); block != nil {
			return block
		}
	}

	if !s.grow(size, align) {
		return nil
	}
	return s.chunks[len(s.chunks)-1].bump(size, align)
}

// grow pushes a new chunk large enough for size bytes at any alignment.
func (s *StackAllocator[A]) grow(size int, align memory.Alignment) bool {
	need, ok := buf.PaddedSize(size, uintptr(align))
	if !ok {
		return false
	}
	n := max(s.granularity, need)

	block := s.under.Allocate(n, chunkAlignment)
	if block == nil {
		return false
	}
	s.chunks = append(s.chunks, chunk{block: block})

	if debugEnabled() {
		logger.L.Debug("stack: chunk acquired", sizeAttr("size", n), "chunks", len(s.chunks))
	}
	return true
}

// Deallocate is a no-op. Memory is reclaimed by Rewind or DeallocateAll.
// Passing a block that does not belong to this allocator is undefined.
func (s *StackAllocator[A]) Deallocate(block []byte, _ memory.Alignment) {
	if check.Enabled {
		check.That(s.Owns(block), "stack: deallocating a block not owned by this allocator")
	}
}

// DeallocateAll releases every chunk, newest first, through the underlying
// allocator. Every block and checkpoint obtained so far becomes invalid.
func (s *StackAllocator[A]) DeallocateAll() {
	for len(s.chunks) > 0 {
		s.pop()
	}
}

// pop releases the active chunk.
func (s *StackAllocator[A]) pop() {
	top := len(s.chunks) - 1
	block := s.chunks[top].block
	s.chunks[top] = chunk{}
	s.chunks = s.chunks[:top]

	s.under.Deallocate(block, chunkAlignment)

	if debugEnabled() {
		logger.L.Debug("stack: chunk released", sizeAttr("size", len(block)), "chunks", len(s.chunks))
	}
}

// Owns reports whether block lies within the allocated prefix of one of the
// chunks. Cost is linear in the number of chunks.
func (s *StackAllocator[A]) Owns(block []byte) bool {
	for i := range s.chunks {
		c := &s.chunks[i]
		if memory.Contains(c.block[:c.free], block) {
			return true
		}
	}
	return false
}

// Checkpoint snapshots the allocator's progress.
func (s *StackAllocator[A]) Checkpoint() StackCheckpoint {
	n := len(s.chunks)
	if n == 0 {
		return StackCheckpoint{}
	}
	top := &s.chunks[n-1]
	return StackCheckpoint{
		depth: n,
		free:  top.free,
		base:  memory.Address(top.block),
	}
}

// Rewind restores the state captured by checkpoint: every chunk acquired
// after it is released and the checkpointed chunk's free offset is restored.
// Rewinding to a checkpoint that is newer than the current state, or that
// was invalidated, is undefined.
func (s *StackAllocator[A]) Rewind(checkpoint StackCheckpoint) {
	if check.Enabled {
		check.That(checkpoint.depth <= len(s.chunks),
			"stack: rewind to depth %d with %d chunks", checkpoint.depth, len(s.chunks))
	}

	for len(s.chunks) > checkpoint.depth {
		s.pop()
	}
	if checkpoint.depth == 0 {
		return
	}

	top := &s.chunks[checkpoint.depth-1]
	if check.Enabled {
		check.That(memory.Address(top.block) == checkpoint.base, "stack: rewind to a released chunk")
		check.That(checkpoint.free <= top.free, "stack: rewind past the current cursor")
	}
	top.free = checkpoint.free
}

// Stats reports the allocator's memory usage. Heap-backed chunks are
// reported as fully committed.
func (s *StackAllocator[A]) Stats() Stats {
	var st Stats
	for i := range s.chunks {
		st.Allocated += s.chunks[i].free
		st.Reserved += len(s.chunks[i].block)
	}
	st.Committed = st.Reserved
	st.Blocks = len(s.chunks)
	return st
}

// Granularity returns the minimum chunk size.
func (s *StackAllocator[A]) Granularity() int {
	return s.granularity
}

// Underlying returns the allocator chunks are drawn from.
func (s *StackAllocator[A]) Underlying() A {
	return s.under
}

// Compile-time interface checks
var (
	_ OwningAllocator           = (*StackAllocator[*SystemAllocator])(nil)
	_ BulkDeallocator           = (*StackAllocator[*SystemAllocator])(nil)
	_ Rewinder[StackCheckpoint] = (*StackAllocator[*SystemAllocator])(nil)
	_ StatsReporter             = (*StackAllocator[*SystemAllocator])(nil)
)
