package alloc

import (
	"fmt"

	"github.com/RDFacendola/Syntropy-sub008/internal/buf"
	"github.com/RDFacendola/Syntropy-sub008/internal/check"
	"github.com/RDFacendola/Syntropy-sub008/internal/logger"
	"github.com/RDFacendola/Syntropy-sub008/internal/vmem"
	"github.com/RDFacendola/Syntropy-sub008/memory"
)

// pager commits and decommits page-aligned spans of a reserved region.
type pager interface {
	Commit(span []byte) error
	Decommit(span []byte) error
}

// osPager forwards to the operating system.
type osPager struct{}

func (osPager) Commit(span []byte) error   { return vmem.Commit(span) }
func (osPager) Decommit(span []byte) error { return vmem.Decommit(span) }

// VirtualCheckpoint is a snapshot of a VirtualStackAllocator's cursors.
type VirtualCheckpoint struct {
	unallocated int
	uncommitted int
}

// VirtualStackAllocator is a bump allocator growing inside a single reserved
// virtual address range.
//
// The region is laid out as
//
//	[ allocated | unallocated ]     <- unallocated cursor
//	[ committed | uncommitted ]     <- uncommitted cursor
//
// Allocate commits whole granules ahead of the unallocated cursor as needed,
// so physical memory tracks the high-water mark instead of the reservation.
// Rewind and DeallocateAll decommit everything past the restored cursor.
type VirtualStackAllocator struct {
	region      []byte // reserved address range, nil after Close
	granularity int    // commit granularity, a multiple of the page size
	unallocated int    // offset of the first unallocated byte
	uncommitted int    // offset of the first uncommitted byte
	pages       pager
}

// NewVirtualStack reserves capacity bytes of address space.
//
// Parameters:
//   - capacity: Bytes of address space to reserve (rounded up to the page size)
//   - granularity: Commit granularity (rounded up to the page size; one page if <= 0)
//
// Returns an error wrapping ErrBadArgument for a non-positive capacity and
// ErrReserve if the reservation fails.
func NewVirtualStack(capacity, granularity int) (*VirtualStackAllocator, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity %d", ErrBadArgument, capacity)
	}
	if granularity <= 0 {
		granularity = vmem.PageSize()
	}

	region, err := vmem.Reserve(capacity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReserve, err)
	}

	v := &VirtualStackAllocator{
		region:      region,
		granularity: vmem.Ceil(granularity),
		pages:       osPager{},
	}

	if debugEnabled() {
		logger.L.Debug("virtual stack: reserved",
			sizeAttr("capacity", len(region)), sizeAttr("granularity", v.granularity))
	}
	return v, nil
}

// fit computes where a block of size bytes aligned to align would land.
func (v *VirtualStackAllocator) fit(size int, align memory.Alignment) (start, end int, ok bool) {
	if v.region == nil || size < 0 || !align.Valid() {
		return 0, 0, false
	}
	start = v.unallocated + memory.Padding(memory.Address(v.region)+uintptr(v.unallocated), align)
	if !buf.Has(v.region, start, size) {
		return 0, 0, false
	}
	return start, start + size, true
}

// Allocate bump-allocates size bytes aligned to align, committing whole
// granules first if the block extends past the committed prefix. A commit
// failure leaves the allocator untouched and returns nil.
func (v *VirtualStackAllocator) Allocate(size int, align memory.Alignment) []byte {
	start, end, ok := v.fit(size, align)
	if !ok {
		return nil
	}
	if end > v.uncommitted && !v.commit(end) {
		return nil
	}
	v.unallocated = end
	return memory.Window(v.region, start, size)
}

// commit extends the committed prefix to cover offset end.
func (v *VirtualStackAllocator) commit(end int) bool {
	target := min(memory.CeilTo(end, v.granularity), len(v.region))
	if err := v.pages.Commit(v.region[v.uncommitted:target]); err != nil {
		return false
	}

	if debugEnabled() {
		logger.L.Debug("virtual stack: committed",
			sizeAttr("size", target-v.uncommitted), sizeAttr("committed", target))
	}
	v.uncommitted = target
	return true
}

// decommit shrinks the committed prefix back to offset end.
func (v *VirtualStackAllocator) decommit(end int) {
	if end >= v.uncommitted {
		return
	}
	if err := v.pages.Decommit(v.region[end:v.uncommitted]); err != nil {
		// The pages stay resident; a later commit over them is harmless.
		logger.L.Warn("virtual stack: decommit failed", "error", err)
	} else if debugEnabled() {
		logger.L.Debug("virtual stack: decommitted",
			sizeAttr("size", v.uncommitted-end), sizeAttr("committed", end))
	}
	v.uncommitted = end
}

// Reserve bumps the cursor by size bytes aligned to align without committing
// them. The caller must make sure the pages are committed before touching
// the block, either through vmem or through a later Allocate that extends
// past it. Returns nil if the reservation cannot fit.
func (v *VirtualStackAllocator) Reserve(size int, align memory.Alignment) []byte {
	start, end, ok := v.fit(size, align)
	if !ok {
		return nil
	}
	v.unallocated = end
	return memory.Window(v.region, start, size)
}

// Deallocate is a no-op. Memory is reclaimed by Rewind or DeallocateAll.
func (v *VirtualStackAllocator) Deallocate(block []byte, _ memory.Alignment) {
	if check.Enabled {
		check.That(v.Owns(block), "virtual stack: deallocating a block not owned by this allocator")
	}
}

// DeallocateAll decommits every committed page and resets both cursors to
// the start of the region. Every block and checkpoint becomes invalid.
func (v *VirtualStackAllocator) DeallocateAll() {
	v.decommit(0)
	v.unallocated = 0
}

// Owns reports whether block lies within the allocated prefix.
func (v *VirtualStackAllocator) Owns(block []byte) bool {
	if v.region == nil {
		return false
	}
	return memory.Contains(v.region[:v.unallocated], block)
}

// Checkpoint snapshots both cursors.
func (v *VirtualStackAllocator) Checkpoint() VirtualCheckpoint {
	return VirtualCheckpoint{
		unallocated: v.unallocated,
		uncommitted: v.uncommitted,
	}
}

// Rewind restores both cursors, decommitting every page committed after the
// checkpoint was taken. Rewinding to a newer or invalidated checkpoint is
// undefined.
func (v *VirtualStackAllocator) Rewind(checkpoint VirtualCheckpoint) {
	if check.Enabled {
		check.That(checkpoint.unallocated <= v.unallocated, "virtual stack: rewind past the current cursor")
		check.That(checkpoint.uncommitted <= v.uncommitted, "virtual stack: rewind to decommitted pages")
	}
	v.decommit(checkpoint.uncommitted)
	v.unallocated = checkpoint.unallocated
}

// Close releases the reserved address range. Every block becomes invalid and
// further allocations fail. Closing twice is a no-op.
func (v *VirtualStackAllocator) Close() error {
	if v.region == nil {
		return nil
	}
	region := v.region
	v.region, v.unallocated, v.uncommitted = nil, 0, 0

	if err := vmem.Release(region); err != nil {
		return err
	}
	if debugEnabled() {
		logger.L.Debug("virtual stack: released", sizeAttr("capacity", len(region)))
	}
	return nil
}

// Stats reports the allocator's memory usage.
func (v *VirtualStackAllocator) Stats() Stats {
	st := Stats{
		Allocated: v.unallocated,
		Reserved:  len(v.region),
		Committed: v.uncommitted,
	}
	if v.region != nil {
		st.Blocks = 1
	}
	return st
}

// Capacity returns the number of reserved bytes.
func (v *VirtualStackAllocator) Capacity() int {
	return len(v.region)
}

// Granularity returns the commit granularity.
func (v *VirtualStackAllocator) Granularity() int {
	return v.granularity
}

// Compile-time interface checks
var (
	_ OwningAllocator             = (*VirtualStackAllocator)(nil)
	_ BulkDeallocator             = (*VirtualStackAllocator)(nil)
	_ Rewinder[VirtualCheckpoint] = (*VirtualStackAllocator)(nil)
	_ StatsReporter               = (*VirtualStackAllocator)(nil)
)
