// Package vmem wraps the operating system's virtual-memory primitives.
//
// A region moves through three states:
//
//   - Reserved: address space owned by the process; touching it faults.
//   - Committed: backed by physical memory and readable/writable.
//   - Released: returned to the operating system.
//
// Reserve hands out a reserved region as a []byte. Commit and Decommit move
// page-aligned sub-spans of that region between the first two states, and
// Release returns the whole region. The region slice itself must be passed to
// Release unmodified.
//
// On unix the region is an anonymous PROT_NONE mapping toggled with
// mprotect/madvise; on Windows it is a VirtualAlloc reservation. Elsewhere the
// region is ordinary heap memory and commit/decommit only zero it.
package vmem

import (
	"errors"
	"fmt"
	"os"

	"github.com/RDFacendola/Syntropy-sub008/memory"
)

var (
	// ErrBadSize indicates a non-positive reservation size.
	ErrBadSize = errors.New("vmem: size must be positive")

	// ErrUnaligned indicates a span that does not start on a page boundary.
	ErrUnaligned = errors.New("vmem: span is not page aligned")
)

var pageSize = os.Getpagesize()

// PageSize returns the operating system page size in bytes.
func PageSize() int {
	return pageSize
}

// Ceil rounds n up to a whole number of pages.
func Ceil(n int) int {
	return memory.CeilTo(n, pageSize)
}

// Reserve reserves n bytes of address space, rounded up to the page size.
// The returned region is not accessible until committed.
func Reserve(n int) ([]byte, error) {
	if n <= 0 {
		return nil, ErrBadSize
	}
	region, err := reserve(Ceil(n))
	if err != nil {
		return nil, fmt.Errorf("vmem: reserve %d bytes: %w", n, err)
	}
	return region, nil
}

// Commit backs span with physical memory, making it readable and writable.
// span must start on a page boundary; its length is rounded up to whole pages
// by the operating system.
func Commit(span []byte) error {
	if len(span) == 0 {
		return nil
	}
	if !memory.IsAligned(memory.Address(span), memory.Alignment(pageSize)) {
		return ErrUnaligned
	}
	if err := commit(span); err != nil {
		return fmt.Errorf("vmem: commit %d bytes: %w", len(span), err)
	}
	return nil
}

// Decommit returns the physical memory backing span to the operating system
// while keeping the address range reserved.
func Decommit(span []byte) error {
	if len(span) == 0 {
		return nil
	}
	if !memory.IsAligned(memory.Address(span), memory.Alignment(pageSize)) {
		return ErrUnaligned
	}
	if err := decommit(span); err != nil {
		return fmt.Errorf("vmem: decommit %d bytes: %w", len(span), err)
	}
	return nil
}

// Release returns a region obtained from Reserve to the operating system.
// Releasing a nil region is a no-op.
func Release(region []byte) error {
	if region == nil {
		return nil
	}
	if err := release(region); err != nil {
		return fmt.Errorf("vmem: release: %w", err)
	}
	return nil
}
