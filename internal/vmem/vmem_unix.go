//go:build unix

package vmem

import (
	"errors"

	"golang.org/x/sys/unix"
)

func reserve(n int) ([]byte, error) {
	return unix.Mmap(-1, 0, n, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
}

func commit(span []byte) error {
	return unix.Mprotect(span, unix.PROT_READ|unix.PROT_WRITE)
}

// decommit drops the pages first so the kernel can reclaim them, then revokes
// access so stray touches fault instead of silently re-faulting zero pages.
func decommit(span []byte) error {
	if err := unix.Madvise(span, unix.MADV_DONTNEED); err != nil {
		return err
	}
	return unix.Mprotect(span, unix.PROT_NONE)
}

func release(region []byte) error {
	err := unix.Munmap(region)
	if errors.Is(err, unix.EINVAL) {
		// Treat double-release as no-op for callers.
		return nil
	}
	return err
}
