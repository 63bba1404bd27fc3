// Package buf provides overflow-safe size arithmetic for allocation requests.
package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies two non-negative values, returning ok = false when
// the result would overflow int or either operand is negative.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// PaddedSize returns size plus the worst-case padding needed to align a block
// of that size at an arbitrary address (align-1 bytes).
func PaddedSize(size int, align uintptr) (int, bool) {
	if size < 0 || align == 0 || align > math.MaxInt {
		return 0, false
	}
	return AddOverflowSafe(size, int(align)-1)
}

// ArraySize validates count elements of elemSize bytes and returns the total
// size. Returns an error describing the specific failure.
//
//	n, err := buf.ArraySize(count, int(unsafe.Sizeof(zero)))
//	if err != nil {
//	    return fmt.Errorf("make slice: %w", err)
//	}
func ArraySize(count, elemSize int) (int, error) {
	if count < 0 {
		return 0, fmt.Errorf("negative count: %d", count)
	}
	if elemSize < 0 {
		return 0, fmt.Errorf("negative element size: %d", elemSize)
	}
	total, ok := MulOverflowSafe(count, elemSize)
	if !ok {
		return 0, fmt.Errorf("overflow: count=%d * elemSize=%d", count, elemSize)
	}
	return total, nil
}

// Has reports whether n bytes starting at off fit within b.
// Allocators use it to test whether a bump at off can hold a request.
func Has(b []byte, off, n int) bool {
	return off >= 0 && n >= 0 && off <= len(b) && n <= len(b)-off
}
