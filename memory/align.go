// Package memory provides the byte-span and alignment primitives shared by
// the allocators: alignment values, address arithmetic and span containment.
//
// A span is a plain []byte describing the half-open range
// [Address(b), Address(b)+len(b)). Spans never own their memory.
package memory

import "unsafe"

// Alignment is a power-of-two byte boundary.
type Alignment uintptr

// MaxAlignment is the alignment of the most strictly aligned scalar type.
// Allocators use it for backing blocks they request on their own behalf.
const MaxAlignment Alignment = 16

// AlignOf returns the natural alignment of T.
func AlignOf[T any]() Alignment {
	var zero T
	return Alignment(unsafe.Alignof(zero))
}

// SizeOf returns the size in bytes of T.
func SizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Valid reports whether a is a non-zero power of two.
func (a Alignment) Valid() bool {
	return a != 0 && a&(a-1) == 0
}

// Mask returns a-1.
func (a Alignment) Mask() uintptr {
	return uintptr(a) - 1
}

// AlignUp returns addr rounded up to the next multiple of a.
//
// Example:
//
//	AlignUp(1, 8)  = 8
//	AlignUp(8, 8)  = 8
//	AlignUp(9, 8)  = 16
func AlignUp(addr uintptr, a Alignment) uintptr {
	return (addr + a.Mask()) &^ a.Mask()
}

// Padding returns how many bytes must be skipped from addr to reach the next
// multiple of a.
func Padding(addr uintptr, a Alignment) int {
	return int(AlignUp(addr, a) - addr)
}

// IsAligned reports whether addr is a multiple of a.
func IsAligned(addr uintptr, a Alignment) bool {
	return addr&a.Mask() == 0
}

// CeilTo rounds n up to the next multiple of m. m must be positive.
//
// Example:
//
//	CeilTo(1, 4096)    = 4096
//	CeilTo(4096, 4096) = 4096
//	CeilTo(4097, 4096) = 8192
func CeilTo(n, m int) int {
	if r := n % m; r != 0 {
		return n + m - r
	}
	return n
}
