package memory

import "unsafe"

// Address returns the address of the first byte of b, or 0 for a nil span.
// Zero-length spans that are not nil still report the address they point at.
func Address(b []byte) uintptr {
	if b == nil {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// End returns the address one past the last byte of b.
func End(b []byte) uintptr {
	return Address(b) + uintptr(len(b))
}

// Contains reports whether inner lies entirely within outer. A nil inner span
// is never contained.
func Contains(outer, inner []byte) bool {
	if inner == nil || outer == nil {
		return false
	}
	return Address(inner) >= Address(outer) && End(inner) <= End(outer)
}

// Window returns b[off:off+n] with its capacity clamped to n, so that appends
// to the window can never write past it.
func Window(b []byte, off, n int) []byte {
	end := off + n
	return b[off:end:end]
}
