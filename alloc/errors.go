package alloc

import "errors"

var (
	// ErrNoSpace indicates that the underlying allocator could not satisfy a request.
	ErrNoSpace = errors.New("alloc: no space")

	// ErrBadArgument indicates an invalid size, alignment or capacity.
	ErrBadArgument = errors.New("alloc: bad argument")

	// ErrReserve indicates that reserving virtual address space failed.
	ErrReserve = errors.New("alloc: reserve failed")

	// ErrClosed indicates use of an allocator or scope after Close.
	ErrClosed = errors.New("alloc: closed")

	// ErrUnsupported indicates a composite operation over an allocator that
	// lacks the required capability.
	ErrUnsupported = errors.New("alloc: unsupported capability")
)
