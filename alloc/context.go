package alloc

import "context"

type activeAllocatorKey struct{}

var defaultAllocator BaseAllocator = NewPolymorphic(NewSystem())

// Default returns the process-wide default allocator, backed by the Go heap.
func Default() BaseAllocator {
	return defaultAllocator
}

// WithAllocator returns a copy of ctx whose active allocator is a.
//
// The active allocator follows the call path: a callee that installs its own
// allocator affects only the contexts it derives, and the caller's selection
// is restored as soon as the callee returns. A nil allocator selects Default.
func WithAllocator(ctx context.Context, a BaseAllocator) context.Context {
	return context.WithValue(ctx, activeAllocatorKey{}, a)
}

// FromContext returns the active allocator of ctx, or Default if none was
// installed.
func FromContext(ctx context.Context) BaseAllocator {
	if a, ok := ctx.Value(activeAllocatorKey{}).(BaseAllocator); ok && a != nil {
		return a
	}
	return defaultAllocator
}
