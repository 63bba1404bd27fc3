package alloc

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/RDFacendola/Syntropy-sub008/internal/buf"
	"github.com/RDFacendola/Syntropy-sub008/memory"
)

// Finalizer is implemented by objects that must release resources when the
// ScopeAllocator that constructed them is closed.
type Finalizer interface {
	Finalize()
}

// ScopeAllocator gives heterogeneous objects stack-like lifetime on top of a
// rewindable allocator.
//
// NewScope captures a checkpoint of the underlying allocator. Objects are
// constructed with New, AlignedNew and MakeSlice; objects whose pointer type
// implements Finalizer are recorded. Close finalizes the recorded objects in
// reverse construction order and then rewinds the underlying allocator to
// the checkpoint, releasing every object in one step.
//
// Types without pointers are placed in memory from the underlying allocator.
// Types that contain Go pointers are placed on the Go heap instead, because
// the garbage collector does not scan raw allocator memory; they still take
// part in scoped finalization.
//
// Scopes over the same allocator nest: an inner scope must be closed before
// the outer one.
type ScopeAllocator[C any] struct {
	under      Rewinder[C]
	checkpoint C
	finalizers []Finalizer // construction order
	closed     bool
}

// NewScope opens a scope over under, capturing its current checkpoint.
func NewScope[C any](under Rewinder[C]) *ScopeAllocator[C] {
	return &ScopeAllocator[C]{
		under:      under,
		checkpoint: under.Checkpoint(),
	}
}

// Underlying returns the allocator the scope draws from.
func (s *ScopeAllocator[C]) Underlying() Rewinder[C] {
	return s.under
}

// Len returns the number of objects awaiting finalization.
func (s *ScopeAllocator[C]) Len() int {
	return len(s.finalizers)
}

// Close finalizes every recorded object, newest first, then rewinds the
// underlying allocator to the scope's checkpoint. Closing twice is a no-op.
func (s *ScopeAllocator[C]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	for i := len(s.finalizers) - 1; i >= 0; i-- {
		f := s.finalizers[i]
		s.finalizers[i] = nil
		f.Finalize()
	}
	s.finalizers = s.finalizers[:0]

	s.under.Rewind(s.checkpoint)
	return nil
}

// New constructs a copy of v with the lifetime of scope s.
// Returns ErrNoSpace if the underlying allocator is exhausted and ErrClosed
// if the scope was closed.
func New[T any, C any](s *ScopeAllocator[C], v T) (*T, error) {
	return AlignedNew(s, memory.AlignOf[T](), v)
}

// AlignedNew is New with an explicit alignment. The object is aligned to the
// larger of align and T's natural alignment. Over-alignment is only
// supported for types without pointers.
func AlignedNew[T any, C any](s *ScopeAllocator[C], align memory.Alignment, v T) (*T, error) {
	p, err := construct[T](s, align, 1)
	if err != nil {
		return nil, err
	}
	*p = v
	s.track(p)
	return p, nil
}

// MakeSlice constructs a zeroed slice of n elements with the lifetime of
// scope s. If *T implements Finalizer every element is recorded, so elements
// are finalized from last to first.
func MakeSlice[T any, C any](s *ScopeAllocator[C], n int) ([]T, error) {
	if n == 0 {
		if s.closed {
			return nil, ErrClosed
		}
		return []T{}, nil
	}
	p, err := construct[T](s, memory.AlignOf[T](), n)
	if err != nil {
		return nil, err
	}
	items := unsafe.Slice(p, n)
	clear(items)
	for i := range items {
		s.track(&items[i])
	}
	return items, nil
}

// track records p for finalization if its type implements Finalizer.
func (s *ScopeAllocator[C]) track(p any) {
	if f, ok := p.(Finalizer); ok {
		s.finalizers = append(s.finalizers, f)
	}
}

// construct returns uninitialized storage for n values of T.
func construct[T any, C any](s *ScopeAllocator[C], align memory.Alignment, n int) (*T, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if !align.Valid() {
		return nil, fmt.Errorf("%w: alignment %d", ErrBadArgument, align)
	}
	natural := memory.AlignOf[T]()
	align = max(align, natural)

	size, err := buf.ArraySize(n, memory.SizeOf[T]())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadArgument, err)
	}

	if !pointerFree(reflect.TypeFor[T]()) {
		if align > natural {
			return nil, fmt.Errorf("%w: over-aligned type %v carries pointers", ErrBadArgument, reflect.TypeFor[T]())
		}
		return heapArray[T](n)
	}
	if size == 0 {
		// Zero-size values must not point one past the end of a block.
		return heapArray[T](n)
	}

	block := s.under.Allocate(size, align)
	if block == nil {
		return nil, ErrNoSpace
	}
	return (*T)(unsafe.Pointer(unsafe.SliceData(block))), nil
}

// heapArray places n values of T on the Go heap. Returns ErrNoSpace if the
// runtime refuses the length.
func heapArray[T any](n int) (p *T, err error) {
	defer func() {
		if recover() != nil {
			p, err = nil, ErrNoSpace
		}
	}()
	return &make([]T, n)[0], nil
}

// pointerFreeTypes caches pointerFree results per type.
var pointerFreeTypes sync.Map // reflect.Type -> bool

// pointerFree reports whether values of t contain no Go pointers and can
// therefore live in memory the garbage collector does not scan.
func pointerFree(t reflect.Type) bool {
	if v, ok := pointerFreeTypes.Load(t); ok {
		return v.(bool)
	}
	free := scanPointerFree(t)
	pointerFreeTypes.Store(t, free)
	return free
}

func scanPointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return t.Len() == 0 || scanPointerFree(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if !scanPointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
