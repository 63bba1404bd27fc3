package alloc

import (
	"testing"
)

// BenchmarkStackAllocator_Allocate measures bump throughput including chunk
// turnover.
func BenchmarkStackAllocator_Allocate(b *testing.B) {
	s := NewStack(NewSystem(), DefaultGranularity)
	cp := s.Checkpoint()

	b.ResetTimer()
	b.ReportAllocs()

	for i := range b.N {
		if s.Allocate(16+(i%8)*8, 8) == nil {
			b.Fatal("allocation failed")
		}
		if i%4096 == 4095 {
			s.Rewind(cp)
		}
	}
}

// BenchmarkVirtualStackAllocator_Allocate measures bump throughput with
// lazy commits.
func BenchmarkVirtualStackAllocator_Allocate(b *testing.B) {
	v := newTestVirtualStack(b, 64<<20, 0)
	cp := v.Checkpoint()

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		if v.Allocate(64, 8) == nil {
			v.Rewind(cp)
			if v.Allocate(64, 8) == nil {
				b.Fatal("allocation failed after rewind")
			}
		}
	}
}

// BenchmarkSystemAllocator_Allocate is the heap baseline.
func BenchmarkSystemAllocator_Allocate(b *testing.B) {
	sys := NewSystem()

	b.ResetTimer()
	b.ReportAllocs()

	for i := range b.N {
		if sys.Allocate(16+(i%8)*8, 8) == nil {
			b.Fatal("allocation failed")
		}
	}
}

// BenchmarkScope_New measures scoped construction of small pointer-free
// objects over a stack.
func BenchmarkScope_New(b *testing.B) {
	stack := NewStack(NewSystem(), DefaultGranularity)

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		s := NewScope[StackCheckpoint](stack)
		for j := range 16 {
			if _, err := New(s, vec4{x: float32(j)}); err != nil {
				b.Fatal(err)
			}
		}
		_ = s.Close()
	}
}
