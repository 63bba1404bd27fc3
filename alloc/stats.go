package alloc

import (
	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats is a snapshot of an allocator's memory usage.
type Stats struct {
	// Allocated is the number of bytes handed out, alignment padding included.
	Allocated int

	// Reserved is the number of bytes of backing memory or address space held.
	Reserved int

	// Committed is the number of reserved bytes backed by physical memory.
	Committed int

	// Blocks is the number of backing blocks (chunks or regions) held.
	Blocks int
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Allocated: s.Allocated + o.Allocated,
		Reserved:  s.Reserved + o.Reserved,
		Committed: s.Committed + o.Committed,
		Blocks:    s.Blocks + o.Blocks,
	}
}

// String formats the snapshot with binary byte units.
//
//	allocated=1.5 KiB reserved=64 KiB committed=64 KiB blocks=1
func (s Stats) String() string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("allocated=%s reserved=%s committed=%s blocks=%d",
		humanize.IBytes(uint64(s.Allocated)),
		humanize.IBytes(uint64(s.Reserved)),
		humanize.IBytes(uint64(s.Committed)),
		s.Blocks)
}
