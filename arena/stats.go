package arena

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/internal/format"
)

// Stats holds allocator counters for testing and instrumentation.
type Stats struct {
	AllocCalls       int   // Total Alloc() calls, including rejected ones
	NoFit            int   // Alloc() calls that found no block large enough
	FreeCalls        int   // Total Free() calls, including rejected ones
	BytesAllocated   int64 // Total block bytes handed out (tags included)
	BytesFreed       int64 // Total block bytes returned
	SplitCount       int   // Number of block splits
	CoalesceForward  int   // Merges with the following block
	CoalesceBackward int   // Merges with the preceding block
	BlocksScanned    int   // Blocks visited by Alloc searches
}

// Stats returns a snapshot of the allocator counters.
func (a *Arena) Stats() Stats {
	return a.stats
}

// Usage summarises the current block chain.
type Usage struct {
	Blocks      int
	FreeBlocks  int
	FreeBytes   uint64
	UsedBytes   uint64
	LargestFree uint32
}

// Usage walks the chain and tallies free and used blocks.
func (a *Arena) Usage() (Usage, error) {
	if a.data == nil {
		return Usage{}, ErrClosed
	}
	var u Usage
	err := a.walk(a.start, a.end, func(_ BlockOff, t format.Tag) bool {
		u.Blocks++
		if t.InUse {
			u.UsedBytes += uint64(t.Size)
			return true
		}
		u.FreeBlocks++
		u.FreeBytes += uint64(t.Size)
		u.LargestFree = max(u.LargestFree, t.Size)
		return true
	})
	return u, err
}

// PrintStats writes the allocator counters and a usage summary to w.
func (a *Arena) PrintStats(w io.Writer) error {
	p := message.NewPrinter(language.English)
	s := a.stats

	p.Fprintf(w, "=== ARENA STATISTICS (%s) ===\n", a.strategy)
	p.Fprintf(w, "Usable bytes:       %d\n", a.end-a.start)
	p.Fprintf(w, "Alloc calls:        %d (no fit: %d)\n", s.AllocCalls, s.NoFit)
	p.Fprintf(w, "Free calls:         %d\n", s.FreeCalls)
	p.Fprintf(w, "Bytes allocated:    %d\n", s.BytesAllocated)
	p.Fprintf(w, "Bytes freed:        %d\n", s.BytesFreed)
	p.Fprintf(w, "Block splits:       %d\n", s.SplitCount)
	p.Fprintf(w, "Coalesce fwd:       %d\n", s.CoalesceForward)
	p.Fprintf(w, "Coalesce back:      %d\n", s.CoalesceBackward)
	p.Fprintf(w, "Blocks scanned:     %d\n", s.BlocksScanned)

	u, err := a.Usage()
	if err != nil {
		return err
	}
	avg := uint64(0)
	if u.FreeBlocks > 0 {
		avg = u.FreeBytes / uint64(u.FreeBlocks)
	}
	p.Fprintf(w, "\nFragmentation:\n")
	p.Fprintf(w, "  Blocks:           %d (%d free)\n", u.Blocks, u.FreeBlocks)
	p.Fprintf(w, "  Free bytes:       %d\n", u.FreeBytes)
	p.Fprintf(w, "  Largest free:     %d\n", u.LargestFree)
	p.Fprintf(w, "  Avg free block:   %d\n", avg)
	_, err = p.Fprintf(w, "============================\n")
	return err
}
