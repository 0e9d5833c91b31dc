package arena

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// nextBlock returns the offset just past the block at off. The result may be
// a.end for the last block; callers test it with inRange.
func (a *Arena) nextBlock(off BlockOff) BlockOff {
	return off + a.blockSize(off)
}

// prevBlock reads the footer that ends just before off and steps back by the
// size it records. Undefined for the first block; check isFirst first.
func (a *Arena) prevBlock(off BlockOff) BlockOff {
	return off - format.ReadTag(a.data, int(off)-format.FooterSize).Size
}

// inRange reports whether off lies in the usable region [start, end).
func (a *Arena) inRange(off BlockOff) bool {
	return off >= a.start && off < a.end
}

func (a *Arena) isFirst(off BlockOff) bool {
	return off == a.start
}

// NextBlock returns the block after the one at off. ok is false when off is
// the last block.
func (a *Arena) NextBlock(off BlockOff) (next BlockOff, ok bool) {
	if !a.inRange(off) {
		return 0, false
	}
	next = a.nextBlock(off)
	if next <= off || !a.inRange(next) {
		return 0, false
	}
	return next, true
}

// PrevBlock returns the block before the one at off. ok is false for the
// first block, or when the preceding footer names a size that would step
// outside the arena.
func (a *Arena) PrevBlock(off BlockOff) (prev BlockOff, ok bool) {
	if !a.inRange(off) || a.isFirst(off) {
		return 0, false
	}
	size := format.ReadTag(a.data, int(off)-format.FooterSize).Size
	if size == 0 || size > off-a.start {
		return 0, false
	}
	return off - size, true
}

// InRange reports whether off lies within the usable region of the arena.
// It is the loop condition for a full walk:
//
//	for off, ok := a.Start(), true; ok && a.InRange(off); off, ok = a.NextBlock(off) { ... }
//
// Prefer Blocks() which also detects a broken chain.
func (a *Arena) InRange(off BlockOff) bool {
	return a.inRange(off)
}

// IsFirst reports whether off is the first block of the arena.
func (a *Arena) IsFirst(off BlockOff) bool {
	return a.isFirst(off)
}

// walk visits every block from `from` up to (not including) `to`, checking
// that each header names a sane size. fn returns false to stop early.
// walk does not touch the statistics; searches count their own visits.
// Every scan in this package goes through walk so a corrupt size surfaces
// as ErrCorrupt instead of an endless loop or an out-of-range read.
func (a *Arena) walk(from, to BlockOff, fn func(off BlockOff, t format.Tag) bool) error {
	for off := from; off < to; {
		t := format.ReadTag(a.data, int(off))
		if t.Size < format.TagOverhead || t.Size > a.end-off {
			return fmt.Errorf("%w: block at %d has size %d (arena [%d,%d))", ErrCorrupt, off, t.Size, a.start, a.end)
		}
		if !fn(off, t) {
			return nil
		}
		off += t.Size
	}
	return nil
}
