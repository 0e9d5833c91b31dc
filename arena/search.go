package arena

import "github.com/joshuapare/heapkit/internal/format"

// searcher finds a free block of at least need bytes, prepares it for use and
// returns its offset. ok is false when no block fits; err is non-nil only
// when the block chain is corrupt.
type searcher func(a *Arena, need uint32) (off BlockOff, ok bool, err error)

func searcherFor(s Strategy) searcher {
	switch s {
	case NextFit:
		return nextFit
	case BestFit:
		return bestFit
	default:
		return firstFit
	}
}

// firstFit takes the first qualifying block from the arena start.
func firstFit(a *Arena, need uint32) (BlockOff, bool, error) {
	found, ok, err := a.findFirst(a.start, a.end, need)
	if err != nil || !ok {
		return 0, false, err
	}
	off, ok := a.prepareForUse(found, need)
	return off, ok, nil
}

// nextFit scans from the cursor to the end of the arena, then from the start
// back up to the cursor. On success the cursor moves to the block after the
// allocation (the split remainder, if any).
func nextFit(a *Arena, need uint32) (BlockOff, bool, error) {
	from := a.cursor
	if !a.inRange(from) {
		from = a.start
	}

	found, ok, err := a.findFirst(from, a.end, need)
	if err != nil {
		return 0, false, err
	}
	if !ok && from != a.start {
		found, ok, err = a.findFirst(a.start, from, need)
		if err != nil {
			return 0, false, err
		}
	}
	if !ok {
		return 0, false, nil
	}

	off, ok := a.prepareForUse(found, need)
	if !ok {
		return 0, false, nil
	}
	next := a.nextBlock(off)
	if !a.inRange(next) {
		next = a.start
	}
	a.setCursor(next)
	return off, true, nil
}

// bestFit scans the whole arena for the smallest qualifying block. Ties go to
// the earliest block; an exact fit ends the scan.
func bestFit(a *Arena, need uint32) (BlockOff, bool, error) {
	var (
		best     BlockOff
		bestSize uint32
		found    bool
	)
	err := a.walk(a.start, a.end, func(off BlockOff, t format.Tag) bool {
		a.stats.BlocksScanned++
		if t.InUse || t.Size < need {
			return true
		}
		if !found || t.Size < bestSize {
			best, bestSize, found = off, t.Size, true
		}
		return t.Size != need
	})
	if err != nil || !found {
		return 0, false, err
	}
	off, ok := a.prepareForUse(best, need)
	return off, ok, nil
}

// findFirst returns the first free block of at least need bytes in [from, to).
func (a *Arena) findFirst(from, to BlockOff, need uint32) (BlockOff, bool, error) {
	var (
		found BlockOff
		ok    bool
	)
	err := a.walk(from, to, func(off BlockOff, t format.Tag) bool {
		a.stats.BlocksScanned++
		if !t.InUse && t.Size >= need {
			found, ok = off, true
			return false
		}
		return true
	})
	return found, ok, err
}
