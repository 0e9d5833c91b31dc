package arena

// prepareForUse turns the free block at off into an in-use block of at least
// required bytes. The block is split when it is more than twice the request
// or exceeds it by maxUnused or more; otherwise the slack stays inside the
// allocation as internal fragmentation. ok is false if the block is smaller
// than required.
func (a *Arena) prepareForUse(off BlockOff, required uint32) (BlockOff, bool) {
	size := a.blockSize(off)
	if size < required {
		return 0, false
	}

	if uint64(size) > 2*uint64(required) || uint64(size) >= uint64(required)+uint64(a.maxUnused) {
		rem := size - required
		a.setBlock(off, required, true)
		a.setBlock(off+required, rem, false)
		a.stats.SplitCount++
		a.log.Debug("split", "off", off, "size", size, "need", required, "remainder", rem)
		return off, true
	}

	a.setBlock(off, size, true)
	return off, true
}

// PrepareForUse marks the free block at off in use for a request needing
// required total bytes, splitting off a free remainder when it is worth
// keeping. required is a total block size (see format.SizeToAllocate), so it
// must be a multiple of format.PayloadAlign and at least format.MinBlockSize.
//
// ok is false, and the arena untouched, when off is not a free block in the
// arena, required is malformed, or the block is smaller than required.
func (a *Arena) PrepareForUse(off BlockOff, required uint32) (BlockOff, bool) {
	if a.data == nil || !a.inRange(off) || a.blockInUse(off) {
		return 0, false
	}
	if !validNeed(required) {
		return 0, false
	}
	return a.prepareForUse(off, required)
}
