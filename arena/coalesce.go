package arena

// coalesceForward merges the free block at off with its successor when the
// successor is free too. It returns the (unchanged) block start.
func (a *Arena) coalesceForward(off BlockOff) BlockOff {
	if a.blockInUse(off) {
		return off
	}
	next := a.nextBlock(off)
	if !a.inRange(next) || a.blockInUse(next) {
		return off
	}

	merged := a.blockSize(off) + a.blockSize(next)
	a.setBlock(off, merged, false)
	a.stats.CoalesceForward++
	if a.cursor == next {
		a.setCursor(off)
	}
	a.log.Debug("coalesce forward", "off", off, "absorbed", next, "size", merged)
	return off
}

// coalesceBackward merges the free block at off into a free predecessor and
// returns the start of the resulting block.
func (a *Arena) coalesceBackward(off BlockOff) BlockOff {
	if a.isFirst(off) || a.blockInUse(off) {
		return off
	}
	prev, ok := a.PrevBlock(off)
	if !ok || a.blockInUse(prev) || a.nextBlock(prev) != off {
		return off
	}

	merged := a.blockSize(prev) + a.blockSize(off)
	a.setBlock(prev, merged, false)
	a.stats.CoalesceBackward++
	if a.cursor == off {
		a.setCursor(prev)
	}
	a.log.Debug("coalesce backward", "off", prev, "absorbed", off, "size", merged)
	return prev
}

// Coalesce merges the block at off with the block immediately after it when
// both are free, writing one header/footer pair for the combined size. It is
// a no-op when the block is in use, is the last block, or its successor is in
// use. Coalesce only looks forward; Free also merges backward.
//
// The returned offset is always off.
func (a *Arena) Coalesce(off BlockOff) BlockOff {
	if a.data == nil || !a.inRange(off) {
		return off
	}
	return a.coalesceForward(off)
}
