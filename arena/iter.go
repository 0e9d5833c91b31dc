package arena

import "io"

// BlockIterator walks the block chain in address order.
type BlockIterator struct {
	a    *Arena
	off  BlockOff
	done bool
}

// Blocks returns an iterator positioned at the first block.
func (a *Arena) Blocks() *BlockIterator {
	return &BlockIterator{a: a, off: a.start, done: a.data == nil}
}

// Next returns the next block, io.EOF after the last one, or ErrCorrupt when
// a header names a size that cannot be right. The iterator stops after the
// first error.
func (it *BlockIterator) Next() (Block, error) {
	if it.done {
		return Block{}, io.EOF
	}
	a := it.a

	// reached end of arena
	if !a.inRange(it.off) {
		it.done = true
		return Block{}, io.EOF
	}

	if err := a.checkBlock(it.off); err != nil {
		it.done = true
		return Block{}, err
	}

	b := Block{data: a.data, off: it.off}
	it.off += b.Size()
	return b, nil
}
