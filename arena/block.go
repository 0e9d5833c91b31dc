package arena

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// Block is a read-only view of one block in an arena.
//
// Block layout (sizes in bytes):
//
//	Offset        Size  Description
//	0x00          4     Header: size | in-use bit
//	0x04          n     Payload (8-byte aligned, n = size - 8)
//	size - 4      4     Footer: byte-identical copy of the header
//
// A Block is only valid until the next Alloc, Free, Coalesce or SetBlock on
// its arena; what persists across those is arena bytes, not the view.
type Block struct {
	data []byte
	off  BlockOff
}

// Offset returns the offset of the block header.
func (b Block) Offset() BlockOff { return b.off }

// Ref returns the payload reference for this block.
func (b Block) Ref() Ref { return b.off + format.HeaderSize }

// Header returns the raw header word.
func (b Block) Header() uint32 { return format.ReadU32(b.data, int(b.off)) }

// Footer returns the raw footer word, or 0 if the header's size would put
// the footer outside the arena.
func (b Block) Footer() uint32 {
	off := int(b.off) + int(b.Size()) - format.FooterSize
	if off < int(b.off) || !buf.Within(b.data, off, format.FooterSize) {
		return 0
	}
	return format.ReadU32(b.data, off)
}

// Size returns the total block size, tags included.
func (b Block) Size() uint32 { return format.ReadTag(b.data, int(b.off)).Size }

// InUse reports whether the block is allocated.
func (b Block) InUse() bool { return format.ReadTag(b.data, int(b.off)).InUse }

// PayloadSize returns the bytes available to the caller.
func (b Block) PayloadSize() uint32 { return b.Size() - format.TagOverhead }

// Payload returns the payload bytes (aliasing the arena).
func (b Block) Payload() []byte {
	p := int(b.Ref())
	n := int(b.PayloadSize())
	return b.data[p : p+n : p+n]
}

// Consistent reports whether header and footer agree.
func (b Block) Consistent() bool { return b.Header() == b.Footer() }

func (b Block) String() string {
	return fmt.Sprintf("block@%d %s", b.off, format.ReadTag(b.data, int(b.off)))
}

// ============================================================================
// Block codec
// ============================================================================

// setBlock writes the header and footer of the block at off.
func (a *Arena) setBlock(off BlockOff, size uint32, inUse bool) {
	format.PutTags(a.data, int(off), size, inUse)
}

func (a *Arena) blockSize(off BlockOff) uint32 {
	return format.ReadTag(a.data, int(off)).Size
}

func (a *Arena) blockInUse(off BlockOff) bool {
	return format.ReadTag(a.data, int(off)).InUse
}

func (a *Arena) payloadSize(off BlockOff) uint32 {
	return a.blockSize(off) - format.TagOverhead
}

// blockStart recovers the block header offset from a payload reference.
func blockStart(ref Ref) BlockOff { return ref - format.HeaderSize }

// payloadOf returns the payload reference for the block at off.
func payloadOf(off BlockOff) Ref { return off + format.HeaderSize }

// SetBlock writes a block header and footer at off. It is the encode half of
// the block codec, exported so callers can lay out an arena by hand.
//
// The block must lie entirely within the usable region and size must be a
// multiple of format.PayloadAlign no smaller than the two tags. SetBlock does
// not check that off is on the current block chain; laying out a consistent
// chain is the caller's job.
func (a *Arena) SetBlock(off BlockOff, size uint32, inUse bool) error {
	if a.data == nil {
		return ErrClosed
	}
	if size < format.TagOverhead || size%format.PayloadAlign != 0 {
		return fmt.Errorf("%w: block size %d", ErrInvalidSize, size)
	}
	if _, err := buf.CheckSpan(int(a.start), int(a.end), int(off), int(size)); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRef, err)
	}
	if (off-a.start)%format.PayloadAlign != 0 {
		return fmt.Errorf("%w: offset %d is not on a block boundary", ErrBadRef, off)
	}
	a.setBlock(off, size, inUse)
	return nil
}

// Block returns a view of the block whose header is at off. off must be a
// block boundary whose header names a size that fits the arena; otherwise
// Block returns ErrBadRef or ErrCorrupt rather than a view whose accessors
// would read outside the block.
func (a *Arena) Block(off BlockOff) (Block, error) {
	if a.data == nil {
		return Block{}, ErrClosed
	}
	if !a.inRange(off) {
		return Block{}, fmt.Errorf("%w: offset %d outside [%d,%d)", ErrBadRef, off, a.start, a.end)
	}
	if err := a.checkBlock(off); err != nil {
		return Block{}, err
	}
	return Block{data: a.data, off: off}, nil
}

// checkBlock verifies that off (already in range) sits on the alignment grid
// of block starts and that its header names a plausible size.
func (a *Arena) checkBlock(off BlockOff) error {
	if (off-a.start)%format.PayloadAlign != 0 {
		return fmt.Errorf("%w: offset %d is not on a block boundary", ErrBadRef, off)
	}
	t := format.ReadTag(a.data, int(off))
	if t.Size < format.TagOverhead || t.Size%format.PayloadAlign != 0 || t.Size > a.end-off {
		return fmt.Errorf("%w: block at %d has size %d", ErrCorrupt, off, t.Size)
	}
	return nil
}

// BlockOf returns the block that owns the payload reference ref.
func (a *Arena) BlockOf(ref Ref) (Block, error) {
	if ref < format.HeaderSize {
		return Block{}, fmt.Errorf("%w: ref %d", ErrBadRef, ref)
	}
	return a.Block(blockStart(ref))
}

// First returns the first block of the arena.
func (a *Arena) First() Block {
	return Block{data: a.data, off: a.start}
}
