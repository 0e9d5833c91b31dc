// Package format houses the low-level layout of an implicit boundary-tag
// heap: the arena header written at the front of the acquired region and the
// header/footer words that frame every block. It is kept free of allocator
// policy so the arena, the verifier and the tests share one definition of
// the bytes.
package format

var (
	// ArenaSignature is the four-byte signature stored in the arena header.
	// Layout:
	//   0x14  'I' 'M' 'P' 'H'
	ArenaSignature = []byte{'I', 'M', 'P', 'H'}
)

const (
	// HeaderSize is the width of a block header word. Footers have the same
	// width and hold a byte-identical copy of the header.
	HeaderSize = 4

	// FooterSize is the width of a block footer word.
	FooterSize = HeaderSize

	// TagOverhead is the per-block cost of the boundary tags (header + footer).
	TagOverhead = HeaderSize + FooterSize

	// PayloadAlign is the alignment of every payload (alignof(uint64)).
	PayloadAlign = 8

	// PayloadAlignMask is PayloadAlign - 1.
	PayloadAlignMask = PayloadAlign - 1

	// InUseBit is the low bit of a tag word. Block sizes are multiples of
	// PayloadAlign so the low bits of the size are always zero.
	InUseBit = 1

	// SizeMask clears the flag bits of a tag word (-HeaderSize as uint32).
	SizeMask = ^uint32(HeaderSize - 1)

	// MinBlockSize is the smallest block the allocator ever creates: the
	// two tags plus one aligned payload word.
	MinBlockSize = TagOverhead + PayloadAlign

	// MaxUnusedBytes is the default slack above which a free block is split
	// instead of being handed out whole.
	MaxUnusedBytes = 128

	// MaxBlockSize is the largest encodable block size.
	MaxBlockSize = SizeMask
)

// Arena header layout. The header occupies the first ArenaHeaderSize bytes
// of the acquired region; blocks start after it.
//
//	Offset  Size  Description
//	0x00    8     Usable start offset (first block header)
//	0x08    8     Usable size in bytes
//	0x10    4     Search strategy
//	0x14    4     Signature "IMPH"
//	0x18    8     Next-fit cursor (block offset)
const (
	ArenaStartOffset     = 0x00
	ArenaSizeOffset      = 0x08
	ArenaStrategyOffset  = 0x10
	ArenaSignatureOffset = 0x14
	ArenaCursorOffset    = 0x18

	// ArenaHeaderSize is the size of the bookkeeping region.
	ArenaHeaderSize = 0x20
)
