package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
)

// ArenaHeader is the bookkeeping record stored at the front of every arena.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0x000   8    Offset of the first block header
//	 0x008   8    Usable size (sum of all block sizes)
//	 0x010   4    Search strategy
//	 0x014   4    'I' 'M' 'P' 'H'
//	 0x018   8    Next-fit cursor (offset of a block header)
type ArenaHeader struct {
	Start    uint64
	Size     uint64
	Strategy uint32
	Cursor   uint64
}

// ParseArenaHeader validates the signature and extracts the header fields.
func ParseArenaHeader(b []byte) (ArenaHeader, error) {
	start, okStart := buf.Word64(b, ArenaStartOffset)
	size, okSize := buf.Word64(b, ArenaSizeOffset)
	strategy, okStrategy := buf.Word32(b, ArenaStrategyOffset)
	cursor, okCursor := buf.Word64(b, ArenaCursorOffset)
	if !okStart || !okSize || !okStrategy || !okCursor {
		return ArenaHeader{}, fmt.Errorf("arena header: %w", ErrTruncated)
	}
	sig := b[ArenaSignatureOffset : ArenaSignatureOffset+len(ArenaSignature)]
	if !bytes.Equal(sig, ArenaSignature) {
		return ArenaHeader{}, fmt.Errorf("arena header: %w", ErrSignatureMismatch)
	}
	return ArenaHeader{Start: start, Size: size, Strategy: strategy, Cursor: cursor}, nil
}

// PutArenaHeader writes h (including the signature) to the front of b.
func PutArenaHeader(b []byte, h ArenaHeader) {
	PutU64(b, ArenaStartOffset, h.Start)
	PutU64(b, ArenaSizeOffset, h.Size)
	PutU32(b, ArenaStrategyOffset, h.Strategy)
	copy(b[ArenaSignatureOffset:], ArenaSignature)
	PutU64(b, ArenaCursorOffset, h.Cursor)
}

// End returns the offset one past the last usable byte.
func (h ArenaHeader) End() uint64 {
	return h.Start + h.Size
}
