package format

import "fmt"

// Tag is a decoded boundary tag word.
//
// Tag word layout (little-endian uint32):
//
//	Bits   Description
//	0      In-use flag
//	1      Reserved (always zero)
//	2..31  Block size in bytes, including header and footer
type Tag struct {
	Size  uint32
	InUse bool
}

// EncodeTag packs a size and in-use flag into a tag word.
func EncodeTag(size uint32, inUse bool) uint32 {
	v := size
	if inUse {
		v |= InUseBit
	}
	return v
}

// DecodeTag unpacks a tag word.
func DecodeTag(v uint32) Tag {
	return Tag{Size: v & SizeMask, InUse: v&InUseBit != 0}
}

// ReadTag decodes the tag word at off.
func ReadTag(b []byte, off int) Tag {
	return DecodeTag(ReadU32(b, off))
}

// PutTags writes the header at off and the footer at off+size-FooterSize.
func PutTags(b []byte, off int, size uint32, inUse bool) {
	v := EncodeTag(size, inUse)
	PutU32(b, off, v)
	PutU32(b, off+int(size)-FooterSize, v)
}

// String renders the tag as "size(u)" or "size(f)".
func (t Tag) String() string {
	if t.InUse {
		return fmt.Sprintf("%d(u)", t.Size)
	}
	return fmt.Sprintf("%d(f)", t.Size)
}
