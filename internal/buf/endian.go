// Package buf holds the bounds arithmetic and raw word reads shared by the
// arena layout code.
package buf

import "encoding/binary"

// Word32 reads the little-endian word at off. ok is false when the four
// bytes are not all inside b.
func Word32(b []byte, off int) (uint32, bool) {
	if !Within(b, off, 4) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b[off:]), true
}

// Word64 reads the little-endian double word at off. ok is false when the
// eight bytes are not all inside b.
func Word64(b []byte, off int) (uint64, bool) {
	if !Within(b, off, 8) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b[off:]), true
}
