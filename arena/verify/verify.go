// Package verify provides validation functions for raw arena images.
// These helpers are used in tests and diagnostics to ensure the boundary-tag
// invariants are maintained.
package verify

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates the arena header, the block chain and the next-fit
// cursor. Adjacent free blocks are allowed; use Coalesced for that.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(data []byte) error {
	h, err := Header(data)
	if err != nil {
		return err
	}
	if err := BlockChain(data, h); err != nil {
		return err
	}
	return Cursor(data, h)
}

// Header validates and returns the arena header.
func Header(data []byte) (format.ArenaHeader, error) {
	h, err := format.ParseArenaHeader(data)
	if err != nil {
		return h, &ValidationError{Type: "Header", Message: err.Error(), Offset: -1}
	}
	if h.Start < format.ArenaHeaderSize {
		return h, &ValidationError{
			Type:    "Header",
			Message: fmt.Sprintf("first block at %d overlaps the %d-byte header", h.Start, format.ArenaHeaderSize),
			Offset:  format.ArenaStartOffset,
		}
	}
	if h.End() > uint64(len(data)) {
		return h, &ValidationError{
			Type:    "Header",
			Message: fmt.Sprintf("usable region [%d,%d) exceeds image of %d bytes", h.Start, h.End(), len(data)),
			Offset:  format.ArenaSizeOffset,
		}
	}
	if h.Size < format.TagOverhead || h.Size%format.PayloadAlign != 0 {
		return h, &ValidationError{
			Type:    "Header",
			Message: fmt.Sprintf("usable size %d is not a whole number of aligned blocks", h.Size),
			Offset:  format.ArenaSizeOffset,
		}
	}
	return h, nil
}

// BlockChain walks every block and checks that sizes are aligned, header and
// footer agree, and the sizes sum exactly to the usable size.
func BlockChain(data []byte, h format.ArenaHeader) error {
	off := h.Start
	end := h.End()
	var sum uint64
	for off < end {
		hdr := format.ReadU32(data, int(off))
		t := format.DecodeTag(hdr)
		if hdr&^(format.SizeMask|format.InUseBit) != 0 {
			return &ValidationError{
				Type:    "BlockChain",
				Message: fmt.Sprintf("reserved header bits set: %#x", hdr),
				Offset:  int(off),
			}
		}
		if t.Size < format.TagOverhead || t.Size%format.PayloadAlign != 0 {
			return &ValidationError{
				Type:    "BlockChain",
				Message: fmt.Sprintf("invalid block size %d", t.Size),
				Offset:  int(off),
			}
		}
		if off+uint64(t.Size) > end {
			return &ValidationError{
				Type:    "BlockChain",
				Message: fmt.Sprintf("block of %d bytes runs past end %d", t.Size, end),
				Offset:  int(off),
			}
		}
		ftr := format.ReadU32(data, int(off)+int(t.Size)-format.FooterSize)
		if ftr != hdr {
			return &ValidationError{
				Type:    "BlockChain",
				Message: fmt.Sprintf("header %#x != footer %#x", hdr, ftr),
				Offset:  int(off),
			}
		}
		sum += uint64(t.Size)
		off += uint64(t.Size)
	}
	if sum != h.Size {
		return &ValidationError{
			Type:    "BlockChain",
			Message: fmt.Sprintf("block sizes sum to %d, usable size is %d", sum, h.Size),
			Offset:  -1,
		}
	}
	return nil
}

// Cursor checks that the next-fit cursor sits on a block boundary.
func Cursor(data []byte, h format.ArenaHeader) error {
	for off := h.Start; off < h.End(); {
		if off == h.Cursor {
			return nil
		}
		size := format.ReadTag(data, int(off)).Size
		if size == 0 {
			break
		}
		off += uint64(size)
	}
	return &ValidationError{
		Type:    "Cursor",
		Message: fmt.Sprintf("cursor %d is not a block boundary", h.Cursor),
		Offset:  format.ArenaCursorOffset,
	}
}

// Coalesced checks that no two free blocks are adjacent. It assumes the
// chain already passed BlockChain.
func Coalesced(data []byte, h format.ArenaHeader) error {
	prevFree := false
	for off := h.Start; off < h.End(); {
		t := format.ReadTag(data, int(off))
		if t.Size == 0 {
			break
		}
		if !t.InUse && prevFree {
			return &ValidationError{
				Type:    "Coalesced",
				Message: "free block follows a free block",
				Offset:  int(off),
			}
		}
		prevFree = !t.InUse
		off += uint64(t.Size)
	}
	return nil
}
