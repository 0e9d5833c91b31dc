package arena

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/heapkit/arena/verify"
	"github.com/joshuapare/heapkit/internal/format"
)

// Verify checks the structural invariants of the arena: the header matches
// the cached layout, every block's header and footer agree, sizes are aligned
// and sum to the usable size, every payload is aligned in memory, and the
// next-fit cursor is on a block boundary. Adjacent free blocks are allowed
// (hand-built layouts have them); VerifyCoalesced checks that too.
func (a *Arena) Verify() error {
	if a.data == nil {
		return ErrClosed
	}
	h, err := verify.Header(a.data)
	if err != nil {
		return err
	}
	if h.Start != uint64(a.start) || h.End() != uint64(a.end) || h.Cursor != uint64(a.cursor) {
		return &verify.ValidationError{
			Type:    "Header",
			Message: fmt.Sprintf("header %+v disagrees with arena [%d,%d) cursor %d", h, a.start, a.end, a.cursor),
			Offset:  -1,
		}
	}
	if err := verify.BlockChain(a.data, h); err != nil {
		return err
	}
	if err := verify.Cursor(a.data, h); err != nil {
		return err
	}

	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.data)))
	var alignErr error
	err = a.walk(a.start, a.end, func(off BlockOff, _ format.Tag) bool {
		if (base+uintptr(payloadOf(off)))%format.PayloadAlign != 0 {
			alignErr = &verify.ValidationError{
				Type:    "Alignment",
				Message: fmt.Sprintf("payload at %#x is not %d-byte aligned", base+uintptr(payloadOf(off)), format.PayloadAlign),
				Offset:  int(off),
			}
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	return alignErr
}

// VerifyCoalesced is Verify plus the check that no two free blocks are
// adjacent, which holds after every Free.
func (a *Arena) VerifyCoalesced() error {
	if err := a.Verify(); err != nil {
		return err
	}
	h, err := verify.Header(a.data)
	if err != nil {
		return err
	}
	return verify.Coalesced(a.data, h)
}
