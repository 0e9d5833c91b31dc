package arena

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/internal/format"
)

// Print writes one entry per block in address order: the block's offset,
// its payload reference, total size and whether it is in use.
//
// Example output:
//
//	Block at 0x0024 (payload 0x0028)
//	  Size: 16
//	  In use: Yes
func (a *Arena) Print(w io.Writer) error {
	if a.data == nil {
		return ErrClosed
	}
	p := message.NewPrinter(language.English)
	var werr error
	err := a.walk(a.start, a.end, func(off BlockOff, t format.Tag) bool {
		inUse := "No"
		if t.InUse {
			inUse = "Yes"
		}
		_, werr = p.Fprintf(w, "Block at %#04x (payload %#04x)\n  Size: %d\n  In use: %s\n",
			off, payloadOf(off), t.Size, inUse)
		return werr == nil
	})
	if err != nil {
		return err
	}
	return werr
}
