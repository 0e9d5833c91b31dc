package buf

import (
	"fmt"
	"math"
)

// SpanEnd returns off+n. ok is false when either value is negative or the
// end does not fit in an int.
func SpanEnd(off, n int) (end int, ok bool) {
	if off < 0 || n < 0 || n > math.MaxInt-off {
		return 0, false
	}
	return off + n, true
}

// CheckSpan validates that the n bytes starting at offset lie within
// [lo, hi) and returns the end offset. Every block write goes through it
// before touching a tag:
//
//	if _, err := buf.CheckSpan(start, end, off, size); err != nil {
//	    return fmt.Errorf("block: %w", err)
//	}
func CheckSpan(lo, hi, offset, n int) (int, error) {
	if offset < lo {
		return 0, fmt.Errorf("offset %d below %d", offset, lo)
	}
	end, ok := SpanEnd(offset, n)
	if !ok {
		return 0, fmt.Errorf("span of %d bytes at %d is negative or overflows", n, offset)
	}
	if end > hi {
		return 0, fmt.Errorf("bounds: end=%d > limit=%d", end, hi)
	}
	return end, nil
}

// Within reports whether b[off:off+n] is addressable.
func Within(b []byte, off, n int) bool {
	end, ok := SpanEnd(off, n)
	return ok && end <= len(b)
}
