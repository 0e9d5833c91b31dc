package arena

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

// ============================================================================
// Test Helpers
// ============================================================================

// shape describes one block of a hand-built layout.
type shape struct {
	size  uint32
	inUse bool
}

func u(size uint32) shape { return shape{size: size, inUse: true} }
func f(size uint32) shape { return shape{size: size} }

// layout256 is the reference layout of a 256-byte arena (216 usable bytes):
// 16(u) 32(f) 64(f) 32(f) 16(u) 32(u) 24(f).
var layout256 = []shape{u(16), f(32), f(64), f(32), u(16), u(32), f(24)}

// newTestArena creates an arena that is closed when the test ends.
func newTestArena(t testing.TB, size int, s Strategy) *Arena {
	t.Helper()
	a, err := Create(size, s)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// newLayoutArena creates a size-byte arena and overwrites its block chain
// with blocks. The block sizes must sum to the usable size.
func newLayoutArena(t testing.TB, size int, s Strategy, blocks []shape) (*Arena, []BlockOff) {
	t.Helper()
	a := newTestArena(t, size, s)
	offs := applyLayout(t, a, blocks)
	require.NoError(t, a.Verify(), "hand-built layout must be structurally valid")
	return a, offs
}

// applyLayout writes blocks back to back from the arena start.
func applyLayout(t testing.TB, a *Arena, blocks []shape) []BlockOff {
	t.Helper()
	offs := make([]BlockOff, 0, len(blocks))
	off := a.Start()
	for _, b := range blocks {
		require.NoError(t, a.SetBlock(off, b.size, b.inUse), "SetBlock(%d, %d)", off, b.size)
		offs = append(offs, off)
		off += b.size
	}
	require.Equal(t, a.End(), off, "layout must fill the arena exactly")
	return offs
}

// snapshot returns the block chain as shapes.
func snapshot(t testing.TB, a *Arena) []shape {
	t.Helper()
	var out []shape
	it := a.Blocks()
	for {
		b, err := it.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, shape{size: b.Size(), inUse: b.InUse()})
	}
}

// getBlock returns the size and in-use flag of the block at off.
func getBlock(t testing.TB, a *Arena, off BlockOff) (uint32, bool) {
	t.Helper()
	b, err := a.Block(off)
	require.NoError(t, err)
	return b.Size(), b.InUse()
}

// assertInvariants checks the structural invariants and the sum invariant.
func assertInvariants(t testing.TB, a *Arena) {
	t.Helper()
	require.NoError(t, a.Verify())

	var sum uint32
	for _, b := range snapshot(t, a) {
		sum += b.size
	}
	require.Equal(t, a.Size(), sum, "block sizes must sum to the usable size")
}

// assertCoalesced is assertInvariants plus "no two adjacent free blocks".
func assertCoalesced(t testing.TB, a *Arena) {
	t.Helper()
	assertInvariants(t, a)
	require.NoError(t, a.VerifyCoalesced())
}

// heapAcquire allocates from the Go heap, offset by skew bytes so the base
// address is deliberately misaligned.
func heapAcquire(skew int) Acquirer {
	return func(n int) ([]byte, func() error, error) {
		b := make([]byte, n+format.PayloadAlign)
		return b[skew : skew+n], func() error { return nil }, nil
	}
}
