package arena

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

func TestFree_MergesBackward(t *testing.T) {
	a, offs := newLayoutArena(t, 256, FirstFit, layout256)

	// 16(u) at 180 sits between 32(f) and 32(u).
	require.NoError(t, a.Free(payloadOf(offs[4])))

	assert.Equal(t, []shape{u(16), f(32), f(64), f(48), u(32), f(24)}, snapshot(t, a))
	s := a.Stats()
	assert.Equal(t, 0, s.CoalesceForward)
	assert.Equal(t, 1, s.CoalesceBackward)
	assertInvariants(t, a)
}

func TestFree_MergesBothWays(t *testing.T) {
	a, offs := newLayoutArena(t, 256, FirstFit, layout256)

	require.NoError(t, a.Free(payloadOf(offs[4])))
	// 32(u) at 196 now has 48(f) before it and 24(f) after it.
	require.NoError(t, a.Free(payloadOf(offs[5])))

	assert.Equal(t, []shape{u(16), f(32), f(64), f(104)}, snapshot(t, a))
	size, inUse := getBlock(t, a, offs[3])
	assert.Equal(t, uint32(104), size)
	assert.False(t, inUse)

	s := a.Stats()
	assert.Equal(t, 1, s.CoalesceForward)
	assert.Equal(t, 2, s.CoalesceBackward)
	assertInvariants(t, a)
}

func TestFree_FirstBlockMergesForwardOnly(t *testing.T) {
	a, offs := newLayoutArena(t, 256, FirstFit, layout256)

	require.NoError(t, a.Free(payloadOf(offs[0])))
	assert.Equal(t, []shape{f(48), f(64), f(32), u(16), u(32), f(24)}, snapshot(t, a))
	assertInvariants(t, a)
}

func TestFree_KeepsArenaCoalesced(t *testing.T) {
	a := newTestArena(t, 4096, FirstFit)

	refs := make([]Ref, 0, 8)
	for range 8 {
		ref, _, err := a.Alloc(40)
		require.NoError(t, err)
		refs = append(refs, ref)
	}

	// Free every other block, then the rest: each step must leave no two
	// free blocks adjacent.
	for i := 0; i < len(refs); i += 2 {
		require.NoError(t, a.Free(refs[i]))
		assertCoalesced(t, a)
	}
	for i := 1; i < len(refs); i += 2 {
		require.NoError(t, a.Free(refs[i]))
		assertCoalesced(t, a)
	}

	assert.Equal(t, []shape{f(4056)}, snapshot(t, a))
}

func TestFree_RoundTrip(t *testing.T) {
	for _, s := range Strategies() {
		t.Run(s.String(), func(t *testing.T) {
			a := newTestArena(t, 4096, s)
			before := snapshot(t, a)

			ref, _, err := a.Alloc(200)
			require.NoError(t, err)
			require.NoError(t, a.Free(ref))

			assert.Equal(t, before, snapshot(t, a))
			assert.Equal(t, a.Start(), a.Cursor())
		})
	}
}

func TestFree_DoubleFree(t *testing.T) {
	a := newTestArena(t, 256, FirstFit)

	ref, _, err := a.Alloc(16)
	require.NoError(t, err)
	require.NoError(t, a.Free(ref))

	before := bytes.Clone(a.Bytes())
	require.ErrorIs(t, a.Free(ref), ErrDoubleFree)
	assert.Equal(t, before, a.Bytes())
}

func TestFree_BadRefs(t *testing.T) {
	a, offs := newLayoutArena(t, 256, FirstFit, layout256)
	before := bytes.Clone(a.Bytes())

	for _, ref := range []Ref{
		0,
		a.Start(),              // header, not payload
		payloadOf(offs[0]) + 1, // inside a payload
		payloadOf(offs[0]) + 4, // 4 past a payload boundary
		a.End(),
		a.End() + 100,
	} {
		require.ErrorIs(t, a.Free(ref), ErrBadRef, "ref %d", ref)
	}
	assert.Equal(t, before, a.Bytes(), "rejected frees must not touch the arena")
}

func TestFree_InteriorRefRejected(t *testing.T) {
	a, offs := newLayoutArena(t, 256, FirstFit, layout256)
	before := bytes.Clone(a.Bytes())

	// 8 bytes into the 64-byte block's payload is payload-aligned but names
	// no block; the bytes there are not a valid tag pair.
	require.Error(t, a.Free(payloadOf(offs[2])+8))
	assert.Equal(t, before, a.Bytes())
}

func TestFree_CorruptFooter(t *testing.T) {
	a, offs := newLayoutArena(t, 256, FirstFit, layout256)

	// Footer of the 16(u) block at 180 no longer matches its header.
	format.PutU32(a.Bytes(), int(offs[4])+16-format.FooterSize, format.EncodeTag(24, true))
	before := bytes.Clone(a.Bytes())

	require.ErrorIs(t, a.Free(payloadOf(offs[4])), ErrCorrupt)
	assert.Equal(t, before, a.Bytes())
}

func TestFree_CountsCalls(t *testing.T) {
	a := newTestArena(t, 256, FirstFit)

	ref, _, err := a.Alloc(16)
	require.NoError(t, err)
	require.NoError(t, a.Free(ref))
	_ = a.Free(ref)

	s := a.Stats()
	assert.Equal(t, 1, s.AllocCalls)
	assert.Equal(t, 2, s.FreeCalls)
	assert.Equal(t, int64(24), s.BytesAllocated)
	assert.Equal(t, int64(24), s.BytesFreed)
}
