package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalesce_InUseBlockIsNoop(t *testing.T) {
	a, offs := newLayoutArena(t, 256, FirstFit, layout256)
	before := snapshot(t, a)

	got := a.Coalesce(offs[0])
	assert.Equal(t, offs[0], got)
	assert.Equal(t, before, snapshot(t, a))
	assert.Equal(t, 0, a.Stats().CoalesceForward)
}

func TestCoalesce_MergesWithFreeSuccessor(t *testing.T) {
	a, offs := newLayoutArena(t, 256, FirstFit, layout256)

	got := a.Coalesce(offs[1])
	assert.Equal(t, offs[1], got)

	size, inUse := getBlock(t, a, got)
	assert.Equal(t, uint32(96), size, "32 + 64")
	assert.False(t, inUse)

	assert.Equal(t, []shape{u(16), f(96), f(32), u(16), u(32), f(24)}, snapshot(t, a))
	assert.Equal(t, 1, a.Stats().CoalesceForward)
	assertInvariants(t, a)

	// Only one step forward per call: the 32(f) after it is still separate.
	got = a.Coalesce(offs[1])
	size, _ = getBlock(t, a, got)
	assert.Equal(t, uint32(128), size)
	assertInvariants(t, a)
}

func TestCoalesce_InUseSuccessorIsNoop(t *testing.T) {
	a, offs := newLayoutArena(t, 256, FirstFit, layout256)

	// 32(f) followed by 16(u)
	got := a.Coalesce(offs[3])
	assert.Equal(t, offs[3], got)
	size, _ := getBlock(t, a, got)
	assert.Equal(t, uint32(32), size)
}

func TestCoalesce_LastBlockIsNoop(t *testing.T) {
	a, offs := newLayoutArena(t, 256, FirstFit, layout256)

	last := offs[len(offs)-1]
	got := a.Coalesce(last)
	assert.Equal(t, last, got)
	size, inUse := getBlock(t, a, last)
	assert.Equal(t, uint32(24), size)
	assert.False(t, inUse)
}

func TestCoalesce_OutOfRange(t *testing.T) {
	a, _ := newLayoutArena(t, 256, FirstFit, layout256)
	before := snapshot(t, a)

	assert.Equal(t, a.End(), a.Coalesce(a.End()))
	assert.Equal(t, before, snapshot(t, a))
}

func TestCoalesce_MovesNextFitCursor(t *testing.T) {
	a, offs := newLayoutArena(t, 256, NextFit, layout256)

	// Allocate from 32(f): cursor moves to the 64(f) after it.
	ref, _, err := a.Alloc(8)
	require.NoError(t, err)
	require.Equal(t, offs[2], a.Cursor())

	// Freeing merges 32 and 64; the cursor must not be left inside the
	// merged block.
	require.NoError(t, a.Free(ref))
	assert.Equal(t, offs[1], a.Cursor())
	assertInvariants(t, a)
}
