package arena

import (
	"fmt"
	"log/slog"
	"math"
	"unsafe"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/osmem"
)

// Arena is an implicit boundary-tag allocator over one contiguous region.
//
// The region starts with a format.ArenaHeaderSize bookkeeping header; the
// usable part [start, end) is tiled by blocks with no gaps. Block metadata
// lives only in the region itself, so the Arena struct just caches the
// header fields and carries the selected search function.
//
// Arena instances are not thread-safe.
type Arena struct {
	data    []byte
	release func() error

	start BlockOff // first block header
	end   BlockOff // one past the last usable byte

	strategy  Strategy
	search    searcher
	cursor    BlockOff // next-fit resume point; always a block boundary
	maxUnused uint32

	log   *slog.Logger
	stats Stats
}

// Create acquires size bytes from the OS and lays out an arena searched with
// strategy. The usable region is smaller than size: the arena header, the
// alignment of the first payload, and a trailing fragment too small for an
// aligned block are carved off.
func Create(size int, strategy Strategy) (*Arena, error) {
	cfg := DefaultConfig
	cfg.Strategy = strategy
	return CreateWithConfig(size, &cfg)
}

// CreateWithConfig is Create with explicit configuration. A nil cfg selects
// DefaultConfig.
func CreateWithConfig(size int, cfg *Config) (*Arena, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	if !cfg.Strategy.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, uint32(cfg.Strategy))
	}
	if size <= 0 || uint64(size) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: arena size %d", ErrInvalidSize, size)
	}
	// Worst case alignment delta is PayloadAlign-1.
	if size < format.ArenaHeaderSize+format.PayloadAlignMask+format.MinBlockSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrArenaTooSmall, size)
	}
	maxUnused := cfg.MaxUnusedBytes
	if maxUnused == 0 {
		maxUnused = format.MaxUnusedBytes
	}
	if maxUnused < format.MinBlockSize {
		return nil, fmt.Errorf("%w: MaxUnusedBytes %d below minimum block size %d",
			ErrInvalidSize, maxUnused, format.MinBlockSize)
	}

	acquire := cfg.Acquire
	if acquire == nil {
		acquire = osmem.Acquire
	}
	data, release, err := acquire(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArenaExhausted, err)
	}
	if len(data) < size {
		if release != nil {
			_ = release()
		}
		return nil, fmt.Errorf("%w: got %d of %d bytes", ErrArenaExhausted, len(data), size)
	}
	data = data[:size:size]

	// Place the first header so that the first payload lands on an
	// 8-byte boundary in real memory, then trim the tail to whole blocks.
	base := uintptr(unsafe.Pointer(unsafe.SliceData(data)))
	start := format.ArenaHeaderSize + format.AlignDelta(base+format.ArenaHeaderSize)
	usable := format.TrimUsable(size - start)

	logger := cfg.Logger
	if logger == nil {
		logger = defaultLogger
	}

	a := &Arena{
		data:      data,
		release:   release,
		start:     BlockOff(start),
		end:       BlockOff(start + usable),
		strategy:  cfg.Strategy,
		search:    searcherFor(cfg.Strategy),
		cursor:    BlockOff(start),
		maxUnused: maxUnused,
		log:       logger,
	}
	a.writeHeader()
	a.setBlock(a.start, uint32(usable), false)

	a.log.Debug("arena created",
		"requested", size, "start", start, "usable", usable, "strategy", cfg.Strategy)
	return a, nil
}

// Alloc returns a payload of at least size bytes. The payload slice aliases
// the arena and is 8-byte aligned; its length is the full payload of the
// chosen block, which may exceed size when the block was not split.
//
// Errors: ErrInvalidSize for size <= 0 (the arena is untouched), ErrNoFit
// when no free block is large enough, ErrCorrupt when the block chain is
// damaged.
func (a *Arena) Alloc(size int) (Ref, []byte, error) {
	if a.data == nil {
		return 0, nil, ErrClosed
	}
	a.stats.AllocCalls++
	if size <= 0 {
		return 0, nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if size > int(a.end-a.start) {
		a.stats.NoFit++
		return 0, nil, ErrNoFit
	}
	need := uint32(format.SizeToAllocate(size))

	off, ok, err := a.search(a, need)
	if err != nil {
		return 0, nil, err
	}
	if !ok {
		a.stats.NoFit++
		a.log.Debug("no fit", "size", size, "need", need, "strategy", a.strategy)
		return 0, nil, ErrNoFit
	}

	got := a.blockSize(off)
	a.stats.BytesAllocated += int64(got)
	a.log.Debug("alloc", "size", size, "need", need, "off", off, "block", got)

	ref := payloadOf(off)
	n := got - format.TagOverhead
	return ref, a.data[ref : ref+n : ref+n], nil
}

// Free returns the block owning ref to the free pool and merges it with any
// free neighbour, so no two free blocks are ever adjacent afterwards.
//
// Free checks what it can before writing: ref must be a payload position
// inside the arena, the header and footer must agree, and the block must be
// in use. Violations return ErrBadRef, ErrCorrupt or ErrDoubleFree and leave
// the arena untouched.
func (a *Arena) Free(ref Ref) error {
	if a.data == nil {
		return ErrClosed
	}
	a.stats.FreeCalls++

	off, err := a.checkRef(ref)
	if err != nil {
		return err
	}
	size := a.blockSize(off)
	if !a.blockInUse(off) {
		return fmt.Errorf("%w: ref %d", ErrDoubleFree, ref)
	}

	a.setBlock(off, size, false)
	a.stats.BytesFreed += int64(size)
	a.log.Debug("free", "ref", ref, "off", off, "size", size)

	off = a.coalesceForward(off)
	a.coalesceBackward(off)
	return nil
}

// checkRef validates ref and returns its block offset.
func (a *Arena) checkRef(ref Ref) (BlockOff, error) {
	if ref < a.start+format.HeaderSize || ref >= a.end {
		return 0, fmt.Errorf("%w: ref %d outside arena", ErrBadRef, ref)
	}
	off := blockStart(ref)
	if err := a.checkBlock(off); err != nil {
		return 0, fmt.Errorf("ref %d: %w", ref, err)
	}
	b := Block{data: a.data, off: off}
	if !b.Consistent() {
		return 0, fmt.Errorf("%w: block at %d header %#x footer %#x",
			ErrCorrupt, off, b.Header(), b.Footer())
	}
	return off, nil
}

// AverageFreeBlockSize returns the integer mean size of the free blocks.
// It returns ErrNoFreeBlocks when every block is in use.
func (a *Arena) AverageFreeBlockSize() (uint32, error) {
	if a.data == nil {
		return 0, ErrClosed
	}
	var (
		sum   uint64
		count uint64
	)
	err := a.walk(a.start, a.end, func(_ BlockOff, t format.Tag) bool {
		if !t.InUse {
			sum += uint64(t.Size)
			count++
		}
		return true
	})
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrNoFreeBlocks
	}
	return uint32(sum / count), nil
}

// Start returns the offset of the first block.
func (a *Arena) Start() BlockOff { return a.start }

// End returns the offset one past the last usable byte.
func (a *Arena) End() BlockOff { return a.end }

// Size returns the usable size: the sum of all block sizes.
func (a *Arena) Size() uint32 { return a.end - a.start }

// Strategy returns the search strategy fixed at creation.
func (a *Arena) Strategy() Strategy { return a.strategy }

// Cursor returns the block at which the next next-fit search starts.
func (a *Arena) Cursor() BlockOff { return a.cursor }

// Bytes returns the whole region, arena header included.
func (a *Arena) Bytes() []byte { return a.data }

// Close releases the region. The arena must not be used afterwards.
func (a *Arena) Close() error {
	if a.data == nil {
		return nil
	}
	a.data = nil
	if a.release == nil {
		return nil
	}
	return a.release()
}

func (a *Arena) setCursor(off BlockOff) {
	a.cursor = off
	format.PutU64(a.data, format.ArenaCursorOffset, uint64(off))
}

func (a *Arena) writeHeader() {
	format.PutArenaHeader(a.data, format.ArenaHeader{
		Start:    uint64(a.start),
		Size:     uint64(a.end - a.start),
		Strategy: uint32(a.strategy),
		Cursor:   uint64(a.cursor),
	})
}

// validNeed reports whether need is a well-formed total block size.
func validNeed(need uint32) bool {
	return need >= format.MinBlockSize && need%format.PayloadAlign == 0
}
