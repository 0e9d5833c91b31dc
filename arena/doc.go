// Package arena provides an implicit boundary-tag allocator over a single
// contiguous region of memory.
//
// # Overview
//
// An Arena obtains one region from the OS at creation and never grows it.
// Every byte of the usable region belongs to exactly one block, and every
// block carries its own metadata: a 4-byte header word at its start and an
// identical footer word at its end, each holding the block's total size with
// the low bit set when the block is in use. There is no separate free list;
// the blocks form an implicit chain in address order:
//
//	next(b) = b + size(b)
//	prev(b) = b - size(footer just before b)
//
// # Allocator Interface
//
//   - Alloc(size): Allocate a payload of at least size bytes
//   - Free(ref): Return a payload's block to the free pool
//   - AverageFreeBlockSize(): Mean size of the free blocks
//   - Print(w): Dump the block chain
//
// # Search Strategies
//
// The strategy is fixed when the arena is created:
//
//   - FirstFit: first free block large enough, from the arena start
//   - NextFit:  like FirstFit but resumes after the previous allocation
//   - BestFit:  smallest free block large enough, earliest on ties
//
// # Splitting and Coalescing
//
// A free block chosen for a request is split when it is more than twice the
// needed size or at least MaxUnusedBytes (128 by default) larger; otherwise
// the whole block is handed out. Free merges the released block with a free
// successor and a free predecessor, so the arena never holds two adjacent
// free blocks once Free returns.
//
// # Usage Example
//
//	a, err := arena.Create(1<<21, arena.BestFit)
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	ref, payload, err := a.Alloc(100)
//	if err != nil {
//	    return err
//	}
//	copy(payload, data)
//
//	// Later, free the block
//	err = a.Free(ref)
//
// # Alignment Requirements
//
// Payloads are 8-byte aligned in memory and block sizes are multiples of 8.
// A request for n bytes occupies format.SizeToAllocate(n) bytes: n rounded up
// to 8 plus the two tag words.
//
// # Thread Safety
//
// Arena instances are not thread-safe. Callers must synchronize access
// externally.
package arena
