package arena

import "errors"

var (
	// ErrArenaExhausted indicates that the OS refused to provide the arena's memory.
	ErrArenaExhausted = errors.New("arena: memory acquisition failed")

	// ErrArenaTooSmall indicates the requested arena cannot hold a single block.
	ErrArenaTooSmall = errors.New("arena: size too small for one block")

	// ErrUnknownStrategy indicates a search strategy outside FirstFit, NextFit, BestFit.
	ErrUnknownStrategy = errors.New("arena: unknown search strategy")

	// ErrInvalidSize indicates a zero, negative or unencodable size.
	ErrInvalidSize = errors.New("arena: invalid size")

	// ErrNoFit indicates that no free block large enough was found.
	ErrNoFit = errors.New("arena: no free block large enough")

	// ErrBadRef indicates a reference or offset that cannot name a block.
	ErrBadRef = errors.New("arena: bad block reference")

	// ErrDoubleFree indicates an attempt to free a block that is already free.
	ErrDoubleFree = errors.New("arena: block already free")

	// ErrCorrupt indicates header/footer disagreement or a broken block chain.
	ErrCorrupt = errors.New("arena: corrupt block")

	// ErrNoFreeBlocks indicates a free-block statistic was requested on a full arena.
	ErrNoFreeBlocks = errors.New("arena: no free blocks")

	// ErrClosed indicates use of an arena after Close.
	ErrClosed = errors.New("arena: closed")
)
