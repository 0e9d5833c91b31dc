package arena

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joshuapare/heapkit/internal/format"
)

// BlockOff is the offset of a block header from the start of the arena region.
type BlockOff = uint32

// Ref is the offset of a payload from the start of the arena region. It is
// what Alloc hands out and what Free takes back; the block header sits
// format.HeaderSize bytes before it.
type Ref = uint32

// Strategy selects how Alloc searches the block chain for a free block.
type Strategy uint32

const (
	// FirstFit takes the first free block large enough, scanning from the arena start.
	FirstFit Strategy = iota
	// NextFit resumes scanning where the previous allocation left off, wrapping once.
	NextFit
	// BestFit takes the smallest free block large enough (earliest on ties).
	BestFit
)

// Valid reports whether s names a known strategy.
func (s Strategy) Valid() bool {
	return s <= BestFit
}

func (s Strategy) String() string {
	switch s {
	case FirstFit:
		return "first-fit"
	case NextFit:
		return "next-fit"
	case BestFit:
		return "best-fit"
	default:
		return fmt.Sprintf("strategy(%d)", uint32(s))
	}
}

// Strategies lists every strategy in declaration order.
func Strategies() []Strategy {
	return []Strategy{FirstFit, NextFit, BestFit}
}

// ParseStrategy accepts "first-fit", "firstfit", "first" and the like.
func ParseStrategy(s string) (Strategy, error) {
	name := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	switch name {
	case "firstfit", "first", "ff":
		return FirstFit, nil
	case "nextfit", "next", "nf":
		return NextFit, nil
	case "bestfit", "best", "bf":
		return BestFit, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Acquirer obtains n bytes of fresh memory and a function that releases it.
type Acquirer func(n int) ([]byte, func() error, error)

// Config controls arena creation. All fields are fixed once the arena exists.
type Config struct {
	// Strategy used by Alloc.
	Strategy Strategy

	// MaxUnusedBytes is the slack at or above which a free block is split
	// even when it is less than twice the request.
	MaxUnusedBytes uint32

	// Logger receives allocation traces at debug level. Nil selects the
	// package logger, which discards unless HEAP_LOG_ALLOC is set.
	Logger *slog.Logger

	// Acquire obtains the arena's memory. Nil selects osmem.Acquire.
	Acquire Acquirer
}

// DefaultConfig is used when CreateWithConfig receives nil.
var DefaultConfig = Config{
	Strategy:       FirstFit,
	MaxUnusedBytes: format.MaxUnusedBytes,
}
