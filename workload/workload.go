package workload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/heapkit/arena"
)

const (
	// DefaultArenaSize is the arena requested for each run (2 MiB).
	DefaultArenaSize = 1 << 21

	// DefaultOps is the number of alloc/free steps per run.
	DefaultOps = 50000

	// DefaultMaxPointers bounds the number of live blocks.
	DefaultMaxPointers = 1000

	// ctxCheckInterval is how many steps run between context checks.
	ctxCheckInterval = 1024
)

// Config describes one workload run. Zero fields take the defaults above.
type Config struct {
	ArenaSize      int
	Strategy       arena.Strategy
	MaxUnusedBytes uint32
	Ops            int
	MaxPointers    int
	Seed           int64

	// Logger receives a debug summary line per run. Nil discards.
	Logger *slog.Logger
}

// Result summarises a finished run.
type Result struct {
	Strategy arena.Strategy
	Seed     int64

	// AverageFreeBlockSize is the mean free block size at the end of the
	// run; zero when HasFree is false.
	AverageFreeBlockSize uint32
	HasFree              bool

	Allocs int // successful allocations
	Frees  int // frees
	Live   int // blocks still allocated at the end

	// OutOfMemory is set when an allocation failed with no fitting block;
	// OpsLeft is the number of steps that were not run.
	OutOfMemory bool
	OpsLeft     int

	Stats arena.Stats
	Usage arena.Usage
}

func (c Config) withDefaults() Config {
	if c.ArenaSize == 0 {
		c.ArenaSize = DefaultArenaSize
	}
	if c.Ops == 0 {
		c.Ops = DefaultOps
	}
	if c.MaxPointers == 0 {
		c.MaxPointers = DefaultMaxPointers
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// BlockSize draws a request size: start at 4 and keep doubling up to 512
// with probability 5/6 per step, then up to 2048 with probability 1/2, and
// finally add a uniform offset below the size reached.
func BlockSize(rng *rand.Rand) int {
	size := 4
	for size < 512 && rng.Intn(6) != 0 {
		size <<= 1
	}
	for size < 2048 && rng.Intn(2) != 0 {
		size <<= 1
	}
	return size + rng.Intn(size)
}

// Run executes one workload against a fresh arena. Running out of arena
// space is not an error: the run stops and Result.OutOfMemory is set.
func Run(ctx context.Context, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()
	a, err := arena.CreateWithConfig(cfg.ArenaSize, &arena.Config{
		Strategy:       cfg.Strategy,
		MaxUnusedBytes: cfg.MaxUnusedBytes,
	})
	if err != nil {
		return Result{}, fmt.Errorf("workload: create arena: %w", err)
	}
	defer a.Close()
	return Drive(ctx, a, cfg)
}

// Drive executes the workload against an existing arena and leaves the
// surviving allocations in place, so callers can inspect the final layout.
// cfg.ArenaSize, cfg.Strategy and cfg.MaxUnusedBytes are ignored; the
// arena's own settings apply.
func Drive(ctx context.Context, a *arena.Arena, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()
	if cfg.Ops < 0 || cfg.MaxPointers <= 0 {
		return Result{}, fmt.Errorf("workload: ops %d must not be negative and max pointers %d must be positive", cfg.Ops, cfg.MaxPointers)
	}

	res := Result{Strategy: a.Strategy(), Seed: cfg.Seed}
	rng := rand.New(rand.NewSource(cfg.Seed))
	live := make([]arena.Ref, 0, cfg.MaxPointers)

	for ops := cfg.Ops; ops > 0; ops-- {
		if ops%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		if len(live) == 0 || rng.Intn(cfg.MaxPointers) > len(live) {
			ref, _, err := a.Alloc(BlockSize(rng))
			if errors.Is(err, arena.ErrNoFit) {
				res.OutOfMemory = true
				res.OpsLeft = ops - 1
				break
			}
			if err != nil {
				return res, fmt.Errorf("workload: alloc: %w", err)
			}
			live = append(live, ref)
			res.Allocs++
			continue
		}

		i := rng.Intn(len(live))
		if err := a.Free(live[i]); err != nil {
			return res, fmt.Errorf("workload: free: %w", err)
		}
		live[i] = live[len(live)-1]
		live = live[:len(live)-1]
		res.Frees++
	}

	res.Live = len(live)
	avg, err := a.AverageFreeBlockSize()
	switch {
	case err == nil:
		res.AverageFreeBlockSize = avg
		res.HasFree = true
	case !errors.Is(err, arena.ErrNoFreeBlocks):
		return res, err
	}
	if res.Usage, err = a.Usage(); err != nil {
		return res, err
	}
	res.Stats = a.Stats()

	cfg.Logger.Debug("workload finished",
		"strategy", res.Strategy,
		"seed", cfg.Seed,
		"allocs", res.Allocs,
		"frees", res.Frees,
		"avg_free", res.AverageFreeBlockSize,
		"out_of_memory", res.OutOfMemory,
	)
	return res, nil
}

// RunAll runs the same workload once per strategy, each on its own arena,
// in parallel. Results come back in the order of strategies.
func RunAll(ctx context.Context, cfg Config, strategies []arena.Strategy) ([]Result, error) {
	results := make([]Result, len(strategies))
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range strategies {
		g.Go(func() error {
			c := cfg
			c.Strategy = s
			res, err := Run(ctx, c)
			if err != nil {
				return fmt.Errorf("%s: %w", s, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
