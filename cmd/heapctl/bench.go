package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/workload"
)

type benchOptions struct {
	strategies  []string
	size        int
	ops         int
	seed        int64
	maxPointers int
	maxUnused   uint32
}

// benchResult is the JSON shape of one strategy's run.
type benchResult struct {
	Strategy             string `json:"strategy"`
	Seed                 int64  `json:"seed"`
	AverageFreeBlockSize uint32 `json:"average_free_block_size"`
	FreeBlocks           int    `json:"free_blocks"`
	LargestFree          uint32 `json:"largest_free"`
	Allocs               int    `json:"allocs"`
	Frees                int    `json:"frees"`
	Live                 int    `json:"live"`
	OutOfMemory          bool   `json:"out_of_memory"`
	OpsLeft              int    `json:"ops_left,omitempty"`
	Splits               int    `json:"splits"`
	Coalesces            int    `json:"coalesces"`
	BlocksScanned        int    `json:"blocks_scanned"`
}

func newBenchCmd(g *globalOptions) *cobra.Command {
	opts := &benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure fragmentation under a randomized workload",
		Long: `The bench command runs the same randomized sequence of allocations and
frees against a fresh heap for each search strategy and reports the average
free block size left behind. Larger averages mean less fragmentation.

Example:
  heapctl bench
  heapctl bench --strategy best-fit --ops 100000 --seed 7
  heapctl bench --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("seed") {
				opts.seed = time.Now().UnixNano()
			}
			return runBench(cmd, g, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.strategies, "strategy", "s", nil, "Strategies to run (first-fit, next-fit, best-fit); default all")
	cmd.Flags().IntVar(&opts.size, "size", workload.DefaultArenaSize, "Heap size in bytes")
	cmd.Flags().IntVar(&opts.ops, "ops", workload.DefaultOps, "Number of alloc/free operations")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Random seed (default: time based)")
	cmd.Flags().IntVar(&opts.maxPointers, "max-pointers", workload.DefaultMaxPointers, "Maximum number of live allocations")
	cmd.Flags().Uint32Var(&opts.maxUnused, "max-unused", 0, "Split blocks whose slack reaches this many bytes (0: default)")
	return cmd
}

func runBench(cmd *cobra.Command, g *globalOptions, opts *benchOptions) error {
	strategies, err := parseStrategies(opts.strategies)
	if err != nil {
		return err
	}

	results, err := workload.RunAll(cmd.Context(), workload.Config{
		ArenaSize:      opts.size,
		MaxUnusedBytes: opts.maxUnused,
		Ops:            opts.ops,
		MaxPointers:    opts.maxPointers,
		Seed:           opts.seed,
		Logger:         slog.Default(),
	}, strategies)
	if err != nil {
		return fmt.Errorf("bench: %w", err)
	}

	out := cmd.OutOrStdout()
	if g.jsonOut {
		rows := make([]benchResult, 0, len(results))
		for _, r := range results {
			rows = append(rows, toBenchResult(r))
		}
		return printJSON(out, rows)
	}

	printInfo(out, g, "Heap %d bytes, %d operations, seed %d\n", opts.size, opts.ops, opts.seed)
	for _, r := range results {
		if r.OutOfMemory {
			printInfo(out, g, "%s: ran out of memory with %d operations left.\n", r.Strategy, r.OpsLeft)
		}
		if !r.HasFree {
			printInfo(out, g, "%-9s  no free blocks left\n", r.Strategy)
			continue
		}
		printInfo(out, g, "%-9s  average free block size: %d bytes (%d free blocks, largest %d)\n",
			r.Strategy, r.AverageFreeBlockSize, r.Usage.FreeBlocks, r.Usage.LargestFree)
		if g.verbose {
			printInfo(out, g, "           allocs %d, frees %d, splits %d, coalesces %d, blocks scanned %d\n",
				r.Allocs, r.Frees, r.Stats.SplitCount,
				r.Stats.CoalesceForward+r.Stats.CoalesceBackward, r.Stats.BlocksScanned)
		}
	}
	return nil
}

func toBenchResult(r workload.Result) benchResult {
	return benchResult{
		Strategy:             r.Strategy.String(),
		Seed:                 r.Seed,
		AverageFreeBlockSize: r.AverageFreeBlockSize,
		FreeBlocks:           r.Usage.FreeBlocks,
		LargestFree:          r.Usage.LargestFree,
		Allocs:               r.Allocs,
		Frees:                r.Frees,
		Live:                 r.Live,
		OutOfMemory:          r.OutOfMemory,
		OpsLeft:              r.OpsLeft,
		Splits:               r.Stats.SplitCount,
		Coalesces:            r.Stats.CoalesceForward + r.Stats.CoalesceBackward,
		BlocksScanned:        r.Stats.BlocksScanned,
	}
}

