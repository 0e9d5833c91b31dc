// Package workload drives an arena with a long randomized sequence of
// allocations and frees and reports how fragmented the free space ends up.
//
// Each step allocates when nothing is live, or with a probability that falls
// as the number of live blocks approaches MaxPointers; otherwise it frees a
// random live block. Block sizes follow a skewed distribution: most requests
// are small, a few reach several kilobytes.
//
// Runs are deterministic for a given Seed, so two strategies fed the same
// seed see the same request stream until their allocation outcomes diverge.
//
// # Usage
//
//	res, err := workload.Run(ctx, workload.Config{
//	    ArenaSize: 1 << 21,
//	    Strategy:  arena.BestFit,
//	    Ops:       50000,
//	    Seed:      42,
//	})
//	fmt.Println(res.AverageFreeBlockSize)
package workload
