package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/arena"
)

// refBlock is one block of a reference layout.
type refBlock struct {
	size  uint32
	inUse bool
}

// referenceLayouts are the two heaps the allocator's unit checks start from.
var referenceLayouts = []struct {
	name   string
	size   int
	blocks []refBlock
}{
	{
		name:   "h0: one free block",
		size:   64,
		blocks: []refBlock{{24, false}},
	},
	{
		name: "h1: mixed blocks",
		size: 256,
		blocks: []refBlock{
			{16, true}, {32, false}, {64, false}, {32, false},
			{16, true}, {32, true}, {24, false},
		},
	},
}

func newDemoCmd(g *globalOptions) *cobra.Command {
	var strategy string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Print the reference heap layouts",
		Long: `The demo command builds the two reference heaps (a 64-byte heap holding
one free block, and a 256-byte heap of seven mixed blocks), prints every block
and the average free block size of each.

Example:
  heapctl demo
  heapctl demo --strategy best-fit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := arena.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			return runDemo(cmd.OutOrStdout(), g, s)
		},
	}
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "first-fit", "Search strategy of the demo heaps")
	return cmd
}

// demoReport is the JSON shape of one reference heap.
type demoReport struct {
	Name                 string        `json:"name"`
	Requested            int           `json:"requested"`
	Usable               uint32        `json:"usable"`
	Blocks               []layoutBlock `json:"blocks"`
	AverageFreeBlockSize uint32        `json:"average_free_block_size"`
	HasFree              bool          `json:"has_free"`
}

func runDemo(out io.Writer, g *globalOptions, s arena.Strategy) error {
	var reports []demoReport
	for i, l := range referenceLayouts {
		a, err := buildLayout(l.size, s, l.blocks)
		if err != nil {
			return fmt.Errorf("%s: %w", l.name, err)
		}
		rep, err := describeDemo(a, l.name, l.size)
		if err != nil {
			a.Close()
			return err
		}

		switch {
		case g.jsonOut:
			reports = append(reports, rep)
		default:
			if i > 0 {
				printInfo(out, g, "\n")
			}
			printInfo(out, g, "== %s (%d bytes requested, %d usable) ==\n", l.name, l.size, a.Size())
			if !g.quiet {
				if err := a.Print(out); err != nil {
					a.Close()
					return err
				}
			}
			if rep.HasFree {
				printInfo(out, g, "Average free block size: %d\n", rep.AverageFreeBlockSize)
			} else {
				printInfo(out, g, "No free blocks\n")
			}
		}
		if err := a.Close(); err != nil {
			return err
		}
	}
	if g.jsonOut {
		return printJSON(out, reports)
	}
	return nil
}

func describeDemo(a *arena.Arena, name string, requested int) (demoReport, error) {
	rep := demoReport{Name: name, Requested: requested, Usable: a.Size()}
	blocks, err := collectBlocks(a)
	if err != nil {
		return rep, err
	}
	rep.Blocks = blocks

	avg, err := a.AverageFreeBlockSize()
	switch {
	case err == nil:
		rep.AverageFreeBlockSize, rep.HasFree = avg, true
	case !errors.Is(err, arena.ErrNoFreeBlocks):
		return rep, err
	}
	return rep, nil
}

// buildLayout creates a heap and overwrites its block chain with blocks.
func buildLayout(size int, s arena.Strategy, blocks []refBlock) (*arena.Arena, error) {
	a, err := arena.Create(size, s)
	if err != nil {
		return nil, err
	}
	off := a.Start()
	for _, b := range blocks {
		if err := a.SetBlock(off, b.size, b.inUse); err != nil {
			a.Close()
			return nil, err
		}
		off += b.size
	}
	if off != a.End() {
		a.Close()
		return nil, fmt.Errorf("layout covers %d of %d usable bytes", off-a.Start(), a.Size())
	}
	if err := a.Verify(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}
