package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/arena"
	"github.com/joshuapare/heapkit/workload"
)

type layoutOptions struct {
	strategy string
	size     int
	ops      int
	seed     int64
	width    int
	rows     int
	blocks   bool
}

// layoutBlock is the JSON shape of one block.
type layoutBlock struct {
	Offset uint32 `json:"offset"`
	Size   uint32 `json:"size"`
	InUse  bool   `json:"in_use"`
}

type layoutReport struct {
	Strategy    string        `json:"strategy"`
	Usable      uint32        `json:"usable"`
	FreeBytes   uint64        `json:"free_bytes"`
	UsedBytes   uint64        `json:"used_bytes"`
	LargestFree uint32        `json:"largest_free"`
	Blocks      []layoutBlock `json:"blocks"`
}

func newLayoutCmd(g *globalOptions) *cobra.Command {
	opts := &layoutOptions{}
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Draw the block map of a heap after a randomized run",
		Long: `The layout command runs a short randomized workload against a fresh heap
and draws the resulting block chain: each cell stands for a fixed number of
bytes, in-use blocks are solid and free blocks are shaded.

Example:
  heapctl layout
  heapctl layout --strategy next-fit --ops 2000 --size 65536
  heapctl layout --blocks --no-color`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLayout(cmd, g, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "first-fit", "Search strategy")
	cmd.Flags().IntVar(&opts.size, "size", 16*1024, "Heap size in bytes")
	cmd.Flags().IntVar(&opts.ops, "ops", 300, "Number of alloc/free operations")
	cmd.Flags().Int64Var(&opts.seed, "seed", 1, "Random seed")
	cmd.Flags().IntVar(&opts.width, "width", 64, "Cells per map row")
	cmd.Flags().IntVar(&opts.rows, "rows", 16, "Target number of map rows")
	cmd.Flags().BoolVar(&opts.blocks, "blocks", false, "Also list every block")
	return cmd
}

func runLayout(cmd *cobra.Command, g *globalOptions, opts *layoutOptions) error {
	if opts.width <= 0 || opts.rows <= 0 {
		return fmt.Errorf("width and rows must be positive")
	}
	s, err := arena.ParseStrategy(opts.strategy)
	if err != nil {
		return err
	}
	a, err := arena.Create(opts.size, s)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := workload.Drive(cmd.Context(), a, workload.Config{Ops: opts.ops, Seed: opts.seed})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if g.jsonOut {
		rep, err := buildReport(a)
		if err != nil {
			return err
		}
		return printJSON(out, rep)
	}
	if g.quiet {
		return nil
	}

	st := newMapStyles(out, g.noColor)
	scale := cellScale(a.Size(), opts.width*opts.rows)
	m, err := renderMap(a, st, opts.width, scale)
	if err != nil {
		return err
	}

	p := newPrinter()
	p.Fprintln(out, st.title.Render(p.Sprintf("%s heap, %d usable bytes, seed %d", s, a.Size(), opts.seed)))
	p.Fprintln(out, st.frame.Render(m))
	p.Fprintln(out, st.muted.Render(p.Sprintf("%s in use  %s free  (1 cell = %d bytes)",
		st.used.Render(usedGlyph), st.free.Render(freeGlyph), scale)))
	if res.OutOfMemory {
		p.Fprintf(out, "Ran out of memory with %d operations left.\n", res.OpsLeft)
	}
	p.Fprintf(out, "%d blocks: %d free (%d bytes, largest %d), %d in use (%d bytes)\n",
		res.Usage.Blocks, res.Usage.FreeBlocks, res.Usage.FreeBytes, res.Usage.LargestFree,
		res.Usage.Blocks-res.Usage.FreeBlocks, res.Usage.UsedBytes)

	if opts.blocks {
		p.Fprintln(out)
		return a.Print(out)
	}
	return nil
}

// cellScale picks the bytes per cell so the map spans about cells cells,
// rounded up to a whole number of alignment units.
func cellScale(usable uint32, cells int) uint32 {
	scale := (usable + uint32(cells) - 1) / uint32(cells)
	if scale < 8 {
		return 8
	}
	return (scale + 7) &^ 7
}

// renderMap draws one cell per scale bytes. Every block gets at least one
// cell so small blocks stay visible.
func renderMap(a *arena.Arena, st mapStyles, width int, scale uint32) (string, error) {
	var cells []bool // true = in use
	it := a.Blocks()
	for {
		b, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		n := max(1, int(b.Size()/scale))
		for range n {
			cells = append(cells, b.InUse())
		}
	}

	rows := make([]string, 0, len(cells)/width+1)
	for lo := 0; lo < len(cells); lo += width {
		hi := min(lo+width, len(cells))
		rows = append(rows, renderRow(cells[lo:hi], st))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...), nil
}

// renderRow styles runs of equal cells together.
func renderRow(cells []bool, st mapStyles) string {
	var sb strings.Builder
	for i := 0; i < len(cells); {
		j := i
		for j < len(cells) && cells[j] == cells[i] {
			j++
		}
		if cells[i] {
			sb.WriteString(st.used.Render(strings.Repeat(usedGlyph, j-i)))
		} else {
			sb.WriteString(st.free.Render(strings.Repeat(freeGlyph, j-i)))
		}
		i = j
	}
	return sb.String()
}

func buildReport(a *arena.Arena) (layoutReport, error) {
	u, err := a.Usage()
	if err != nil {
		return layoutReport{}, err
	}
	blocks, err := collectBlocks(a)
	if err != nil {
		return layoutReport{}, err
	}
	return layoutReport{
		Strategy:    a.Strategy().String(),
		Usable:      a.Size(),
		FreeBytes:   u.FreeBytes,
		UsedBytes:   u.UsedBytes,
		LargestFree: u.LargestFree,
		Blocks:      blocks,
	}, nil
}

// collectBlocks lists the block chain in address order.
func collectBlocks(a *arena.Arena) ([]layoutBlock, error) {
	var blocks []layoutBlock
	it := a.Blocks()
	for {
		b, err := it.Next()
		if errors.Is(err, io.EOF) {
			return blocks, nil
		}
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, layoutBlock{Offset: b.Offset(), Size: b.Size(), InUse: b.InUse()})
	}
}
