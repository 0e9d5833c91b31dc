package main

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	// Color palette
	primaryColor = lipgloss.Color("#7D56F4")
	usedColor    = lipgloss.Color("#04B575")
	freeColor    = lipgloss.Color("#666666")
	borderColor  = lipgloss.Color("#383838")
)

const (
	usedGlyph = "█"
	freeGlyph = "░"
)

// mapStyles are the lipgloss styles of the block map, bound to one renderer
// so colour detection follows the output writer rather than os.Stdout.
type mapStyles struct {
	title lipgloss.Style
	used  lipgloss.Style
	free  lipgloss.Style
	frame lipgloss.Style
	muted lipgloss.Style
}

func newMapStyles(w io.Writer, noColor bool) mapStyles {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return mapStyles{
		title: r.NewStyle().Bold(true).Foreground(primaryColor),
		used:  r.NewStyle().Foreground(usedColor),
		free:  r.NewStyle().Foreground(freeColor),
		frame: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1),
		muted: r.NewStyle().Foreground(freeColor).Italic(true),
	}
}
