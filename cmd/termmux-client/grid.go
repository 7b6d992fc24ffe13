package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/patrick-goecommerce/termmux/internal/term"
)

// grid renders a term.Grid to a string for bubbletea's View, styling
// non-default cells with lipgloss (see styleCell). It owns
// no terminal state of its own beyond the underlying Grid, which already
// does all the VT parsing and cell bookkeeping.
type grid struct {
	g *term.Grid
}

func newGrid(rows, cols int) *grid {
	return &grid{g: term.NewGrid(rows, cols)}
}

func (gr *grid) write(data []byte) {
	gr.g.Feed(data)
}

func (gr *grid) resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	gr.g.Resize(rows, cols)
}

func (gr *grid) render() string {
	rows := gr.g.Rows()
	cols := gr.g.Cols()
	var b strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := gr.g.CellAt(r, c)
			if cell.Ch == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(styleCell(cell))
		}
		if r != rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func styleCell(cell term.Cell) string {
	if cell.Attrs == (term.Attrs{}) && !cell.BGSet && cell.FG == term.DefaultFG {
		return string(cell.Ch)
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(cell.FG)))
	if cell.BGSet {
		style = style.Background(lipgloss.Color(hexColor(cell.BG)))
	}
	if cell.Attrs.Bold {
		style = style.Bold(true)
	}
	if cell.Attrs.Italic {
		style = style.Italic(true)
	}
	if cell.Attrs.Underline {
		style = style.Underline(true)
	}
	if cell.Attrs.Inverse {
		style = style.Reverse(true)
	}
	return style.Render(string(cell.Ch))
}

func hexColor(c term.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
