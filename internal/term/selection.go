package term

import "strings"

// SelectionMode distinguishes linear (reading-order) selection from
// rectangular (column-bounded) selection. Only linear is ever produced by
// Grid's public Begin/Update today — rectangular is modeled because the
// source material's data types allow for it, but nothing exposes it (see
// Open Questions in §9; this follows the sources and leaves it unexposed).
type SelectionMode int

const (
	SelectionLinear SelectionMode = iota
	SelectionRectangular
)

// point is a viewport-relative coordinate.
type point struct {
	col, row int
}

// selection tracks one anchored selection over viewport coordinates. The
// zero value is "no selection".
type selection struct {
	active bool
	mode   SelectionMode
	anchor point
	head   point
}

func (s *selection) begin(col, row int, mode SelectionMode) {
	s.active = true
	s.mode = mode
	s.anchor = point{col, row}
	s.head = point{col, row}
}

func (s *selection) update(col, row int) {
	if !s.active {
		return
	}
	s.head = point{col, row}
}

func (s *selection) clear() {
	s.active = false
}

// bounds normalizes anchor/head so iteration always proceeds from the
// smaller row/col to the larger one.
func (s *selection) bounds() (startRow, startCol, endRow, endCol int) {
	a, h := s.anchor, s.head
	if a.row > h.row || (a.row == h.row && a.col > h.col) {
		a, h = h, a
	}
	return a.row, a.col, h.row, h.col
}

// contains reports whether viewport cell (col,row) falls inside the active
// selection.
func (s *selection) contains(col, row int) bool {
	if !s.active {
		return false
	}
	startRow, startCol, endRow, endCol := s.bounds()
	if row < startRow || row > endRow {
		return false
	}
	if s.mode == SelectionRectangular {
		lo, hi := startCol, endCol
		if lo > hi {
			lo, hi = hi, lo
		}
		return col >= lo && col <= hi
	}
	// Linear: full lines in between, partial on the first/last row.
	if startRow == endRow {
		lo, hi := startCol, endCol
		if lo > hi {
			lo, hi = hi, lo
		}
		return col >= lo && col <= hi
	}
	if row == startRow {
		return col >= startCol
	}
	if row == endRow {
		return col <= endCol
	}
	return true
}

// text renders the selected cells as UTF-8, trailing spaces stripped per
// line, lines joined with "\n". rowAt supplies the cells for a given
// viewport row (0 ≤ i < visible rows).
func (s *selection) text(cols int, rowAt func(row int) []Cell) string {
	if !s.active {
		return ""
	}
	startRow, startCol, endRow, endCol := s.bounds()

	var lines []string
	for row := startRow; row <= endRow; row++ {
		cells := rowAt(row)
		lo, hi := 0, cols-1
		switch {
		case s.mode == SelectionRectangular:
			lo, hi = startCol, endCol
			if lo > hi {
				lo, hi = hi, lo
			}
		case startRow == endRow:
			lo, hi = startCol, endCol
			if lo > hi {
				lo, hi = hi, lo
			}
		case row == startRow:
			lo = startCol
		case row == endRow:
			hi = endCol
		}
		if lo < 0 {
			lo = 0
		}
		if hi > cols-1 {
			hi = cols - 1
		}
		var b strings.Builder
		for c := lo; c <= hi && c < len(cells); c++ {
			ch := cells[c].Ch
			if ch == 0 {
				ch = ' '
			}
			b.WriteRune(ch)
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return strings.Join(lines, "\n")
}
