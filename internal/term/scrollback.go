package term

// MaxScrollback is the bounded capacity of the scrollback ring (§6.5).
const MaxScrollback = 1000

// scrollback is a bounded FIFO of rows evicted off the top of the live grid
// by a full-screen scroll-up. It never grows past MaxScrollback; the oldest
// row is dropped on overflow.
//
// Push is called only by Grid.scrollUp when the active scroll region is the
// whole screen (scrollTop == 0) — region scrolling for pagers/editors must
// never pollute history (§4.3).
type scrollback struct {
	rows [][]Cell
}

func (s *scrollback) push(row []Cell) {
	if len(s.rows) >= MaxScrollback {
		// Drop the oldest row. Copy down rather than reslicing from an
		// offset so the backing array doesn't keep growing unbounded.
		copy(s.rows, s.rows[1:])
		s.rows[len(s.rows)-1] = row
		return
	}
	s.rows = append(s.rows, row)
}

func (s *scrollback) len() int {
	return len(s.rows)
}

func (s *scrollback) row(i int) []Cell {
	return s.rows[i]
}
