// Package term — grid.go implements the Cell Grid (the VT parser's
// Consumer): cursor movement, line/character editing, scroll regions, and
// the print/execute contract from spec §4.2. SGR lives in sgr.go, CSI
// dispatch in csi.go, ESC dispatch in esc.go — mirroring how the teacher
// splits screen.go / screen_csi.go / screen_ops.go / screen_parser.go across
// files of one package rather than one file per concern.
package term

import "sync"

// Grid is a VT100-compatible terminal screen: a live cell buffer, cursor,
// scroll region, saved-cursor slot, current drawing attributes, plus the
// scrollback ring, selection, mouse-reporting state, and damage tracker that
// observe it. One Grid exists for the life of one terminal session/tab.
//
// Grid is safe for concurrent use. Mutation only ever happens through Feed,
// called from the single goroutine driving the parser; Cursor, CellAt,
// VisibleRow, Selection text, and TakeDamage may be called concurrently from
// a renderer or input-handling goroutine. One mutex covers grid + scrollback
// + selection + damage as a single unit (§5 "shared-resource policy").
type Grid struct {
	mu sync.Mutex

	parser *Parser

	cols, rows int
	cells      [][]Cell
	cursorRow  int
	cursorCol  int

	curAttrs Attrs
	curFG    Color
	curBG    Color
	curBGSet bool

	scrollTop    int // 0-based, inclusive
	scrollBottom int // 0-based, inclusive

	savedRow, savedCol int

	scrollback scrollback
	sel        selection
	mouse      mouseState
	damage     damageTracker

	displayOffset int

	pendingWrites []byte

	// Title is the most recent OSC 0/2 window-title payload. OSC handling
	// beyond title capture is forwarded to the host, not interpreted here
	// (§4.2 "OSC dispatch").
	Title string

	// OnBell is invoked (if non-nil) when BEL (0x07) is executed. The host
	// may use it to ring a UI bell; the grid itself treats BEL as a no-op.
	OnBell func()
}

// NewGrid allocates a Grid of the given dimensions. rows and cols must be >= 1.
func NewGrid(rows, cols int) *Grid {
	g := &Grid{
		parser:       NewParser(),
		cols:         cols,
		rows:         rows,
		cells:        makeCells(rows, cols),
		scrollBottom: rows - 1,
		curFG:        DefaultFG,
		damage:       newDamageTracker(),
	}
	return g
}

func makeCells(rows, cols int) [][]Cell {
	g := make([][]Cell, rows)
	for r := range g {
		g[r] = blankRow(cols)
	}
	return g
}

// Feed parses and applies raw PTY output bytes. It holds the grid's lock for
// the whole call, matching §5: "no suspension inside ... any single grid
// mutation" — a Feed call for a 4096-byte PTY read is one bounded unit of
// work performed under one lock acquisition, not one lock per byte.
func (g *Grid) Feed(data []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.parser.Write(g, data)
}

// Cols returns the column count.
func (g *Grid) Cols() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cols
}

// Rows returns the row count.
func (g *Grid) Rows() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rows
}

// Cursor returns the 0-based cursor position.
func (g *Grid) Cursor() (row, col int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cursorRow, g.cursorCol
}

// CellAt returns the live (non-scrollback) cell at (row,col). Out-of-bounds
// coordinates return a blank cell.
func (g *Grid) CellAt(row, col int) Cell {
	g.mu.Lock()
	defer g.mu.Unlock()
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return Blank()
	}
	return g.cells[row][col]
}

// Resize changes the grid dimensions, preserving content where possible,
// clamping the cursor into the new bounds, resetting the scroll region to
// the full screen, and clearing any active selection.
func (g *Grid) Resize(rows, cols int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	next := makeCells(rows, cols)
	for r := 0; r < rows && r < g.rows; r++ {
		copy(next[r], g.cells[r])
		for c := g.cols; c < cols; c++ {
			next[r][c] = Blank()
		}
	}
	g.cells = next
	g.rows, g.cols = rows, cols

	if g.cursorRow >= rows {
		g.cursorRow = rows - 1
	}
	if g.cursorCol > cols {
		g.cursorCol = cols
	}
	g.scrollTop = 0
	g.scrollBottom = rows - 1
	g.sel.clear()
	g.damage.markFull()
}

// ---------------------------------------------------------------------------
// Viewport (scrollback + live)
// ---------------------------------------------------------------------------

// ScrollbackLen returns the number of rows currently held in scrollback.
func (g *Grid) ScrollbackLen() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scrollback.len()
}

// DisplayOffset returns the current viewport offset (0 = live bottom).
func (g *Grid) DisplayOffset() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.displayOffset
}

// SetDisplayOffset sets the viewport offset, clamped to
// [0, scrollback.len()].
func (g *Grid) SetDisplayOffset(offset int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.setDisplayOffsetLocked(offset)
}

func (g *Grid) setDisplayOffsetLocked(offset int) {
	if offset < 0 {
		offset = 0
	}
	if max := g.scrollback.len(); offset > max {
		offset = max
	}
	g.displayOffset = offset
}

// VisibleRow returns a copy of the i-th visible row (0 ≤ i < rows), taking
// the current display offset into account. i==0 is the top of the viewport.
func (g *Grid) VisibleRow(i int) []Cell {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.visibleRowLocked(i)
}

// visibleRowLocked implements §3 "Viewport": visible row i is, from the
// concatenation scrollback++cells, the slice ending at len-display_offset,
// of length rows, indexed at i.
func (g *Grid) visibleRowLocked(i int) []Cell {
	total := g.scrollback.len() + g.rows
	end := total - g.displayOffset
	start := end - g.rows
	idx := start + i
	if idx < 0 || idx >= total {
		return blankRow(g.cols)
	}
	if idx < g.scrollback.len() {
		return g.scrollback.row(idx)
	}
	return g.cells[idx-g.scrollback.len()]
}

// ---------------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------------

// BeginSelection starts a new selection anchored at viewport (col,row) and
// clears any previous one.
func (g *Grid) BeginSelection(col, row int, mode SelectionMode) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sel.begin(col, row, mode)
}

// UpdateSelection moves the selection head to viewport (col,row).
func (g *Grid) UpdateSelection(col, row int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sel.update(col, row)
}

// ClearSelection deactivates the current selection.
func (g *Grid) ClearSelection() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sel.clear()
}

// IsSelected reports whether viewport cell (col,row) is part of the active
// selection.
func (g *Grid) IsSelected(col, row int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sel.contains(col, row)
}

// SelectionText returns the UTF-8 text of the active selection, or "" if
// none is active.
func (g *Grid) SelectionText() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sel.text(g.cols, g.visibleRowLocked)
}

// NotifyInput clears any active selection — any keyboard input or a new
// mousedown clears it (§4.4).
func (g *Grid) NotifyInput() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sel.clear()
}

// ---------------------------------------------------------------------------
// Mouse
// ---------------------------------------------------------------------------

// MouseModeState returns the active mouse-reporting mode.
func (g *Grid) MouseModeState() MouseMode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mouse.Mode()
}

// ReportMouse appends an SGR mouse report to pending_writes if a reporting
// mode applicable to this event is active, per §4.5:
//   - Click (1000): press/release only, no motion.
//   - Drag (1002): press/release, plus motion while button is held.
//   - AllMotion (1003): press/release, plus all motion.
//
// No report of any kind is emitted unless SGR (1006) is enabled, since legacy
// X10 encoding is not implemented (§4.5).
func (g *Grid) ReportMouse(b MouseButton, mod MouseMod, col, row int, pressed, motion bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.mouse.sgr {
		return
	}
	switch g.mouse.mode {
	case MouseOff:
		return
	case MouseClick:
		if motion {
			return
		}
	case MouseDrag:
		if motion && b == MouseNone {
			return
		}
	case MouseAllMotion:
		// all motion reported
	}
	g.pendingWrites = append(g.pendingWrites, report(b, mod, col, row, pressed, motion)...)
}

// TakePendingWrites drains and returns bytes the grid wants written back to
// the PTY (mouse reports, DA/DSR responses), clearing the buffer.
func (g *Grid) TakePendingWrites() []byte {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.pendingWrites) == 0 {
		return nil
	}
	out := g.pendingWrites
	g.pendingWrites = nil
	return out
}

// ---------------------------------------------------------------------------
// Damage
// ---------------------------------------------------------------------------

// TakeDamage returns and clears the outstanding damage.
func (g *Grid) TakeDamage() Damage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.damage.take()
}
