package term

// ops.go implements print/execute and the line/character editing and
// scrolling primitives the CSI table (csi.go) dispatches into — the
// Go-idiomatic split of what the teacher keeps together in screen.go's
// putChar/lineFeed/scrollUp/scrollDown/eraseDisplay/eraseLine/insertLines/
// deleteLines/deleteChars/insertChars.

// print implements Consumer.print: writes one rune at the cursor, advancing
// it and wrapping at the right margin (§4.2 "Print contract"). A
// double-width rune that would land in the last column instead wraps first
// (it can never fit in a single trailing column).
func (g *Grid) print(r rune) {
	w := runeWidth(r)
	if g.cursorCol+int(w) > g.cols {
		g.wrapLine()
	}
	g.setCell(g.cursorRow, g.cursorCol, Cell{Ch: r, Width: w, FG: g.curFG, BG: g.curBG, BGSet: g.curBGSet, Attrs: g.curAttrs})
	if w == 2 && g.cursorCol+1 < g.cols {
		g.setCell(g.cursorRow, g.cursorCol+1, Cell{Ch: 0, Width: 0, FG: g.curFG, BG: g.curBG, BGSet: g.curBGSet, Attrs: g.curAttrs})
	}
	g.cursorCol += int(w)
	if g.cursorCol >= g.cols {
		// Transient one-past-end state (§3 "Cursor"): the cursor stays at
		// cols (not clamped to cols-1) until the next print wraps it to
		// column 0 of the next line.
		g.cursorCol = g.cols
	}
}

func (g *Grid) wrapLine() {
	g.cursorCol = 0
	g.lineFeed()
}

func (g *Grid) setCell(row, col int, c Cell) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return
	}
	g.cells[row][col] = c
	g.damage.markLine(row)
}

// execute implements Consumer.execute for the C0 control set §4.2 names:
// BEL, BS, HT, LF/VT/FF, CR. Unrecognized C0/C1 bytes are no-ops.
func (g *Grid) execute(b byte) {
	switch b {
	case 0x07: // BEL
		if g.OnBell != nil {
			g.OnBell()
		}
	case 0x08: // BS
		if g.cursorCol > 0 {
			g.cursorCol--
		}
		g.damage.markCursor()
	case 0x09: // HT: next tab stop, every 8 columns
		next := (g.cursorCol/8 + 1) * 8
		if next >= g.cols {
			next = g.cols - 1
		}
		g.cursorCol = next
		g.damage.markCursor()
	case 0x0a, 0x0b, 0x0c: // LF, VT, FF
		g.lineFeed()
	case 0x0d: // CR
		g.cursorCol = 0
		g.damage.markCursor()
	}
}

// lineFeed moves the cursor down one row, scrolling the active region if
// already at its bottom.
func (g *Grid) lineFeed() {
	if g.cursorRow == g.scrollBottom {
		g.scrollUp(1)
		return
	}
	if g.cursorRow < g.rows-1 {
		g.cursorRow++
	}
	g.damage.markCursor()
}

// reverseLineFeed moves the cursor up one row, scrolling the region down if
// already at its top (ESC M).
func (g *Grid) reverseLineFeed() {
	if g.cursorRow == g.scrollTop {
		g.scrollDown(1)
		return
	}
	if g.cursorRow > 0 {
		g.cursorRow--
	}
	g.damage.markCursor()
}

// scrollUp shifts the active scroll region up by n rows, filling the bottom
// with blanks. Rows scrolled off the TOP of a full-screen region (scrollTop
// == 0) are pushed to scrollback (§4.3); region-bounded scrolling for
// pagers/split-screen apps never touches scrollback.
func (g *Grid) scrollUp(n int) {
	top, bottom := g.scrollTop, g.scrollBottom
	full := top == 0
	for i := 0; i < n; i++ {
		if full {
			g.scrollback.push(g.cells[top])
		}
		copy(g.cells[top:bottom], g.cells[top+1:bottom+1])
		g.cells[bottom] = blankRow(g.cols)
	}
	g.damage.markFull()
}

// scrollDown shifts the active scroll region down by n rows, filling the
// top with blanks. Never interacts with scrollback.
func (g *Grid) scrollDown(n int) {
	top, bottom := g.scrollTop, g.scrollBottom
	for i := 0; i < n; i++ {
		copy(g.cells[top+1:bottom+1], g.cells[top:bottom])
		g.cells[top] = blankRow(g.cols)
	}
	g.damage.markFull()
}

// eraseDisplay implements ED (CSI J). mode: 0=cursor..end, 1=start..cursor,
// 2/3=whole screen (3 additionally clears scrollback).
func (g *Grid) eraseDisplay(mode int) {
	switch mode {
	case 0:
		g.eraseLineFrom(g.cursorRow, g.cursorCol, g.cols)
		for r := g.cursorRow + 1; r < g.rows; r++ {
			g.cells[r] = blankRow(g.cols)
		}
	case 1:
		g.eraseLineFrom(g.cursorRow, 0, g.cursorCol+1)
		for r := 0; r < g.cursorRow; r++ {
			g.cells[r] = blankRow(g.cols)
		}
	case 2:
		for r := 0; r < g.rows; r++ {
			g.cells[r] = blankRow(g.cols)
		}
	case 3:
		for r := 0; r < g.rows; r++ {
			g.cells[r] = blankRow(g.cols)
		}
		g.scrollback = scrollback{}
	}
	g.damage.markFull()
}

// eraseLine implements EL (CSI K). mode: 0=cursor..end, 1=start..cursor,
// 2=whole line.
func (g *Grid) eraseLine(mode int) {
	switch mode {
	case 0:
		g.eraseLineFrom(g.cursorRow, g.cursorCol, g.cols)
	case 1:
		g.eraseLineFrom(g.cursorRow, 0, g.cursorCol+1)
	case 2:
		g.eraseLineFrom(g.cursorRow, 0, g.cols)
	}
}

func (g *Grid) eraseLineFrom(row, from, to int) {
	if row < 0 || row >= g.rows {
		return
	}
	if from < 0 {
		from = 0
	}
	if to > g.cols {
		to = g.cols
	}
	for c := from; c < to; c++ {
		g.cells[row][c] = Blank()
	}
	g.damage.markLine(row)
}

// insertLines implements IL (CSI L): insert n blank lines at the cursor row,
// within the scroll region, pushing lines below down and off the bottom.
func (g *Grid) insertLines(n int) {
	if g.cursorRow < g.scrollTop || g.cursorRow > g.scrollBottom {
		return
	}
	for i := 0; i < n; i++ {
		copy(g.cells[g.cursorRow+1:g.scrollBottom+1], g.cells[g.cursorRow:g.scrollBottom])
		g.cells[g.cursorRow] = blankRow(g.cols)
	}
	g.damage.markFull()
}

// deleteLines implements DL (CSI M): delete n lines at the cursor row,
// within the scroll region, pulling lines below up and blanking the bottom.
func (g *Grid) deleteLines(n int) {
	if g.cursorRow < g.scrollTop || g.cursorRow > g.scrollBottom {
		return
	}
	for i := 0; i < n; i++ {
		copy(g.cells[g.cursorRow:g.scrollBottom], g.cells[g.cursorRow+1:g.scrollBottom+1])
		g.cells[g.scrollBottom] = blankRow(g.cols)
	}
	g.damage.markFull()
}

// deleteChars implements DCH (CSI P): delete n chars at the cursor,
// shifting the remainder of the line left and blanking the tail.
func (g *Grid) deleteChars(n int) {
	row := g.cells[g.cursorRow]
	if n > g.cols-g.cursorCol {
		n = g.cols - g.cursorCol
	}
	copy(row[g.cursorCol:g.cols-n], row[g.cursorCol+n:g.cols])
	for c := g.cols - n; c < g.cols; c++ {
		row[c] = Blank()
	}
	g.damage.markLine(g.cursorRow)
}

// insertChars implements ICH (CSI @): insert n blanks at the cursor,
// shifting the remainder of the line right and discarding what falls off.
func (g *Grid) insertChars(n int) {
	row := g.cells[g.cursorRow]
	if n > g.cols-g.cursorCol {
		n = g.cols - g.cursorCol
	}
	copy(row[g.cursorCol+n:g.cols], row[g.cursorCol:g.cols-n])
	for c := g.cursorCol; c < g.cursorCol+n; c++ {
		row[c] = Blank()
	}
	g.damage.markLine(g.cursorRow)
}

// eraseChars implements ECH (CSI X): overwrite n chars at the cursor with
// blanks, without shifting the rest of the line.
func (g *Grid) eraseChars(n int) {
	row := g.cells[g.cursorRow]
	end := g.cursorCol + n
	if end > g.cols {
		end = g.cols
	}
	for c := g.cursorCol; c < end; c++ {
		row[c] = Blank()
	}
	g.damage.markLine(g.cursorRow)
}

// moveCursor sets the cursor absolutely, clamped to the grid and (if origin
// mode semantics are ever added) the scroll region. Spec keeps origin mode
// out of scope (§9), so this always clamps to the full grid.
func (g *Grid) moveCursor(row, col int) {
	if row < 0 {
		row = 0
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	if col < 0 {
		col = 0
	}
	if col >= g.cols {
		col = g.cols - 1
	}
	g.cursorRow, g.cursorCol = row, col
	g.damage.markCursor()
}

func (g *Grid) moveCursorRel(dRow, dCol int) {
	g.moveCursor(g.cursorRow+dRow, g.cursorCol+dCol)
}

// setScrollRegion implements DECSTBM (CSI r). A malformed region (top >=
// bottom) resets the region to the full screen. Either way the cursor moves
// to the home position.
func (g *Grid) setScrollRegion(top, bottom int) {
	if top < 0 {
		top = 0
	}
	if bottom >= g.rows {
		bottom = g.rows - 1
	}
	if top >= bottom {
		top, bottom = 0, g.rows-1
	}
	g.scrollTop, g.scrollBottom = top, bottom
	g.moveCursor(0, 0)
}

// saveCursor implements DECSC (ESC 7 / CSI s).
func (g *Grid) saveCursor() {
	g.savedRow, g.savedCol = g.cursorRow, g.cursorCol
}

// restoreCursor implements DECRC (ESC 8 / CSI u).
func (g *Grid) restoreCursor() {
	g.moveCursor(g.savedRow, g.savedCol)
}

// fullReset implements RIS (ESC c): clears the screen, scrollback,
// selection, attributes, scroll region, title, and mouse mode back to
// power-on defaults (SPEC_FULL §4 C2 supplement).
func (g *Grid) fullReset() {
	g.cells = makeCells(g.rows, g.cols)
	g.cursorRow, g.cursorCol = 0, 0
	g.savedRow, g.savedCol = 0, 0
	g.curAttrs = Attrs{}
	g.curFG = DefaultFG
	g.curBG = Color{}
	g.curBGSet = false
	g.scrollTop, g.scrollBottom = 0, g.rows-1
	g.scrollback = scrollback{}
	g.sel.clear()
	g.mouse = mouseState{}
	g.Title = ""
	g.displayOffset = 0
	g.pendingWrites = nil
	g.damage.markFull()
}
