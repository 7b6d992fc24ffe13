package term

// csi.go implements Consumer.csiDispatch: the CSI final-byte dispatch table
// from §4.2, mirroring the teacher's screen.go dispatchCSI switch.

// csiDispatch routes one complete CSI sequence to the matching operation.
// intermediates[0] carries the private-mode marker (?/>/=/<) when present,
// per parser.go's dispatchCSI.
func (g *Grid) csiDispatch(params []Param, intermediates []byte, final byte) {
	private := byte(0)
	if len(intermediates) > 0 && isPrivateMarker(intermediates[0]) {
		private = intermediates[0]
	}

	switch final {
	case 'A': // CUU
		g.moveCursorRel(-int(First(params, 0, 1)), 0)
	case 'B': // CUD
		g.moveCursorRel(int(First(params, 0, 1)), 0)
	case 'C': // CUF
		g.moveCursorRel(0, int(First(params, 0, 1)))
	case 'D': // CUB
		g.moveCursorRel(0, -int(First(params, 0, 1)))
	case 'E': // CNL
		g.moveCursor(g.cursorRow+int(First(params, 0, 1)), 0)
	case 'F': // CPL
		g.moveCursor(g.cursorRow-int(First(params, 0, 1)), 0)
	case 'G': // CHA
		g.moveCursor(g.cursorRow, int(First(params, 0, 1))-1)
	case 'H', 'f': // CUP / HVP
		row := int(First(params, 0, 1))
		col := int(First(params, 1, 1))
		g.moveCursor(row-1, col-1)
	case 'J': // ED
		g.eraseDisplay(int(First(params, 0, 0)))
	case 'K': // EL
		g.eraseLine(int(First(params, 0, 0)))
	case 'L': // IL
		g.insertLines(int(First(params, 0, 1)))
	case 'M': // DL
		g.deleteLines(int(First(params, 0, 1)))
	case 'P': // DCH
		g.deleteChars(int(First(params, 0, 1)))
	case '@': // ICH
		g.insertChars(int(First(params, 0, 1)))
	case 'X': // ECH
		g.eraseChars(int(First(params, 0, 1)))
	case 'S': // SU
		g.scrollUp(int(First(params, 0, 1)))
	case 'T': // SD
		g.scrollDown(int(First(params, 0, 1)))
	case 'd': // VPA
		g.moveCursor(int(First(params, 0, 1))-1, g.cursorCol)
	case 'm': // SGR
		g.handleSGR(params)
	case 'r': // DECSTBM
		top := int(First(params, 0, 1)) - 1
		bottom := int(First(params, 1, uint16(g.rows))) - 1
		g.setScrollRegion(top, bottom)
	case 's': // save cursor (ANSI.SYS form; DECSC is ESC 7)
		g.saveCursor()
	case 'u': // restore cursor (ANSI.SYS form; DECRC is ESC 8)
		g.restoreCursor()
	case 'n': // DSR — device status report, forwarded to the host (SPEC_FULL C1)
		g.handleDSR(int(First(params, 0, 0)))
	case 'c': // DA1 — primary device attributes, forwarded to the host
		if private == 0 {
			g.handleDA1()
		}
	case 'h':
		g.setMode(private, params, true)
	case 'l':
		g.setMode(private, params, false)
	}
}

func isPrivateMarker(b byte) bool {
	return b >= 0x3c && b <= 0x3f
}

// setMode implements DECSET/DECRST (CSI ? Pm h/l) for the modes this
// implementation cares about: mouse reporting (1000/1002/1003/1006). Other
// private modes (cursor-visibility, alt-screen, bracketed paste, ...) are
// silently accepted and ignored — out of scope per §9 Non-goals.
func (g *Grid) setMode(private byte, params []Param, set bool) {
	if private != '?' {
		return
	}
	for _, p := range params {
		code := uint16(0)
		if len(p) > 0 {
			code = p[0]
		}
		switch code {
		case 1000:
			if set {
				g.mouse.setMode(MouseClick)
			} else {
				g.mouse.resetMode(MouseClick)
			}
		case 1002:
			if set {
				g.mouse.setMode(MouseDrag)
			} else {
				g.mouse.resetMode(MouseDrag)
			}
		case 1003:
			if set {
				g.mouse.setMode(MouseAllMotion)
			} else {
				g.mouse.resetMode(MouseAllMotion)
			}
		case 1006:
			g.mouse.setSGR(set)
		}
	}
}

// handleDSR answers a subset of Device Status Report queries by queuing a
// reply in pendingWrites, per SPEC_FULL §4 C1 supplement ("DA1/DSR
// passthrough"): 6 is the cursor-position report (CPR), answered with the
// grid's own idea of the cursor so callers never have to round-trip through
// the real PTY for it.
func (g *Grid) handleDSR(code int) {
	if code != 6 {
		return
	}
	resp := cprResponse(g.cursorRow+1, g.cursorCol+1)
	g.pendingWrites = append(g.pendingWrites, resp...)
}

func cprResponse(row, col int) []byte {
	return []byte("\x1b[" + itoa(row) + ";" + itoa(col) + "R")
}

// handleDA1 answers CSI c with a minimal "VT100 with no extensions"
// response, enough to satisfy programs that probe terminal capabilities
// before drawing (SPEC_FULL §4 C1 supplement).
func (g *Grid) handleDA1() {
	g.pendingWrites = append(g.pendingWrites, []byte("\x1b[?1;0c")...)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
