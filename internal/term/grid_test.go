package term

import "testing"

func plainRow(g *Grid, row int) string {
	cells := g.VisibleRow(row)
	out := make([]rune, 0, len(cells))
	for _, c := range cells {
		if c.Width == 0 {
			continue
		}
		ch := c.Ch
		if ch == 0 {
			ch = ' '
		}
		out = append(out, ch)
	}
	return string(out)
}

func TestPrintWrapsAtRightMargin(t *testing.T) {
	g := NewGrid(2, 3)
	g.Feed([]byte("abcd"))

	if got, want := plainRow(g, 0), "abc"; got != want {
		t.Errorf("row 0 = %q, want %q", got, want)
	}
	if got, want := plainRow(g, 1), "d  "; got != want {
		t.Errorf("row 1 = %q, want %q", got, want)
	}
	row, col := g.Cursor()
	if row != 1 || col != 1 {
		t.Errorf("cursor = (%d,%d), want (1,1)", row, col)
	}
}

func TestCUPThenErase(t *testing.T) {
	g := NewGrid(3, 4)
	g.Feed([]byte("AAAA\r\nAAAA\r\nAAAA"))
	// Move to row 2, col 2 (1-based CSI) then erase to end of display.
	g.Feed([]byte("\x1b[2;2H\x1b[J"))

	row, col := g.Cursor()
	if row != 1 || col != 1 {
		t.Fatalf("cursor = (%d,%d), want (1,1)", row, col)
	}
	if got, want := plainRow(g, 0), "AAAA"; got != want {
		t.Errorf("row 0 = %q, want %q", got, want)
	}
	if got, want := plainRow(g, 1), "A   "; got != want {
		t.Errorf("row 1 = %q, want %q", got, want)
	}
	if got, want := plainRow(g, 2), "    "; got != want {
		t.Errorf("row 2 = %q, want %q", got, want)
	}
}

func TestScrollRegionDoesNotPushScrollbackOutsideFullScreen(t *testing.T) {
	g := NewGrid(4, 5)
	// Confine the scroll region to rows 2-3 (1-based), i.e. 1-2 0-based.
	g.Feed([]byte("\x1b[2;3r"))
	if g.ScrollbackLen() != 0 {
		t.Fatalf("setting a region must not itself push scrollback")
	}

	g.moveCursor(g.scrollBottom, 0)
	g.scrollUp(1)
	if got := g.ScrollbackLen(); got != 0 {
		t.Errorf("region scroll pushed %d rows to scrollback, want 0", got)
	}
}

func TestFullScreenScrollPushesScrollback(t *testing.T) {
	g := NewGrid(3, 2)
	g.Feed([]byte("11\r\n22\r\n33\r\n44"))

	if got := g.ScrollbackLen(); got != 1 {
		t.Fatalf("scrollback len = %d, want 1", got)
	}
	top := g.scrollback.row(0)
	if string(top[0].Ch)+string(top[1].Ch) != "11" {
		t.Errorf("scrolled-off row = %q%q, want \"11\"", top[0].Ch, top[1].Ch)
	}
}

func TestSGRTruecolorRoundTrip(t *testing.T) {
	g := NewGrid(1, 10)
	g.Feed([]byte("\x1b[38;2;10;20;30mX"))
	c := g.CellAt(0, 0)
	if c.FG != (Color{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("fg = %+v, want {10 20 30 255}", c.FG)
	}
}

func TestSGR256Palette(t *testing.T) {
	g := NewGrid(1, 10)
	g.Feed([]byte("\x1b[38;5;196mX"))
	c := g.CellAt(0, 0)
	want := palette256(196)
	if c.FG != want {
		t.Errorf("fg = %+v, want %+v", c.FG, want)
	}
}

func TestSGRResetClearsAttributes(t *testing.T) {
	g := NewGrid(1, 10)
	g.Feed([]byte("\x1b[1;4mX\x1b[0mY"))
	bold := g.CellAt(0, 0)
	if !bold.Attrs.Bold || !bold.Attrs.Underline {
		t.Fatalf("expected bold+underline on first cell, got %+v", bold.Attrs)
	}
	plain := g.CellAt(0, 1)
	if plain.Attrs.Bold || plain.Attrs.Underline {
		t.Errorf("expected reset attrs on second cell, got %+v", plain.Attrs)
	}
}

func TestMouseSGRReport(t *testing.T) {
	g := NewGrid(10, 10)
	g.Feed([]byte("\x1b[?1000h\x1b[?1006h"))
	g.ReportMouse(MouseLeft, 0, 4, 2, true, false)
	got := g.TakePendingWrites()
	want := "\x1b[<0;5;3M"
	if string(got) != want {
		t.Errorf("report = %q, want %q", got, want)
	}
}

func TestMouseClickModeSuppressesMotion(t *testing.T) {
	g := NewGrid(10, 10)
	g.Feed([]byte("\x1b[?1000h\x1b[?1006h"))
	g.ReportMouse(MouseNone, 0, 1, 1, false, true)
	if got := g.TakePendingWrites(); got != nil {
		t.Errorf("click mode should not report motion, got %q", got)
	}
}

func TestSelectionTextTrimsTrailingSpaces(t *testing.T) {
	g := NewGrid(2, 6)
	g.Feed([]byte("hi  \r\nbye"))
	g.BeginSelection(0, 0, SelectionLinear)
	g.UpdateSelection(2, 1)
	got := g.SelectionText()
	want := "hi\nbye"
	if got != want {
		t.Errorf("selection text = %q, want %q", got, want)
	}
}

func TestResizePreservesContentAndClampsCursor(t *testing.T) {
	g := NewGrid(3, 3)
	g.Feed([]byte("abc"))
	g.Resize(2, 5)
	if got, want := plainRow(g, 0), "abc  "; got != want {
		t.Errorf("row 0 = %q, want %q", got, want)
	}
	row, _ := g.Cursor()
	if row >= 2 {
		t.Errorf("cursor row %d not clamped into resized grid", row)
	}
}

func TestDamageEscalatesMonotonically(t *testing.T) {
	g := NewGrid(3, 3)
	g.Feed([]byte("a"))
	d := g.TakeDamage()
	if d.Kind != DamagePartial {
		t.Fatalf("kind = %v, want DamagePartial", d.Kind)
	}
	g.Feed([]byte("\x1b[2J"))
	d = g.TakeDamage()
	if d.Kind != DamageFull {
		t.Fatalf("kind = %v, want DamageFull", d.Kind)
	}
}

func TestRISFullReset(t *testing.T) {
	g := NewGrid(2, 2)
	g.Feed([]byte("\x1b[1mab"))
	g.Feed([]byte("\x1bc"))
	c := g.CellAt(0, 0)
	if c.Ch != ' ' || c.Attrs.Bold {
		t.Errorf("cell after RIS = %+v, want blank/unstyled", c)
	}
	row, col := g.Cursor()
	if row != 0 || col != 0 {
		t.Errorf("cursor after RIS = (%d,%d), want (0,0)", row, col)
	}
}

func TestDSRCursorPositionReport(t *testing.T) {
	g := NewGrid(5, 5)
	g.Feed([]byte("\x1b[3;4H\x1b[6n"))
	got := g.TakePendingWrites()
	want := "\x1b[4;5R"
	if string(got) != want {
		t.Errorf("DSR reply = %q, want %q", got, want)
	}
}

func TestEscSaveRestoreCursor(t *testing.T) {
	g := NewGrid(5, 5)
	g.Feed([]byte("\x1b[3;4H\x1bs"))
	g.Feed([]byte("\x1b[1;1H"))
	row, col := g.Cursor()
	if row != 0 || col != 0 {
		t.Errorf("cursor after CUP = (%d,%d), want (0,0)", row, col)
	}
	g.Feed([]byte("\x1bu"))
	row, col = g.Cursor()
	if row != 2 || col != 3 {
		t.Errorf("cursor after ESC u restore = (%d,%d), want (2,3)", row, col)
	}
}
