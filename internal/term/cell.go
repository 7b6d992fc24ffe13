package term

// Color is an RGBA color. A Cell's background may additionally be "no
// color" (the terminal's own background shows through); that state is
// carried by Cell.BGSet rather than encoded in Color itself.
type Color struct {
	R, G, B, A uint8
}

// DefaultFG is opaque white, the default foreground color of a blank cell.
var DefaultFG = Color{R: 255, G: 255, B: 255, A: 255}

// Attrs holds the boolean text attributes of a cell, set by SGR.
type Attrs struct {
	Bold      bool
	Italic    bool
	Underline bool
	Inverse   bool
}

// Cell is one character position on the grid.
type Cell struct {
	Ch    rune  // Unicode scalar value; width 1 or 2
	Width uint8 // 1 or 2
	FG    Color
	BG    Color
	BGSet bool // false means "no background" (transparent)
	Attrs Attrs
}

// Blank returns a default, empty cell: a space, default fg, transparent bg.
func Blank() Cell {
	return Cell{Ch: ' ', Width: 1, FG: DefaultFG}
}

// blankRow returns a row of n blank cells.
func blankRow(n int) []Cell {
	row := make([]Cell, n)
	for i := range row {
		row[i] = Blank()
	}
	return row
}

// runeWidth reports the terminal display width of r: 1 for ordinary
// characters, 2 for wide (CJK/fullwidth/emoji-class) ones. This is a
// deliberately small table rather than a full East-Asian-width
// implementation — good enough to satisfy the Cell.Width contract in §3
// without pulling in a wide-char database the corpus never uses for this
// concern (see DESIGN.md).
func runeWidth(r rune) uint8 {
	switch {
	case r < 0x1100:
		return 1
	case isWide(r):
		return 2
	default:
		return 1
	}
}

func isWide(r rune) bool {
	switch {
	case r >= 0x1100 && r <= 0x115F: // Hangul Jamo
		return true
	case r >= 0x2E80 && r <= 0xA4CF && r != 0x303F: // CJK radicals .. Yi
		return true
	case r >= 0xAC00 && r <= 0xD7A3: // Hangul syllables
		return true
	case r >= 0xF900 && r <= 0xFAFF: // CJK compatibility ideographs
		return true
	case r >= 0xFF00 && r <= 0xFF60: // fullwidth forms
		return true
	case r >= 0xFFE0 && r <= 0xFFE6:
		return true
	case r >= 0x20000 && r <= 0x3FFFD: // CJK extensions, supplementary
		return true
	case r >= 0x1F300 && r <= 0x1FAFF: // emoji blocks
		return true
	default:
		return false
	}
}
