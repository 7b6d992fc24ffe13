package term

// sgr.go implements Select Graphic Rendition (CSI ... m), §4.2.1: the 16
// standard/bright colors, the 256-color cube/grayscale ramp, and truecolor
// RGB, mirroring the teacher's handleSGR/parseSGRColor split.

var ansi16 = [8]Color{
	{0, 0, 0, 255},
	{205, 49, 49, 255},
	{13, 188, 121, 255},
	{229, 229, 16, 255},
	{36, 114, 200, 255},
	{188, 63, 188, 255},
	{17, 168, 205, 255},
	{229, 229, 229, 255},
}

var ansiBright = [8]Color{
	{102, 102, 102, 255},
	{241, 76, 76, 255},
	{35, 209, 139, 255},
	{245, 245, 67, 255},
	{59, 142, 234, 255},
	{214, 112, 214, 255},
	{41, 184, 219, 255},
	{255, 255, 255, 255},
}

// handleSGR applies one complete CSI ... m sequence to the current drawing
// attributes. Each params[i] may itself carry colon-separated sub-params
// (e.g. "38:2:r:g:b"); handleSGR consumes extended color sequences across
// multiple top-level params when given the legacy semicolon-separated form
// (38;2;r;g;b) by advancing the index it's given.
func (g *Grid) handleSGR(params []Param) {
	if len(params) == 0 {
		g.curAttrs = Attrs{}
		g.curFG = DefaultFG
		g.curBG = Color{}
		g.curBGSet = false
		return
	}
	for i := 0; i < len(params); i++ {
		code := First(params, i, 0)
		switch {
		case code == 0:
			g.curAttrs = Attrs{}
			g.curFG = DefaultFG
			g.curBG = Color{}
			g.curBGSet = false
		case code == 1:
			g.curAttrs.Bold = true
		case code == 3:
			g.curAttrs.Italic = true
		case code == 4:
			g.curAttrs.Underline = true
		case code == 7:
			g.curAttrs.Inverse = true
		case code == 22:
			g.curAttrs.Bold = false
		case code == 23:
			g.curAttrs.Italic = false
		case code == 24:
			g.curAttrs.Underline = false
		case code == 27:
			g.curAttrs.Inverse = false
		case code >= 30 && code <= 37:
			g.curFG = ansi16[code-30]
		case code == 38:
			if c, consumed, ok := g.parseExtendedColor(params, i); ok {
				g.curFG = c
				i += consumed
			}
		case code == 39:
			g.curFG = DefaultFG
		case code >= 40 && code <= 47:
			g.curBG = ansi16[code-40]
			g.curBGSet = true
		case code == 48:
			if c, consumed, ok := g.parseExtendedColor(params, i); ok {
				g.curBG = c
				g.curBGSet = true
				i += consumed
			}
		case code == 49:
			g.curBG = Color{}
			g.curBGSet = false
		case code >= 90 && code <= 97:
			g.curFG = ansiBright[code-90]
		case code >= 100 && code <= 107:
			g.curBG = ansiBright[code-100]
			g.curBGSet = true
		}
	}
}

// parseExtendedColor parses a 38/48 extended color starting at params[i].
// It supports both the colon sub-parameter form (38:2:r:g:b, 38:5:n) and the
// legacy semicolon form (38;2;r;g;b, 38;5;n), returning how many additional
// top-level params the legacy form consumed.
func (g *Grid) parseExtendedColor(params []Param, i int) (Color, int, bool) {
	p := params[i]
	if len(p) >= 2 {
		return parseColorSpec(p[1:])
	}
	if i+1 >= len(params) {
		return Color{}, 0, false
	}
	kind := First(params, i+1, 0)
	switch kind {
	case 5:
		if i+2 >= len(params) {
			return Color{}, 0, false
		}
		return palette256(First(params, i+2, 0)), 2, true
	case 2:
		if i+4 >= len(params) {
			return Color{}, 0, false
		}
		r := First(params, i+2, 0)
		gr := First(params, i+3, 0)
		b := First(params, i+4, 0)
		return Color{R: uint8(r), G: uint8(gr), B: uint8(b), A: 255}, 4, true
	}
	return Color{}, 0, false
}

// parseColorSpec decodes the sub-parameters following "38:" or "48:" in
// colon form: [2 r g b] or [2 cs r g b] for truecolor, [5 n] for 256-palette.
func parseColorSpec(sub []uint16) (Color, int, bool) {
	if len(sub) == 0 {
		return Color{}, 0, false
	}
	switch sub[0] {
	case 5:
		if len(sub) < 2 {
			return Color{}, 0, false
		}
		return palette256(sub[1]), 0, true
	case 2:
		// Either [2 r g b] or [2 colorspace r g b]; take the last three.
		if len(sub) < 4 {
			return Color{}, 0, false
		}
		tail := sub[len(sub)-3:]
		return Color{R: uint8(tail[0]), G: uint8(tail[1]), B: uint8(tail[2]), A: 255}, 0, true
	}
	return Color{}, 0, false
}

// palette256 maps an xterm 256-color index to RGB: 0-15 standard/bright,
// 16-231 a 6x6x6 color cube, 232-255 a 24-step grayscale ramp.
func palette256(n uint16) Color {
	switch {
	case n < 8:
		return ansi16[n]
	case n < 16:
		return ansiBright[n-8]
	case n < 232:
		i := n - 16
		r := i / 36
		gr := (i / 6) % 6
		b := i % 6
		return Color{R: cubeStep(r), G: cubeStep(gr), B: cubeStep(b), A: 255}
	default:
		level := uint8(8 + (n-232)*10)
		return Color{R: level, G: level, B: level, A: 255}
	}
}

func cubeStep(v uint16) uint8 {
	if v == 0 {
		return 0
	}
	return uint8(55 + v*40)
}
