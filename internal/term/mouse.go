package term

import "fmt"

// MouseMode is the active mouse-reporting mode, set by DECSET 1000/1002/1003
// and mutually exclusive among themselves (§4.5).
type MouseMode int

const (
	MouseOff MouseMode = iota
	MouseClick              // 1000: report button press/release only
	MouseDrag               // 1002: report press/release + motion while a button is held
	MouseAllMotion          // 1003: report all motion regardless of button state
)

// MouseButton identifies the button (or wheel direction) in a report.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
	MouseNone // used for plain motion reports with no button held
	MouseWheelUp
	MouseWheelDown
)

// MouseMod is a bitmask of modifier keys, matching the SGR encoding in §4.5.
type MouseMod uint8

const (
	ModShift MouseMod = 1 << 2
	ModAlt   MouseMod = 1 << 3
	ModCtrl  MouseMod = 1 << 4
)

// mouseState is the DECSET/DECRST-driven mouse reporting state machine.
// SGR (1006) extended encoding is the only report format implemented;
// legacy X10 encoding is out of scope (§4.5).
type mouseState struct {
	mode MouseMode
	sgr  bool
}

// setMode installs a reporting mode, clearing any other mode (the three
// modes are mutually exclusive — setting one clears the others).
func (m *mouseState) setMode(mode MouseMode) {
	m.mode = mode
}

// resetMode clears mode only if it is currently the active one (resetting
// only affects the same mode that set it).
func (m *mouseState) resetMode(mode MouseMode) {
	if m.mode == mode {
		m.mode = MouseOff
	}
}

func (m *mouseState) setSGR(on bool) {
	m.sgr = on
}

// Mode returns the currently active mouse-reporting mode.
func (m *mouseState) Mode() MouseMode {
	return m.mode
}

// buttonCode maps a button/wheel to the base SGR button code.
func buttonCode(b MouseButton) int {
	switch b {
	case MouseLeft:
		return 0
	case MouseMiddle:
		return 1
	case MouseRight:
		return 2
	case MouseNone:
		return 3
	case MouseWheelUp:
		return 64
	case MouseWheelDown:
		return 65
	default:
		return 0
	}
}

// report formats an SGR mouse report per §4.5:
//
//	ESC [ < {b|m} ; {col+1} ; {row+1} {M|m}
//
// motion reports use button code 32+buttonHeld (35 if none held); wheel
// events use 64/65 and are always "pressed" (M).
func report(b MouseButton, mod MouseMod, col, row int, pressed, motion bool) []byte {
	code := buttonCode(b)
	if motion {
		if b == MouseNone {
			code = 35
		} else {
			code = 32 + code
		}
	}
	code |= int(mod)
	final := byte('m')
	if pressed || b == MouseWheelUp || b == MouseWheelDown {
		final = 'M'
	}
	return []byte(fmt.Sprintf("\x1b[<%d;%d;%d%c", code, col+1, row+1, final))
}
