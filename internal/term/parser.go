package term

import "unicode/utf8"

// Consumer is the capability interface the VT parser drives. Grid implements
// it; tests may supply a fake to exercise the automaton in isolation without
// a real grid (see parser_test.go).
// Consumer method names are unexported by design: the only implementation
// is meant to live inside this package (Grid), called exclusively through
// Grid.Feed, which holds the grid's lock for the duration of a Write. This
// keeps callback-driven mutation from ever happening outside that lock.
type Consumer interface {
	// print receives one decoded Unicode scalar value for a printable
	// character (UTF-8 decoding happens inside the parser).
	print(r rune)
	// execute receives a single C0/C1 control byte (BEL, BS, HT, LF, CR, ...).
	execute(b byte)
	// csiDispatch receives a complete CSI sequence. params holds one entry
	// per semicolon-separated parameter; each entry holds its colon-separated
	// sub-parameters (a bare "5" decodes to Param{5}, "1:2" to Param{1,2}, an
	// empty slot to Param{0}). intermediates holds 0-2 bytes in 0x20-0x2F.
	csiDispatch(params []Param, intermediates []byte, final byte)
	// escDispatch receives a non-CSI, non-OSC escape sequence.
	escDispatch(intermediates []byte, final byte)
	// oscDispatch receives an Operating System Command, split on ';'.
	oscDispatch(params []string)
}

// Param is one semicolon-separated CSI parameter slot, decomposed into its
// colon-separated sub-parameters. A parameter with no sub-params is Param{n}.
type Param []uint16

// First returns the first sub-parameter, or def if the parameter list has no
// entries or the entry is zero (the VT convention: an absent/zero parameter
// means "use the default").
func First(params []Param, idx int, def uint16) uint16 {
	if idx >= len(params) || len(params[idx]) == 0 || params[idx][0] == 0 {
		return def
	}
	return params[idx][0]
}

// parserState is the VT500-chart automaton state.
type parserState int

const (
	stateGround parserState = iota
	stateEscape
	stateEscapeIntermediate
	stateCSIEntry
	stateCSIParam
	stateCSIIntermediate
	stateCSIIgnore
	stateOSCString
	stateDCSPassthrough // DCS/SOS/PM/APC strings: absorbed, never dispatched (see Open Questions)
)

const maxIntermediates = 2
const maxCSIParams = 32

// Parser is a byte-stream VT/ANSI state machine. It is stateful across Write
// calls only in its automaton position — callers may feed bytes in
// arbitrarily small chunks (including one byte at a time) without changing
// the sequence of callbacks delivered to the Consumer.
//
// Parser never returns an error: malformed sequences are silently absorbed,
// matching real terminal practice.
type Parser struct {
	state parserState

	intermediates []byte

	params     []Param
	curParam   Param
	paramDirty bool // true once any digit has been seen for the current sub-param

	oscBuf []byte

	// utf8 holds a partial multi-byte UTF-8 sequence spanning Write calls.
	utf8Buf [utf8.UTFMax]byte
	utf8Len int
	utf8Got int

	// private marks whether a CSI sequence carries a private-mode prefix
	// byte (? > = 0x3C-0x3F); dispatchCSI prepends it to the intermediates
	// handed to the Consumer.
	private byte
}

// NewParser returns a Parser ready to consume bytes.
func NewParser() *Parser {
	return &Parser{}
}

// Reset returns the parser to its ground state, discarding any in-progress
// sequence. Does not touch the Consumer.
func (p *Parser) Reset() {
	p.state = stateGround
	p.intermediates = p.intermediates[:0]
	p.params = p.params[:0]
	p.curParam = p.curParam[:0]
	p.paramDirty = false
	p.oscBuf = p.oscBuf[:0]
	p.utf8Len = 0
	p.utf8Got = 0
	p.private = 0
}

// Advance feeds one byte into the automaton, invoking c's callbacks as
// sequences complete. There is no suspension point inside Advance: it always
// returns after a bounded amount of work.
func (p *Parser) Advance(c Consumer, b byte) {
	if p.state == stateGround && p.utf8Len == 0 && b < 0x80 {
		p.advanceGroundASCII(c, b)
		return
	}
	if p.state == stateGround {
		p.advanceGroundUTF8(c, b)
		return
	}

	switch p.state {
	case stateEscape:
		p.advanceEscape(c, b)
	case stateEscapeIntermediate:
		p.advanceEscapeIntermediate(c, b)
	case stateCSIEntry:
		p.advanceCSIEntry(c, b)
	case stateCSIParam:
		p.advanceCSIParam(c, b)
	case stateCSIIntermediate:
		p.advanceCSIIntermediate(c, b)
	case stateCSIIgnore:
		p.advanceCSIIgnore(b)
	case stateOSCString:
		p.advanceOSCString(c, b)
	case stateDCSPassthrough:
		p.advanceDCS(b)
	}
}

// Write feeds an arbitrary byte slice into the automaton. It implements
// io.Writer-like semantics (always consumes the whole slice) but is kept as
// a value method with no error so consumers never have to branch on it.
func (p *Parser) Write(c Consumer, data []byte) {
	for _, b := range data {
		p.Advance(c, b)
	}
}

func (p *Parser) advanceGroundASCII(c Consumer, b byte) {
	switch {
	case b == 0x1b:
		p.enterEscape()
	case b < 0x20 || b == 0x7f:
		c.execute(b)
	default:
		c.print(rune(b))
	}
}

// advanceGroundUTF8 handles ground-state bytes that are either continuing a
// partial multi-byte sequence or beginning a new one (b >= 0x80).
func (p *Parser) advanceGroundUTF8(c Consumer, b byte) {
	if p.utf8Len > 0 {
		if b >= 0x80 && b <= 0xbf {
			p.utf8Buf[p.utf8Got] = b
			p.utf8Got++
			if p.utf8Got == p.utf8Len {
				seqLen := p.utf8Len
				r, size := utf8.DecodeRune(p.utf8Buf[:seqLen])
				p.utf8Len, p.utf8Got = 0, 0
				if r != utf8.RuneError || size == seqLen {
					c.print(r)
				}
			}
			return
		}
		// Invalid continuation: discard the partial sequence and
		// reprocess b as if it were the first byte of a new one.
		p.utf8Len, p.utf8Got = 0, 0
	}

	if b == 0x1b {
		p.enterEscape()
		return
	}
	if b < 0x20 || b == 0x7f {
		c.execute(b)
		return
	}
	n := utf8SeqLen(b)
	if n == 1 {
		c.print(rune(b))
		return
	}
	if n == 0 {
		// Invalid lead byte (0x80-0xbf stray, or 0xf8-0xff): drop it.
		return
	}
	p.utf8Buf[0] = b
	p.utf8Got = 1
	p.utf8Len = n
}

func utf8SeqLen(lead byte) int {
	switch {
	case lead&0x80 == 0x00:
		return 1
	case lead&0xe0 == 0xc0:
		return 2
	case lead&0xf0 == 0xe0:
		return 3
	case lead&0xf8 == 0xf0:
		return 4
	default:
		return 0
	}
}

func (p *Parser) enterEscape() {
	p.state = stateEscape
	p.intermediates = p.intermediates[:0]
	p.private = 0
}

func (p *Parser) advanceEscape(c Consumer, b byte) {
	switch {
	case b == 0x1b:
		p.enterEscape()
	case b >= 0x20 && b <= 0x2f:
		p.intermediates = appendIntermediate(p.intermediates, b)
		p.state = stateEscapeIntermediate
	case b == '[':
		p.enterCSI()
	case b == ']':
		p.state = stateOSCString
		p.oscBuf = p.oscBuf[:0]
	case b == 'P' || b == 'X' || b == '^' || b == '_':
		p.state = stateDCSPassthrough // DCS/SOS/PM/APC — see Open Questions
	case b >= 0x30 && b <= 0x7e:
		c.escDispatch(p.intermediates, b)
		p.state = stateGround
	default:
		p.state = stateGround
	}
}

func (p *Parser) advanceEscapeIntermediate(c Consumer, b byte) {
	switch {
	case b >= 0x20 && b <= 0x2f:
		p.intermediates = appendIntermediate(p.intermediates, b)
	case b >= 0x30 && b <= 0x7e:
		c.escDispatch(p.intermediates, b)
		p.state = stateGround
	default:
		p.state = stateGround
	}
}

func (p *Parser) enterCSI() {
	p.state = stateCSIEntry
	p.params = p.params[:0]
	p.curParam = p.curParam[:0]
	p.paramDirty = false
	p.intermediates = p.intermediates[:0]
}

func (p *Parser) advanceCSIEntry(c Consumer, b byte) {
	if b >= 0x3c && b <= 0x3f { // private marker ? > = <
		p.private = b
		p.state = stateCSIParam
		return
	}
	p.state = stateCSIParam
	p.advanceCSIParam(c, b)
}

func (p *Parser) advanceCSIParam(c Consumer, b byte) {
	switch {
	case b >= '0' && b <= '9':
		v := uint16(0)
		if len(p.curParam) > 0 {
			v = p.curParam[len(p.curParam)-1]
		} else {
			p.curParam = append(p.curParam, 0)
		}
		v = v*10 + uint16(b-'0')
		p.curParam[len(p.curParam)-1] = v
		p.paramDirty = true
	case b == ':':
		p.curParam = append(p.curParam, 0)
	case b == ';':
		p.pushParam()
	case b >= 0x20 && b <= 0x2f:
		p.pushParam()
		p.intermediates = appendIntermediate(p.intermediates, b)
		p.state = stateCSIIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.pushParam()
		p.dispatchCSI(c, b)
	case b == 0x3a || (b >= 0x3c && b <= 0x3f):
		// stray private marker or malformed colon placement mid-params
		p.state = stateCSIIgnore
	default:
		p.state = stateCSIIgnore
	}
}

func (p *Parser) advanceCSIIntermediate(c Consumer, b byte) {
	switch {
	case b >= 0x20 && b <= 0x2f:
		p.intermediates = appendIntermediate(p.intermediates, b)
	case b >= 0x40 && b <= 0x7e:
		p.dispatchCSI(c, b)
	default:
		p.state = stateCSIIgnore
	}
}

func (p *Parser) advanceCSIIgnore(b byte) {
	if b >= 0x40 && b <= 0x7e {
		p.state = stateGround
	}
}

// pushParam closes out the current sub-parameter group into p.params.
func (p *Parser) pushParam() {
	if len(p.params) >= maxCSIParams {
		p.curParam = p.curParam[:0]
		p.paramDirty = false
		return
	}
	if len(p.curParam) == 0 {
		p.curParam = append(p.curParam, 0)
	}
	cp := make(Param, len(p.curParam))
	copy(cp, p.curParam)
	p.params = append(p.params, cp)
	p.curParam = p.curParam[:0]
	p.paramDirty = false
}

func (p *Parser) dispatchCSI(c Consumer, final byte) {
	intermediates := p.intermediates
	if p.private != 0 {
		intermediates = append([]byte{p.private}, intermediates...)
	}
	c.csiDispatch(p.params, intermediates, final)
	p.state = stateGround
}

func (p *Parser) advanceOSCString(c Consumer, b byte) {
	switch b {
	case 0x07: // BEL terminator
		p.dispatchOSC(c)
		p.state = stateGround
	case 0x1b:
		// Possible ST (ESC \). This parser treats any ESC inside an OSC
		// string as its terminator, matching the teacher's simplification.
		p.dispatchOSC(c)
		p.enterEscape()
	default:
		p.oscBuf = append(p.oscBuf, b)
	}
}

func (p *Parser) dispatchOSC(c Consumer) {
	params := splitOSC(p.oscBuf)
	c.oscDispatch(params)
	p.oscBuf = p.oscBuf[:0]
}

func splitOSC(buf []byte) []string {
	if len(buf) == 0 {
		return nil
	}
	var out []string
	start := 0
	for i, b := range buf {
		if b == ';' {
			out = append(out, string(buf[start:i]))
			start = i + 1
		}
	}
	out = append(out, string(buf[start:]))
	return out
}

// advanceDCS absorbs DCS/SOS/PM/APC string bytes until ST (ESC \) or BEL,
// dispatching nothing. Whether these should be recognized at all is an open
// question the source material leaves unresolved; this parser follows the
// sources and ignores them entirely.
func (p *Parser) advanceDCS(b byte) {
	if b == 0x07 {
		p.state = stateGround
		return
	}
	if b == 0x1b {
		p.enterEscape()
	}
}

func appendIntermediate(cur []byte, b byte) []byte {
	if len(cur) >= maxIntermediates {
		return cur
	}
	return append(cur, b)
}
