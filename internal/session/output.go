package session

import "sync"

// MaxBufferSize bounds the ring buffer held while a session has no attached
// client (SPEC_FULL §4 C7, grounded on original_source/session.rs's
// MAX_BUFFER_SIZE).
const MaxBufferSize = 1024 * 1024 // 1 MiB

// outputState names which half of the Streaming/Buffering state machine an
// output sink is in.
type outputState int

const (
	stateBuffering outputState = iota
	stateStreaming
)

// output is a session's PTY-output sink: while a client is attached it
// forwards bytes directly to that client's channel (stateStreaming); while
// detached, or if the attached receiver falls behind, it accumulates bytes
// in a bounded ring (stateBuffering) so a later attach can catch up.
type output struct {
	mu    sync.Mutex
	state outputState
	ch    chan<- []byte
	buf   []byte
}

func newOutput() *output {
	return &output{state: stateBuffering}
}

// write delivers data to the attached client if one exists, falling back to
// the bounded buffer if the client's channel can't accept it immediately
// (a slow or dead receiver must never block the PTY reader goroutine).
func (o *output) write(data []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == stateStreaming {
		cp := append([]byte(nil), data...)
		select {
		case o.ch <- cp:
			return
		default:
			// Receiver isn't keeping up or is gone; fall back to buffering
			// rather than blocking the reader loop.
			o.state = stateBuffering
			o.ch = nil
		}
	}
	o.bufferData(data)
}

func (o *output) bufferData(data []byte) {
	o.buf = append(o.buf, data...)
	if len(o.buf) > MaxBufferSize {
		excess := len(o.buf) - MaxBufferSize
		o.buf = o.buf[excess:]
	}
}

// attach switches the sink to streaming mode on ch and returns whatever was
// buffered while detached, so the new client can replay it before live
// bytes start arriving.
func (o *output) attach(ch chan<- []byte) []byte {
	o.mu.Lock()
	defer o.mu.Unlock()
	buffered := o.buf
	o.buf = nil
	o.ch = ch
	o.state = stateStreaming
	return buffered
}

// detach switches the sink back to buffering mode. The PTY keeps running;
// only the fan-out target changes.
func (o *output) detach() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ch = nil
	o.state = stateBuffering
}
