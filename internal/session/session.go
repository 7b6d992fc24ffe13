package session

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sync"
	"time"

	gopty "github.com/aymanbagabas/go-pty"
	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// ErrClosed is returned by Write/Resize once a session's PTY has been torn
// down.
var ErrClosed = errors.New("session: closed")

// killGrace is how long Close waits after SIGHUP before escalating to
// SIGKILL (SPEC_FULL §4, C7 session shutdown).
const killGrace = 200 * time.Millisecond

// Session wraps one PTY-backed shell process: the PTY itself, the spawned
// command, and the output sink that fans its bytes out to whichever client
// is attached (or buffers them if none is).
type Session struct {
	ID uuid.UUID

	mu           sync.Mutex
	pty          gopty.Pty
	cmd          *gopty.Cmd
	cols, rows   int
	disconnected *time.Time // nil while attached

	output *output
	done   chan struct{}
	exitMu sync.Mutex
	exit   *int
}

// Options configures a new session's child process.
type Options struct {
	Argv []string // defaults to the user's $SHELL, or /bin/sh
	Dir  string
	Env  []string
	Cols int
	Rows int
}

// New spawns a shell inside a fresh PTY and starts its reader loop.
func New(opts Options) (*Session, error) {
	argv := opts.Argv
	if len(argv) == 0 {
		argv = defaultShell()
	}
	cols, rows := opts.Cols, opts.Rows
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}

	p, err := gopty.New()
	if err != nil {
		return nil, fmt.Errorf("session: create pty: %w", err)
	}
	if err := p.Resize(cols, rows); err != nil {
		p.Close()
		return nil, fmt.Errorf("session: resize pty: %w", err)
	}

	cmd := p.Command(argv[0], argv[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color", "COLORTERM=truecolor")
	cmd.Env = append(cmd.Env, opts.Env...)

	if err := cmd.Start(); err != nil {
		p.Close()
		return nil, fmt.Errorf("session: start shell: %w", err)
	}

	s := &Session{
		ID:     uuid.New(),
		pty:    p,
		cmd:    cmd,
		cols:   cols,
		rows:   rows,
		output: newOutput(),
		done:   make(chan struct{}),
	}

	go s.readLoop()
	go s.waitLoop()

	return s, nil
}

func (s *Session) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := s.pty.Read(buf)
		if n > 0 {
			s.output.write(buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("[session %s] pty read: %v", s.ID, err)
			}
			return
		}
	}
}

func (s *Session) waitLoop() {
	err := s.cmd.Wait()
	code := 0
	if err != nil {
		if s.cmd.ProcessState != nil {
			code = s.cmd.ProcessState.ExitCode()
		} else {
			code = 1
		}
	}
	s.exitMu.Lock()
	s.exit = &code
	s.exitMu.Unlock()
	close(s.done)
}

// Write sends bytes (keyboard input) to the PTY.
func (s *Session) Write(p []byte) (int, error) {
	s.mu.Lock()
	pty := s.pty
	s.mu.Unlock()
	if pty == nil {
		return 0, ErrClosed
	}
	return pty.Write(p)
}

// Resize updates the PTY's window size.
func (s *Session) Resize(cols, rows int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pty == nil {
		return ErrClosed
	}
	s.cols, s.rows = cols, rows
	return s.pty.Resize(cols, rows)
}

// Size returns the current column/row count.
func (s *Session) Size() (cols, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cols, s.rows
}

// Attach switches the session's output to stream to ch and returns whatever
// bytes accumulated while no client was attached.
func (s *Session) Attach(ch chan<- []byte) []byte {
	s.mu.Lock()
	s.disconnected = nil
	s.mu.Unlock()
	return s.output.attach(ch)
}

// Detach stops streaming to the previously attached client; the PTY and
// child process keep running, and output starts accumulating in the ring
// buffer again.
func (s *Session) Detach() {
	now := time.Now()
	s.mu.Lock()
	s.disconnected = &now
	s.mu.Unlock()
	s.output.detach()
}

// DisconnectedFor reports how long the session has been detached, or false
// if it currently has an attached client.
func (s *Session) DisconnectedFor() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disconnected == nil {
		return 0, false
	}
	return time.Since(*s.disconnected), true
}

// Done returns a channel closed when the child process exits.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// ExitCode returns the child's exit code and whether it has exited yet.
func (s *Session) ExitCode() (int, bool) {
	s.exitMu.Lock()
	defer s.exitMu.Unlock()
	if s.exit == nil {
		return 0, false
	}
	return *s.exit, true
}

// Close terminates the child process and releases the PTY. It signals
// SIGHUP first (so shells and well-behaved children get a chance to clean
// up) and escalates to an outright kill if the process hasn't exited within
// killGrace (SPEC_FULL §4, C7 session shutdown).
func (s *Session) Close() {
	s.mu.Lock()
	cmd, pty := s.cmd, s.pty
	s.pty = nil
	s.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		pid := cmd.Process.Pid
		if runtime.GOOS != "windows" {
			// Signal the pid directly (rather than through the process
			// handle) so this matches the original implementation's
			// kill_pid-by-pid shutdown model.
			_ = unix.Kill(pid, unix.SIGHUP)
		} else {
			_ = cmd.Process.Signal(os.Interrupt)
		}
		select {
		case <-s.done:
		case <-time.After(killGrace):
			if runtime.GOOS != "windows" {
				_ = unix.Kill(pid, unix.SIGKILL)
			} else {
				_ = cmd.Process.Kill()
			}
			<-s.done
		}
	}
	if pty != nil {
		pty.Close()
	}
}

// Session satisfies io.Writer through its Write method, so it can be passed
// where an io.Writer is expected.
var _ io.Writer = (*Session)(nil)

func defaultShell() []string {
	if runtime.GOOS == "windows" {
		if comspec := os.Getenv("COMSPEC"); comspec != "" {
			return []string{comspec}
		}
		return []string{"cmd.exe"}
	}
	if shell := os.Getenv("SHELL"); shell != "" {
		return []string{shell}
	}
	return []string{"/bin/sh"}
}
