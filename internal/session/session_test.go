package session

import (
	"bytes"
	"testing"
	"time"
)

func readAttached(t *testing.T, s *Session, want string, timeout time.Duration) {
	t.Helper()
	ch := make(chan []byte, 64)
	backlog := s.Attach(ch)

	var buf bytes.Buffer
	buf.Write(backlog)
	deadline := time.After(timeout)
	for !bytes.Contains(buf.Bytes(), []byte(want)) {
		select {
		case chunk := <-ch:
			buf.Write(chunk)
		case <-deadline:
			t.Fatalf("timed out waiting for %q, got %q", want, buf.String())
		}
	}
}

func TestSessionEchoesInput(t *testing.T) {
	s, err := New(Options{Argv: []string{"/bin/sh", "-i"}, Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if _, err := s.Write([]byte("echo hi-from-pty\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	readAttached(t, s, "hi-from-pty", 5*time.Second)
}

func TestSessionResize(t *testing.T) {
	s, err := New(Options{Argv: []string{"/bin/sh", "-i"}, Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if err := s.Resize(100, 40); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	cols, rows := s.Size()
	if cols != 100 || rows != 40 {
		t.Errorf("Size() = (%d,%d), want (100,40)", cols, rows)
	}
}

func TestSessionExitCode(t *testing.T) {
	s, err := New(Options{Argv: []string{"/bin/sh", "-c", "exit 0"}, Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	select {
	case <-s.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit in time")
	}
	code, exited := s.ExitCode()
	if !exited {
		t.Fatal("expected exited=true")
	}
	if code != 0 {
		t.Errorf("ExitCode() = %d, want 0", code)
	}
}

func TestSessionDetachThenReattachReplaysBacklog(t *testing.T) {
	s, err := New(Options{Argv: []string{"/bin/sh", "-i"}, Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	ch1 := make(chan []byte, 64)
	s.Attach(ch1)
	s.Detach()

	if _, detached := s.DisconnectedFor(); !detached {
		t.Fatal("expected session to report detached")
	}

	if _, err := s.Write([]byte("echo while-detached\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// Give the reader loop a moment to buffer the output.
	time.Sleep(200 * time.Millisecond)

	readAttached(t, s, "while-detached", 5*time.Second)
	if _, detached := s.DisconnectedFor(); detached {
		t.Fatal("expected session to report attached after reattach")
	}
}
