package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestManagerCreateGetClose(t *testing.T) {
	m := NewManager("")
	defer m.Stop()

	s, err := m.Create(Options{Argv: []string{"/bin/sh", "-i"}, Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := m.Get(s.ID); !ok {
		t.Fatal("expected session to be registered")
	}

	m.Close(s.ID)
	if _, ok := m.Get(s.ID); ok {
		t.Fatal("expected session to be unregistered after Close")
	}
}

func TestManagerCreateUsesConfiguredDefaultShell(t *testing.T) {
	m := NewManager("/bin/sh")
	defer m.Stop()

	s, err := m.Create(Options{Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer m.Close(s.ID)

	ch := make(chan []byte, 16)
	s.Attach(ch)
	if _, err := s.Write([]byte("echo hi\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for shell output; default shell likely didn't start")
	}
}

func TestManagerOperationsOnUnknownSession(t *testing.T) {
	m := NewManager("")
	defer m.Stop()

	id := uuid.New()
	if err := m.Write(id, []byte("x")); err == nil {
		t.Error("expected error writing to unknown session")
	}
	if err := m.Resize(id, 80, 24); err == nil {
		t.Error("expected error resizing unknown session")
	}
	if _, err := m.Attach(id, make(chan []byte, 1)); err == nil {
		t.Error("expected error attaching to unknown session")
	}
}

func TestManagerReapsStaleSessions(t *testing.T) {
	m := &Manager{sessions: make(map[uuid.UUID]*Session), stopReap: make(chan struct{})}

	s, err := New(Options{Argv: []string{"/bin/sh", "-i"}, Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.sessions[s.ID] = s

	s.Detach()
	past := time.Now().Add(-2 * ReapAfter)
	s.mu.Lock()
	s.disconnected = &past
	s.mu.Unlock()

	m.reapStale()

	if _, ok := m.Get(s.ID); ok {
		t.Fatal("expected stale session to be reaped")
	}
}

func TestManagerCloseAll(t *testing.T) {
	m := NewManager("")
	defer m.Stop()

	for i := 0; i < 3; i++ {
		if _, err := m.Create(Options{Argv: []string{"/bin/sh", "-i"}, Cols: 80, Rows: 24}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	m.CloseAll()

	m.mu.RLock()
	n := len(m.sessions)
	m.mu.RUnlock()
	if n != 0 {
		t.Errorf("sessions remaining after CloseAll = %d, want 0", n)
	}
}
