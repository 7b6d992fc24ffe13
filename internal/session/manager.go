package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ReapInterval is how often the reaper sweeps for stale sessions.
const ReapInterval = 10 * time.Second

// ReapAfter is how long a session may sit detached before the reaper closes
// it (SPEC_FULL §4 C8, grounded on original_source/session.rs's
// reap_stale_sessions).
const ReapAfter = 60 * time.Second

// Manager owns the set of live sessions. The map mutex only ever guards
// insert/lookup/delete of entries; each Session guards its own mutable
// fields, so concurrent operations on two different sessions never
// contend with each other (§5 "per-entry locking, not whole-map locking").
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	// defaultShell is the argv used when a create request supplies none,
	// set from config.Config.Shell (SPEC_FULL §2 "Configuration").
	defaultShell []string

	stopReap chan struct{}
	reapOnce sync.Once
}

// NewManager returns an empty Manager and starts its background reaper.
// shell is the configured default login shell, used for any session whose
// create request omits an explicit argv; pass "" to fall back to
// defaultShell()'s own $SHELL/platform detection.
func NewManager(shell string) *Manager {
	m := &Manager{
		sessions: make(map[uuid.UUID]*Session),
		stopReap: make(chan struct{}),
	}
	if shell != "" {
		m.defaultShell = []string{shell}
	}
	go m.reapLoop()
	return m
}

// Create spawns a new session and registers it. If opts.Argv is empty, it
// defaults to the Manager's configured shell before falling back to
// New's own platform detection.
func (m *Manager) Create(opts Options) (*Session, error) {
	if len(opts.Argv) == 0 {
		opts.Argv = m.defaultShell
	}
	s, err := New(opts)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

// Get looks up a session by ID.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func notFound(id uuid.UUID) error {
	return fmt.Errorf("session %s not found", id)
}

// Write forwards data to the session's PTY.
func (m *Manager) Write(id uuid.UUID, data []byte) error {
	s, ok := m.Get(id)
	if !ok {
		return notFound(id)
	}
	_, err := s.Write(data)
	return err
}

// Resize updates a session's PTY window size.
func (m *Manager) Resize(id uuid.UUID, cols, rows int) error {
	s, ok := m.Get(id)
	if !ok {
		return notFound(id)
	}
	return s.Resize(cols, rows)
}

// Attach streams a session's output to ch, returning any buffered backlog.
func (m *Manager) Attach(id uuid.UUID, ch chan<- []byte) ([]byte, error) {
	s, ok := m.Get(id)
	if !ok {
		return nil, notFound(id)
	}
	return s.Attach(ch), nil
}

// Detach stops streaming a session's output and marks it as disconnected
// for reaping purposes. The session (and its child process) is left
// running.
func (m *Manager) Detach(id uuid.UUID) {
	if s, ok := m.Get(id); ok {
		s.Detach()
	}
}

// Close terminates and unregisters a session.
func (m *Manager) Close(id uuid.UUID) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

// CloseAll terminates every registered session, for server shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		all = append(all, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	var wg sync.WaitGroup
	for _, s := range all {
		wg.Add(1)
		go func(s *Session) { defer wg.Done(); s.Close() }(s)
	}
	wg.Wait()
}

// Stop halts the background reaper. It does not touch any sessions.
func (m *Manager) Stop() {
	m.reapOnce.Do(func() { close(m.stopReap) })
}

func (m *Manager) reapLoop() {
	t := time.NewTicker(ReapInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			m.reapStale()
		case <-m.stopReap:
			return
		}
	}
}

func (m *Manager) reapStale() {
	m.mu.RLock()
	var stale []uuid.UUID
	for id, s := range m.sessions {
		if d, detached := s.DisconnectedFor(); detached && d > ReapAfter {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range stale {
		m.Close(id)
	}
}
