// Command termmux-client is a thin terminal client: it dials a
// termmux-server over WebSocket, creates one session, and pumps raw
// keyboard bytes in and rendered cells out. It intentionally carries no UI
// chrome beyond a one-line status bar (spec Non-goals: "providing UI
// chrome" belongs to richer frontends, not this reference client).
package main

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

// minBackoff and maxBackoff bound the client's reconnect delay: 1s, 2s,
// 4s, ... capped at 30s (spec §5 "client reconnect uses exponential
// backoff").
const (
	minBackoff = 1 * time.Second
	maxBackoff = 30 * time.Second
)

// handshakeTimeout bounds how long a single dial attempt may take before
// it's treated as a failure (spec §5 "5-second connect timeout").
const handshakeTimeout = 5 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var addr string
	var insecure bool

	cmd := &cobra.Command{
		Use:   "termmux-client",
		Short: "Attach a terminal to a termmux-server session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(addr, insecure)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:3000", "server host:port")
	cmd.Flags().BoolVar(&insecure, "insecure", false, "skip TLS certificate verification")
	return cmd
}

func run(addr string, insecure bool) error {
	for {
		conn := connectWithBackoff(addr, insecure)

		m := newModel(conn)
		p := tea.NewProgram(m, tea.WithAltScreen())
		_, err := p.Run()
		conn.Close()
		if err != nil {
			return err
		}
		if !m.dropped {
			return nil
		}
		log.Printf("client: connection lost; reconnecting")
	}
}

// dial opens one websocket connection, failing fast if the TLS/HTTP
// handshake doesn't complete within handshakeTimeout.
func dial(addr string, insecure bool) (*websocket.Conn, error) {
	u := url.URL{Scheme: "wss", Host: addr, Path: "/ws"}
	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
		TLSClientConfig:  &tls.Config{InsecureSkipVerify: insecure},
	}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", u.String(), err)
	}
	return conn, nil
}

// backoffDuration returns the delay before reconnect attempt n (0-based):
// 1s, 2s, 4s, ... capped at maxBackoff. It never decreases as attempt
// grows (spec §8 "backoff monotonicity").
func backoffDuration(attempt int) time.Duration {
	if attempt < 0 || attempt > 4 {
		return maxBackoff
	}
	d := minBackoff * time.Duration(int64(1)<<uint(attempt))
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

// connectWithBackoff dials addr, retrying with exponential backoff until a
// connection succeeds.
func connectWithBackoff(addr string, insecure bool) *websocket.Conn {
	for attempt := 0; ; attempt++ {
		conn, err := dial(addr, insecure)
		if err == nil {
			return conn
		}
		wait := backoffDuration(attempt)
		log.Printf("client: %v; retrying in %s", err, wait)
		time.Sleep(wait)
	}
}

var statusStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")).
	Background(lipgloss.Color("235"))

// frameMsg wraps one decoded incoming PTY frame for bubbletea's Update loop.
type frameMsg struct {
	sessionID uuid.UUID
	payload   []byte
}

// controlMsg wraps a parsed JSON control reply (created/attached/error).
type controlMsg struct {
	Type      string
	SessionID string
	Message   string
}

type connClosedMsg struct{ err error }

type model struct {
	conn    *websocket.Conn
	grid    *grid
	session uuid.UUID
	width   int
	height  int
	status  string
	frames  chan tea.Msg
	dropped bool // set when the program quit because the connection died
}

func newModel(conn *websocket.Conn) *model {
	return &model{
		conn:   conn,
		grid:   newGrid(24, 80),
		frames: make(chan tea.Msg, 64),
		status: "connecting...",
	}
}

func (m *model) Init() tea.Cmd {
	go m.readLoop()
	return tea.Batch(waitForFrame(m.frames), sendCreate(m.conn, 80, 24))
}

func (m *model) readLoop() {
	for {
		kind, data, err := m.conn.ReadMessage()
		if err != nil {
			m.frames <- connClosedMsg{err}
			return
		}
		switch kind {
		case websocket.BinaryMessage:
			if len(data) < 16 {
				continue
			}
			id, err := uuid.FromBytes(data[:16])
			if err != nil {
				continue
			}
			m.frames <- frameMsg{sessionID: id, payload: data[16:]}
		case websocket.TextMessage:
			var env map[string]string
			if err := json.Unmarshal(data, &env); err != nil {
				continue
			}
			m.frames <- controlMsg{Type: env["type"], SessionID: env["session_id"], Message: env["message"]}
		}
	}
}

func waitForFrame(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-ch }
}

func sendCreate(conn *websocket.Conn, cols, rows int) tea.Cmd {
	return func() tea.Msg {
		msg := map[string]any{"type": "create", "cols": cols, "rows": rows}
		b, _ := json.Marshal(msg)
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return connClosedMsg{err}
		}
		return nil
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.grid.resize(msg.Height-1, msg.Width)
		return m, m.sendResize(msg.Width, msg.Height-1)
	case tea.KeyMsg:
		if m.session == uuid.Nil {
			return m, waitForFrame(m.frames)
		}
		return m, m.sendInput(keyBytes(msg))
	case controlMsg:
		switch msg.Type {
		case "created", "attached":
			if id, err := uuid.Parse(msg.SessionID); err == nil {
				m.session = id
				m.status = "session " + id.String()[:8]
			}
		case "error":
			m.status = "error: " + msg.Message
		}
		return m, waitForFrame(m.frames)
	case frameMsg:
		if msg.sessionID == m.session {
			m.grid.write(msg.payload)
		}
		return m, waitForFrame(m.frames)
	case connClosedMsg:
		m.status = "disconnected"
		m.dropped = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) sendInput(data []byte) tea.Cmd {
	return func() tea.Msg {
		frame := make([]byte, 16+len(data))
		copy(frame, m.session[:])
		copy(frame[16:], data)
		if err := m.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			return connClosedMsg{err}
		}
		return nil
	}
}

func (m *model) sendResize(cols, rows int) tea.Cmd {
	return func() tea.Msg {
		if m.session == uuid.Nil || cols <= 0 || rows <= 0 {
			return nil
		}
		msg := map[string]any{"type": "resize", "session_id": m.session.String(), "cols": cols, "rows": rows}
		b, _ := json.Marshal(msg)
		if err := m.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return connClosedMsg{err}
		}
		return nil
	}
}

func (m *model) View() string {
	return m.grid.render() + "\n" + statusStyle.Render(m.status)
}

func init() {
	log.SetFlags(0)
}
