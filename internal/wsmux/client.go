package wsmux

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/patrick-goecommerce/termmux/internal/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client multiplexes one websocket connection over any number of sessions.
type Client struct {
	conn    *websocket.Conn
	manager *session.Manager

	merged chan []byte // fan-in: every attached session's output, framed

	mu       sync.Mutex
	attached map[uuid.UUID]chan<- []byte // per-session forwarder's receive-side handle, for Close bookkeeping
	cancel   map[uuid.UUID]chan struct{}

	writeMu sync.Mutex
}

// NewClient wraps a websocket connection, ready to Serve.
func NewClient(conn *websocket.Conn, manager *session.Manager) *Client {
	return &Client{
		conn:     conn,
		manager:  manager,
		merged:   make(chan []byte, 256),
		attached: make(map[uuid.UUID]chan<- []byte),
		cancel:   make(map[uuid.UUID]chan struct{}),
	}
}

// Serve runs the client's read and write pumps until the connection closes.
// It detaches (never closes) every session still attached when the socket
// goes away, so other clients can pick them back up (SPEC_FULL §6).
func (c *Client) Serve() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.readPump()
	}()
	c.writePump(done)
	c.detachAll()
}

func (c *Client) readPump() {
	defer c.conn.Close()
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		switch kind {
		case websocket.TextMessage:
			c.handleControl(data)
		case websocket.BinaryMessage:
			c.handleBinary(data)
		}
	}
}

func (c *Client) handleBinary(data []byte) {
	if len(data) < frameHeaderLen {
		return
	}
	id, err := uuid.FromBytes(data[:frameHeaderLen])
	if err != nil {
		return
	}
	payload := data[frameHeaderLen:]
	if len(payload) == 0 {
		return
	}
	if err := c.manager.Write(id, payload); err != nil {
		c.sendError(err)
	}
}

func (c *Client) handleControl(data []byte) {
	var env controlMessage
	if err := json.Unmarshal(data, &env); err != nil {
		c.sendError(fmt.Errorf("malformed control message: %w", err))
		return
	}
	switch env.Type {
	case "create":
		var m createMessage
		json.Unmarshal(data, &m)
		c.handleCreate(m)
	case "attach":
		var m attachMessage
		json.Unmarshal(data, &m)
		c.handleAttach(m)
	case "resize":
		var m resizeMessage
		json.Unmarshal(data, &m)
		c.handleResize(m)
	case "close":
		var m closeMessage
		json.Unmarshal(data, &m)
		c.handleClose(m)
	default:
		c.sendError(fmt.Errorf("unknown control message type %q", env.Type))
	}
}

func (c *Client) handleCreate(m createMessage) {
	s, err := c.manager.Create(session.Options{Argv: m.Argv, Cols: m.Cols, Rows: m.Rows})
	if err != nil {
		c.sendError(fmt.Errorf("create session: %w", err))
		return
	}
	c.startForwarder(s.ID)
	c.sendJSON(createdMessage{Type: "created", SessionID: s.ID.String()})
}

func (c *Client) handleAttach(m attachMessage) {
	id, err := uuid.Parse(m.SessionID)
	if err != nil {
		c.sendError(fmt.Errorf("invalid session id %q", m.SessionID))
		return
	}
	c.startForwarder(id)
	c.sendJSON(attachedMessage{Type: "attached", SessionID: id.String()})
}

func (c *Client) handleResize(m resizeMessage) {
	id, err := uuid.Parse(m.SessionID)
	if err != nil {
		c.sendError(fmt.Errorf("invalid session id %q", m.SessionID))
		return
	}
	if err := c.manager.Resize(id, m.Cols, m.Rows); err != nil {
		c.sendError(err)
	}
}

func (c *Client) handleClose(m closeMessage) {
	id, err := uuid.Parse(m.SessionID)
	if err != nil {
		c.sendError(fmt.Errorf("invalid session id %q", m.SessionID))
		return
	}
	c.stopForwarder(id)
	c.manager.Close(id)
}

// startForwarder attaches to session id and spawns a goroutine that frames
// its output and feeds it into the client's merged fan-in channel. Any
// forwarder previously running for the same id is stopped first, since a
// session can only usefully stream to one receiver per Attach.
func (c *Client) startForwarder(id uuid.UUID) {
	c.stopForwarder(id)

	out := make(chan []byte, 64)
	backlog, err := c.manager.Attach(id, out)
	if err != nil {
		c.sendError(err)
		return
	}

	stop := make(chan struct{})
	c.mu.Lock()
	c.attached[id] = out
	c.cancel[id] = stop
	c.mu.Unlock()

	if len(backlog) > 0 {
		c.forward(id, backlog)
	}
	go c.forwardLoop(id, out, stop)
}

func (c *Client) forwardLoop(id uuid.UUID, out chan []byte, stop chan struct{}) {
	for {
		select {
		case data, ok := <-out:
			if !ok {
				return
			}
			c.forward(id, data)
		case <-stop:
			return
		}
	}
}

func (c *Client) forward(id uuid.UUID, payload []byte) {
	frame := make([]byte, frameHeaderLen+len(payload))
	copy(frame, id[:])
	copy(frame[frameHeaderLen:], payload)
	select {
	case c.merged <- frame:
	default:
		log.Printf("[wsmux] client too slow, dropping frame for session %s", id)
	}
}

func (c *Client) stopForwarder(id uuid.UUID) {
	c.mu.Lock()
	stop, ok := c.cancel[id]
	delete(c.cancel, id)
	delete(c.attached, id)
	c.mu.Unlock()
	if ok {
		close(stop)
		c.manager.Detach(id)
	}
}

func (c *Client) detachAll() {
	c.mu.Lock()
	ids := make([]uuid.UUID, 0, len(c.cancel))
	for id := range c.cancel {
		ids = append(ids, id)
	}
	c.mu.Unlock()
	for _, id := range ids {
		c.stopForwarder(id)
	}
}

func (c *Client) sendJSON(v any) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, marshal(v)); err != nil {
		log.Printf("[wsmux] write error: %v", err)
	}
}

func (c *Client) sendError(err error) {
	c.sendJSON(errorMessage{Type: "error", Message: err.Error()})
}

// writePump drains the merged channel into binary frames and sends periodic
// pings. It takes writeMu for each write, the same lock sendJSON holds, since
// gorilla/websocket allows at most one concurrent writer.
func (c *Client) writePump(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame := <-c.merged:
			c.writeMu.Lock()
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := c.conn.WriteMessage(websocket.BinaryMessage, frame)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-ticker.C:
			c.writeMu.Lock()
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := c.conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
