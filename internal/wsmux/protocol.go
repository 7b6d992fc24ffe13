package wsmux

import "encoding/json"

// frameHeaderLen is the size of the binary-frame session-id prefix: a
// 16-byte big-endian UUID (RFC 4122, v4), per SPEC_FULL §6.
const frameHeaderLen = 16

// controlMessage is the envelope every text frame is parsed into first, to
// read its Type before unmarshaling the rest into a concrete message.
type controlMessage struct {
	Type string `json:"type"`
}

// createMessage is sent client→server to start a new session. Argv is
// optional — when empty the server falls back to its configured default
// shell (SPEC_FULL §4 C7 supplement: "shell argv selection as an optional
// create-request field").
type createMessage struct {
	Type string   `json:"type"` // "create"
	Cols int      `json:"cols"`
	Rows int      `json:"rows"`
	Argv []string `json:"argv,omitempty"`
}

// attachMessage is sent client→server to (re)attach to an existing session.
type attachMessage struct {
	Type      string `json:"type"` // "attach"
	SessionID string `json:"session_id"`
}

// resizeMessage is sent client→server to resize an attached session's PTY.
type resizeMessage struct {
	Type      string `json:"type"` // "resize"
	SessionID string `json:"session_id"`
	Cols      int    `json:"cols"`
	Rows      int    `json:"rows"`
}

// closeMessage is sent client→server to terminate a session outright.
type closeMessage struct {
	Type      string `json:"type"` // "close"
	SessionID string `json:"session_id"`
}

// createdMessage is sent server→client in reply to create.
type createdMessage struct {
	Type      string `json:"type"` // "created"
	SessionID string `json:"session_id"`
}

// attachedMessage is sent server→client in reply to attach.
type attachedMessage struct {
	Type      string `json:"type"` // "attached"
	SessionID string `json:"session_id"`
}

// errorMessage is sent server→client when a control message fails.
type errorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

func marshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		// Every type above is a plain struct of strings/ints; Marshal
		// cannot fail on them.
		panic(err)
	}
	return b
}
