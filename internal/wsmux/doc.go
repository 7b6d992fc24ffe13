// Package wsmux multiplexes many PTY sessions over one WebSocket connection
// per client. Binary frames carry a 16-byte session UUID prefix followed by
// raw PTY bytes in either direction; text frames carry JSON control
// messages (create/attach/resize/close from the client, created/attached/
// error from the server).
//
// One Client owns one websocket.Conn. Each session it attaches to gets its
// own forwarder goroutine reading that session's output channel and
// writing framed binary messages into a single per-client fan-in channel.
// Every write to the websocket connection (binary frames and pings from the
// write pump, JSON replies from the read pump) is serialized by one mutex,
// since gorilla/websocket allows at most one concurrent writer.
package wsmux
