// Package transport upgrades incoming HTTP requests to WebSocket
// connections and runs each connection's reader/writer goroutines,
// decoding and encoding protocol frames and routing them through
// collab/handler. Grounded on original_source's sync-server main.rs/
// websocket handling (axum's ws upgrade + spawned read/write tasks),
// translated onto gorilla/websocket and native goroutines — no async
// runtime equivalent exists in Go.
package transport

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vectorcanvas/core/collab/handler"
	"github.com/vectorcanvas/core/collab/protocol"
	"github.com/vectorcanvas/core/collab/session"
)

// writeTimeout bounds how long a single frame write may block before the
// connection is considered dead.
const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades r to a WebSocket connection and runs its session loop
// until the client disconnects. No authentication is implemented in the
// core per SPEC_FULL.md's Resolved Open Questions; the connecting client's
// identity is learned from the client_id field of the messages it sends,
// the most recent non-empty one winning (original_source's server.rs
// likewise tracks client_id from incoming messages rather than requiring
// it at upgrade time).
//
// One outbound channel is created per socket and shared by every document
// the client joins over it (original_source's ClientConnection carries the
// same mpsc::UnboundedSender across every DocumentSession a client
// belongs to); a single writer goroutine drains it for the socket's
// lifetime.
func ServeWS(manager *session.Manager, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("collab: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionToken := uuid.NewString()
	outbound := make(chan protocol.ServerMessage, session.OutboundBufferSize)

	done := make(chan struct{})
	go writeLoop(conn, outbound, done)

	clientID := readLoop(conn, manager, sessionToken, outbound)

	close(done)
	if clientID != "" {
		handler.HandleDisconnect(manager, clientID, sessionToken)
	}
}

// readLoop decodes incoming text frames and dispatches them until the
// connection errors or closes, returning the last client_id seen (empty
// if the client never identified itself) for ServeWS's disconnect cleanup.
func readLoop(conn *websocket.Conn, manager *session.Manager, sessionToken string, outbound chan protocol.ServerMessage) string {
	var clientID string
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return clientID
		}
		msg, err := protocol.DecodeClientMessage(data)
		if err != nil {
			log.Printf("collab: invalid frame: %v", err)
			continue
		}
		if msg.ClientID != "" {
			clientID = msg.ClientID
		}
		handler.Dispatch(manager, msg, clientID, sessionToken, outbound)
	}
}

// writeLoop drains outbound and writes each message as a text frame until
// done is closed.
func writeLoop(conn *websocket.Conn, outbound <-chan protocol.ServerMessage, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg := <-outbound:
			writeMessage(conn, msg)
		}
	}
}

func writeMessage(conn *websocket.Conn, msg protocol.ServerMessage) {
	data, err := msg.Encode()
	if err != nil {
		log.Printf("collab: failed to encode outgoing message: %v", err)
		return
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("collab: write failed: %v", err)
	}
}
