package session

import (
	"sync"

	"github.com/vectorcanvas/core/collab/protocol"
)

// ClientConnection is one connected WebSocket client's presence state and
// outbound message channel (original_source's session.rs ClientConnection,
// translated from an mpsc::UnboundedSender onto a buffered Go channel).
type ClientConnection struct {
	ClientID       string
	DisplayName    string
	Color          string
	SessionToken   string
	Status         protocol.PresenceStatus
	CursorPosition *protocol.CursorPosition
	Selection      *protocol.Selection

	outbound chan protocol.ServerMessage
}

// OutboundBufferSize bounds how many queued server messages a slow client
// tolerates before Send starts dropping frames rather than blocking the
// broadcaster goroutine. A connecting transport should size its shared
// outbound channel to this capacity.
const OutboundBufferSize = 256

// NewClientConnection returns a connection in PresenceActive status,
// delivering outbound messages on outbound. outbound is owned by the
// physical transport connection (one per socket) and shared across every
// document a client joins over that socket — original_source's
// ClientConnection carries the same mpsc::UnboundedSender across every
// DocumentSession a client belongs to, rather than one channel per join.
func NewClientConnection(clientID, displayName, color, sessionToken string, outbound chan protocol.ServerMessage) *ClientConnection {
	return &ClientConnection{
		ClientID:     clientID,
		DisplayName:  displayName,
		Color:        color,
		SessionToken: sessionToken,
		Status:       protocol.PresenceActive,
		outbound:     outbound,
	}
}

// Outbound returns the channel a connection's writer goroutine drains.
func (c *ClientConnection) Outbound() <-chan protocol.ServerMessage { return c.outbound }

// Send enqueues msg for delivery, reporting false if the client's queue is
// full (a slow or stalled connection) rather than blocking the caller.
func (c *ClientConnection) Send(msg protocol.ServerMessage) bool {
	select {
	case c.outbound <- msg:
		return true
	default:
		return false
	}
}

// ToClientInfo projects a connection's presence fields into the wire
// ClientInfo shape broadcast to peers.
func (c *ClientConnection) ToClientInfo() protocol.ClientInfo {
	return protocol.ClientInfo{
		ClientID:       c.ClientID,
		DisplayName:    c.DisplayName,
		Color:          c.Color,
		Status:         c.Status,
		CursorPosition: c.CursorPosition,
		Selection:      c.Selection,
	}
}

// DocumentSession is the set of clients currently collaborating on one
// document (original_source's session.rs DocumentSession). Broadcasting
// writes directly into each client's outbound channel, replacing the
// original's tokio::sync::broadcast fan-out — Go has no broadcast channel
// primitive, and per-client delivery queues give the same slow-consumer
// isolation without a subscriber-count ceiling.
type DocumentSession struct {
	mu      sync.RWMutex
	clients map[string]*ClientConnection
}

// NewDocumentSession returns an empty session.
func NewDocumentSession() *DocumentSession {
	return &DocumentSession{clients: make(map[string]*ClientConnection)}
}

// AddClient registers a connection in the session.
func (s *DocumentSession) AddClient(c *ClientConnection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.ClientID] = c
}

// RemoveClient unregisters a client, returning its connection if present.
func (s *DocumentSession) RemoveClient(clientID string) (*ClientConnection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[clientID]
	if ok {
		delete(s.clients, clientID)
	}
	return c, ok
}

// GetClient returns a client's connection, if present.
func (s *DocumentSession) GetClient(clientID string) (*ClientConnection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[clientID]
	return c, ok
}

// ClientInfos returns presence records for every connected client.
func (s *DocumentSession) ClientInfos() []protocol.ClientInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]protocol.ClientInfo, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c.ToClientInfo())
	}
	return out
}

// ClientCount returns the number of connected clients.
func (s *DocumentSession) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// IsEmpty reports whether the session has no connected clients.
func (s *DocumentSession) IsEmpty() bool { return s.ClientCount() == 0 }

// Broadcast enqueues message on every client's outbound channel except
// excludeClientID (pass "" to exclude none).
func (s *DocumentSession) Broadcast(message protocol.ServerMessage, excludeClientID string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, c := range s.clients {
		if id == excludeClientID {
			continue
		}
		c.Send(message)
	}
}

// SendToClient delivers message directly to one client, reporting whether
// it was enqueued.
func (s *DocumentSession) SendToClient(clientID string, message protocol.ServerMessage) bool {
	s.mu.RLock()
	c, ok := s.clients[clientID]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	return c.Send(message)
}
