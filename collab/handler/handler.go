// Package handler dispatches decoded protocol.ClientMessage values against
// a session.Manager, mirroring original_source's handler.rs message match
// arm-for-arm: join/leave update session membership, change/sync_request
// drive the CRDT replica, and cursor/selection/presence updates are
// ephemeral broadcasts that never touch the replica.
package handler

import (
	"encoding/base64"
	"fmt"
	"log"

	"github.com/vectorcanvas/core/collab/protocol"
	"github.com/vectorcanvas/core/collab/session"
)

// Dispatch routes one decoded client message for a single connection,
// identified by clientID and sessionToken. outbound is that connection's
// shared send queue: Dispatch both enqueues direct replies (join_ack,
// pong, errors) on it and hands it to session.NewClientConnection so that
// later broadcasts from other clients reach this same queue.
func Dispatch(manager *session.Manager, msg protocol.ClientMessage, clientID, sessionToken string, outbound chan protocol.ServerMessage) {
	reply := func(m protocol.ServerMessage) {
		select {
		case outbound <- m:
		default:
		}
	}
	switch msg.Type {
	case protocol.TypeJoinDocument:
		handleJoinDocument(manager, msg, clientID, sessionToken, outbound, reply)
	case protocol.TypeLeaveDocument:
		handleLeaveDocument(manager, msg, clientID, sessionToken)
	case protocol.TypeChange:
		handleChange(manager, msg, clientID)
	case protocol.TypeSyncRequest:
		handleSyncRequest(manager, msg, clientID, sessionToken, reply)
	case protocol.TypeCursorMove:
		handleCursorMove(manager, msg, clientID)
	case protocol.TypeSelectionUpdate:
		handleSelectionUpdate(manager, msg, clientID)
	case protocol.TypePresenceUpdate:
		handlePresenceUpdate(manager, msg, clientID)
	case protocol.TypePing:
		reply(protocol.ServerMessage{Type: protocol.TypePong, ServerTime: nowString()})
	default:
		reply(protocol.ServerMessage{Type: protocol.TypeError, Code: protocol.ErrInvalidMessage, Message: fmt.Sprintf("unknown message type %q", msg.Type)})
	}
}

func handleJoinDocument(manager *session.Manager, msg protocol.ClientMessage, clientID, sessionToken string, outbound chan protocol.ServerMessage, reply func(protocol.ServerMessage)) {
	documentID := docID(msg.DocumentID)
	log.Printf("collab: client %s joining document %s", clientID, documentID)

	managed, err := manager.Store.GetOrCreate(documentID)
	if err != nil {
		reply(protocol.ServerMessage{Type: protocol.TypeError, Code: protocol.ErrInternalError, Message: err.Error(), DocumentID: msg.DocumentID})
		return
	}
	docBytes, err := managed.Doc.Save()
	if err != nil {
		reply(protocol.ServerMessage{Type: protocol.TypeError, Code: protocol.ErrInternalError, Message: err.Error(), DocumentID: msg.DocumentID})
		return
	}
	version := uint64(len(managed.Doc.Heads()))

	conn := session.NewClientConnection(clientID, displayName(clientID), protocol.GenerateColor(clientID), sessionToken, outbound)

	sess := manager.GetOrCreateSession(documentID)
	connectedBefore := sess.ClientInfos()
	sess.AddClient(conn)

	reply(protocol.ServerMessage{
		Type:             protocol.TypeJoinAck,
		DocumentID:       msg.DocumentID,
		ClientID:         clientID,
		DocumentState:    base64.StdEncoding.EncodeToString(docBytes),
		Version:          version,
		ConnectedClients: connectedBefore,
	})

	sess.Broadcast(protocol.ServerMessage{
		Type:       protocol.TypeClientJoined,
		DocumentID: msg.DocumentID,
		ClientInfo: conn.ToClientInfo(),
	}, clientID)
}

func handleLeaveDocument(manager *session.Manager, msg protocol.ClientMessage, clientID, sessionToken string) {
	documentID := docID(msg.DocumentID)
	log.Printf("collab: client %s leaving document %s", clientID, documentID)

	sess, ok := manager.GetSession(documentID)
	if !ok {
		return
	}
	if _, removed := sess.RemoveClient(clientID); removed {
		if managed, ok := manager.Store.Get(documentID); ok {
			managed.RemovePeerState(sessionToken)
		}
		sess.Broadcast(protocol.ServerMessage{
			Type:       protocol.TypeClientLeft,
			DocumentID: msg.DocumentID,
			ClientID:   clientID,
		}, "")
	}
	if sess.IsEmpty() {
		manager.RemoveSession(documentID)
	}
}

func handleChange(manager *session.Manager, msg protocol.ClientMessage, clientID string) {
	documentID := docID(msg.DocumentID)
	changeBytes, err := base64.StdEncoding.DecodeString(msg.Change)
	if err != nil {
		log.Printf("collab: failed to decode change from %s: %v", clientID, err)
		return
	}

	managed, err := manager.Store.GetOrCreate(documentID)
	if err != nil {
		log.Printf("collab: failed to load document %s: %v", documentID, err)
		return
	}
	if err := managed.Doc.ApplyIncremental(changeBytes); err != nil {
		log.Printf("collab: failed to apply change from %s: %v", clientID, err)
		return
	}
	version := uint64(len(managed.Doc.Heads()))

	if sess, ok := manager.GetSession(documentID); ok {
		sess.Broadcast(protocol.ServerMessage{
			Type:           protocol.TypeChangeBroadcast,
			DocumentID:     msg.DocumentID,
			SourceClientID: clientID,
			Change:         msg.Change,
			Version:        version,
		}, clientID)
	}
}

func handleSyncRequest(manager *session.Manager, msg protocol.ClientMessage, clientID, sessionToken string, reply func(protocol.ServerMessage)) {
	documentID := docID(msg.DocumentID)
	syncBytes, err := base64.StdEncoding.DecodeString(msg.SyncMessage)
	if err != nil {
		reply(protocol.ServerMessage{Type: protocol.TypeError, Code: protocol.ErrSyncError, Message: fmt.Sprintf("invalid sync message: %v", err), DocumentID: msg.DocumentID})
		return
	}

	managed, err := manager.Store.GetOrCreate(documentID)
	if err != nil {
		reply(protocol.ServerMessage{Type: protocol.TypeError, Code: protocol.ErrInternalError, Message: err.Error(), DocumentID: msg.DocumentID})
		return
	}
	peer := managed.PeerState(sessionToken)

	if err := managed.Doc.ReceiveSyncMessage(peer, syncBytes); err != nil {
		reply(protocol.ServerMessage{Type: protocol.TypeError, Code: protocol.ErrSyncError, Message: err.Error(), DocumentID: msg.DocumentID})
		return
	}

	responseBytes, hasMore := managed.Doc.GenerateSyncMessage(peer)
	var encoded *string
	if hasMore {
		s := base64.StdEncoding.EncodeToString(responseBytes)
		encoded = &s
	}
	reply(protocol.ServerMessage{
		Type:        protocol.TypeSyncResponse,
		DocumentID:  msg.DocumentID,
		SyncMessage: encoded,
		IsComplete:  !hasMore,
	})
}

func handleCursorMove(manager *session.Manager, msg protocol.ClientMessage, clientID string) {
	documentID := docID(msg.DocumentID)
	sess, ok := manager.GetSession(documentID)
	if !ok {
		return
	}
	if conn, ok := sess.GetClient(clientID); ok {
		pos := msg.Position
		conn.CursorPosition = &pos
	}
	sess.Broadcast(protocol.ServerMessage{
		Type:       protocol.TypeCursorBroadcast,
		DocumentID: msg.DocumentID,
		ClientID:   clientID,
		Position:   msg.Position,
	}, clientID)
}

func handleSelectionUpdate(manager *session.Manager, msg protocol.ClientMessage, clientID string) {
	documentID := docID(msg.DocumentID)
	sess, ok := manager.GetSession(documentID)
	if !ok {
		return
	}
	if conn, ok := sess.GetClient(clientID); ok {
		sel := msg.Selection
		conn.Selection = &sel
	}
	sess.Broadcast(protocol.ServerMessage{
		Type:       protocol.TypeSelectionBroadcast,
		DocumentID: msg.DocumentID,
		ClientID:   clientID,
		Selection:  msg.Selection,
	}, clientID)
}

func handlePresenceUpdate(manager *session.Manager, msg protocol.ClientMessage, clientID string) {
	documentID := docID(msg.DocumentID)
	sess, ok := manager.GetSession(documentID)
	if !ok {
		return
	}
	if conn, ok := sess.GetClient(clientID); ok {
		conn.Status = msg.Status
	}
	sess.Broadcast(protocol.ServerMessage{
		Type:       protocol.TypePresenceBroadcast,
		DocumentID: msg.DocumentID,
		ClientID:   clientID,
		Status:     msg.Status,
	}, clientID)
}

// HandleDisconnect cleans up a client's membership across every session it
// had joined, mirroring original_source's disconnect sweep.
func HandleDisconnect(manager *session.Manager, clientID, sessionToken string) {
	log.Printf("collab: client %s disconnected", clientID)
	for _, documentID := range manager.ActiveSessions() {
		handleLeaveDocument(manager, protocol.ClientMessage{DocumentID: string(documentID)}, clientID, sessionToken)
	}
}

func displayName(clientID string) string {
	n := len(clientID)
	if n > 8 {
		n = 8
	}
	return "User-" + clientID[:n]
}
