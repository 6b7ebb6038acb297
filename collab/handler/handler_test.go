package handler

import (
	"testing"

	"github.com/vectorcanvas/core/collab/protocol"
	"github.com/vectorcanvas/core/collab/session"
)

func newOutbound() chan protocol.ServerMessage {
	return make(chan protocol.ServerMessage, session.OutboundBufferSize)
}

func drain(ch chan protocol.ServerMessage) []protocol.ServerMessage {
	var out []protocol.ServerMessage
	for {
		select {
		case m := <-ch:
			out = append(out, m)
		default:
			return out
		}
	}
}

func TestDispatchPingRepliesWithPong(t *testing.T) {
	manager := session.NewManager("server-actor")
	out := newOutbound()

	Dispatch(manager, protocol.ClientMessage{Type: protocol.TypePing}, "client-1", "token-1", out)

	got := drain(out)
	if len(got) != 1 || got[0].Type != protocol.TypePong {
		t.Fatalf("got %+v, want one pong", got)
	}
}

func TestDispatchJoinDocumentSendsAckAndBroadcastsToOthers(t *testing.T) {
	manager := session.NewManager("server-actor")

	out1 := newOutbound()
	Dispatch(manager, protocol.ClientMessage{Type: protocol.TypeJoinDocument, DocumentID: "doc-1", ClientID: "client-1"}, "client-1", "token-1", out1)
	got1 := drain(out1)
	if len(got1) != 1 || got1[0].Type != protocol.TypeJoinAck {
		t.Fatalf("client-1 got %+v, want one join_ack", got1)
	}

	out2 := newOutbound()
	Dispatch(manager, protocol.ClientMessage{Type: protocol.TypeJoinDocument, DocumentID: "doc-1", ClientID: "client-2"}, "client-2", "token-2", out2)
	got2 := drain(out2)
	if len(got2) != 1 || got2[0].Type != protocol.TypeJoinAck {
		t.Fatalf("client-2 got %+v, want one join_ack", got2)
	}
	if len(got2[0].ConnectedClients) != 1 {
		t.Fatalf("client-2's join_ack listed %d prior clients, want 1", len(got2[0].ConnectedClients))
	}

	notified := drain(out1)
	if len(notified) != 1 || notified[0].Type != protocol.TypeClientJoined {
		t.Fatalf("client-1 received %+v, want one client_joined", notified)
	}
}

func TestDispatchLeaveDocumentRemovesSessionWhenEmpty(t *testing.T) {
	manager := session.NewManager("server-actor")
	out := newOutbound()
	Dispatch(manager, protocol.ClientMessage{Type: protocol.TypeJoinDocument, DocumentID: "doc-1", ClientID: "client-1"}, "client-1", "token-1", out)

	Dispatch(manager, protocol.ClientMessage{Type: protocol.TypeLeaveDocument, DocumentID: "doc-1", ClientID: "client-1"}, "client-1", "token-1", out)

	if _, ok := manager.GetSession("doc-1"); ok {
		t.Fatal("expected the session to be removed once its last client leaves")
	}
}

func TestDispatchChangeDecodeFailureDoesNotPanic(t *testing.T) {
	manager := session.NewManager("server-actor")
	out := newOutbound()
	Dispatch(manager, protocol.ClientMessage{Type: protocol.TypeChange, DocumentID: "doc-1", Change: "not-base64!!"}, "client-1", "token-1", out)
}

func TestDispatchSyncRequestInvalidBase64RepliesWithError(t *testing.T) {
	manager := session.NewManager("server-actor")
	out := newOutbound()
	Dispatch(manager, protocol.ClientMessage{Type: protocol.TypeSyncRequest, DocumentID: "doc-1", SyncMessage: "not-base64!!"}, "client-1", "token-1", out)
	got := drain(out)
	if len(got) != 1 || got[0].Type != protocol.TypeError || got[0].Code != protocol.ErrSyncError {
		t.Fatalf("got %+v, want one sync_error", got)
	}
}

func TestDispatchUnknownTypeRepliesWithInvalidMessageError(t *testing.T) {
	manager := session.NewManager("server-actor")
	out := newOutbound()
	Dispatch(manager, protocol.ClientMessage{Type: "not_a_real_type"}, "client-1", "token-1", out)
	got := drain(out)
	if len(got) != 1 || got[0].Code != protocol.ErrInvalidMessage {
		t.Fatalf("got %+v, want one invalid_message error", got)
	}
}

func TestDispatchCursorMoveUpdatesPresenceAndBroadcasts(t *testing.T) {
	manager := session.NewManager("server-actor")
	out1 := newOutbound()
	out2 := newOutbound()
	Dispatch(manager, protocol.ClientMessage{Type: protocol.TypeJoinDocument, DocumentID: "doc-1", ClientID: "client-1"}, "client-1", "token-1", out1)
	Dispatch(manager, protocol.ClientMessage{Type: protocol.TypeJoinDocument, DocumentID: "doc-1", ClientID: "client-2"}, "client-2", "token-2", out2)
	drain(out1)
	drain(out2)

	Dispatch(manager, protocol.ClientMessage{
		Type: protocol.TypeCursorMove, DocumentID: "doc-1", ClientID: "client-1",
		Position: protocol.CursorPosition{X: 5, Y: 10},
	}, "client-1", "token-1", out1)

	sess, _ := manager.GetSession("doc-1")
	conn1, _ := sess.GetClient("client-1")
	if conn1.CursorPosition == nil || conn1.CursorPosition.X != 5 {
		t.Fatalf("client-1's stored cursor = %+v, want x=5", conn1.CursorPosition)
	}

	got2 := drain(out2)
	if len(got2) != 1 || got2[0].Type != protocol.TypeCursorBroadcast || got2[0].Position.X != 5 {
		t.Fatalf("client-2 received %+v, want one cursor_broadcast x=5", got2)
	}
}

func TestDispatchDisconnectLeavesEverySession(t *testing.T) {
	manager := session.NewManager("server-actor")
	out := newOutbound()
	Dispatch(manager, protocol.ClientMessage{Type: protocol.TypeJoinDocument, DocumentID: "doc-1", ClientID: "client-1"}, "client-1", "token-1", out)
	Dispatch(manager, protocol.ClientMessage{Type: protocol.TypeJoinDocument, DocumentID: "doc-2", ClientID: "client-1"}, "client-1", "token-1", out)

	HandleDisconnect(manager, "client-1", "token-1")

	if len(manager.ActiveSessions()) != 0 {
		t.Fatalf("ActiveSessions = %v, want none after full disconnect", manager.ActiveSessions())
	}
}
