// Package protocol defines the JSON wire messages exchanged over a
// document's WebSocket connection (spec.md §6.1). Message shapes are flat,
// type-tagged JSON objects — grounded on original_source's protocol.rs
// ClientMessage/ServerMessage enums, translated from serde's internally
// tagged enum representation onto Go's type+payload convention, since Go
// has no tagged-union JSON encoding of its own.
package protocol

import "encoding/json"

// Client message type discriminants (spec.md §6.1).
const (
	TypeJoinDocument    = "join_document"
	TypeLeaveDocument   = "leave_document"
	TypeChange          = "change"
	TypeSyncRequest     = "sync_request"
	TypeCursorMove      = "cursor_move"
	TypeSelectionUpdate = "selection_update"
	TypePresenceUpdate  = "presence_update"
	TypePing            = "ping"
)

// Server message type discriminants (spec.md §6.1).
const (
	TypeJoinAck            = "join_ack"
	TypeChangeBroadcast     = "change_broadcast"
	TypeSyncResponse        = "sync_response"
	TypeCursorBroadcast     = "cursor_broadcast"
	TypeSelectionBroadcast  = "selection_broadcast"
	TypePresenceBroadcast   = "presence_broadcast"
	TypeClientJoined        = "client_joined"
	TypeClientLeft          = "client_left"
	TypeError               = "error"
	TypePong                = "pong"
)

// ErrorCode is the closed set of error kinds a server message can report
// (spec.md §7).
type ErrorCode string

const (
	ErrDocumentNotFound ErrorCode = "document_not_found"
	ErrInvalidMessage   ErrorCode = "invalid_message"
	ErrSyncError        ErrorCode = "sync_error"
	ErrAuthError        ErrorCode = "auth_error"
	ErrRateLimited      ErrorCode = "rate_limited"
	ErrInternalError    ErrorCode = "internal_error"
)

// PresenceStatus mirrors original_source's PresenceStatus enum.
type PresenceStatus string

const (
	PresenceActive PresenceStatus = "active"
	PresenceIdle   PresenceStatus = "idle"
	PresenceAway   PresenceStatus = "away"
)

// CursorPosition is a client's cursor location in canvas coordinates, with
// an optional viewport-space echo for clients that render a local cursor
// overlay.
type CursorPosition struct {
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	ViewportX *float64 `json:"viewportX,omitempty"`
	ViewportY *float64 `json:"viewportY,omitempty"`
}

// SelectionBounds is the bounding box of a client's current selection.
type SelectionBounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Selection is a client's current set of selected object ids.
type Selection struct {
	ElementIDs []string         `json:"elementIds"`
	Bounds     *SelectionBounds `json:"bounds,omitempty"`
}

// ClientInfo is the presence record broadcast for a connected client.
type ClientInfo struct {
	ClientID        string          `json:"clientId"`
	DisplayName     string          `json:"displayName"`
	Color           string          `json:"color"`
	Status          PresenceStatus  `json:"status"`
	CursorPosition  *CursorPosition `json:"cursorPosition,omitempty"`
	Selection       *Selection      `json:"selection,omitempty"`
}

// ClientMessage is a decoded client-to-server frame. DecodeClientMessage
// fills whichever fields the frame carries; fields absent from the frame
// are left at their zero value.
type ClientMessage struct {
	Type string `json:"type"`

	DocumentID        string          `json:"documentId,omitempty"`
	ClientID          string          `json:"clientId,omitempty"`
	LastKnownVersion   *uint64         `json:"lastKnownVersion,omitempty"`
	Change             string          `json:"change,omitempty"`
	BaseVersion        *uint64         `json:"baseVersion,omitempty"`
	SyncMessage        string          `json:"syncMessage,omitempty"`
	Position           CursorPosition  `json:"position,omitempty"`
	Selection          Selection       `json:"selection,omitempty"`
	Status             PresenceStatus  `json:"status,omitempty"`
}

// DecodeClientMessage parses one JSON text frame into a ClientMessage.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, err
	}
	return msg, nil
}

// ServerMessage is a server-to-client frame, encoded with its Encode method.
// Unlike ClientMessage, server messages are built directly by the handler
// package with only the fields relevant to Type set, then marshaled as-is.
type ServerMessage struct {
	Type string `json:"type"`

	DocumentID        string         `json:"documentId,omitempty"`
	ClientID          string         `json:"clientId,omitempty"`
	DocumentState     string         `json:"documentState,omitempty"`
	Version           uint64         `json:"version,omitempty"`
	ConnectedClients  []ClientInfo   `json:"connectedClients,omitempty"`
	SourceClientID    string         `json:"sourceClientId,omitempty"`
	Change            string         `json:"change,omitempty"`
	SyncMessage       *string        `json:"syncMessage,omitempty"`
	IsComplete        bool           `json:"isComplete,omitempty"`
	Position          CursorPosition `json:"position,omitempty"`
	Selection         Selection      `json:"selection,omitempty"`
	Status            PresenceStatus `json:"status,omitempty"`
	ClientInfo        ClientInfo     `json:"clientInfo,omitempty"`
	Code              ErrorCode      `json:"code,omitempty"`
	Message           string         `json:"message,omitempty"`
	ServerTime        string         `json:"serverTime,omitempty"`
}

// Encode marshals a ServerMessage to its wire JSON form.
func (m ServerMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}
