package crdt

import "errors"

// Sentinel errors callers test for with errors.Is, matching the error kinds
// named in spec.md §7 (InvalidChange, SyncError) and the document snapshot
// invariant (CorruptDocument).
var (
	// ErrCorruptDocument is returned by Load when a snapshot fails to decode.
	ErrCorruptDocument = errors.New("crdt: corrupt document snapshot")
	// ErrInvalidChange is returned by ApplyIncremental when change bytes fail
	// to decode. Ops of an unknown kind inside a decoded change are ignored.
	ErrInvalidChange = errors.New("crdt: invalid change")
	// ErrSyncState is returned by ReceiveSyncMessage when a sync message
	// fails to decode.
	ErrSyncState = errors.New("crdt: invalid sync message")
)
