package crdt

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"
)

// PeerState is the per-(document, session_token) sync handshake state
// described in spec.md §3 "Per-peer sync state": the set of changes this
// replica has confirmed the peer knows. It is created on first sync or
// join and destroyed on explicit leave or socket close by the caller
// (collab/session), not by this package.
type PeerState struct {
	mu    sync.Mutex
	known map[ChangeID]struct{}
}

// NewPeerState returns a PeerState tracking no known changes.
func NewPeerState() *PeerState {
	return &PeerState{known: make(map[ChangeID]struct{})}
}

func (p *PeerState) markKnown(ids []ChangeID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range ids {
		p.known[id] = struct{}{}
	}
}

func (p *PeerState) knows(id ChangeID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.known[id]
	return ok
}

// syncMessage is the opaque wire payload exchanged by GenerateSyncMessage
// and ReceiveSyncMessage: the changes the sender believes the peer is
// missing, in causal (append) order.
type syncMessage struct {
	Changes []Change
}

// GenerateSyncMessage returns an encoded message advancing peer toward
// convergence, or (nil, false) when peer is already caught up. On a
// non-empty result, peer is optimistically marked as knowing every change
// just sent — it is about to be handed that message.
func (d *Document) GenerateSyncMessage(peer *PeerState) ([]byte, bool) {
	d.mu.RLock()
	missing := make([]Change, 0)
	ids := make([]ChangeID, 0)
	for _, id := range d.order {
		if !peer.knows(id) {
			missing = append(missing, d.changes[id])
			ids = append(ids, id)
		}
	}
	d.mu.RUnlock()

	if len(missing) == 0 {
		return nil, false
	}

	msg := syncMessage{Changes: missing}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&msg); err != nil {
		// Encoding a value built here does not fail in practice. If it does,
		// this returns (nil, false), which callers read as "caught up", and
		// peer is not marked as knowing the changes.
		return nil, false
	}
	peer.markKnown(ids)
	return buf.Bytes(), true
}

// ReceiveSyncMessage decodes and applies an incoming sync message, then
// marks peer as knowing every change it contained (the sender evidently
// has them). It fails with ErrSyncState on malformed bytes.
func (d *Document) ReceiveSyncMessage(peer *PeerState, data []byte) error {
	var msg syncMessage
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&msg); err != nil {
		return fmt.Errorf("%w: %v", ErrSyncState, err)
	}

	ids := make([]ChangeID, 0, len(msg.Changes))
	d.mu.Lock()
	for _, ch := range msg.Changes {
		d.applyChangeLocked(ch)
		ids = append(ids, ch.ID)
	}
	d.mu.Unlock()

	peer.markKnown(ids)
	return nil
}
