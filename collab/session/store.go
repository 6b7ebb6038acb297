// Package session manages per-document collaboration state: the document
// replica store, connected clients, and broadcast fan-out. Grounded on
// original_source's session.rs (ClientConnection/DocumentSession/
// SessionManager) and sync-server/document.rs's ManagedDocument (per-peer
// sync state keyed by session token), translated from tokio's
// RwLock/mpsc/broadcast onto sync.RWMutex and buffered Go channels.
package session

import (
	"sync"

	"github.com/vectorcanvas/core/crdt"
	"github.com/vectorcanvas/core/document"
	"github.com/vectorcanvas/core/schema"
)

// ManagedDocument pairs a document replica with the per-connection sync
// handshake state needed to run the pairwise sync protocol independently
// against each peer (original_source's ManagedDocument.sync_states).
type ManagedDocument struct {
	mu         sync.Mutex
	Doc        *document.Document
	syncStates map[string]*crdt.PeerState
}

func newManagedDocument(doc *document.Document) *ManagedDocument {
	return &ManagedDocument{Doc: doc, syncStates: make(map[string]*crdt.PeerState)}
}

// PeerState returns the sync state for sessionToken, creating it on first
// use.
func (m *ManagedDocument) PeerState(sessionToken string) *crdt.PeerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.syncStates[sessionToken]
	if !ok {
		state = crdt.NewPeerState()
		m.syncStates[sessionToken] = state
	}
	return state
}

// RemovePeerState discards sync state for a disconnected session token.
func (m *ManagedDocument) RemovePeerState(sessionToken string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.syncStates, sessionToken)
}

// DocumentStore is the registry of live document replicas, one per
// document id, created lazily on first join (spec.md §4.1's get_or_create
// semantics, SPEC_FULL.md Resolved Open Questions).
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[schema.DocumentID]*ManagedDocument
	actorID   string
}

// NewDocumentStore returns an empty store. actorID is the server's own
// CRDT actor id, used when a document must be created from scratch rather
// than loaded from a snapshot.
func NewDocumentStore(actorID string) *DocumentStore {
	return &DocumentStore{documents: make(map[schema.DocumentID]*ManagedDocument), actorID: actorID}
}

// GetOrCreate returns the managed document for id, creating it with a
// single default page if it does not yet exist.
func (s *DocumentStore) GetOrCreate(id schema.DocumentID) (*ManagedDocument, error) {
	s.mu.RLock()
	managed, ok := s.documents[id]
	s.mu.RUnlock()
	if ok {
		return managed, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if managed, ok := s.documents[id]; ok {
		return managed, nil
	}
	firstPage := schema.NewPageID(0)
	doc, err := document.New(id, s.actorID, firstPage)
	if err != nil {
		return nil, err
	}
	managed = newManagedDocument(doc)
	s.documents[id] = managed
	return managed, nil
}

// Get returns the managed document for id if it already exists.
func (s *DocumentStore) Get(id schema.DocumentID) (*ManagedDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	managed, ok := s.documents[id]
	return managed, ok
}
