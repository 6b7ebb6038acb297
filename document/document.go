// Package document layers the typed canvas document model — metadata,
// pages, and objects keyed by id — over the generic crdt.Document replica.
// It is the only package that knows how schema.CanvasObject values map
// onto CRDT registers and sets.
package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vectorcanvas/core/crdt"
	"github.com/vectorcanvas/core/schema"
)

// Page carries page-level presentation data supplementing the distilled
// spec (original_source canvas-schema::Page): background color and
// dimensions, alongside the identity and name every page needs.
type Page struct {
	ID              schema.PageID
	Name            string
	BackgroundColor schema.Color
	Width           float64
	Height          float64
}

// DefaultPage matches the original schema's Default impl for a first page.
func DefaultPage(id schema.PageID) Page {
	return Page{ID: id, Name: "Page 1", BackgroundColor: schema.ColorWhite, Width: 1920, Height: 1080}
}

// Metadata is document-level bookkeeping. Version is a monotonically
// non-decreasing counter incremented on every mutation for human/debug
// display only; correctness relies on the replica's heads, never on
// Version (spec.md §3).
type Metadata struct {
	ID      schema.DocumentID
	Title   string
	Version uint64
}

// ErrCyclicParent is returned by SetParent when the requested parent is a
// descendant of the child, which would create a cycle (spec.md §9).
var ErrCyclicParent = errors.New("document: parent would create a cycle")

// ErrObjectNotFound is returned by operations referencing an unknown
// object id.
var ErrObjectNotFound = errors.New("document: object not found")

// ErrPageNotFound is returned by operations referencing an unknown page id.
var ErrPageNotFound = errors.New("document: page not found")

const (
	metaKey        = "meta"
	pagesSetKey    = "pages"
	pageKeyPrefix  = "page:"
	objectKeyPrefix = "object:"
)

func pageKey(id schema.PageID) string     { return pageKeyPrefix + string(id) }
func objectKey(id schema.ObjectID) string { return objectKeyPrefix + string(id) }
func pageObjectsSetKey(id schema.PageID) string { return "page_objects:" + string(id) }

// Document is a canvas document backed by a crdt.Document replica.
type Document struct {
	id      schema.DocumentID
	replica *crdt.Document
}

// New returns a document with one default page, matching spec.md §4.1
// new(id).
func New(id schema.DocumentID, actorID string, firstPageID schema.PageID) (*Document, error) {
	d := &Document{id: id, replica: crdt.New(actorID)}
	meta := Metadata{ID: id, Title: "Untitled", Version: 0}
	if err := d.putMetaAndPage(meta, DefaultPage(firstPageID)); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Document) putMetaAndPage(meta Metadata, page Page) error {
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("document: marshal metadata: %w", err)
	}
	pageBytes, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("document: marshal page: %w", err)
	}
	addPageOp := d.replica.AddToSetOp(pagesSetKey, string(page.ID))
	_, err = d.replica.Mutate([]crdt.Op{
		crdt.SetOp(metaKey, metaBytes),
		crdt.SetOp(pageKey(page.ID), pageBytes),
		addPageOp,
	})
	return err
}

// Load builds a document from a serialized snapshot, matching spec.md
// §4.1 load(bytes). It fails with crdt.ErrCorruptDocument on malformed
// input.
func Load(id schema.DocumentID, actorID string, data []byte) (*Document, error) {
	replica, err := crdt.Load(actorID, data)
	if err != nil {
		return nil, err
	}
	return &Document{id: id, replica: replica}, nil
}

// Save serializes the full replica to opaque snapshot bytes.
func (d *Document) Save() ([]byte, error) { return d.replica.Save() }

// ApplyIncremental merges an encoded change, as received over the wire.
func (d *Document) ApplyIncremental(data []byte) error { return d.replica.ApplyIncremental(data) }

// GenerateSyncMessage and ReceiveSyncMessage forward to the replica,
// keyed by the peer's sync handshake state (spec.md §3, §4.1).
func (d *Document) GenerateSyncMessage(peer *crdt.PeerState) ([]byte, bool) {
	return d.replica.GenerateSyncMessage(peer)
}

func (d *Document) ReceiveSyncMessage(peer *crdt.PeerState, msg []byte) error {
	return d.replica.ReceiveSyncMessage(peer, msg)
}

// Heads returns the replica's opaque version frontier.
func (d *Document) Heads() []crdt.ChangeID { return d.replica.Heads() }

// ID returns the document's identifier.
func (d *Document) ID() schema.DocumentID { return d.id }

// Metadata returns the document's current metadata.
func (d *Document) Metadata() (Metadata, error) {
	raw, ok := d.replica.Get(metaKey)
	if !ok {
		return Metadata{}, errors.New("document: metadata missing")
	}
	var m Metadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return Metadata{}, fmt.Errorf("document: unmarshal metadata: %w", err)
	}
	return m, nil
}

// Pages returns every page id currently in the document, in no particular
// order (page rendering order is driven by z-index within a page, not by
// page list order).
func (d *Document) Pages() []schema.PageID {
	ids := d.replica.SetMembers(pagesSetKey)
	out := make([]schema.PageID, len(ids))
	for i, id := range ids {
		out[i] = schema.PageID(id)
	}
	return out
}

// Page returns the page data for id.
func (d *Document) Page(id schema.PageID) (Page, error) {
	raw, ok := d.replica.Get(pageKey(id))
	if !ok {
		return Page{}, ErrPageNotFound
	}
	var p Page
	if err := json.Unmarshal(raw, &p); err != nil {
		return Page{}, fmt.Errorf("document: unmarshal page: %w", err)
	}
	return p, nil
}

// CreatePage adds a new page and returns the encoded change for broadcast.
func (d *Document) CreatePage(id schema.PageID, name string) ([]byte, error) {
	page := DefaultPage(id)
	page.Name = name
	pageBytes, err := json.Marshal(page)
	if err != nil {
		return nil, fmt.Errorf("document: marshal page: %w", err)
	}
	versionOp, err := d.bumpVersion()
	if err != nil {
		return nil, err
	}
	addOp := d.replica.AddToSetOp(pagesSetKey, string(id))
	return d.replica.Mutate([]crdt.Op{crdt.SetOp(pageKey(id), pageBytes), addOp, versionOp})
}

// Object returns the canvas object with id.
func (d *Document) Object(id schema.ObjectID) (*schema.CanvasObject, error) {
	raw, ok := d.replica.Get(objectKey(id))
	if !ok {
		return nil, ErrObjectNotFound
	}
	var obj schema.CanvasObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("document: unmarshal object: %w", err)
	}
	return &obj, nil
}

// PageObjects returns the ids of every object currently registered to
// page id.
func (d *Document) PageObjects(page schema.PageID) []schema.ObjectID {
	ids := d.replica.SetMembers(pageObjectsSetKey(page))
	out := make([]schema.ObjectID, len(ids))
	for i, id := range ids {
		out[i] = schema.ObjectID(id)
	}
	return out
}

func (d *Document) bumpVersion() (crdt.Op, error) {
	meta, err := d.Metadata()
	if err != nil {
		return crdt.Op{}, err
	}
	meta.Version++
	raw, err := json.Marshal(meta)
	if err != nil {
		return crdt.Op{}, fmt.Errorf("document: marshal metadata: %w", err)
	}
	return crdt.SetOp(metaKey, raw), nil
}

// CreateObject registers obj in the document and its page's membership
// set, atomically from the caller's viewpoint (spec.md §3 Lifecycles), and
// returns the encoded change for broadcast.
func (d *Document) CreateObject(obj *schema.CanvasObject) ([]byte, error) {
	base := obj.Base()
	if _, err := d.Page(base.PageID); err != nil {
		return nil, err
	}
	objBytes, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("document: marshal object: %w", err)
	}
	versionOp, err := d.bumpVersion()
	if err != nil {
		return nil, err
	}
	addOp := d.replica.AddToSetOp(pageObjectsSetKey(base.PageID), string(base.ID))
	return d.replica.Mutate([]crdt.Op{crdt.SetOp(objectKey(base.ID), objBytes), addOp, versionOp})
}

// UpdateObject applies mutate to a fresh copy of the current object value
// and writes the result back, returning the encoded change for broadcast.
func (d *Document) UpdateObject(id schema.ObjectID, mutate func(*schema.CanvasObject)) ([]byte, error) {
	obj, err := d.Object(id)
	if err != nil {
		return nil, err
	}
	mutate(obj)
	objBytes, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("document: marshal object: %w", err)
	}
	versionOp, err := d.bumpVersion()
	if err != nil {
		return nil, err
	}
	return d.replica.Mutate([]crdt.Op{crdt.SetOp(objectKey(id), objBytes), versionOp})
}

// DeleteObject removes obj from the objects map, its page's order list,
// and, if it has a parent Group, that group's child list (spec.md §3
// Lifecycles).
func (d *Document) DeleteObject(id schema.ObjectID) ([]byte, error) {
	obj, err := d.Object(id)
	if err != nil {
		return nil, err
	}
	base := obj.Base()

	ops := d.replica.RemoveFromSetOps(pageObjectsSetKey(base.PageID), string(id))

	if base.ParentID != nil {
		if parent, err := d.Object(*base.ParentID); err == nil && parent.Shape == schema.ShapeGroup {
			parent.Group.Children = removeObjectID(parent.Group.Children, id)
			parentBytes, err := json.Marshal(parent)
			if err != nil {
				return nil, fmt.Errorf("document: marshal parent group: %w", err)
			}
			ops = append(ops, crdt.SetOp(objectKey(*base.ParentID), parentBytes))
		}
	}

	versionOp, err := d.bumpVersion()
	if err != nil {
		return nil, err
	}
	ops = append(ops, versionOp, crdt.DeleteOp(objectKey(id)))
	// The change log entry for the object's register persists (CRDTs never
	// truly delete history), but crdt.DeleteOp tombstones it under the same
	// LWW resolution as a write, so Object(id) reports ErrObjectNotFound
	// from this point on unless a causally later write resurrects it.
	return d.replica.Mutate(ops)
}

func removeObjectID(ids []schema.ObjectID, target schema.ObjectID) []schema.ObjectID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// SetParent reparents child under parent (nil clears to root), appending
// child to the new Group's child list and removing it from any previous
// Group parent's list. It rejects cycles per spec.md §9: child must not
// already be an ancestor of the requested parent.
func (d *Document) SetParent(child schema.ObjectID, parent *schema.ObjectID) ([]byte, error) {
	if parent != nil {
		if d.isAncestor(child, *parent) {
			return nil, ErrCyclicParent
		}
	}
	childObj, err := d.Object(child)
	if err != nil {
		return nil, err
	}
	base := childObj.Base()

	var ops []crdt.Op
	if base.ParentID != nil {
		if oldParent, err := d.Object(*base.ParentID); err == nil && oldParent.Shape == schema.ShapeGroup {
			oldParent.Group.Children = removeObjectID(oldParent.Group.Children, child)
			raw, err := json.Marshal(oldParent)
			if err != nil {
				return nil, fmt.Errorf("document: marshal old parent: %w", err)
			}
			ops = append(ops, crdt.SetOp(objectKey(*base.ParentID), raw))
		}
	}
	if parent != nil {
		newParent, err := d.Object(*parent)
		if err != nil {
			return nil, err
		}
		if newParent.Shape != schema.ShapeGroup {
			return nil, fmt.Errorf("document: parent %s is not a group", *parent)
		}
		newParent.Group.Children = append(newParent.Group.Children, child)
		raw, err := json.Marshal(newParent)
		if err != nil {
			return nil, fmt.Errorf("document: marshal new parent: %w", err)
		}
		ops = append(ops, crdt.SetOp(objectKey(*parent), raw))
	}

	base.ParentID = parent
	childBytes, err := json.Marshal(childObj)
	if err != nil {
		return nil, fmt.Errorf("document: marshal child: %w", err)
	}
	ops = append(ops, crdt.SetOp(objectKey(child), childBytes))

	versionOp, err := d.bumpVersion()
	if err != nil {
		return nil, err
	}
	ops = append(ops, versionOp)
	return d.replica.Mutate(ops)
}

func (d *Document) isAncestor(candidate, node schema.ObjectID) bool {
	cur := node
	for {
		obj, err := d.Object(cur)
		if err != nil {
			return false
		}
		parentID := obj.Base().ParentID
		if parentID == nil {
			return false
		}
		if *parentID == candidate {
			return true
		}
		cur = *parentID
	}
}
