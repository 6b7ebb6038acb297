package crdt

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Document is a single replica: an append-only, per-actor change log plus
// the derived registers/sets it projects to. Mutating operations require
// the exclusive lock; reads take the shared lock (spec.md §4.1 concurrency
// contract). The replica is the single source of truth; callers such as
// the document-model and scene-graph layers hold only derived projections.
type Document struct {
	mu sync.RWMutex

	actorID string
	seq     uint64

	order        []ChangeID
	changes      map[ChangeID]Change
	lastByActor  map[string]ChangeID
	registers    map[string]lwwEntry
	sets         map[string]*orSet
}

// New returns an empty replica identified by actorID — the id this process
// uses to stamp changes it produces locally.
func New(actorID string) *Document {
	return &Document{
		actorID:     actorID,
		changes:     make(map[ChangeID]Change),
		lastByActor: make(map[string]ChangeID),
		registers:   make(map[string]lwwEntry),
		sets:        make(map[string]*orSet),
	}
}

// snapshot is the gob-encodable form of a replica's full history. The
// format is intentionally opaque to callers: Save/Load round-trip it, and
// nothing outside this package inspects its shape (spec.md §6.3).
type snapshot struct {
	ActorID string
	Seq     uint64
	Order   []ChangeID
	Changes map[ChangeID]Change
}

// Load builds a replica from a snapshot produced by Save. It fails with
// ErrCorruptDocument if the bytes do not decode.
func Load(actorID string, data []byte) (*Document, error) {
	var snap snapshot
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	d := New(actorID)
	d.seq = snap.Seq
	for _, id := range snap.Order {
		ch, ok := snap.Changes[id]
		if !ok {
			return nil, fmt.Errorf("%w: missing change %s referenced by order", ErrCorruptDocument, id)
		}
		d.applyChangeLocked(ch)
	}
	return d, nil
}

// Save serializes the full replica history to opaque bytes.
func (d *Document) Save() ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	snap := snapshot{
		ActorID: d.actorID,
		Seq:     d.seq,
		Order:   append([]ChangeID(nil), d.order...),
		Changes: d.changes,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&snap); err != nil {
		return nil, fmt.Errorf("crdt: encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// applyChangeLocked merges ch into the log and replays its ops. It is
// idempotent: re-applying a change whose ID is already present is a no-op.
// Callers must hold d.mu for writing.
func (d *Document) applyChangeLocked(ch Change) {
	if _, seen := d.changes[ch.ID]; seen {
		return
	}
	d.changes[ch.ID] = ch
	d.order = append(d.order, ch.ID)
	if cur, ok := d.lastByActor[ch.Actor]; !ok || ch.Seq > d.changes[cur].Seq {
		d.lastByActor[ch.Actor] = ch.ID
	}
	for _, op := range ch.Ops {
		d.applyOpLocked(op, ch.Timestamp, ch.Actor, ch.Seq)
	}
}

func (d *Document) applyOpLocked(op Op, timestamp int64, actor string, seq uint64) {
	switch op.Kind {
	case OpSet:
		cur, ok := d.registers[op.Key]
		if !ok || cur.wins(timestamp, actor, seq) {
			d.registers[op.Key] = lwwEntry{value: op.Value, timestamp: timestamp, actor: actor, seq: seq, present: true}
		}
	case OpDelete:
		cur, ok := d.registers[op.Key]
		if !ok || cur.wins(timestamp, actor, seq) {
			d.registers[op.Key] = lwwEntry{timestamp: timestamp, actor: actor, seq: seq, present: false}
		}
	case OpAddToSet:
		set, ok := d.sets[op.Key]
		if !ok {
			set = newORSet()
			d.sets[op.Key] = set
		}
		set.add(string(op.Value), op.Tag)
	case OpRemoveFromSet:
		if set, ok := d.sets[op.Key]; ok {
			set.remove(string(op.Value), op.Tag)
		}
	}
}

// ApplyIncremental decodes and merges a single encoded Change, as produced
// by Mutate or received over the wire. It fails with ErrInvalidChange on
// malformed bytes.
func (d *Document) ApplyIncremental(data []byte) error {
	var ch Change
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&ch); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidChange, err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.applyChangeLocked(ch)
	return nil
}

// Mutate appends a new change authored by this replica's actor, applies it
// locally, and returns its encoded bytes ready for broadcast.
func (d *Document) Mutate(ops []Op) ([]byte, error) {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	parent := d.lastByActor[d.actorID]
	ch := Change{
		ID:        ChangeID(fmt.Sprintf("%s:%d", d.actorID, seq)),
		Actor:     d.actorID,
		Seq:       seq,
		Parent:    parent,
		Clock:     VClock{d.actorID: seq},
		Ops:       ops,
		Timestamp: time.Now().UnixMilli(),
	}
	d.applyChangeLocked(ch)
	d.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&ch); err != nil {
		return nil, fmt.Errorf("crdt: encode change: %w", err)
	}
	return buf.Bytes(), nil
}

// Heads returns the opaque frontier of the replica's history: the latest
// change id contributed by each actor present in the log, sorted by actor
// id for determinism. It is used only for change-detection and display,
// never for merge correctness.
func (d *Document) Heads() []ChangeID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	actors := make([]string, 0, len(d.lastByActor))
	for actor := range d.lastByActor {
		actors = append(actors, actor)
	}
	sort.Strings(actors)
	heads := make([]ChangeID, 0, len(actors))
	for _, actor := range actors {
		heads = append(heads, d.lastByActor[actor])
	}
	return heads
}

// Get reads a register's current value. ok is false if the key was never
// set.
func (d *Document) Get(key string) (value []byte, ok bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	entry, found := d.registers[key]
	if !found || !entry.present {
		return nil, false
	}
	return entry.value, true
}

// SetOp builds an OpSet for key/value; a thin constructor so callers never
// build an Op literal by hand.
func SetOp(key string, value []byte) Op {
	return Op{Kind: OpSet, Key: key, Value: value}
}

// DeleteOp builds an OpDelete tombstoning key under the same LWW resolution
// SetOp uses, so Get/SetValues report the key absent once this op's change
// is causally the latest write to it.
func DeleteOp(key string) Op {
	return Op{Kind: OpDelete, Key: key}
}

// SetValues returns every key in the register namespace whose current
// (present) value passes filter, e.g. a key prefix check done by the
// caller.
func (d *Document) SetValues(keyFilter func(key string) bool) map[string][]byte {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string][]byte)
	for k, entry := range d.registers {
		if entry.present && keyFilter(k) {
			out[k] = entry.value
		}
	}
	return out
}

// SetMembers returns the current members of the observed-remove set keyed
// by setKey.
func (d *Document) SetMembers(setKey string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	set, ok := d.sets[setKey]
	if !ok {
		return nil
	}
	return set.values()
}

// AddToSetOp builds an OpAddToSet for setKey/elem with a tag unique to this
// replica's actor and sequence number.
func (d *Document) AddToSetOp(setKey, elem string) Op {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	tag := fmt.Sprintf("%s:%d", d.actorID, d.seq)
	return Op{Kind: OpAddToSet, Key: setKey, Value: []byte(elem), Tag: tag}
}

// RemoveFromSetOps builds one OpRemoveFromSet per tag this replica
// currently observes for elem, so a concurrent add from another actor
// survives the removal.
func (d *Document) RemoveFromSetOps(setKey, elem string) []Op {
	d.mu.RLock()
	defer d.mu.RUnlock()
	set, ok := d.sets[setKey]
	if !ok {
		return nil
	}
	tags := set.observedTags(elem)
	ops := make([]Op, 0, len(tags))
	for _, tag := range tags {
		ops = append(ops, Op{Kind: OpRemoveFromSet, Key: setKey, Value: []byte(elem), Tag: tag})
	}
	return ops
}

// Contains reports whether elem is currently a member of the set at setKey.
func (d *Document) Contains(setKey, elem string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	set, ok := d.sets[setKey]
	return ok && set.contains(elem)
}
