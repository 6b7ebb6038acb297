package entitystore

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"

	"github.com/vectorcanvas/core/schema"
)

// Store wraps a donburi.World with the component vocabulary this canvas
// needs. Scene graph and renderer operations take a *Store rather than a
// raw donburi.World so call sites read in domain terms.
type Store struct {
	World donburi.World
}

// New returns an empty entity store.
func New() *Store {
	return &Store{World: donburi.NewWorld()}
}

// CreateShapeEntity creates a renderable entity for a leaf shape (anything
// but Group): object id, identity transform, default z-index, visible
// component set, and the Renderable marker.
func (s *Store) CreateShapeEntity(id schema.ObjectID, shapeType schema.ShapeType, width, height float64) donburi.Entity {
	entity := s.World.Create(ObjectID, Transform, ZIndex, Visibility, Shape, LocalBounds, WorldBounds, Dirty, Renderable)
	entry := s.World.Entry(entity)
	ObjectID.SetValue(entry, id)
	Transform.SetValue(entry, TransformData{Local: schema.Identity, World: schema.Identity})
	ZIndex.SetValue(entry, schema.DefaultZIndex)
	Visibility.SetValue(entry, VisibilityData{Visible: true})
	Shape.SetValue(entry, ShapeData{Type: shapeType, Width: width, Height: height})
	LocalBounds.SetValue(entry, BoundsData{Box: schema.BoundingBox{Width: width, Height: height}})
	WorldBounds.SetValue(entry, BoundsData{})
	return entity
}

// CreateGroupEntity creates a non-renderable container entity.
func (s *Store) CreateGroupEntity(id schema.ObjectID) donburi.Entity {
	entity := s.World.Create(ObjectID, Transform, ZIndex, Visibility, Children, LocalBounds, WorldBounds, Dirty)
	entry := s.World.Entry(entity)
	ObjectID.SetValue(entry, id)
	Transform.SetValue(entry, TransformData{Local: schema.Identity, World: schema.Identity})
	ZIndex.SetValue(entry, schema.DefaultZIndex)
	Visibility.SetValue(entry, VisibilityData{Visible: true})
	Children.SetValue(entry, ChildrenData{})
	return entity
}

// Destroy removes an entity and its components from the store. It does not
// recurse into children; scene-graph callers detach children first.
func (s *Store) Destroy(e donburi.Entity) {
	s.World.Remove(e)
}

// MarkDirty sets the Dirty marker on e if not already present.
func (s *Store) MarkDirty(e donburi.Entity) {
	entry := s.World.Entry(e)
	if !entry.HasComponent(Dirty) {
		entry.AddComponent(Dirty)
	}
}

// ClearDirty removes the Dirty marker from e.
func (s *Store) ClearDirty(e donburi.Entity) {
	entry := s.World.Entry(e)
	if entry.HasComponent(Dirty) {
		entry.RemoveComponent(Dirty)
	}
}

// IsDirty reports whether e carries the Dirty marker.
func (s *Store) IsDirty(e donburi.Entity) bool {
	return s.World.Entry(e).HasComponent(Dirty)
}

// HasParent reports whether e has a Parent component set.
func (s *Store) HasParent(e donburi.Entity) bool {
	return s.World.Entry(e).HasComponent(Parent)
}

// ParentOf returns e's parent entity, if any.
func (s *Store) ParentOf(e donburi.Entity) (donburi.Entity, bool) {
	entry := s.World.Entry(e)
	if !entry.HasComponent(Parent) {
		return 0, false
	}
	return *Parent.Get(entry), true
}

// Roots returns every renderable or group entity that has no Parent
// component, mirroring original_source's get_roots query
// (With<Renderable>, Without<ParentComponent> — generalized here to
// include groups, since a group without a parent is also a root).
func (s *Store) Roots() []donburi.Entity {
	var out []donburi.Entity
	q := query.NewQuery(filter.Not(filter.Contains(Parent)))
	q.Each(s.World, func(entry *donburi.Entry) {
		out = append(out, entry.Entity())
	})
	return out
}

// AllRenderable returns every entity carrying the Renderable marker.
func (s *Store) AllRenderable() []donburi.Entity {
	var out []donburi.Entity
	q := query.NewQuery(filter.Contains(Renderable))
	q.Each(s.World, func(entry *donburi.Entry) {
		out = append(out, entry.Entity())
	})
	return out
}
