// Package scene implements the parent/child hierarchy, transform
// propagation, render ordering, and hit testing that project an
// entitystore.Store into a renderable scene (spec.md §4.6). It is grounded
// on original_source's canvas-core/src/ecs/hierarchy.rs and
// ecs/systems.rs, translated from bevy_ecs queries onto donburi queries,
// and reuses the affine composition formulas from the teacher's
// transform.go (multiplyAffine/invertAffine), which now live on
// schema.Transform.
package scene

import (
	"sort"

	"github.com/yohamta/donburi"

	"github.com/vectorcanvas/core/entitystore"
	"github.com/vectorcanvas/core/schema"
)

// Graph operates on a Store, providing hierarchy and traversal operations
// that do not themselves belong on the raw entity columns.
type Graph struct {
	Store *entitystore.Store
}

// New returns a Graph over store.
func New(store *entitystore.Store) *Graph {
	return &Graph{Store: store}
}

// SetParent attaches child to parent: detaches child from any previous
// parent's Children list, appends it to parent's, and marks child and its
// descendants dirty (spec.md §4.6, §9 — the caller must ensure child is
// not an ancestor of parent; this method does not check for cycles since
// document.SetParent already enforces that invariant at the authoring
// layer).
func (g *Graph) SetParent(child, parent donburi.Entity) {
	g.detachFromParent(child)

	entry := g.Store.World.Entry(child)
	entry.AddComponent(entitystore.Parent)
	entitystore.Parent.SetValue(entry, parent)

	parentEntry := g.Store.World.Entry(parent)
	childrenData := entitystore.Children.Get(parentEntry)
	childrenData.Children = append(childrenData.Children, child)
	entitystore.Children.SetValue(parentEntry, *childrenData)

	g.markDirtyRecursive(child)
}

// RemoveParent promotes child to a root, marking it dirty.
func (g *Graph) RemoveParent(child donburi.Entity) {
	g.detachFromParent(child)
	g.markDirtyRecursive(child)
}

func (g *Graph) detachFromParent(child donburi.Entity) {
	entry := g.Store.World.Entry(child)
	if !entry.HasComponent(entitystore.Parent) {
		return
	}
	oldParent := *entitystore.Parent.Get(entry)
	parentEntry := g.Store.World.Entry(oldParent)
	if parentEntry.HasComponent(entitystore.Children) {
		data := entitystore.Children.Get(parentEntry)
		data.Children = removeEntity(data.Children, child)
		entitystore.Children.SetValue(parentEntry, *data)
	}
	entry.RemoveComponent(entitystore.Parent)
}

func removeEntity(list []donburi.Entity, target donburi.Entity) []donburi.Entity {
	out := list[:0]
	for _, e := range list {
		if e != target {
			out = append(out, e)
		}
	}
	return out
}

func (g *Graph) markDirtyRecursive(e donburi.Entity) {
	g.Store.MarkDirty(e)
	entry := g.Store.World.Entry(e)
	if !entry.HasComponent(entitystore.Children) {
		return
	}
	for _, child := range entitystore.Children.Get(entry).Children {
		g.markDirtyRecursive(child)
	}
}

// ObjectIDOf returns the document object id backing entity e.
func (g *Graph) ObjectIDOf(e donburi.Entity) schema.ObjectID {
	entry := g.Store.World.Entry(e)
	return *entitystore.ObjectID.Get(entry)
}

// WorldTransform returns e's current world transform.
func (g *Graph) WorldTransform(e donburi.Entity) schema.Transform {
	entry := g.Store.World.Entry(e)
	return entitystore.Transform.Get(entry).World
}

// ReparentPreserveWorld reparents child under newParent (nil for root) such
// that its world transform is unchanged: new_local = inverse(parent.world)
// · child.world, assigned before relinking (spec.md §4.6, scenario 6).
func (g *Graph) ReparentPreserveWorld(child donburi.Entity, newParent *donburi.Entity) {
	childEntry := g.Store.World.Entry(child)
	childWorld := entitystore.Transform.Get(childEntry).World

	var newLocal schema.Transform
	if newParent != nil {
		parentWorld := g.WorldTransform(*newParent)
		newLocal = parentWorld.Inverse().Multiply(childWorld)
	} else {
		newLocal = childWorld
	}

	data := entitystore.Transform.Get(childEntry)
	data.Local = newLocal
	entitystore.Transform.SetValue(childEntry, *data)

	if newParent != nil {
		g.SetParent(child, *newParent)
	} else {
		g.RemoveParent(child)
	}

	g.PropagateTransforms()
}

// PropagateTransforms walks every root recursively: world = parent.world ·
// local; world bounds are local bounds translated by the new world
// transform; dirty flags are cleared. Roots are always recomputed, so every
// run recomputes every entity reachable from a root, dirty or not;
// re-running with nothing changed yields the same world transforms,
// matching the idempotence property in spec.md §8.
func (g *Graph) PropagateTransforms() {
	for _, root := range g.Store.Roots() {
		g.propagateRecursive(root, schema.Identity, true)
	}
}

func (g *Graph) propagateRecursive(e donburi.Entity, parentWorld schema.Transform, parentRecomputed bool) {
	entry := g.Store.World.Entry(e)
	dirty := entry.HasComponent(entitystore.Dirty)
	recompute := dirty || parentRecomputed

	if recompute {
		t := entitystore.Transform.Get(entry)
		t.World = parentWorld.Multiply(t.Local)
		entitystore.Transform.SetValue(entry, *t)

		if entry.HasComponent(entitystore.LocalBounds) && entry.HasComponent(entitystore.WorldBounds) {
			local := entitystore.LocalBounds.Get(entry).Box
			worldOrigin := t.World.Apply(schema.Point{X: local.X, Y: local.Y})
			world := schema.BoundingBox{
				X: worldOrigin.X, Y: worldOrigin.Y,
				Width: local.Width, Height: local.Height,
			}
			entitystore.WorldBounds.SetValue(entry, entitystore.BoundsData{Box: world})
		}
		if dirty {
			g.Store.ClearDirty(e)
		}
	}

	if entry.HasComponent(entitystore.Children) {
		worldNow := entitystore.Transform.Get(entry).World
		for _, child := range entitystore.Children.Get(entry).Children {
			g.propagateRecursive(child, worldNow, recompute)
		}
	}
}

// renderEntry pairs an entity with the data GetRenderOrder/HitTest need,
// so both can share one query pass.
type renderEntry struct {
	entity donburi.Entity
	zIndex schema.ZIndex
	order  int // insertion order, for z-index lex ties (spec.md §3 invariant 4)
}

// GetRenderOrder returns visible renderable entities sorted ascending by
// z-index, ties broken by insertion (query) order.
func (g *Graph) GetRenderOrder() []donburi.Entity {
	entries := g.visibleRenderable()
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].zIndex != entries[j].zIndex {
			return entries[i].zIndex.Less(entries[j].zIndex)
		}
		return entries[i].order < entries[j].order
	})
	out := make([]donburi.Entity, len(entries))
	for i, e := range entries {
		out[i] = e.entity
	}
	return out
}

func (g *Graph) visibleRenderable() []renderEntry {
	var out []renderEntry
	for i, e := range g.Store.AllRenderable() {
		entry := g.Store.World.Entry(e)
		vis := entitystore.Visibility.Get(entry)
		if !vis.Visible {
			continue
		}
		out = append(out, renderEntry{
			entity: e,
			zIndex: *entitystore.ZIndex.Get(entry),
			order:  i,
		})
	}
	return out
}

// HitTest returns the topmost (greatest z-index) visible, unlocked entity
// whose world bounds contain p, or ok=false if none match.
func (g *Graph) HitTest(p schema.Point) (entity donburi.Entity, ok bool) {
	entries := g.visibleRenderable()
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].zIndex != entries[j].zIndex {
			return entries[j].zIndex.Less(entries[i].zIndex) // descending
		}
		return entries[i].order > entries[j].order
	})
	for _, e := range entries {
		entry := g.Store.World.Entry(e.entity)
		if entitystore.Visibility.Get(entry).Locked {
			continue
		}
		bounds := entitystore.WorldBounds.Get(entry).Box
		if bounds.Contains(p) {
			return e.entity, true
		}
	}
	return 0, false
}
