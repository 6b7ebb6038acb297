package scene

import (
	"testing"

	"github.com/yohamta/donburi"

	"github.com/vectorcanvas/core/entitystore"
	"github.com/vectorcanvas/core/schema"
)

const epsilon = 1e-9

func near(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < epsilon
}

func TestPropagateTransformsComposesParentChild(t *testing.T) {
	store := entitystore.New()
	g := New(store)

	parent := store.CreateGroupEntity("p")
	setLocalTransform(store, parent, schema.Translate(100, 100))

	child := store.CreateShapeEntity("c", schema.ShapeRectangle, 10, 10)
	setLocalTransform(store, child, schema.Translate(10, 10))

	g.SetParent(child, parent)
	g.PropagateTransforms()

	world := g.WorldTransform(child)
	if !near(world.Tx, 110) || !near(world.Ty, 110) {
		t.Fatalf("child world = %+v, want tx=110 ty=110", world)
	}
}

func TestPropagateTransformsClearsDirty(t *testing.T) {
	store := entitystore.New()
	g := New(store)
	e := store.CreateShapeEntity("a", schema.ShapeRectangle, 1, 1)
	g.PropagateTransforms()
	if store.IsDirty(e) {
		t.Fatal("expected dirty flag cleared after propagate")
	}
}

func TestPropagateTransformsIdempotent(t *testing.T) {
	store := entitystore.New()
	g := New(store)
	parent := store.CreateGroupEntity("p")
	setLocalTransform(store, parent, schema.Translate(5, 5))
	child := store.CreateShapeEntity("c", schema.ShapeRectangle, 1, 1)
	g.SetParent(child, parent)

	g.PropagateTransforms()
	first := g.WorldTransform(child)
	g.PropagateTransforms()
	second := g.WorldTransform(child)

	if first != second {
		t.Fatalf("propagate not idempotent: %+v != %+v", first, second)
	}
}

func TestReparentPreservesWorld(t *testing.T) {
	store := entitystore.New()
	g := New(store)

	parent := store.CreateGroupEntity("p")
	setLocalTransform(store, parent, schema.Translate(100, 100))
	child := store.CreateShapeEntity("c", schema.ShapeRectangle, 1, 1)
	setLocalTransform(store, child, schema.Translate(10, 10))
	g.SetParent(child, parent)
	g.PropagateTransforms()

	before := g.WorldTransform(child)
	if !near(before.Tx, 110) {
		t.Fatalf("precondition: child.world.tx = %v, want 110", before.Tx)
	}

	g.ReparentPreserveWorld(child, nil)

	after := g.WorldTransform(child)
	if !near(after.Tx, 110) || !near(after.Ty, 110) {
		t.Fatalf("child.world after reparent = %+v, want tx=110 ty=110", after)
	}
	local := entitystore.Transform.Get(store.World.Entry(child)).Local
	if !near(local.Tx, 110) {
		t.Fatalf("child.local.tx after reparent-to-root = %v, want 110", local.Tx)
	}
}

func TestHitTestTieBreakByZIndex(t *testing.T) {
	store := entitystore.New()
	g := New(store)

	a := store.CreateShapeEntity("a", schema.ShapeRectangle, 100, 100)
	b := store.CreateShapeEntity("b", schema.ShapeRectangle, 100, 100)
	setZIndex(store, a, "a")
	setZIndex(store, b, "b")
	g.PropagateTransforms()

	got, ok := g.HitTest(schema.Point{X: 50, Y: 50})
	if !ok {
		t.Fatal("expected a hit")
	}
	if got != b {
		t.Fatalf("HitTest returned %v, want entity with z-index 'b' (topmost)", got)
	}
}

func TestHitTestNoneWhenOutsideBounds(t *testing.T) {
	store := entitystore.New()
	g := New(store)
	store.CreateShapeEntity("a", schema.ShapeRectangle, 10, 10)
	g.PropagateTransforms()

	if _, ok := g.HitTest(schema.Point{X: 1000, Y: 1000}); ok {
		t.Fatal("expected no hit outside all bounds")
	}
}

func setLocalTransform(store *entitystore.Store, e donburi.Entity, tr schema.Transform) {
	entry := store.World.Entry(e)
	data := entitystore.Transform.Get(entry)
	data.Local = tr
	entitystore.Transform.SetValue(entry, *data)
}

func setZIndex(store *entitystore.Store, e donburi.Entity, z schema.ZIndex) {
	entry := store.World.Entry(e)
	entitystore.ZIndex.SetValue(entry, z)
}
