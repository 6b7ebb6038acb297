// Package entitystore is the donburi-backed entity store: a collection of
// entities, each an opaque handle carrying independent attribute columns
// (spec.md §3 "Entity store"). It mirrors original_source's
// canvas-core/src/ecs/components.rs component set, translated from
// bevy_ecs onto donburi's typed ComponentType[T] columns — the teacher's
// own ecs/donburi.go already wraps donburi this way, which is this
// package's direct grounding.
package entitystore

import (
	"github.com/yohamta/donburi"

	"github.com/vectorcanvas/core/schema"
)

// TransformData holds an entity's local and world affine transforms.
type TransformData struct {
	Local schema.Transform
	World schema.Transform
}

// VisibilityData tags whether an entity is shown and whether it can be
// selected or hit-tested.
type VisibilityData struct {
	Visible bool
	Locked  bool
}

// BoundsData is an axis-aligned bounding box, used for both the
// LocalBounds and WorldBounds columns.
type BoundsData struct {
	Box schema.BoundingBox
}

// ShapeData carries the shape-type tag plus enough geometry for hit
// testing and tessellation; full authoring data stays in the document
// model, which the entity store projects from.
type ShapeData struct {
	Type   schema.ShapeType
	Width  float64
	Height float64
}

// FillData and StrokeData mirror schema.FillStyle/StrokeStyle as optional
// entity attributes — an entity missing the component has no fill/stroke.
type FillData struct{ Style schema.FillStyle }
type StrokeData struct{ Style schema.StrokeStyle }

// TextData carries the glyph run for a Text shape entity: the string to
// lay out plus the line height the renderer advances by between lines.
type TextData struct {
	Content    string
	LineHeight float64
}

// ChildrenData lists the child entity handles of a Group entity.
type ChildrenData struct {
	Children []donburi.Entity
}

var (
	ObjectID   = donburi.NewComponentType[schema.ObjectID]()
	Transform  = donburi.NewComponentType[TransformData]()
	ZIndex     = donburi.NewComponentType[schema.ZIndex]()
	Visibility = donburi.NewComponentType[VisibilityData]()
	Shape      = donburi.NewComponentType[ShapeData]()
	Fill       = donburi.NewComponentType[FillData]()
	Stroke     = donburi.NewComponentType[StrokeData]()
	Text       = donburi.NewComponentType[TextData]()
	Parent     = donburi.NewComponentType[donburi.Entity]()
	Children   = donburi.NewComponentType[ChildrenData]()
	LocalBounds = donburi.NewComponentType[BoundsData]()
	WorldBounds = donburi.NewComponentType[BoundsData]()

	// Dirty marks an entity whose world transform needs recomputation.
	Dirty = donburi.NewComponentType[struct{}]()
	// Renderable, Selected, and Hovered are boolean markers with no data.
	Renderable = donburi.NewComponentType[struct{}]()
	Selected   = donburi.NewComponentType[struct{}]()
	Hovered    = donburi.NewComponentType[struct{}]()
)
