package render

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vectorcanvas/core/camera"
	"github.com/vectorcanvas/core/entitystore"
	"github.com/vectorcanvas/core/schema"
	"github.com/vectorcanvas/core/scene"
)

// fixedWidthFont is a minimal FontAtlas stub: every rune is a 10x10 glyph
// advancing by 10, with a line height of 14.
type fixedWidthFont struct{}

func (fixedWidthFont) Glyph(r rune) (GlyphMetrics, bool) {
	return GlyphMetrics{Region: TextureRegion{Width: 10, Height: 10}, Advance: 10}, true
}
func (fixedWidthFont) LineHeight() float64    { return 14 }
func (fixedWidthFont) Texture() *ebiten.Image { return nil }

func TestTessellateEntityRectangleEmitsShapeGeometry(t *testing.T) {
	store := entitystore.New()
	graph := scene.New(store)
	r := New(graph, nil)

	e := store.CreateShapeEntity("r1", schema.ShapeRectangle, 100, 50)
	entry := store.World.Entry(e)
	entitystore.Fill.SetValue(entry, entitystore.FillData{Style: schema.DefaultFillStyle})

	r.tessellateEntity(entry, schema.Identity)

	if len(r.shapeBuf.vertices) != 4 {
		t.Fatalf("vertices = %d, want 4", len(r.shapeBuf.vertices))
	}
	if len(r.shapeBuf.indices) != 6 {
		t.Fatalf("indices = %d, want 6", len(r.shapeBuf.indices))
	}
}

func TestTessellateEntityEllipseCentersOnWorldOrigin(t *testing.T) {
	store := entitystore.New()
	graph := scene.New(store)
	r := New(graph, nil)

	e := store.CreateShapeEntity("e1", schema.ShapeEllipse, 20, 20)
	entry := store.World.Entry(e)
	entitystore.Transform.SetValue(entry, entitystore.TransformData{
		Local: schema.Identity,
		World: schema.Translate(50, 50),
	})

	r.tessellateEntity(entry, schema.Identity)

	center := r.shapeBuf.vertices[0]
	if center.DstX != 50 || center.DstY != 50 {
		t.Fatalf("fan center = (%v,%v), want (50,50)", center.DstX, center.DstY)
	}
}

func TestTessellateEntityLineUsesStrokeStyle(t *testing.T) {
	store := entitystore.New()
	graph := scene.New(store)
	r := New(graph, nil)

	e := store.CreateShapeEntity("l1", schema.ShapeLine, 10, 0)
	entry := store.World.Entry(e)
	entitystore.Stroke.SetValue(entry, entitystore.StrokeData{Style: schema.StrokeStyle{
		Color: schema.ColorBlack, Width: 4,
	}})

	r.tessellateEntity(entry, schema.Identity)

	if len(r.shapeBuf.vertices) != 4 {
		t.Fatalf("vertices = %d, want 4", len(r.shapeBuf.vertices))
	}
}

func TestTessellateEntityTextWrapsOnNewline(t *testing.T) {
	store := entitystore.New()
	graph := scene.New(store)
	r := New(graph, fixedWidthFont{})

	e := store.CreateShapeEntity("t1", schema.ShapeText, 0, 0)
	entry := store.World.Entry(e)
	entitystore.Text.SetValue(entry, entitystore.TextData{Content: "ab\nc"})

	r.tessellateEntity(entry, schema.Identity)

	if len(r.textBuf.vertices) != 3*4 {
		t.Fatalf("vertices = %d, want %d (3 glyphs x 4)", len(r.textBuf.vertices), 3*4)
	}
	// the glyph after the newline starts a new line at x=0, y=lineHeight
	thirdGlyphOrigin := r.textBuf.vertices[8]
	if thirdGlyphOrigin.DstX != 0 || thirdGlyphOrigin.DstY != 14 {
		t.Fatalf("third glyph origin = (%v,%v), want (0,14)", thirdGlyphOrigin.DstX, thirdGlyphOrigin.DstY)
	}
}

func TestTessellateEntityTextSkipsWithoutFont(t *testing.T) {
	store := entitystore.New()
	graph := scene.New(store)
	r := New(graph, nil)

	e := store.CreateShapeEntity("t2", schema.ShapeText, 0, 0)
	entry := store.World.Entry(e)
	entitystore.Text.SetValue(entry, entitystore.TextData{Content: "hello"})

	r.tessellateEntity(entry, schema.Identity)

	if len(r.textBuf.vertices) != 0 {
		t.Fatalf("expected no glyph geometry without a font atlas, got %d vertices", len(r.textBuf.vertices))
	}
}

func TestGetRenderOrderIncludesOutOfViewEntities(t *testing.T) {
	store := entitystore.New()
	graph := scene.New(store)

	store.CreateShapeEntity("near", schema.ShapeRectangle, 10, 10)
	far := store.CreateShapeEntity("far", schema.ShapeRectangle, 10, 10)
	entitystore.Transform.SetValue(store.World.Entry(far), entitystore.TransformData{
		Local: schema.Translate(100000, 100000),
		World: schema.Translate(100000, 100000),
	})
	entitystore.WorldBounds.SetValue(store.World.Entry(far), entitystore.BoundsData{
		Box: schema.BoundingBox{X: 100000, Y: 100000, Width: 10, Height: 10},
	})

	order := graph.GetRenderOrder()
	if len(order) != 2 {
		t.Fatalf("render order = %d entities, want 2", len(order))
	}
}

func TestTessellateEntityDefaultsToOpaqueWhiteFill(t *testing.T) {
	store := entitystore.New()
	graph := scene.New(store)
	r := New(graph, nil)

	e := store.CreateShapeEntity("r2", schema.ShapeRectangle, 10, 10)
	entry := store.World.Entry(e)

	r.tessellateEntity(entry, schema.Identity)

	v := r.shapeBuf.vertices[0]
	if v.ColorR != 1 || v.ColorG != 1 || v.ColorB != 1 || v.ColorA != 1 {
		t.Fatalf("default fill = (%v,%v,%v,%v), want opaque white", v.ColorR, v.ColorG, v.ColorB, v.ColorA)
	}
}

func TestRenderAppliesCameraPanAndZoomToGeometry(t *testing.T) {
	store := entitystore.New()
	graph := scene.New(store)
	r := New(graph, nil)

	e := store.CreateShapeEntity("r3", schema.ShapeRectangle, 20, 20)
	entitystore.Transform.SetValue(store.World.Entry(e), entitystore.TransformData{
		Local: schema.Identity,
		World: schema.Identity,
	})
	entitystore.WorldBounds.SetValue(store.World.Entry(e), entitystore.BoundsData{
		Box: schema.BoundingBox{X: -10, Y: -10, Width: 20, Height: 20},
	})

	target := ebiten.NewImage(200, 200)

	cam := camera.New(200, 200)
	stats := r.Render(target, cam)
	if stats.ObjectsRendered != 1 {
		t.Fatalf("identity-camera pass rendered %d objects, want 1", stats.ObjectsRendered)
	}
	centerIdentity := r.shapeBuf.vertices[0]

	cam.PanBy(-50, -50) // shifts the camera's world position by (+50, +50) at zoom 1
	cam.ZoomBy(2, 100, 100)
	r.Render(target, cam)
	centerPannedZoomed := r.shapeBuf.vertices[0]

	if centerPannedZoomed.DstX == centerIdentity.DstX && centerPannedZoomed.DstY == centerIdentity.DstY {
		t.Fatal("panning/zooming the camera had no effect on tessellated geometry")
	}
}
