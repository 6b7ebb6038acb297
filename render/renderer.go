// Package render is the GPU draw pipeline: per-frame shape and text
// tessellation into batched triangle geometry, dynamic vertex/index
// buffers, and submission via ebiten.DrawTriangles32 (spec.md §4.9).
// Grounded on the teacher's render.go (RenderCommand/traverse machinery),
// batch.go (the DrawTriangles32 coalesced-batch path), and text.go/atlas.go
// (the Font/TextureRegion glyph model) — translated from willow's
// TRS-node traversal onto a direct scene.Graph.GetRenderOrder() pass.
package render

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi"

	"github.com/vectorcanvas/core/camera"
	"github.com/vectorcanvas/core/entitystore"
	"github.com/vectorcanvas/core/schema"
	"github.com/vectorcanvas/core/scene"
)

// Stats is returned by Renderer.Render each frame (spec.md §4.9 "Stats").
type Stats struct {
	FrameTimeMS     float64
	DrawCalls       int
	ObjectsRendered int
	ObjectsCulled   int
}

// Renderer owns the dynamic shape/text buffers and draws one frame's scene
// against a camera.
type Renderer struct {
	Graph *scene.Graph
	Font  FontAtlas

	backgroundColor schema.Color

	shapeBuf dynamicBuffer
	textBuf  dynamicBuffer
}

// New returns a Renderer over graph, drawing text with font (nil disables
// text rendering — glyph quads are simply skipped).
func New(graph *scene.Graph, font FontAtlas) *Renderer {
	return &Renderer{Graph: graph, Font: font, backgroundColor: schema.ColorWhite}
}

// SetBackground sets the clear color used by the next Render call's
// clear-to-background load op (spec.md §4.9 stage 5).
func (r *Renderer) SetBackground(c schema.Color) { r.backgroundColor = c }

// Render tessellates the scene's visible entities against cam, uploads the
// resulting buffers, and submits one render pass to target (spec.md
// §4.9). Stage 1's uniform update is cam.ViewMatrix(): ebiten's
// DrawTrianglesOptions in this version takes screen-space vertices
// directly, so the view transform is premultiplied onto each entity's
// world transform during tessellation rather than uploaded as a clip-space
// matrix (ProjectionMatrix remains available for a future non-ebiten
// backend that does want clip-space uniforms).
func (r *Renderer) Render(target *ebiten.Image, cam *camera.Camera) Stats {
	start := time.Now()
	view := cam.ViewMatrix()

	r.shapeBuf.reset()
	r.textBuf.reset()

	order := r.Graph.GetRenderOrder()
	rendered, culled := 0, 0
	visible := cam.VisibleBounds()

	for _, e := range order {
		entry := r.Graph.Store.World.Entry(e)
		worldBounds := entitystore.WorldBounds.Get(entry).Box
		if !visible.Intersects(worldBounds) {
			culled++
			continue
		}
		rendered++
		r.tessellateEntity(entry, view)
	}

	target.Fill(bgColor(r.backgroundColor)) // stage 5: clear-to-background load op

	drawCalls := 0
	if len(r.shapeBuf.indices) > 0 {
		submitTriangles(target, whitePixel, r.shapeBuf.vertices, r.shapeBuf.indices)
		drawCalls++
	}
	if r.Font != nil && len(r.textBuf.indices) > 0 {
		submitTriangles(target, r.Font.Texture(), r.textBuf.vertices, r.textBuf.indices)
		drawCalls++
	}

	return Stats{
		FrameTimeMS:     float64(time.Since(start).Microseconds()) / 1000.0,
		DrawCalls:       drawCalls,
		ObjectsRendered: rendered,
		ObjectsCulled:   culled,
	}
}

func bgColor(c schema.Color) color.Color { return ebitenColor{c.R, c.G, c.B, c.A} }

// submitTriangles mirrors the teacher's batch.go coalesced-batch path: one
// ebiten.DrawTrianglesOptions draw per buffer, not per shape.
func submitTriangles(target, src *ebiten.Image, vertices []ebiten.Vertex, indices []uint32) {
	var opts ebiten.DrawTrianglesOptions
	target.DrawTriangles32(vertices, indices, src, &opts)
}

// tessellateEntity dispatches one renderable entity's shape data into the
// shape buffer per spec.md §4.9 stage 2. The entity's world transform is
// premultiplied by the camera's view transform so pan and zoom actually
// move and scale the emitted geometry, not just the culling test. Polyline,
// Path, Image, and Group entities carry no tessellation geometry in the
// entity store projection (only the document model holds their authoring
// data) and are skipped; Text tessellation is handled by tessellateText
// once glyph-run data is attached to the entity.
func (r *Renderer) tessellateEntity(entry *donburi.Entry, view schema.Transform) {
	shape := entitystore.Shape.Get(entry)
	world := view.Multiply(entitystore.Transform.Get(entry).World)

	fillColor := schema.ColorWhite
	if entry.HasComponent(entitystore.Fill) {
		fillColor = entitystore.Fill.Get(entry).Style.FirstStopColor()
	}

	switch shape.Type {
	case schema.ShapeRectangle:
		appendRectangle(&r.shapeBuf, world, shape.Width, shape.Height, fillColor)
	case schema.ShapeEllipse:
		appendEllipse(&r.shapeBuf, world, shape.Width/2, shape.Height/2, fillColor)
	case schema.ShapeLine:
		strokeColor, strokeWidth := schema.ColorBlack, 1.0
		if entry.HasComponent(entitystore.Stroke) {
			s := entitystore.Stroke.Get(entry).Style
			strokeColor, strokeWidth = s.Color, s.Width
		}
		appendLine(&r.shapeBuf, world, schema.Point{}, schema.Point{X: shape.Width, Y: shape.Height}, strokeWidth, strokeColor)
	case schema.ShapeText:
		r.tessellateText(entry, world, fillColor)
	}
}

// tessellateText lays out a TextData entity's content left-to-right, one
// glyph quad per rune, wrapping to a new line at each '\n' and advancing
// by the entity's TextData.LineHeight, or by the font atlas's line height
// when that is zero (spec.md §4.9 stage 3). Layout is
// monospace-equivalent per spec.md §1 Non-goals: every glyph advances the
// pen by its own Advance regardless of neighboring glyph widths.
func (r *Renderer) tessellateText(entry *donburi.Entry, world schema.Transform, fillColor schema.Color) {
	if r.Font == nil || !entry.HasComponent(entitystore.Text) {
		return
	}
	text := entitystore.Text.Get(entry)
	lineHeight := text.LineHeight
	if lineHeight == 0 {
		lineHeight = r.Font.LineHeight()
	}

	x, y := 0.0, 0.0
	for _, ch := range text.Content {
		if ch == '\n' {
			x = 0
			y += lineHeight
			continue
		}
		metrics, ok := r.Font.Glyph(ch)
		if !ok {
			continue
		}
		appendGlyphQuad(&r.textBuf, world, x, y, metrics.Region.Width, metrics.Region.Height, metrics.Region, fillColor)
		x += metrics.Advance
	}
}
