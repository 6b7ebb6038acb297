package render

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vectorcanvas/core/schema"
)

// whitePixel is a 1x1 opaque white image used as the source for solid-fill
// shape geometry, so shape draws share the same DrawTriangles32 call as
// textured sprites — the same trick the teacher's willow.go plays with its
// package-level WhitePixel.
var whitePixel *ebiten.Image

func init() {
	whitePixel = ebiten.NewImage(1, 1)
	whitePixel.Fill(color32{R: 1, G: 1, B: 1, A: 1}.toEbiten())
}

type color32 struct{ R, G, B, A float32 }

func (c color32) toEbiten() ebitenColor { return ebitenColor{c.R, c.G, c.B, c.A} }

// ebitenColor satisfies color.Color via its RGBA method so whitePixel.Fill
// can accept it without importing image/color here for a single call site.
type ebitenColor struct{ R, G, B, A float32 }

func (c ebitenColor) RGBA() (r, g, b, a uint32) {
	return uint32(c.R * 0xffff), uint32(c.G * 0xffff), uint32(c.B * 0xffff), uint32(c.A * 0xffff)
}

func fromSchemaColor(c schema.Color) color32 {
	return color32{R: c.R, G: c.G, B: c.B, A: c.A}
}

// appendRectangle tessellates a world-transformed rectangle into four
// vertices and two triangles (0-1-2, 0-2-3), per spec.md §4.9 stage 2.
func appendRectangle(buf *dynamicBuffer, world schema.Transform, width, height float64, fill schema.Color) {
	base := uint32(len(buf.vertices))
	corners := [4]schema.Point{
		world.Apply(schema.Point{X: 0, Y: 0}),
		world.Apply(schema.Point{X: width, Y: 0}),
		world.Apply(schema.Point{X: width, Y: height}),
		world.Apply(schema.Point{X: 0, Y: height}),
	}
	c := fromSchemaColor(fill)
	for _, p := range corners {
		buf.appendVertex(ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: 0, SrcY: 0,
			ColorR: c.R, ColorG: c.G, ColorB: c.B, ColorA: c.A,
		})
	}
	buf.appendIndex(base + 0)
	buf.appendIndex(base + 1)
	buf.appendIndex(base + 2)
	buf.appendIndex(base + 0)
	buf.appendIndex(base + 2)
	buf.appendIndex(base + 3)
}

// ellipseSegments is the fan resolution for ellipse tessellation (spec.md
// §4.9 stage 2: "32-segment triangle fan").
const ellipseSegments = 32

// appendEllipse tessellates a world-transformed ellipse as a 32-segment
// triangle fan centered at the transform origin.
func appendEllipse(buf *dynamicBuffer, world schema.Transform, radiusX, radiusY float64, fill schema.Color) {
	c := fromSchemaColor(fill)
	center := world.Apply(schema.Point{})
	centerIdx := uint32(len(buf.vertices))
	buf.appendVertex(ebiten.Vertex{
		DstX: float32(center.X), DstY: float32(center.Y),
		ColorR: c.R, ColorG: c.G, ColorB: c.B, ColorA: c.A,
	})

	firstRimIdx := uint32(len(buf.vertices))
	for i := 0; i <= ellipseSegments; i++ {
		theta := 2 * math.Pi * float64(i) / ellipseSegments
		p := world.Apply(schema.Point{X: radiusX * math.Cos(theta), Y: radiusY * math.Sin(theta)})
		buf.appendVertex(ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			ColorR: c.R, ColorG: c.G, ColorB: c.B, ColorA: c.A,
		})
	}
	for i := 0; i < ellipseSegments; i++ {
		buf.appendIndex(centerIdx)
		buf.appendIndex(firstRimIdx + uint32(i))
		buf.appendIndex(firstRimIdx + uint32(i) + 1)
	}
}

// appendLine expands a world-space line segment into a quad of width
// strokeWidth, perpendicular to the segment (spec.md §4.9 stage 2).
func appendLine(buf *dynamicBuffer, world schema.Transform, start, end schema.Point, strokeWidth float64, color schema.Color) {
	p0 := world.Apply(start)
	p1 := world.Apply(end)
	dx, dy := p1.X-p0.X, p1.Y-p0.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*strokeWidth/2, dx/length*strokeWidth/2

	c := fromSchemaColor(color)
	base := uint32(len(buf.vertices))
	corners := [4][2]float64{
		{p0.X + nx, p0.Y + ny},
		{p1.X + nx, p1.Y + ny},
		{p1.X - nx, p1.Y - ny},
		{p0.X - nx, p0.Y - ny},
	}
	for _, p := range corners {
		buf.appendVertex(ebiten.Vertex{
			DstX: float32(p[0]), DstY: float32(p[1]),
			ColorR: c.R, ColorG: c.G, ColorB: c.B, ColorA: c.A,
		})
	}
	buf.appendIndex(base + 0)
	buf.appendIndex(base + 1)
	buf.appendIndex(base + 2)
	buf.appendIndex(base + 0)
	buf.appendIndex(base + 2)
	buf.appendIndex(base + 3)
}

// appendGlyphQuad tessellates one textured glyph quad at pen position
// (x, y) in world space, with UVs from the atlas's texture-pixel region.
func appendGlyphQuad(buf *dynamicBuffer, world schema.Transform, x, y float64, glyphW, glyphH float64, region TextureRegion, color schema.Color) {
	c := fromSchemaColor(color)
	base := uint32(len(buf.vertices))
	corners := [4]schema.Point{
		world.Apply(schema.Point{X: x, Y: y}),
		world.Apply(schema.Point{X: x + glyphW, Y: y}),
		world.Apply(schema.Point{X: x + glyphW, Y: y + glyphH}),
		world.Apply(schema.Point{X: x, Y: y + glyphH}),
	}
	uvs := [4][2]float64{
		{region.X, region.Y},
		{region.X + region.Width, region.Y},
		{region.X + region.Width, region.Y + region.Height},
		{region.X, region.Y + region.Height},
	}
	for i, p := range corners {
		buf.appendVertex(ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: float32(uvs[i][0]), SrcY: float32(uvs[i][1]),
			ColorR: c.R, ColorG: c.G, ColorB: c.B, ColorA: c.A,
		})
	}
	buf.appendIndex(base + 0)
	buf.appendIndex(base + 1)
	buf.appendIndex(base + 2)
	buf.appendIndex(base + 0)
	buf.appendIndex(base + 2)
	buf.appendIndex(base + 3)
}
