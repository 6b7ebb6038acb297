// Package schema defines the primitive geometry, color, transform, and
// canvas object types shared by the document model, entity store, scene
// graph, and renderer.
package schema

// Point is a 2D point in canvas coordinates.
type Point struct {
	X, Y float64
}

// ZeroPoint is the origin.
var ZeroPoint = Point{0, 0}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// BoundingBox is an axis-aligned rectangle in canvas coordinates.
type BoundingBox struct {
	X, Y, Width, Height float64
}

// Contains reports whether p lies within the box, inclusive of both edges.
func (b BoundingBox) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.Width &&
		p.Y >= b.Y && p.Y <= b.Y+b.Height
}

// Intersects reports whether b and o overlap.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	return b.X < o.X+o.Width && b.X+b.Width > o.X &&
		b.Y < o.Y+o.Height && b.Y+b.Height > o.Y
}

// Translate returns b shifted by (dx, dy).
func (b BoundingBox) Translate(dx, dy float64) BoundingBox {
	b.X += dx
	b.Y += dy
	return b
}

// Color is a straight-alpha RGBA color with components in [0,1].
// Components are float32 to match the wire/GPU representation; Transform
// and geometry stay float64 for layout precision.
type Color struct {
	R, G, B, A float32
}

var (
	ColorBlack       = Color{0, 0, 0, 1}
	ColorWhite       = Color{1, 1, 1, 1}
	ColorTransparent = Color{0, 0, 0, 0}
	ColorRed         = Color{1, 0, 0, 1}
)

// ColorFromRGBA8 builds a Color from 8-bit channel values.
func ColorFromRGBA8(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: float32(a) / 255,
	}
}
