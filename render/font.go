package render

import "github.com/hajimehoshi/ebiten/v2"

// TextureRegion locates a sub-rectangle of an atlas texture in pixels,
// matching the teacher's atlas.go TextureRegion shape.
type TextureRegion struct {
	X, Y, Width, Height float64
}

// GlyphMetrics is the layout and texture data for one rune, enough to
// tessellate a textured quad and advance the cursor (spec.md §4.9 stage
// 3). Layout is monospace per spec.md §1 Non-goals ("text editing beyond
// monospace glyph layout"): every glyph advances by Advance regardless of
// its own width.
type GlyphMetrics struct {
	Region  TextureRegion
	Advance float64
}

// FontAtlas is the opaque bitmap + metrics provider the spec treats as an
// external collaborator (spec.md §1): this package only consumes it, never
// generates one. When Glyph reports ok == false, the renderer skips that
// rune: no quad is emitted and the pen does not advance.
type FontAtlas interface {
	Glyph(r rune) (GlyphMetrics, bool)
	LineHeight() float64
	Texture() *ebiten.Image
}
