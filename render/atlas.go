package render

import (
	"encoding/json"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// BitmapFontAtlas is a FontAtlas backed by a single TexturePacker-style
// sprite sheet, one region per glyph. Region names are the glyph's rune
// decoded as a decimal code point string ("65" for 'A'), a common bitmap
// font packing convention. Adapted from the teacher's atlas.go, trimmed to
// a single page since a FontAtlas only ever exposes one Texture().
type BitmapFontAtlas struct {
	page       *ebiten.Image
	regions    map[rune]TextureRegion
	advance    map[rune]float64
	lineHeight float64
}

// jsonRect, jsonSize and jsonFrame mirror the TexturePacker "hash" export
// format, same shape as the teacher's atlas.go.
type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame    jsonRect `json:"frame"`
	Advance  float64  `json:"advance"`
}

type jsonAtlas struct {
	Frames     map[string]jsonFrame `json:"frames"`
	LineHeight float64              `json:"lineHeight"`
}

// LoadBitmapFontAtlas parses a TexturePacker-hash-format JSON glyph sheet
// and pairs it with the page image it describes.
func LoadBitmapFontAtlas(jsonData []byte, page *ebiten.Image) (*BitmapFontAtlas, error) {
	var parsed jsonAtlas
	if err := json.Unmarshal(jsonData, &parsed); err != nil {
		return nil, fmt.Errorf("render: failed to parse font atlas JSON: %w", err)
	}
	if parsed.LineHeight <= 0 {
		return nil, fmt.Errorf("render: font atlas JSON missing a positive lineHeight")
	}

	atlas := &BitmapFontAtlas{
		page:       page,
		regions:    make(map[rune]TextureRegion, len(parsed.Frames)),
		advance:    make(map[rune]float64, len(parsed.Frames)),
		lineHeight: parsed.LineHeight,
	}
	for name, f := range parsed.Frames {
		var r rune
		if _, err := fmt.Sscanf(name, "%d", &r); err != nil {
			return nil, fmt.Errorf("render: font atlas glyph name %q is not a decimal code point: %w", name, err)
		}
		atlas.regions[r] = TextureRegion{
			X:      float64(f.Frame.X),
			Y:      float64(f.Frame.Y),
			Width:  float64(f.Frame.W),
			Height: float64(f.Frame.H),
		}
		advance := f.Advance
		if advance <= 0 {
			advance = float64(f.Frame.W)
		}
		atlas.advance[r] = advance
	}
	return atlas, nil
}

// Glyph returns the region and advance for r, and false if the sheet has
// no region for it (callers skip the glyph rather than substitute a
// placeholder, since tessellateText already treats a missing glyph as
// "no geometry to emit" rather than drawing a box).
func (a *BitmapFontAtlas) Glyph(r rune) (GlyphMetrics, bool) {
	region, ok := a.regions[r]
	if !ok {
		return GlyphMetrics{}, false
	}
	return GlyphMetrics{Region: region, Advance: a.advance[r]}, true
}

func (a *BitmapFontAtlas) LineHeight() float64 {
	return a.lineHeight
}

func (a *BitmapFontAtlas) Texture() *ebiten.Image {
	return a.page
}
