package render

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestLoadBitmapFontAtlasParsesGlyphsByCodePoint(t *testing.T) {
	page := ebiten.NewImage(64, 64)
	data := []byte(`{
		"lineHeight": 18,
		"frames": {
			"65": {"frame": {"x": 0, "y": 0, "w": 10, "h": 14}, "advance": 11},
			"97": {"frame": {"x": 10, "y": 0, "w": 8, "h": 14}}
		}
	}`)

	atlas, err := LoadBitmapFontAtlas(data, page)
	if err != nil {
		t.Fatalf("LoadBitmapFontAtlas: %v", err)
	}
	if atlas.LineHeight() != 18 {
		t.Fatalf("LineHeight() = %v, want 18", atlas.LineHeight())
	}
	if atlas.Texture() != page {
		t.Fatalf("Texture() did not return the page passed in")
	}

	upper, ok := atlas.Glyph('A')
	if !ok {
		t.Fatal("expected a region for 'A'")
	}
	if upper.Advance != 11 || upper.Region.Width != 10 {
		t.Fatalf("got %+v, want advance=11 width=10", upper)
	}

	lower, ok := atlas.Glyph('a')
	if !ok {
		t.Fatal("expected a region for 'a'")
	}
	if lower.Advance != 8 {
		t.Fatalf("Advance fell back to frame width = %v, want 8", lower.Advance)
	}

	if _, ok := atlas.Glyph('z'); ok {
		t.Fatal("expected no region for an unlisted glyph")
	}
}

func TestLoadBitmapFontAtlasRejectsMissingLineHeight(t *testing.T) {
	page := ebiten.NewImage(8, 8)
	_, err := LoadBitmapFontAtlas([]byte(`{"frames": {}}`), page)
	if err == nil {
		t.Fatal("expected an error for a missing lineHeight")
	}
}
