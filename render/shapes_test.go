package render

import (
	"testing"

	"github.com/vectorcanvas/core/schema"
)

func TestAppendRectangleProducesFourVerticesTwoTriangles(t *testing.T) {
	var buf dynamicBuffer
	appendRectangle(&buf, schema.Identity, 100, 50, schema.ColorRed)
	if len(buf.vertices) != 4 {
		t.Fatalf("vertices = %d, want 4", len(buf.vertices))
	}
	if len(buf.indices) != 6 {
		t.Fatalf("indices = %d, want 6", len(buf.indices))
	}
	last := buf.vertices[2]
	if last.DstX != 100 || last.DstY != 50 {
		t.Fatalf("third corner = (%v,%v), want (100,50)", last.DstX, last.DstY)
	}
}

func TestAppendRectangleRespectsWorldTransform(t *testing.T) {
	var buf dynamicBuffer
	world := schema.Translate(10, 20)
	appendRectangle(&buf, world, 5, 5, schema.ColorBlack)
	if buf.vertices[0].DstX != 10 || buf.vertices[0].DstY != 20 {
		t.Fatalf("origin corner = (%v,%v), want (10,20)", buf.vertices[0].DstX, buf.vertices[0].DstY)
	}
}

func TestAppendEllipseProducesFanGeometry(t *testing.T) {
	var buf dynamicBuffer
	appendEllipse(&buf, schema.Identity, 10, 10, schema.ColorBlack)
	wantVertices := 1 + ellipseSegments + 1
	if len(buf.vertices) != wantVertices {
		t.Fatalf("vertices = %d, want %d", len(buf.vertices), wantVertices)
	}
	if len(buf.indices) != ellipseSegments*3 {
		t.Fatalf("indices = %d, want %d", len(buf.indices), ellipseSegments*3)
	}
}

func TestAppendLineSkipsZeroLengthSegment(t *testing.T) {
	var buf dynamicBuffer
	appendLine(&buf, schema.Identity, schema.Point{}, schema.Point{}, 2, schema.ColorBlack)
	if len(buf.vertices) != 0 {
		t.Fatalf("expected no geometry for a zero-length segment, got %d vertices", len(buf.vertices))
	}
}

func TestAppendLineProducesQuad(t *testing.T) {
	var buf dynamicBuffer
	appendLine(&buf, schema.Identity, schema.Point{X: 0, Y: 0}, schema.Point{X: 10, Y: 0}, 2, schema.ColorBlack)
	if len(buf.vertices) != 4 || len(buf.indices) != 6 {
		t.Fatalf("got (%d verts, %d idx), want (4,6)", len(buf.vertices), len(buf.indices))
	}
	for _, v := range buf.vertices {
		if v.DstY != 1 && v.DstY != -1 {
			t.Fatalf("expected perpendicular offset of +-1 for width 2, got DstY=%v", v.DstY)
		}
	}
}

func TestAppendGlyphQuadMapsUVsFromRegion(t *testing.T) {
	var buf dynamicBuffer
	region := TextureRegion{X: 4, Y: 8, Width: 16, Height: 16}
	appendGlyphQuad(&buf, schema.Identity, 0, 0, 16, 16, region, schema.ColorBlack)
	if len(buf.vertices) != 4 || len(buf.indices) != 6 {
		t.Fatalf("got (%d verts, %d idx), want (4,6)", len(buf.vertices), len(buf.indices))
	}
	if buf.vertices[0].SrcX != 4 || buf.vertices[0].SrcY != 8 {
		t.Fatalf("origin UV = (%v,%v), want (4,8)", buf.vertices[0].SrcX, buf.vertices[0].SrcY)
	}
}
