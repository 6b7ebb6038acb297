package camera

import "testing"

const epsilon = 1e-9

func near(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < epsilon
}

func TestScreenCanvasInverse(t *testing.T) {
	c := New(800, 600)
	c.Zoom = 2.0
	c.X, c.Y = 50, -30

	canvas := c.ScreenToCanvas(400, 300)
	if !near(canvas.X, 50) || !near(canvas.Y, -30) {
		t.Fatalf("ScreenToCanvas(400,300) = %+v, want (50,-30)", canvas)
	}

	screen := c.CanvasToScreen(50, -30)
	if !near(screen.X, 400) || !near(screen.Y, 300) {
		t.Fatalf("CanvasToScreen(50,-30) = %+v, want (400,300)", screen)
	}
}

func TestCanvasToScreenRoundTrip(t *testing.T) {
	c := New(1024, 768)
	c.Zoom = 3.5
	c.X, c.Y = 12.5, -88.25

	cases := []struct{ x, y float64 }{
		{0, 0}, {100, 200}, {-50, -50}, {1, 1},
	}
	for _, tc := range cases {
		screen := c.CanvasToScreen(tc.x, tc.y)
		back := c.ScreenToCanvas(screen.X, screen.Y)
		if !near(back.X, tc.x) || !near(back.Y, tc.y) {
			t.Errorf("round trip (%v,%v) -> %+v, want back at original", tc.x, tc.y, back)
		}
	}
}

func TestZoomClampsAtBoundaries(t *testing.T) {
	c := New(800, 600)
	c.ZoomTo(0.0001, 400, 300)
	if c.Zoom != MinZoom {
		t.Errorf("Zoom = %v, want MinZoom %v", c.Zoom, MinZoom)
	}

	c2 := New(800, 600)
	c2.ZoomTo(10000, 400, 300)
	if c2.Zoom != MaxZoom {
		t.Errorf("Zoom = %v, want MaxZoom %v", c2.Zoom, MaxZoom)
	}
}

func TestZoomToKeepsAnchorPointStable(t *testing.T) {
	c := New(800, 600)
	c.X, c.Y = 10, 10
	sx, sy := 300.0, 200.0
	before := c.ScreenToCanvas(sx, sy)

	c.ZoomTo(4.0, sx, sy)

	after := c.ScreenToCanvas(sx, sy)
	if !near(before.X, after.X) || !near(before.Y, after.Y) {
		t.Fatalf("anchor moved: before=%+v after=%+v", before, after)
	}
}

func TestZoomByMultipliesCurrentZoom(t *testing.T) {
	c := New(800, 600)
	c.Zoom = 2.0
	c.ZoomBy(1.1, 400, 300)
	if !near(c.Zoom, 2.2) {
		t.Fatalf("Zoom = %v, want 2.2", c.Zoom)
	}
}

func TestPanByScalesWithZoom(t *testing.T) {
	c := New(800, 600)
	c.Zoom = 2.0
	c.PanBy(20, 40)
	if !near(c.X, -10) || !near(c.Y, -20) {
		t.Fatalf("position after pan = (%v,%v), want (-10,-20)", c.X, c.Y)
	}
}

func TestVisibleBounds(t *testing.T) {
	c := New(800, 600)
	c.Zoom = 2.0
	c.X, c.Y = 0, 0
	b := c.VisibleBounds()
	if !near(b.Width, 400) || !near(b.Height, 300) {
		t.Fatalf("VisibleBounds = %+v, want width=400 height=300", b)
	}
}

