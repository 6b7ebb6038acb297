// Package camera implements the 2D pan/zoom camera: viewport mapping, the
// view transform the renderer applies each frame, and an orthographic
// clip-space projection matrix (spec.md §4.7). Formulas are grounded on original_source's
// canvas-core/src/camera.rs, the Rust implementation this spec was
// distilled from; the struct layout and doc-comment register follow the
// teacher's camera.go.
package camera

import "github.com/vectorcanvas/core/schema"

// MinZoom and MaxZoom bound Camera.Zoom (spec.md §4.7).
const (
	MinZoom = 0.01
	MaxZoom = 256.0
)

// Camera is the view into the canvas: world-space position, zoom, and the
// screen-space viewport it maps onto.
type Camera struct {
	X, Y       float64
	Zoom       float64
	ViewportW  float64
	ViewportH  float64
}

// New returns a Camera centered at the origin with zoom 1 and the given
// viewport.
func New(viewportW, viewportH float64) *Camera {
	return &Camera{Zoom: 1, ViewportW: viewportW, ViewportH: viewportH}
}

func clampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// PanBy moves the camera position by (-dx, -dy) / Zoom, so canvas content
// follows a (dx, dy) screen-pixel drag by the same on-screen distance at
// any zoom level.
func (c *Camera) PanBy(dx, dy float64) {
	c.X -= dx / c.Zoom
	c.Y -= dy / c.Zoom
}

// ScreenToCanvas maps a screen-space point to canvas (world) coordinates,
// with the viewport centered at (ViewportW/2, ViewportH/2).
func (c *Camera) ScreenToCanvas(sx, sy float64) schema.Point {
	return schema.Point{
		X: (sx-c.ViewportW/2)/c.Zoom + c.X,
		Y: (sy-c.ViewportH/2)/c.Zoom + c.Y,
	}
}

// CanvasToScreen maps a canvas-space point to screen coordinates — the
// inverse of ScreenToCanvas.
func (c *Camera) CanvasToScreen(cx, cy float64) schema.Point {
	return schema.Point{
		X: (cx-c.X)*c.Zoom + c.ViewportW/2,
		Y: (cy-c.Y)*c.Zoom + c.ViewportH/2,
	}
}

// ZoomTo clamps newZoom and adjusts (X, Y) so the canvas point currently
// under screen (sx, sy) stays under (sx, sy) after the zoom change.
func (c *Camera) ZoomTo(newZoom, sx, sy float64) {
	newZoom = clampZoom(newZoom)
	anchor := c.ScreenToCanvas(sx, sy)
	c.Zoom = newZoom
	afterScreen := c.CanvasToScreen(anchor.X, anchor.Y)
	c.X += (afterScreen.X - sx) / c.Zoom
	c.Y += (afterScreen.Y - sy) / c.Zoom
}

// ZoomBy multiplies the current zoom by factor, anchored at (sx, sy).
func (c *Camera) ZoomBy(factor, sx, sy float64) {
	c.ZoomTo(c.Zoom*factor, sx, sy)
}

// VisibleBounds returns the axis-aligned canvas rectangle currently on
// screen.
func (c *Camera) VisibleBounds() schema.BoundingBox {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return schema.BoundingBox{
		X: c.X - halfW, Y: c.Y - halfH,
		Width: halfW * 2, Height: halfH * 2,
	}
}

// ViewMatrix returns the camera's view transform as a schema.Transform:
// zoom scale composed with a translation centering (X, Y) in the viewport.
// This is the 2x3 equivalent of ProjectionMatrix's 4x4, useful wherever a
// caller works in the schema.Transform vocabulary (e.g. the renderer's
// shape tessellation pass) rather than clip-space matrices.
func (c *Camera) ViewMatrix() schema.Transform {
	return schema.Transform{
		A: c.Zoom, D: c.Zoom,
		Tx: -c.X*c.Zoom + c.ViewportW/2,
		Ty: -c.Y*c.Zoom + c.ViewportH/2,
	}
}

// ProjectionMatrix returns a 4x4 column-major orthographic projection
// mapping canvas coordinates to clip space [-1, 1]^2, incorporating pan and
// zoom. render.Renderer does not use it: it premultiplies ViewMatrix onto
// each entity's world transform instead (see Renderer.Render).
func (c *Camera) ProjectionMatrix() [16]float32 {
	v := c.ViewMatrix()
	// Clip space maps [0, ViewportW] x [0, ViewportH] (the view-matrix's
	// screen-space output) to [-1, 1]^2, flipping Y since screen space
	// grows downward and clip space grows upward.
	sx := float32(2 / c.ViewportW)
	sy := float32(-2 / c.ViewportH)
	return [16]float32{
		float32(v.A) * sx, float32(v.B) * sy, 0, 0,
		float32(v.C) * sx, float32(v.D) * sy, 0, 0,
		0, 0, 1, 0,
		float32(v.Tx)*sx - 1, float32(v.Ty)*sy + 1, 0, 1,
	}
}
