// Package tool implements the per-tool input-event state machine (spec.md
// §4.8), grounded on original_source's canvas-core/src/tools.rs — the
// Select/Pan/draw-tool branches below follow that file's event-handling
// logic, translated from Rust match arms to Go switch statements.
package tool

import (
	"github.com/vectorcanvas/core/camera"
	"github.com/vectorcanvas/core/schema"
	"github.com/vectorcanvas/core/scene"
)

// CreateShapeFunc is called by Handle when a draw tool finishes a drag
// (PointerUp), with the tool in effect and the canvas-space rectangle
// spanned by drag_start..drag_current. The caller supplies this to bridge
// into the document/scene without this package depending on them.
type CreateShapeFunc func(tool Type, start, current schema.Point)

// Type is the active tool kind.
type Type int

const (
	Select Type = iota
	Pan
	Rectangle
	Ellipse
	Line
	Pen
	Text
)

// Cursor returns the UI cursor hint for t, and for Pan additionally
// reflects whether it is actively dragging ("grabbing" vs "grab"). This is
// a supplemented feature restored from original_source's
// ToolType::cursor(), kept as a pure function despite being UI-adjacent
// (see SPEC_FULL.md).
func (t Type) Cursor(dragging bool) string {
	switch t {
	case Pan:
		if dragging {
			return "grabbing"
		}
		return "grab"
	case Rectangle, Ellipse, Line, Pen:
		return "crosshair"
	case Text:
		return "text"
	default:
		return "default"
	}
}

// EventType tags the kind of input event State.Handle receives.
type EventType int

const (
	PointerDown EventType = iota
	PointerMove
	PointerUp
	Wheel
)

// Event is a single input event. X and Y are the pointer's screen-space
// position; tools convert them to canvas coordinates through the camera
// where they need canvas positions.
type Event struct {
	Type EventType

	Button int // mouse button for PointerDown/Up; 0 is primary
	X, Y   float64

	// Wheel fields.
	DeltaX, DeltaY float64
	CtrlOrMeta     bool
}

// State is the tool's drag machinery, reset whenever the active tool
// changes.
type State struct {
	IsDragging   bool
	DragStart    *schema.Point
	DragCurrent  *schema.Point
	ActiveObject *schema.ObjectID
}

// Reset clears all drag state.
func (s *State) Reset() {
	s.IsDragging = false
	s.DragStart = nil
	s.DragCurrent = nil
	s.ActiveObject = nil
}

// Manager owns the active tool and its drag state.
type Manager struct {
	Current Type
	State   State

	prevX, prevY float64 // previous drag anchor, for Pan's incremental panBy
}

// New returns a Manager with Select as the active tool.
func New() *Manager {
	return &Manager{Current: Select}
}

// SetTool switches the active tool, resetting drag state.
func (m *Manager) SetTool(t Type) {
	m.Current = t
	m.State.Reset()
}

// Handle applies ev to the active tool against cam and graph, invoking
// onCreateShape when a draw tool finalizes a new object. It returns true
// when the event was consumed (the tool changed state or mutated the
// world); an unconsumed event may be used by the host for its own default
// behavior (spec.md §4.8).
func (m *Manager) Handle(ev Event, cam *camera.Camera, graph *scene.Graph, onCreateShape CreateShapeFunc) bool {
	switch m.Current {
	case Select:
		return m.handleSelect(ev, cam, graph)
	case Pan:
		return m.handlePan(ev, cam)
	default:
		return m.handleDraw(ev, cam, onCreateShape)
	}
}

func (m *Manager) handleSelect(ev Event, cam *camera.Camera, graph *scene.Graph) bool {
	switch ev.Type {
	case PointerDown:
		if ev.Button != 0 {
			return false
		}
		if hit, ok := graph.HitTest(cam.ScreenToCanvas(ev.X, ev.Y)); ok {
			id := graph.ObjectIDOf(hit)
			m.State.ActiveObject = &id
		} else {
			m.State.ActiveObject = nil
		}
		m.State.IsDragging = true
		start := schema.Point{X: ev.X, Y: ev.Y}
		m.State.DragStart = &start
		return true
	case PointerMove:
		if !m.State.IsDragging {
			return false
		}
		cur := schema.Point{X: ev.X, Y: ev.Y}
		m.State.DragCurrent = &cur
		return true
	case PointerUp:
		if !m.State.IsDragging {
			return false
		}
		m.State.Reset()
		return true
	}
	return false
}

func (m *Manager) handlePan(ev Event, cam *camera.Camera) bool {
	switch ev.Type {
	case PointerDown:
		if ev.Button != 0 && ev.Button != 1 {
			return false
		}
		m.State.IsDragging = true
		m.prevX, m.prevY = ev.X, ev.Y
		return true
	case PointerMove:
		if !m.State.IsDragging {
			return false
		}
		dx, dy := ev.X-m.prevX, ev.Y-m.prevY
		cam.PanBy(dx, dy)
		m.prevX, m.prevY = ev.X, ev.Y
		return true
	case PointerUp:
		if !m.State.IsDragging {
			return false
		}
		m.State.Reset()
		return true
	case Wheel:
		if ev.CtrlOrMeta {
			factor := 1.1
			if ev.DeltaY > 0 {
				factor = 0.9
			}
			cam.ZoomBy(factor, ev.X, ev.Y)
		} else {
			cam.PanBy(-ev.DeltaX, -ev.DeltaY)
		}
		return true
	}
	return false
}

func (m *Manager) handleDraw(ev Event, cam *camera.Camera, onCreateShape CreateShapeFunc) bool {
	switch ev.Type {
	case PointerDown:
		if ev.Button != 0 {
			return false
		}
		canvasPoint := cam.ScreenToCanvas(ev.X, ev.Y)
		m.State.DragStart = &canvasPoint
		m.State.IsDragging = true
		return true
	case PointerMove:
		if !m.State.IsDragging {
			return false
		}
		canvasPoint := cam.ScreenToCanvas(ev.X, ev.Y)
		m.State.DragCurrent = &canvasPoint
		return true
	case PointerUp:
		if !m.State.IsDragging {
			return false
		}
		if m.State.DragStart != nil && onCreateShape != nil {
			current := m.State.DragStart
			if m.State.DragCurrent != nil {
				current = m.State.DragCurrent
			}
			onCreateShape(m.Current, *m.State.DragStart, *current)
		}
		m.State.Reset()
		return true
	}
	return false
}
