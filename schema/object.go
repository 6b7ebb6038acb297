package schema

// ShapeType tags which variant a CanvasObject carries.
type ShapeType int

const (
	ShapeRectangle ShapeType = iota
	ShapeEllipse
	ShapeLine
	ShapePolyline
	ShapePath
	ShapeText
	ShapeImage
	ShapeGroup
)

func (s ShapeType) String() string {
	switch s {
	case ShapeRectangle:
		return "rectangle"
	case ShapeEllipse:
		return "ellipse"
	case ShapeLine:
		return "line"
	case ShapePolyline:
		return "polyline"
	case ShapePath:
		return "path"
	case ShapeText:
		return "text"
	case ShapeImage:
		return "image"
	case ShapeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// StrokeCap is the style of an open path's endpoints.
type StrokeCap int

const (
	CapButt StrokeCap = iota
	CapRound
	CapSquare
)

// StrokeJoin is the style of a path's interior corners.
type StrokeJoin int

const (
	JoinMiter StrokeJoin = iota
	JoinRound
	JoinBevel
)

// StrokeStyle describes how an outline is painted.
type StrokeStyle struct {
	Color     Color
	Width     float64
	Cap       StrokeCap
	Join      StrokeJoin
	DashArray []float64 // nil means solid
	DashOffset float64
}

// DefaultStrokeStyle matches the original schema's Default impl: solid
// black, width 1, butt cap, miter join, no dash.
var DefaultStrokeStyle = StrokeStyle{Color: ColorBlack, Width: 1, Cap: CapButt, Join: JoinMiter}

// GradientStop is one color stop in a linear or radial gradient.
type GradientStop struct {
	Offset float64
	Color  Color
}

// FillKind tags which FillStyle variant is active.
type FillKind int

const (
	FillSolid FillKind = iota
	FillLinearGradient
	FillRadialGradient
)

// FillStyle is a tagged union over solid color, linear gradient, and radial
// gradient fills. The renderer degrades gradients to their first stop's
// color at tessellation time (spec §4.9): this type still carries full
// gradient data so authoring and document round-trips are lossless.
type FillStyle struct {
	Kind  FillKind
	Solid Color

	GradientStart, GradientEnd Point // linear
	GradientStops              []GradientStop

	RadialCenter Point // radial
	RadialRadius float64
}

// DefaultFillStyle matches the original schema's Default impl: solid white.
var DefaultFillStyle = FillStyle{Kind: FillSolid, Solid: ColorWhite}

// FirstStopColor returns the color the renderer should use when it degrades
// a gradient to a flat fill: the first stop's color for gradients, or the
// solid color itself.
func (f FillStyle) FirstStopColor() Color {
	switch f.Kind {
	case FillSolid:
		return f.Solid
	case FillLinearGradient, FillRadialGradient:
		if len(f.GradientStops) > 0 {
			return f.GradientStops[0].Color
		}
		return ColorWhite
	default:
		return ColorWhite
	}
}

// BaseObjectProperties are the fields common to every CanvasObject variant.
type BaseObjectProperties struct {
	ID            ObjectID
	PageID        PageID
	ParentID      *ObjectID
	LocalTransform Transform
	ZIndex        ZIndex
	Visible       bool
	Locked        bool
	Name          *string
}

// NewBaseObjectProperties builds a BaseObjectProperties with the spec's
// defaults: identity transform, DefaultZIndex, visible, unlocked.
func NewBaseObjectProperties(id ObjectID, pageID PageID) BaseObjectProperties {
	return BaseObjectProperties{
		ID:             id,
		PageID:         pageID,
		LocalTransform: Identity,
		ZIndex:         DefaultZIndex,
		Visible:        true,
	}
}

// RectangleShape is the Rectangle variant's geometry.
type RectangleShape struct {
	Base       BaseObjectProperties
	Width      float64
	Height     float64
	CornerRadius [4]float64 // top-left, top-right, bottom-right, bottom-left
	Fill       *FillStyle
	Stroke     *StrokeStyle
}

// EllipseShape is the Ellipse variant's geometry.
type EllipseShape struct {
	Base    BaseObjectProperties
	RadiusX float64
	RadiusY float64
	Fill    *FillStyle
	Stroke  *StrokeStyle
}

// LineShape is the Line variant's geometry. Unlike other shapes, a line's
// stroke is not optional: an unstroked line is invisible.
type LineShape struct {
	Base   BaseObjectProperties
	Start  Point
	End    Point
	Stroke StrokeStyle
}

// PolylineShape is an open or closed multi-point path.
type PolylineShape struct {
	Base   BaseObjectProperties
	Points []Point
	Closed bool
	Fill   *FillStyle
	Stroke *StrokeStyle
}

// PathShape carries an opaque path-data string (e.g. SVG path syntax); the
// renderer and hit-tester treat it as a black box beyond its bounding box.
type PathShape struct {
	Base     BaseObjectProperties
	PathData string
	Fill     *FillStyle
	Stroke   *StrokeStyle
}

// TextAlign is horizontal paragraph alignment.
type TextAlign int

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
	TextAlignJustify
)

// TextVerticalAlign is vertical alignment within the text box.
type TextVerticalAlign int

const (
	TextVAlignTop TextVerticalAlign = iota
	TextVAlignMiddle
	TextVAlignBottom
)

// FontStyle is normal or italic.
type FontStyle int

const (
	FontStyleNormal FontStyle = iota
	FontStyleItalic
)

// TextShape is the Text variant. Editing is limited to monospace glyph
// layout (spec.md §1 Non-goals); this type still carries full typography
// fields so a richer layout engine can be swapped in later without a
// schema change.
type TextShape struct {
	Base           BaseObjectProperties
	Content        string
	Width          float64
	Height         float64
	FontFamily     string
	FontSize       float64
	FontWeight     uint16
	FontStyle      FontStyle
	LineHeight     float64
	LetterSpacing  float64
	TextAlign      TextAlign
	VerticalAlign  TextVerticalAlign
	Fill           Color
}

// ImageCrop restricts an ImageShape to a sub-rectangle of its source.
type ImageCrop struct {
	X, Y, Width, Height float64
}

// ImageShape references an external raster image by source string; decode
// and caching are the renderer/host's concern.
type ImageShape struct {
	Base           BaseObjectProperties
	Width          float64
	Height         float64
	Src            string
	OriginalWidth  float64
	OriginalHeight float64
	Crop           *ImageCrop
}

// GroupShape is a non-owning container: membership lives only in Children,
// and descendants are resolved by looking each child ID up in the document.
type GroupShape struct {
	Base        BaseObjectProperties
	Children    []ObjectID
	ClipContent bool
}

// CanvasObject is the tagged-variant wrapper over every shape kind. Exactly
// one of the pointer fields is non-nil, matching Shape.
type CanvasObject struct {
	Shape    ShapeType
	Rectangle *RectangleShape
	Ellipse   *EllipseShape
	Line      *LineShape
	Polyline  *PolylineShape
	Path      *PathShape
	Text      *TextShape
	Image     *ImageShape
	Group     *GroupShape
}

// Base returns the common properties of whichever variant is set, avoiding
// an inheritance hierarchy in favor of a single dispatch point (spec §9).
func (c *CanvasObject) Base() *BaseObjectProperties {
	switch c.Shape {
	case ShapeRectangle:
		return &c.Rectangle.Base
	case ShapeEllipse:
		return &c.Ellipse.Base
	case ShapeLine:
		return &c.Line.Base
	case ShapePolyline:
		return &c.Polyline.Base
	case ShapePath:
		return &c.Path.Base
	case ShapeText:
		return &c.Text.Base
	case ShapeImage:
		return &c.Image.Base
	case ShapeGroup:
		return &c.Group.Base
	default:
		return nil
	}
}
