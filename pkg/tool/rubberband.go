package tool

import (
	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/observability"
	"github.com/matzehuels/a9s/pkg/selector"
)

// DrawState is the lifecycle state of a drawing tool.
type DrawState int

const (
	StateIdle DrawState = iota
	StateAnchored
	StateDragging
	StateFinalized
	StateCancelled
)

func (s DrawState) String() string {
	switch s {
	case StateAnchored:
		return "anchored"
	case StateDragging:
		return "dragging"
	case StateFinalized:
		return "finalized"
	case StateCancelled:
		return "cancelled"
	}
	return "idle"
}

// Selection is the result of a finished drawing: the geometry and its
// persisted selector.
type Selection struct {
	Geometry geom.Geometry     `json:"geometry"`
	Selector selector.Selector `json:"selector"`
}

// DrawingTool is a transient tool that draws one new shape.
type DrawingTool interface {
	// Name is the registry name of the tool.
	Name() string

	// Start anchors the drawing at p. It fails with INVALID_STATE unless
	// the tool is idle.
	Start(p geom.Point) error

	// DragTo moves the free end of the drawing to p. It is ignored when the
	// tool is not drawing.
	DragTo(p geom.Point)

	// Finalize ends the drawing and returns the selection.
	Finalize() (Selection, error)

	// Cancel aborts the drawing from any state and removes the placeholder.
	Cancel()

	// Destroy removes the placeholder layer without changing the state.
	// Callers use it after Finalize once the persisted shape is rendered.
	Destroy()

	// State returns the lifecycle state.
	State() DrawState

	// Geometry returns the shape drawn so far, or nil before Start.
	Geometry() geom.Geometry
}

// VertexTool is a DrawingTool that builds a shape from clicked vertices.
type VertexTool interface {
	DrawingTool
	AddPoint(p geom.Point) error
}

// =============================================================================
// Rectangle
// =============================================================================

// RubberbandRect draws a rectangle by dragging from an anchor point.
//
// The placeholder stays hidden until the first DragTo, so a plain click does
// not flash a zero-size shape. Finalize without any DragTo returns the 1x1
// box at the anchor; callers that want to treat that as a click check Moved.
type RubberbandRect struct {
	layer    Layer
	img      selector.ImageContext
	state    DrawState
	anchor   geom.Point
	opposite geom.Point
	rect     geom.Rect
	moved    bool
	removed  bool
}

var _ DrawingTool = (*RubberbandRect)(nil)

// NewRubberbandRect returns an idle rectangle tool drawing on layer. Its
// selections are serialized in img.
func NewRubberbandRect(layer Layer, img selector.ImageContext) *RubberbandRect {
	return &RubberbandRect{layer: layer, img: img}
}

// Name implements DrawingTool.
func (t *RubberbandRect) Name() string { return ToolRectangle }

// State implements DrawingTool.
func (t *RubberbandRect) State() DrawState { return t.state }

// Moved reports whether DragTo was called since Start.
func (t *RubberbandRect) Moved() bool { return t.moved }

// Geometry implements DrawingTool.
func (t *RubberbandRect) Geometry() geom.Geometry {
	if t.state == StateIdle {
		return nil
	}
	return t.rect
}

// Start implements DrawingTool.
func (t *RubberbandRect) Start(p geom.Point) error {
	if t.state != StateIdle {
		return errors.New(errors.ErrCodeInvalidState, "rectangle tool cannot start while %v", t.state)
	}
	t.anchor, t.opposite = p, p
	t.rect = geom.Normalize(p, p)
	t.layer.Rect(t.rect)
	t.layer.Show(false)
	t.state = StateAnchored
	observability.Tool().OnDrawStart(ToolRectangle)
	return nil
}

// DragTo implements DrawingTool.
func (t *RubberbandRect) DragTo(p geom.Point) {
	switch t.state {
	case StateAnchored:
		t.state = StateDragging
		t.moved = true
		t.layer.Show(true)
	case StateDragging:
	default:
		return
	}
	t.opposite = p
	t.rect = geom.Normalize(t.anchor, t.opposite)
	t.layer.Rect(t.rect)
}

// Finalize implements DrawingTool.
func (t *RubberbandRect) Finalize() (Selection, error) {
	if t.state != StateAnchored && t.state != StateDragging {
		return Selection{}, errors.New(errors.ErrCodeInvalidState, "rectangle tool cannot finalize while %v", t.state)
	}
	t.state = StateFinalized
	observability.Tool().OnDrawComplete(ToolRectangle, string(geom.ShapeRectangle))
	return Selection{
		Geometry: t.rect,
		Selector: selector.SerializeFragment(t.rect, t.img),
	}, nil
}

// Cancel implements DrawingTool.
func (t *RubberbandRect) Cancel() {
	if t.state == StateCancelled {
		return
	}
	if t.state == StateAnchored || t.state == StateDragging {
		observability.Tool().OnDrawCancel(ToolRectangle)
	}
	t.state = StateCancelled
	t.Destroy()
}

// Destroy implements DrawingTool.
func (t *RubberbandRect) Destroy() {
	if t.removed {
		return
	}
	t.removed = true
	t.layer.Remove()
}

// =============================================================================
// Polygon
// =============================================================================

// RubberbandPolygon draws a polygon from clicked vertices. Start places the
// first vertex, AddPoint appends one, and DragTo moves a floating vertex that
// follows the pointer until the next click.
type RubberbandPolygon struct {
	layer   Layer
	state   DrawState
	points  []geom.Point
	cursor  geom.Point
	removed bool
}

var _ VertexTool = (*RubberbandPolygon)(nil)

// NewRubberbandPolygon returns an idle polygon tool drawing on layer.
// Polygon selectors carry absolute pixels, so no image context is needed.
func NewRubberbandPolygon(layer Layer) *RubberbandPolygon {
	return &RubberbandPolygon{layer: layer}
}

// Name implements DrawingTool.
func (t *RubberbandPolygon) Name() string { return ToolPolygon }

// State implements DrawingTool.
func (t *RubberbandPolygon) State() DrawState { return t.state }

// Points returns a copy of the committed vertices.
func (t *RubberbandPolygon) Points() []geom.Point {
	return append([]geom.Point(nil), t.points...)
}

// Geometry implements DrawingTool. While dragging, the floating vertex is
// included.
func (t *RubberbandPolygon) Geometry() geom.Geometry {
	if t.state == StateIdle {
		return nil
	}
	return geom.Polygon{Points: t.outline()}
}

// Start implements DrawingTool.
func (t *RubberbandPolygon) Start(p geom.Point) error {
	if t.state != StateIdle {
		return errors.New(errors.ErrCodeInvalidState, "polygon tool cannot start while %v", t.state)
	}
	t.points = []geom.Point{p}
	t.cursor = p
	t.layer.Polygon(t.points)
	t.layer.Show(false)
	t.state = StateAnchored
	observability.Tool().OnDrawStart(ToolPolygon)
	return nil
}

// AddPoint implements VertexTool.
func (t *RubberbandPolygon) AddPoint(p geom.Point) error {
	if t.state != StateAnchored && t.state != StateDragging {
		return errors.New(errors.ErrCodeInvalidState, "polygon tool cannot add points while %v", t.state)
	}
	t.points = append(t.points, p)
	t.cursor = p
	t.redraw()
	return nil
}

// DragTo implements DrawingTool.
func (t *RubberbandPolygon) DragTo(p geom.Point) {
	switch t.state {
	case StateAnchored:
		t.state = StateDragging
		t.layer.Show(true)
	case StateDragging:
	default:
		return
	}
	t.cursor = p
	t.redraw()
}

// Finalize implements DrawingTool. The floating vertex is dropped; at least
// three committed vertices are required, otherwise the tool keeps drawing.
func (t *RubberbandPolygon) Finalize() (Selection, error) {
	if t.state != StateAnchored && t.state != StateDragging {
		return Selection{}, errors.New(errors.ErrCodeInvalidState, "polygon tool cannot finalize while %v", t.state)
	}
	poly := geom.Polygon{Points: t.Points()}
	if err := poly.Validate(); err != nil {
		return Selection{}, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "finalize polygon")
	}
	t.state = StateFinalized
	t.layer.Polygon(poly.Points)
	observability.Tool().OnDrawComplete(ToolPolygon, string(geom.ShapePolygon))
	return Selection{Geometry: poly, Selector: selector.SerializeSVG(poly)}, nil
}

// Cancel implements DrawingTool.
func (t *RubberbandPolygon) Cancel() {
	if t.state == StateCancelled {
		return
	}
	if t.state == StateAnchored || t.state == StateDragging {
		observability.Tool().OnDrawCancel(ToolPolygon)
	}
	t.state = StateCancelled
	t.Destroy()
}

// Destroy implements DrawingTool.
func (t *RubberbandPolygon) Destroy() {
	if t.removed {
		return
	}
	t.removed = true
	t.layer.Remove()
}

func (t *RubberbandPolygon) outline() []geom.Point {
	pts := t.Points()
	if t.state == StateDragging && t.cursor != pts[len(pts)-1] {
		pts = append(pts, t.cursor)
	}
	return pts
}

func (t *RubberbandPolygon) redraw() {
	t.layer.Polygon(t.outline())
}
