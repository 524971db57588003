package tool

import (
	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/observability"
)

// EditableRect edits a rectangle through its body and four corner handles.
// Handle i sits on corner geom.Corner(i).
type EditableRect struct {
	layer     Layer
	rect      geom.Rect
	grab      grabState
	updates   listeners
	radius    float64
	destroyed bool
}

var _ EditableShape = (*EditableRect)(nil)

// NewEditableRect renders r on layer and returns its editor.
func NewEditableRect(r geom.Rect, layer Layer, opts ...Option) (*EditableRect, error) {
	if err := r.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "editable rectangle")
	}
	o := applyOptions(opts)
	e := &EditableRect{
		layer:  layer,
		rect:   r,
		grab:   noGrab,
		radius: o.handleRadius,
	}
	e.render()
	layer.Show(true)
	return e, nil
}

// Rect returns the current rectangle.
func (e *EditableRect) Rect() geom.Rect { return e.rect }

// Geometry implements EditableShape.
func (e *EditableRect) Geometry() geom.Geometry { return e.rect }

// Grabbed implements EditableShape.
func (e *EditableRect) Grabbed() Control { return e.grab.control }

// Grab implements EditableShape. For the body the offset is taken from the
// rectangle origin; for a handle it is taken from its corner, and the
// opposite corner becomes the fixed anchor of the drag.
func (e *EditableRect) Grab(c Control, p geom.Point) error {
	if e.destroyed {
		return nil
	}
	if e.grab.control != ControlNone {
		return errors.New(errors.ErrCodeInvalidGrab, "%v is already grabbed", e.grab.control)
	}

	switch corner := geom.Corner(c); {
	case c == ControlBody:
		e.grab = grabState{control: c, offset: p.Sub(e.rect.Origin())}
	case c.IsHandle() && corner.Valid():
		e.grab = grabState{
			control: c,
			offset:  p.Sub(e.rect.Corner(corner)),
			anchor:  e.rect.Corner(corner.Opposite()),
		}
	default:
		return errors.New(errors.ErrCodeInvalidGrab, "rectangle has no control %v", c)
	}

	observability.Tool().OnGrab(string(geom.ShapeRectangle), c.String())
	return nil
}

// Move implements EditableShape.
func (e *EditableRect) Move(p geom.Point) {
	if e.destroyed || e.grab.control == ControlNone {
		return
	}

	if e.grab.control == ControlBody {
		e.rect.X = p.X - e.grab.offset.X
		e.rect.Y = p.Y - e.grab.offset.Y
	} else {
		e.rect = geom.Normalize(p.Sub(e.grab.offset), e.grab.anchor)
	}

	e.render()
	e.updates.emit(e.rect)
}

// Release implements EditableShape.
func (e *EditableRect) Release() {
	if e.grab.control == ControlNone {
		return
	}
	e.grab = noGrab
	if !e.destroyed {
		observability.Tool().OnRelease(string(geom.ShapeRectangle))
	}
}

// Resize implements EditableShape. A handle drag in progress keeps going
// with the opposite corner of the new rectangle as its anchor.
func (e *EditableRect) Resize(g geom.Geometry) error {
	var r geom.Rect
	switch s := g.(type) {
	case geom.Rect:
		r = s
	case *geom.Rect:
		r = *s
	default:
		return errors.New(errors.ErrCodeInvalidGeometry, "rectangle editor cannot take %T", g)
	}
	if err := r.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidGeometry, err, "resize rectangle")
	}
	if e.destroyed {
		return nil
	}

	e.rect = r
	if e.grab.control.IsHandle() {
		e.grab.anchor = r.Corner(geom.Corner(e.grab.control).Opposite())
	}
	e.render()
	return nil
}

// Destroy implements EditableShape.
func (e *EditableRect) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.grab = noGrab
	e.updates.clear()
	e.layer.Remove()
}

// HitTest implements EditableShape.
func (e *EditableRect) HitTest(p geom.Point) Control {
	if e.destroyed {
		return ControlNone
	}
	corners := e.rect.Corners()
	for i := range corners {
		if corners[i].Dist(p) <= e.radius {
			return Handle(i)
		}
	}
	if e.rect.Contains(p) {
		return ControlBody
	}
	return ControlNone
}

// OnUpdate implements EditableShape.
func (e *EditableRect) OnUpdate(fn func(geom.Geometry)) func() {
	return e.updates.add(fn)
}

// render redraws body, mask and all four handles from the current rectangle.
func (e *EditableRect) render() {
	e.layer.Rect(e.rect)
	corners := e.rect.Corners()
	for i := range corners {
		e.layer.Handle(i, corners[i])
	}
}
