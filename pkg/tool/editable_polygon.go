package tool

import (
	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/observability"
)

// EditablePolygon edits a polygon through its body and one handle per
// vertex. A handle drag moves its vertex; a body drag translates all of
// them.
type EditablePolygon struct {
	layer     Layer
	poly      geom.Polygon
	start     []geom.Point // vertices at grab time, for body drags
	last      geom.Point   // last pointer position of the current grab
	grab      grabState
	updates   listeners
	radius    float64
	destroyed bool
}

var _ EditableShape = (*EditablePolygon)(nil)

// NewEditablePolygon renders p on layer and returns its editor. The editor
// works on its own copy of the vertices.
func NewEditablePolygon(p geom.Polygon, layer Layer, opts ...Option) (*EditablePolygon, error) {
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "editable polygon")
	}
	o := applyOptions(opts)
	e := &EditablePolygon{
		layer:  layer,
		poly:   p.Clone(),
		grab:   noGrab,
		radius: o.handleRadius,
	}
	e.render()
	layer.Show(true)
	return e, nil
}

// Geometry implements EditableShape. The returned polygon is a copy.
func (e *EditablePolygon) Geometry() geom.Geometry { return e.poly.Clone() }

// Grabbed implements EditableShape.
func (e *EditablePolygon) Grabbed() Control { return e.grab.control }

// Grab implements EditableShape.
func (e *EditablePolygon) Grab(c Control, p geom.Point) error {
	if e.destroyed {
		return nil
	}
	if e.grab.control != ControlNone {
		return errors.New(errors.ErrCodeInvalidGrab, "%v is already grabbed", e.grab.control)
	}

	switch {
	case c == ControlBody:
		e.start = append(e.start[:0], e.poly.Points...)
		e.grab = grabState{control: c, offset: p}
		e.last = p
	case c.IsHandle() && int(c) < len(e.poly.Points):
		e.grab = grabState{control: c, offset: p.Sub(e.poly.Points[c])}
	default:
		return errors.New(errors.ErrCodeInvalidGrab, "polygon has no control %v", c)
	}

	observability.Tool().OnGrab(string(geom.ShapePolygon), c.String())
	return nil
}

// Move implements EditableShape.
func (e *EditablePolygon) Move(p geom.Point) {
	if e.destroyed || e.grab.control == ControlNone {
		return
	}

	if e.grab.control == ControlBody {
		d := p.Sub(e.grab.offset)
		for i, pt := range e.start {
			e.poly.Points[i] = pt.Add(d)
		}
	} else {
		e.poly.Points[e.grab.control] = p.Sub(e.grab.offset)
	}
	e.last = p

	e.render()
	e.updates.emit(e.poly.Clone())
}

// Release implements EditableShape.
func (e *EditablePolygon) Release() {
	if e.grab.control == ControlNone {
		return
	}
	e.grab = noGrab
	if !e.destroyed {
		observability.Tool().OnRelease(string(geom.ShapePolygon))
	}
}

// Resize implements EditableShape. An active grab is dropped if the vertex
// it addressed no longer exists.
func (e *EditablePolygon) Resize(g geom.Geometry) error {
	var p geom.Polygon
	switch s := g.(type) {
	case geom.Polygon:
		p = s
	case *geom.Polygon:
		p = *s
	default:
		return errors.New(errors.ErrCodeInvalidGeometry, "polygon editor cannot take %T", g)
	}
	if err := p.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidGeometry, err, "resize polygon")
	}
	if e.destroyed {
		return nil
	}

	e.poly = p.Clone()
	switch c := e.grab.control; {
	case c == ControlBody:
		e.start = append(e.start[:0], e.poly.Points...)
		e.grab.offset = e.last
	case c.IsHandle() && int(c) >= len(e.poly.Points):
		e.grab = noGrab
	}
	e.render()
	return nil
}

// Destroy implements EditableShape.
func (e *EditablePolygon) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.grab = noGrab
	e.updates.clear()
	e.layer.Remove()
}

// HitTest implements EditableShape.
func (e *EditablePolygon) HitTest(p geom.Point) Control {
	if e.destroyed {
		return ControlNone
	}
	for i, pt := range e.poly.Points {
		if pt.Dist(p) <= e.radius {
			return Handle(i)
		}
	}
	if e.poly.Contains(p) {
		return ControlBody
	}
	return ControlNone
}

// OnUpdate implements EditableShape.
func (e *EditablePolygon) OnUpdate(fn func(geom.Geometry)) func() {
	return e.updates.add(fn)
}

func (e *EditablePolygon) render() {
	e.layer.Polygon(e.poly.Points)
	for i, pt := range e.poly.Points {
		e.layer.Handle(i, pt)
	}
	e.layer.Handles(len(e.poly.Points))
}
