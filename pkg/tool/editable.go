package tool

import (
	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/geom"
)

// EditableShape is a persisted shape in edit mode.
//
// All methods are called from the UI event thread. After Destroy every
// method is a silent no-op, so late pointer events never fail.
type EditableShape interface {
	// Grab starts an interaction on control c at pointer position p.
	// It fails with INVALID_GRAB if a grab is already active or c is not a
	// control of this shape; the active grab is left untouched.
	Grab(c Control, p geom.Point) error

	// Move recomputes the geometry for pointer position p, redraws and
	// emits an update. It is a no-op without an active grab.
	Move(p geom.Point)

	// Release ends the active grab. It is idempotent and emits nothing.
	Release()

	// Resize replaces the geometry from outside (e.g. a store update)
	// without emitting an update.
	Resize(g geom.Geometry) error

	// Destroy removes the rendered layer.
	Destroy()

	// Geometry returns the current geometry.
	Geometry() geom.Geometry

	// Grabbed returns the grabbed control, or ControlNone.
	Grabbed() Control

	// HitTest returns the control under p, handles before body.
	HitTest(p geom.Point) Control

	// OnUpdate registers a listener for geometry updates and returns a
	// function that unregisters it.
	OnUpdate(fn func(geom.Geometry)) (cancel func())
}

// NewEditable creates the editor variant matching the geometry's shape type.
func NewEditable(g geom.Geometry, layer Layer, opts ...Option) (EditableShape, error) {
	switch s := g.(type) {
	case geom.Rect:
		return NewEditableRect(s, layer, opts...)
	case *geom.Rect:
		return NewEditableRect(*s, layer, opts...)
	case geom.Polygon:
		return NewEditablePolygon(s, layer, opts...)
	case *geom.Polygon:
		return NewEditablePolygon(*s, layer, opts...)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "no editor for geometry %T", g)
}
