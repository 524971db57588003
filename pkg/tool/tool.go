package tool

import (
	"fmt"

	"github.com/matzehuels/a9s/pkg/geom"
)

// LayerKind tells a renderer what a layer is used for, so that it can pick
// classes and pointer behavior.
type LayerKind int

const (
	// LayerAnnotation displays a stored annotation.
	LayerAnnotation LayerKind = iota
	// LayerSelection is the transient rubberband placeholder.
	LayerSelection
	// LayerEditor is a shape in edit mode, with handles.
	LayerEditor
)

func (k LayerKind) String() string {
	switch k {
	case LayerSelection:
		return "selection"
	case LayerEditor:
		return "editor"
	}
	return "annotation"
}

// Renderer creates layers on a rendering surface.
type Renderer interface {
	NewLayer(kind LayerKind) Layer
}

// Layer is the rendered representation of one shape: its body, the mask
// that highlights the region outside it, and optional handle markers.
// A layer is owned by exactly one tool or editor.
type Layer interface {
	// Rect draws or updates a rectangular body and mask.
	Rect(r geom.Rect)

	// Polygon draws or updates a polygonal body and mask. Implementations
	// must copy points if they keep them.
	Polygon(points []geom.Point)

	// Handle draws or moves handle i. Handles are created on first use.
	Handle(i int, p geom.Point)

	// Handles keeps handles 0..n-1 and removes every handle at index n or
	// above.
	Handles(n int)

	// Show toggles visibility.
	Show(visible bool)

	// Remove tears down every element of the layer. Further calls are no-ops.
	Remove()
}

// CoordinateMapper converts raw device coordinates into image space.
// [geom.Viewport] implements it.
type CoordinateMapper interface {
	ToImageSpace(dx, dy float64) geom.Point
}

// Control identifies the part of a shape a pointer can grab.
type Control int

const (
	// ControlNone means no control is grabbed or hit.
	ControlNone Control = -2
	// ControlBody is the shape body; dragging it translates the shape.
	ControlBody Control = -1
)

// Handle returns the control of handle i (a corner or vertex index).
func Handle(i int) Control { return Control(i) }

// IsHandle reports whether c addresses a handle.
func (c Control) IsHandle() bool { return c >= 0 }

func (c Control) String() string {
	switch {
	case c == ControlNone:
		return "none"
	case c == ControlBody:
		return "body"
	case c.IsHandle():
		return fmt.Sprintf("handle:%d", int(c))
	}
	return fmt.Sprintf("control(%d)", int(c))
}

// grabState is the transient state of one pointer interaction.
type grabState struct {
	control Control
	offset  geom.Point // pointer minus grabbed point at grab time
	anchor  geom.Point // fixed opposite corner for rectangle handle drags
}

var noGrab = grabState{control: ControlNone}

// listeners is a synchronous, ordered callback list.
type listeners struct {
	next int
	fns  []listener
}

type listener struct {
	id int
	fn func(geom.Geometry)
}

func (l *listeners) add(fn func(geom.Geometry)) func() {
	l.next++
	id := l.next
	l.fns = append(l.fns, listener{id: id, fn: fn})
	return func() { l.remove(id) }
}

// remove rebuilds the slice so that an emit in progress keeps iterating
// over the previous one.
func (l *listeners) remove(id int) {
	fns := make([]listener, 0, len(l.fns))
	for _, f := range l.fns {
		if f.id != id {
			fns = append(fns, f)
		}
	}
	l.fns = fns
}

func (l *listeners) emit(g geom.Geometry) {
	for _, f := range l.fns {
		f.fn(g)
	}
}

func (l *listeners) clear() { l.fns = nil }

// DefaultHandleRadius is the hit radius of handles in image pixels.
const DefaultHandleRadius = 6.0

// Option configures an editor.
type Option func(*options)

type options struct {
	handleRadius float64
}

// WithHandleRadius sets the hit radius of handles in image pixels.
func WithHandleRadius(r float64) Option {
	return func(o *options) {
		if r > 0 {
			o.handleRadius = r
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{handleRadius: DefaultHandleRadius}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
