package tool

import (
	"slices"
	"sync"

	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/selector"
)

// Built-in drawing tool names.
const (
	ToolRectangle = "rectangle"
	ToolPolygon   = "polygon"
)

// DrawingToolFactory creates a fresh drawing tool on layer. Selections are
// serialized in img.
type DrawingToolFactory func(layer Layer, img selector.ImageContext) DrawingTool

// EditorFactory creates an editor for g on layer.
type EditorFactory func(g geom.Geometry, layer Layer, opts ...Option) (EditableShape, error)

// Registry maps tool names to drawing tool factories and shape types to
// editor factories. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]DrawingToolFactory
	aliases map[string]string
	editors map[geom.ShapeType]EditorFactory
}

// NewRegistry returns a registry with the rectangle and polygon tools and
// editors installed.
func NewRegistry() *Registry {
	r := &Registry{
		tools:   make(map[string]DrawingToolFactory),
		aliases: map[string]string{"rect": ToolRectangle, "box": ToolRectangle, "poly": ToolPolygon},
		editors: make(map[geom.ShapeType]EditorFactory),
	}
	r.RegisterDrawingTool(ToolRectangle, func(l Layer, img selector.ImageContext) DrawingTool {
		return NewRubberbandRect(l, img)
	})
	r.RegisterDrawingTool(ToolPolygon, func(l Layer, _ selector.ImageContext) DrawingTool {
		return NewRubberbandPolygon(l)
	})
	r.RegisterShapeEditor(geom.ShapeRectangle, NewEditable)
	r.RegisterShapeEditor(geom.ShapePolygon, NewEditable)
	return r
}

// RegisterDrawingTool installs or replaces the tool called name.
func (r *Registry) RegisterDrawingTool(name string, f DrawingToolFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[name] = f
}

// RegisterShapeEditor installs or replaces the editor for shape type t.
func (r *Registry) RegisterShapeEditor(t geom.ShapeType, f EditorFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.editors[t] = f
}

// HasDrawingTool reports whether name (or one of its aliases) is registered.
func (r *Registry) HasDrawingTool(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[r.alias(name)]
	return ok
}

// NewDrawingTool creates the tool called name. Unknown names fail with
// UNKNOWN_TOOL.
func (r *Registry) NewDrawingTool(name string, layer Layer, img selector.ImageContext) (DrawingTool, error) {
	r.mu.RLock()
	f, ok := r.tools[r.alias(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownTool, "unknown drawing tool %q (available: %v)", name, r.DrawingTools())
	}
	return f(layer, img), nil
}

// DrawingTools returns the registered tool names in sorted order.
func (r *Registry) DrawingTools() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewEditable creates the editor registered for g's shape type.
func (r *Registry) NewEditable(g geom.Geometry, layer Layer, opts ...Option) (EditableShape, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "no geometry")
	}
	r.mu.RLock()
	f, ok := r.editors[g.ShapeType()]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "no editor for shape type %s", g.ShapeType())
	}
	return f(g, layer, opts...)
}

func (r *Registry) alias(name string) string {
	if v, ok := r.aliases[name]; ok {
		return v
	}
	return name
}
