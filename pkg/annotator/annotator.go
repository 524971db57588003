package annotator

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/a9s/pkg/annotation"
	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/selector"
	"github.com/matzehuels/a9s/pkg/tool"
)

// DrawingMode selects how pointer events start and finish a drawing.
type DrawingMode string

const (
	// ModeDrag starts on press and finishes on release.
	ModeDrag DrawingMode = "drag"
	// ModeClick starts on the first click and finishes on the next one.
	ModeClick DrawingMode = "click"
)

// Filter decides whether an annotation is displayed.
type Filter func(annotation.Annotation) bool

// Option configures an Annotator.
type Option func(*Annotator)

// WithMapper sets the device-to-image coordinate mapper. The default is
// geom.Identity.
func WithMapper(m tool.CoordinateMapper) Option {
	return func(a *Annotator) { a.mapper = m }
}

// WithImage sets the image context used to parse and serialize selectors.
func WithImage(img selector.ImageContext) Option {
	return func(a *Annotator) { a.img = img }
}

// WithRegistry replaces the default tool registry.
func WithRegistry(r *tool.Registry) Option {
	return func(a *Annotator) { a.registry = r }
}

// WithLogger sets the logger. Rejected grabs and dropped events are logged
// at debug level.
func WithLogger(l *log.Logger) Option {
	return func(a *Annotator) { a.logger = l }
}

// WithDrawingMode sets the initial drawing mode.
func WithDrawingMode(m DrawingMode) Option {
	return func(a *Annotator) { a.mode = m }
}

// WithHandleRadius sets the handle hit radius of editors.
func WithHandleRadius(r float64) Option {
	return func(a *Annotator) { a.handleRadius = r }
}

// WithUser sets the creator stamped on new annotations.
func WithUser(u *annotation.User) Option {
	return func(a *Annotator) { a.user = u }
}

// entry is one annotation with its display layer.
type entry struct {
	ann   annotation.Annotation
	geom  geom.Geometry
	layer tool.Layer
}

// Annotator manages annotations on one source image.
type Annotator struct {
	renderer     tool.Renderer
	mapper       tool.CoordinateMapper
	img          selector.ImageContext
	source       string
	registry     *tool.Registry
	logger       *log.Logger
	handleRadius float64
	user         *annotation.User

	entries map[string]*entry
	order   []string
	filter  Filter
	visible bool

	drawingEnabled bool
	mode           DrawingMode
	toolName       string
	drawing        tool.DrawingTool

	selected     string
	editor       tool.EditableShape
	editorCancel func()
	editMoved    bool
	editBefore   annotation.Annotation

	pressed bool
	clicked string

	observers observers
	destroyed bool
}

// New returns an annotator for source rendering on r.
func New(source string, r tool.Renderer, opts ...Option) *Annotator {
	a := &Annotator{
		renderer:       r,
		mapper:         geom.Identity,
		source:         source,
		logger:         log.Default(),
		handleRadius:   tool.DefaultHandleRadius,
		entries:        make(map[string]*entry),
		visible:        true,
		drawingEnabled: true,
		mode:           ModeDrag,
		toolName:       tool.ToolRectangle,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.registry == nil {
		a.registry = tool.NewRegistry()
	}
	return a
}

// Source returns the annotated source.
func (a *Annotator) Source() string { return a.source }

// Image returns the image context.
func (a *Annotator) Image() selector.ImageContext { return a.img }

// On registers an observer and returns a function that removes it.
func (a *Annotator) On(fn Observer) (cancel func()) {
	return a.observers.add(fn)
}

func (a *Annotator) emit(ev Event) {
	a.observers.emit(ev)
}

// =============================================================================
// Annotation set
// =============================================================================

// SetAnnotations replaces all annotations. The selection is cleared.
func (a *Annotator) SetAnnotations(list []annotation.Annotation) error {
	if a.destroyed {
		return nil
	}
	parsed := make([]*entry, 0, len(list))
	for _, ann := range list {
		g, err := ann.Geometry(a.img)
		if err != nil {
			return errors.Wrap(errors.GetCode(err), err, "annotation %s", ann.ID)
		}
		parsed = append(parsed, &entry{ann: ann.Clone(), geom: g})
	}

	a.CancelSelected()
	for _, id := range a.order {
		a.entries[id].layer.Remove()
	}
	a.entries = make(map[string]*entry, len(parsed))
	a.order = a.order[:0]
	for _, e := range parsed {
		a.insert(e)
	}
	return nil
}

// Annotations returns all annotations in insertion order.
func (a *Annotator) Annotations() []annotation.Annotation {
	out := make([]annotation.Annotation, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.entries[id].ann.Clone())
	}
	return out
}

// Annotation returns the annotation with the given ID.
func (a *Annotator) Annotation(id string) (annotation.Annotation, bool) {
	e, ok := a.entries[id]
	if !ok {
		return annotation.Annotation{}, false
	}
	return e.ann.Clone(), true
}

// AddAnnotation adds ann. An existing ID is an INVALID_INPUT error.
func (a *Annotator) AddAnnotation(ann annotation.Annotation) error {
	if a.destroyed {
		return nil
	}
	if _, ok := a.entries[ann.ID]; ok {
		return errors.New(errors.ErrCodeInvalidInput, "annotation %q already exists", ann.ID)
	}
	g, err := ann.Geometry(a.img)
	if err != nil {
		return err
	}
	a.insert(&entry{ann: ann.Clone(), geom: g})
	return nil
}

// UpdateAnnotation replaces an existing annotation. If it is selected, the
// open editor is resized to the new geometry.
func (a *Annotator) UpdateAnnotation(ann annotation.Annotation) error {
	if a.destroyed {
		return nil
	}
	e, ok := a.entries[ann.ID]
	if !ok {
		return errors.New(errors.ErrCodeAnnotationNotFound, "annotation %q not found", ann.ID)
	}
	g, err := ann.Geometry(a.img)
	if err != nil {
		return err
	}

	if ann.ID == a.selected && a.editor != nil {
		if g.ShapeType() != e.geom.ShapeType() {
			a.CancelSelected()
		} else if err := a.editor.Resize(g); err != nil {
			return err
		}
	}
	e.ann, e.geom = ann.Clone(), g
	a.draw(e)
	return nil
}

// RemoveAnnotation removes an annotation. Removing the selected annotation
// clears the selection.
func (a *Annotator) RemoveAnnotation(id string) error {
	if a.destroyed {
		return nil
	}
	e, ok := a.entries[id]
	if !ok {
		return errors.New(errors.ErrCodeAnnotationNotFound, "annotation %q not found", id)
	}
	if id == a.selected {
		a.CancelSelected()
	}
	e.layer.Remove()
	delete(a.entries, id)
	a.order = slices.DeleteFunc(a.order, func(x string) bool { return x == id })
	return nil
}

// DeleteSelected removes the selected annotation as a user action and
// emits deleteAnnotation.
func (a *Annotator) DeleteSelected() bool {
	if a.destroyed || a.selected == "" {
		return false
	}
	ann := a.entries[a.selected].ann.Clone()
	_ = a.RemoveAnnotation(ann.ID)
	a.emit(Event{Type: EventDelete, Annotation: ann})
	return true
}

// SetFilter sets the display filter; nil shows everything. A selected
// annotation that is filtered out is deselected.
func (a *Annotator) SetFilter(f Filter) {
	a.filter = f
	if a.selected != "" && !a.shown(a.entries[a.selected].ann) {
		a.CancelSelected()
	}
	for _, id := range a.order {
		a.draw(a.entries[id])
	}
}

// SetVisible shows or hides all annotations. Hiding clears the selection.
func (a *Annotator) SetVisible(visible bool) {
	a.visible = visible
	if !visible {
		a.CancelSelected()
	}
	for _, id := range a.order {
		a.draw(a.entries[id])
	}
}

func (a *Annotator) shown(ann annotation.Annotation) bool {
	return a.visible && (a.filter == nil || a.filter(ann))
}

func (a *Annotator) insert(e *entry) {
	e.layer = a.renderer.NewLayer(tool.LayerAnnotation)
	a.entries[e.ann.ID] = e
	a.order = append(a.order, e.ann.ID)
	a.draw(e)
}

// draw renders a display layer. The selected annotation is drawn by its
// editor, so its display layer stays hidden.
func (a *Annotator) draw(e *entry) {
	if a.destroyed {
		return
	}
	drawShape(e.layer, e.geom)
	e.layer.Show(e.ann.ID != a.selected && a.shown(e.ann))
}

func drawShape(l tool.Layer, g geom.Geometry) {
	switch s := g.(type) {
	case geom.Rect:
		l.Rect(s)
	case geom.Polygon:
		l.Polygon(s.Points)
	}
}

// hit returns the topmost displayed annotation containing p.
func (a *Annotator) hit(p geom.Point) string {
	for i := len(a.order) - 1; i >= 0; i-- {
		e := a.entries[a.order[i]]
		if a.shown(e.ann) && e.geom.Contains(p) {
			return e.ann.ID
		}
	}
	return ""
}

// Destroy removes every layer and observer. Later calls are no-ops.
func (a *Annotator) Destroy() {
	if a.destroyed {
		return
	}
	a.cancelDrawing()
	if a.editor != nil {
		a.closeEditor()
	}
	for _, id := range a.order {
		a.entries[id].layer.Remove()
	}
	a.entries = map[string]*entry{}
	a.order = nil
	a.observers = observers{}
	a.destroyed = true
}
