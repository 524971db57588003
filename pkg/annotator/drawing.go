package annotator

import (
	"github.com/matzehuels/a9s/pkg/annotation"
	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/tool"
)

// SetDrawingEnabled turns drawing on or off. Turning it off cancels a
// drawing in progress.
func (a *Annotator) SetDrawingEnabled(enabled bool) {
	a.drawingEnabled = enabled
	if !enabled {
		a.cancelDrawing()
	}
}

// DrawingEnabled reports whether drawing is on.
func (a *Annotator) DrawingEnabled() bool { return a.drawingEnabled }

// SetDrawingMode switches between drag and click drawing. A drawing in
// progress is cancelled.
func (a *Annotator) SetDrawingMode(m DrawingMode) error {
	if m != ModeDrag && m != ModeClick {
		return errors.New(errors.ErrCodeInvalidInput, "unknown drawing mode %q", m)
	}
	a.cancelDrawing()
	a.mode = m
	return nil
}

// DrawingMode returns the drawing mode.
func (a *Annotator) DrawingMode() DrawingMode { return a.mode }

// SetDrawingTool selects the tool for new drawings. Unknown names fail with
// UNKNOWN_TOOL and leave the current tool in place.
func (a *Annotator) SetDrawingTool(name string) error {
	if !a.registry.HasDrawingTool(name) {
		return errors.New(errors.ErrCodeUnknownTool, "unknown drawing tool %q (available: %v)", name, a.registry.DrawingTools())
	}
	a.cancelDrawing()
	a.toolName = name
	return nil
}

// DrawingTool returns the selected tool name.
func (a *Annotator) DrawingTool() string { return a.toolName }

// ListDrawingTools returns the registered tool names.
func (a *Annotator) ListDrawingTools() []string { return a.registry.DrawingTools() }

// RegisterDrawingTool adds a tool to this annotator's registry.
func (a *Annotator) RegisterDrawingTool(name string, f tool.DrawingToolFactory) {
	a.registry.RegisterDrawingTool(name, f)
}

// Drawing reports whether a drawing is in progress.
func (a *Annotator) Drawing() bool {
	if a.drawing == nil {
		return false
	}
	s := a.drawing.State()
	return s == tool.StateAnchored || s == tool.StateDragging
}

// FinishDrawing finalizes the drawing in progress, which is how polygons
// are closed. It fails with INVALID_STATE when nothing is being drawn.
func (a *Annotator) FinishDrawing() (annotation.Annotation, error) {
	if !a.Drawing() {
		return annotation.Annotation{}, errors.New(errors.ErrCodeInvalidState, "no drawing in progress")
	}
	return a.finishDrawing()
}

// CancelDrawing aborts the drawing in progress.
func (a *Annotator) CancelDrawing() { a.cancelDrawing() }

func (a *Annotator) newDrawingTool() tool.DrawingTool {
	layer := a.renderer.NewLayer(tool.LayerSelection)
	t, err := a.registry.NewDrawingTool(a.toolName, layer, a.img)
	if err != nil {
		layer.Remove()
		a.logger.Debug("cannot create drawing tool", "tool", a.toolName, "err", err)
		return nil
	}
	return t
}

// finishDrawing finalizes the tool, creates the annotation and selects it.
// A failed finalize (e.g. too few polygon vertices) keeps the tool drawing.
func (a *Annotator) finishDrawing() (annotation.Annotation, error) {
	sel, err := a.drawing.Finalize()
	if err != nil {
		return annotation.Annotation{}, err
	}
	a.drawing.Destroy()
	a.drawing = nil

	ann := annotation.New(a.source, sel.Selector)
	if a.user != nil {
		u := *a.user
		ann.Creator = &u
	}
	a.insert(&entry{ann: ann, geom: sel.Geometry})
	a.emit(Event{Type: EventCreate, Annotation: ann.Clone()})
	if err := a.Select(ann.ID); err != nil {
		a.logger.Debug("cannot select new annotation", "id", ann.ID, "err", err)
	}
	return ann.Clone(), nil
}

func (a *Annotator) cancelDrawing() {
	if a.drawing == nil {
		return
	}
	a.drawing.Cancel()
	a.drawing = nil
}
