package annotator

import (
	"github.com/matzehuels/a9s/pkg/annotation"
	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/tool"
)

// Select puts the annotation into edit mode, replacing any previous
// selection, and emits selectionChanged.
func (a *Annotator) Select(id string) error {
	if a.destroyed {
		return nil
	}
	e, ok := a.entries[id]
	if !ok {
		return errors.New(errors.ErrCodeAnnotationNotFound, "annotation %q not found", id)
	}
	if id == a.selected {
		return nil
	}
	if a.editor != nil {
		a.closeEditor()
	}

	layer := a.renderer.NewLayer(tool.LayerEditor)
	ed, err := a.registry.NewEditable(e.geom, layer, tool.WithHandleRadius(a.handleRadius))
	if err != nil {
		layer.Remove()
		a.draw(e)
		return err
	}

	a.selected = id
	a.editor = ed
	a.editMoved = false
	a.editorCancel = ed.OnUpdate(func(g geom.Geometry) { a.onEdit(id, g) })
	a.draw(e)
	a.emit(Event{Type: EventSelectionChanged, Annotation: e.ann.Clone()})
	return nil
}

// Selected returns the selected annotation.
func (a *Annotator) Selected() (annotation.Annotation, bool) {
	if a.selected == "" {
		return annotation.Annotation{}, false
	}
	return a.entries[a.selected].ann.Clone(), true
}

// CancelSelected leaves edit mode and emits selectionChanged with an empty
// annotation. It does nothing when nothing is selected.
func (a *Annotator) CancelSelected() {
	if a.destroyed || a.selected == "" {
		return
	}
	a.closeEditor()
	a.emit(Event{Type: EventSelectionChanged})
}

// closeEditor tears down the editor and shows the display layer again. An
// edit still grabbed is committed first.
func (a *Annotator) closeEditor() {
	if a.editor.Grabbed() != tool.ControlNone {
		a.editor.Release()
		a.commitEdit()
	}
	a.editorCancel()
	a.editor.Destroy()
	id := a.selected
	a.editor, a.editorCancel, a.selected = nil, nil, ""
	if e, ok := a.entries[id]; ok {
		a.draw(e)
	}
}

// onEdit tracks live geometry from the editor. Lifecycle observers hear
// about it on release.
func (a *Annotator) onEdit(id string, g geom.Geometry) {
	e, ok := a.entries[id]
	if !ok {
		return
	}
	next, err := e.ann.WithGeometry(g, a.img)
	if err != nil {
		a.logger.Debug("dropping edit", "id", id, "err", err)
		return
	}
	if !a.editMoved {
		a.editBefore = e.ann.Clone()
		a.editMoved = true
	}
	e.ann, e.geom = next, g
	drawShape(e.layer, g)
}

// commitEdit emits updateAnnotation for a finished edit that moved.
func (a *Annotator) commitEdit() {
	if !a.editMoved {
		return
	}
	a.editMoved = false
	prev := a.editBefore
	a.emit(Event{Type: EventUpdate, Annotation: a.entries[a.selected].ann.Clone(), Previous: &prev})
}
