package annotator

import (
	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/tool"
)

// PointerDown handles a press at device coordinates.
func (a *Annotator) PointerDown(dx, dy float64) {
	if a.destroyed {
		return
	}
	p := a.mapper.ToImageSpace(dx, dy)
	a.pressed = true
	a.clicked = ""

	if a.drawing != nil {
		return
	}

	if a.editor != nil {
		if c := a.editor.HitTest(p); c != tool.ControlNone {
			if err := a.editor.Grab(c, p); err != nil {
				a.logger.Debug("grab rejected", "control", c, "err", err)
			}
			return
		}
	}

	if id := a.hit(p); id != "" {
		a.clicked = id
		return
	}

	if a.selected != "" {
		a.CancelSelected()
		return
	}
	if !a.drawingEnabled {
		return
	}

	// Vertex tools and click mode start on release; drag mode starts here.
	a.drawing = a.newDrawingTool()
	if a.drawing != nil && a.mode == ModeDrag && !isVertexTool(a.drawing) {
		a.start(p)
	}
}

// PointerMove handles pointer motion at device coordinates, pressed or not.
func (a *Annotator) PointerMove(dx, dy float64) {
	if a.destroyed {
		return
	}
	p := a.mapper.ToImageSpace(dx, dy)

	switch {
	case a.editor != nil && a.editor.Grabbed() != tool.ControlNone:
		a.editor.Move(p)
	case a.Drawing():
		if a.pressed || a.mode == ModeClick || isVertexTool(a.drawing) {
			a.drawing.DragTo(p)
		}
	}
}

// PointerUp handles a release at device coordinates.
func (a *Annotator) PointerUp(dx, dy float64) {
	if a.destroyed || !a.pressed {
		return
	}
	p := a.mapper.ToImageSpace(dx, dy)
	a.pressed = false

	if a.editor != nil && a.editor.Grabbed() != tool.ControlNone {
		a.editor.Release()
		a.commitEdit()
		return
	}

	if id := a.clicked; id != "" {
		a.clicked = ""
		if e, ok := a.entries[id]; ok {
			a.emit(Event{Type: EventClick, Annotation: e.ann.Clone()})
			if err := a.Select(id); err != nil {
				a.logger.Debug("cannot select", "id", id, "err", err)
			}
		}
		return
	}

	if a.drawing == nil {
		return
	}
	switch {
	case a.drawing.State() == tool.StateIdle:
		a.start(p)
	case isVertexTool(a.drawing):
		if err := a.drawing.(tool.VertexTool).AddPoint(p); err != nil {
			a.logger.Debug("cannot add vertex", "err", err)
		}
	default:
		if a.mode == ModeClick {
			a.drawing.DragTo(p)
		}
		if _, err := a.finishDrawing(); err != nil {
			a.logger.Debug("cannot finish drawing", "err", err)
			a.cancelDrawing()
		}
	}
}

func (a *Annotator) start(p geom.Point) {
	if err := a.drawing.Start(p); err != nil {
		a.logger.Debug("cannot start drawing", "tool", a.toolName, "err", err)
		a.cancelDrawing()
	}
}

func isVertexTool(t tool.DrawingTool) bool {
	_, ok := t.(tool.VertexTool)
	return ok
}
