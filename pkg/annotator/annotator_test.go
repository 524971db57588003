package annotator

import (
	"context"
	"testing"

	"github.com/matzehuels/a9s/pkg/annotation"
	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/selector"
	"github.com/matzehuels/a9s/pkg/tool"
)

// =============================================================================
// Test doubles
// =============================================================================

type fakeLayer struct {
	kind    tool.LayerKind
	rect    geom.Rect
	poly    []geom.Point
	visible bool
	removed bool
}

func (l *fakeLayer) Rect(r geom.Rect)         { l.rect = r }
func (l *fakeLayer) Polygon(pts []geom.Point) { l.poly = append([]geom.Point(nil), pts...) }
func (l *fakeLayer) Handle(int, geom.Point)   {}
func (l *fakeLayer) Handles(int)              {}
func (l *fakeLayer) Show(v bool)              { l.visible = v }
func (l *fakeLayer) Remove()                  { l.removed = true }

type fakeRenderer struct {
	layers []*fakeLayer
}

func (r *fakeRenderer) NewLayer(k tool.LayerKind) tool.Layer {
	l := &fakeLayer{kind: k}
	r.layers = append(r.layers, l)
	return l
}

func (r *fakeRenderer) count(k tool.LayerKind, removed bool) int {
	n := 0
	for _, l := range r.layers {
		if l.kind == k && l.removed == removed {
			n++
		}
	}
	return n
}

func (r *fakeRenderer) live(k tool.LayerKind) int { return r.count(k, false) }

type recorder struct {
	events []Event
}

func (r *recorder) observe(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func (r *recorder) last(t EventType) (Event, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == t {
			return r.events[i], true
		}
	}
	return Event{}, false
}

func newTestAnnotator(t *testing.T, opts ...Option) (*Annotator, *fakeRenderer, *recorder) {
	t.Helper()
	r := &fakeRenderer{}
	a := New("img.png", r, opts...)
	rec := &recorder{}
	a.On(rec.observe)
	return a, r, rec
}

func drag(a *Annotator, from, to geom.Point) {
	a.PointerDown(from.X, from.Y)
	a.PointerMove((from.X+to.X)/2, (from.Y+to.Y)/2)
	a.PointerMove(to.X, to.Y)
	a.PointerUp(to.X, to.Y)
}

func click(a *Annotator, p geom.Point) {
	a.PointerDown(p.X, p.Y)
	a.PointerUp(p.X, p.Y)
}

func geometryOf(t *testing.T, ann annotation.Annotation) geom.Geometry {
	t.Helper()
	g, err := ann.Geometry(selector.ImageContext{})
	if err != nil {
		t.Fatalf("Geometry(%+v): %v", ann.Target.Selector, err)
	}
	return g
}

func addRect(t *testing.T, a *Annotator, r geom.Rect) annotation.Annotation {
	t.Helper()
	ann := annotation.New("img.png", selector.SerializeFragment(r, selector.ImageContext{}))
	if err := a.AddAnnotation(ann); err != nil {
		t.Fatalf("AddAnnotation: %v", err)
	}
	return ann
}

// =============================================================================
// Drawing
// =============================================================================

func TestDragDrawCreatesAndSelects(t *testing.T) {
	a, r, rec := newTestAnnotator(t)

	drag(a, geom.Pt(10, 10), geom.Pt(50, 80))

	ev, ok := rec.last(EventCreate)
	if !ok {
		t.Fatalf("no create event in %v", rec.types())
	}
	if g := geometryOf(t, ev.Annotation); g != (geom.Rect{X: 10, Y: 10, W: 40, H: 70}) {
		t.Errorf("created geometry = %v", g)
	}
	if ev.Annotation.Target.Source != "img.png" {
		t.Errorf("source = %q", ev.Annotation.Target.Source)
	}
	sel, ok := a.Selected()
	if !ok || sel.ID != ev.Annotation.ID {
		t.Errorf("Selected() = %v, %v; want the new annotation", sel.ID, ok)
	}
	if r.live(tool.LayerSelection) != 0 {
		t.Error("rubberband placeholder was not removed")
	}
	if r.live(tool.LayerEditor) != 1 {
		t.Errorf("%d live editor layers, want 1", r.live(tool.LayerEditor))
	}
	if a.Drawing() {
		t.Error("Drawing() = true after release")
	}
}

func TestClickWithoutDragCreatesMinimumBox(t *testing.T) {
	a, _, rec := newTestAnnotator(t)

	click(a, geom.Pt(7, 9))

	ev, ok := rec.last(EventCreate)
	if !ok {
		t.Fatal("no create event")
	}
	if g := geometryOf(t, ev.Annotation); g != (geom.Rect{X: 7, Y: 9, W: 1, H: 1}) {
		t.Errorf("geometry = %v, want 1x1 at anchor", g)
	}
}

func TestDrawWithViewport(t *testing.T) {
	vp := geom.Viewport{ZoomX: 2, ZoomY: 2, OffsetX: 0, OffsetY: 0}
	a, _, rec := newTestAnnotator(t, WithMapper(vp))

	drag(a, geom.Pt(20, 20), geom.Pt(100, 160))

	ev, _ := rec.last(EventCreate)
	if g := geometryOf(t, ev.Annotation); g != (geom.Rect{X: 10, Y: 10, W: 40, H: 70}) {
		t.Errorf("geometry = %v, want image-space box", g)
	}
}

func TestClickModeDraw(t *testing.T) {
	a, _, rec := newTestAnnotator(t, WithDrawingMode(ModeClick))

	click(a, geom.Pt(10, 10))
	if !a.Drawing() {
		t.Fatal("first click did not start a drawing")
	}
	a.PointerMove(30, 30)
	click(a, geom.Pt(50, 80))

	ev, ok := rec.last(EventCreate)
	if !ok {
		t.Fatal("no create event")
	}
	if g := geometryOf(t, ev.Annotation); g != (geom.Rect{X: 10, Y: 10, W: 40, H: 70}) {
		t.Errorf("geometry = %v", g)
	}
}

func TestPolygonDraw(t *testing.T) {
	a, _, rec := newTestAnnotator(t)
	if err := a.SetDrawingTool("polygon"); err != nil {
		t.Fatalf("SetDrawingTool: %v", err)
	}

	click(a, geom.Pt(0, 0))
	a.PointerMove(90, 5)
	click(a, geom.Pt(100, 0))
	if _, err := a.FinishDrawing(); !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Fatalf("FinishDrawing with 2 vertices err = %v", err)
	}
	click(a, geom.Pt(50, 80))

	ann, err := a.FinishDrawing()
	if err != nil {
		t.Fatalf("FinishDrawing: %v", err)
	}
	if ann.Target.Selector.Type != selector.TypeSVG {
		t.Errorf("selector type = %q", ann.Target.Selector.Type)
	}
	poly, ok := geometryOf(t, ann).(geom.Polygon)
	if !ok || len(poly.Points) != 3 {
		t.Errorf("geometry = %v", geometryOf(t, ann))
	}
	if len(rec.events) == 0 || rec.events[0].Type != EventCreate {
		t.Errorf("events = %v", rec.types())
	}
}

func TestDrawingDisabled(t *testing.T) {
	a, _, rec := newTestAnnotator(t)
	a.SetDrawingEnabled(false)

	drag(a, geom.Pt(0, 0), geom.Pt(20, 20))

	if len(rec.events) != 0 || len(a.Annotations()) != 0 {
		t.Errorf("events %v with drawing disabled", rec.types())
	}
}

func TestSetDrawingTool(t *testing.T) {
	a, _, _ := newTestAnnotator(t)

	if err := a.SetDrawingTool("ellipse"); !errors.Is(err, errors.ErrCodeUnknownTool) {
		t.Errorf("err = %v, want UNKNOWN_TOOL", err)
	}
	if a.DrawingTool() != tool.ToolRectangle {
		t.Errorf("DrawingTool() = %q after failed switch", a.DrawingTool())
	}

	a.RegisterDrawingTool("square", func(l tool.Layer, img selector.ImageContext) tool.DrawingTool {
		return tool.NewRubberbandRect(l, img)
	})
	if err := a.SetDrawingTool("square"); err != nil {
		t.Errorf("SetDrawingTool(square): %v", err)
	}
	if tools := a.ListDrawingTools(); len(tools) != 3 {
		t.Errorf("ListDrawingTools() = %v", tools)
	}
	if err := a.SetDrawingMode("hover"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("SetDrawingMode(hover) err = %v", err)
	}
}

func TestSwitchingToolCancelsDrawing(t *testing.T) {
	a, r, _ := newTestAnnotator(t, WithDrawingMode(ModeClick))
	click(a, geom.Pt(10, 10))

	_ = a.SetDrawingTool("polygon")

	if a.Drawing() {
		t.Error("drawing survived a tool switch")
	}
	if r.live(tool.LayerSelection) != 0 {
		t.Error("placeholder layer leaked")
	}
}

// =============================================================================
// Selection and editing
// =============================================================================

func TestEditSelectedEmitsUpdateOnRelease(t *testing.T) {
	a, _, rec := newTestAnnotator(t)
	ann := addRect(t, a, geom.Rect{X: 0, Y: 0, W: 100, H: 50})
	if err := a.Select(ann.ID); err != nil {
		t.Fatalf("Select: %v", err)
	}

	a.PointerDown(100, 0)
	a.PointerMove(110, -5)
	a.PointerMove(120, -10)
	if _, ok := rec.last(EventUpdate); ok {
		t.Fatal("update emitted before release")
	}
	a.PointerUp(120, -10)

	ev, ok := rec.last(EventUpdate)
	if !ok {
		t.Fatalf("no update event in %v", rec.types())
	}
	if g := geometryOf(t, ev.Annotation); g != (geom.Rect{X: 0, Y: -10, W: 120, H: 60}) {
		t.Errorf("updated geometry = %v", g)
	}
	if ev.Previous == nil || geometryOf(t, *ev.Previous) != (geom.Rect{X: 0, Y: 0, W: 100, H: 50}) {
		t.Errorf("Previous = %+v", ev.Previous)
	}
	if stored, _ := a.Annotation(ann.ID); stored.Target.Selector != ev.Annotation.Target.Selector {
		t.Error("annotation set not updated")
	}
}

func TestGrabWithoutMoveEmitsNothing(t *testing.T) {
	a, _, rec := newTestAnnotator(t)
	ann := addRect(t, a, geom.Rect{X: 0, Y: 0, W: 100, H: 50})
	_ = a.Select(ann.ID)
	rec.events = nil

	click(a, geom.Pt(50, 25))

	if len(rec.events) != 0 {
		t.Errorf("events = %v, want none", rec.types())
	}
}

func TestClickSelectsAndDeselects(t *testing.T) {
	a, _, rec := newTestAnnotator(t)
	first := addRect(t, a, geom.Rect{X: 0, Y: 0, W: 30, H: 30})
	second := addRect(t, a, geom.Rect{X: 10, Y: 10, W: 30, H: 30})

	click(a, geom.Pt(20, 20))
	if sel, _ := a.Selected(); sel.ID != second.ID {
		t.Errorf("selected %q, want topmost %q", sel.ID, second.ID)
	}
	if ev, ok := rec.last(EventClick); !ok || ev.Annotation.ID != second.ID {
		t.Errorf("click event = %+v", ev)
	}

	click(a, geom.Pt(2, 2))
	if sel, _ := a.Selected(); sel.ID != first.ID {
		t.Errorf("selected %q, want %q", sel.ID, first.ID)
	}

	click(a, geom.Pt(90, 90))
	if _, ok := a.Selected(); ok {
		t.Error("click on empty space kept the selection")
	}
	if ev, _ := rec.last(EventSelectionChanged); ev.Annotation.ID != "" {
		t.Errorf("last selectionChanged = %q, want cleared", ev.Annotation.ID)
	}
	if len(a.Annotations()) != 2 {
		t.Error("deselecting click started a drawing")
	}
}

func TestUpdateAnnotationResizesEditor(t *testing.T) {
	a, r, rec := newTestAnnotator(t)
	ann := addRect(t, a, geom.Rect{X: 0, Y: 0, W: 10, H: 10})
	_ = a.Select(ann.ID)
	rec.events = nil

	next, _ := ann.WithGeometry(geom.Rect{X: 50, Y: 50, W: 20, H: 20}, selector.ImageContext{})
	if err := a.UpdateAnnotation(next); err != nil {
		t.Fatalf("UpdateAnnotation: %v", err)
	}

	var editor *fakeLayer
	for _, l := range r.layers {
		if l.kind == tool.LayerEditor && !l.removed {
			editor = l
		}
	}
	if editor == nil || editor.rect != (geom.Rect{X: 50, Y: 50, W: 20, H: 20}) {
		t.Errorf("editor layer = %+v", editor)
	}
	if len(rec.events) != 0 {
		t.Errorf("programmatic update emitted %v", rec.types())
	}
	if err := a.UpdateAnnotation(annotation.New("img.png", next.Target.Selector)); !errors.Is(err, errors.ErrCodeAnnotationNotFound) {
		t.Errorf("UpdateAnnotation(unknown) err = %v", err)
	}
}

func TestDeleteSelected(t *testing.T) {
	a, r, rec := newTestAnnotator(t)
	ann := addRect(t, a, geom.Rect{X: 0, Y: 0, W: 10, H: 10})
	_ = a.Select(ann.ID)

	if !a.DeleteSelected() {
		t.Fatal("DeleteSelected() = false")
	}
	if ev, ok := rec.last(EventDelete); !ok || ev.Annotation.ID != ann.ID {
		t.Errorf("delete event = %+v", ev)
	}
	if len(a.Annotations()) != 0 {
		t.Error("annotation still present")
	}
	if r.live(tool.LayerEditor) != 0 || r.live(tool.LayerAnnotation) != 0 {
		t.Error("layers leaked after delete")
	}
	if a.DeleteSelected() {
		t.Error("DeleteSelected() with nothing selected = true")
	}
}

func TestFilterAndVisibility(t *testing.T) {
	a, r, _ := newTestAnnotator(t)
	a.SetDrawingEnabled(false)
	ann := addRect(t, a, geom.Rect{X: 0, Y: 0, W: 10, H: 10})
	_ = a.Select(ann.ID)

	a.SetFilter(func(annotation.Annotation) bool { return false })
	if _, ok := a.Selected(); ok {
		t.Error("filtered annotation stayed selected")
	}
	click(a, geom.Pt(5, 5))
	if _, ok := a.Selected(); ok {
		t.Error("hidden annotation was hit")
	}

	a.SetFilter(nil)
	a.SetVisible(false)
	for _, l := range r.layers {
		if l.kind == tool.LayerAnnotation && l.visible {
			t.Error("layer visible after SetVisible(false)")
		}
	}
	a.SetVisible(true)
	visible := 0
	for _, l := range r.layers {
		if l.kind == tool.LayerAnnotation && !l.removed && l.visible {
			visible++
		}
	}
	if visible != 1 {
		t.Errorf("%d visible annotation layers, want 1", visible)
	}
}

func TestSetAnnotations(t *testing.T) {
	a, r, _ := newTestAnnotator(t)
	addRect(t, a, geom.Rect{W: 5, H: 5})

	list := []annotation.Annotation{
		annotation.New("img.png", selector.SerializeFragment(geom.Rect{W: 1, H: 1}, selector.ImageContext{})),
		annotation.New("img.png", selector.SerializeSVG(geom.Polygon{Points: []geom.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 4}}})),
	}
	if err := a.SetAnnotations(list); err != nil {
		t.Fatalf("SetAnnotations: %v", err)
	}
	if got := a.Annotations(); len(got) != 2 || got[0].ID != list[0].ID {
		t.Errorf("Annotations() = %v", got)
	}
	if r.live(tool.LayerAnnotation) != 2 {
		t.Errorf("%d live layers, want 2", r.live(tool.LayerAnnotation))
	}

	bad := list[0]
	bad.Target.Selector.Value = "oops"
	if err := a.SetAnnotations([]annotation.Annotation{bad}); !errors.Is(err, errors.ErrCodeMalformedSelector) {
		t.Errorf("SetAnnotations(bad) err = %v", err)
	}
	if len(a.Annotations()) != 2 {
		t.Error("failed SetAnnotations modified the set")
	}
	if err := a.AddAnnotation(list[0]); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("AddAnnotation(duplicate) err = %v", err)
	}
}

func TestDestroy(t *testing.T) {
	a, r, rec := newTestAnnotator(t)
	ann := addRect(t, a, geom.Rect{X: 0, Y: 0, W: 10, H: 10})
	_ = a.Select(ann.ID)
	a.PointerDown(5, 5)

	a.Destroy()
	rec.events = nil
	a.PointerMove(50, 50)
	a.PointerUp(50, 50)
	a.Destroy()

	for _, l := range r.layers {
		if !l.removed {
			t.Errorf("%v layer not removed", l.kind)
		}
	}
	if len(rec.events) != 0 {
		t.Errorf("events after destroy: %v", rec.types())
	}
}

// =============================================================================
// Autosave
// =============================================================================

func TestAutosave(t *testing.T) {
	ctx := context.Background()
	store := annotation.NewMemoryStore()
	a, _, _ := newTestAnnotator(t)
	a.On(Autosave(ctx, store, nil))

	drag(a, geom.Pt(10, 10), geom.Pt(50, 80))
	list, _ := store.List(ctx, "img.png")
	if len(list) != 1 {
		t.Fatalf("store has %d annotations after create, want 1", len(list))
	}

	a.PointerDown(30, 40)
	a.PointerMove(40, 50)
	a.PointerUp(40, 50)
	saved, _ := store.Get(ctx, list[0].ID)
	if g := geometryOf(t, saved); g != (geom.Rect{X: 20, Y: 20, W: 40, H: 70}) {
		t.Errorf("saved geometry = %v after body drag", g)
	}

	a.DeleteSelected()
	if list, _ := store.List(ctx, ""); len(list) != 0 {
		t.Errorf("store has %d annotations after delete", len(list))
	}
}
