package tool

import (
	"slices"
	"testing"

	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/selector"
)

func TestRubberbandRectDraw(t *testing.T) {
	layer := newRecordingLayer()
	tool := NewRubberbandRect(layer, selector.ImageContext{})

	if err := tool.Start(geom.Pt(10, 10)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if tool.State() != StateAnchored {
		t.Errorf("State() = %v, want anchored", tool.State())
	}
	if layer.visible {
		t.Error("placeholder visible before first drag")
	}

	tool.DragTo(geom.Pt(50, 80))
	if tool.State() != StateDragging || !layer.visible {
		t.Errorf("State() = %v visible=%v, want dragging and visible", tool.State(), layer.visible)
	}

	sel, err := tool.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	want := geom.Rect{X: 10, Y: 10, W: 40, H: 70}
	if sel.Geometry != want {
		t.Errorf("Geometry = %v, want %v", sel.Geometry, want)
	}
	if sel.Selector.Value != "xywh=pixel:10,10,40,70" {
		t.Errorf("Selector.Value = %q", sel.Selector.Value)
	}
	if sel.Selector.Type != selector.TypeFragment || sel.Selector.ConformsTo != selector.MediaFragmentsSpec {
		t.Errorf("Selector = %+v", sel.Selector)
	}
	if tool.State() != StateFinalized {
		t.Errorf("State() = %v, want finalized", tool.State())
	}
	if layer.removed {
		t.Error("Finalize removed the placeholder; the caller owns that")
	}
	tool.Destroy()
	if !layer.removed {
		t.Error("Destroy did not remove the placeholder")
	}
}

func TestRubberbandRectReverseDrag(t *testing.T) {
	tool := NewRubberbandRect(newRecordingLayer(), selector.ImageContext{})
	_ = tool.Start(geom.Pt(50, 80))
	tool.DragTo(geom.Pt(30, 100))
	tool.DragTo(geom.Pt(10, 10))

	sel, _ := tool.Finalize()
	if want := (geom.Rect{X: 10, Y: 10, W: 40, H: 70}); sel.Geometry != want {
		t.Errorf("Geometry = %v, want %v", sel.Geometry, want)
	}
}

func TestRubberbandRectClickWithoutDrag(t *testing.T) {
	layer := newRecordingLayer()
	tool := NewRubberbandRect(layer, selector.ImageContext{})
	_ = tool.Start(geom.Pt(7, 9))

	sel, err := tool.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if want := (geom.Rect{X: 7, Y: 9, W: 1, H: 1}); sel.Geometry != want {
		t.Errorf("Geometry = %v, want %v", sel.Geometry, want)
	}
	if tool.Moved() {
		t.Error("Moved() = true without DragTo")
	}
	if layer.visible {
		t.Error("placeholder became visible without a drag")
	}
}

func TestRubberbandRectPercentSelector(t *testing.T) {
	tool := NewRubberbandRect(newRecordingLayer(), selector.ImageContext{Width: 200, Height: 100, Unit: selector.UnitPercent})
	_ = tool.Start(geom.Pt(20, 10))
	tool.DragTo(geom.Pt(120, 60))

	sel, _ := tool.Finalize()
	if sel.Selector.Value != "xywh=percent:10,10,50,50" {
		t.Errorf("Selector.Value = %q", sel.Selector.Value)
	}
}

func TestRubberbandRectStateErrors(t *testing.T) {
	tool := NewRubberbandRect(newRecordingLayer(), selector.ImageContext{})

	if _, err := tool.Finalize(); !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Errorf("Finalize from idle err = %v, want INVALID_STATE", err)
	}
	_ = tool.Start(geom.Pt(0, 0))
	if err := tool.Start(geom.Pt(1, 1)); !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Errorf("second Start err = %v, want INVALID_STATE", err)
	}
	_, _ = tool.Finalize()
	if _, err := tool.Finalize(); !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Errorf("second Finalize err = %v, want INVALID_STATE", err)
	}

	before := tool.Geometry()
	tool.DragTo(geom.Pt(99, 99))
	if tool.Geometry() != before {
		t.Error("DragTo after Finalize changed the geometry")
	}
}

func TestRubberbandRectCancel(t *testing.T) {
	for _, drag := range []bool{false, true} {
		layer := newRecordingLayer()
		tool := NewRubberbandRect(layer, selector.ImageContext{})
		_ = tool.Start(geom.Pt(0, 0))
		if drag {
			tool.DragTo(geom.Pt(10, 10))
		}

		tool.Cancel()
		tool.Cancel()
		tool.DragTo(geom.Pt(20, 20))

		if tool.State() != StateCancelled {
			t.Errorf("State() = %v, want cancelled", tool.State())
		}
		if !layer.removed {
			t.Error("Cancel did not remove the placeholder")
		}
		if _, err := tool.Finalize(); !errors.Is(err, errors.ErrCodeInvalidState) {
			t.Errorf("Finalize after Cancel err = %v, want INVALID_STATE", err)
		}
	}
}

func TestRubberbandPolygonDraw(t *testing.T) {
	layer := newRecordingLayer()
	tool := NewRubberbandPolygon(layer)

	_ = tool.Start(geom.Pt(0, 0))
	tool.DragTo(geom.Pt(40, 5))
	if want := []geom.Point{{X: 0, Y: 0}, {X: 40, Y: 5}}; !slices.Equal(layer.polygon, want) {
		t.Errorf("rendered = %v, want %v", layer.polygon, want)
	}

	_ = tool.AddPoint(geom.Pt(50, 0))
	if _, err := tool.Finalize(); !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Fatalf("Finalize with 2 vertices err = %v, want INVALID_GEOMETRY", err)
	}
	if tool.State() != StateDragging {
		t.Errorf("failed Finalize changed state to %v", tool.State())
	}

	_ = tool.AddPoint(geom.Pt(25, 40))
	tool.DragTo(geom.Pt(10, 30))

	sel, err := tool.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	want := []geom.Point{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 25, Y: 40}}
	if got := sel.Geometry.(geom.Polygon).Points; !slices.Equal(got, want) {
		t.Errorf("points = %v, want %v", got, want)
	}
	if sel.Selector.Type != selector.TypeSVG {
		t.Errorf("selector type = %q", sel.Selector.Type)
	}
	back, err := selector.ParseSVG(sel.Selector)
	if err != nil || !slices.Equal(back.Points, want) {
		t.Errorf("ParseSVG = %v, %v", back, err)
	}
}

func TestRubberbandPolygonStateErrors(t *testing.T) {
	tool := NewRubberbandPolygon(newRecordingLayer())

	if err := tool.AddPoint(geom.Pt(1, 1)); !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Errorf("AddPoint from idle err = %v, want INVALID_STATE", err)
	}
	if tool.Geometry() != nil {
		t.Error("Geometry() before Start should be nil")
	}
	_ = tool.Start(geom.Pt(0, 0))
	tool.Cancel()
	if err := tool.AddPoint(geom.Pt(1, 1)); !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Errorf("AddPoint after Cancel err = %v, want INVALID_STATE", err)
	}
}

func TestDrawStateString(t *testing.T) {
	states := map[DrawState]string{
		StateIdle:      "idle",
		StateAnchored:  "anchored",
		StateDragging:  "dragging",
		StateFinalized: "finalized",
		StateCancelled: "cancelled",
	}
	for s, want := range states {
		if got := s.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
