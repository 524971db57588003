package tool

import (
	"slices"
	"testing"

	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/selector"
)

func TestRegistryDefaults(t *testing.T) {
	r := NewRegistry()

	if got, want := r.DrawingTools(), []string{"polygon", "rectangle"}; !slices.Equal(got, want) {
		t.Errorf("DrawingTools() = %v, want %v", got, want)
	}
	for _, name := range []string{"rectangle", "rect", "box", "polygon", "poly"} {
		if !r.HasDrawingTool(name) {
			t.Errorf("HasDrawingTool(%q) = false", name)
		}
	}

	tool, err := r.NewDrawingTool("rect", newRecordingLayer(), selector.ImageContext{})
	if err != nil {
		t.Fatalf("NewDrawingTool: %v", err)
	}
	if tool.Name() != ToolRectangle {
		t.Errorf("Name() = %q, want %q", tool.Name(), ToolRectangle)
	}
}

func TestRegistryUnknownTool(t *testing.T) {
	_, err := NewRegistry().NewDrawingTool("ellipse", newRecordingLayer(), selector.ImageContext{})
	if !errors.Is(err, errors.ErrCodeUnknownTool) {
		t.Errorf("err = %v, want UNKNOWN_TOOL", err)
	}
}

func TestRegistryCustomTool(t *testing.T) {
	r := NewRegistry()
	r.RegisterDrawingTool("square", func(l Layer, img selector.ImageContext) DrawingTool {
		return NewRubberbandRect(l, img)
	})

	if !slices.Contains(r.DrawingTools(), "square") {
		t.Errorf("DrawingTools() = %v, missing square", r.DrawingTools())
	}
	if _, err := r.NewDrawingTool("square", newRecordingLayer(), selector.ImageContext{}); err != nil {
		t.Errorf("NewDrawingTool(square): %v", err)
	}
}

func TestRegistryShapeEditor(t *testing.T) {
	r := NewRegistry()
	called := false
	r.RegisterShapeEditor(geom.ShapeRectangle, func(g geom.Geometry, l Layer, opts ...Option) (EditableShape, error) {
		called = true
		return NewEditable(g, l, opts...)
	})

	if _, err := r.NewEditable(geom.Rect{W: 3, H: 3}, newRecordingLayer()); err != nil {
		t.Fatalf("NewEditable: %v", err)
	}
	if !called {
		t.Error("custom editor factory was not used")
	}
	if _, err := r.NewEditable(nil, newRecordingLayer()); !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("NewEditable(nil) err = %v, want INVALID_GEOMETRY", err)
	}
}
