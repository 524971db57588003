package annotation

import (
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/selector"
)

func fragment(r geom.Rect) selector.Selector {
	return selector.SerializeFragment(r, selector.ImageContext{})
}

func TestNew(t *testing.T) {
	a := New("img.png", fragment(geom.Rect{X: 1, Y: 2, W: 3, H: 4}))

	if _, err := uuid.Parse(a.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", a.ID, err)
	}
	if a.Created.IsZero() {
		t.Error("Created is zero")
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if b := New("img.png", a.Target.Selector); b.ID == a.ID {
		t.Error("New reused an ID")
	}
}

func TestGeometry(t *testing.T) {
	r := geom.Rect{X: 10, Y: 10, W: 40, H: 70}
	a := New("img.png", fragment(r))

	g, err := a.Geometry(selector.ImageContext{})
	if err != nil {
		t.Fatalf("Geometry: %v", err)
	}
	if g != r {
		t.Errorf("Geometry = %v, want %v", g, r)
	}

	moved, err := a.WithGeometry(geom.Rect{X: 0, Y: 0, W: 5, H: 5}, selector.ImageContext{})
	if err != nil {
		t.Fatalf("WithGeometry: %v", err)
	}
	if moved.Target.Selector.Value != "xywh=pixel:0,0,5,5" {
		t.Errorf("selector = %q", moved.Target.Selector.Value)
	}
	if moved.Updated.IsZero() || moved.ID != a.ID {
		t.Errorf("WithGeometry = %+v", moved)
	}
	if a.Target.Selector.Value != "xywh=pixel:10,10,40,70" {
		t.Error("WithGeometry mutated the receiver")
	}
}

func TestClone(t *testing.T) {
	a := New("img.png", fragment(geom.Rect{W: 1, H: 1}))
	a.Bodies = []Body{NewBody(PurposeCommenting, "hi")}
	a.Creator = &User{ID: "u1"}

	b := a.Clone()
	b.Bodies[0].Value = "changed"
	b.Creator.Name = "someone"

	if a.Bodies[0].Value != "hi" || a.Creator.Name != "" {
		t.Error("Clone shares bodies or creator")
	}
}

func TestValidate(t *testing.T) {
	good := New("img.png", fragment(geom.Rect{W: 1, H: 1}))

	tests := []struct {
		name   string
		mutate func(*Annotation)
		code   errors.Code
	}{
		{"empty id", func(a *Annotation) { a.ID = "" }, errors.ErrCodeInvalidInput},
		{"traversal id", func(a *Annotation) { a.ID = "../x" }, errors.ErrCodeInvalidInput},
		{"empty source", func(a *Annotation) { a.Target.Source = "" }, errors.ErrCodeInvalidInput},
		{"bad selector", func(a *Annotation) { a.Target.Selector.Value = "xywh=1,2" }, errors.ErrCodeMalformedSelector},
		{"unknown type", func(a *Annotation) { a.Target.Selector.Type = "TextQuoteSelector" }, errors.ErrCodeMalformedSelector},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := good.Clone()
			tt.mutate(&a)
			if err := a.Validate(); !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}
}
