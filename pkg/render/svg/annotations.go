package svg

import (
	"github.com/matzehuels/a9s/pkg/annotation"
	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/selector"
	"github.com/matzehuels/a9s/pkg/tool"
)

// RenderOption configures RenderAnnotations.
type RenderOption func(*renderer)

type renderer struct {
	style         StyleFunc
	selectedStyle *DrawingStyle
	filter        func(annotation.Annotation) bool
	selected      string
	scene         []SceneOption
}

// WithStyle applies one style to every annotation.
func WithStyle(s DrawingStyle) RenderOption {
	return func(r *renderer) { r.style = func(annotation.Annotation) *DrawingStyle { return &s } }
}

// WithStyleFunc computes the style per annotation.
func WithStyleFunc(f StyleFunc) RenderOption { return func(r *renderer) { r.style = f } }

// WithFilter renders only annotations for which f returns true.
func WithFilter(f func(annotation.Annotation) bool) RenderOption {
	return func(r *renderer) { r.filter = f }
}

// WithSelected draws the annotation with the given ID as selected, with
// mask and handles.
func WithSelected(id string) RenderOption { return func(r *renderer) { r.selected = id } }

// WithSelectedStyle overrides the style of the selected annotation.
func WithSelectedStyle(s DrawingStyle) RenderOption {
	return func(r *renderer) { r.selectedStyle = &s }
}

// WithSceneOptions passes options to the underlying Scene.
func WithSceneOptions(opts ...SceneOption) RenderOption {
	return func(r *renderer) { r.scene = append(r.scene, opts...) }
}

// RenderAnnotations draws a static annotation set over an image of the
// size given by img. Annotations are drawn in order, the selected one last
// so its handles stay on top.
func RenderAnnotations(list []annotation.Annotation, img selector.ImageContext, opts ...RenderOption) ([]byte, error) {
	var r renderer
	for _, opt := range opts {
		opt(&r)
	}
	scene := NewScene(img.Width, img.Height, r.scene...)

	var selected *annotation.Annotation
	for i := range list {
		ann := list[i]
		if r.filter != nil && !r.filter(ann) {
			continue
		}
		if ann.ID != "" && ann.ID == r.selected {
			selected = &list[i]
			continue
		}
		if err := r.draw(scene, ann, img, tool.LayerAnnotation); err != nil {
			return nil, err
		}
	}
	if selected != nil {
		if err := r.draw(scene, *selected, img, tool.LayerEditor); err != nil {
			return nil, err
		}
	}
	return scene.Bytes(), nil
}

func (r *renderer) draw(scene *Scene, ann annotation.Annotation, img selector.ImageContext, kind tool.LayerKind) error {
	g, err := ann.Geometry(img)
	if err != nil {
		return errors.Wrap(errors.GetCode(err), err, "annotation %s", ann.ID)
	}
	l := scene.AddLayer(kind)
	l.SetID(ann.ID)

	var style *DrawingStyle
	if r.style != nil {
		style = r.style(ann)
	}
	if kind == tool.LayerEditor && r.selectedStyle != nil {
		style = r.selectedStyle
	}
	l.SetStyle(ComputeStyle(style))

	var handles []geom.Point
	switch s := g.(type) {
	case geom.Rect:
		l.Rect(s)
		c := s.Corners()
		handles = c[:]
	case geom.Polygon:
		l.Polygon(s.Points)
		handles = s.Points
	}
	if kind == tool.LayerEditor {
		for i, p := range handles {
			l.Handle(i, p)
		}
	}
	return nil
}
