// Package svg renders annotation layers as SVG markup.
//
// A [Scene] implements tool.Renderer. Every layer becomes one <g> group
// whose markup mirrors the browser annotator: a selection mask path,
// outer and inner shapes, and one group per handle.
package svg

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/tool"
)

// Class names written on layer elements.
const (
	ClassAnnotation = "a9s-annotation"
	ClassSelection  = "a9s-selection"
	ClassEditable   = "editable"
	ClassSelected   = "selected"
	ClassMask       = "a9s-selection-mask"
	ClassOuter      = "a9s-outer"
	ClassInner      = "a9s-inner"
	ClassHandle     = "a9s-handle"
)

const defaultHandleSize = 6.0

const sceneCSS = `
    .a9s-outer { fill: none; stroke: rgba(0,0,0,0.7); stroke-width: 3; }
    .a9s-inner { fill: rgba(0,0,0,0); stroke: #fff; stroke-width: 1; }
    .a9s-selection-mask { fill: rgba(0,0,0,0.45); stroke: none; }
    .a9s-handle-outer { fill: #000; fill-opacity: 0.35; }
    .a9s-handle-inner { fill: #fff; stroke: #000; stroke-width: 1; }`

// SceneOption configures a Scene.
type SceneOption func(*Scene)

// WithHandleSize sets the drawn radius of handles.
func WithHandleSize(r float64) SceneOption { return func(s *Scene) { s.handleSize = r } }

// WithBackground references an image drawn underneath all layers.
func WithBackground(href string) SceneOption { return func(s *Scene) { s.background = href } }

// WithoutCSS omits the embedded stylesheet.
func WithoutCSS() SceneOption { return func(s *Scene) { s.noCSS = true } }

// Scene is an SVG document of the given image size holding layers in
// creation order.
type Scene struct {
	width, height float64
	handleSize    float64
	background    string
	noCSS         bool
	layers        []*Layer
}

// NewScene returns an empty scene for an image of width x height pixels.
func NewScene(width, height float64, opts ...SceneOption) *Scene {
	s := &Scene{width: width, height: height, handleSize: defaultHandleSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewLayer implements tool.Renderer.
func (s *Scene) NewLayer(kind tool.LayerKind) tool.Layer {
	return s.AddLayer(kind)
}

// AddLayer is NewLayer returning the concrete type, which carries the
// styling setters.
func (s *Scene) AddLayer(kind tool.LayerKind) *Layer {
	l := &Layer{scene: s, kind: kind, visible: true}
	s.layers = append(s.layers, l)
	return l
}

// Len returns the number of live layers.
func (s *Scene) Len() int { return len(s.layers) }

func (s *Scene) remove(l *Layer) {
	s.layers = slices.DeleteFunc(s.layers, func(x *Layer) bool { return x == l })
}

// WriteTo writes the document to w.
func (s *Scene) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.Bytes())
	return int64(n), err
}

// Bytes returns the document.
func (s *Scene) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%.0f" height="%.0f">`+"\n",
		num(s.width), num(s.height), s.width, s.height)
	if !s.noCSS {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", sceneCSS)
	}
	if s.background != "" {
		fmt.Fprintf(&buf, `  <image href="%s" x="0" y="0" width="%s" height="%s"/>`+"\n",
			escape(s.background), num(s.width), num(s.height))
	}
	for _, l := range s.layers {
		l.render(&buf)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// String returns the document as a string.
func (s *Scene) String() string { return string(s.Bytes()) }

// maskPath is the even-odd path covering the image except the shape.
func (s *Scene) maskPath(shape string) string {
	return fmt.Sprintf("M0 0H%sV%sH0Z %s", num(s.width), num(s.height), shape)
}

func rectPath(r geom.Rect) string {
	return fmt.Sprintf("M%s %sH%sV%sH%sZ", num(r.X), num(r.Y), num(r.X+r.W), num(r.Y+r.H), num(r.X))
}

func polygonPath(pts []geom.Point) string {
	var buf bytes.Buffer
	for i, p := range pts {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&buf, "%s%s %s", cmd, num(p.X), num(p.Y))
	}
	buf.WriteString("Z")
	return buf.String()
}
