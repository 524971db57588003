package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/tool"
)

type shapeKind int

const (
	shapeNone shapeKind = iota
	shapeRect
	shapePolygon
)

// Layer is one shape group in a Scene. It implements tool.Layer.
type Layer struct {
	scene   *Scene
	kind    tool.LayerKind
	shape   shapeKind
	rect    geom.Rect
	points  []geom.Point
	handles []geom.Point
	visible bool
	removed bool

	id      string
	style   string
	classes []string
}

// Rect implements tool.Layer.
func (l *Layer) Rect(r geom.Rect) {
	if l.removed {
		return
	}
	l.shape, l.rect, l.points = shapeRect, r, nil
}

// Polygon implements tool.Layer.
func (l *Layer) Polygon(pts []geom.Point) {
	if l.removed {
		return
	}
	l.shape, l.points = shapePolygon, append(l.points[:0], pts...)
}

// Handle implements tool.Layer.
func (l *Layer) Handle(i int, p geom.Point) {
	if l.removed || i < 0 {
		return
	}
	for len(l.handles) <= i {
		l.handles = append(l.handles, p)
	}
	l.handles[i] = p
}

// Handles implements tool.Layer.
func (l *Layer) Handles(n int) {
	if !l.removed && n >= 0 && len(l.handles) > n {
		l.handles = l.handles[:n]
	}
}

// Show implements tool.Layer.
func (l *Layer) Show(visible bool) {
	if !l.removed {
		l.visible = visible
	}
}

// Remove implements tool.Layer.
func (l *Layer) Remove() {
	if l.removed {
		return
	}
	l.removed = true
	l.scene.remove(l)
}

// Visible reports whether the layer is rendered.
func (l *Layer) Visible() bool { return l.visible && !l.removed }

// SetID sets the id attribute of the layer group.
func (l *Layer) SetID(id string) { l.id = id }

// SetStyle sets the inline style of the outer shape, as produced by
// ComputeStyle.
func (l *Layer) SetStyle(css string) { l.style = css }

// AddClass appends a class to the layer group.
func (l *Layer) AddClass(c string) { l.classes = append(l.classes, c) }

func (l *Layer) groupClass() string {
	var base []string
	switch l.kind {
	case tool.LayerAnnotation:
		base = []string{ClassAnnotation}
	case tool.LayerSelection:
		base = []string{ClassSelection}
	case tool.LayerEditor:
		base = []string{ClassAnnotation, ClassEditable, ClassSelected}
	}
	return strings.Join(append(base, l.classes...), " ")
}

func (l *Layer) masked() bool {
	return l.kind == tool.LayerSelection || l.kind == tool.LayerEditor
}

func (l *Layer) render(buf *bytes.Buffer) {
	if !l.visible || l.shape == shapeNone {
		return
	}
	buf.WriteString(`  <g`)
	if l.id != "" {
		fmt.Fprintf(buf, ` id="%s"`, escape(l.id))
	}
	fmt.Fprintf(buf, ` class="%s">`+"\n", escape(l.groupClass()))

	var path string
	if l.shape == shapeRect {
		path = rectPath(l.rect)
	} else {
		path = polygonPath(l.points)
	}
	if l.masked() {
		fmt.Fprintf(buf, `    <path class="%s" fill-rule="evenodd" d="%s"/>`+"\n", ClassMask, l.scene.maskPath(path))
	}

	style := ""
	if l.style != "" {
		style = fmt.Sprintf(` style="%s"`, escape(l.style))
	}
	switch l.shape {
	case shapeRect:
		attrs := fmt.Sprintf(`x="%s" y="%s" width="%s" height="%s"`, num(l.rect.X), num(l.rect.Y), num(l.rect.W), num(l.rect.H))
		fmt.Fprintf(buf, `    <rect class="%s" %s%s/>`+"\n", ClassOuter, attrs, style)
		fmt.Fprintf(buf, `    <rect class="%s" %s/>`+"\n", ClassInner, attrs)
	case shapePolygon:
		attrs := fmt.Sprintf(`points="%s"`, points(l.points))
		fmt.Fprintf(buf, `    <polygon class="%s" %s%s/>`+"\n", ClassOuter, attrs, style)
		fmt.Fprintf(buf, `    <polygon class="%s" %s/>`+"\n", ClassInner, attrs)
	}

	r := l.scene.handleSize
	for _, h := range l.handles {
		fmt.Fprintf(buf, `    <g class="%s"><circle class="%s-outer" cx="%s" cy="%s" r="%s"/><circle class="%s-inner" cx="%s" cy="%s" r="%s"/></g>`+"\n",
			ClassHandle, ClassHandle, num(h.X), num(h.Y), num(r), ClassHandle, num(h.X), num(h.Y), num(r-1))
	}
	buf.WriteString("  </g>\n")
}

func points(pts []geom.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
