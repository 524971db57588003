package term

import (
	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/tool"
)

// Layer is one shape on a Canvas. It implements tool.Layer.
type Layer struct {
	canvas  *Canvas
	kind    tool.LayerKind
	rect    *geom.Rect
	points  []geom.Point
	handles []geom.Point
	visible bool
	removed bool
}

// Rect implements tool.Layer.
func (l *Layer) Rect(r geom.Rect) {
	if !l.removed {
		l.rect, l.points = &r, nil
	}
}

// Polygon implements tool.Layer.
func (l *Layer) Polygon(pts []geom.Point) {
	if l.removed {
		return
	}
	l.rect, l.points = nil, append([]geom.Point(nil), pts...)
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
	l.canvas.remove(l)
}

func (l *Layer) paint(g [][]cell) {
	if !l.visible {
		return
	}
	switch {
	case l.rect != nil:
		l.paintRect(g, *l.rect)
	case len(l.points) > 0:
		l.paintPolygon(g)
	}
	for _, h := range l.handles {
		x, y := l.canvas.toCell(h)
		l.set(g, x, y, glyphHandle)
	}
}

func (l *Layer) paintRect(g [][]cell, r geom.Rect) {
	x0, y0 := l.canvas.toCell(geom.Point{X: r.X, Y: r.Y})
	x1, y1 := l.canvas.toCell(geom.Point{X: r.X + r.W, Y: r.Y + r.H})
	if x1 <= x0 || y1 <= y0 {
		l.set(g, x0, y0, glyphDot)
		return
	}
	for x := x0 + 1; x < x1; x++ {
		l.set(g, x, y0, glyphH)
		l.set(g, x, y1, glyphH)
	}
	for y := y0 + 1; y < y1; y++ {
		l.set(g, x0, y, glyphV)
		l.set(g, x1, y, glyphV)
	}
	l.set(g, x0, y0, glyphTL)
	l.set(g, x1, y0, glyphTR)
	l.set(g, x1, y1, glyphBR)
	l.set(g, x0, y1, glyphBL)
}

func (l *Layer) paintPolygon(g [][]cell) {
	n := len(l.points)
	for i := range n {
		ax, ay := l.canvas.toCell(l.points[i])
		bx, by := l.canvas.toCell(l.points[(i+1)%n])
		l.line(g, ax, ay, bx, by)
	}
}

// line draws a Bresenham line of dots.
func (l *Layer) line(g [][]cell, x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	err := dx + dy
	for {
		l.set(g, x0, y0, glyphDot)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (l *Layer) set(g [][]cell, x, y int, r rune) {
	if y < 0 || y >= len(g) || x < 0 || x >= len(g[y]) {
		return
	}
	g[y][x] = cell{r: r, kind: l.kind, set: true}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
