// Package term renders annotation layers onto a terminal cell grid.
//
// A [Canvas] implements tool.Renderer for the interactive `draw` command.
// Image coordinates are mapped to cells through a geom.Viewport, so the
// same tools and editors that drive SVG output drive the TUI.
package term

import (
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/tool"
)

// Glyphs used for outlines and handles.
const (
	glyphH      = '─'
	glyphV      = '│'
	glyphTL     = '┌'
	glyphTR     = '┐'
	glyphBR     = '┘'
	glyphBL     = '└'
	glyphDot    = '•'
	glyphHandle = '■'
	glyphEmpty  = ' '
)

// Option configures a Canvas.
type Option func(*Canvas)

// WithColors sets the hex colors of annotations and of the selected shape.
// Selection rubberbands use a lighter blend of the annotation color.
func WithColors(fill, selected string) Option {
	return func(c *Canvas) {
		if col, err := colorful.Hex(fill); err == nil {
			c.styles[tool.LayerAnnotation] = lipgloss.NewStyle().Foreground(lipgloss.Color(col.Hex()))
			light := col.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, 0.5).Clamped()
			c.styles[tool.LayerSelection] = lipgloss.NewStyle().Foreground(lipgloss.Color(light.Hex()))
		}
		if col, err := colorful.Hex(selected); err == nil {
			c.styles[tool.LayerEditor] = lipgloss.NewStyle().Foreground(lipgloss.Color(col.Hex())).Bold(true)
		}
	}
}

// Canvas is a cols x rows grid of cells.
type Canvas struct {
	cols, rows int
	viewport   geom.Viewport
	layers     []*Layer
	styles     map[tool.LayerKind]lipgloss.Style
}

// NewCanvas returns a canvas of the given size. vp maps device cells to
// image space; the canvas uses its inverse to place shapes.
func NewCanvas(cols, rows int, vp geom.Viewport, opts ...Option) *Canvas {
	c := &Canvas{
		cols:     cols,
		rows:     rows,
		viewport: vp,
		styles: map[tool.LayerKind]lipgloss.Style{
			tool.LayerAnnotation: lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
			tool.LayerSelection:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			tool.LayerEditor:     lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewLayer implements tool.Renderer.
func (c *Canvas) NewLayer(kind tool.LayerKind) tool.Layer {
	l := &Layer{canvas: c, kind: kind, visible: true}
	c.layers = append(c.layers, l)
	return l
}

// Resize changes the grid size, e.g. on a terminal resize.
func (c *Canvas) Resize(cols, rows int) { c.cols, c.rows = cols, rows }

// SetViewport replaces the mapping between cells and image space.
func (c *Canvas) SetViewport(vp geom.Viewport) { c.viewport = vp }

// Viewport returns the current mapping.
func (c *Canvas) Viewport() geom.Viewport { return c.viewport }

// ToImageSpace implements tool.CoordinateMapper with the current viewport,
// so an annotator follows resizes without being rebuilt.
func (c *Canvas) ToImageSpace(dx, dy float64) geom.Point {
	return c.viewport.ToImageSpace(dx, dy)
}

// Fit returns the viewport that shows a width x height image in a
// cols x rows grid, keeping the aspect ratio of cells that are twice as
// tall as they are wide.
func Fit(width, height float64, cols, rows int) geom.Viewport {
	if width <= 0 || height <= 0 || cols <= 0 || rows <= 0 {
		return geom.Identity
	}
	scale := math.Min(float64(cols-1)/width, 2*float64(rows-1)/height)
	if scale <= 0 {
		return geom.Identity
	}
	return geom.Viewport{ZoomX: scale, ZoomY: scale / 2}
}

// Size returns the grid size.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

func (c *Canvas) remove(l *Layer) {
	c.layers = slices.DeleteFunc(c.layers, func(x *Layer) bool { return x == l })
}

type cell struct {
	r    rune
	kind tool.LayerKind
	set  bool
}

func (c *Canvas) grid() [][]cell {
	g := make([][]cell, c.rows)
	for y := range g {
		g[y] = make([]cell, c.cols)
	}
	for _, l := range c.layers {
		l.paint(g)
	}
	return g
}

// Plain returns the grid without styling, one line per row.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for y, row := range c.grid() {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, cl := range row {
			if cl.set {
				b.WriteRune(cl.r)
			} else {
				b.WriteRune(glyphEmpty)
			}
		}
	}
	return b.String()
}

// Render returns the styled grid, one line per row.
func (c *Canvas) Render() string {
	var b strings.Builder
	for y, row := range c.grid() {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < len(row); {
			end := x + 1
			for end < len(row) && row[end].set == row[x].set && row[end].kind == row[x].kind {
				end++
			}
			var run strings.Builder
			for _, cl := range row[x:end] {
				if cl.set {
					run.WriteRune(cl.r)
				} else {
					run.WriteRune(glyphEmpty)
				}
			}
			if row[x].set {
				b.WriteString(c.styles[row[x].kind].Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			x = end
		}
	}
	return b.String()
}

// toCell maps an image point to the nearest cell.
func (c *Canvas) toCell(p geom.Point) (int, int) {
	x, y := c.viewport.ToDevice(p)
	return int(math.Round(x)), int(math.Round(y))
}
