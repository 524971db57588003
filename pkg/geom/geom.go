package geom

import (
	"fmt"
	"math"
)

// ShapeType identifies a geometry variant.
type ShapeType string

// Shape types understood by the selector codec and the editors.
const (
	ShapeRectangle ShapeType = "RECTANGLE"
	ShapePolygon   ShapeType = "POLYGON"
)

// Geometry is implemented by every shape variant.
type Geometry interface {
	ShapeType() ShapeType
	Bounds() Rect
	Contains(p Point) bool
}

// Point is a position in image space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

// Rect is an axis-aligned rectangle. X and Y address the top-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// ShapeType implements Geometry.
func (r Rect) ShapeType() ShapeType { return ShapeRectangle }

// Bounds implements Geometry.
func (r Rect) Bounds() Rect { return r }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Corner returns the position of corner c.
func (r Rect) Corner(c Corner) Point {
	switch c {
	case TopRight:
		return Point{X: r.X + r.W, Y: r.Y}
	case BottomRight:
		return Point{X: r.X + r.W, Y: r.Y + r.H}
	case BottomLeft:
		return Point{X: r.X, Y: r.Y + r.H}
	default:
		return Point{X: r.X, Y: r.Y}
	}
}

// Corners returns the four corners in clockwise order starting top-left.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.X, Y: r.Y},
		{X: r.X + r.W, Y: r.Y},
		{X: r.X + r.W, Y: r.Y + r.H},
		{X: r.X, Y: r.Y + r.H},
	}
}

// Validate reports whether r is a normalized, finite rectangle.
func (r Rect) Validate() error {
	for _, v := range [4]float64{r.X, r.Y, r.W, r.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite value in %v", r)
		}
	}
	if r.W < 0 || r.H < 0 {
		return fmt.Errorf("negative size in %v", r)
	}
	return nil
}

// Intersect returns the overlap of r and s, or the zero Rect.
func (r Rect) Intersect(s Rect) Rect {
	x0, y0 := math.Max(r.X, s.X), math.Max(r.Y, s.Y)
	x1, y1 := math.Min(r.X+r.W, s.X+s.W), math.Min(r.Y+r.H, s.Y+s.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func (r Rect) String() string {
	return fmt.Sprintf("{x:%g y:%g w:%g h:%g}", r.X, r.Y, r.W, r.H)
}

// MinSize is the smallest width and height Normalize produces, so that a
// near-zero drag still yields a selectable shape.
const MinSize = 1.0

// Normalize returns the bounding box of p1 and p2 with both dimensions
// clamped to at least MinSize.
func Normalize(p1, p2 Point) Rect {
	return Rect{
		X: math.Min(p1.X, p2.X),
		Y: math.Min(p1.Y, p2.Y),
		W: math.Max(MinSize, math.Abs(p2.X-p1.X)),
		H: math.Max(MinSize, math.Abs(p2.Y-p1.Y)),
	}
}
