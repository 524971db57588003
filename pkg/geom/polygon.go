package geom

import (
	"fmt"
	"math"
)

// MinPolygonPoints is the smallest vertex count of a valid polygon.
const MinPolygonPoints = 3

// Polygon is a closed shape given by its vertices in drawing order.
type Polygon struct {
	Points []Point `json:"points"`
}

// ShapeType implements Geometry.
func (p Polygon) ShapeType() ShapeType { return ShapePolygon }

// Bounds returns the axis-aligned bounding box of the vertices.
func (p Polygon) Bounds() Rect {
	if len(p.Points) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range p.Points {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Contains uses the even-odd ray casting rule.
func (p Polygon) Contains(pt Point) bool {
	inside := false
	n := len(p.Points)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p.Points[i], p.Points[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) &&
			pt.X < (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// Translate returns a copy of p moved by d.
func (p Polygon) Translate(d Point) Polygon {
	pts := make([]Point, len(p.Points))
	for i, pt := range p.Points {
		pts[i] = pt.Add(d)
	}
	return Polygon{Points: pts}
}

// Clone returns a deep copy of p.
func (p Polygon) Clone() Polygon {
	return Polygon{Points: append([]Point(nil), p.Points...)}
}

// Validate reports whether p has enough finite vertices.
func (p Polygon) Validate() error {
	if len(p.Points) < MinPolygonPoints {
		return fmt.Errorf("polygon needs at least %d points, got %d", MinPolygonPoints, len(p.Points))
	}
	for _, pt := range p.Points {
		if math.IsNaN(pt.X) || math.IsNaN(pt.Y) || math.IsInf(pt.X, 0) || math.IsInf(pt.Y, 0) {
			return fmt.Errorf("non-finite vertex %v", pt)
		}
	}
	return nil
}
