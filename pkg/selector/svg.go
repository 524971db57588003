package selector

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/a9s/pkg/geom"
)

var polygonPointsRe = regexp.MustCompile(`<polygon[^>]*\bpoints\s*=\s*["']([^"']*)["']`)

// SerializeSVG renders a polygon as an SVG selector.
func SerializeSVG(p geom.Polygon) Selector {
	var b strings.Builder
	b.WriteString(`<svg><polygon points="`)
	for i, pt := range p.Points {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(pt.X, 'f', -1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(pt.Y, 'f', -1, 64))
	}
	b.WriteString(`"></polygon></svg>`)
	return Selector{Type: TypeSVG, Value: b.String()}
}

// ParseSVG extracts the polygon of an SVG selector.
func ParseSVG(sel Selector) (geom.Polygon, error) {
	if sel.Type != "" && sel.Type != TypeSVG {
		return geom.Polygon{}, malformed("expected %s, got %q", TypeSVG, sel.Type)
	}
	m := polygonPointsRe.FindStringSubmatch(sel.Value)
	if m == nil {
		return geom.Polygon{}, malformed("no polygon points in %q", sel.Value)
	}

	fields := strings.Fields(m[1])
	pts := make([]geom.Point, 0, len(fields))
	for _, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return geom.Polygon{}, malformed("invalid point %q", f)
		}
		x, errX := strconv.ParseFloat(xs, 64)
		y, errY := strconv.ParseFloat(ys, 64)
		if errX != nil || errY != nil || math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			return geom.Polygon{}, malformed("invalid point %q", f)
		}
		pts = append(pts, geom.Point{X: x, Y: y})
	}

	poly := geom.Polygon{Points: pts}
	if err := poly.Validate(); err != nil {
		return geom.Polygon{}, malformed("%v", err)
	}
	return poly, nil
}
