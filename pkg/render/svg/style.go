package svg

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/a9s/pkg/annotation"
)

// DefaultFillOpacity applies when a style leaves FillOpacity at zero.
const DefaultFillOpacity = 0.25

// DrawingStyle is the per-annotation appearance.
type DrawingStyle struct {
	Fill        string  `json:"fill,omitempty"`
	FillOpacity float64 `json:"fillOpacity,omitempty"`
}

// StyleFunc computes a style for one annotation. A nil result leaves the
// annotation unstyled.
type StyleFunc func(annotation.Annotation) *DrawingStyle

// ComputeStyle turns a style into an inline CSS declaration list:
// "fill:C;stroke:C;fill-opacity:O;". The fill part is omitted when Fill is
// empty. A nil style yields "".
func ComputeStyle(s *DrawingStyle) string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	if s.Fill != "" {
		fill := normalizeColor(s.Fill)
		b.WriteString("fill:" + fill + ";stroke:" + fill + ";")
	}
	opacity := s.FillOpacity
	if opacity == 0 {
		opacity = DefaultFillOpacity
	}
	b.WriteString("fill-opacity:" + strconv.FormatFloat(opacity, 'f', -1, 64) + ";")
	return b.String()
}

// normalizeColor rewrites hex colors as lowercase #rrggbb. Other CSS color
// values pass through.
func normalizeColor(c string) string {
	if col, err := colorful.Hex(c); err == nil {
		return col.Hex()
	}
	return c
}
