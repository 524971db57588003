package selector

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/geom"
)

const fragmentPrefix = "xywh="

// numberRe accepts plain decimals; exponents, hex floats and Inf/NaN are not
// part of the media fragment grammar.
var numberRe = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)$`)

// SerializeFragment renders r as a media fragment selector. Numbers use the
// shortest representation that parses back to the same float64.
//
// Percent output is only used when every value converts back to exactly the
// same pixel value; otherwise the fragment falls back to pixel units so that
// ParseFragment always returns r.
func SerializeFragment(r geom.Rect, img ImageContext) Selector {
	unit := UnitPixel
	x, y, w, h := r.X, r.Y, r.W, r.H
	if img.Unit == UnitPercent && img.Width > 0 && img.Height > 0 {
		px, okx := toPercent(r.X, img.Width)
		py, oky := toPercent(r.Y, img.Height)
		pw, okw := toPercent(r.W, img.Width)
		ph, okh := toPercent(r.H, img.Height)
		if okx && oky && okw && okh {
			unit = UnitPercent
			x, y, w, h = px, py, pw, ph
		}
	}

	var b strings.Builder
	b.Grow(40)
	b.WriteString(fragmentPrefix)
	b.WriteString(string(unit))
	b.WriteByte(':')
	for i, v := range [4]float64{x, y, w, h} {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}

	return Selector{
		Type:       TypeFragment,
		ConformsTo: MediaFragmentsSpec,
		Value:      b.String(),
	}
}

// toPercent converts v to a percentage of size and reports whether the
// conversion ParseFragment applies restores v exactly.
func toPercent(v, size float64) (float64, bool) {
	p := v / size * 100
	return p, p*size/100 == v
}

// ParseFragment parses a media fragment selector into a rectangle. img is
// only consulted for percent fragments.
func ParseFragment(sel Selector, img ImageContext) (geom.Rect, error) {
	if sel.Type != "" && sel.Type != TypeFragment {
		return geom.Rect{}, malformed("expected %s, got %q", TypeFragment, sel.Type)
	}
	return parseFragmentValue(sel.Value, img)
}

func parseFragmentValue(value string, img ImageContext) (geom.Rect, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(value), fragmentPrefix)
	if !ok {
		return geom.Rect{}, malformed("value %q does not start with %q", value, fragmentPrefix)
	}

	unit := UnitPixel
	if u, nums, found := strings.Cut(rest, ":"); found {
		switch Unit(u) {
		case UnitPixel, UnitPercent:
			unit = Unit(u)
		default:
			return geom.Rect{}, malformed("unknown unit %q", u)
		}
		rest = nums
	}

	parts := strings.Split(rest, ",")
	if len(parts) != 4 {
		return geom.Rect{}, malformed("expected 4 numbers, got %d in %q", len(parts), value)
	}

	var v [4]float64
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if !numberRe.MatchString(p) {
			return geom.Rect{}, malformed("invalid number %q in %q", p, value)
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil || math.IsInf(f, 0) {
			return geom.Rect{}, malformed("invalid number %q in %q", p, value)
		}
		v[i] = f
	}
	if v[2] < 0 || v[3] < 0 {
		return geom.Rect{}, malformed("negative size in %q", value)
	}

	r := geom.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}
	if unit == UnitPercent {
		if img.Width <= 0 || img.Height <= 0 {
			return geom.Rect{}, malformed("percent fragment %q needs image dimensions", value)
		}
		r = geom.Rect{
			X: r.X * img.Width / 100,
			Y: r.Y * img.Height / 100,
			W: r.W * img.Width / 100,
			H: r.H * img.Height / 100,
		}
	}
	return r, nil
}

func malformed(format string, args ...any) error {
	return errors.New(errors.ErrCodeMalformedSelector, format, args...)
}
