package selector

import (
	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/geom"
)

// Selector types.
const (
	TypeFragment = "FragmentSelector"
	TypeSVG      = "SvgSelector"
)

// MediaFragmentsSpec is the conformsTo value of fragment selectors.
const MediaFragmentsSpec = "http://www.w3.org/TR/media-frags/"

// Selector is the persisted description of a region within a target image.
type Selector struct {
	Type       string `json:"type" bson:"type"`
	ConformsTo string `json:"conformsTo,omitempty" bson:"conformsTo,omitempty"`
	Value      string `json:"value" bson:"value"`
}

// Unit selects how fragment coordinates are expressed.
type Unit string

const (
	UnitPixel   Unit = "pixel"
	UnitPercent Unit = "percent"
)

// ImageContext supplies the normalization base for serialization: the full
// image dimensions and the unit to emit. The zero value serializes pixels.
type ImageContext struct {
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Unit   Unit    `json:"unit,omitempty"`
}

// Bounds returns the image rectangle, or the zero Rect if unknown.
func (c ImageContext) Bounds() geom.Rect {
	return geom.Rect{W: c.Width, H: c.Height}
}

// Parse converts a selector of either type into geometry. Percent fragments
// cannot be resolved without image dimensions; use [ParseFragment] for them.
func Parse(sel Selector) (geom.Geometry, error) {
	return ParseIn(sel, ImageContext{})
}

// ParseIn is Parse with an image context for percent fragments.
func ParseIn(sel Selector, img ImageContext) (geom.Geometry, error) {
	switch sel.Type {
	case TypeFragment:
		return ParseFragment(sel, img)
	case TypeSVG:
		return ParseSVG(sel)
	}
	return nil, errors.New(errors.ErrCodeMalformedSelector, "unsupported selector type %q", sel.Type)
}

// Serialize converts geometry into its selector form.
func Serialize(g geom.Geometry, img ImageContext) (Selector, error) {
	switch s := g.(type) {
	case geom.Rect:
		return SerializeFragment(s, img), nil
	case *geom.Rect:
		return SerializeFragment(*s, img), nil
	case geom.Polygon:
		return SerializeSVG(s), nil
	case *geom.Polygon:
		return SerializeSVG(*s), nil
	}
	return Selector{}, errors.New(errors.ErrCodeUnsupported, "no selector for geometry %T", g)
}
