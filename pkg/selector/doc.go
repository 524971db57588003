// Package selector converts shape geometry to and from its persisted
// selector form.
//
// Rectangles are stored as W3C Media Fragment selectors:
//
//	{"type": "FragmentSelector",
//	 "conformsTo": "http://www.w3.org/TR/media-frags/",
//	 "value": "xywh=pixel:10,10,40,70"}
//
// and polygons as SVG selectors:
//
//	{"type": "SvgSelector",
//	 "value": "<svg><polygon points=\"0,0 10,0 10,10\"></polygon></svg>"}
//
// Serialization is pure and deterministic. Parsing never defaults: any
// deviation from the grammar is reported as an error with code
// [errors.ErrCodeMalformedSelector]. For every valid rectangle g with width
// and height of at least one pixel,
//
//	ParseFragment(SerializeFragment(g, img), img) == g
//
// holds exactly in pixel units.
package selector
