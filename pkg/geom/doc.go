// Package geom provides the image-space geometry shared by the drawing
// tools, the selector codec and the renderers.
//
// All coordinates are in image pixel space. A [Rect] is the canonical
// rectangle geometry {x, y, w, h}; [Normalize] turns an arbitrary pair of
// points into a Rect with non-negative (at least one pixel) width and height.
// Rectangle corners are indexed in a fixed clockwise order:
//
//	0 TopLeft ── 1 TopRight
//	│                   │
//	3 BottomLeft ─ 2 BottomRight
//
// so the diagonally opposite corner of index i is (i+2) mod 4.
//
// Device coordinates (terminal cells, screen pixels) are converted with a
// [Viewport] before any geometry math.
package geom
