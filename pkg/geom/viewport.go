package geom

// Viewport maps device coordinates to image space: a device position d
// corresponds to image position (d - Offset) / Zoom on each axis.
// ZoomX and ZoomY may differ, which terminals need because cells are not
// square.
type Viewport struct {
	ZoomX, ZoomY     float64
	OffsetX, OffsetY float64
}

// Identity is the viewport where device and image space coincide.
var Identity = Viewport{ZoomX: 1, ZoomY: 1}

// ToImageSpace converts a device position into image space.
func (v Viewport) ToImageSpace(dx, dy float64) Point {
	zx, zy := v.ZoomX, v.ZoomY
	if zx == 0 {
		zx = 1
	}
	if zy == 0 {
		zy = 1
	}
	return Point{X: (dx - v.OffsetX) / zx, Y: (dy - v.OffsetY) / zy}
}

// ToDevice is the inverse of ToImageSpace.
func (v Viewport) ToDevice(p Point) (float64, float64) {
	zx, zy := v.ZoomX, v.ZoomY
	if zx == 0 {
		zx = 1
	}
	if zy == 0 {
		zy = 1
	}
	return p.X*zx + v.OffsetX, p.Y*zy + v.OffsetY
}
