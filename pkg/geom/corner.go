package geom

// Corner indexes a rectangle corner in clockwise order.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

// NumCorners is the number of rectangle corners.
const NumCorners = 4

// Opposite returns the diagonally opposite corner, (c+2) mod 4.
func (c Corner) Opposite() Corner { return (c + 2) % NumCorners }

// Valid reports whether c is one of the four corners.
func (c Corner) Valid() bool { return c >= TopLeft && c <= BottomLeft }

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomRight:
		return "bottom-right"
	case BottomLeft:
		return "bottom-left"
	}
	return "invalid"
}
