package geom

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 Point
		want   Rect
	}{
		{"down-right drag", Pt(10, 10), Pt(50, 80), Rect{10, 10, 40, 70}},
		{"up-left drag", Pt(50, 80), Pt(10, 10), Rect{10, 10, 40, 70}},
		{"mixed drag", Pt(50, 10), Pt(10, 80), Rect{10, 10, 40, 70}},
		{"zero drag", Pt(5, 5), Pt(5, 5), Rect{5, 5, 1, 1}},
		{"sub-pixel drag", Pt(5, 5), Pt(5.5, 5.25), Rect{5, 5, 1, 1}},
		{"negative coords", Pt(-10, -20), Pt(10, 20), Rect{-10, -20, 20, 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.p1, tt.p2); got != tt.want {
				t.Errorf("Normalize(%v, %v) = %v, want %v", tt.p1, tt.p2, got, tt.want)
			}
		})
	}
}

func TestNormalizeProperty(t *testing.T) {
	coords := []float64{-100, -3.5, 0, 0.25, 1, 7, 250}
	for _, x1 := range coords {
		for _, y1 := range coords {
			for _, x2 := range coords {
				for _, y2 := range coords {
					p1, p2 := Pt(x1, y1), Pt(x2, y2)
					r := Normalize(p1, p2)
					if r.X != math.Min(x1, x2) || r.Y != math.Min(y1, y2) {
						t.Fatalf("Normalize(%v, %v) origin = %v", p1, p2, r.Origin())
					}
					if r.W != math.Max(1, math.Abs(x2-x1)) || r.H != math.Max(1, math.Abs(y2-y1)) {
						t.Fatalf("Normalize(%v, %v) size = %gx%g", p1, p2, r.W, r.H)
					}
					if err := r.Validate(); err != nil {
						t.Fatalf("Normalize(%v, %v) invalid: %v", p1, p2, err)
					}
				}
			}
		}
	}
}

func TestCorners(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 50}
	want := [4]Point{{0, 0}, {100, 0}, {100, 50}, {0, 50}}

	if got := r.Corners(); got != want {
		t.Errorf("Corners() = %v, want %v", got, want)
	}
	for c := TopLeft; c <= BottomLeft; c++ {
		if got := r.Corner(c); got != want[c] {
			t.Errorf("Corner(%v) = %v, want %v", c, got, want[c])
		}
	}
}

func TestCornerOpposite(t *testing.T) {
	tests := []struct {
		c, want Corner
	}{
		{TopLeft, BottomRight},
		{TopRight, BottomLeft},
		{BottomRight, TopLeft},
		{BottomLeft, TopRight},
	}
	for _, tt := range tests {
		if got := tt.c.Opposite(); got != tt.want {
			t.Errorf("%v.Opposite() = %v, want %v", tt.c, got, tt.want)
		}
		if got := tt.c.Opposite().Opposite(); got != tt.c {
			t.Errorf("%v.Opposite().Opposite() = %v", tt.c, got)
		}
	}
	if Corner(4).Valid() || Corner(-1).Valid() {
		t.Error("out of range corners reported valid")
	}
}

func TestRectValidate(t *testing.T) {
	tests := []struct {
		name    string
		r       Rect
		wantErr bool
	}{
		{"normal", Rect{1, 2, 3, 4}, false},
		{"degenerate", Rect{1, 2, 0, 0}, false},
		{"negative width", Rect{0, 0, -1, 4}, true},
		{"negative height", Rect{0, 0, 1, -4}, true},
		{"nan", Rect{math.NaN(), 0, 1, 1}, true},
		{"inf", Rect{0, 0, math.Inf(1), 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.r.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRectContainsAndIntersect(t *testing.T) {
	r := Rect{10, 10, 40, 70}
	if !r.Contains(Pt(10, 10)) || !r.Contains(Pt(50, 80)) || !r.Contains(Pt(30, 30)) {
		t.Error("Contains() rejected an inside point")
	}
	if r.Contains(Pt(9, 10)) || r.Contains(Pt(51, 30)) {
		t.Error("Contains() accepted an outside point")
	}

	img := Rect{0, 0, 30, 30}
	if got, want := r.Intersect(img), (Rect{10, 10, 20, 20}); got != want {
		t.Errorf("Intersect() = %v, want %v", got, want)
	}
	if got := r.Intersect(Rect{100, 100, 5, 5}); got != (Rect{}) {
		t.Errorf("Intersect() of disjoint rects = %v, want zero", got)
	}
}

func TestPolygon(t *testing.T) {
	p := Polygon{Points: []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}}

	if got, want := p.Bounds(), (Rect{0, 0, 10, 10}); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
	if !p.Contains(Pt(5, 5)) {
		t.Error("Contains(5,5) = false, want true")
	}
	if p.Contains(Pt(15, 5)) {
		t.Error("Contains(15,5) = true, want false")
	}

	moved := p.Translate(Pt(5, -5))
	if moved.Points[0] != Pt(5, -5) || p.Points[0] != Pt(0, 0) {
		t.Errorf("Translate() = %v, original %v", moved.Points, p.Points)
	}

	if err := (Polygon{Points: []Point{{0, 0}, {1, 1}}}).Validate(); err == nil {
		t.Error("Validate() accepted a two-point polygon")
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestViewport(t *testing.T) {
	v := Viewport{ZoomX: 2, ZoomY: 4, OffsetX: 10, OffsetY: 20}

	p := v.ToImageSpace(30, 60)
	if want := Pt(10, 10); p != want {
		t.Errorf("ToImageSpace(30, 60) = %v, want %v", p, want)
	}
	if dx, dy := v.ToDevice(p); dx != 30 || dy != 60 {
		t.Errorf("ToDevice(%v) = (%g, %g), want (30, 60)", p, dx, dy)
	}
	if got := Identity.ToImageSpace(3, 4); got != Pt(3, 4) {
		t.Errorf("Identity.ToImageSpace(3, 4) = %v", got)
	}
	if got := (Viewport{}).ToImageSpace(3, 4); got != Pt(3, 4) {
		t.Errorf("zero Viewport.ToImageSpace(3, 4) = %v", got)
	}
}
