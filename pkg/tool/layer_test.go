package tool

import (
	"github.com/matzehuels/a9s/pkg/geom"
)

// recordingLayer is a headless Layer that keeps the last drawn state.
type recordingLayer struct {
	rect     geom.Rect
	polygon  []geom.Point
	handles  map[int]geom.Point
	visible  bool
	removed  bool
	draws    int
	showCall int
}

func newRecordingLayer() *recordingLayer {
	return &recordingLayer{handles: make(map[int]geom.Point)}
}

func (l *recordingLayer) Rect(r geom.Rect) {
	if l.removed {
		panic("draw on removed layer")
	}
	l.rect = r
	l.draws++
}

func (l *recordingLayer) Polygon(points []geom.Point) {
	if l.removed {
		panic("draw on removed layer")
	}
	l.polygon = append([]geom.Point(nil), points...)
	l.draws++
}

func (l *recordingLayer) Handle(i int, p geom.Point) {
	if l.removed {
		panic("draw on removed layer")
	}
	l.handles[i] = p
}

func (l *recordingLayer) Handles(n int) {
	if l.removed {
		panic("draw on removed layer")
	}
	for i := range l.handles {
		if i >= n {
			delete(l.handles, i)
		}
	}
}

func (l *recordingLayer) Show(visible bool) {
	l.visible = visible
	l.showCall++
}

func (l *recordingLayer) Remove() {
	l.removed = true
	l.visible = false
}

type recordingRenderer struct {
	layers []*recordingLayer
}

func (r *recordingRenderer) NewLayer(LayerKind) Layer {
	l := newRecordingLayer()
	r.layers = append(r.layers, l)
	return l
}
