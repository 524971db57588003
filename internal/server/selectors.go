package server

import (
	"net/http"

	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/selector"
)

type parseRequest struct {
	Selector selector.Selector      `json:"selector"`
	Image    *selector.ImageContext `json:"image,omitempty"`
}

// shape is the JSON form of a geometry. Exactly one of Rect and Polygon is
// set.
type shape struct {
	Type    geom.ShapeType `json:"type"`
	Rect    *geom.Rect     `json:"rect,omitempty"`
	Polygon []geom.Point   `json:"polygon,omitempty"`
	Bounds  geom.Rect      `json:"bounds"`
}

type serializeRequest struct {
	Rect    *geom.Rect             `json:"rect,omitempty"`
	Polygon []geom.Point           `json:"polygon,omitempty"`
	Image   *selector.ImageContext `json:"image,omitempty"`
}

func (s *Server) imageContext(img *selector.ImageContext) selector.ImageContext {
	if img != nil {
		return *img
	}
	return s.img
}

func (s *Server) handleParseSelector(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := selector.ParseIn(req.Selector, s.imageContext(req.Image))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := shape{Type: g.ShapeType(), Bounds: g.Bounds()}
	switch v := g.(type) {
	case geom.Rect:
		out.Rect = &v
	case geom.Polygon:
		out.Polygon = v.Points
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSerializeSelector(w http.ResponseWriter, r *http.Request) {
	var req serializeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var g geom.Geometry
	switch {
	case req.Rect != nil && req.Polygon != nil:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "give either rect or polygon, not both"))
		return
	case req.Rect != nil:
		g = *req.Rect
	case req.Polygon != nil:
		g = geom.Polygon{Points: req.Polygon}
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "rect or polygon is required"))
		return
	}

	if v, ok := g.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "%v", err))
			return
		}
	}
	sel, err := selector.Serialize(g, s.imageContext(req.Image))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}
