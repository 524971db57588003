package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/a9s/pkg/cache"
	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/render/svg"
)

// handleRender draws the annotations of a source as SVG. The response is
// cached under a key covering the annotation set, size, style and
// selection, so edits never serve stale output.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	source := q.Get("source")
	if source == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "source is required"))
		return
	}
	img := s.img
	for _, p := range []struct {
		name string
		dst  *float64
	}{{"width", &img.Width}, {"height", &img.Height}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "%s must be a positive number, got %q", p.name, v))
			return
		}
		*p.dst = f
	}
	selected := q.Get("selected")

	list, err := s.store.List(r.Context(), source)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	content, err := json.Marshal(list)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "hash annotations"))
		return
	}
	key := cache.RenderKey(source, cache.Hash(content), cache.RenderKeyOpts{
		Width:    img.Width,
		Height:   img.Height,
		Style:    svg.ComputeStyle(&s.style) + svg.ComputeStyle(&s.selectedStyle),
		Selected: []string{selected},
	})

	if data, ok, err := s.cache.Get(r.Context(), key); err != nil {
		s.logger.Warn("render cache read failed", "err", err)
	} else if ok {
		writeSVG(w, data, "HIT")
		return
	}

	data, err := svg.RenderAnnotations(list, img,
		svg.WithStyle(s.style),
		svg.WithSelectedStyle(s.selectedStyle),
		svg.WithSelected(selected),
	)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.cache.Set(r.Context(), key, data, s.renderTTL); err != nil {
		s.logger.Warn("render cache write failed", "err", err)
	}
	writeSVG(w, data, "MISS")
}

func writeSVG(w http.ResponseWriter, data []byte, cacheStatus string) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
