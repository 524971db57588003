package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/annotations", func(r chi.Router) {
		r.Get("/", s.handleListAnnotations)
		r.Post("/", s.handleCreateAnnotation)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetAnnotation)
			r.Put("/", s.handleUpdateAnnotation)
			r.Delete("/", s.handleDeleteAnnotation)
		})
	})

	r.Route("/selectors", func(r chi.Router) {
		r.Post("/parse", s.handleParseSelector)
		r.Post("/serialize", s.handleSerializeSelector)
	})

	r.Get("/render.svg", s.handleRender)
	return r
}

// logRequests logs one line per request at debug level, and at warn level
// for server errors.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"dur", time.Since(start).Round(time.Microsecond),
			"req", middleware.GetReqID(r.Context()),
		}
		if ww.Status() >= http.StatusInternalServerError {
			s.logger.Warn("request failed", fields...)
			return
		}
		s.logger.Debug("request", fields...)
	})
}
