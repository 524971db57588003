// Package server exposes annotations over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /annotations?source=
//	POST   /annotations
//	GET    /annotations/{id}
//	PUT    /annotations/{id}
//	DELETE /annotations/{id}
//	POST   /selectors/parse
//	POST   /selectors/serialize
//	GET    /render.svg?source=&width=&height=&selected=
//
// Errors are JSON objects carrying the error code. Validation codes map to
// 400, not-found codes to 404 and everything else to 500.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/a9s/pkg/annotation"
	"github.com/matzehuels/a9s/pkg/cache"
	"github.com/matzehuels/a9s/pkg/render/svg"
	"github.com/matzehuels/a9s/pkg/selector"
)

const shutdownTimeout = 10 * time.Second

// Option configures a Server.
type Option func(*Server)

// WithCache caches /render.svg output.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Server) { s.cache, s.renderTTL = c, ttl }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithImage sets the default image context for selector parsing and
// rendering. Query parameters override its size.
func WithImage(img selector.ImageContext) Option { return func(s *Server) { s.img = img } }

// WithStyles sets the render styles of plain and selected annotations.
func WithStyles(style, selected svg.DrawingStyle) Option {
	return func(s *Server) { s.style, s.selectedStyle = style, selected }
}

// Server serves the annotation API.
type Server struct {
	store         annotation.Store
	cache         cache.Cache
	renderTTL     time.Duration
	logger        *log.Logger
	img           selector.ImageContext
	style         svg.DrawingStyle
	selectedStyle svg.DrawingStyle
	now           func() time.Time
	router        chi.Router
}

// New returns a server backed by store.
func New(store annotation.Store, opts ...Option) *Server {
	s := &Server{
		store:  store,
		cache:  cache.NewNullCache(),
		logger: log.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
