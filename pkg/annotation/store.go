package annotation

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/observability"
)

// Store persists annotations. Implementations are safe for concurrent use.
type Store interface {
	// Get returns the annotation with the given ID, or an
	// ANNOTATION_NOT_FOUND error.
	Get(ctx context.Context, id string) (Annotation, error)

	// List returns the annotations on source ordered by creation time. An
	// empty source lists everything.
	List(ctx context.Context, source string) ([]Annotation, error)

	// Put inserts or replaces an annotation.
	Put(ctx context.Context, a Annotation) error

	// Delete removes an annotation. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend connections.
	Close() error
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeAnnotationNotFound, "annotation %q not found", id)
}

func sortAnnotations(list []Annotation) {
	slices.SortFunc(list, func(a, b Annotation) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// =============================================================================
// Instrumentation
// =============================================================================

// instrumented reports every operation of a backend to the store hooks.
type instrumented struct {
	backend string
	next    Store
}

// Instrument wraps s so that each operation is reported to
// observability.Store() under the given backend name.
func Instrument(backend string, s Store) Store {
	return &instrumented{backend: backend, next: s}
}

func (s *instrumented) observe(ctx context.Context, op string, start time.Time, err error) {
	observability.Store().OnStoreOp(ctx, s.backend, op, time.Since(start), err)
}

func (s *instrumented) Get(ctx context.Context, id string) (Annotation, error) {
	start := time.Now()
	a, err := s.next.Get(ctx, id)
	s.observe(ctx, "get", start, err)
	return a, err
}

func (s *instrumented) List(ctx context.Context, source string) ([]Annotation, error) {
	start := time.Now()
	list, err := s.next.List(ctx, source)
	s.observe(ctx, "list", start, err)
	return list, err
}

func (s *instrumented) Put(ctx context.Context, a Annotation) error {
	start := time.Now()
	err := s.next.Put(ctx, a)
	s.observe(ctx, "put", start, err)
	return err
}

func (s *instrumented) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.Delete(ctx, id)
	s.observe(ctx, "delete", start, err)
	return err
}

func (s *instrumented) Close() error { return s.next.Close() }
