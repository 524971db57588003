package annotation

import (
	"context"
	"sync"
)

// MemoryStore keeps annotations in a map.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Annotation
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Annotation)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (Annotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.items[id]
	if !ok {
		return Annotation{}, notFound(id)
	}
	return a.Clone(), nil
}

func (s *MemoryStore) List(_ context.Context, source string) ([]Annotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]Annotation, 0, len(s.items))
	for _, a := range s.items {
		if source == "" || a.Target.Source == source {
			list = append(list, a.Clone())
		}
	}
	sortAnnotations(list)
	return list, nil
}

func (s *MemoryStore) Put(_ context.Context, a Annotation) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[a.ID] = a.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
