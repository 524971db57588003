package annotation

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/a9s/pkg/errors"
)

// FileStore keeps one JSON file per annotation in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates the directory if needed and returns a store on it.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "file store needs a directory")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create annotation dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) annotationPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(_ context.Context, id string) (Annotation, error) {
	if err := errors.ValidateAnnotationID(id); err != nil {
		return Annotation{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.annotationPath(id), id)
}

func (s *FileStore) read(path, id string) (Annotation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Annotation{}, notFound(id)
		}
		return Annotation{}, errors.Wrap(errors.ErrCodeStore, err, "read annotation file")
	}
	var a Annotation
	if err := json.Unmarshal(data, &a); err != nil {
		return Annotation{}, errors.Wrap(errors.ErrCodeStore, err, "parse annotation %s", id)
	}
	return a, nil
}

func (s *FileStore) List(_ context.Context, source string) ([]Annotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read annotation dir")
	}

	var list []Annotation
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		a, err := s.read(filepath.Join(s.baseDir, entry.Name()), entry.Name())
		if err != nil {
			continue
		}
		if source == "" || a.Target.Source == source {
			list = append(list, a)
		}
	}
	sortAnnotations(list)
	return list, nil
}

// Put writes the file through a temporary file and a rename, so readers
// never see a partial document.
func (s *FileStore) Put(_ context.Context, a Annotation) error {
	if err := a.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal annotation")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.annotationPath(a.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write annotation file")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeStore, err, "write annotation file")
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := errors.ValidateAnnotationID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.annotationPath(id)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStore, err, "remove annotation file")
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for annotation files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
