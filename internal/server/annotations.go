package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/a9s/pkg/annotation"
	"github.com/matzehuels/a9s/pkg/buildinfo"
	"github.com/matzehuels/a9s/pkg/errors"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleListAnnotations(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context(), r.URL.Query().Get("source"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateAnnotation(w http.ResponseWriter, r *http.Request) {
	var ann annotation.Annotation
	if err := decodeJSON(r, &ann); err != nil {
		s.writeError(w, r, err)
		return
	}
	if ann.ID == "" {
		ann.ID = uuid.NewString()
	} else if _, err := s.store.Get(r.Context(), ann.ID); err == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "annotation %q already exists", ann.ID))
		return
	} else if !errors.IsNotFound(err) {
		s.writeError(w, r, err)
		return
	}
	if ann.Created.IsZero() {
		ann.Created = s.now().UTC()
	}
	if err := ann.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Put(r.Context(), ann); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/annotations/"+ann.ID)
	writeJSON(w, http.StatusCreated, ann)
}

func (s *Server) handleGetAnnotation(w http.ResponseWriter, r *http.Request) {
	ann, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ann)
}

func (s *Server) handleUpdateAnnotation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	prev, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var ann annotation.Annotation
	if err := decodeJSON(r, &ann); err != nil {
		s.writeError(w, r, err)
		return
	}
	if ann.ID != "" && ann.ID != id {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "body id %q does not match path id %q", ann.ID, id))
		return
	}
	ann.ID = id
	ann.Created = prev.Created
	ann.Updated = s.now().UTC()
	if err := ann.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Put(r.Context(), ann); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ann)
}

func (s *Server) handleDeleteAnnotation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.Get(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
