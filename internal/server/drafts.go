package server

import (
	"encoding/json"
	"net/http"

	"github.com/claude/gymtracker/internal/session"
	"github.com/go-chi/chi/v5"
)

// fieldUpdate is the PATCH body for one leaf field of a draft.
type fieldUpdate struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

func (s *Server) writeView(w http.ResponseWriter, status int, v session.View, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, status, v)
}

func badIndex(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid index"})
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	v, err := s.sessions.Get(chi.URLParam(r, "id"))
	s.writeView(w, http.StatusOK, v, err)
}

func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var req fieldUpdate
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "path required"})
		return
	}
	v, err := s.sessions.SetField(chi.URLParam(r, "id"), req.Path, req.Value)
	s.writeView(w, http.StatusOK, v, err)
}

func (s *Server) handleDiscardDraft(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Discard(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	v, index, err := s.sessions.AddExercise(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"index": index, "draft": v})
}

func (s *Server) handleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	ex, ok := pathInt(r, "ex")
	if !ok {
		badIndex(w)
		return
	}
	v, err := s.sessions.RemoveExercise(chi.URLParam(r, "id"), ex)
	s.writeView(w, http.StatusOK, v, err)
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	ex, ok := pathIndex(r, "ex")
	if !ok {
		badIndex(w)
		return
	}
	v, err := s.sessions.AddSet(chi.URLParam(r, "id"), ex)
	s.writeView(w, http.StatusCreated, v, err)
}

func (s *Server) handleRemoveSet(w http.ResponseWriter, r *http.Request) {
	ex, ok := pathInt(r, "ex")
	set, ok2 := pathInt(r, "set")
	if !ok || !ok2 {
		badIndex(w)
		return
	}
	v, err := s.sessions.RemoveSet(chi.URLParam(r, "id"), ex, set)
	s.writeView(w, http.StatusOK, v, err)
}

func (s *Server) handleToggleSet(w http.ResponseWriter, r *http.Request) {
	ex, ok := pathIndex(r, "ex")
	set, ok2 := pathIndex(r, "set")
	if !ok || !ok2 {
		badIndex(w)
		return
	}
	v, err := s.sessions.ToggleSet(r.Context(), chi.URLParam(r, "id"), ex, set)
	s.writeView(w, http.StatusOK, v, err)
}

// handleValidateDraft reports field errors without submitting. A valid draft
// returns 200 with an empty error list.
func (s *Server) handleValidateDraft(w http.ResponseWriter, r *http.Request) {
	_, err := s.sessions.Validate(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "fields": []any{}})
}

// handleSubmitDraft finishes a draft and points the client at the list page
// that will pick up the handoff.
func (s *Server) handleSubmitDraft(w http.ResponseWriter, r *http.Request) {
	res, err := s.sessions.Submit(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Location", res.Redirect)
	writeJSON(w, http.StatusCreated, res)
}
