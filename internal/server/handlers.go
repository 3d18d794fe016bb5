package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/claude/gymtracker/internal/catalog"
	"github.com/claude/gymtracker/internal/draft"
	"github.com/claude/gymtracker/internal/lists"
	"github.com/claude/gymtracker/internal/session"
	"github.com/claude/gymtracker/internal/views"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleMuscleGroups(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.MuscleGroups())
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	if group := r.URL.Query().Get("muscle_group"); group != "" {
		if _, err := s.catalog.MuscleGroup(group); err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.catalog.ExercisesFor(group))
		return
	}
	writeJSON(w, http.StatusOK, s.catalog.Exercises())
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	ex, err := s.catalog.Exercise(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.history.All())
}

// handleGetHistory returns the last performance for one exercise. Nothing
// recorded is not an error: the body carries "recorded": false.
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "exerciseID")
	p, ok := s.history.Get(id)
	body := map[string]any{"exercise_id": id, "recorded": ok}
	if ok {
		body["reps"] = p.Reps
		body["weight"] = p.Weight
		body["hint"] = views.LastPerformance(p)
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.workouts.All())
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.templates.All())
}

// queryConfirmer answers the delete prompt from the confirm query parameter.
type queryConfirmer struct {
	r *http.Request
}

func (c queryConfirmer) Confirm(string) bool {
	ok, _ := strconv.ParseBool(c.r.URL.Query().Get("confirm"))
	return ok
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.templates.Delete(id, queryConfirmer{r}); err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("template deleted", "template", id)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verrs draft.ValidationErrors
	var refErr *draft.ReferenceError

	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": verrs,
		})
	case errors.As(err, &refErr):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":       refErr.Error(),
			"path":        refErr.Path,
			"exercise_id": refErr.ExerciseID,
		})
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, lists.ErrNotFound),
		errors.Is(err, session.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, lists.ErrNotConfirmed):
		writeJSON(w, http.StatusPreconditionFailed, map[string]string{"error": err.Error()})
	case errors.Is(err, draft.ErrIndexOutOfRange),
		errors.Is(err, draft.ErrUnknownField),
		errors.Is(err, draft.ErrInvalidValue),
		errors.Is(err, draft.ErrWrongKind),
		errors.Is(err, session.ErrUnknownOrigin):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// pathIndex parses a non-negative integer URL parameter.
func pathIndex(r *http.Request, name string) (int, bool) {
	i, ok := pathInt(r, name)
	if !ok || i < 0 {
		return 0, false
	}
	return i, true
}

// pathInt parses any integer URL parameter. Remove routes use it since a
// remove outside the list is a no-op rather than a bad request.
func pathInt(r *http.Request, name string) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, false
	}
	return i, true
}
