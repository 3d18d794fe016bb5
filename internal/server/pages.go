package server

import (
	"encoding/json"
	"net/http"

	"github.com/claude/gymtracker/internal/draft"
	"github.com/claude/gymtracker/internal/models"
	"github.com/claude/gymtracker/internal/session"
	"github.com/claude/gymtracker/internal/views"
	"github.com/go-chi/chi/v5"
)

// NavItem is one entry of the navigation bar.
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

var nav = []NavItem{
	{Label: "Workouts", Path: session.WorkoutsRoute},
	{Label: "Templates", Path: session.TemplatesRoute},
}

type workoutsPage struct {
	Title    string              `json:"title"`
	Nav      []NavItem           `json:"nav"`
	Workouts []views.WorkoutCard `json:"workouts"`
	Empty    string              `json:"empty,omitempty"`
}

type templatesPage struct {
	Title     string               `json:"title"`
	Nav       []NavItem            `json:"nav"`
	Templates []views.TemplateCard `json:"templates"`
	Empty     string               `json:"empty,omitempty"`
}

type templateOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type newWorkoutPage struct {
	Title       string           `json:"title"`
	Nav         []NavItem        `json:"nav"`
	DefaultName string           `json:"default_name"`
	Templates   []templateOption `json:"templates"`
}

type editorPage struct {
	Title     string            `json:"title"`
	Nav       []NavItem         `json:"nav"`
	Draft     session.View      `json:"draft"`
	Exercises []models.Exercise `json:"exercises"`
}

type notFoundPage struct {
	Title string    `json:"title"`
	Path  string    `json:"path"`
	Nav   []NavItem `json:"nav"`
}

// handleWorkoutsPage applies a pending completed workout, then renders the list.
func (s *Server) handleWorkoutsPage(w http.ResponseWriter, r *http.Request) {
	if v, ok := s.mailbox.Take(session.WorkoutsRoute); ok {
		if wk, ok := v.(models.Workout); ok && s.workouts.Deliver(wk) {
			s.log.Info("workout added to list", "workout", wk.ID)
		}
	}
	page := workoutsPage{
		Title:    "Workouts",
		Nav:      nav,
		Workouts: views.Workouts(s.workouts.All(), s.now()),
	}
	if len(page.Workouts) == 0 {
		page.Empty = "No workouts logged yet. Start your first one!"
	}
	writeJSON(w, http.StatusOK, page)
}

// handleTemplatesPage applies a pending new template, then renders the list.
func (s *Server) handleTemplatesPage(w http.ResponseWriter, r *http.Request) {
	if v, ok := s.mailbox.Take(session.TemplatesRoute); ok {
		if t, ok := v.(models.WorkoutTemplate); ok && s.templates.Deliver(t) {
			s.log.Info("template added to list", "template", t.ID)
		}
	}
	page := templatesPage{
		Title:     "Templates",
		Nav:       nav,
		Templates: views.Templates(s.templates.All()),
	}
	if len(page.Templates) == 0 {
		page.Empty = "No templates created yet. Add your first one!"
	}
	writeJSON(w, http.StatusOK, page)
}

// handleEditTemplate hands the template to the template editor. The editor
// does not pre-fill from it yet.
func (s *Server) handleEditTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.templates.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.mailbox.Put(newTemplateRoute, t)
	http.Redirect(w, r, newTemplateRoute, http.StatusSeeOther)
}

func (s *Server) handleNewWorkoutPage(w http.ResponseWriter, r *http.Request) {
	tpls := s.templates.All()
	page := newWorkoutPage{
		Title:       "New Workout",
		Nav:         nav,
		DefaultName: draft.DefaultWorkoutName,
		Templates:   make([]templateOption, len(tpls)),
	}
	for i, t := range tpls {
		page.Templates[i] = templateOption{ID: t.ID, Name: t.Name}
	}
	writeJSON(w, http.StatusOK, page)
}

// handleChooseWorkout records how the session should start and sends the
// client to the session page.
func (s *Server) handleChooseWorkout(w http.ResponseWriter, r *http.Request) {
	var start session.Start
	if err := json.NewDecoder(r.Body).Decode(&start); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	switch start.Origin {
	case session.OriginScratch:
	case session.OriginTemplate:
		if _, err := s.templates.Get(start.TemplateID); err != nil {
			s.writeError(w, err)
			return
		}
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "origin must be scratch or template"})
		return
	}
	s.mailbox.Put(workoutSessionRoute, start)
	http.Redirect(w, r, workoutSessionRoute, http.StatusSeeOther)
}

// handleWorkoutSessionPage opens a workout draft from the pending start
// choice. Without one the session starts from scratch.
func (s *Server) handleWorkoutSessionPage(w http.ResponseWriter, r *http.Request) {
	start := session.Start{Origin: session.OriginScratch}
	if v, ok := s.mailbox.Take(workoutSessionRoute); ok {
		if st, ok := v.(session.Start); ok {
			start = st
		}
	}
	view, err := s.sessions.StartWorkout(r.Context(), start)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, editorPage{
		Title:     view.Name,
		Nav:       nav,
		Draft:     view,
		Exercises: s.catalog.Exercises(),
	})
}

func (s *Server) handleNewTemplatePage(w http.ResponseWriter, r *http.Request) {
	if v, ok := s.mailbox.Take(newTemplateRoute); ok {
		if t, ok := v.(models.WorkoutTemplate); ok {
			s.log.Debug("edit handoff received, editor starts empty", "template", t.ID)
		}
	}
	view := s.sessions.StartTemplate()
	writeJSON(w, http.StatusOK, editorPage{
		Title:     "New Template",
		Nav:       nav,
		Draft:     view,
		Exercises: s.catalog.Exercises(),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, notFoundPage{
		Title: "Page not found",
		Path:  r.URL.Path,
		Nav:   nav,
	})
}
