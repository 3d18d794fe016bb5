package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/gymtracker/internal/catalog"
	"github.com/claude/gymtracker/internal/handoff"
	"github.com/claude/gymtracker/internal/history"
	"github.com/claude/gymtracker/internal/lists"
	"github.com/claude/gymtracker/internal/session"
	"github.com/go-chi/chi/v5"
)

// Page routes that receive handoffs.
const (
	workoutSessionRoute = "/workout-session"
	newTemplateRoute    = "/new-template"
)

// Deps are the components the HTTP layer serves.
type Deps struct {
	Catalog   *catalog.Catalog
	History   *history.Cache
	Workouts  *lists.Workouts
	Templates *lists.Templates
	Mailbox   *handoff.Mailbox
	Sessions  *session.Manager
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	catalog   *catalog.Catalog
	history   *history.Cache
	workouts  *lists.Workouts
	templates *lists.Templates
	mailbox   *handoff.Mailbox
	sessions  *session.Manager
	log       *slog.Logger
	now       func() time.Time
	router    chi.Router
}

// New creates a new Server with all routes configured.
func New(d Deps, log *slog.Logger) *Server {
	s := &Server{
		catalog:   d.Catalog,
		history:   d.History,
		workouts:  d.Workouts,
		templates: d.Templates,
		mailbox:   d.Mailbox,
		sessions:  d.Sessions,
		log:       log,
		now:       time.Now,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Pages
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, session.WorkoutsRoute, http.StatusFound)
	})
	s.router.Get(session.WorkoutsRoute, s.handleWorkoutsPage)
	s.router.Get(session.TemplatesRoute, s.handleTemplatesPage)
	s.router.Get("/templates/{id}/edit", s.handleEditTemplate)
	s.router.Get("/new-workout", s.handleNewWorkoutPage)
	s.router.Post("/new-workout", s.handleChooseWorkout)
	s.router.Get(workoutSessionRoute, s.handleWorkoutSessionPage)
	s.router.Get(newTemplateRoute, s.handleNewTemplatePage)
	s.router.NotFound(s.handleNotFound)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog/muscle-groups", s.handleMuscleGroups)
		r.Get("/catalog/exercises", s.handleExercises)
		r.Get("/catalog/exercises/{id}", s.handleGetExercise)

		r.Get("/history", s.handleHistory)
		r.Get("/history/{exerciseID}", s.handleGetHistory)

		r.Get("/workouts", s.handleListWorkouts)
		r.Get("/templates", s.handleListTemplates)
		r.Delete("/templates/{id}", s.handleDeleteTemplate)

		r.Route("/drafts/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetDraft)
			r.Patch("/", s.handleSetField)
			r.Delete("/", s.handleDiscardDraft)
			r.Post("/exercises", s.handleAddExercise)
			r.Delete("/exercises/{ex}", s.handleRemoveExercise)
			r.Post("/exercises/{ex}/sets", s.handleAddSet)
			r.Delete("/exercises/{ex}/sets/{set}", s.handleRemoveSet)
			r.Post("/exercises/{ex}/sets/{set}/toggle", s.handleToggleSet)
			r.Post("/validate", s.handleValidateDraft)
			r.Post("/submit", s.handleSubmitDraft)
		})
	})
}

// MountMCP serves an MCP handler under /mcp. A non-empty apiKey is required
// in the X-API-Key header of every MCP request.
func (s *Server) MountMCP(h http.Handler, apiKey string) {
	if apiKey != "" {
		h = APIKeyAuth(apiKey)(h)
	}
	s.router.Handle("/mcp", h)
	s.router.Handle("/mcp/*", h)
}
