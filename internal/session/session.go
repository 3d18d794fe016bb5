package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/gymtracker/internal/catalog"
	"github.com/claude/gymtracker/internal/draft"
	"github.com/claude/gymtracker/internal/handoff"
	"github.com/claude/gymtracker/internal/history"
	"github.com/claude/gymtracker/internal/lists"
	"github.com/claude/gymtracker/internal/models"
	"github.com/claude/gymtracker/internal/views"
	"github.com/google/uuid"
)

// Destination routes for submitted drafts.
const (
	WorkoutsRoute  = "/workouts"
	TemplatesRoute = "/templates"
)

// DefaultIdleTTL is how long an untouched draft stays open.
const DefaultIdleTTL = 2 * time.Hour

var (
	ErrNotFound      = errors.New("session not found")
	ErrUnknownOrigin = errors.New("unknown session origin")
)

// Origin says how a workout session was started.
type Origin string

const (
	OriginScratch  Origin = "scratch"
	OriginTemplate Origin = "template"
)

// Start is the handoff from the new-workout page to the session page.
type Start struct {
	Origin      Origin `json:"origin"`
	TemplateID  string `json:"template_id,omitempty"`
	WorkoutName string `json:"workout_name,omitempty"`
}

// View is the rendering of an open draft.
type View struct {
	ID string `json:"id"`
	*draft.Draft
	// LastPerformance holds the history hint per exercise row, "" when none.
	LastPerformance []string `json:"last_performance"`
}

// Result is returned by a successful Submit.
type Result struct {
	Kind     draft.Kind              `json:"kind"`
	Redirect string                  `json:"redirect"`
	Workout  *models.Workout         `json:"workout,omitempty"`
	Template *models.WorkoutTemplate `json:"template,omitempty"`
}

// Manager keeps the open drafts and routes submitted items to their list pages.
type Manager struct {
	catalog   *catalog.Catalog
	history   *history.Cache
	templates *lists.Templates
	mailbox   *handoff.Mailbox
	log       *slog.Logger
	now       func() time.Time
	idleTTL   time.Duration

	mu     sync.Mutex
	drafts map[string]*openDraft
}

type openDraft struct {
	*draft.Draft
	lastUsed time.Time
}

// NewManager creates a Manager.
func NewManager(cat *catalog.Catalog, hist *history.Cache, templates *lists.Templates, mailbox *handoff.Mailbox, log *slog.Logger) *Manager {
	return &Manager{
		catalog:   cat,
		history:   hist,
		templates: templates,
		mailbox:   mailbox,
		log:       log,
		now:       time.Now,
		idleTTL:   DefaultIdleTTL,
		drafts:    make(map[string]*openDraft),
	}
}

// SetIdleTTL changes how long an untouched draft stays open. Zero or less
// keeps drafts until they are submitted or discarded.
func (m *Manager) SetIdleTTL(ttl time.Duration) {
	m.mu.Lock()
	m.idleTTL = ttl
	m.mu.Unlock()
}

// Len returns the number of drafts currently open.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictIdle()
	return len(m.drafts)
}

func (m *Manager) open(d *draft.Draft) string {
	id := uuid.NewString()
	m.mu.Lock()
	m.evictIdle()
	m.drafts[id] = &openDraft{Draft: d, lastUsed: m.now()}
	m.mu.Unlock()
	return id
}

// evictIdle drops drafts untouched for longer than the idle TTL.
// Callers hold m.mu.
func (m *Manager) evictIdle() {
	if m.idleTTL <= 0 {
		return
	}
	cutoff := m.now().Add(-m.idleTTL)
	for id, od := range m.drafts {
		if od.lastUsed.Before(cutoff) {
			delete(m.drafts, id)
			m.log.Debug("idle draft evicted", "session", id, "kind", od.Kind, "idle_since", od.lastUsed)
		}
	}
}

// lookup returns an open draft and marks it used. Callers hold m.mu.
func (m *Manager) lookup(id string) (*draft.Draft, error) {
	m.evictIdle()
	od, ok := m.drafts[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	od.lastUsed = m.now()
	return od.Draft, nil
}

// StartWorkout opens a workout draft from scratch or from a template and
// reloads the history cache so hints reflect the persisted state.
func (m *Manager) StartWorkout(ctx context.Context, s Start) (View, error) {
	var d *draft.Draft
	switch s.Origin {
	case OriginScratch, "":
		d = draft.NewWorkout(s.WorkoutName, draft.WithClock(m.now))
	case OriginTemplate:
		tpl, err := m.templates.Get(s.TemplateID)
		if err != nil {
			return View{}, fmt.Errorf("starting from template: %w", err)
		}
		name := s.WorkoutName
		if name == "" {
			name = tpl.Name
		}
		d = draft.FromTemplate(tpl, name, draft.WithClock(m.now))
	default:
		return View{}, fmt.Errorf("%q: %w", s.Origin, ErrUnknownOrigin)
	}

	m.history.Load(ctx)
	id := m.open(d)
	m.log.Info("workout session started", "session", id, "origin", s.Origin, "exercises", len(d.Exercises))
	return m.view(id, d), nil
}

// StartTemplate opens an empty template draft.
func (m *Manager) StartTemplate() View {
	d := draft.NewTemplate(draft.WithClock(m.now))
	id := m.open(d)
	m.log.Info("template draft started", "session", id)
	return m.view(id, d)
}

func (m *Manager) view(id string, d *draft.Draft) View {
	v := View{ID: id, Draft: d.Clone(), LastPerformance: make([]string, len(d.Exercises))}
	for i, ex := range d.Exercises {
		if ex.ExerciseID == "" {
			continue
		}
		if p, ok := m.history.Get(ex.ExerciseID); ok {
			v.LastPerformance[i] = views.LastPerformance(p)
		}
	}
	return v
}

// with runs fn on the draft under the manager lock and returns the updated view.
func (m *Manager) with(id string, fn func(d *draft.Draft) error) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.lookup(id)
	if err != nil {
		return View{}, err
	}
	if err := fn(d); err != nil {
		return m.view(id, d), err
	}
	return m.view(id, d), nil
}

// Get returns the current view of a draft.
func (m *Manager) Get(id string) (View, error) {
	return m.with(id, func(*draft.Draft) error { return nil })
}

// AddExercise appends a placeholder exercise row.
func (m *Manager) AddExercise(id string) (View, int, error) {
	var index int
	v, err := m.with(id, func(d *draft.Draft) error {
		index = d.AddExercise()
		return nil
	})
	return v, index, err
}

// RemoveExercise deletes an exercise row; out-of-range indexes are ignored.
func (m *Manager) RemoveExercise(id string, index int) (View, error) {
	return m.with(id, func(d *draft.Draft) error {
		d.RemoveExercise(index)
		return nil
	})
}

// AddSet appends a default set to an exercise row.
func (m *Manager) AddSet(id string, exerciseIndex int) (View, error) {
	return m.with(id, func(d *draft.Draft) error {
		if d.AddSet(exerciseIndex) < 0 {
			return draft.ErrIndexOutOfRange
		}
		return nil
	})
}

// RemoveSet deletes a set; out-of-range indexes are ignored.
func (m *Manager) RemoveSet(id string, exerciseIndex, setIndex int) (View, error) {
	return m.with(id, func(d *draft.Draft) error {
		d.RemoveSet(exerciseIndex, setIndex)
		return nil
	})
}

// SetField updates one leaf field of a draft.
func (m *Manager) SetField(id, path string, value any) (View, error) {
	return m.with(id, func(d *draft.Draft) error {
		return d.SetField(path, value)
	})
}

// ToggleSet flips a set's completed flag, recording history on completion.
// A failed history write is logged and does not undo the toggle.
func (m *Manager) ToggleSet(ctx context.Context, id string, exerciseIndex, setIndex int) (View, error) {
	return m.with(id, func(d *draft.Draft) error {
		_, err := d.ToggleSetCompleted(ctx, m.history, exerciseIndex, setIndex)
		if errors.Is(err, draft.ErrIndexOutOfRange) {
			return err
		}
		if err != nil {
			m.log.Warn("history write failed", "session", id, "error", err)
		}
		return nil
	})
}

// Validate returns the draft's validation errors, or nil.
func (m *Manager) Validate(id string) (View, error) {
	return m.with(id, func(d *draft.Draft) error {
		return d.Validate()
	})
}

// Submit finishes a draft. On success the finished item is handed off to
// its list page and the draft is closed. On failure the draft stays open.
func (m *Manager) Submit(id string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.lookup(id)
	if err != nil {
		return Result{}, err
	}

	var res Result
	switch d.Kind {
	case draft.KindWorkout:
		w, err := d.SubmitWorkout(m.catalog)
		if err != nil {
			return Result{}, err
		}
		res = Result{Kind: d.Kind, Redirect: WorkoutsRoute, Workout: &w}
		m.warnPending(WorkoutsRoute, id)
		m.mailbox.Put(WorkoutsRoute, w)
		m.log.Info("workout completed", "session", id, "workout", w.ID, "exercises", len(w.Exercises))
	case draft.KindTemplate:
		t, err := d.SubmitTemplate(m.catalog)
		if err != nil {
			return Result{}, err
		}
		res = Result{Kind: d.Kind, Redirect: TemplatesRoute, Template: &t}
		m.warnPending(TemplatesRoute, id)
		m.mailbox.Put(TemplatesRoute, t)
		m.log.Info("template created", "session", id, "template", t.ID, "exercises", len(t.Exercises))
	}

	delete(m.drafts, id)
	return res, nil
}

// warnPending logs when a submit is about to replace a handoff its list page
// has not picked up yet.
func (m *Manager) warnPending(route, id string) {
	if m.mailbox.Peek(route) {
		m.log.Warn("replacing undelivered handoff", "destination", route, "session", id)
	}
}

// Discard closes a draft without submitting it.
func (m *Manager) Discard(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.lookup(id); err != nil {
		return err
	}
	delete(m.drafts, id)
	return nil
}
