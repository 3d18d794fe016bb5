package lists

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/claude/gymtracker/internal/models"
)

var (
	ErrNotFound     = errors.New("item not found")
	ErrNotConfirmed = errors.New("deletion not confirmed")
)

// List is an ordered in-memory collection, most recent first.
type List[T any] struct {
	mu    sync.Mutex
	items []T
	id    func(T) string
}

func newList[T any](seed []T, id func(T) string) *List[T] {
	return &List[T]{items: slices.Clone(seed), id: id}
}

// All returns the items in display order.
func (l *List[T]) All() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Get returns the item with the given id.
func (l *List[T]) Get(id string) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, it := range l.items {
		if l.id(it) == id {
			return it, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%s: %w", id, ErrNotFound)
}

// Deliver prepends a handed-off item unless an item with the same id is
// already present. It reports whether the item was inserted.
func (l *List[T]) Deliver(item T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.id(item)
	for _, it := range l.items {
		if l.id(it) == id {
			return false
		}
	}
	l.items = slices.Insert(l.items, 0, item)
	return true
}

func (l *List[T]) remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := slices.IndexFunc(l.items, func(it T) bool { return l.id(it) == id })
	if i < 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	l.items = slices.Delete(l.items, i, i+1)
	return nil
}

// Workouts is the workout history list.
type Workouts = List[models.Workout]

// NewWorkouts returns a workout list seeded with seed, in the given order.
func NewWorkouts(seed []models.Workout) *Workouts {
	return newList(seed, func(w models.Workout) string { return w.ID })
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Templates is the template list. Unlike workouts, templates can be deleted.
type Templates struct {
	*List[models.WorkoutTemplate]
}

// NewTemplates returns a template list seeded with seed, in the given order.
func NewTemplates(seed []models.WorkoutTemplate) *Templates {
	return &Templates{newList(seed, func(t models.WorkoutTemplate) string { return t.ID })}
}

// Delete removes the template with the given id once c confirms. Other
// templates keep their relative order.
func (t *Templates) Delete(id string, c Confirmer) error {
	tpl, err := t.Get(id)
	if err != nil {
		return err
	}
	if c == nil || !c.Confirm(fmt.Sprintf("Delete template %q?", tpl.Name)) {
		return ErrNotConfirmed
	}
	return t.remove(id)
}

// SampleWorkouts returns the demo workouts shown on a fresh start.
func SampleWorkouts(now time.Time) []models.Workout {
	sixty, fortyFive := 60, 45
	return []models.Workout{
		{ID: "w1", Name: "Full Body Blast", Date: now, Duration: &sixty, Exercises: []models.WorkoutExercise{}},
		{ID: "w2", Name: "Upper Body Focus", Date: now.Add(-24 * time.Hour), Duration: &fortyFive, Exercises: []models.WorkoutExercise{}},
	}
}

// SampleTemplates returns the demo templates shown on a fresh start.
func SampleTemplates() []models.WorkoutTemplate {
	return []models.WorkoutTemplate{
		{ID: "t1", Name: "Push Day Classic", Description: "Chest, Shoulders, Triceps", Exercises: []models.TemplateExercise{}},
		{ID: "t2", Name: "Leg Day Annihilator", Description: "Quads, Hamstrings, Calves", Exercises: []models.TemplateExercise{}},
	}
}
