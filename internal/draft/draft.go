package draft

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/claude/gymtracker/internal/models"
	"github.com/google/uuid"
)

// Kind distinguishes workout drafts from template drafts.
type Kind string

const (
	KindWorkout  Kind = "workout"
	KindTemplate Kind = "template"
)

// DefaultWorkoutName is used when a session is started without a name.
const DefaultWorkoutName = "New Workout"

// Default values for a newly added set.
const (
	DefaultReps   = 8
	DefaultWeight = 0
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrUnknownField    = errors.New("unknown field")
	ErrInvalidValue    = errors.New("invalid value")
	ErrWrongKind       = errors.New("wrong draft kind")
)

// Set is an editable set row.
type Set struct {
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	Completed bool    `json:"completed"`
}

// Exercise is an editable exercise row. ExerciseID is empty until selected.
type Exercise struct {
	ExerciseID string `json:"exercise_id"`
	Sets       []Set  `json:"sets"`
	Notes      string `json:"notes,omitempty"`
}

// Recorder receives last-performance writes when a set is completed.
type Recorder interface {
	Record(ctx context.Context, exerciseID string, reps int, weight float64) error
}

// Resolver resolves exercise ids at submit time.
type Resolver interface {
	Exercise(id string) (models.Exercise, error)
}

// Draft is an in-progress workout or template. It is not safe for concurrent use.
type Draft struct {
	Kind        Kind       `json:"kind"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Exercises   []Exercise `json:"exercises"`
	StartedAt   time.Time  `json:"started_at"`

	now   func() time.Time
	newID func() string
}

// Option configures a Draft.
type Option func(*Draft)

// WithClock overrides the time source used for StartedAt, dates and durations.
func WithClock(now func() time.Time) Option {
	return func(d *Draft) { d.now = now }
}

// WithIDGenerator overrides the id generator used on submit.
func WithIDGenerator(newID func() string) Option {
	return func(d *Draft) { d.newID = newID }
}

func newDraft(kind Kind, opts []Option) *Draft {
	d := &Draft{
		Kind:      kind,
		Exercises: []Exercise{},
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, o := range opts {
		o(d)
	}
	d.StartedAt = d.now()
	return d
}

// NewWorkout starts an empty workout draft. An empty name falls back to DefaultWorkoutName.
func NewWorkout(name string, opts ...Option) *Draft {
	d := newDraft(KindWorkout, opts)
	d.Name = name
	if d.Name == "" {
		d.Name = DefaultWorkoutName
	}
	return d
}

// NewTemplate starts an empty template draft.
func NewTemplate(opts ...Option) *Draft {
	return newDraft(KindTemplate, opts)
}

// FromTemplate starts a workout draft pre-filled with the template's exercises.
// Sets keep their target reps and weight and start uncompleted.
func FromTemplate(t models.WorkoutTemplate, name string, opts ...Option) *Draft {
	d := NewWorkout(name, opts...)
	for _, te := range t.Exercises {
		ex := Exercise{ExerciseID: te.Exercise.ID, Sets: make([]Set, 0, len(te.Sets))}
		for _, s := range te.Sets {
			ex.Sets = append(ex.Sets, Set{Reps: s.Reps, Weight: s.Weight})
		}
		d.Exercises = append(d.Exercises, ex)
	}
	return d
}

func defaultSet() Set {
	return Set{Reps: DefaultReps, Weight: DefaultWeight}
}

// AddExercise appends an unselected exercise with one default set and returns its index.
func (d *Draft) AddExercise() int {
	d.Exercises = append(d.Exercises, Exercise{Sets: []Set{defaultSet()}})
	return len(d.Exercises) - 1
}

// RemoveExercise deletes the exercise at index. Out-of-range indexes are ignored.
func (d *Draft) RemoveExercise(index int) {
	if index < 0 || index >= len(d.Exercises) {
		return
	}
	d.Exercises = append(d.Exercises[:index], d.Exercises[index+1:]...)
}

// AddSet appends a default set to the exercise and returns the set index, or
// -1 when the exercise index is out of range.
func (d *Draft) AddSet(exerciseIndex int) int {
	if exerciseIndex < 0 || exerciseIndex >= len(d.Exercises) {
		return -1
	}
	ex := &d.Exercises[exerciseIndex]
	ex.Sets = append(ex.Sets, defaultSet())
	return len(ex.Sets) - 1
}

// RemoveSet deletes a set. Out-of-range indexes are ignored. Removing the last
// set is allowed; Validate reports it.
func (d *Draft) RemoveSet(exerciseIndex, setIndex int) {
	if exerciseIndex < 0 || exerciseIndex >= len(d.Exercises) {
		return
	}
	ex := &d.Exercises[exerciseIndex]
	if setIndex < 0 || setIndex >= len(ex.Sets) {
		return
	}
	ex.Sets = append(ex.Sets[:setIndex], ex.Sets[setIndex+1:]...)
}

func (d *Draft) set(exerciseIndex, setIndex int) (*Exercise, *Set, error) {
	if exerciseIndex < 0 || exerciseIndex >= len(d.Exercises) {
		return nil, nil, ErrIndexOutOfRange
	}
	ex := &d.Exercises[exerciseIndex]
	if setIndex < 0 || setIndex >= len(ex.Sets) {
		return nil, nil, ErrIndexOutOfRange
	}
	return ex, &ex.Sets[setIndex], nil
}

// ToggleSetCompleted flips a set's completed flag and returns the new value.
// Going from not completed to completed records the set's reps and weight for
// the selected exercise; going back does not touch the history. No history
// write happens while no exercise is selected.
func (d *Draft) ToggleSetCompleted(ctx context.Context, rec Recorder, exerciseIndex, setIndex int) (bool, error) {
	ex, s, err := d.set(exerciseIndex, setIndex)
	if err != nil {
		return false, err
	}
	s.Completed = !s.Completed
	if s.Completed && rec != nil && ex.ExerciseID != "" {
		if err := rec.Record(ctx, ex.ExerciseID, s.Reps, s.Weight); err != nil {
			return true, err
		}
	}
	return s.Completed, nil
}

// Validate checks the draft and returns ValidationErrors, or nil when valid.
func (d *Draft) Validate() error {
	var errs ValidationErrors

	if strings.TrimSpace(d.Name) == "" {
		msg := "Workout name is required."
		if d.Kind == KindTemplate {
			msg = "Template name is required."
		}
		errs = append(errs, FieldError{Path: "name", Message: msg})
	}

	for i, ex := range d.Exercises {
		if ex.ExerciseID == "" {
			errs = append(errs, FieldError{Path: exercisePath(i, "exerciseId"), Message: "Exercise is required."})
		}
		if len(ex.Sets) == 0 {
			errs = append(errs, FieldError{Path: exercisePath(i, "sets"), Message: "Add at least one set."})
		}
		for j, s := range ex.Sets {
			if s.Reps < 1 {
				errs = append(errs, FieldError{Path: setPath(i, j, "reps"), Message: "Min 1 rep."})
			}
			if s.Weight < 0 || math.IsNaN(s.Weight) {
				errs = append(errs, FieldError{Path: setPath(i, j, "weight"), Message: "Min 0 weight."})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (d *Draft) resolve(r Resolver) ([]models.Exercise, error) {
	resolved := make([]models.Exercise, len(d.Exercises))
	for i, ex := range d.Exercises {
		found, err := r.Exercise(ex.ExerciseID)
		if err != nil {
			return nil, &ReferenceError{Path: exercisePath(i, "exerciseId"), ExerciseID: ex.ExerciseID, Err: err}
		}
		resolved[i] = found
	}
	return resolved, nil
}

func copySets(sets []Set, keepCompleted bool) []models.WorkoutSet {
	out := make([]models.WorkoutSet, len(sets))
	for i, s := range sets {
		out[i] = models.WorkoutSet{Reps: s.Reps, Weight: s.Weight}
		if keepCompleted {
			out[i].Completed = s.Completed
		}
	}
	return out
}

// SubmitWorkout validates the draft, resolves exercises against r and returns
// the finished workout with a fresh id, the current date and the elapsed
// minutes since the draft was started.
func (d *Draft) SubmitWorkout(r Resolver) (models.Workout, error) {
	if d.Kind != KindWorkout {
		return models.Workout{}, ErrWrongKind
	}
	if err := d.Validate(); err != nil {
		return models.Workout{}, err
	}
	resolved, err := d.resolve(r)
	if err != nil {
		return models.Workout{}, err
	}

	now := d.now()
	duration := int(math.Round(now.Sub(d.StartedAt).Minutes()))
	w := models.Workout{
		ID:        d.newID(),
		Name:      d.Name,
		Date:      now,
		Duration:  &duration,
		Notes:     d.Notes,
		Exercises: make([]models.WorkoutExercise, len(d.Exercises)),
	}
	for i, ex := range d.Exercises {
		w.Exercises[i] = models.WorkoutExercise{
			Exercise: resolved[i],
			Sets:     copySets(ex.Sets, true),
			Notes:    ex.Notes,
		}
	}
	return w, nil
}

// SubmitTemplate validates the draft, resolves exercises against r and returns
// the finished template with a fresh id.
func (d *Draft) SubmitTemplate(r Resolver) (models.WorkoutTemplate, error) {
	if d.Kind != KindTemplate {
		return models.WorkoutTemplate{}, ErrWrongKind
	}
	if err := d.Validate(); err != nil {
		return models.WorkoutTemplate{}, err
	}
	resolved, err := d.resolve(r)
	if err != nil {
		return models.WorkoutTemplate{}, err
	}

	t := models.WorkoutTemplate{
		ID:          d.newID(),
		Name:        d.Name,
		Description: d.Description,
		Exercises:   make([]models.TemplateExercise, len(d.Exercises)),
	}
	for i, ex := range d.Exercises {
		t.Exercises[i] = models.TemplateExercise{
			Exercise: resolved[i],
			Sets:     copySets(ex.Sets, false),
		}
	}
	return t, nil
}

// Clone returns a deep copy of the draft.
func (d *Draft) Clone() *Draft {
	c := *d
	c.Exercises = make([]Exercise, len(d.Exercises))
	for i, ex := range d.Exercises {
		ex.Sets = append([]Set{}, ex.Sets...)
		c.Exercises[i] = ex
	}
	return &c
}
