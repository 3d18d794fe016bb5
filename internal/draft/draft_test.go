package draft

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/claude/gymtracker/internal/catalog"
	"github.com/claude/gymtracker/internal/models"
)

type recorded struct {
	exerciseID string
	reps       int
	weight     float64
}

type fakeRecorder struct {
	calls []recorded
}

func (f *fakeRecorder) Record(_ context.Context, exerciseID string, reps int, weight float64) error {
	f.calls = append(f.calls, recorded{exerciseID, reps, weight})
	return nil
}

func fixedClock(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}
}

func mustSet(t *testing.T, d *Draft, path string, value any) {
	t.Helper()
	if err := d.SetField(path, value); err != nil {
		t.Fatalf("SetField(%q): %v", path, err)
	}
}

// TestAddExerciseDefaults verifies a new exercise row has no selection and one 8x0 set.
func TestAddExerciseDefaults(t *testing.T) {
	d := NewTemplate()
	if i := d.AddExercise(); i != 0 {
		t.Errorf("first index = %d, want 0", i)
	}
	if i := d.AddExercise(); i != 1 {
		t.Errorf("second index = %d, want 1", i)
	}
	ex := d.Exercises[0]
	if ex.ExerciseID != "" {
		t.Errorf("exercise id = %q, want empty", ex.ExerciseID)
	}
	if len(ex.Sets) != 1 || ex.Sets[0] != (Set{Reps: 8, Weight: 0}) {
		t.Errorf("sets = %+v, want one {8 0 false}", ex.Sets)
	}
}

// TestRemoveExercise verifies removal shifts later rows down and ignores bad indexes.
func TestRemoveExercise(t *testing.T) {
	d := NewTemplate()
	for _, id := range []string{"squat", "deadlift", "plank"} {
		i := d.AddExercise()
		mustSet(t, d, exercisePath(i, "exerciseId"), id)
	}

	d.RemoveExercise(5)
	d.RemoveExercise(-1)
	if len(d.Exercises) != 3 {
		t.Fatalf("out-of-range remove changed length to %d", len(d.Exercises))
	}

	d.RemoveExercise(0)
	if len(d.Exercises) != 2 || d.Exercises[0].ExerciseID != "deadlift" || d.Exercises[1].ExerciseID != "plank" {
		t.Errorf("after remove = %+v, want [deadlift plank]", d.Exercises)
	}
}

// TestAddRemoveSet verifies set-level add/remove, including removing the last set.
func TestAddRemoveSet(t *testing.T) {
	d := NewWorkout("")
	d.AddExercise()
	if j := d.AddSet(0); j != 1 {
		t.Errorf("AddSet index = %d, want 1", j)
	}
	if j := d.AddSet(3); j != -1 {
		t.Errorf("AddSet(out of range) = %d, want -1", j)
	}
	mustSet(t, d, "exercises.0.sets.1.reps", 10)

	d.RemoveSet(0, 0)
	if len(d.Exercises[0].Sets) != 1 || d.Exercises[0].Sets[0].Reps != 10 {
		t.Errorf("sets = %+v, want [{10 0}]", d.Exercises[0].Sets)
	}
	d.RemoveSet(0, 9)
	d.RemoveSet(4, 0)
	if len(d.Exercises[0].Sets) != 1 {
		t.Errorf("out-of-range RemoveSet changed sets")
	}

	d.RemoveSet(0, 0)
	if len(d.Exercises[0].Sets) != 0 {
		t.Errorf("last set not removed")
	}
	err := d.Validate()
	var verrs ValidationErrors
	if !errors.As(err, &verrs) || !verrs.Has("exercises.0.sets") {
		t.Errorf("Validate() = %v, want error on exercises.0.sets", err)
	}
}

// TestSetField verifies leaf updates, numeric coercion and path errors.
func TestSetField(t *testing.T) {
	d := NewWorkout("Morning")
	d.AddExercise()

	mustSet(t, d, "name", "Evening")
	mustSet(t, d, "notes", "felt strong")
	mustSet(t, d, "exercises.0.exerciseId", "squat")
	mustSet(t, d, "exercises.0.notes", "belt")
	mustSet(t, d, "exercises.0.sets.0.reps", "5")
	mustSet(t, d, "exercises.0.sets.0.weight", 102.5)

	if d.Name != "Evening" || d.Notes != "felt strong" {
		t.Errorf("name/notes = %q/%q", d.Name, d.Notes)
	}
	ex := d.Exercises[0]
	if ex.ExerciseID != "squat" || ex.Notes != "belt" {
		t.Errorf("exercise = %+v", ex)
	}
	if ex.Sets[0].Reps != 5 || ex.Sets[0].Weight != 102.5 {
		t.Errorf("set = %+v, want {5 102.5}", ex.Sets[0])
	}

	tests := []struct {
		path  string
		value any
		want  error
	}{
		{"description", "x", ErrUnknownField},
		{"exercises.0.sets.0.rpe", 8, ErrUnknownField},
		{"exercises.x.exerciseId", "squat", ErrUnknownField},
		{"exercises.3.exerciseId", "squat", ErrIndexOutOfRange},
		{"exercises.0.sets.4.reps", 3, ErrIndexOutOfRange},
		{"exercises.0.sets.0.reps", "eight", ErrInvalidValue},
		{"exercises.0.sets.0.reps", 7.5, ErrInvalidValue},
		{"exercises.0.sets.0.reps", 1e20, ErrInvalidValue},
		{"exercises.0.sets.0.reps", -1e20, ErrInvalidValue},
		{"name", 42, ErrInvalidValue},
		{"bogus.path", "x", ErrUnknownField},
	}
	for _, tt := range tests {
		if err := d.SetField(tt.path, tt.value); !errors.Is(err, tt.want) {
			t.Errorf("SetField(%q, %v) = %v, want %v", tt.path, tt.value, err, tt.want)
		}
	}
}

// TestTemplateFields verifies template drafts accept description but not workout notes.
func TestTemplateFields(t *testing.T) {
	d := NewTemplate()
	d.AddExercise()
	mustSet(t, d, "description", "Chest day")
	if d.Description != "Chest day" {
		t.Errorf("description = %q", d.Description)
	}
	if err := d.SetField("notes", "x"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("SetField(notes) on template = %v, want ErrUnknownField", err)
	}
	if err := d.SetField("exercises.0.notes", "x"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("SetField(exercise notes) on template = %v, want ErrUnknownField", err)
	}
}

// TestToggleSetCompletedRecordsHistory verifies false->true writes history and true->false does not.
func TestToggleSetCompletedRecordsHistory(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecorder{}
	d := NewWorkout("")
	d.AddExercise()
	mustSet(t, d, "exercises.0.exerciseId", "bench_press")
	mustSet(t, d, "exercises.0.sets.0.weight", 40)

	done, err := d.ToggleSetCompleted(ctx, rec, 0, 0)
	if err != nil || !done {
		t.Fatalf("toggle on = %v, %v; want true, nil", done, err)
	}
	if len(rec.calls) != 1 || rec.calls[0] != (recorded{"bench_press", 8, 40}) {
		t.Fatalf("history calls = %+v, want one {bench_press 8 40}", rec.calls)
	}

	done, err = d.ToggleSetCompleted(ctx, rec, 0, 0)
	if err != nil || done {
		t.Fatalf("toggle off = %v, %v; want false, nil", done, err)
	}
	if len(rec.calls) != 1 {
		t.Errorf("toggle off wrote history: %+v", rec.calls)
	}
}

// TestToggleWithoutSelection verifies no history write happens before an exercise is selected.
func TestToggleWithoutSelection(t *testing.T) {
	rec := &fakeRecorder{}
	d := NewWorkout("")
	d.AddExercise()

	if _, err := d.ToggleSetCompleted(context.Background(), rec, 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Exercises[0].Sets[0].Completed {
		t.Error("set not marked completed")
	}
	if len(rec.calls) != 0 {
		t.Errorf("history written for unselected exercise: %+v", rec.calls)
	}
}

// TestToggleOutOfRange verifies toggling a missing set returns ErrIndexOutOfRange.
func TestToggleOutOfRange(t *testing.T) {
	d := NewWorkout("")
	if _, err := d.ToggleSetCompleted(context.Background(), nil, 0, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("error = %v, want ErrIndexOutOfRange", err)
	}
}

// TestValidate verifies every rejection rule with its field path and message.
func TestValidate(t *testing.T) {
	d := NewTemplate()
	d.AddExercise()
	d.AddExercise()
	d.AddExercise()
	mustSet(t, d, "exercises.1.exerciseId", "squat")
	mustSet(t, d, "exercises.1.sets.0.reps", 0)
	mustSet(t, d, "exercises.1.sets.0.weight", -5)
	mustSet(t, d, "exercises.2.exerciseId", "plank")
	d.RemoveSet(2, 0)

	err := d.Validate()
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Validate() = %v, want ValidationErrors", err)
	}

	want := map[string]string{
		"name":                      "Template name is required.",
		"exercises.0.exerciseId":    "Exercise is required.",
		"exercises.1.sets.0.reps":   "Min 1 rep.",
		"exercises.1.sets.0.weight": "Min 0 weight.",
		"exercises.2.sets":          "Add at least one set.",
	}
	if len(verrs) != len(want) {
		t.Errorf("got %d errors, want %d: %v", len(verrs), len(want), verrs)
	}
	for _, fe := range verrs {
		if msg, ok := want[fe.Path]; !ok || msg != fe.Message {
			t.Errorf("unexpected error %s: %q", fe.Path, fe.Message)
		}
	}
}

// TestValidateWhitespaceName verifies a blank workout name is rejected with the workout message.
func TestValidateWhitespaceName(t *testing.T) {
	d := NewWorkout("x")
	mustSet(t, d, "name", "   ")
	err := d.Validate()
	var verrs ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) != 1 || verrs[0].Message != "Workout name is required." {
		t.Errorf("Validate() = %v, want single workout name error", err)
	}
}

// TestSubmitTemplatePushDay verifies the Push Day example from template creation.
func TestSubmitTemplatePushDay(t *testing.T) {
	d := NewTemplate(WithIDGenerator(func() string { return "tpl-1" }))
	mustSet(t, d, "name", "Push Day")
	d.AddExercise()
	d.AddSet(0)
	mustSet(t, d, "exercises.0.exerciseId", "bench_press")
	mustSet(t, d, "exercises.0.sets.0.weight", 40)
	mustSet(t, d, "exercises.0.sets.1.weight", 45)

	tpl, err := d.SubmitTemplate(catalog.Default())
	if err != nil {
		t.Fatalf("SubmitTemplate: %v", err)
	}
	if tpl.ID != "tpl-1" || tpl.Name != "Push Day" {
		t.Errorf("template = %q/%q", tpl.ID, tpl.Name)
	}
	if len(tpl.Exercises) != 1 || len(tpl.Exercises[0].Sets) != 2 {
		t.Fatalf("shape = %+v, want 1 exercise with 2 sets", tpl.Exercises)
	}
	if tpl.Exercises[0].Exercise.Name != "Bench Press" {
		t.Errorf("exercise = %q, want Bench Press", tpl.Exercises[0].Exercise.Name)
	}
	if s := tpl.Exercises[0].Sets[1]; s.Reps != 8 || s.Weight != 45 {
		t.Errorf("set 2 = %+v, want {8 45}", s)
	}
}

// TestSubmitWorkoutStampsDateAndDuration verifies id, date and rounded minutes on submit.
func TestSubmitWorkoutStampsDateAndDuration(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(47*time.Minute + 40*time.Second)
	d := NewWorkout("Leg Day", WithClock(fixedClock(start, end)))
	d.AddExercise()
	mustSet(t, d, "exercises.0.exerciseId", "squat")
	mustSet(t, d, "notes", "good session")
	if _, err := d.ToggleSetCompleted(context.Background(), nil, 0, 0); err != nil {
		t.Fatal(err)
	}

	w, err := d.SubmitWorkout(catalog.Default())
	if err != nil {
		t.Fatalf("SubmitWorkout: %v", err)
	}
	if w.ID == "" {
		t.Error("empty id")
	}
	if !w.Date.Equal(end) {
		t.Errorf("date = %v, want %v", w.Date, end)
	}
	if w.Duration == nil || *w.Duration != 48 {
		t.Errorf("duration = %v, want 48", w.Duration)
	}
	if w.Notes != "good session" {
		t.Errorf("notes = %q", w.Notes)
	}
	if !w.Exercises[0].Sets[0].Completed {
		t.Error("completed flag not carried into workout")
	}
}

// TestSubmitFreshIDs verifies repeated submits produce distinct ids.
func TestSubmitFreshIDs(t *testing.T) {
	seen := map[string]bool{"bench_press": true}
	for i := 0; i < 20; i++ {
		d := NewWorkout("")
		w, err := d.SubmitWorkout(catalog.Default())
		if err != nil {
			t.Fatalf("SubmitWorkout: %v", err)
		}
		if seen[w.ID] {
			t.Fatalf("id %q repeated", w.ID)
		}
		seen[w.ID] = true
	}
}

// TestSubmitValidationFailure verifies submit returns field errors and nothing else.
func TestSubmitValidationFailure(t *testing.T) {
	d := NewTemplate()
	_, err := d.SubmitTemplate(catalog.Default())
	var verrs ValidationErrors
	if !errors.As(err, &verrs) || !verrs.Has("name") {
		t.Errorf("SubmitTemplate() = %v, want name validation error", err)
	}
}

// TestSubmitReferenceError verifies an id missing from the catalog fails the whole submit.
func TestSubmitReferenceError(t *testing.T) {
	d := NewWorkout("")
	d.AddExercise()
	d.AddExercise()
	mustSet(t, d, "exercises.0.exerciseId", "squat")
	mustSet(t, d, "exercises.1.exerciseId", "retired_machine")

	_, err := d.SubmitWorkout(catalog.Default())
	var refErr *ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("SubmitWorkout() = %v, want ReferenceError", err)
	}
	if refErr.Path != "exercises.1.exerciseId" || refErr.ExerciseID != "retired_machine" {
		t.Errorf("reference error = %+v", refErr)
	}
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Error("ReferenceError does not unwrap to catalog.ErrNotFound")
	}
}

// TestSubmitWrongKind verifies submitting a template draft as a workout is rejected.
func TestSubmitWrongKind(t *testing.T) {
	if _, err := NewTemplate().SubmitWorkout(catalog.Default()); !errors.Is(err, ErrWrongKind) {
		t.Errorf("error = %v, want ErrWrongKind", err)
	}
	if _, err := NewWorkout("").SubmitTemplate(catalog.Default()); !errors.Is(err, ErrWrongKind) {
		t.Errorf("error = %v, want ErrWrongKind", err)
	}
}

// TestFromTemplate verifies a session started from a template copies sets uncompleted.
func TestFromTemplate(t *testing.T) {
	bench, _ := catalog.Default().Exercise("bench_press")
	tpl := models.WorkoutTemplate{
		ID:   "t1",
		Name: "Push",
		Exercises: []models.TemplateExercise{{
			Exercise: bench,
			Sets:     []models.WorkoutSet{{Reps: 5, Weight: 60, Completed: true}, {Reps: 5, Weight: 65}},
		}},
	}

	d := FromTemplate(tpl, "")
	if d.Kind != KindWorkout || d.Name != DefaultWorkoutName {
		t.Errorf("kind/name = %s/%q", d.Kind, d.Name)
	}
	if len(d.Exercises) != 1 || d.Exercises[0].ExerciseID != "bench_press" {
		t.Fatalf("exercises = %+v", d.Exercises)
	}
	sets := d.Exercises[0].Sets
	if len(sets) != 2 || sets[0] != (Set{Reps: 5, Weight: 60}) || sets[1] != (Set{Reps: 5, Weight: 65}) {
		t.Errorf("sets = %+v", sets)
	}
}

// TestClone verifies a clone shares no exercise or set storage with the original.
func TestClone(t *testing.T) {
	d := NewWorkout("A")
	d.AddExercise()
	c := d.Clone()
	c.Name = "B"
	c.Exercises[0].Sets[0].Reps = 99
	c.AddExercise()

	if d.Name != "A" || d.Exercises[0].Sets[0].Reps != 8 || len(d.Exercises) != 1 {
		t.Errorf("original changed through clone: %+v", d)
	}
}
