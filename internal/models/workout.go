package models

import "time"

// MuscleGroup is a catalog entry an exercise can target.
type MuscleGroup struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Exercise is a catalog entry. MuscleGroups is ordered and never empty.
type Exercise struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	MuscleGroups []MuscleGroup `json:"muscle_groups"`
	Description  string        `json:"description,omitempty"`
}

// WorkoutSet is a single set. Reps is positive, Weight is in kg and non-negative.
type WorkoutSet struct {
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	Completed bool    `json:"completed"`
}

// WorkoutExercise is one exercise performed within a workout, with its sets in order.
type WorkoutExercise struct {
	Exercise Exercise     `json:"exercise"`
	Sets     []WorkoutSet `json:"sets"`
	Notes    string       `json:"notes,omitempty"`
}

// Workout is a finished session. It is not modified after submission.
type Workout struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Date      time.Time         `json:"date"`
	Duration  *int              `json:"duration,omitempty"` // minutes
	Notes     string            `json:"notes,omitempty"`
	Exercises []WorkoutExercise `json:"exercises"`
}

// TemplateExercise pairs an exercise with target sets. The completed flag of
// template sets carries no meaning.
type TemplateExercise struct {
	Exercise Exercise     `json:"exercise"`
	Sets     []WorkoutSet `json:"sets"`
}

// WorkoutTemplate is a reusable workout plan.
type WorkoutTemplate struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Exercises   []TemplateExercise `json:"exercises"`
}

// Performance is the last recorded reps/weight for an exercise.
type Performance struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// SetCount returns the total number of sets across all exercises.
func (w Workout) SetCount() int {
	n := 0
	for _, ex := range w.Exercises {
		n += len(ex.Sets)
	}
	return n
}

// SetCount returns the total number of target sets across all exercises.
func (t WorkoutTemplate) SetCount() int {
	n := 0
	for _, ex := range t.Exercises {
		n += len(ex.Sets)
	}
	return n
}

// ExerciseNames returns exercise names in workout order.
func (w Workout) ExerciseNames() []string {
	names := make([]string, 0, len(w.Exercises))
	for _, ex := range w.Exercises {
		names = append(names, ex.Exercise.Name)
	}
	return names
}

// ExerciseNames returns exercise names in template order.
func (t WorkoutTemplate) ExerciseNames() []string {
	names := make([]string, 0, len(t.Exercises))
	for _, ex := range t.Exercises {
		names = append(names, ex.Exercise.Name)
	}
	return names
}
