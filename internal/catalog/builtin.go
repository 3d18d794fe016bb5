package catalog

import "github.com/claude/gymtracker/internal/models"

var builtinGroups = []models.MuscleGroup{
	{ID: "chest", Name: "Chest"},
	{ID: "back", Name: "Back"},
	{ID: "shoulders", Name: "Shoulders"},
	{ID: "biceps", Name: "Biceps"},
	{ID: "triceps", Name: "Triceps"},
	{ID: "legs", Name: "Legs"},
	{ID: "abs", Name: "Abs"},
	{ID: "cardio", Name: "Cardio"},
}

var builtinExercises = []struct {
	id, name string
	groups   []string
}{
	{"bench_press", "Bench Press", []string{"chest", "triceps", "shoulders"}},
	{"squat", "Squat", []string{"legs"}},
	{"deadlift", "Deadlift", []string{"back", "legs"}},
	{"overhead_press", "Overhead Press", []string{"shoulders"}},
	{"pull_up", "Pull Up", []string{"back", "biceps"}},
	{"bicep_curl", "Bicep Curl", []string{"biceps"}},
	{"tricep_pushdown", "Tricep Pushdown", []string{"triceps"}},
	{"leg_press", "Leg Press", []string{"legs"}},
	{"plank", "Plank", []string{"abs"}},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	byID := make(map[string]models.MuscleGroup, len(builtinGroups))
	for _, g := range builtinGroups {
		byID[g.ID] = g
	}

	exercises := make([]models.Exercise, 0, len(builtinExercises))
	for _, b := range builtinExercises {
		ex := models.Exercise{ID: b.id, Name: b.name}
		for _, gid := range b.groups {
			ex.MuscleGroups = append(ex.MuscleGroups, byID[gid])
		}
		exercises = append(exercises, ex)
	}

	c, err := New(builtinGroups, exercises)
	if err != nil {
		panic("catalog: invalid built-in catalog: " + err.Error())
	}
	return c
}
