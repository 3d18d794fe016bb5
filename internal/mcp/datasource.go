package mcp

import (
	"context"

	"github.com/claude/gymtracker/internal/catalog"
	"github.com/claude/gymtracker/internal/history"
	"github.com/claude/gymtracker/internal/lists"
	"github.com/claude/gymtracker/internal/models"
)

// DataSource abstracts the data layer for MCP tools. Both Local (in-process)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	MuscleGroups(ctx context.Context) ([]models.MuscleGroup, error)
	Exercises(ctx context.Context, muscleGroup string) ([]models.Exercise, error)
	Exercise(ctx context.Context, id string) (models.Exercise, error)
	History(ctx context.Context) (map[string]models.Performance, error)
	Workouts(ctx context.Context) ([]models.Workout, error)
	Templates(ctx context.Context) ([]models.WorkoutTemplate, error)
}

// Local serves MCP requests from the running service's own components.
type Local struct {
	catalog   *catalog.Catalog
	history   *history.Cache
	workouts  *lists.Workouts
	templates *lists.Templates
}

// NewLocal returns a DataSource over the given components.
func NewLocal(cat *catalog.Catalog, hist *history.Cache, workouts *lists.Workouts, templates *lists.Templates) *Local {
	return &Local{catalog: cat, history: hist, workouts: workouts, templates: templates}
}

// Compile-time check: Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

func (l *Local) MuscleGroups(context.Context) ([]models.MuscleGroup, error) {
	return l.catalog.MuscleGroups(), nil
}

func (l *Local) Exercises(_ context.Context, muscleGroup string) ([]models.Exercise, error) {
	if muscleGroup == "" {
		return l.catalog.Exercises(), nil
	}
	if _, err := l.catalog.MuscleGroup(muscleGroup); err != nil {
		return nil, err
	}
	return l.catalog.ExercisesFor(muscleGroup), nil
}

func (l *Local) Exercise(_ context.Context, id string) (models.Exercise, error) {
	return l.catalog.Exercise(id)
}

func (l *Local) History(context.Context) (map[string]models.Performance, error) {
	return l.history.All(), nil
}

func (l *Local) Workouts(context.Context) ([]models.Workout, error) {
	return l.workouts.All(), nil
}

func (l *Local) Templates(context.Context) ([]models.WorkoutTemplate, error) {
	return l.templates.All(), nil
}
