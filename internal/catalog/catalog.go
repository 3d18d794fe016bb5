package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/claude/gymtracker/internal/models"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when an id does not resolve in the catalog.
var ErrNotFound = errors.New("not found in catalog")

// Catalog holds the muscle groups and exercises available for selection.
// It is read-only after construction.
type Catalog struct {
	muscleGroups []models.MuscleGroup
	exercises    []models.Exercise
	groupByID    map[string]int
	exerciseByID map[string]int
}

// New builds a catalog from ordered muscle groups and exercises.
// Duplicate ids and exercises without muscle groups are rejected.
func New(groups []models.MuscleGroup, exercises []models.Exercise) (*Catalog, error) {
	c := &Catalog{
		muscleGroups: make([]models.MuscleGroup, len(groups)),
		exercises:    make([]models.Exercise, len(exercises)),
		groupByID:    make(map[string]int, len(groups)),
		exerciseByID: make(map[string]int, len(exercises)),
	}
	copy(c.muscleGroups, groups)
	copy(c.exercises, exercises)

	for i, g := range c.muscleGroups {
		if g.ID == "" {
			return nil, fmt.Errorf("muscle group %d: empty id", i)
		}
		if _, dup := c.groupByID[g.ID]; dup {
			return nil, fmt.Errorf("duplicate muscle group %q", g.ID)
		}
		c.groupByID[g.ID] = i
	}
	for i, ex := range c.exercises {
		if ex.ID == "" {
			return nil, fmt.Errorf("exercise %d: empty id", i)
		}
		if _, dup := c.exerciseByID[ex.ID]; dup {
			return nil, fmt.Errorf("duplicate exercise %q", ex.ID)
		}
		if len(ex.MuscleGroups) == 0 {
			return nil, fmt.Errorf("exercise %q: no muscle groups", ex.ID)
		}
		c.exerciseByID[ex.ID] = i
	}
	return c, nil
}

// MuscleGroups returns all muscle groups in catalog order.
func (c *Catalog) MuscleGroups() []models.MuscleGroup {
	out := make([]models.MuscleGroup, len(c.muscleGroups))
	copy(out, c.muscleGroups)
	return out
}

// Exercises returns all exercises in catalog order.
func (c *Catalog) Exercises() []models.Exercise {
	out := make([]models.Exercise, len(c.exercises))
	for i, ex := range c.exercises {
		out[i] = cloneExercise(ex)
	}
	return out
}

// MuscleGroup looks up a muscle group by id.
func (c *Catalog) MuscleGroup(id string) (models.MuscleGroup, error) {
	i, ok := c.groupByID[id]
	if !ok {
		return models.MuscleGroup{}, fmt.Errorf("muscle group %q: %w", id, ErrNotFound)
	}
	return c.muscleGroups[i], nil
}

// Exercise looks up an exercise by id.
func (c *Catalog) Exercise(id string) (models.Exercise, error) {
	i, ok := c.exerciseByID[id]
	if !ok {
		return models.Exercise{}, fmt.Errorf("exercise %q: %w", id, ErrNotFound)
	}
	return cloneExercise(c.exercises[i]), nil
}

// ExercisesFor returns the exercises targeting the given muscle group, in catalog order.
func (c *Catalog) ExercisesFor(groupID string) []models.Exercise {
	var out []models.Exercise
	for _, ex := range c.exercises {
		for _, g := range ex.MuscleGroups {
			if g.ID == groupID {
				out = append(out, cloneExercise(ex))
				break
			}
		}
	}
	return out
}

func cloneExercise(ex models.Exercise) models.Exercise {
	groups := make([]models.MuscleGroup, len(ex.MuscleGroups))
	copy(groups, ex.MuscleGroups)
	ex.MuscleGroups = groups
	return ex
}

// fileCatalog is the on-disk YAML shape. Exercises reference muscle groups by id.
type fileCatalog struct {
	MuscleGroups []models.MuscleGroup `yaml:"muscle_groups"`
	Exercises    []struct {
		ID           string   `yaml:"id"`
		Name         string   `yaml:"name"`
		MuscleGroups []string `yaml:"muscle_groups"`
		Description  string   `yaml:"description"`
	} `yaml:"exercises"`
}

// Parse builds a catalog from YAML.
//
//	muscle_groups:
//	  - {id: chest, name: Chest}
//	exercises:
//	  - {id: bench_press, name: Bench Press, muscle_groups: [chest]}
func Parse(data []byte) (*Catalog, error) {
	var fc fileCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	byID := make(map[string]models.MuscleGroup, len(fc.MuscleGroups))
	for _, g := range fc.MuscleGroups {
		byID[g.ID] = g
	}

	exercises := make([]models.Exercise, 0, len(fc.Exercises))
	for _, fe := range fc.Exercises {
		ex := models.Exercise{ID: fe.ID, Name: fe.Name, Description: fe.Description}
		for _, gid := range fe.MuscleGroups {
			g, ok := byID[gid]
			if !ok {
				return nil, fmt.Errorf("exercise %q: muscle group %q: %w", fe.ID, gid, ErrNotFound)
			}
			ex.MuscleGroups = append(ex.MuscleGroups, g)
		}
		exercises = append(exercises, ex)
	}
	return New(fc.MuscleGroups, exercises)
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return Parse(data)
}
