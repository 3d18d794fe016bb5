package mcp

import (
	"context"
	"time"

	"github.com/claude/gymtracker/internal/models"
	"github.com/claude/gymtracker/internal/views"
	"github.com/mark3labs/mcp-go/mcp"
)

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// filterWorkouts keeps workouts dated at or after since, then trims to limit.
// A zero since or non-positive limit disables that filter.
func filterWorkouts(ws []models.Workout, since time.Time, limit int) []models.Workout {
	out := make([]models.Workout, 0, len(ws))
	for _, w := range ws {
		if !since.IsZero() && w.Date.Before(since) {
			continue
		}
		out = append(out, w)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// --- Tool definitions ---

var toolListMuscleGroups = mcp.NewTool("list_muscle_groups",
	mcp.WithDescription("List all muscle groups in the exercise catalog."),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List catalog exercises with their muscle groups. Optionally filter to one muscle group."),
	mcp.WithString("muscle_group", mcp.Description("Muscle group id (e.g. chest, back, legs)")),
)

var toolGetExercise = mcp.NewTool("get_exercise",
	mcp.WithDescription("Get one catalog exercise by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Exercise id (e.g. bench_press)")),
)

var toolGetLastPerformance = mcp.NewTool("get_last_performance",
	mcp.WithDescription("Get the most recently completed reps and weight for an exercise. Returns recorded=false when nothing has been logged."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise id (e.g. squat)")),
)

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List completed workouts, most recent first, with exercises and sets."),
	mcp.WithString("since", mcp.Description("Only workouts on or after this date (ISO 8601 or YYYY-MM-DD).")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of workouts to return.")),
)

var toolListTemplates = mcp.NewTool("list_templates",
	mcp.WithDescription("List workout templates with their target sets."),
)

// --- Tool handlers ---

func (h *handlers) listMuscleGroups(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groups, err := h.ds.MuscleGroups(ctx)
	if err != nil {
		h.log.Error("mcp list_muscle_groups", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(groups)
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.ds.Exercises(ctx, req.GetString("muscle_group", ""))
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(exercises)
}

func (h *handlers) getExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	ex, err := h.ds.Exercise(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(ex)
}

func (h *handlers) getLastPerformance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	hist, err := h.ds.History(ctx)
	if err != nil {
		h.log.Error("mcp get_last_performance", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	out := map[string]any{"exercise_id": id, "recorded": false}
	if p, ok := hist[id]; ok {
		out["recorded"] = true
		out["reps"] = p.Reps
		out["weight"] = p.Weight
		out["hint"] = views.LastPerformance(p)
	}
	return jsonResult(out)
}

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var since time.Time
	if s := req.GetString("since", ""); s != "" {
		t, err := parseFlexTime(s)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
		since = t
	}

	workouts, err := h.ds.Workouts(ctx)
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(filterWorkouts(workouts, since, req.GetInt("limit", 0)))
}

func (h *handlers) listTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templates, err := h.ds.Templates(ctx)
	if err != nil {
		h.log.Error("mcp list_templates", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(templates)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
