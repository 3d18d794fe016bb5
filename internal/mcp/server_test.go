package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/gymtracker/internal/catalog"
	"github.com/claude/gymtracker/internal/history"
	"github.com/claude/gymtracker/internal/lists"
	"github.com/claude/gymtracker/internal/models"
	"github.com/claude/gymtracker/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

func newTestHandlers(t *testing.T) (*handlers, *history.Cache) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hist := history.New(storage.NewMemory(), log)
	ds := NewLocal(
		catalog.Default(),
		hist,
		lists.NewWorkouts(lists.SampleWorkouts(time.Now())),
		lists.NewTemplates(lists.SampleTemplates()),
	)
	return &handlers{ds: ds, log: log}, hist
}

func callReq(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", res.Content[0])
	}
	return text.Text
}

// TestNewRegistersServer verifies the MCP server builds with a local data source.
func TestNewRegistersServer(t *testing.T) {
	h, _ := newTestHandlers(t)
	if s := New(h.ds, "test", h.log); s == nil {
		t.Fatal("New returned nil")
	}
}

// TestListExercisesFilter verifies the muscle group filter and unknown groups.
func TestListExercisesFilter(t *testing.T) {
	h, _ := newTestHandlers(t)
	ctx := context.Background()

	res, err := h.listExercises(ctx, callReq(map[string]any{"muscle_group": "legs"}))
	if err != nil {
		t.Fatal(err)
	}
	var exercises []models.Exercise
	if err := json.Unmarshal([]byte(resultText(t, res)), &exercises); err != nil {
		t.Fatal(err)
	}
	for _, ex := range exercises {
		found := false
		for _, g := range ex.MuscleGroups {
			if g.ID == "legs" {
				found = true
			}
		}
		if !found {
			t.Errorf("%s is not a legs exercise", ex.ID)
		}
	}
	if len(exercises) == 0 {
		t.Error("no legs exercises")
	}

	res, _ = h.listExercises(ctx, callReq(map[string]any{"muscle_group": "wings"}))
	if !res.IsError {
		t.Error("unknown muscle group did not error")
	}
}

// TestGetExerciseRequiresID verifies a missing id is a tool error, not a protocol error.
func TestGetExerciseRequiresID(t *testing.T) {
	h, _ := newTestHandlers(t)
	res, err := h.getExercise(context.Background(), callReq(map[string]any{}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected tool error")
	}
}

// TestGetLastPerformance verifies recorded and unrecorded exercises.
func TestGetLastPerformance(t *testing.T) {
	h, hist := newTestHandlers(t)
	ctx := context.Background()
	if err := hist.Record(ctx, "deadlift", 5, 140); err != nil {
		t.Fatal(err)
	}

	res, _ := h.getLastPerformance(ctx, callReq(map[string]any{"exercise_id": "deadlift"}))
	var got map[string]any
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if got["recorded"] != true || got["hint"] != "Last: 5 reps @ 140kg" {
		t.Errorf("result = %v", got)
	}

	res, _ = h.getLastPerformance(ctx, callReq(map[string]any{"exercise_id": "plank"}))
	got = nil
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if got["recorded"] != false {
		t.Errorf("result = %v", got)
	}
}

// TestListWorkoutsLimit verifies limit and since filtering.
func TestListWorkoutsLimit(t *testing.T) {
	h, _ := newTestHandlers(t)
	ctx := context.Background()

	res, _ := h.listWorkouts(ctx, callReq(map[string]any{"limit": float64(1)}))
	var ws []models.Workout
	if err := json.Unmarshal([]byte(resultText(t, res)), &ws); err != nil {
		t.Fatal(err)
	}
	if len(ws) != 1 || ws[0].ID != "w1" {
		t.Errorf("workouts = %+v", ws)
	}

	res, _ = h.listWorkouts(ctx, callReq(map[string]any{"since": "not-a-date"}))
	if !res.IsError {
		t.Error("invalid since did not error")
	}
}

// TestFilterWorkouts verifies the since cut-off and limit trimming.
func TestFilterWorkouts(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ws := []models.Workout{
		{ID: "a", Date: now},
		{ID: "b", Date: now.AddDate(0, 0, -3)},
		{ID: "c", Date: now.AddDate(0, 0, -30)},
	}
	if got := filterWorkouts(ws, now.AddDate(0, 0, -7), 0); len(got) != 2 {
		t.Errorf("since filter = %d workouts, want 2", len(got))
	}
	if got := filterWorkouts(ws, time.Time{}, 1); len(got) != 1 || got[0].ID != "a" {
		t.Errorf("limit filter = %+v", got)
	}
}

// TestParseFlexTime verifies both accepted date formats and rejection of garbage.
func TestParseFlexTime(t *testing.T) {
	if d, err := parseFlexTime("2024-01-31"); err != nil || d.Day() != 31 {
		t.Errorf("date-only = %v, %v", d, err)
	}
	if d, err := parseFlexTime("2024-06-15T10:30:00Z"); err != nil || d.Hour() != 10 {
		t.Errorf("RFC3339 = %v, %v", d, err)
	}
	if _, err := parseFlexTime("not-a-date"); err == nil {
		t.Error("expected error for invalid date")
	}
}

// TestHistoryResource verifies the history resource serves the cache as JSON.
func TestHistoryResource(t *testing.T) {
	h, hist := newTestHandlers(t)
	ctx := context.Background()
	_ = hist.Record(ctx, "squat", 5, 100)

	var req mcp.ReadResourceRequest
	req.Params.URI = "gymtracker://history"
	contents, err := h.history(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents)
	if text.Text != `{"squat":{"reps":5,"weight":100}}` {
		t.Errorf("history = %s", text.Text)
	}
}
