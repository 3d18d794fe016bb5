package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) catalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	groups, err := h.ds.MuscleGroups(ctx)
	if err != nil {
		return nil, err
	}
	exercises, err := h.ds.Exercises(ctx, "")
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, map[string]any{
		"muscle_groups": groups,
		"exercises":     exercises,
	})
}

func (h *handlers) history(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	hist, err := h.ds.History(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, hist)
}

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	workouts, err := h.ds.Workouts(ctx)
	if err != nil {
		return nil, err
	}
	since := time.Now().AddDate(0, 0, -14)
	return jsonContents(req.Params.URI, filterWorkouts(workouts, since, 0))
}
