package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/gymtracker/internal/models"
)

// HTTPClient implements DataSource by calling the GymTracker REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the service runs elsewhere (e.g. on the tailnet).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, v any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) MuscleGroups(ctx context.Context) ([]models.MuscleGroup, error) {
	var groups []models.MuscleGroup
	if err := c.get(ctx, "/api/v1/catalog/muscle-groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *HTTPClient) Exercises(ctx context.Context, muscleGroup string) ([]models.Exercise, error) {
	var params url.Values
	if muscleGroup != "" {
		params = url.Values{"muscle_group": {muscleGroup}}
	}
	var exercises []models.Exercise
	if err := c.get(ctx, "/api/v1/catalog/exercises", params, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

func (c *HTTPClient) Exercise(ctx context.Context, id string) (models.Exercise, error) {
	var ex models.Exercise
	if err := c.get(ctx, "/api/v1/catalog/exercises/"+url.PathEscape(id), nil, &ex); err != nil {
		return models.Exercise{}, err
	}
	return ex, nil
}

func (c *HTTPClient) History(ctx context.Context) (map[string]models.Performance, error) {
	hist := make(map[string]models.Performance)
	if err := c.get(ctx, "/api/v1/history", nil, &hist); err != nil {
		return nil, err
	}
	return hist, nil
}

func (c *HTTPClient) Workouts(ctx context.Context) ([]models.Workout, error) {
	var workouts []models.Workout
	if err := c.get(ctx, "/api/v1/workouts", nil, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (c *HTTPClient) Templates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	var templates []models.WorkoutTemplate
	if err := c.get(ctx, "/api/v1/templates", nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}
