package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// GlobalEvent is one open event from the global-events catalog. Geometry is a
// history of point observations; the last entry is the current position.
type GlobalEvent struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Categories  []EventCategory `json:"categories"`
	Geometry    []EventGeometry `json:"geometry"`
}

type EventCategory struct {
	Title string `json:"title"`
}

type EventGeometry struct {
	Coordinates []float64 `json:"coordinates"` // [lng, lat]
}

type globalEventsResponse struct {
	Events []GlobalEvent `json:"events"`
}

// EONETClient fetches currently-open events. The feed is not geographically
// scoped, so callers must geofence each event after the fact.
type EONETClient struct {
	baseURL string
	client  *http.Client
}

func NewEONETClient(baseURL string, timeout time.Duration) *EONETClient {
	return &EONETClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *EONETClient) Fetch(ctx context.Context) ([]GlobalEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?status=open", nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var data globalEventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}

	return data.Events, nil
}
