package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/openrelief/zone-tracker/internal/geo"
)

// QuakeFeature is one earthquake from the seismic catalog.
type QuakeFeature struct {
	ID         string          `json:"id"`
	Properties QuakeProperties `json:"properties"`
	Geometry   QuakeGeometry   `json:"geometry"`
}

type QuakeProperties struct {
	Mag   *float64 `json:"mag"` // nil when the provider has not assigned one yet
	Place string   `json:"place"`
	Time  int64    `json:"time"` // unix millis
	Title string   `json:"title"`
}

type QuakeGeometry struct {
	Coordinates []float64 `json:"coordinates"` // [lng, lat, depth]
}

type quakeResponse struct {
	Features []QuakeFeature `json:"features"`
}

// USGSClient fetches recent earthquakes, filtered server-side to the target
// country's bounding box and a trailing time window.
type USGSClient struct {
	baseURL string
	bounds  geo.BoundingBox
	window  time.Duration
	client  *http.Client
}

func NewUSGSClient(baseURL string, bounds geo.BoundingBox, window, timeout time.Duration) *USGSClient {
	return &USGSClient{
		baseURL: baseURL,
		bounds:  bounds,
		window:  window,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *USGSClient) Fetch(ctx context.Context) ([]QuakeFeature, error) {
	q := url.Values{}
	q.Set("format", "geojson")
	q.Set("starttime", time.Now().Add(-c.window).UTC().Format("2006-01-02"))
	q.Set("minlatitude", strconv.FormatFloat(c.bounds.MinLat, 'f', -1, 64))
	q.Set("maxlatitude", strconv.FormatFloat(c.bounds.MaxLat, 'f', -1, 64))
	q.Set("minlongitude", strconv.FormatFloat(c.bounds.MinLng, 'f', -1, 64))
	q.Set("maxlongitude", strconv.FormatFloat(c.bounds.MaxLng, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
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

	var data quakeResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}

	return data.Features, nil
}
