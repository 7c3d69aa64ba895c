package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrelief/zone-tracker/internal/geo"
)

func TestUSGSClient_Fetch(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"features": [
				{
					"id": "us7000abcd",
					"properties": {"mag": 5.6, "place": "43 km W of Imphal, India", "time": 1756713600000, "title": "M 5.6 - 43 km W of Imphal, India"},
					"geometry": {"coordinates": [93.5, 24.8, 42.0]}
				},
				{
					"id": "us7000nomag",
					"properties": {"mag": null, "place": "near Shillong, India", "title": "unreviewed event"},
					"geometry": {"coordinates": [91.9, 25.6, 10.0]}
				}
			]
		}`))
	}))
	defer srv.Close()

	client := NewUSGSClient(srv.URL, geo.IndiaBounds, 7*24*time.Hour, 5*time.Second)
	features, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, features, 2)

	assert.Equal(t, "geojson", gotQuery["format"])
	assert.Equal(t, "6", gotQuery["minlatitude"])
	assert.Equal(t, "37.5", gotQuery["maxlatitude"])
	assert.Equal(t, "67", gotQuery["minlongitude"])
	assert.Equal(t, "98", gotQuery["maxlongitude"])
	assert.NotEmpty(t, gotQuery["starttime"])

	require.NotNil(t, features[0].Properties.Mag)
	assert.InDelta(t, 5.6, *features[0].Properties.Mag, 1e-9)
	assert.Equal(t, []float64{93.5, 24.8, 42.0}, features[0].Geometry.Coordinates)

	assert.Nil(t, features[1].Properties.Mag, "null magnitude decodes as nil, not zero-with-value")
}

func TestUSGSClient_Fetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewUSGSClient(srv.URL, geo.IndiaBounds, 7*24*time.Hour, 5*time.Second)
	_, err := client.Fetch(context.Background())
	assert.Error(t, err)
}

func TestEONETClient_Fetch(t *testing.T) {
	var gotStatus string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotStatus = r.URL.Query().Get("status")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"events": [
				{
					"id": "EONET_6501",
					"title": "Flooding in Assam",
					"description": "Monsoon flooding along the Brahmaputra",
					"categories": [{"title": "Floods"}],
					"geometry": [
						{"coordinates": [91.0, 26.0]},
						{"coordinates": [91.7, 26.1]}
					]
				}
			]
		}`))
	}))
	defer srv.Close()

	client := NewEONETClient(srv.URL, 5*time.Second)
	events, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, "open", gotStatus, "only open events are requested")
	assert.Equal(t, "EONET_6501", events[0].ID)
	require.Len(t, events[0].Geometry, 2)
	assert.Equal(t, []float64{91.7, 26.1}, events[0].Geometry[1].Coordinates)
	require.Len(t, events[0].Categories, 1)
	assert.Equal(t, "Floods", events[0].Categories[0].Title)
}

func TestEONETClient_Fetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client := NewEONETClient(srv.URL, 50*time.Millisecond)
	_, err := client.Fetch(context.Background())
	assert.Error(t, err, "a hung upstream must not stall the caller past the timeout")
}
