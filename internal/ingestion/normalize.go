package ingestion

import (
	"context"
	"errors"

	"github.com/openrelief/zone-tracker/internal/feeds"
	"github.com/openrelief/zone-tracker/internal/geo"
	"github.com/openrelief/zone-tracker/internal/models"
	"github.com/openrelief/zone-tracker/internal/repository"
)

// DropReason explains why a normalizer rejected an event. Drops are routine
// per-event outcomes, never batch failures.
type DropReason string

const (
	DropNone            DropReason = ""
	DropEmptyGeometry   DropReason = "empty_geometry"
	DropOutOfScope      DropReason = "out_of_scope"
	DropUnknownCategory DropReason = "unknown_category"
)

// seismicCategoryLabel is the fixed label the seismic normalizer resolves
// against the seeded category set.
const seismicCategoryLabel = "earthquake"

// defaultCategoryLabel is used when a global event arrives with no category.
const defaultCategoryLabel = "Other"

// normalizeQuake turns one seismic feature into an upsert document. A missing
// magnitude is treated as 0, not an error. Geofencing happens upstream via the
// connector's bounding-box query, so it is not re-checked here.
func (m *Manager) normalizeQuake(ctx context.Context, f feeds.QuakeFeature) (*models.ZoneUpsert, DropReason, error) {
	if len(f.Geometry.Coordinates) < 2 {
		return nil, DropEmptyGeometry, nil
	}

	cat, err := m.categories.Resolve(ctx, seismicCategoryLabel)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, DropUnknownCategory, nil
	}
	if err != nil {
		return nil, DropNone, err
	}

	mag := 0.0
	if f.Properties.Mag != nil {
		mag = *f.Properties.Mag
	}
	severity, radiusKm := classifyMagnitude(mag)

	return &models.ZoneUpsert{
		Name:        f.Properties.Title,
		CategoryID:  cat.ID,
		Severity:    severity,
		Center:      models.Coordinates{Lat: f.Geometry.Coordinates[1], Lng: f.Geometry.Coordinates[0]},
		RadiusKm:    radiusKm,
		Country:     m.country,
		ExternalID:  f.ID,
		Source:      models.SourceSeismic,
		Description: f.Properties.Place,
	}, DropNone, nil
}

// normalizeGlobalEvent turns one global event into an upsert document. Events
// may have moved over time; only the last geometry point is tracked. The feed
// is not geographically scoped at the source, so every event is geofenced
// here.
func (m *Manager) normalizeGlobalEvent(ctx context.Context, ev feeds.GlobalEvent) (*models.ZoneUpsert, DropReason, error) {
	if len(ev.Geometry) == 0 {
		return nil, DropEmptyGeometry, nil
	}
	last := ev.Geometry[len(ev.Geometry)-1]
	if len(last.Coordinates) < 2 {
		return nil, DropEmptyGeometry, nil
	}

	lat, lng := last.Coordinates[1], last.Coordinates[0]
	if !geo.InScope(lat, lng) {
		return nil, DropOutOfScope, nil
	}

	label := defaultCategoryLabel
	if len(ev.Categories) > 0 && ev.Categories[0].Title != "" {
		label = ev.Categories[0].Title
	}

	cat, err := m.categories.Resolve(ctx, label)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, DropUnknownCategory, nil
	}
	if err != nil {
		return nil, DropNone, err
	}

	return &models.ZoneUpsert{
		Name:        ev.Title,
		CategoryID:  cat.ID,
		Severity:    globalEventSeverity,
		Center:      models.Coordinates{Lat: lat, Lng: lng},
		RadiusKm:    globalEventRadiusKm,
		Country:     m.country,
		ExternalID:  ev.ID,
		Source:      models.SourceGlobalEvents,
		Description: ev.Description,
	}, DropNone, nil
}
