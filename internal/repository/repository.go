package repository

import (
	"context"
	"errors"
	"time"

	"github.com/openrelief/zone-tracker/internal/models"
)

// ErrCategoryNotFound means no seeded category matched a feed label. Callers
// drop the event rather than creating a zone with a placeholder category.
var ErrCategoryNotFound = errors.New("hazard category not found")

type ZoneFilter struct {
	Limit      int
	Active     *bool
	Source     *models.ZoneSource
	CategoryID string
}

type ZoneRepository interface {
	// Upsert inserts or fully replaces a pipeline-owned zone keyed by
	// (external_id, source), forcing it active either way.
	Upsert(ctx context.Context, doc *models.ZoneUpsert) error
	GetByExternalID(ctx context.Context, externalID string, source models.ZoneSource) (*models.Zone, error)
	ListZones(ctx context.Context, filter ZoneFilter) ([]models.Zone, error)
	// DeactivateExpired flips is_active off for zones of the given source whose
	// created_at predates the cutoff. Returns the number of zones retired.
	DeactivateExpired(ctx context.Context, source models.ZoneSource, cutoff time.Time) (int64, error)
	// Create inserts a manually-entered zone; the only path that may carry
	// polygon geometry.
	Create(ctx context.Context, z *models.Zone) error
}

type CategoryRepository interface {
	Seed(ctx context.Context, categories []models.HazardCategory) error
	// Resolve matches a free-text label against active category names,
	// case-insensitively by substring. Returns ErrCategoryNotFound on no match.
	Resolve(ctx context.Context, label string) (*models.HazardCategory, error)
	ListCategories(ctx context.Context) ([]models.HazardCategory, error)
}
