package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openrelief/zone-tracker/internal/models"
)

type categoryRow struct {
	ID         string         `db:"id"`
	Name       string         `db:"name"`
	Code       string         `db:"code"`
	Color      sql.NullString `db:"color"`
	Icon       sql.NullString `db:"icon"`
	IsActive   bool           `db:"is_active"`
	Provenance string         `db:"provenance"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (r categoryRow) toModel() models.HazardCategory {
	return models.HazardCategory{
		ID:         r.ID,
		Name:       r.Name,
		Code:       r.Code,
		Color:      r.Color.String,
		Icon:       r.Icon.String,
		IsActive:   r.IsActive,
		Provenance: models.CategoryProvenance(r.Provenance),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// Seed inserts the default category set, skipping names that already exist so
// restarts are idempotent and operator edits survive.
func (s *SQLiteDB) Seed(ctx context.Context, categories []models.HazardCategory) error {
	now := time.Now().UTC()

	for _, c := range categories {
		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO hazard_categories (id, name, code, color, icon, is_active, provenance, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(name) DO NOTHING`,
			id, c.Name, c.Code, c.Color, c.Icon, c.IsActive, string(c.Provenance), now, now,
		)
		if err != nil {
			return fmt.Errorf("error seeding category %s: %w", c.Name, err)
		}
	}

	return nil
}

// Resolve matches a feed label against seeded category names: a category
// matches when its name occurs inside the label, case-insensitively, so
// "flooding" resolves to "Flood" and "M 5.2 earthquake" to "Earthquake".
func (s *SQLiteDB) Resolve(ctx context.Context, label string) (*models.HazardCategory, error) {
	var row categoryRow
	err := s.db.GetContext(ctx, &row, `
		SELECT * FROM hazard_categories
		WHERE is_active = 1 AND instr(lower(?), lower(name)) > 0
		ORDER BY length(name) DESC
		LIMIT 1`,
		label,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error resolving category for %q: %w", label, err)
	}

	cat := row.toModel()
	return &cat, nil
}

func (s *SQLiteDB) ListCategories(ctx context.Context) ([]models.HazardCategory, error) {
	var rows []categoryRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM hazard_categories ORDER BY name`); err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}

	categories := make([]models.HazardCategory, 0, len(rows))
	for _, r := range rows {
		categories = append(categories, r.toModel())
	}

	return categories, nil
}
