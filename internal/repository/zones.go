package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openrelief/zone-tracker/internal/models"
)

type zoneRow struct {
	ID           string          `db:"id"`
	Name         string          `db:"name"`
	CategoryID   string          `db:"category_id"`
	Severity     string          `db:"severity"`
	GeometryKind string          `db:"geometry_kind"`
	CenterLat    sql.NullFloat64 `db:"center_lat"`
	CenterLng    sql.NullFloat64 `db:"center_lng"`
	RadiusKm     sql.NullFloat64 `db:"radius_km"`
	Polygon      sql.NullString  `db:"polygon"`
	Country      string          `db:"country"`
	IsActive     bool            `db:"is_active"`
	ExternalID   sql.NullString  `db:"external_id"`
	Source       string          `db:"source"`
	Description  sql.NullString  `db:"description"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (r zoneRow) toModel() (*models.Zone, error) {
	z := &models.Zone{
		ID:           r.ID,
		Name:         r.Name,
		CategoryID:   r.CategoryID,
		Severity:     models.Severity(r.Severity),
		GeometryKind: models.GeometryKind(r.GeometryKind),
		Country:      r.Country,
		IsActive:     r.IsActive,
		ExternalID:   r.ExternalID.String,
		Source:       models.ZoneSource(r.Source),
		Description:  r.Description.String,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}

	switch z.GeometryKind {
	case models.GeometryCircle:
		z.Circle = &models.Circle{
			Center:   models.Coordinates{Lat: r.CenterLat.Float64, Lng: r.CenterLng.Float64},
			RadiusKm: r.RadiusKm.Float64,
		}
	case models.GeometryPolygon:
		if err := json.Unmarshal([]byte(r.Polygon.String), &z.Polygon); err != nil {
			return nil, fmt.Errorf("error decoding polygon for zone %s: %w", r.ID, err)
		}
	}

	return z, nil
}

// Upsert applies a normalized feed document. Insert and full-field replace are
// a single statement, so concurrent calls for the same identity serialize on
// the database and cannot leave a partial write. A replace clears any stale
// polygon payload: geometry is a tagged union, not an additive merge.
func (s *SQLiteDB) Upsert(ctx context.Context, doc *models.ZoneUpsert) error {
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO zones (
			id, name, category_id, severity, geometry_kind,
			center_lat, center_lng, radius_km, polygon,
			country, is_active, external_id, source, description,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, 'circle', ?, ?, ?, NULL, ?, 1, ?, ?, ?, ?, ?)
		ON CONFLICT(external_id, source) DO UPDATE SET
			name = excluded.name,
			category_id = excluded.category_id,
			severity = excluded.severity,
			geometry_kind = 'circle',
			center_lat = excluded.center_lat,
			center_lng = excluded.center_lng,
			radius_km = excluded.radius_km,
			polygon = NULL,
			description = excluded.description,
			is_active = 1,
			updated_at = excluded.updated_at`,
		uuid.NewString(), doc.Name, doc.CategoryID, string(doc.Severity),
		doc.Center.Lat, doc.Center.Lng, doc.RadiusKm,
		doc.Country, doc.ExternalID, string(doc.Source), doc.Description,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("error upserting zone %s/%s: %w", doc.ExternalID, doc.Source, err)
	}

	return nil
}

func (s *SQLiteDB) GetByExternalID(ctx context.Context, externalID string, source models.ZoneSource) (*models.Zone, error) {
	var row zoneRow
	err := s.db.GetContext(ctx, &row,
		`SELECT * FROM zones WHERE external_id = ? AND source = ?`,
		externalID, string(source),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching zone %s/%s: %w", externalID, source, err)
	}

	return row.toModel()
}

func (s *SQLiteDB) ListZones(ctx context.Context, filter ZoneFilter) ([]models.Zone, error) {
	query := `SELECT * FROM zones WHERE 1=1`
	args := []any{}

	if filter.Active != nil {
		query += ` AND is_active = ?`
		args = append(args, *filter.Active)
	}
	if filter.Source != nil {
		query += ` AND source = ?`
		args = append(args, string(*filter.Source))
	}
	if filter.CategoryID != "" {
		query += ` AND category_id = ?`
		args = append(args, filter.CategoryID)
	}

	query += ` ORDER BY updated_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	var rows []zoneRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error listing zones: %w", err)
	}

	zones := make([]models.Zone, 0, len(rows))
	for _, r := range rows {
		z, err := r.toModel()
		if err != nil {
			return nil, err
		}
		zones = append(zones, *z)
	}

	return zones, nil
}

// DeactivateExpired retires zones of one source past their retention window.
// Manual zones are never passed here; the WHERE clause keys on source. The
// cutoff is normalized to UTC before binding: created_at is stored as UTC
// text, and sqlite compares the rendered strings, so a cutoff carrying a
// local offset would shift the window by that offset.
func (s *SQLiteDB) DeactivateExpired(ctx context.Context, source models.ZoneSource, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE zones
		SET is_active = 0, updated_at = ?
		WHERE source = ? AND is_active = 1 AND created_at < ?`,
		time.Now().UTC(), string(source), cutoff.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("error deactivating expired zones for %s: %w", source, err)
	}

	return res.RowsAffected()
}

// Create inserts a zone as-is. Used by the manual administrative surface,
// which is the only writer allowed to store polygon geometry.
func (s *SQLiteDB) Create(ctx context.Context, z *models.Zone) error {
	if (z.Circle != nil) == (len(z.Polygon) > 0) {
		return fmt.Errorf("zone %s: exactly one of circle/polygon geometry must be set", z.ID)
	}

	var (
		centerLat, centerLng, radiusKm sql.NullFloat64
		polygon                        sql.NullString
	)
	switch z.GeometryKind {
	case models.GeometryCircle:
		centerLat = sql.NullFloat64{Float64: z.Circle.Center.Lat, Valid: true}
		centerLng = sql.NullFloat64{Float64: z.Circle.Center.Lng, Valid: true}
		radiusKm = sql.NullFloat64{Float64: z.Circle.RadiusKm, Valid: true}
	case models.GeometryPolygon:
		raw, err := json.Marshal(z.Polygon)
		if err != nil {
			return fmt.Errorf("error encoding polygon for zone %s: %w", z.ID, err)
		}
		polygon = sql.NullString{String: string(raw), Valid: true}
	default:
		return fmt.Errorf("zone %s: unknown geometry kind %q", z.ID, z.GeometryKind)
	}

	if z.ID == "" {
		z.ID = uuid.NewString()
	}

	externalID := sql.NullString{String: z.ExternalID, Valid: z.ExternalID != ""}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO zones (
			id, name, category_id, severity, geometry_kind,
			center_lat, center_lng, radius_km, polygon,
			country, is_active, external_id, source, description,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		z.ID, z.Name, z.CategoryID, string(z.Severity), string(z.GeometryKind),
		centerLat, centerLng, radiusKm, polygon,
		z.Country, z.IsActive, externalID, string(z.Source), z.Description,
		z.CreatedAt, z.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting zone %s: %w", z.ID, err)
	}

	return nil
}
