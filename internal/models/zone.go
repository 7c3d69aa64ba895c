package models

import "time"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type ZoneSource string

const (
	SourceManual       ZoneSource = "manual"
	SourceGlobalEvents ZoneSource = "feed:global-events"
	SourceSeismic      ZoneSource = "feed:seismic"
)

type GeometryKind string

const (
	GeometryCircle  GeometryKind = "circle"
	GeometryPolygon GeometryKind = "polygon"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Circle is the point-plus-radius geometry produced by the ingestion pipeline.
type Circle struct {
	Center   Coordinates `json:"center"`
	RadiusKm float64     `json:"radiusKm"`
}

// PolygonRings is an ordered list of linear rings; each ring is a closed
// sequence of [lng, lat] vertices. Only the manual-entry path produces these.
type PolygonRings [][][2]float64

// Zone is a hazard area tracked by the system. Geometry is a tagged union:
// exactly one of Circle/Polygon is set, discriminated by GeometryKind.
type Zone struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	CategoryID   string       `json:"categoryId"`
	Severity     Severity     `json:"severity"`
	GeometryKind GeometryKind `json:"geometryKind"`
	Circle       *Circle      `json:"circle,omitempty"`
	Polygon      PolygonRings `json:"polygon,omitempty"`
	Country      string       `json:"country"`
	IsActive     bool         `json:"isActive"`
	ExternalID   string       `json:"externalId,omitempty"`
	Source       ZoneSource   `json:"source"`
	Description  string       `json:"description"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// ZoneUpsert is a normalized feed event ready to be applied against the zone
// store. The (ExternalID, Source) pair is the upsert identity; everything else
// is replaced wholesale on every successful poll.
type ZoneUpsert struct {
	Name        string
	CategoryID  string
	Severity    Severity
	Center      Coordinates
	RadiusKm    float64
	Country     string
	ExternalID  string
	Source      ZoneSource
	Description string
}
