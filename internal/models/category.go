package models

import "time"

type CategoryProvenance string

const (
	ProvenanceSystem CategoryProvenance = "system"
	ProvenanceManual CategoryProvenance = "manual"
)

type HazardCategory struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Code       string             `json:"code"`
	Color      string             `json:"color"`
	Icon       string             `json:"icon"`
	IsActive   bool               `json:"isActive"`
	Provenance CategoryProvenance `json:"provenance"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// DefaultCategories is the fixed seed set. The ingestion pipeline only ever
// reads these; feed events whose category matches none of them are dropped
// until an operator seeds a new one.
func DefaultCategories() []HazardCategory {
	return []HazardCategory{
		{Name: "Flood", Code: "FLD", Color: "#2563eb", Icon: "droplet", IsActive: true, Provenance: ProvenanceSystem},
		{Name: "Earthquake", Code: "EQ", Color: "#b45309", Icon: "activity", IsActive: true, Provenance: ProvenanceSystem},
		{Name: "Cyclone", Code: "CYC", Color: "#7c3aed", Icon: "wind", IsActive: true, Provenance: ProvenanceSystem},
		{Name: "Wildfire", Code: "WF", Color: "#dc2626", Icon: "flame", IsActive: true, Provenance: ProvenanceSystem},
		{Name: "Landslide", Code: "LS", Color: "#78716c", Icon: "mountain", IsActive: true, Provenance: ProvenanceSystem},
	}
}
