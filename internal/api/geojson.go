package api

import (
	"github.com/openrelief/zone-tracker/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// toGeoJSON renders zones for map clients. Circle zones become Point features
// carrying their radius as a property; polygon zones keep their rings.
func toGeoJSON(zones []models.Zone) FeatureCollection {
	features := make([]Feature, 0, len(zones))

	for _, z := range zones {
		props := map[string]any{
			"id":          z.ID,
			"name":        z.Name,
			"category_id": z.CategoryID,
			"severity":    string(z.Severity),
			"source":      string(z.Source),
			"country":     z.Country,
			"is_active":   z.IsActive,
			"description": z.Description,
			"updated_at":  z.UpdatedAt,
		}

		// Rows with an unknown kind or a missing payload are skipped rather
		// than rendered as broken features.
		var geom Geometry
		switch z.GeometryKind {
		case models.GeometryPolygon:
			if len(z.Polygon) == 0 {
				continue
			}
			geom = Geometry{
				Type:        "Polygon",
				Coordinates: z.Polygon,
			}
		case models.GeometryCircle:
			if z.Circle == nil {
				continue
			}
			geom = Geometry{
				Type:        "Point",
				Coordinates: []float64{z.Circle.Center.Lng, z.Circle.Center.Lat},
			}
			props["radius_km"] = z.Circle.RadiusKm
		default:
			continue
		}

		features = append(features, Feature{
			Type:       "Feature",
			Geometry:   geom,
			Properties: props,
		})
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
