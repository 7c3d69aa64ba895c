// Package geo restricts ingestion to the target country using an approximate
// bounding box. The box is deliberately generous: near the border it is better
// to keep an out-of-country event than to lose an in-country one.
package geo

type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// IndiaBounds covers the Indian mainland plus the island territories.
var IndiaBounds = BoundingBox{
	MinLat: 6.0,
	MaxLat: 37.5,
	MinLng: 67.0,
	MaxLng: 98.0,
}

func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// InScope reports whether a point falls inside the area of interest.
func InScope(lat, lng float64) bool {
	return IndiaBounds.Contains(lat, lng)
}
