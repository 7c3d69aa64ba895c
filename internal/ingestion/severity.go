package ingestion

import "github.com/openrelief/zone-tracker/internal/models"

// Fixed classification for the global-events feed, which carries no numeric
// intensity.
const (
	globalEventSeverity = models.SeverityMedium
	globalEventRadiusKm = 50.0
)

// classifyMagnitude maps an earthquake magnitude to a severity level and an
// affected radius in km. The radius is a monotonic proxy for affected area,
// not a physically calibrated value; downstream consumers depend on the exact
// numbers.
func classifyMagnitude(m float64) (models.Severity, float64) {
	radius := m * 10

	switch {
	case m >= 6:
		return models.SeverityCritical, radius
	case m >= 5:
		return models.SeverityHigh, radius
	case m >= 4:
		return models.SeverityMedium, radius
	default:
		return models.SeverityLow, radius
	}
}
