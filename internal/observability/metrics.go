// Package observability exposes the pipeline's prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	EventsFetched *prometheus.CounterVec
	EventsDropped *prometheus.CounterVec
	ZonesUpserted *prometheus.CounterVec
	ZonesExpired  *prometheus.CounterVec
	FeedErrors    *prometheus.CounterVec
	SyncDuration  prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics on the given
// registerer. Pass a fresh registry in tests to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zone_tracker",
			Name:      "events_fetched_total",
			Help:      "Raw events returned by a feed poll.",
		}, []string{"source"}),
		EventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zone_tracker",
			Name:      "events_dropped_total",
			Help:      "Events rejected during normalization, by reason.",
		}, []string{"source", "reason"}),
		ZonesUpserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zone_tracker",
			Name:      "zones_upserted_total",
			Help:      "Normalized documents applied against the zone store.",
		}, []string{"source"}),
		ZonesExpired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zone_tracker",
			Name:      "zones_expired_total",
			Help:      "Zones deactivated by the expiry sweeper.",
		}, []string{"source"}),
		FeedErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zone_tracker",
			Name:      "feed_errors_total",
			Help:      "Failed feed passes (fetch or store errors).",
		}, []string{"source"}),
		SyncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "zone_tracker",
			Name:      "sync_duration_seconds",
			Help:      "Wall time of one full hazard-sync pass.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.EventsFetched,
		m.EventsDropped,
		m.ZonesUpserted,
		m.ZonesExpired,
		m.FeedErrors,
		m.SyncDuration,
	)

	return m
}
