package ingestion

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/openrelief/zone-tracker/internal/config"
	"github.com/openrelief/zone-tracker/internal/feeds"
	"github.com/openrelief/zone-tracker/internal/models"
	"github.com/openrelief/zone-tracker/internal/observability"
	"github.com/openrelief/zone-tracker/internal/repository"
)

// QuakeFetcher is the seismic feed connector.
type QuakeFetcher interface {
	Fetch(ctx context.Context) ([]feeds.QuakeFeature, error)
}

// GlobalEventFetcher is the global-events feed connector.
type GlobalEventFetcher interface {
	Fetch(ctx context.Context) ([]feeds.GlobalEvent, error)
}

// Manager drives the two pipeline cadences: hazard sync (fetch, normalize,
// upsert, global-events feed first then seismic, events in feed order) and the
// expiry sweep. All work for a tick runs on the cadence goroutine; an atomic
// in-flight flag skips a tick when the previous run is still going.
type Manager struct {
	cfg        *config.Config
	zones      repository.ZoneRepository
	categories repository.CategoryRepository
	seismic    QuakeFetcher
	global     GlobalEventFetcher
	metrics    *observability.Metrics
	clock      clockwork.Clock
	country    string
	syncing    atomic.Bool
	sweeping   atomic.Bool
	wg         sync.WaitGroup
}

func NewManager(
	cfg *config.Config,
	zones repository.ZoneRepository,
	categories repository.CategoryRepository,
	seismic QuakeFetcher,
	global GlobalEventFetcher,
	metrics *observability.Metrics,
	clock clockwork.Clock,
) *Manager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Manager{
		cfg:        cfg,
		zones:      zones,
		categories: categories,
		seismic:    seismic,
		global:     global,
		metrics:    metrics,
		clock:      clock,
		country:    cfg.Feeds.Country,
	}
}

func (m *Manager) Start(ctx context.Context) {
	slog.Info("starting hazard pipeline",
		"sync_interval", m.cfg.Feeds.SyncInterval,
		"sweep_interval", m.cfg.Expiry.SweepInterval,
	)

	m.wg.Add(2)
	go m.runSyncLoop(ctx)
	go m.runSweepLoop(ctx)
}

// Stop blocks until both cadence loops have exited. Cancel the Start context
// first.
func (m *Manager) Stop() {
	m.wg.Wait()
	slog.Info("hazard pipeline stopped")
}

// SyncNow triggers an immediate sync pass outside the schedule. The host
// calls it once the persistent store is up so a cold start does not serve
// stale zones until the first tick.
func (m *Manager) SyncNow(ctx context.Context) {
	m.sync(ctx)
}

func (m *Manager) runSyncLoop(ctx context.Context) {
	defer m.wg.Done()

	ticker := m.clock.NewTicker(m.cfg.Feeds.SyncInterval)
	defer ticker.Stop()

	// Startup pass, before the first tick.
	m.sync(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("sync loop shutting down")
			return
		case <-ticker.Chan():
			m.sync(ctx)
		}
	}
}

func (m *Manager) runSweepLoop(ctx context.Context) {
	defer m.wg.Done()

	ticker := m.clock.NewTicker(m.cfg.Expiry.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("sweep loop shutting down")
			return
		case <-ticker.Chan():
			m.sweep(ctx)
		}
	}
}

func (m *Manager) sync(ctx context.Context) {
	if !m.syncing.CompareAndSwap(false, true) {
		slog.Warn("sync pass still in flight, skipping tick")
		return
	}
	defer m.syncing.Store(false)

	start := time.Now()

	if m.cfg.Feeds.GlobalEventsEnabled {
		m.syncGlobalEvents(ctx)
	}
	if m.cfg.Feeds.SeismicEnabled {
		m.syncSeismic(ctx)
	}

	m.metrics.SyncDuration.Observe(time.Since(start).Seconds())
}

// syncSeismic runs one full pass of the seismic feed. A fetch failure abandons
// the pass with no partial writes; a store failure abandons the rest of it.
func (m *Manager) syncSeismic(ctx context.Context) {
	source := string(models.SourceSeismic)

	features, err := m.seismic.Fetch(ctx)
	if err != nil {
		slog.Error("seismic fetch failed", "error", err)
		m.metrics.FeedErrors.WithLabelValues(source).Inc()
		return
	}
	m.metrics.EventsFetched.WithLabelValues(source).Add(float64(len(features)))

	upserted := 0
	for _, f := range features {
		doc, reason, err := m.normalizeQuake(ctx, f)
		if err != nil {
			slog.Error("seismic normalize failed", "id", f.ID, "error", err)
			m.metrics.FeedErrors.WithLabelValues(source).Inc()
			return
		}
		if reason != DropNone {
			slog.Debug("seismic event dropped", "id", f.ID, "reason", reason)
			m.metrics.EventsDropped.WithLabelValues(source, string(reason)).Inc()
			continue
		}

		if err := m.zones.Upsert(ctx, doc); err != nil {
			slog.Error("seismic upsert failed", "id", f.ID, "error", err)
			m.metrics.FeedErrors.WithLabelValues(source).Inc()
			return
		}
		upserted++
		m.metrics.ZonesUpserted.WithLabelValues(source).Inc()
	}

	slog.Info("seismic sync complete", "fetched", len(features), "upserted", upserted)
}

func (m *Manager) syncGlobalEvents(ctx context.Context) {
	source := string(models.SourceGlobalEvents)

	events, err := m.global.Fetch(ctx)
	if err != nil {
		slog.Error("global-events fetch failed", "error", err)
		m.metrics.FeedErrors.WithLabelValues(source).Inc()
		return
	}
	m.metrics.EventsFetched.WithLabelValues(source).Add(float64(len(events)))

	upserted := 0
	for _, ev := range events {
		doc, reason, err := m.normalizeGlobalEvent(ctx, ev)
		if err != nil {
			slog.Error("global-events normalize failed", "id", ev.ID, "error", err)
			m.metrics.FeedErrors.WithLabelValues(source).Inc()
			return
		}
		if reason != DropNone {
			slog.Debug("global event dropped", "id", ev.ID, "reason", reason)
			m.metrics.EventsDropped.WithLabelValues(source, string(reason)).Inc()
			continue
		}

		if err := m.zones.Upsert(ctx, doc); err != nil {
			slog.Error("global-events upsert failed", "id", ev.ID, "error", err)
			m.metrics.FeedErrors.WithLabelValues(source).Inc()
			return
		}
		upserted++
		m.metrics.ZonesUpserted.WithLabelValues(source).Inc()
	}

	slog.Info("global-events sync complete", "fetched", len(events), "upserted", upserted)
}

// sweep retires pipeline-owned zones past their per-source retention window.
// Age is measured from created_at, so a zone still being re-confirmed by its
// feed is retired on the original schedule; the next sync pass will flip it
// active again if the feed still reports it.
func (m *Manager) sweep(ctx context.Context) {
	if !m.sweeping.CompareAndSwap(false, true) {
		slog.Warn("sweep still in flight, skipping tick")
		return
	}
	defer m.sweeping.Store(false)

	now := m.clock.Now().UTC()

	windows := []struct {
		source models.ZoneSource
		ttl    time.Duration
	}{
		{models.SourceSeismic, m.cfg.Expiry.SeismicTTL},
		{models.SourceGlobalEvents, m.cfg.Expiry.GlobalEventsTTL},
	}

	for _, w := range windows {
		retired, err := m.zones.DeactivateExpired(ctx, w.source, now.Add(-w.ttl))
		if err != nil {
			slog.Error("expiry sweep failed", "source", w.source, "error", err)
			m.metrics.FeedErrors.WithLabelValues(string(w.source)).Inc()
			continue
		}
		if retired > 0 {
			slog.Info("expired zones deactivated", "source", w.source, "count", retired)
			m.metrics.ZonesExpired.WithLabelValues(string(w.source)).Add(float64(retired))
		}
	}
}
