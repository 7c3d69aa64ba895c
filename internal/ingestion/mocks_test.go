package ingestion

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/openrelief/zone-tracker/internal/config"
	"github.com/openrelief/zone-tracker/internal/feeds"
	"github.com/openrelief/zone-tracker/internal/models"
	"github.com/openrelief/zone-tracker/internal/repository"
)

func testConfig() *config.Config {
	return &config.Config{
		Feeds: config.FeedsConfig{
			SeismicEnabled:      true,
			GlobalEventsEnabled: true,
			SyncInterval:        30 * time.Minute,
			FetchTimeout:        5 * time.Second,
			Country:             "India",
		},
		Expiry: config.ExpiryConfig{
			SweepInterval:   time.Hour,
			SeismicTTL:      7 * 24 * time.Hour,
			GlobalEventsTTL: 24 * time.Hour,
		},
	}
}

// mockZoneRepo implements repository.ZoneRepository in memory, keyed by
// (externalID, source) like the real store.
type mockZoneRepo struct {
	mu      sync.Mutex
	zones   map[string]*models.Zone
	upserts atomic.Int64
}

func newMockZoneRepo() *mockZoneRepo {
	return &mockZoneRepo{
		zones: make(map[string]*models.Zone),
	}
}

func identityKey(externalID string, source models.ZoneSource) string {
	return externalID + "|" + string(source)
}

func (m *mockZoneRepo) Upsert(ctx context.Context, doc *models.ZoneUpsert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts.Add(1)

	key := identityKey(doc.ExternalID, doc.Source)
	now := time.Now()

	existing, ok := m.zones[key]
	if !ok {
		m.zones[key] = &models.Zone{
			ID:           key,
			Name:         doc.Name,
			CategoryID:   doc.CategoryID,
			Severity:     doc.Severity,
			GeometryKind: models.GeometryCircle,
			Circle:       &models.Circle{Center: doc.Center, RadiusKm: doc.RadiusKm},
			Country:      doc.Country,
			IsActive:     true,
			ExternalID:   doc.ExternalID,
			Source:       doc.Source,
			Description:  doc.Description,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return nil
	}

	existing.Name = doc.Name
	existing.CategoryID = doc.CategoryID
	existing.Severity = doc.Severity
	existing.GeometryKind = models.GeometryCircle
	existing.Circle = &models.Circle{Center: doc.Center, RadiusKm: doc.RadiusKm}
	existing.Polygon = nil
	existing.Description = doc.Description
	existing.IsActive = true
	existing.UpdatedAt = now
	return nil
}

func (m *mockZoneRepo) GetByExternalID(ctx context.Context, externalID string, source models.ZoneSource) (*models.Zone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	z, ok := m.zones[identityKey(externalID, source)]
	if !ok {
		return nil, nil
	}
	copied := *z
	return &copied, nil
}

func (m *mockZoneRepo) ListZones(ctx context.Context, filter repository.ZoneFilter) ([]models.Zone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var results []models.Zone
	for _, z := range m.zones {
		results = append(results, *z)
	}
	return results, nil
}

func (m *mockZoneRepo) DeactivateExpired(ctx context.Context, source models.ZoneSource, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var retired int64
	for _, z := range m.zones {
		if z.Source == source && z.IsActive && z.CreatedAt.Before(cutoff) {
			z.IsActive = false
			retired++
		}
	}
	return retired, nil
}

func (m *mockZoneRepo) Create(ctx context.Context, z *models.Zone) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zones[identityKey(z.ExternalID, z.Source)] = z
	return nil
}

func (m *mockZoneRepo) put(z *models.Zone) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zones[identityKey(z.ExternalID, z.Source)] = z
}

// mockCategoryRepo mirrors the store's resolution rule: a category matches
// when its name occurs inside the label, case-insensitively.
type mockCategoryRepo struct {
	cats []models.HazardCategory
}

func newMockCategoryRepo() *mockCategoryRepo {
	cats := models.DefaultCategories()
	for i := range cats {
		cats[i].ID = "cat-" + cats[i].Code
	}
	return &mockCategoryRepo{cats: cats}
}

func (m *mockCategoryRepo) Seed(ctx context.Context, categories []models.HazardCategory) error {
	return nil
}

func (m *mockCategoryRepo) Resolve(ctx context.Context, label string) (*models.HazardCategory, error) {
	lower := strings.ToLower(label)
	for _, c := range m.cats {
		if c.IsActive && strings.Contains(lower, strings.ToLower(c.Name)) {
			cat := c
			return &cat, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (m *mockCategoryRepo) ListCategories(ctx context.Context) ([]models.HazardCategory, error) {
	return m.cats, nil
}

// fakeQuakeFeed is a scriptable seismic connector.
type fakeQuakeFeed struct {
	mu       sync.Mutex
	features []feeds.QuakeFeature
	err      error
	calls    atomic.Int64
	block    chan struct{} // when set, Fetch blocks until closed
}

func (f *fakeQuakeFeed) Fetch(ctx context.Context) ([]feeds.QuakeFeature, error) {
	f.calls.Add(1)
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.features, nil
}

// fakeGlobalFeed is a scriptable global-events connector.
type fakeGlobalFeed struct {
	mu     sync.Mutex
	events []feeds.GlobalEvent
	err    error
	calls  atomic.Int64
}

func (f *fakeGlobalFeed) Fetch(ctx context.Context) ([]feeds.GlobalEvent, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func floatPtr(v float64) *float64 {
	return &v
}
