package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openrelief/zone-tracker/internal/models"
	"github.com/openrelief/zone-tracker/internal/repository"
)

// Syncer triggers an out-of-schedule hazard-sync pass.
type Syncer interface {
	SyncNow(ctx context.Context)
}

type Handler struct {
	zones      repository.ZoneRepository
	categories repository.CategoryRepository
	syncer     Syncer
	registry   *prometheus.Registry
}

func NewHandler(zones repository.ZoneRepository, categories repository.CategoryRepository, syncer Syncer, registry *prometheus.Registry) *Handler {
	return &Handler{
		zones:      zones,
		categories: categories,
		syncer:     syncer,
		registry:   registry,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/zones", h.getZones)
	r.GET("/api/zones/geojson", h.getZonesGeoJSON)
	r.GET("/api/categories", h.getCategories)
	r.GET("/health", h.health)
	if h.syncer != nil {
		r.POST("/api/debug/sync", h.triggerSync)
	}
	if h.registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})))
	}
}

// getZones returns zones in their persisted JSON shape: geometryKind
// discriminates which of the circle/polygon payloads is present.
func (h *Handler) getZones(c *gin.Context) {
	filter := repository.ZoneFilter{
		Limit: 100,
	}

	if a := c.Query("active"); a != "" {
		if active, err := strconv.ParseBool(a); err == nil {
			filter.Active = &active
		}
	}
	if s := c.Query("source"); s != "" {
		src := parseSource(s)
		if src != "" {
			filter.Source = &src
		}
	}
	if cat := c.Query("category"); cat != "" {
		filter.CategoryID = cat
	}
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= 500 {
			filter.Limit = lim
		}
	}

	zones, err := h.zones.ListZones(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch zones",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"zones": zones})
}

func (h *Handler) getZonesGeoJSON(c *gin.Context) {
	active := true
	zones, err := h.zones.ListZones(c.Request.Context(), repository.ZoneFilter{Active: &active})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch zones",
		})
		return
	}

	fc := toGeoJSON(zones)
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

func (h *Handler) getCategories(c *gin.Context) {
	categories, err := h.categories.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch categories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// triggerSync kicks off a sync pass without waiting for the next tick.
// The pass runs in the background; if one is already in flight the manager
// skips it.
func (h *Handler) triggerSync(c *gin.Context) {
	go h.syncer.SyncNow(context.WithoutCancel(c.Request.Context()))
	c.JSON(http.StatusAccepted, gin.H{"message": "sync triggered"})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parseSource(s string) models.ZoneSource {
	switch s {
	case "manual":
		return models.SourceManual
	case "feed:global-events", "global-events":
		return models.SourceGlobalEvents
	case "feed:seismic", "seismic":
		return models.SourceSeismic
	default:
		return ""
	}
}
