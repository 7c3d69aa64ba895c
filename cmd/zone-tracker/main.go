package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/openrelief/zone-tracker/internal/api"
	"github.com/openrelief/zone-tracker/internal/config"
	"github.com/openrelief/zone-tracker/internal/feeds"
	"github.com/openrelief/zone-tracker/internal/geo"
	"github.com/openrelief/zone-tracker/internal/ingestion"
	"github.com/openrelief/zone-tracker/internal/logging"
	"github.com/openrelief/zone-tracker/internal/models"
	"github.com/openrelief/zone-tracker/internal/observability"
	"github.com/openrelief/zone-tracker/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(os.Stdout, cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.Seed(ctx, models.DefaultCategories()); err != nil {
		logging.Fatalf("Failed to seed hazard categories: %v", err)
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	// Seismic events are pre-filtered server-side to the country's bounding
	// box; the global-events feed is unbounded and geofenced per event.
	seismic := feeds.NewUSGSClient(cfg.Feeds.SeismicURL, geo.IndiaBounds, cfg.Expiry.SeismicTTL, cfg.Feeds.FetchTimeout)
	global := feeds.NewEONETClient(cfg.Feeds.GlobalEventsURL, cfg.Feeds.FetchTimeout)

	mgr := ingestion.NewManager(cfg, db, db, seismic, global, metrics, nil)
	mgr.Start(ctx)

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(5)) // 5 req/s global limit

	handler := api.NewHandler(db, db, mgr, registry)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	mgr.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
