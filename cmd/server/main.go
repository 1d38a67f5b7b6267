package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/smartshop/backend/config"
	httpDelivery "github.com/smartshop/backend/internal/delivery/http"
	"github.com/smartshop/backend/internal/domain"
	"github.com/smartshop/backend/internal/infrastructure/cache"
	"github.com/smartshop/backend/internal/infrastructure/catalog"
	"github.com/smartshop/backend/internal/infrastructure/gemini"
	"github.com/smartshop/backend/internal/infrastructure/logger"
	"github.com/smartshop/backend/internal/infrastructure/storemap"
	"github.com/smartshop/backend/internal/usecase"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLog.Sync() }()

	zapLog.Info("Starting SmartShop Backend v1.0.0",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("catalog", cfg.Catalog.Type),
		zap.String("cache", cfg.Cache.Type),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	store, closeStore, err := newCatalogStore(ctx, cfg.Catalog, zapLog)
	if err != nil {
		zapLog.Fatal("Failed to initialize catalog", zap.Error(err))
	}
	defer closeStore()

	colors, closeColors, err := newColorCache(ctx, cfg.Cache)
	if err != nil {
		zapLog.Fatal("Failed to initialize aisle color cache", zap.Error(err))
	}
	defer closeColors()

	layout, err := storemap.Load(cfg.StoreMap.CoordsPath, zapLog)
	if err != nil {
		// Markers and routes are optional; plans still resolve without a map.
		zapLog.Warn("Store map unavailable, continuing without positions", zap.Error(err))
		layout = storemap.NewLayout(nil)
	}
	zapLog.Info("Store map ready", zap.Int("aisles", layout.Len()))

	if cfg.LLM.APIKey == "" {
		zapLog.Warn("LLM API key not configured - every request will use the default intent")
	}
	generator := gemini.NewClient(gemini.Options{
		APIKey:            cfg.LLM.APIKey,
		Model:             cfg.LLM.Model,
		BaseURL:           cfg.LLM.BaseURL,
		Temperature:       cfg.LLM.Temperature,
		MaxOutputTokens:   cfg.LLM.MaxOutputTokens,
		MaxRetries:        cfg.LLM.MaxRetries,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	}, zapLog)

	// Initialize usecase layer
	extractor := usecase.NewIntentExtractor(generator, usecase.ExtractorConfig{Timeout: cfg.LLM.Timeout}, zapLog)
	matcher := usecase.NewCatalogMatcher(store, usecase.MatcherConfig{Concurrency: cfg.Catalog.Concurrency}, zapLog)
	shoppingService := usecase.NewShoppingService(extractor, matcher, zapLog)
	presentationService := usecase.NewPresentationService(layout, colors, zapLog)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(shoppingService, presentationService, zapLog)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, zapLog)

	// Start server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		zapLog.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Server shutdown failed", zap.Error(err))
	}
}

// newCatalogStore opens the configured catalog backend. The returned func releases it.
func newCatalogStore(ctx context.Context, cfg config.CatalogConfig, zapLog *zap.Logger) (domain.CatalogStore, func(), error) {
	switch cfg.Type {
	case "mongo":
		client, collection, err := catalog.ConnectMongo(ctx, cfg.URI, cfg.Database, cfg.Collection)
		if err != nil {
			return nil, nil, err
		}
		zapLog.Info("Catalog connected", zap.String("database", cfg.Database), zap.String("collection", cfg.Collection))
		return catalog.NewMongoStore(collection), func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}, nil

	case "postgres":
		db, err := catalog.OpenPostgres(ctx, cfg.URI)
		if err != nil {
			return nil, nil, err
		}
		store, err := catalog.NewPostgresStore(db, cfg.Table)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		zapLog.Info("Catalog connected", zap.String("table", cfg.Table))
		return store, func() { _ = db.Close() }, nil

	default:
		store, err := catalog.LoadMemoryStore(cfg.FixturePath)
		if err != nil {
			return nil, nil, err
		}
		zapLog.Info("Catalog loaded from fixture", zap.String("path", cfg.FixturePath))
		return store, func() {}, nil
	}
}

// newColorCache builds the process-wide aisle color store
func newColorCache(ctx context.Context, cfg config.CacheConfig) (domain.AisleColorRepository, func(), error) {
	if cfg.Type != "redis" {
		return cache.NewMemoryColorCache(cache.RandomColor), func() {}, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewRedisColorCache(client, cfg.KeyPrefix, cache.RandomColor), func() { _ = client.Close() }, nil
}
