package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/smartshop/backend/config"
	httpDelivery "github.com/smartshop/backend/internal/delivery/http"
	"github.com/smartshop/backend/internal/infrastructure/cache"
	"github.com/smartshop/backend/internal/infrastructure/catalog"
	"github.com/smartshop/backend/internal/infrastructure/detector"
	"github.com/smartshop/backend/internal/infrastructure/ocr"
	"github.com/smartshop/backend/internal/infrastructure/tts"
	"github.com/smartshop/backend/internal/logger"
	"github.com/smartshop/backend/internal/usecase"
)

func main() {
	// .env is optional; real deployments set environment variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Infof("Starting SmartShop Backend v1.0.0")
	logger.Infof("Environment: %s", cfg.Server.Environment)
	logger.Infof("Port: %s", cfg.Server.Port)
	logger.Infof("Detector mode: %s", cfg.Detector.Mode)

	// Database and catalog snapshot
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	store := catalog.NewStore(db)
	if err := store.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	snapshot, err := store.Reload(ctx)
	cancel()
	if err != nil {
		logger.Fatalf("Failed to load catalog: %v", err)
	}
	logger.Infof("Catalog loaded: %d products", snapshot.Len())

	orderStore := catalog.NewOrderStore(db)

	// External adapters
	detectorClient := detector.NewClient(cfg.Detector.BaseURL, cfg.Detector.Mode)
	if cfg.Server.Environment == "development" {
		detectorClient.SetDebug(true)
	}

	ocrClient, err := ocr.NewGeminiClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.OCR.Timeout)
	if err != nil {
		logger.Fatalf("Failed to create Gemini client: %v", err)
	}

	ttsClient, err := tts.NewClient(cfg.TTS.BaseURL, cfg.TTS.AudioDir, cfg.TTS.Enabled)
	if err != nil {
		logger.Fatalf("Failed to create TTS client: %v", err)
	}

	audioCache := cache.NewMemoryCache()

	// Usecase layer
	fusionService := usecase.NewFusionService(ocrClient, usecase.FusionConfig{
		Concurrency: cfg.OCR.Concurrency,
	})
	matchingService := usecase.NewMatchingService(store, usecase.MatchConfig{
		MinScore: cfg.Matching.MinScore,
	})
	assemblyService := usecase.NewAssemblyService(ttsClient, audioCache, cfg.Cache.AudioTTL)
	predictionService := usecase.NewPredictionService(
		detectorClient,
		fusionService,
		matchingService,
		assemblyService,
		usecase.PredictionConfig{
			DefaultMinConfidence: cfg.Detector.MinConfidence,
			DefaultLanguage:      cfg.TTS.Language,
		},
	)
	productService := usecase.NewProductService(store)
	orderService := usecase.NewOrderService(orderStore)

	// HTTP delivery
	handler := httpDelivery.NewHandler(
		predictionService,
		productService,
		orderService,
		store,
		ocrClient,
		ttsClient,
	)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Infof("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
