package http

import (
	"github.com/gin-gonic/gin"
	"github.com/smartshop/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Synthesized audio is served as static files so the browser can play
	// the summary straight from the URL in the prediction response.
	if cfg.TTS.Enabled && cfg.TTS.AudioDir != "" {
		router.Static("/audio", cfg.TTS.AudioDir)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handler.HealthCheck)
		v1.POST("/predict", handler.Predict)

		products := v1.Group("/products")
		{
			products.GET("", handler.ListProducts)
			products.GET("/search", handler.SearchProducts)
		}

		v1.POST("/orders", handler.CreateOrder)

		admin := v1.Group("/admin")
		{
			admin.POST("/catalog/reload", handler.ReloadCatalog)
		}
	}

	return router
}
