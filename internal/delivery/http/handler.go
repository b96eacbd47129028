package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartshop/backend/internal/domain"
	"github.com/smartshop/backend/internal/logger"
	"github.com/smartshop/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers. Optional collaborators may
// be nil (tests, degraded deployments); the affected endpoints respond with
// their unavailable status instead of panicking.
type Handler struct {
	prediction PredictionUsecase
	products   ProductUsecase
	orders     OrderUsecase
	catalog    domain.CatalogRepository
	ocr        domain.OCRClient
	tts        domain.TTSClient
}

// PredictionUsecase is the prediction pipeline consumed by the handler
type PredictionUsecase interface {
	Predict(ctx context.Context, request *domain.PredictionRequest) (*usecase.PredictResult, error)
	Ready(ctx context.Context) bool
}

// ProductUsecase is the product search surface consumed by the handler
type ProductUsecase interface {
	Search(brand, name, quantity string) domain.ProductSearchResponse
	List(limit int) domain.ProductSearchResponse
}

// OrderUsecase is the order surface consumed by the handler
type OrderUsecase interface {
	Create(ctx context.Context, request *domain.OrderRequest) (*domain.OrderResponse, error)
}

// NewHandler creates a new HTTP handler
func NewHandler(
	prediction PredictionUsecase,
	products ProductUsecase,
	orders OrderUsecase,
	catalog domain.CatalogRepository,
	ocr domain.OCRClient,
	tts domain.TTSClient,
) *Handler {
	return &Handler{
		prediction: prediction,
		products:   products,
		orders:     orders,
		catalog:    catalog,
		ocr:        ocr,
		tts:        tts,
	}
}

// HealthCheck reports the status of all backend collaborators
func (h *Handler) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	modelLoaded := h.prediction != nil && h.prediction.Ready(ctx)
	geminiConfigured := h.ocr != nil && h.ocr.Configured()
	ttsEnabled := h.tts != nil && h.tts.Enabled()
	databaseUp := h.catalog != nil && h.catalog.Ping(ctx) == nil

	status := "healthy"
	if !modelLoaded || !databaseUp {
		status = "degraded"
	}

	c.JSON(http.StatusOK, domain.HealthResponse{
		Status:           status,
		ModelLoaded:      modelLoaded,
		GeminiConfigured: geminiConfigured,
		Services: map[string]bool{
			"yolo":     modelLoaded,
			"ocr":      geminiConfigured,
			"tts":      ttsEnabled,
			"database": databaseUp,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Predict runs the detection pipeline on a submitted frame
func (h *Handler) Predict(c *gin.Context) {
	if h.prediction == nil {
		errorResponse(c, http.StatusServiceUnavailable, "Detection service not available")
		return
	}

	var request domain.PredictionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.prediction.Predict(c.Request.Context(), &request)
	if err != nil {
		h.predictError(c, err)
		return
	}

	c.JSON(http.StatusOK, result.Response)
}

// predictError maps pipeline failures to status codes. Every failure body
// still carries a speakable message so the voice layer has something to
// announce.
func (h *Handler) predictError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidImage), errors.Is(err, domain.ErrInvalidRequest):
		errorResponse(c, http.StatusBadRequest, "Could not read the submitted image. Please try again.")
	case errors.Is(err, domain.ErrDetectorUnavailable):
		errorResponse(c, http.StatusServiceUnavailable, "Detection model is not available. Please try again later.")
	case errors.Is(err, domain.ErrCatalogUnavailable):
		errorResponse(c, http.StatusServiceUnavailable, "Product catalog is temporarily unavailable. Please retry.")
	case errors.Is(err, context.Canceled):
		// Client went away; nothing to send.
		c.Abort()
	default:
		logger.WithError(err).Errorf("prediction failed")
		errorResponse(c, http.StatusInternalServerError, "Detection failed, please try again.")
	}
}

// SearchProducts handles catalog search requests
func (h *Handler) SearchProducts(c *gin.Context) {
	if h.products == nil {
		errorResponse(c, http.StatusServiceUnavailable, "Product catalog is temporarily unavailable. Please retry.")
		return
	}

	response := h.products.Search(
		c.Query("brand"),
		c.Query("name"),
		c.Query("quantity"),
	)
	c.JSON(http.StatusOK, response)
}

// ListProducts returns up to ?limit= catalog entries (default 100, max 500)
func (h *Handler) ListProducts(c *gin.Context) {
	if h.products == nil {
		errorResponse(c, http.StatusServiceUnavailable, "Product catalog is temporarily unavailable. Please retry.")
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			errorResponse(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > 500 {
		limit = 500
	}

	c.JSON(http.StatusOK, h.products.List(limit))
}

// CreateOrder handles order creation requests
func (h *Handler) CreateOrder(c *gin.Context) {
	if h.orders == nil {
		errorResponse(c, http.StatusServiceUnavailable, "Ordering is temporarily unavailable. Please retry.")
		return
	}

	var request domain.OrderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		errorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	response, err := h.orders.Create(c.Request.Context(), &request)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.WithError(err).Errorf("order creation failed")
		errorResponse(c, http.StatusInternalServerError, "Order creation failed, please try again.")
		return
	}

	c.JSON(http.StatusOK, response)
}

// ReloadCatalog atomically reseeds the catalog snapshot from storage
func (h *Handler) ReloadCatalog(c *gin.Context) {
	if h.catalog == nil {
		errorResponse(c, http.StatusServiceUnavailable, "Product catalog is temporarily unavailable. Please retry.")
		return
	}

	snapshot, err := h.catalog.Reload(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusServiceUnavailable, "Catalog reload failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"products": snapshot.Len(),
	})
}

// errorResponse writes the uniform error body
func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"status":  "error",
		"message": message,
	})
}
