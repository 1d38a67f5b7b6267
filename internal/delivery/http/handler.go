package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartshop/backend/internal/domain"
	"github.com/smartshop/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	shopping     *usecase.ShoppingService
	presentation *usecase.PresentationService
	logger       *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(shopping *usecase.ShoppingService, presentation *usecase.PresentationService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		shopping:     shopping,
		presentation: presentation,
		logger:       logger.Named("http"),
	}
}

// PlanRequest is the body of POST /api/v1/shopping/plan
type PlanRequest struct {
	Query string `json:"query" binding:"required"`
}

// PlanResponse combines the resolved plan with its render-ready view
type PlanResponse struct {
	Query           string                  `json:"query"`
	Intent          domain.ShoppingIntent   `json:"intent"`
	Selections      []domain.Selection      `json:"selections"`
	TotalCost       int                     `json:"totalCost"`
	NoResults       bool                    `json:"noResults"`
	KeywordFailures []domain.KeywordFailure `json:"keywordFailures,omitempty"`
	Markers         []usecase.Marker        `json:"markers"`
	Route           []domain.Point          `json:"route,omitempty"`
	Legend          []usecase.LegendEntry   `json:"legend"`
	Summary         usecase.Summary         `json:"summary"`
}

// LegendItem is one aisle color in the legend response
type LegendItem struct {
	Aisle string `json:"aisle"`
	Color string `json:"color"`
	Alpha uint8  `json:"alpha"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "smartshop-backend",
		"version": "1.0.0",
	})
}

// PlanShopping resolves one free-text shopping request
func (h *Handler) PlanShopping(c *gin.Context) {
	if h.shopping == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Shopping service not configured",
		})
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: query is required",
		})
		return
	}

	plan, err := h.shopping.Plan(c.Request.Context(), req.Query)
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp := PlanResponse{
		Query:           plan.Query,
		Intent:          plan.Intent,
		Selections:      plan.Selections,
		TotalCost:       plan.TotalCost,
		NoResults:       plan.NoResults(),
		KeywordFailures: plan.KeywordFailures,
		Markers:         []usecase.Marker{},
		Legend:          []usecase.LegendEntry{},
		Summary:         usecase.BuildSummary(plan),
	}

	if h.presentation != nil {
		view := h.presentation.Render(c.Request.Context(), plan)
		resp.Markers = view.Markers
		resp.Route = view.Route
		resp.Legend = view.Legend
		resp.Summary = view.Summary
	}

	c.JSON(http.StatusOK, resp)
}

// AisleLegend lists every aisle color assigned so far
func (h *Handler) AisleLegend(c *gin.Context) {
	if h.presentation == nil {
		c.JSON(http.StatusOK, gin.H{"aisles": []LegendItem{}})
		return
	}

	colors, err := h.presentation.Legend(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	items := make([]LegendItem, 0, len(colors))
	for _, color := range colors {
		items = append(items, LegendItem{Aisle: color.Aisle, Color: color.Hex(), Alpha: color.A})
	}
	c.JSON(http.StatusOK, gin.H{"aisles": items})
}

// handleError maps domain errors to HTTP status codes
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: query is required"})
	case errors.Is(err, domain.ErrCacheUnavailable):
		h.logger.Error("cache unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Aisle color store temporarily unavailable"})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
