package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wareflow/backend-go/internal/service"
)

type SimulationHandler struct {
	service *service.SimulationService
}

func NewSimulationHandler(service *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{service: service}
}

func (h *SimulationHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch summary", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *SimulationHandler) ListDeliveries(c *gin.Context) {
	limit := parseLimit(c, 50)

	deliveries, err := h.service.ListDeliveries(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch deliveries", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deliveries": deliveries,
		"total":      len(deliveries),
	})
}

func (h *SimulationHandler) ListOverspend(c *gin.Context) {
	limit := parseLimit(c, 50)

	anomalies, err := h.service.ListOverspend(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch overspend anomalies", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"anomalies": anomalies,
		"total":     len(anomalies),
	})
}

func (h *SimulationHandler) ListUnderperformance(c *gin.Context) {
	limit := parseLimit(c, 50)

	anomalies, err := h.service.ListUnderperformance(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch underperformance anomalies", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"anomalies": anomalies,
		"total":     len(anomalies),
	})
}

type runSimulationRequest struct {
	StartDate string `json:"start_date"`
	NumDays   int    `json:"num_days"`
}

// RunSimulation advances the warehouse by the requested number of days.
// Days run synchronously; the response reflects the finished state.
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req runSimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if req.NumDays <= 0 {
		req.NumDays = 1
	}

	start := time.Now()
	if req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, expected YYYY-MM-DD", "details": err.Error()})
			return
		}
		start = parsed
	}

	if err := h.service.RunDays(c.Request.Context(), start, req.NumDays); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "simulation run failed", "details": err.Error()})
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch summary", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"days_run": req.NumDays,
		"summary":  summary,
	})
}

func parseLimit(c *gin.Context, fallback int) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(fallback)))
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
