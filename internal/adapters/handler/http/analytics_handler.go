package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumoapps/habitpulse-engine/internal/adapters/handler/http/middleware"
	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
	"github.com/lumoapps/habitpulse-engine/internal/core/services"
)

type AnalyticsHandler struct {
	svc *services.AnalyticsService
}

func NewAnalyticsHandler(svc *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

type dismissSuggestionRequest struct {
	Name string `json:"name" binding:"required"`
}

type applyAdjustmentRequest struct {
	SuggestedGoal float64 `json:"suggested_goal" binding:"required"`
}

func (h *AnalyticsHandler) RegisterRoutes(r *gin.RouterGroup) {
	analytics := r.Group("/analytics")
	{
		analytics.GET("/stats", h.GetAllStatistics)
		analytics.GET("/habits/:id/stats", h.GetStatistics)
		analytics.GET("/habits/:id/progression", h.GetProgressionInfo)
		analytics.GET("/habits/:id/goal-check", h.CheckGoalAdjustment)
		analytics.POST("/habits/:id/goal-adjustment", h.ApplyGoalAdjustment)
		analytics.GET("/insights", h.GetInsights)
		analytics.GET("/suggestions", h.GetSuggestions)
		analytics.POST("/suggestions/dismiss", h.DismissSuggestion)
		analytics.POST("/suggestions/reset", h.ResetDismissed)
		analytics.GET("/stacks/:id/progress", h.GetStackProgress)
		analytics.GET("/stack-combinations", h.GetStackCombinations)
	}
}

// resolveNow lets clients pin the evaluation instant, so a phone in another
// timezone can ask for "today" as it sees it. Defaults to server time.
func resolveNow(c *gin.Context) (time.Time, bool) {
	atStr := c.Query("at")
	if atStr == "" {
		return time.Now().UTC(), true
	}

	at, err := time.Parse(time.RFC3339, atStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid at format, use RFC3339"})
		return time.Time{}, false
	}
	return at, true
}

func (h *AnalyticsHandler) GetStatistics(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	now, ok := resolveNow(c)
	if !ok {
		return
	}

	stats, err := h.svc.GetStatistics(c.Request.Context(), c.Param("id"), userID, now)
	if err != nil {
		handleAnalyticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AnalyticsHandler) GetAllStatistics(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	now, ok := resolveNow(c)
	if !ok {
		return
	}

	stats, err := h.svc.GetAllStatistics(c.Request.Context(), userID, now)
	if err != nil {
		handleAnalyticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AnalyticsHandler) GetProgressionInfo(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	now, ok := resolveNow(c)
	if !ok {
		return
	}

	info, err := h.svc.GetProgressionInfo(c.Request.Context(), c.Param("id"), userID, now)
	if err != nil {
		handleAnalyticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

func (h *AnalyticsHandler) CheckGoalAdjustment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	now, ok := resolveNow(c)
	if !ok {
		return
	}

	suggestion, err := h.svc.CheckGoalAdjustment(c.Request.Context(), c.Param("id"), userID, now)
	if err != nil {
		handleAnalyticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestion": suggestion})
}

func (h *AnalyticsHandler) ApplyGoalAdjustment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req applyAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := h.svc.ApplyGoalAdjustment(c.Request.Context(), c.Param("id"), userID, req.SuggestedGoal, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidGoal) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		handleAnalyticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *AnalyticsHandler) GetInsights(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	now, ok := resolveNow(c)
	if !ok {
		return
	}

	insights, err := h.svc.GetInsights(c.Request.Context(), userID, now)
	if err != nil {
		handleAnalyticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, insights)
}

func (h *AnalyticsHandler) GetSuggestions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	now, ok := resolveNow(c)
	if !ok {
		return
	}

	suggestions, err := h.svc.GetSuggestions(c.Request.Context(), userID, now)
	if err != nil {
		handleAnalyticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, suggestions)
}

func (h *AnalyticsHandler) DismissSuggestion(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req dismissSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.DismissSuggestion(c.Request.Context(), userID, req.Name); err != nil {
		handleAnalyticsError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AnalyticsHandler) ResetDismissed(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.svc.ResetDismissed(c.Request.Context(), userID); err != nil {
		handleAnalyticsError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AnalyticsHandler) GetStackProgress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	now, ok := resolveNow(c)
	if !ok {
		return
	}

	progress, err := h.svc.GetStackProgress(c.Request.Context(), c.Param("id"), userID, now)
	if err != nil {
		handleAnalyticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

func (h *AnalyticsHandler) GetStackCombinations(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	now, ok := resolveNow(c)
	if !ok {
		return
	}

	combos, err := h.svc.GetStackCombinations(c.Request.Context(), userID, now)
	if err != nil {
		handleAnalyticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, combos)
}

func handleAnalyticsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrHabitNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
	case errors.Is(err, domain.ErrStackNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "stack not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
