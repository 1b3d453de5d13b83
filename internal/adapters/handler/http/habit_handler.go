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

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	return &HabitHandler{
		svc: svc,
	}
}

type createHabitRequest struct {
	Name                      string   `json:"name" binding:"required"`
	Icon                      string   `json:"icon"`
	Color                     string   `json:"color"`
	HabitType                 string   `json:"habit_type"`
	DataSource                string   `json:"data_source"`
	DailyGoal                 *float64 `json:"daily_goal"`
	InitialGoal               float64  `json:"initial_goal"`
	GoalProgression           string   `json:"goal_progression"`
	GoalIncrement             float64  `json:"goal_increment"`
	GoalIncrementIntervalDays int      `json:"goal_increment_interval_days"`
	RestDays                  []int    `json:"rest_days"`
}

type updateHabitRequest struct {
	Name                      string   `json:"name"`
	Icon                      string   `json:"icon"`
	Color                     string   `json:"color"`
	HabitType                 string   `json:"habit_type"`
	DataSource                string   `json:"data_source"`
	DailyGoal                 *float64 `json:"daily_goal"`
	InitialGoal               *float64 `json:"initial_goal"`
	GoalProgression           string   `json:"goal_progression"`
	GoalIncrement             *float64 `json:"goal_increment"`
	GoalIncrementIntervalDays *int     `json:"goal_increment_interval_days"`
	RestDays                  []int    `json:"rest_days"`
	Version                   int      `json:"version"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.GET("/sync", h.Sync)
		habits.GET("/:id", h.Get)
		habits.PUT("/:id", h.Update)
		habits.DELETE("/:id", h.Delete)
	}
}

func (h *HabitHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.CreateHabitInput{
		UserID: userID,
		HabitParams: domain.HabitParams{
			Name:                      req.Name,
			Icon:                      req.Icon,
			Color:                     req.Color,
			HabitType:                 req.HabitType,
			DataSource:                req.DataSource,
			DailyGoal:                 req.DailyGoal,
			InitialGoal:               req.InitialGoal,
			GoalProgression:           req.GoalProgression,
			GoalIncrement:             req.GoalIncrement,
			GoalIncrementIntervalDays: req.GoalIncrementIntervalDays,
			RestDays:                  req.RestDays,
		},
	}

	habit, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		if isHabitValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, habit)
}

func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	list, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *HabitHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	habit, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Sync(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	lastSyncStr := c.Query("last_sync")
	var lastSync time.Time
	var err error

	if lastSyncStr != "" {
		lastSync, err = time.Parse(time.RFC3339, lastSyncStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid last_sync format, use RFC3339"})
			return
		}
	}

	deltas, err := h.svc.GetDelta(c.Request.Context(), userID, lastSync)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changes":   deltas,
		"timestamp": time.Now().UTC(),
	})
}

func (h *HabitHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	id := c.Param("id")

	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.UpdateHabitInput{
		ID:                        id,
		UserID:                    userID,
		Version:                   req.Version,
		Name:                      req.Name,
		Icon:                      req.Icon,
		Color:                     req.Color,
		HabitType:                 req.HabitType,
		DataSource:                req.DataSource,
		DailyGoal:                 req.DailyGoal,
		InitialGoal:               req.InitialGoal,
		GoalProgression:           req.GoalProgression,
		GoalIncrement:             req.GoalIncrement,
		GoalIncrementIntervalDays: req.GoalIncrementIntervalDays,
		RestDays:                  req.RestDays,
	}

	habit, err := h.svc.Update(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrHabitConflict) {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "version conflict",
				"message": "Data has been modified elsewhere. Please sync.",
			})
			return
		}
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		if isHabitValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	id := c.Param("id")

	err := h.svc.Delete(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func isHabitValidationError(err error) bool {
	return errors.Is(err, domain.ErrHabitNameEmpty) ||
		errors.Is(err, domain.ErrHabitNameTooLong) ||
		errors.Is(err, domain.ErrInvalidColor) ||
		errors.Is(err, domain.ErrInvalidRestDays) ||
		errors.Is(err, domain.ErrInvalidGoal) ||
		errors.Is(err, domain.ErrInvalidIncrement) ||
		errors.Is(err, domain.ErrInvalidHabitType) ||
		errors.Is(err, domain.ErrInvalidProgression)
}
