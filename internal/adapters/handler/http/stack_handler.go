package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumoapps/habitpulse-engine/internal/adapters/handler/http/middleware"
	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
	"github.com/lumoapps/habitpulse-engine/internal/core/services"
)

type StackHandler struct {
	svc *services.StackService
}

func NewStackHandler(svc *services.StackService) *StackHandler {
	return &StackHandler{
		svc: svc,
	}
}

type createStackRequest struct {
	Name  string `json:"name" binding:"required"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type updateStackRequest struct {
	Name                  string `json:"name"`
	Icon                  string `json:"icon"`
	Color                 string `json:"color"`
	IsActive              *bool  `json:"is_active"`
	NotifyOnChainProgress *bool  `json:"notify_on_chain_progress"`
	Version               int    `json:"version"`
}

type addStackHabitRequest struct {
	HabitID string `json:"habit_id" binding:"required"`
}

type reorderStackRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (h *StackHandler) RegisterRoutes(router *gin.RouterGroup) {
	stacks := router.Group("/stacks")
	{
		stacks.POST("", h.Create)
		stacks.GET("", h.List)
		stacks.GET("/:id", h.Get)
		stacks.PUT("/:id", h.Update)
		stacks.DELETE("/:id", h.Delete)
		stacks.POST("/:id/habits", h.AddHabit)
		stacks.DELETE("/:id/habits/:habitId", h.RemoveHabit)
		stacks.PUT("/:id/reorder", h.Reorder)
	}
}

func (h *StackHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createStackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.CreateStackInput{
		UserID: userID,
		Name:   req.Name,
		Icon:   req.Icon,
		Color:  req.Color,
	}

	stack, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrStackNameEmpty) || errors.Is(err, domain.ErrInvalidColor) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, stack)
}

func (h *StackHandler) List(c *gin.Context) {
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

func (h *StackHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	stack, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleStackError(c, err)
		return
	}

	c.JSON(http.StatusOK, stack)
}

func (h *StackHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updateStackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.UpdateStackInput{
		ID:                    c.Param("id"),
		UserID:                userID,
		Version:               req.Version,
		Name:                  req.Name,
		Icon:                  req.Icon,
		Color:                 req.Color,
		IsActive:              req.IsActive,
		NotifyOnChainProgress: req.NotifyOnChainProgress,
	}

	stack, err := h.svc.Update(c.Request.Context(), input)
	if err != nil {
		handleStackError(c, err)
		return
	}

	c.JSON(http.StatusOK, stack)
}

func (h *StackHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleStackError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *StackHandler) AddHabit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req addStackHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stack, err := h.svc.AddHabit(c.Request.Context(), c.Param("id"), req.HabitID, userID)
	if err != nil {
		handleStackError(c, err)
		return
	}

	c.JSON(http.StatusOK, stack)
}

func (h *StackHandler) RemoveHabit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	stack, err := h.svc.RemoveHabit(c.Request.Context(), c.Param("id"), c.Param("habitId"), userID)
	if err != nil {
		handleStackError(c, err)
		return
	}

	c.JSON(http.StatusOK, stack)
}

func (h *StackHandler) Reorder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req reorderStackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stack, err := h.svc.Reorder(c.Request.Context(), c.Param("id"), userID, req.From, req.To)
	if err != nil {
		handleStackError(c, err)
		return
	}

	c.JSON(http.StatusOK, stack)
}

func handleStackError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrStackNotFound) || errors.Is(err, domain.ErrHabitNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case errors.Is(err, domain.ErrStackConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "version conflict",
			"message": "data has been modified elsewhere, please sync",
		})

	case errors.Is(err, domain.ErrHabitAlreadyInStack) ||
		errors.Is(err, domain.ErrHabitNotInStack) ||
		errors.Is(err, domain.ErrInvalidStackMove) ||
		errors.Is(err, domain.ErrStackNameEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
