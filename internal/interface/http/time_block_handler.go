package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-pomodoro-planner/internal/application"
	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
	"github.com/oksasatya/go-pomodoro-planner/internal/interface/middleware"
	"github.com/oksasatya/go-pomodoro-planner/pkg/response"
)

type TimeBlockHandler struct {
	Svc *application.TimeBlockService
}

func NewTimeBlockHandler(svc *application.TimeBlockService) *TimeBlockHandler {
	return &TimeBlockHandler{Svc: svc}
}

type createTimeBlockRequest struct {
	Name     string  `json:"name" binding:"required,max=255"`
	Color    *string `json:"color" binding:"omitempty,max=32"`
	Duration int     `json:"duration" binding:"required,minutes"`
	Order    *int    `json:"order" binding:"omitempty,gte=0"`
}

type updateTimeBlockRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=255"`
	Color    *string `json:"color" binding:"omitempty,max=32"`
	Duration *int    `json:"duration" binding:"omitempty,minutes"`
	Order    *int    `json:"order" binding:"omitempty,gte=0"`
}

type updateOrderRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,required"`
}

func (h *TimeBlockHandler) GetAll(c *gin.Context) {
	blocks, err := h.Svc.GetAll(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, blocks)
}

func (h *TimeBlockHandler) Create(c *gin.Context) {
	var req createTimeBlockRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.Svc.Create(c.Request.Context(), middleware.CurrentUserID(c), application.CreateTimeBlockInput{
		Name:     req.Name,
		Color:    req.Color,
		Duration: req.Duration,
		Order:    req.Order,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *TimeBlockHandler) UpdateOrder(c *gin.Context) {
	var req updateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Svc.UpdateOrder(c.Request.Context(), middleware.CurrentUserID(c), req.IDs); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ids": req.IDs})
}

func (h *TimeBlockHandler) Update(c *gin.Context) {
	var req updateTimeBlockRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.Svc.Update(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), entity.TimeBlockPatch{
		Name:     req.Name,
		Color:    req.Color,
		Duration: req.Duration,
		Order:    req.Order,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *TimeBlockHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Svc.Delete(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	response.Deleted(c, id)
}
