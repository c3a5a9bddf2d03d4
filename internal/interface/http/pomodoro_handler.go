package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-pomodoro-planner/internal/application"
	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
	"github.com/oksasatya/go-pomodoro-planner/internal/interface/middleware"
	"github.com/oksasatya/go-pomodoro-planner/pkg/response"
)

type PomodoroHandler struct {
	Svc *application.PomodoroService
}

func NewPomodoroHandler(svc *application.PomodoroService) *PomodoroHandler {
	return &PomodoroHandler{Svc: svc}
}

type updateSessionRequest struct {
	IsCompleted *bool `json:"isCompleted"`
}

type updateRoundRequest struct {
	TotalSeconds *int  `json:"totalSeconds" binding:"omitempty,gte=0"`
	IsCompleted  *bool `json:"isCompleted"`
}

// GetToday answers null when no session was started today.
func (h *PomodoroHandler) GetToday(c *gin.Context) {
	ps, err := h.Svc.GetTodaySession(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

func (h *PomodoroHandler) Create(c *gin.Context) {
	ps, err := h.Svc.Create(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

func (h *PomodoroHandler) UpdateRound(c *gin.Context) {
	var req updateRoundRequest
	if !bindJSON(c, &req) {
		return
	}
	rd, err := h.Svc.UpdateRound(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), entity.RoundPatch{
		TotalSeconds: req.TotalSeconds,
		IsCompleted:  req.IsCompleted,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rd)
}

func (h *PomodoroHandler) Update(c *gin.Context) {
	var req updateSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	ps, err := h.Svc.Update(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.IsCompleted)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

func (h *PomodoroHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Svc.Delete(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	response.Deleted(c, id)
}
