package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-pomodoro-planner/internal/application"
	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
	"github.com/oksasatya/go-pomodoro-planner/internal/interface/middleware"
	"github.com/oksasatya/go-pomodoro-planner/pkg/response"
)

type TaskHandler struct {
	Svc *application.TaskService
}

func NewTaskHandler(svc *application.TaskService) *TaskHandler {
	return &TaskHandler{Svc: svc}
}

type createTaskRequest struct {
	Name        string           `json:"name" binding:"required,max=255"`
	Priority    *entity.Priority `json:"priority" binding:"omitempty,priority"`
	IsCompleted bool             `json:"isCompleted"`
	CreatedAt   *time.Time       `json:"createdAt"`
}

type updateTaskRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Priority    *entity.Priority `json:"priority" binding:"omitempty,priority"`
	IsCompleted *bool            `json:"isCompleted"`
	CreatedAt   *time.Time       `json:"createdAt"`
}

func (h *TaskHandler) GetAll(c *gin.Context) {
	tasks, err := h.Svc.GetAll(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) Search(c *gin.Context) {
	tasks, err := h.Svc.Search(c.Request.Context(), middleware.CurrentUserID(c), c.Query("q"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), middleware.CurrentUserID(c), application.CreateTaskInput{
		Name:        req.Name,
		Priority:    req.Priority,
		IsCompleted: req.IsCompleted,
		CreatedAt:   req.CreatedAt,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TaskHandler) Update(c *gin.Context) {
	var req updateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.Svc.Update(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), entity.TaskPatch{
		Name:        req.Name,
		Priority:    req.Priority,
		IsCompleted: req.IsCompleted,
		CreatedAt:   req.CreatedAt,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Svc.Delete(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	response.Deleted(c, id)
}
