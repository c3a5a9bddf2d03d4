package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-pomodoro-planner/internal/application"
	"github.com/oksasatya/go-pomodoro-planner/internal/interface/middleware"
)

type UserHandler struct {
	Svc *application.UserService
}

func NewUserHandler(svc *application.UserService) *UserHandler {
	return &UserHandler{Svc: svc}
}

type updateProfileRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,pwd"`
}

type updateIntervalsRequest struct {
	Work  *int `json:"work" binding:"omitempty,minutes"`
	Break *int `json:"break" binding:"omitempty,minutes"`
	Count *int `json:"count" binding:"omitempty,minutes"`
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	p, err := h.Svc.GetProfile(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), middleware.CurrentUserID(c), application.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) GetIntervals(c *gin.Context) {
	in, err := h.Svc.GetIntervals(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, in)
}

func (h *UserHandler) UpdateIntervals(c *gin.Context) {
	var req updateIntervalsRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := h.Svc.UpdateIntervals(c.Request.Context(), middleware.CurrentUserID(c), application.UpdateIntervalsInput{
		Work:  req.Work,
		Break: req.Break,
		Count: req.Count,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, in)
}
