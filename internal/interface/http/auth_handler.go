package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-pomodoro-planner/internal/application"
	"github.com/oksasatya/go-pomodoro-planner/pkg/apperr"
	"github.com/oksasatya/go-pomodoro-planner/pkg/helpers"
)

type AuthHandler struct {
	Svc *application.AuthService
}

func NewAuthHandler(svc *application.AuthService) *AuthHandler {
	return &AuthHandler{Svc: svc}
}

type authRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

func (r authRequest) input() application.AuthInput {
	return application.AuthInput{Email: r.Email, Password: r.Password}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req authRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Svc.SignUp(c.Request.Context(), req.input())
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.Svc.AddRefreshTokenToResponse(c.Writer, res.RefreshToken)
	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req authRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Svc.SignIn(c.Request.Context(), req.input())
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.Svc.AddRefreshTokenToResponse(c.Writer, res.RefreshToken)
	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	token, _ := c.Cookie(helpers.RefreshTokenCookie)
	res, err := h.Svc.SignOut(c.Request.Context(), c.Writer, token)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// RefreshTokens clears a stale cookie when none was sent, so the client drops it.
func (h *AuthHandler) RefreshTokens(c *gin.Context) {
	token, err := c.Cookie(helpers.RefreshTokenCookie)
	if err != nil || token == "" {
		h.Svc.RemoveRefreshTokenFromResponse(c.Writer)
		_ = c.Error(apperr.Unauthorized("Refresh token not passed"))
		return
	}
	res, err := h.Svc.RefreshTokens(c.Request.Context(), token)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.Svc.AddRefreshTokenToResponse(c.Writer, res.RefreshToken)
	c.JSON(http.StatusOK, res)
}
