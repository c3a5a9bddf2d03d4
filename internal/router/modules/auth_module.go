package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-pomodoro-planner/internal/interface/http"
	"github.com/oksasatya/go-pomodoro-planner/internal/interface/middleware"
)

// AuthModule serves the public credential endpoints under /auth.
type AuthModule struct {
	Common
	Handler *handlers.AuthHandler
}

func NewAuthModule(common Common, h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Common: common, Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	credLimiter := middleware.RateLimit(m.Redis, m.Logger, 10, time.Minute, middleware.KeyByIPAndPath(), nil)    // 10 req/min per IP
	refreshLimiter := middleware.RateLimit(m.Redis, m.Logger, 60, time.Minute, middleware.KeyByIPAndPath(), nil) // 60 req/min per IP

	g := rg.Group("/auth")
	g.POST("/sign-up", credLimiter, m.Handler.SignUp)
	g.POST("/sign-in", credLimiter, m.Handler.SignIn)
	g.POST("/sign-out", refreshLimiter, m.Handler.SignOut)
	g.POST("/refresh-tokens", refreshLimiter, m.Handler.RefreshTokens)
}
