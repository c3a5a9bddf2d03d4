package modules

import (
	"context"
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-pomodoro-planner/internal/interface/middleware"
	"github.com/oksasatya/go-pomodoro-planner/pkg/response"
)

// DebugModule serves /health and, when enabled, expvar under /debug/vars.
type DebugModule struct {
	Common
	Ping         func(ctx context.Context) error
	ExposeExpvar bool
}

func NewDebugModule(common Common, ping func(ctx context.Context) error, exposeExpvar bool) *DebugModule {
	return &DebugModule{Common: common, Ping: ping, ExposeExpvar: exposeExpvar}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.health)
	if m.ExposeExpvar {
		rl := middleware.RateLimit(m.Redis, m.Logger, 120, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
		rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	}
}

func (m *DebugModule) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := m.Ping(ctx); err != nil {
		m.Logger.WithError(err).Warn("health check failed")
		response.Abort(c, http.StatusServiceUnavailable, "store unavailable", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
