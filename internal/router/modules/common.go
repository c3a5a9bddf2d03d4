package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pomodoro-planner/internal/interface/middleware"
)

// Common carries what every module mounts: the bearer guard and the limiter backend.
type Common struct {
	Guard  gin.HandlerFunc
	Redis  *redis.Client
	Logger *logrus.Logger
}

// protected returns a group behind the guard with a per-user limit of 120 req/min.
func (c Common) protected(rg *gin.RouterGroup, path string) *gin.RouterGroup {
	g := rg.Group(path)
	g.Use(c.Guard, middleware.RateLimit(c.Redis, c.Logger, 120, time.Minute, middleware.KeyByUserID(), nil))
	return g
}
