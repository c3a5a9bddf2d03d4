package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-pomodoro-planner/internal/container"
	handlers "github.com/oksasatya/go-pomodoro-planner/internal/interface/http"
	"github.com/oksasatya/go-pomodoro-planner/internal/interface/middleware"
	"github.com/oksasatya/go-pomodoro-planner/internal/router/modules"
	"github.com/oksasatya/go-pomodoro-planner/pkg/response"
	"github.com/oksasatya/go-pomodoro-planner/pkg/validation"
)

// NewEngine builds the gin engine with global middleware and every module mounted under /api.
func NewEngine(c *container.Container) *gin.Engine {
	validation.Init()

	r := gin.New()
	r.Use(gin.CustomRecovery(func(ctx *gin.Context, rec any) {
		c.Logger.WithField("panic", rec).WithField("path", ctx.Request.URL.Path).Error("panic recovered")
		response.Abort(ctx, http.StatusInternalServerError, "Internal server error", nil)
	}))
	r.Use(middleware.RequestID(), middleware.RealIP())
	if origins := c.Config.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", "Set-Cookie", middleware.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if c.Config.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	r.Use(middleware.ErrorHandler(c.Logger))
	r.NoRoute(middleware.NotFound())

	reg := NewRegistry(r)
	reg.Use(middleware.RateLimit(c.Redis, c.Logger, 300, time.Minute, middleware.KeyByIP(), nil))
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

// InitModules builds handlers from the container and registers one module per resource.
func InitModules(r *Registry, c *container.Container) {
	common := modules.Common{
		Guard:  middleware.Auth(c.JWT, c.UserService),
		Redis:  c.Redis,
		Logger: c.Logger,
	}
	r.Add(modules.NewAuthModule(common, handlers.NewAuthHandler(c.AuthService)))
	r.Add(modules.NewUserModule(common, handlers.NewUserHandler(c.UserService)))
	r.Add(modules.NewTaskModule(common, handlers.NewTaskHandler(c.TaskService)))
	r.Add(modules.NewTimeBlockModule(common, handlers.NewTimeBlockHandler(c.TimeBlockService)))
	r.Add(modules.NewPomodoroModule(common, handlers.NewPomodoroHandler(c.PomodoroService)))
	r.Add(modules.NewDebugModule(common, c.Ping, c.Config.DebugMetricsEnabled))
}
