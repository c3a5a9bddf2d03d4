package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-pomodoro-planner/internal/interface/http"
)

type TaskModule struct {
	Common
	Handler *handlers.TaskHandler
}

func NewTaskModule(common Common, h *handlers.TaskHandler) *TaskModule {
	return &TaskModule{Common: common, Handler: h}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	g := m.protected(rg, "/tasks")
	g.GET("", m.Handler.GetAll)
	g.POST("", m.Handler.Create)
	g.GET("/search", m.Handler.Search)
	g.PATCH("/:id", m.Handler.Update)
	g.DELETE("/:id", m.Handler.Delete)
}
