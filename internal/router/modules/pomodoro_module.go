package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-pomodoro-planner/internal/interface/http"
)

type PomodoroModule struct {
	Common
	Handler *handlers.PomodoroHandler
}

func NewPomodoroModule(common Common, h *handlers.PomodoroHandler) *PomodoroModule {
	return &PomodoroModule{Common: common, Handler: h}
}

func (m *PomodoroModule) Register(rg *gin.RouterGroup) {
	g := m.protected(rg, "/pomodoro-timer")
	g.GET("/today", m.Handler.GetToday)
	g.POST("", m.Handler.Create)
	g.PATCH("/round/:id", m.Handler.UpdateRound)
	g.PATCH("/:id", m.Handler.Update)
	g.DELETE("/:id", m.Handler.Delete)
}
