package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-pomodoro-planner/internal/interface/http"
)

type TimeBlockModule struct {
	Common
	Handler *handlers.TimeBlockHandler
}

func NewTimeBlockModule(common Common, h *handlers.TimeBlockHandler) *TimeBlockModule {
	return &TimeBlockModule{Common: common, Handler: h}
}

func (m *TimeBlockModule) Register(rg *gin.RouterGroup) {
	g := m.protected(rg, "/time-block")
	g.GET("", m.Handler.GetAll)
	g.POST("", m.Handler.Create)
	// static segment wins over :id in gin's tree
	g.PUT("/update-order", m.Handler.UpdateOrder)
	g.PATCH("/:id", m.Handler.Update)
	g.DELETE("/:id", m.Handler.Delete)
}
