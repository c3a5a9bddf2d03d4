package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-pomodoro-planner/internal/interface/http"
)

// UserModule: GET/PATCH /user/profile and GET/PATCH /pomodoro-intervals.
type UserModule struct {
	Common
	Handler *handlers.UserHandler
}

func NewUserModule(common Common, h *handlers.UserHandler) *UserModule {
	return &UserModule{Common: common, Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	user := m.protected(rg, "/user")
	user.GET("/profile", m.Handler.GetProfile)
	user.PATCH("/profile", m.Handler.UpdateProfile)

	intervals := m.protected(rg, "/pomodoro-intervals")
	intervals.GET("", m.Handler.GetIntervals)
	intervals.PATCH("", m.Handler.UpdateIntervals)
}
