package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-pomodoro-planner/internal/interface/middleware"
)

// bindJSON decodes and validates the body; on failure the error is queued for
// the error handler and false is returned.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(&middleware.BindError{Err: err})
		return false
	}
	return true
}
