package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pomodoro-planner/pkg/apperr"
	"github.com/oksasatya/go-pomodoro-planner/pkg/response"
	"github.com/oksasatya/go-pomodoro-planner/pkg/validation"
)

const msgInternal = "Internal server error"

// BindError marks a request body that failed to decode or validate.
type BindError struct {
	Err error
}

func (e *BindError) Error() string { return e.Err.Error() }
func (e *BindError) Unwrap() error { return e.Err }

// ErrorHandler renders the last error pushed with c.Error as the JSON error body.
// Unknown errors become a 500 without leaking their cause.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		status := http.StatusInternalServerError
		message := msgInternal
		var details map[string]string

		var be *BindError
		if errors.As(err, &be) {
			status = http.StatusBadRequest
			message = "Validation failed"
			details = validation.ToDetails(be.Err)
		} else if ae, ok := apperr.As(err); ok {
			status = ae.Status()
			if status != http.StatusInternalServerError {
				message = ae.Message
			}
		}

		entry := logger.WithFields(logrus.Fields{
			"status":     status,
			"path":       c.Request.URL.Path,
			"request_id": c.GetString(CtxRequestIDKey),
		})
		if status >= http.StatusInternalServerError {
			entry.WithError(err).Errorf("%d | %s | %s", status, message, c.Request.URL.Path)
		} else {
			entry.Warnf("%d | %s | %s", status, message, c.Request.URL.Path)
		}

		c.AbortWithStatusJSON(status, response.NewErrorBody(c, status, message, details))
	}
}

// NotFound answers unmatched routes with the standard error body.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Abort(c, http.StatusNotFound, "Cannot "+c.Request.Method+" "+c.Request.URL.Path, nil)
	}
}
