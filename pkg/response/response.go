package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the shape of every non-2xx JSON response.
type ErrorBody struct {
	StatusCode int               `json:"statusCode"`
	Message    string            `json:"message"`
	Path       string            `json:"path"`
	Error      string            `json:"error"`
	Timestamp  string            `json:"timestamp"`
	Details    map[string]string `json:"details,omitempty"`
}

func NewErrorBody(ctx *gin.Context, status int, message string, details map[string]string) ErrorBody {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return ErrorBody{
		StatusCode: status,
		Message:    message,
		Path:       ctx.Request.URL.Path,
		Error:      http.StatusText(status),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Details:    details,
	}
}

// Abort writes the error body and stops the handler chain.
func Abort(ctx *gin.Context, status int, message string, details map[string]string) {
	ctx.AbortWithStatusJSON(status, NewErrorBody(ctx, status, message, details))
}

// Deleted acknowledges a delete with the id that was removed.
func Deleted(ctx *gin.Context, id string) {
	ctx.JSON(http.StatusOK, gin.H{"id": id})
}
