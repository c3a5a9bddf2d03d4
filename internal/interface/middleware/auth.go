package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
	"github.com/oksasatya/go-pomodoro-planner/internal/domain/repository"
	"github.com/oksasatya/go-pomodoro-planner/pkg/apperr"
	"github.com/oksasatya/go-pomodoro-planner/pkg/helpers"
)

const (
	CtxUserIDKey = "userID"
	CtxUserKey   = "user"
)

// TokenVerifier checks a bearer access token.
type TokenVerifier interface {
	VerifyAccess(token string) (*helpers.Claims, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// Auth accepts "Authorization: Bearer <access token>", loads the token's user
// and stores its id and record in the Gin context.
func Auth(verifier TokenVerifier, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c, nil)
			return
		}
		claims, err := verifier.VerifyAccess(token)
		if err != nil {
			unauthorized(c, err)
			return
		}
		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if isMissingUser(err) {
				unauthorized(c, err)
				return
			}
			// Store failures are not the caller's fault: 500, not 401.
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserKey, u.Public())
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func isMissingUser(err error) bool {
	return apperr.Is(err, apperr.KindNotFound) || errors.Is(err, repository.ErrNotFound)
}

func unauthorized(c *gin.Context, cause error) {
	_ = c.Error(apperr.Wrap(apperr.KindUnauthorized, "Unauthorized", cause))
	c.Abort()
}

// CurrentUserID returns the id set by Auth; handlers behind Auth can rely on it being non-empty.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
