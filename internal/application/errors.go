package application

import (
	"context"
	"errors"

	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
	repo "github.com/oksasatya/go-pomodoro-planner/internal/domain/repository"
	"github.com/oksasatya/go-pomodoro-planner/pkg/apperr"
	"github.com/oksasatya/go-pomodoro-planner/pkg/helpers"
)

const (
	msgUserNotFound      = "User not found"
	msgUserExists        = "User already exists"
	msgInvalidPassword   = "Invalid password"
	msgPasswordTooLong   = "Password must be at most 72 bytes"
	msgInvalidRefresh    = "Invalid refresh token"
	msgTaskNotFound      = "Task not found"
	msgTimeBlockNotFound = "Time block not found"
	msgSessionNotFound   = "Pomodoro session not found"
	msgRoundNotFound     = "Pomodoro round not found"
)

// notFound turns a repository miss into a 404 with msg; other errors pass through.
func notFound(err error, msg string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.Wrap(apperr.KindNotFound, msg, err)
	}
	return err
}

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// TokenIssuer mints token pairs and checks refresh tokens.
type TokenIssuer interface {
	IssuePair(userID string) (helpers.TokenPair, error)
	VerifyRefresh(token string) (*helpers.Claims, error)
}

// TaskIndexer mirrors tasks into a search backend. It is optional.
type TaskIndexer interface {
	IndexTask(ctx context.Context, t *entity.Task) error
	DeleteTask(ctx context.Context, id string) error
	SearchTasks(ctx context.Context, userID, q string, size int) ([]string, error)
}

var (
	_ PasswordHasher = helpers.BcryptHasher{}
	_ TokenIssuer    = (*helpers.JWTManager)(nil)
)
