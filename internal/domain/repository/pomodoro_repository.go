package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
)

type PomodoroRepository interface {
	// FindSince returns the first session created at or after since, rounds included.
	FindSince(ctx context.Context, userID string, since time.Time) (*entity.PomodoroSession, error)
	// CreateWithRounds inserts the session and `rounds` zeroed rounds unless the
	// user already has one created at or after since, in which case s is filled
	// with that session and created is false. Check and insert are atomic.
	CreateWithRounds(ctx context.Context, s *entity.PomodoroSession, rounds int, since time.Time) (created bool, err error)
	GetSession(ctx context.Context, userID, id string) (*entity.PomodoroSession, error)
	UpdateSession(ctx context.Context, userID, id string, isCompleted bool) (*entity.PomodoroSession, error)
	GetRound(ctx context.Context, userID, id string) (*entity.PomodoroRound, error)
	UpdateRound(ctx context.Context, r *entity.PomodoroRound) error
	DeleteSession(ctx context.Context, userID, id string) error
}
