package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
)

// TaskRepository defines task storage; every call is scoped to userID.
type TaskRepository interface {
	ListByUser(ctx context.Context, userID string) ([]entity.Task, error)
	// ListSince returns tasks created at or after since.
	ListSince(ctx context.Context, userID string, since time.Time) ([]entity.Task, error)
	CountCompleted(ctx context.Context, userID string) (int, error)
	Get(ctx context.Context, userID, id string) (*entity.Task, error)
	Create(ctx context.Context, t *entity.Task) error
	Update(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, userID, id string) error
}
