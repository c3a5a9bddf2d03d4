package repository

import (
	"context"

	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
)

type TimeBlockRepository interface {
	// ListByUser returns blocks sorted by Order ascending.
	ListByUser(ctx context.Context, userID string) ([]entity.TimeBlock, error)
	Get(ctx context.Context, userID, id string) (*entity.TimeBlock, error)
	Count(ctx context.Context, userID string) (int, error)
	Create(ctx context.Context, b *entity.TimeBlock) error
	Update(ctx context.Context, b *entity.TimeBlock) error
	Delete(ctx context.Context, userID, id string) error
	// Reorder sets Order = index for every id, all or nothing.
	Reorder(ctx context.Context, userID string, ids []string) error
}
