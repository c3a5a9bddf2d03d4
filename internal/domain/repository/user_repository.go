package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no record matches the filter (including the owner filter).
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository defines the interface for user-related store operations.
type UserRepository interface {
	// Create persists u together with its default intervals record.
	Create(ctx context.Context, u *entity.User, in entity.Intervals) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	GetIntervals(ctx context.Context, userID string) (*entity.Intervals, error)
	UpdateIntervals(ctx context.Context, in *entity.Intervals) error
}
