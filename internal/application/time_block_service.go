package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
	repo "github.com/oksasatya/go-pomodoro-planner/internal/domain/repository"
	"github.com/oksasatya/go-pomodoro-planner/pkg/apperr"
)

type TimeBlockService struct {
	Repo   repo.TimeBlockRepository
	Logger *logrus.Logger
}

func NewTimeBlockService(blocks repo.TimeBlockRepository, logger *logrus.Logger) *TimeBlockService {
	return &TimeBlockService{Repo: blocks, Logger: logger}
}

type CreateTimeBlockInput struct {
	Name     string
	Color    *string
	Duration int
	Order    *int
}

func (s *TimeBlockService) GetAll(ctx context.Context, userID string) ([]entity.TimeBlock, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Create appends the block after the user's existing ones unless an order is given.
func (s *TimeBlockService) Create(ctx context.Context, userID string, in CreateTimeBlockInput) (*entity.TimeBlock, error) {
	b := &entity.TimeBlock{Name: in.Name, Color: in.Color, Duration: in.Duration, UserID: userID}
	if in.Order != nil {
		b.Order = *in.Order
	} else {
		n, err := s.Repo.Count(ctx, userID)
		if err != nil {
			return nil, err
		}
		b.Order = n
	}
	if err := s.Repo.Create(ctx, b); err != nil {
		return nil, notFound(err, msgUserNotFound)
	}
	return b, nil
}

func (s *TimeBlockService) Update(ctx context.Context, userID, id string, patch entity.TimeBlockPatch) (*entity.TimeBlock, error) {
	b, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return nil, notFound(err, msgTimeBlockNotFound)
	}
	patch.Apply(b)
	if err := s.Repo.Update(ctx, b); err != nil {
		return nil, notFound(err, msgTimeBlockNotFound)
	}
	return b, nil
}

func (s *TimeBlockService) Delete(ctx context.Context, userID, id string) error {
	return notFound(s.Repo.Delete(ctx, userID, id), msgTimeBlockNotFound)
}

// UpdateOrder sets each block's order to its position in ids, all or nothing.
func (s *TimeBlockService) UpdateOrder(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return apperr.BadRequest("ids must not be empty")
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return apperr.BadRequest("ids must be unique")
		}
		seen[id] = struct{}{}
	}
	if err := s.Repo.Reorder(ctx, userID, ids); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("time block reorder rejected")
		return notFound(err, msgTimeBlockNotFound)
	}
	return nil
}
