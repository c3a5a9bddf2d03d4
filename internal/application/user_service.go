package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
	repo "github.com/oksasatya/go-pomodoro-planner/internal/domain/repository"
	"github.com/oksasatya/go-pomodoro-planner/pkg/apperr"
	"github.com/oksasatya/go-pomodoro-planner/pkg/helpers"
)

type UserService struct {
	Repo   repo.UserRepository
	Tasks  repo.TaskRepository
	Hasher PasswordHasher
	Logger *logrus.Logger

	now func() time.Time
}

func NewUserService(users repo.UserRepository, tasks repo.TaskRepository, hasher PasswordHasher, logger *logrus.Logger) *UserService {
	return &UserService{Repo: users, Tasks: tasks, Hasher: hasher, Logger: logger, now: time.Now}
}

// AuthInput is the email/password pair used by sign-up and sign-in.
type AuthInput struct {
	Email    string
	Password string
}

type Stat struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

type Profile struct {
	User  entity.PublicUser `json:"user"`
	Stats []Stat            `json:"stats"`
}

type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

type UpdateIntervalsInput struct {
	Work  *int
	Break *int
	Count *int
}

func (s *UserService) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

func (s *UserService) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, msgUserNotFound)
	}
	return u, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, notFound(err, msgUserNotFound)
	}
	return u, nil
}

// Create stores a new user with an empty name, a hashed password and default intervals.
func (s *UserService) Create(ctx context.Context, in AuthInput) (*entity.User, error) {
	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Email: in.Email, Password: hash}
	if err := s.Repo.Create(ctx, u, entity.DefaultIntervals("")); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperr.Wrap(apperr.KindBadRequest, msgUserExists, err)
		}
		return nil, err
	}
	return u, nil
}

// hashPassword reports a password the hasher cannot take as a bad request.
func (s *UserService) hashPassword(plain string) (string, error) {
	hash, err := s.Hasher.Hash(plain)
	if errors.Is(err, helpers.ErrPasswordTooLong) {
		return "", apperr.Wrap(apperr.KindBadRequest, msgPasswordTooLong, err)
	}
	return hash, err
}

// GetProfile returns the user with task counters for all time, today and the last seven days.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	all, err := s.Tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	completed, err := s.Tasks.CountCompleted(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	today, err := s.Tasks.ListSince(ctx, userID, helpers.StartOfDay(now))
	if err != nil {
		return nil, err
	}
	week, err := s.Tasks.ListSince(ctx, userID, helpers.DaysAgo(now, 7))
	if err != nil {
		return nil, err
	}
	return &Profile{
		User: u.Public(),
		Stats: []Stat{
			{Label: "Total", Value: len(all)},
			{Label: "Completed tasks", Value: completed},
			{Label: "Today tasks", Value: len(today)},
			{Label: "Week tasks", Value: len(week)},
		},
	}, nil
}

func (s *UserService) Update(ctx context.Context, userID string, in UpdateUserInput) (*entity.PublicUser, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Email != nil && *in.Email != u.Email {
		other, err := s.Repo.GetByEmail(ctx, *in.Email)
		if err == nil && other.ID != u.ID {
			return nil, apperr.BadRequest(msgUserExists)
		}
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		u.Email = *in.Email
	}
	if in.Password != nil {
		hash, err := s.hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		u.Password = hash
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperr.Wrap(apperr.KindBadRequest, msgUserExists, err)
		}
		return nil, notFound(err, msgUserNotFound)
	}
	s.Logger.WithField("user_id", u.ID).Info("profile updated")
	pub := u.Public()
	return &pub, nil
}

func (s *UserService) GetIntervals(ctx context.Context, userID string) (*entity.Intervals, error) {
	in, err := s.Repo.GetIntervals(ctx, userID)
	if err != nil {
		return nil, notFound(err, msgUserNotFound)
	}
	return in, nil
}

func (s *UserService) UpdateIntervals(ctx context.Context, userID string, patch UpdateIntervalsInput) (*entity.Intervals, error) {
	in, err := s.GetIntervals(ctx, userID)
	if err != nil {
		return nil, err
	}
	if patch.Work != nil {
		in.Work = *patch.Work
	}
	if patch.Break != nil {
		in.Break = *patch.Break
	}
	if patch.Count != nil {
		in.Count = *patch.Count
	}
	if in.Work < 1 || in.Break < 1 || in.Count < 1 {
		return nil, apperr.BadRequest("Intervals must be at least 1")
	}
	if err := s.Repo.UpdateIntervals(ctx, in); err != nil {
		return nil, notFound(err, msgUserNotFound)
	}
	return in, nil
}
