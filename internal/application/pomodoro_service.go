package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
	repo "github.com/oksasatya/go-pomodoro-planner/internal/domain/repository"
	"github.com/oksasatya/go-pomodoro-planner/pkg/helpers"
)

type PomodoroService struct {
	Repo   repo.PomodoroRepository
	Users  *UserService
	Logger *logrus.Logger

	now func() time.Time
}

func NewPomodoroService(sessions repo.PomodoroRepository, users *UserService, logger *logrus.Logger) *PomodoroService {
	return &PomodoroService{Repo: sessions, Users: users, Logger: logger, now: time.Now}
}

func (s *PomodoroService) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// GetTodaySession returns nil without error when no session started today (UTC).
func (s *PomodoroService) GetTodaySession(ctx context.Context, userID string) (*entity.PomodoroSession, error) {
	ps, err := s.Repo.FindSince(ctx, userID, helpers.StartOfDay(s.clock()))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ps, nil
}

// Create returns today's session if one exists, otherwise starts one with
// as many zeroed rounds as the user's interval count.
func (s *PomodoroService) Create(ctx context.Context, userID string) (*entity.PomodoroSession, error) {
	today, err := s.GetTodaySession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if today != nil {
		return today, nil
	}
	in, err := s.Users.GetIntervals(ctx, userID)
	if err != nil {
		return nil, err
	}
	ps := &entity.PomodoroSession{UserID: userID}
	created, err := s.Repo.CreateWithRounds(ctx, ps, in.Count, helpers.StartOfDay(s.clock()))
	if err != nil {
		return nil, notFound(err, msgUserNotFound)
	}
	if created {
		s.Logger.WithFields(logrus.Fields{"user_id": userID, "rounds": in.Count}).Info("pomodoro session created")
	}
	return ps, nil
}

// Update sets the completion flag; a nil flag returns the session unchanged.
func (s *PomodoroService) Update(ctx context.Context, userID, id string, isCompleted *bool) (*entity.PomodoroSession, error) {
	var (
		ps  *entity.PomodoroSession
		err error
	)
	if isCompleted == nil {
		ps, err = s.Repo.GetSession(ctx, userID, id)
	} else {
		ps, err = s.Repo.UpdateSession(ctx, userID, id, *isCompleted)
	}
	if err != nil {
		return nil, notFound(err, msgSessionNotFound)
	}
	return ps, nil
}

func (s *PomodoroService) UpdateRound(ctx context.Context, userID, id string, patch entity.RoundPatch) (*entity.PomodoroRound, error) {
	rd, err := s.Repo.GetRound(ctx, userID, id)
	if err != nil {
		return nil, notFound(err, msgRoundNotFound)
	}
	patch.Apply(rd)
	if err := s.Repo.UpdateRound(ctx, rd); err != nil {
		return nil, notFound(err, msgRoundNotFound)
	}
	return rd, nil
}

func (s *PomodoroService) Delete(ctx context.Context, userID, id string) error {
	return notFound(s.Repo.DeleteSession(ctx, userID, id), msgSessionNotFound)
}
