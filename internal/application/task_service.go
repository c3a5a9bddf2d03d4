package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
	repo "github.com/oksasatya/go-pomodoro-planner/internal/domain/repository"
)

const defaultSearchSize = 20

type TaskService struct {
	Repo   repo.TaskRepository
	Index  TaskIndexer
	Logger *logrus.Logger
}

// NewTaskService wires the store; index may be nil when search indexing is off.
func NewTaskService(tasks repo.TaskRepository, index TaskIndexer, logger *logrus.Logger) *TaskService {
	return &TaskService{Repo: tasks, Index: index, Logger: logger}
}

type CreateTaskInput struct {
	Name        string
	Priority    *entity.Priority
	IsCompleted bool
	CreatedAt   *time.Time
}

func (s *TaskService) GetAll(ctx context.Context, userID string) ([]entity.Task, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *TaskService) CountCompleted(ctx context.Context, userID string) (int, error) {
	return s.Repo.CountCompleted(ctx, userID)
}

func (s *TaskService) ListSince(ctx context.Context, userID string, since time.Time) ([]entity.Task, error) {
	return s.Repo.ListSince(ctx, userID, since)
}

func (s *TaskService) Create(ctx context.Context, userID string, in CreateTaskInput) (*entity.Task, error) {
	t := &entity.Task{Name: in.Name, Priority: in.Priority, IsCompleted: in.IsCompleted, UserID: userID}
	if in.CreatedAt != nil {
		t.CreatedAt = *in.CreatedAt
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, notFound(err, msgUserNotFound)
	}
	s.index(ctx, t)
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, userID, id string, patch entity.TaskPatch) (*entity.Task, error) {
	t, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return nil, notFound(err, msgTaskNotFound)
	}
	patch.Apply(t)
	if err := s.Repo.Update(ctx, t); err != nil {
		return nil, notFound(err, msgTaskNotFound)
	}
	s.index(ctx, t)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return notFound(err, msgTaskNotFound)
	}
	if s.Index != nil {
		if err := s.Index.DeleteTask(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("task_id", id).Warn("es delete failed")
		}
	}
	return nil
}

// Search matches task names through the index when configured, and by
// case-insensitive substring over the user's tasks otherwise or on index failure.
func (s *TaskService) Search(ctx context.Context, userID, q string) ([]entity.Task, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []entity.Task{}, nil
	}
	if s.Index != nil {
		ids, err := s.Index.SearchTasks(ctx, userID, q, defaultSearchSize)
		if err == nil {
			return s.resolve(ctx, userID, ids)
		}
		s.Logger.WithError(err).WithField("user_id", userID).Warn("es search failed, falling back to store")
	}
	all, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(q)
	out := make([]entity.Task, 0)
	for _, t := range all {
		if strings.Contains(strings.ToLower(t.Name), needle) {
			out = append(out, t)
		}
	}
	return out, nil
}

// resolve loads hits from the store, dropping stale or foreign ids.
func (s *TaskService) resolve(ctx context.Context, userID string, ids []string) ([]entity.Task, error) {
	out := make([]entity.Task, 0, len(ids))
	for _, id := range ids {
		t, err := s.Repo.Get(ctx, userID, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

func (s *TaskService) index(ctx context.Context, t *entity.Task) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexTask(ctx, t); err != nil {
		s.Logger.WithError(err).WithField("task_id", t.ID).Warn("es index failed")
	}
}
