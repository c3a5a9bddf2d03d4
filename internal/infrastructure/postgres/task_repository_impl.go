package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
	"github.com/oksasatya/go-pomodoro-planner/internal/domain/repository"
)

type TaskRepository struct {
	db DB
}

func NewTaskRepository(db DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, name, priority, is_completed, user_id, created_at, updated_at`

func scanTask(row pgx.Row) (*entity.Task, error) {
	t := &entity.Task{}
	var priority *string
	if err := row.Scan(&t.ID, &t.Name, &priority, &t.IsCompleted, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	if priority != nil {
		p := entity.Priority(*priority)
		t.Priority = &p
	}
	return t, nil
}

func (r *TaskRepository) list(ctx context.Context, sql string, args ...any) ([]entity.Task, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID string) ([]entity.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY created_at`, userID)
}

func (r *TaskRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]entity.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 AND created_at >= $2 ORDER BY created_at`, userID, since)
}

func (r *TaskRepository) CountCompleted(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND is_completed`, userID).Scan(&n)
	return n, err
}

func (r *TaskRepository) Get(ctx context.Context, userID, id string) (*entity.Task, error) {
	return scanTask(r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO tasks (name, priority, is_completed, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING id, created_at, updated_at
	`, t.Name, priorityArg(t.Priority), t.IsCompleted, t.UserID, createdAt)
	return mapErr(row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt))
}

func (r *TaskRepository) Update(ctx context.Context, t *entity.Task) error {
	t.UpdatedAt = time.Now()
	tag, err := r.db.Exec(ctx, `
		UPDATE tasks
		SET name = $1, priority = $2, is_completed = $3, created_at = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7
	`, t.Name, priorityArg(t.Priority), t.IsCompleted, t.CreatedAt, t.UpdatedAt, t.ID, t.UserID)
	if err != nil {
		return mapErr(err)
	}
	return requireAffected(tag)
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapErr(err)
	}
	return requireAffected(tag)
}

func priorityArg(p *entity.Priority) *string {
	if p == nil {
		return nil
	}
	s := string(*p)
	return &s
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
