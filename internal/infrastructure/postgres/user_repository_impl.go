package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
	"github.com/oksasatya/go-pomodoro-planner/internal/domain/repository"
)

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, name, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User, in entity.Intervals) error {
	return WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO users (email, password_hash, name)
			VALUES ($1, $2, $3)
			RETURNING id, created_at, updated_at
		`, u.Email, u.Password, u.Name)
		if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return mapErr(err)
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO pomodoro_intervals (user_id, work_interval, break_interval, intervals_count)
			VALUES ($1, $2, $3, $4)
		`, u.ID, in.Work, in.Break, in.Count)
		return mapErr(err)
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET email = $1, password_hash = $2, name = $3, updated_at = $4
		WHERE id = $5
	`, u.Email, u.Password, u.Name, u.UpdatedAt, u.ID)
	if err != nil {
		return mapErr(err)
	}
	return requireAffected(tag)
}

func (r *UserRepository) GetIntervals(ctx context.Context, userID string) (*entity.Intervals, error) {
	in := &entity.Intervals{UserID: userID}
	err := r.db.QueryRow(ctx, `
		SELECT work_interval, break_interval, intervals_count
		FROM pomodoro_intervals
		WHERE user_id = $1
	`, userID).Scan(&in.Work, &in.Break, &in.Count)
	if err != nil {
		return nil, mapErr(err)
	}
	return in, nil
}

func (r *UserRepository) UpdateIntervals(ctx context.Context, in *entity.Intervals) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE pomodoro_intervals
		SET work_interval = $1, break_interval = $2, intervals_count = $3, updated_at = now()
		WHERE user_id = $4
	`, in.Work, in.Break, in.Count, in.UserID)
	if err != nil {
		return mapErr(err)
	}
	return requireAffected(tag)
}

var _ repository.UserRepository = (*UserRepository)(nil)
