package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
	"github.com/oksasatya/go-pomodoro-planner/internal/domain/repository"
)

type TimeBlockRepository struct {
	db DB
}

func NewTimeBlockRepository(db DB) *TimeBlockRepository {
	return &TimeBlockRepository{db: db}
}

const timeBlockColumns = `id, name, color, duration, sort_order, user_id, created_at, updated_at`

func scanTimeBlock(row pgx.Row) (*entity.TimeBlock, error) {
	b := &entity.TimeBlock{}
	if err := row.Scan(&b.ID, &b.Name, &b.Color, &b.Duration, &b.Order, &b.UserID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return b, nil
}

func (r *TimeBlockRepository) ListByUser(ctx context.Context, userID string) ([]entity.TimeBlock, error) {
	rows, err := r.db.Query(ctx, `SELECT `+timeBlockColumns+` FROM time_blocks WHERE user_id = $1 ORDER BY sort_order, created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.TimeBlock, 0)
	for rows.Next() {
		b, err := scanTimeBlock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *TimeBlockRepository) Get(ctx context.Context, userID, id string) (*entity.TimeBlock, error) {
	return scanTimeBlock(r.db.QueryRow(ctx, `SELECT `+timeBlockColumns+` FROM time_blocks WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *TimeBlockRepository) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM time_blocks WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *TimeBlockRepository) Create(ctx context.Context, b *entity.TimeBlock) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO time_blocks (name, color, duration, sort_order, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, b.Name, b.Color, b.Duration, b.Order, b.UserID)
	return mapErr(row.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt))
}

func (r *TimeBlockRepository) Update(ctx context.Context, b *entity.TimeBlock) error {
	b.UpdatedAt = time.Now()
	tag, err := r.db.Exec(ctx, `
		UPDATE time_blocks
		SET name = $1, color = $2, duration = $3, sort_order = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7
	`, b.Name, b.Color, b.Duration, b.Order, b.UpdatedAt, b.ID, b.UserID)
	if err != nil {
		return mapErr(err)
	}
	return requireAffected(tag)
}

func (r *TimeBlockRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM time_blocks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapErr(err)
	}
	return requireAffected(tag)
}

// Reorder runs one UPDATE per id inside a single transaction; an id the user
// does not own aborts the whole batch.
func (r *TimeBlockRepository) Reorder(ctx context.Context, userID string, ids []string) error {
	return WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for i, id := range ids {
			tag, err := tx.Exec(ctx, `
				UPDATE time_blocks SET sort_order = $1, updated_at = now()
				WHERE id = $2 AND user_id = $3
			`, i, id, userID)
			if err != nil {
				return mapErr(err)
			}
			if err := requireAffected(tag); err != nil {
				return err
			}
		}
		return nil
	})
}

var _ repository.TimeBlockRepository = (*TimeBlockRepository)(nil)
