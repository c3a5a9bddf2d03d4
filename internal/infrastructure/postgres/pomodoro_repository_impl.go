package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
	"github.com/oksasatya/go-pomodoro-planner/internal/domain/repository"
)

type PomodoroRepository struct {
	db DB
}

func NewPomodoroRepository(db DB) *PomodoroRepository {
	return &PomodoroRepository{db: db}
}

const sessionColumns = `id, is_completed, user_id, created_at, updated_at`

func scanSession(row pgx.Row) (*entity.PomodoroSession, error) {
	s := &entity.PomodoroSession{}
	if err := row.Scan(&s.ID, &s.IsCompleted, &s.UserID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return s, nil
}

func (r *PomodoroRepository) FindSince(ctx context.Context, userID string, since time.Time) (*entity.PomodoroSession, error) {
	return findSince(ctx, r.db, userID, since)
}

// findSince runs on the pool or inside a tx; pgx.Tx satisfies DB.
func findSince(ctx context.Context, q DB, userID string, since time.Time) (*entity.PomodoroSession, error) {
	s, err := scanSession(q.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM pomodoro_sessions
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at
		LIMIT 1
	`, userID, since))
	if err != nil {
		return nil, err
	}
	return withRounds(ctx, q, s)
}

func withRounds(ctx context.Context, q DB, s *entity.PomodoroSession) (*entity.PomodoroSession, error) {
	rows, err := q.Query(ctx, `
		SELECT id, total_seconds, is_completed, session_id, position, created_at, updated_at
		FROM pomodoro_rounds
		WHERE session_id = $1
		ORDER BY position
	`, s.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	s.Rounds = make([]entity.PomodoroRound, 0)
	for rows.Next() {
		var rd entity.PomodoroRound
		if err := rows.Scan(&rd.ID, &rd.TotalSeconds, &rd.IsCompleted, &rd.SessionID, &rd.Position, &rd.CreatedAt, &rd.UpdatedAt); err != nil {
			return nil, err
		}
		s.Rounds = append(s.Rounds, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// CreateWithRounds serializes concurrent creates for one user with a
// transaction-scoped advisory lock, then reuses a session started since.
func (r *PomodoroRepository) CreateWithRounds(ctx context.Context, s *entity.PomodoroSession, rounds int, since time.Time) (bool, error) {
	created := false
	err := WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, s.UserID); err != nil {
			return err
		}
		existing, err := findSince(ctx, tx, s.UserID, since)
		if err == nil {
			*s = *existing
			return nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO pomodoro_sessions (user_id) VALUES ($1)
			RETURNING id, is_completed, created_at, updated_at
		`, s.UserID).Scan(&s.ID, &s.IsCompleted, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return mapErr(err)
		}
		s.Rounds = make([]entity.PomodoroRound, 0, rounds)
		for i := 0; i < rounds; i++ {
			rd := entity.PomodoroRound{SessionID: s.ID, Position: i}
			err := tx.QueryRow(ctx, `
				INSERT INTO pomodoro_rounds (session_id, position, total_seconds)
				VALUES ($1, $2, 0)
				RETURNING id, created_at, updated_at
			`, s.ID, i).Scan(&rd.ID, &rd.CreatedAt, &rd.UpdatedAt)
			if err != nil {
				return mapErr(err)
			}
			s.Rounds = append(s.Rounds, rd)
		}
		created = true
		return nil
	})
	return created, err
}

func (r *PomodoroRepository) GetSession(ctx context.Context, userID, id string) (*entity.PomodoroSession, error) {
	s, err := scanSession(r.db.QueryRow(ctx, `
		SELECT `+sessionColumns+` FROM pomodoro_sessions WHERE id = $1 AND user_id = $2
	`, id, userID))
	if err != nil {
		return nil, err
	}
	return withRounds(ctx, r.db, s)
}

func (r *PomodoroRepository) UpdateSession(ctx context.Context, userID, id string, isCompleted bool) (*entity.PomodoroSession, error) {
	s, err := scanSession(r.db.QueryRow(ctx, `
		UPDATE pomodoro_sessions SET is_completed = $1, updated_at = now()
		WHERE id = $2 AND user_id = $3
		RETURNING `+sessionColumns, isCompleted, id, userID))
	if err != nil {
		return nil, err
	}
	return withRounds(ctx, r.db, s)
}

// GetRound resolves a round only through a session owned by userID.
func (r *PomodoroRepository) GetRound(ctx context.Context, userID, id string) (*entity.PomodoroRound, error) {
	var rd entity.PomodoroRound
	err := r.db.QueryRow(ctx, `
		SELECT r.id, r.total_seconds, r.is_completed, r.session_id, r.position, r.created_at, r.updated_at
		FROM pomodoro_rounds r
		JOIN pomodoro_sessions s ON s.id = r.session_id
		WHERE r.id = $1 AND s.user_id = $2
	`, id, userID).Scan(&rd.ID, &rd.TotalSeconds, &rd.IsCompleted, &rd.SessionID, &rd.Position, &rd.CreatedAt, &rd.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &rd, nil
}

func (r *PomodoroRepository) UpdateRound(ctx context.Context, rd *entity.PomodoroRound) error {
	rd.UpdatedAt = time.Now()
	tag, err := r.db.Exec(ctx, `
		UPDATE pomodoro_rounds SET total_seconds = $1, is_completed = $2, updated_at = $3
		WHERE id = $4
	`, rd.TotalSeconds, rd.IsCompleted, rd.UpdatedAt, rd.ID)
	if err != nil {
		return mapErr(err)
	}
	return requireAffected(tag)
}

func (r *PomodoroRepository) DeleteSession(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM pomodoro_sessions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapErr(err)
	}
	return requireAffected(tag)
}

var _ repository.PomodoroRepository = (*PomodoroRepository)(nil)
