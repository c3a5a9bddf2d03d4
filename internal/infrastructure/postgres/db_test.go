package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-pomodoro-planner/internal/domain/repository"
)

func invalidUUID() error {
	return &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "garbage"`}
}

func TestMapErr(t *testing.T) {
	other := errors.New("connection reset")

	assert.NoError(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(pgx.ErrNoRows), repository.ErrNotFound)
	assert.ErrorIs(t, mapErr(&pgconn.PgError{Code: "23505"}), repository.ErrDuplicate)
	assert.ErrorIs(t, mapErr(invalidUUID()), repository.ErrNotFound)
	assert.ErrorIs(t, mapErr(other), other)
}

func TestTaskGet_MalformedIDIsNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT .+ FROM tasks`).WithArgs("garbage", "u1").WillReturnError(invalidUUID())

	_, err = NewTaskRepository(mock).Get(context.Background(), "u1", "garbage")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskDelete_MalformedIDIsNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM tasks`).WithArgs("garbage", "u1").WillReturnError(invalidUUID())

	err = NewTaskRepository(mock).Delete(context.Background(), "u1", "garbage")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
