package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/langtools/langtools-api/internal/domain"
	"github.com/langtools/langtools-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresUserStoreCreate(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	user := &domain.User{ID: uuid.New(), Email: "a@b.co", HashedPassword: "hash", CreatedAt: now, UpdatedAt: now}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.HashedPassword, now, now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		s := NewPostgresUserStore(db, discardLogger())
		require.NoError(t, s.Create(context.Background(), user))
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		mock.ExpectExec("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

		s := NewPostgresUserStore(db, discardLogger())
		assert.ErrorIs(t, s.Create(context.Background(), user), store.ErrEmailExists)
	})

	t.Run("missing hash", func(t *testing.T) {
		t.Parallel()
		db, _ := newMock(t)
		s := NewPostgresUserStore(db, discardLogger())
		err := s.Create(context.Background(), &domain.User{ID: uuid.New(), Email: "a@b.co"})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestPostgresUserStoreGet(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	id := uuid.New()

	t.Run("by email", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		mock.ExpectQuery("FROM users WHERE email").
			WithArgs("a@b.co").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "hashed_password", "created_at", "updated_at"}).
				AddRow(id.String(), "a@b.co", "hash", now, now))

		u, err := NewPostgresUserStore(db, discardLogger()).GetByEmail(context.Background(), "a@b.co")
		require.NoError(t, err)
		assert.Equal(t, id, u.ID)
		assert.Equal(t, "hash", u.HashedPassword)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		db, mock := newMock(t)
		mock.ExpectQuery("FROM users WHERE id").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := NewPostgresUserStore(db, discardLogger()).GetByID(context.Background(), id)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestPostgresUserStoreDelete(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	id := uuid.New()
	mock.ExpectExec("DELETE FROM users").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewPostgresUserStore(db, discardLogger()).Delete(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
