package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/langtools/langtools-api/internal/domain"
	"github.com/langtools/langtools-api/internal/store"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserStore) WithTx(*sql.Tx) store.UserStore { return m }

type mockEntryStore struct{ mock.Mock }

func (m *mockEntryStore) Create(ctx context.Context, entry *domain.DictionaryEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockEntryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.DictionaryEntry, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*domain.DictionaryEntry)
	return e, args.Error(1)
}

func (m *mockEntryStore) UpdateMeanings(ctx context.Context, entry *domain.DictionaryEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockEntryStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockEntryStore) WithTx(*sql.Tx) store.EntryStore { return m }

type mockTrainingStore struct{ mock.Mock }

func (m *mockTrainingStore) CreateMultiple(ctx context.Context, records []*domain.MeaningTraining) error {
	return m.Called(ctx, records).Error(0)
}

func (m *mockTrainingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.MeaningTraining, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*domain.MeaningTraining)
	return r, args.Error(1)
}

func (m *mockTrainingStore) ListByEntry(ctx context.Context, entryID uuid.UUID) ([]*domain.MeaningTraining, error) {
	args := m.Called(ctx, entryID)
	r, _ := args.Get(0).([]*domain.MeaningTraining)
	return r, args.Error(1)
}

func (m *mockTrainingStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.DueItem, error) {
	args := m.Called(ctx, userID, now, limit)
	r, _ := args.Get(0).([]*domain.DueItem)
	return r, args.Error(1)
}

func (m *mockTrainingStore) Update(ctx context.Context, record *domain.MeaningTraining) error {
	return m.Called(ctx, record).Error(0)
}

func (m *mockTrainingStore) DeleteByMeanings(ctx context.Context, entryID uuid.UUID, meaningIDs []string) error {
	return m.Called(ctx, entryID, meaningIDs).Error(0)
}

func (m *mockTrainingStore) WithTx(*sql.Tx) store.TrainingStore { return m }

type mockGenerator struct{ mock.Mock }

func (m *mockGenerator) GenerateEntry(ctx context.Context, headword, src, tgt string) ([]domain.Meaning, error) {
	args := m.Called(ctx, headword, src, tgt)
	r, _ := args.Get(0).([]domain.Meaning)
	return r, args.Error(1)
}

type mockHasher struct{ mock.Mock }

func (m *mockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *mockHasher) Compare(hashed, password string) error {
	return m.Called(hashed, password).Error(0)
}

type recordingMetrics struct{ outcomes []string }

func (r *recordingMetrics) ObserveGeneration(outcome string) { r.outcomes = append(r.outcomes, outcome) }

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, m, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, m.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, m
}
