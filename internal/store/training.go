package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/langtools/langtools-api/internal/domain"
)

// TrainingStore persists per-meaning scheduling records.
type TrainingStore interface {
	// CreateMultiple saves the records of a newly persisted entry.
	// Returns ErrTrainingExists if a meaning already has a record.
	CreateMultiple(ctx context.Context, records []*domain.MeaningTraining) error

	// GetByID returns ErrTrainingNotFound if the record does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MeaningTraining, error)

	// ListByEntry returns every record of an entry ordered by meaning ID.
	ListByEntry(ctx context.Context, entryID uuid.UUID) ([]*domain.MeaningTraining, error)

	// ListDue returns up to limit records of a user with due <= now, oldest first,
	// joined with the content needed to review them.
	ListDue(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.DueItem, error)

	// Update stores record.Training if the stored version still equals
	// record.Version, then increments record.Version. Returns
	// ErrVersionConflict when another writer got there first and
	// ErrTrainingNotFound when the record is gone.
	Update(ctx context.Context, record *domain.MeaningTraining) error

	// DeleteByMeanings removes the records of the given meanings of an entry.
	DeleteByMeanings(ctx context.Context, entryID uuid.UUID, meaningIDs []string) error

	WithTx(tx *sql.Tx) TrainingStore
}
