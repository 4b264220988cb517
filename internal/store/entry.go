package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/langtools/langtools-api/internal/domain"
)

// EntryStore persists generated dictionary entries.
type EntryStore interface {
	// Create saves a new entry with its meanings.
	Create(ctx context.Context, entry *domain.DictionaryEntry) error

	// GetByID returns ErrEntryNotFound if the entry does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DictionaryEntry, error)

	// UpdateMeanings replaces the meanings of an existing entry.
	UpdateMeanings(ctx context.Context, entry *domain.DictionaryEntry) error

	// Delete removes the entry. Training records are removed by cascade.
	Delete(ctx context.Context, id uuid.UUID) error

	WithTx(tx *sql.Tx) EntryStore
}
