package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/langtools/langtools-api/internal/domain"
	"github.com/langtools/langtools-api/internal/platform/logger"
	"github.com/langtools/langtools-api/internal/store"
)

// PostgresEntryStore implements store.EntryStore. Meanings are stored as a
// JSONB array on the entry row.
type PostgresEntryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresEntryStore creates an entry store over db.
func NewPostgresEntryStore(db store.DBTX, logger *slog.Logger) *PostgresEntryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresEntryStore{
		db:     db,
		logger: logger.With(slog.String("component", "entry_store")),
	}
}

var _ store.EntryStore = (*PostgresEntryStore)(nil)

// Create implements store.EntryStore.Create.
func (s *PostgresEntryStore) Create(ctx context.Context, entry *domain.DictionaryEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("entry validation failed during create",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	meanings, err := json.Marshal(entry.Meanings)
	if err != nil {
		return fmt.Errorf("encoding meanings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO dictionary_entries
			(id, user_id, headword, source_language, target_language, meanings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.UserID, entry.Headword, entry.SourceLanguage, entry.TargetLanguage,
		meanings, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, entry.UserID)
		}
		log.Error("failed to create entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return store.NewStoreError("dictionary_entry", "create", "insert failed", MapError(err))
	}

	log.Info("dictionary entry created",
		slog.String("entry_id", entry.ID.String()),
		slog.Int("meanings", len(entry.Meanings)))
	return nil
}

// GetByID implements store.EntryStore.GetByID.
func (s *PostgresEntryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.DictionaryEntry, error) {
	var (
		e        domain.DictionaryEntry
		meanings []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, headword, source_language, target_language, meanings, created_at, updated_at
		FROM dictionary_entries WHERE id = $1`, id,
	).Scan(&e.ID, &e.UserID, &e.Headword, &e.SourceLanguage, &e.TargetLanguage,
		&meanings, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrEntryNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", id.String()))
		return nil, store.NewStoreError("dictionary_entry", "get", "query failed", MapError(err))
	}

	if err := json.Unmarshal(meanings, &e.Meanings); err != nil {
		return nil, fmt.Errorf("decoding meanings of entry %s: %w", id, err)
	}
	return &e, nil
}

// UpdateMeanings implements store.EntryStore.UpdateMeanings.
func (s *PostgresEntryStore) UpdateMeanings(ctx context.Context, entry *domain.DictionaryEntry) error {
	if err := domain.ValidateMeanings(entry.Meanings); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	meanings, err := json.Marshal(entry.Meanings)
	if err != nil {
		return fmt.Errorf("encoding meanings: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE dictionary_entries SET meanings = $2, updated_at = $3 WHERE id = $1`,
		entry.ID, meanings, entry.UpdatedAt,
	)
	if err != nil {
		return store.NewStoreError("dictionary_entry", "update", "update failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrEntryNotFound)
}

// Delete implements store.EntryStore.Delete.
func (s *PostgresEntryStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM dictionary_entries WHERE id = $1`, id)
	if err != nil {
		return store.NewStoreError("dictionary_entry", "delete", "delete failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrEntryNotFound); err != nil {
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("dictionary entry deleted",
		slog.String("entry_id", id.String()))
	return nil
}

// WithTx implements store.EntryStore.WithTx.
func (s *PostgresEntryStore) WithTx(tx *sql.Tx) store.EntryStore {
	return &PostgresEntryStore{db: tx, logger: s.logger}
}
