package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/langtools/langtools-api/internal/domain"
	"github.com/langtools/langtools-api/internal/platform/logger"
	"github.com/langtools/langtools-api/internal/store"
)

const trainingColumns = `id, user_id, entry_id, meaning_id, due, stability, difficulty,
	state, step, last_review, reps, lapses, version, created_at, updated_at`

// PostgresTrainingStore implements store.TrainingStore.
type PostgresTrainingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTrainingStore creates a training store over db.
func NewPostgresTrainingStore(db store.DBTX, logger *slog.Logger) *PostgresTrainingStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTrainingStore{
		db:     db,
		logger: logger.With(slog.String("component", "training_store")),
	}
}

var _ store.TrainingStore = (*PostgresTrainingStore)(nil)

// CreateMultiple implements store.TrainingStore.CreateMultiple.
// Callers run it inside a transaction so a partial failure leaves nothing behind.
func (s *PostgresTrainingStore) CreateMultiple(ctx context.Context, records []*domain.MeaningTraining) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		t := r.Training
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO meaning_training (`+trainingColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			r.ID, r.UserID, r.EntryID, r.MeaningID, t.Due,
			nullFloat(t.Stability), nullFloat(t.Difficulty),
			int16(t.State), t.Step, nullTime(t.LastReview), t.Reps, t.Lapses,
			r.Version, r.CreatedAt, r.UpdatedAt,
		)
		if err != nil {
			if IsUniqueViolation(err) {
				return fmt.Errorf("%w: meaning %q of entry %s", store.ErrTrainingExists, r.MeaningID, r.EntryID)
			}
			log.Error("failed to create training record",
				slog.String("error", err.Error()),
				slog.String("entry_id", r.EntryID.String()),
				slog.String("meaning_id", r.MeaningID))
			return store.NewStoreError("meaning_training", "create", "insert failed", MapError(err))
		}
	}

	log.Debug("training records created", slog.Int("count", len(records)))
	return nil
}

// GetByID implements store.TrainingStore.GetByID.
func (s *PostgresTrainingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.MeaningTraining, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+trainingColumns+` FROM meaning_training WHERE id = $1`, id)
	r, err := scanTraining(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTrainingNotFound
		}
		return nil, store.NewStoreError("meaning_training", "get", "query failed", MapError(err))
	}
	return r, nil
}

// ListByEntry implements store.TrainingStore.ListByEntry.
func (s *PostgresTrainingStore) ListByEntry(ctx context.Context, entryID uuid.UUID) ([]*domain.MeaningTraining, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+trainingColumns+`
		FROM meaning_training WHERE entry_id = $1 ORDER BY meaning_id`, entryID)
	if err != nil {
		return nil, store.NewStoreError("meaning_training", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.MeaningTraining
	for rows.Next() {
		r, err := scanTraining(rows)
		if err != nil {
			return nil, store.NewStoreError("meaning_training", "list", "scan failed", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("meaning_training", "list", "iteration failed", err)
	}
	return out, nil
}

// ListDue implements store.TrainingStore.ListDue.
func (s *PostgresTrainingStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.DueItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT mt.id, mt.user_id, mt.entry_id, mt.meaning_id, mt.due, mt.stability, mt.difficulty,
			mt.state, mt.step, mt.last_review, mt.reps, mt.lapses, mt.version, mt.created_at, mt.updated_at,
			e.headword, e.meanings
		FROM meaning_training mt
		JOIN dictionary_entries e ON e.id = mt.entry_id
		WHERE mt.user_id = $1 AND mt.due <= $2
		ORDER BY mt.due ASC, mt.id ASC
		LIMIT $3`, userID, now, limit)
	if err != nil {
		log.Error("failed to query due items",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("meaning_training", "list_due", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var items []*domain.DueItem
	for rows.Next() {
		var (
			item     domain.DueItem
			meanings []byte
		)
		r, err := scanTraining(rows, &item.Headword, &meanings)
		if err != nil {
			return nil, store.NewStoreError("meaning_training", "list_due", "scan failed", err)
		}
		item.Training = r

		var decoded []domain.Meaning
		if err := json.Unmarshal(meanings, &decoded); err != nil {
			return nil, fmt.Errorf("decoding meanings of entry %s: %w", r.EntryID, err)
		}
		for _, m := range decoded {
			if m.ID == r.MeaningID {
				item.Meaning = m
				break
			}
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("meaning_training", "list_due", "iteration failed", err)
	}

	log.Debug("due items loaded", slog.Int("count", len(items)))
	return items, nil
}

// Update implements store.TrainingStore.Update with a version check.
func (s *PostgresTrainingStore) Update(ctx context.Context, record *domain.MeaningTraining) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Training.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	t := record.Training
	result, err := s.db.ExecContext(ctx, `
		UPDATE meaning_training
		SET due = $3, stability = $4, difficulty = $5, state = $6, step = $7,
			last_review = $8, reps = $9, lapses = $10, version = version + 1, updated_at = $11
		WHERE id = $1 AND version = $2`,
		record.ID, record.Version, t.Due, nullFloat(t.Stability), nullFloat(t.Difficulty),
		int16(t.State), t.Step, nullTime(t.LastReview), t.Reps, t.Lapses, record.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update training record",
			slog.String("error", err.Error()),
			slog.String("training_id", record.ID.String()))
		return store.NewStoreError("meaning_training", "update", "update failed", MapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM meaning_training WHERE id = $1)`, record.ID,
		).Scan(&exists); err != nil {
			return store.NewStoreError("meaning_training", "update", "existence check failed", MapError(err))
		}
		if !exists {
			return store.ErrTrainingNotFound
		}
		log.Warn("stale training record", slog.String("training_id", record.ID.String()),
			slog.Int64("version", record.Version))
		return store.ErrVersionConflict
	}

	record.Version++
	return nil
}

// DeleteByMeanings implements store.TrainingStore.DeleteByMeanings.
func (s *PostgresTrainingStore) DeleteByMeanings(ctx context.Context, entryID uuid.UUID, meaningIDs []string) error {
	if len(meaningIDs) == 0 {
		return nil
	}

	args := make([]any, 0, len(meaningIDs)+1)
	args = append(args, entryID)
	placeholders := make([]string, len(meaningIDs))
	for i, id := range meaningIDs {
		args = append(args, id)
		placeholders[i] = fmt.Sprintf("$%d", i+2)
	}

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM meaning_training WHERE entry_id = $1 AND meaning_id IN (`+
			strings.Join(placeholders, ", ")+`)`, args...)
	if err != nil {
		return store.NewStoreError("meaning_training", "delete", "delete failed", MapError(err))
	}
	return nil
}

// WithTx implements store.TrainingStore.WithTx.
func (s *PostgresTrainingStore) WithTx(tx *sql.Tx) store.TrainingStore {
	return &PostgresTrainingStore{db: tx, logger: s.logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanTraining reads trainingColumns followed by any extra destinations.
func scanTraining(row rowScanner, extra ...any) (*domain.MeaningTraining, error) {
	var (
		r          domain.MeaningTraining
		stability  sql.NullFloat64
		difficulty sql.NullFloat64
		lastReview sql.NullTime
		state      int16
	)

	dest := []any{
		&r.ID, &r.UserID, &r.EntryID, &r.MeaningID, &r.Training.Due,
		&stability, &difficulty, &state, &r.Training.Step, &lastReview,
		&r.Training.Reps, &r.Training.Lapses, &r.Version, &r.CreatedAt, &r.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	r.Training.State = domain.CardState(state)
	if stability.Valid {
		r.Training.Stability = &stability.Float64
	}
	if difficulty.Valid {
		r.Training.Difficulty = &difficulty.Float64
	}
	if lastReview.Valid {
		t := lastReview.Time
		r.Training.LastReview = &t
	}
	return &r, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}
