package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/langtools/langtools-api/internal/domain"
	"github.com/langtools/langtools-api/internal/domain/srs"
	"github.com/langtools/langtools-api/internal/generation"
	"github.com/langtools/langtools-api/internal/platform/logger"
	"github.com/langtools/langtools-api/internal/store"
)

// CreateEntryRequest names the headword to generate and its languages.
type CreateEntryRequest struct {
	Headword       string
	SourceLanguage string
	TargetLanguage string
}

// EntryWithTraining is an entry together with the training records of its
// meanings, ordered by meaning ID.
type EntryWithTraining struct {
	Entry    *domain.DictionaryEntry
	Training []*domain.MeaningTraining
}

// GenerationMetrics counts generation outcomes.
type GenerationMetrics interface {
	ObserveGeneration(outcome string)
}

// DictionaryService manages dictionary entries and the training records
// that follow their meanings.
type DictionaryService interface {
	// CreateEntry generates the meanings of a headword, then stores the entry
	// and one fresh training record per meaning in a single transaction.
	CreateEntry(ctx context.Context, userID uuid.UUID, req CreateEntryRequest) (*EntryWithTraining, error)

	// GetEntry returns an entry owned by userID.
	GetEntry(ctx context.Context, userID, entryID uuid.UUID) (*EntryWithTraining, error)

	// RegenerateEntry replaces the meanings of an entry. Training records of
	// meaning IDs that survive are kept, new IDs get fresh training data and
	// records of removed IDs are deleted.
	RegenerateEntry(ctx context.Context, userID, entryID uuid.UUID) (*EntryWithTraining, error)

	// DeleteEntry removes an entry; its training records cascade.
	DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error
}

// DictionaryServiceImpl implements DictionaryService.
type DictionaryServiceImpl struct {
	entries   store.EntryStore
	trainings store.TrainingStore
	generator generation.Generator
	scheduler srs.Service
	metrics   GenerationMetrics
	db        *sql.DB
	logger    *slog.Logger
	now       func() time.Time
}

var _ DictionaryService = (*DictionaryServiceImpl)(nil)

type noopGenerationMetrics struct{}

func (noopGenerationMetrics) ObserveGeneration(string) {}

// NewDictionaryService creates a DictionaryService. metrics may be nil.
func NewDictionaryService(
	entries store.EntryStore,
	trainings store.TrainingStore,
	generator generation.Generator,
	scheduler srs.Service,
	metrics GenerationMetrics,
	db *sql.DB,
	logger *slog.Logger,
) (*DictionaryServiceImpl, error) {
	if entries == nil || trainings == nil {
		return nil, errors.New("stores cannot be nil")
	}
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if scheduler == nil {
		return nil, errors.New("scheduler cannot be nil")
	}
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if metrics == nil {
		metrics = noopGenerationMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DictionaryServiceImpl{
		entries:   entries,
		trainings: trainings,
		generator: generator,
		scheduler: scheduler,
		metrics:   metrics,
		db:        db,
		logger:    logger.With(slog.String("component", "dictionary_service")),
		now:       time.Now,
	}, nil
}

// CreateEntry implements DictionaryService.
func (s *DictionaryServiceImpl) CreateEntry(
	ctx context.Context,
	userID uuid.UUID,
	req CreateEntryRequest,
) (*EntryWithTraining, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Generation talks to an external API and stays outside the transaction.
	meanings, err := s.generate(ctx, req.Headword, req.SourceLanguage, req.TargetLanguage)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	entry, err := domain.NewDictionaryEntry(userID, req.Headword, req.SourceLanguage, req.TargetLanguage, meanings, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	records, err := s.newTraining(entry, entry.MeaningIDs(), now)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.entries.WithTx(tx).Create(ctx, entry); err != nil {
			return err
		}
		return s.trainings.WithTx(tx).CreateMultiple(ctx, records)
	})
	if err != nil {
		log.Error("failed to store entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return nil, NewServiceError("dictionary", "create_entry", "failed to store entry", err)
	}

	log.Info("dictionary entry created",
		slog.String("entry_id", entry.ID.String()),
		slog.Int("meanings", len(entry.Meanings)))
	return &EntryWithTraining{Entry: entry, Training: records}, nil
}

// GetEntry implements DictionaryService.
func (s *DictionaryServiceImpl) GetEntry(ctx context.Context, userID, entryID uuid.UUID) (*EntryWithTraining, error) {
	entry, err := s.ownedEntry(ctx, s.entries, userID, entryID)
	if err != nil {
		return nil, err
	}

	records, err := s.trainings.ListByEntry(ctx, entryID)
	if err != nil {
		return nil, NewServiceError("dictionary", "get_entry", "failed to load training", err)
	}
	return &EntryWithTraining{Entry: entry, Training: records}, nil
}

// RegenerateEntry implements DictionaryService.
func (s *DictionaryServiceImpl) RegenerateEntry(
	ctx context.Context,
	userID, entryID uuid.UUID,
) (*EntryWithTraining, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	current, err := s.ownedEntry(ctx, s.entries, userID, entryID)
	if err != nil {
		return nil, err
	}

	meanings, err := s.generate(ctx, current.Headword, current.SourceLanguage, current.TargetLanguage)
	if err != nil {
		return nil, err
	}

	var result *EntryWithTraining
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		entries := s.entries.WithTx(tx)
		trainings := s.trainings.WithTx(tx)

		// Reload inside the transaction so a concurrent delete is noticed.
		entry, err := s.ownedEntry(ctx, entries, userID, entryID)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		added, removed := diffMeaningIDs(entry.MeaningIDs(), meaningIDs(meanings))

		entry.Meanings = meanings
		entry.UpdatedAt = now
		if err := entries.UpdateMeanings(ctx, entry); err != nil {
			return err
		}
		if err := trainings.DeleteByMeanings(ctx, entryID, removed); err != nil {
			return err
		}

		records, err := s.newTraining(entry, added, now)
		if err != nil {
			return err
		}
		if len(records) > 0 {
			if err := trainings.CreateMultiple(ctx, records); err != nil {
				return err
			}
		}

		all, err := trainings.ListByEntry(ctx, entryID)
		if err != nil {
			return err
		}

		log.Info("dictionary entry regenerated",
			slog.String("entry_id", entryID.String()),
			slog.Int("added", len(added)),
			slog.Int("removed", len(removed)))
		result = &EntryWithTraining{Entry: entry, Training: all}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrEntryNotFound) || errors.Is(err, ErrNotOwned) {
			return nil, err
		}
		return nil, NewServiceError("dictionary", "regenerate_entry", "failed to update entry", err)
	}
	return result, nil
}

// DeleteEntry implements DictionaryService.
func (s *DictionaryServiceImpl) DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		entries := s.entries.WithTx(tx)
		if _, err := s.ownedEntry(ctx, entries, userID, entryID); err != nil {
			return err
		}
		return entries.Delete(ctx, entryID)
	})
}

func (s *DictionaryServiceImpl) generate(
	ctx context.Context,
	headword, sourceLanguage, targetLanguage string,
) ([]domain.Meaning, error) {
	meanings, err := s.generator.GenerateEntry(ctx, headword, sourceLanguage, targetLanguage)
	if err != nil {
		s.metrics.ObserveGeneration(generationOutcome(err))
		logger.FromContextOrDefault(ctx, s.logger).Warn("generation failed",
			slog.String("error", err.Error()),
			slog.String("headword", headword))
		return nil, err
	}
	s.metrics.ObserveGeneration("ok")
	return meanings, nil
}

func (s *DictionaryServiceImpl) ownedEntry(
	ctx context.Context,
	entries store.EntryStore,
	userID, entryID uuid.UUID,
) (*domain.DictionaryEntry, error) {
	entry, err := entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, ErrNotOwned
	}
	return entry, nil
}

// newTraining creates fresh training records for the given meanings.
func (s *DictionaryServiceImpl) newTraining(
	entry *domain.DictionaryEntry,
	meaningIDs []string,
	now time.Time,
) ([]*domain.MeaningTraining, error) {
	records := make([]*domain.MeaningTraining, 0, len(meaningIDs))
	for _, id := range meaningIDs {
		r, err := domain.NewMeaningTraining(entry.UserID, entry.ID, id, s.scheduler.NewTrainingData(now), now)
		if err != nil {
			return nil, fmt.Errorf("creating training for meaning %q: %w", id, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func meaningIDs(meanings []domain.Meaning) []string {
	ids := make([]string, len(meanings))
	for i, m := range meanings {
		ids[i] = m.ID
	}
	return ids
}

// diffMeaningIDs returns the IDs only in next and the IDs only in prev.
func diffMeaningIDs(prev, next []string) (added, removed []string) {
	inPrev := make(map[string]bool, len(prev))
	for _, id := range prev {
		inPrev[id] = true
	}
	inNext := make(map[string]bool, len(next))
	for _, id := range next {
		inNext[id] = true
		if !inPrev[id] {
			added = append(added, id)
		}
	}
	for _, id := range prev {
		if !inNext[id] {
			removed = append(removed, id)
		}
	}
	return added, removed
}

func generationOutcome(err error) string {
	switch {
	case errors.Is(err, generation.ErrContentBlocked):
		return "blocked"
	case errors.Is(err, generation.ErrInvalidResponse):
		return "invalid_response"
	case errors.Is(err, generation.ErrTransientFailure):
		return "transient"
	default:
		return "error"
	}
}
