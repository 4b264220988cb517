package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/langtools/langtools-api/internal/domain"
	"github.com/langtools/langtools-api/internal/domain/srs"
	"github.com/langtools/langtools-api/internal/platform/logger"
	"github.com/langtools/langtools-api/internal/store"
)

type serviceImpl struct {
	trainings store.TrainingStore
	scheduler srs.Service
	metrics   Metrics
	logger    *slog.Logger
	now       func() time.Time
}

var _ Service = (*serviceImpl)(nil)

// NewService creates a review Service. metrics may be nil.
func NewService(
	trainings store.TrainingStore,
	scheduler srs.Service,
	metrics Metrics,
	logger *slog.Logger,
) (Service, error) {
	if trainings == nil {
		return nil, errors.New("training store cannot be nil")
	}
	if scheduler == nil {
		return nil, errors.New("scheduler cannot be nil")
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		trainings: trainings,
		scheduler: scheduler,
		metrics:   metrics,
		logger:    logger.With(slog.String("component", "review_service")),
		now:       time.Now,
	}, nil
}

// ListDue implements Service.
func (s *serviceImpl) ListDue(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.DueItem, error) {
	switch {
	case limit <= 0:
		limit = DefaultDueLimit
	case limit > MaxDueLimit:
		limit = MaxDueLimit
	}

	items, err := s.trainings.ListDue(ctx, userID, s.now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due items: %w", err)
	}
	return items, nil
}

// SubmitReview implements Service.
func (s *serviceImpl) SubmitReview(
	ctx context.Context,
	userID, trainingID uuid.UUID,
	answer Answer,
) (*domain.MeaningTraining, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("training_id", trainingID.String()))

	if !answer.Rating.IsValid() {
		log.Warn("invalid rating", slog.Int("rating", int(answer.Rating)))
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidRating, int(answer.Rating))
	}

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		record, err := s.ownedRecord(ctx, userID, trainingID)
		if err != nil {
			return nil, err
		}

		reviewTime, err := s.reviewTime(record.Training, answer.ReviewTime)
		if err != nil {
			log.Warn("review time precedes last review", slog.Time("review_time", *answer.ReviewTime))
			return nil, err
		}

		next, err := s.scheduler.ProcessReview(record.Training, answer.Rating, reviewTime)
		if err != nil {
			log.Error("scheduler rejected stored state", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to schedule review: %w", err)
		}

		record.Training = next
		record.UpdatedAt = s.now().UTC()

		err = s.trainings.Update(ctx, record)
		if errors.Is(err, store.ErrVersionConflict) {
			s.metrics.ObserveReviewConflict()
			log.Debug("review lost a concurrent update", slog.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to store review: %w", err)
		}

		s.metrics.ObserveReview(answer.Rating.String(), next.State.String())
		log.Debug("review recorded",
			slog.String("rating", answer.Rating.String()),
			slog.String("state", next.State.String()),
			slog.Time("due", next.Due))
		return record, nil
	}

	log.Warn("review abandoned after repeated conflicts", slog.Int("attempts", MaxAttempts))
	return nil, fmt.Errorf("%w: %w", ErrReviewConflict, store.ErrVersionConflict)
}

// reviewTime resolves when a review happened. An explicit time earlier than
// the last review is rejected; the server clock is raised to it instead.
func (s *serviceImpl) reviewTime(ts domain.TrainingState, explicit *time.Time) (time.Time, error) {
	if explicit != nil {
		at := explicit.UTC()
		if ts.LastReview != nil && at.Before(*ts.LastReview) {
			return time.Time{}, fmt.Errorf("%w: %w", domain.ErrValidation, ErrReviewTimeBeforeLastReview)
		}
		return at, nil
	}
	now := s.now().UTC()
	if ts.LastReview != nil && now.Before(*ts.LastReview) {
		return ts.LastReview.UTC(), nil
	}
	return now, nil
}

// Preview implements Service.
func (s *serviceImpl) Preview(
	ctx context.Context,
	userID, trainingID uuid.UUID,
) (map[domain.Rating]domain.TrainingState, error) {
	record, err := s.ownedRecord(ctx, userID, trainingID)
	if err != nil {
		return nil, err
	}

	at, _ := s.reviewTime(record.Training, nil)
	preview, err := s.scheduler.PreviewReview(record.Training, at)
	if err != nil {
		return nil, fmt.Errorf("failed to preview review: %w", err)
	}
	return preview, nil
}

func (s *serviceImpl) ownedRecord(ctx context.Context, userID, trainingID uuid.UUID) (*domain.MeaningTraining, error) {
	record, err := s.trainings.GetByID(ctx, trainingID)
	if err != nil {
		if errors.Is(err, store.ErrTrainingNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load training record: %w", err)
	}
	if record.UserID != userID {
		return nil, ErrTrainingNotOwned
	}
	return record, nil
}
