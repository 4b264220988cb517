// Package review submits reviews of meanings and lists what is due.
//
// A review is applied with optimistic concurrency: the training record is
// loaded, the scheduler computes the next state and the store writes it only
// if the record's version is unchanged. A lost race reloads the record and
// schedules again, so concurrent reviews of one meaning are serialized
// without holding row locks across the scheduler call.
package review

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/langtools/langtools-api/internal/domain"
)

// MaxAttempts bounds how often SubmitReview retries after a version conflict.
const MaxAttempts = 3

// DefaultDueLimit is used when ListDue is called with a non-positive limit.
const DefaultDueLimit = 50

// MaxDueLimit caps the number of due items returned at once.
const MaxDueLimit = 200

var (
	// ErrTrainingNotOwned indicates the training record belongs to another user.
	ErrTrainingNotOwned = errors.New("training record is owned by another user")

	// ErrReviewConflict is returned when every attempt lost a concurrent update.
	ErrReviewConflict = errors.New("training record was modified concurrently")

	// ErrReviewTimeBeforeLastReview is returned, wrapped with
	// domain.ErrValidation, when an explicit review time precedes the
	// record's last review.
	ErrReviewTimeBeforeLastReview = errors.New("review_time is earlier than the last review")
)

// Answer is a user's rating of one meaning. ReviewTime defaults to now.
type Answer struct {
	Rating     domain.Rating
	ReviewTime *time.Time
}

// Service schedules reviews for the caller's meanings.
type Service interface {
	// ListDue returns up to limit items due at now, oldest first.
	ListDue(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.DueItem, error)

	// SubmitReview applies answer to the training record and returns the
	// stored result.
	//
	// Errors:
	//   - domain.ErrInvalidRating when the rating is outside again..easy
	//   - ErrReviewTimeBeforeLastReview when answer.ReviewTime precedes the
	//     last review; without an explicit time the review happens no
	//     earlier than the last review
	//   - store.ErrTrainingNotFound when the record does not exist
	//   - ErrTrainingNotOwned when it belongs to another user
	//   - ErrReviewConflict after MaxAttempts lost races
	SubmitReview(ctx context.Context, userID, trainingID uuid.UUID, answer Answer) (*domain.MeaningTraining, error)

	// Preview returns the state each rating would produce at now without
	// storing anything.
	Preview(ctx context.Context, userID, trainingID uuid.UUID) (map[domain.Rating]domain.TrainingState, error)
}

// Metrics counts review outcomes.
type Metrics interface {
	ObserveReview(rating, state string)
	ObserveReviewConflict()
}

type noopMetrics struct{}

func (noopMetrics) ObserveReview(string, string) {}
func (noopMetrics) ObserveReviewConflict()       {}
