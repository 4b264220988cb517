package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/langtools/langtools-api/internal/domain"
)

// Common errors
var (
	ErrInvalidConfig  = errors.New("invalid scheduler configuration")
	ErrInvalidWeights = errors.New("invalid memory model weights")
)

// Service defines the scheduling operations used by the rest of the application.
type Service interface {
	// NewTrainingData returns the state of a meaning that was just created.
	NewTrainingData(now time.Time) domain.TrainingState

	// ProcessReview returns the state that follows current after a review.
	// current is never modified.
	ProcessReview(current domain.TrainingState, rating domain.Rating, reviewTime time.Time) (domain.TrainingState, error)

	// PreviewReview returns the outcome of every rating without committing any.
	PreviewReview(current domain.TrainingState, reviewTime time.Time) (map[domain.Rating]domain.TrainingState, error)

	// Retrievability estimates the recall probability of a reviewed meaning at a given time.
	Retrievability(current domain.TrainingState, at time.Time) (float64, error)
}

// Scheduler is the standard implementation of Service. It is immutable after
// construction and safe for concurrent use.
type Scheduler struct {
	cfg    Config
	model  *MemoryModel
	policy *Policy
}

var _ Service = (*Scheduler)(nil)

// NewScheduler creates a scheduler for cfg.
func NewScheduler(cfg Config) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.clone()
	model := NewMemoryModel(cfg.Weights)
	return &Scheduler{
		cfg:    cfg,
		model:  model,
		policy: NewPolicy(cfg, model),
	}, nil
}

// NewDefaultScheduler creates a scheduler with DefaultConfig.
func NewDefaultScheduler() *Scheduler {
	s, err := NewScheduler(DefaultConfig())
	if err != nil {
		panic(fmt.Sprintf("default scheduler config is invalid: %v", err))
	}
	return s
}

// Config returns a copy of the scheduler's configuration.
func (s *Scheduler) Config() Config {
	return s.cfg.clone()
}

// Policy exposes the scheduling policy, mainly for interval introspection.
func (s *Scheduler) Policy() *Policy {
	return s.policy
}

// NewTrainingData implements Service.
func (s *Scheduler) NewTrainingData(now time.Time) domain.TrainingState {
	return domain.NewTrainingState(now)
}

// ProcessReview implements Service.
//
// The result depends only on its arguments: fuzz is drawn from a generator
// seeded by the review itself.
func (s *Scheduler) ProcessReview(
	current domain.TrainingState,
	rating domain.Rating,
	reviewTime time.Time,
) (domain.TrainingState, error) {
	if !rating.IsValid() {
		return domain.TrainingState{}, fmt.Errorf("%w: %d", domain.ErrInvalidRating, int(rating))
	}
	if err := current.Validate(); err != nil {
		return domain.TrainingState{}, err
	}

	next := current.Clone()
	s.updateMemory(&next, rating, reviewTime)

	delay, days := s.transition(&next, rating)
	if s.cfg.EnableFuzz && days > 0 {
		fuzzed := s.policy.fuzz(days, fuzzSeed(reviewTime, current.Reps, *next.Stability))
		delay = time.Duration(fuzzed) * day
	}

	reviewed := reviewTime
	next.Due = reviewTime.Add(delay)
	next.LastReview = &reviewed
	next.Reps++
	if rating == domain.RatingAgain {
		next.Lapses++
	}

	return next, nil
}

// PreviewReview implements Service.
func (s *Scheduler) PreviewReview(
	current domain.TrainingState,
	reviewTime time.Time,
) (map[domain.Rating]domain.TrainingState, error) {
	out := make(map[domain.Rating]domain.TrainingState, len(domain.Ratings))
	for _, r := range domain.Ratings {
		next, err := s.ProcessReview(current, r, reviewTime)
		if err != nil {
			return nil, err
		}
		out[r] = next
	}
	return out, nil
}

// Retrievability implements Service.
func (s *Scheduler) Retrievability(current domain.TrainingState, at time.Time) (float64, error) {
	if err := current.Validate(); err != nil {
		return 0, err
	}
	if current.IsNew() {
		return 0, fmt.Errorf("%w: retrievability is undefined before the first review", domain.ErrInvalidState)
	}
	return s.model.Retrievability(elapsedDays(*current.LastReview, at), *current.Stability), nil
}

func (s *Scheduler) updateMemory(next *domain.TrainingState, rating domain.Rating, reviewTime time.Time) {
	if next.IsNew() {
		st := s.model.InitialStability(rating)
		d := s.model.InitialDifficulty(rating)
		next.Stability, next.Difficulty = &st, &d
		return
	}

	stability, difficulty := *next.Stability, *next.Difficulty
	elapsed := elapsedDays(*next.LastReview, reviewTime)

	var st float64
	if elapsed < 1 {
		st = s.model.ShortTermStability(stability, rating)
	} else {
		r := s.model.Retrievability(elapsed, stability)
		st = s.model.UpdateStability(stability, difficulty, r, rating)
	}
	d := s.model.UpdateDifficulty(difficulty, rating)
	next.Stability, next.Difficulty = &st, &d
}

// elapsedDays is clamped at zero; a review stamped before the previous one is
// treated as same-day.
func elapsedDays(from, to time.Time) float64 {
	return max(to.Sub(from).Hours()/24, 0)
}
