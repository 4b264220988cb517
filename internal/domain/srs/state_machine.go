package srs

import (
	"time"

	"github.com/langtools/langtools-api/internal/domain"
)

// transition advances the phase and step of next, whose memory parameters
// have already been updated for this review. It returns the delay until the
// next review and, when the result is a review interval, its length in days.
//
//	LEARNING ──graduate──▶ REVIEW ──AGAIN──▶ RELEARNING ──graduate──▶ REVIEW
func (s *Scheduler) transition(next *domain.TrainingState, rating domain.Rating) (time.Duration, int) {
	switch next.State {
	case domain.StateLearning, domain.StateRelearning:
		return s.stepTransition(next, rating)
	default:
		return s.reviewTransition(next, rating)
	}
}

func (s *Scheduler) stepTransition(next *domain.TrainingState, rating domain.Rating) (time.Duration, int) {
	steps := s.policy.steps(next.State)
	step := next.Step

	// Steps may have been shortened by a configuration change since the
	// state was stored.
	if len(steps) == 0 || (step >= len(steps) && rating != domain.RatingAgain) {
		return s.graduate(next)
	}

	switch rating {
	case domain.RatingAgain:
		next.Step = 0
		return steps[0], 0
	case domain.RatingHard:
		return hardDelay(steps, step), 0
	case domain.RatingGood:
		if step+1 >= len(steps) {
			return s.graduate(next)
		}
		next.Step = step + 1
		return steps[next.Step], 0
	default:
		return s.graduate(next)
	}
}

func (s *Scheduler) reviewTransition(next *domain.TrainingState, rating domain.Rating) (time.Duration, int) {
	if rating == domain.RatingAgain {
		next.State = domain.StateRelearning
		next.Step = 0
		return s.cfg.RelearningSteps[0], 0
	}
	next.Step = 0
	days := s.policy.Interval(*next.Stability)
	return time.Duration(days) * day, days
}

func (s *Scheduler) graduate(next *domain.TrainingState) (time.Duration, int) {
	next.State = domain.StateReview
	next.Step = 0
	days := s.policy.Interval(*next.Stability)
	return time.Duration(days) * day, days
}
