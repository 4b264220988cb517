package domain

import (
	"fmt"
	"math"
	"time"
)

// MinDifficulty and MaxDifficulty bound the difficulty parameter.
const (
	MinDifficulty = 1.0
	MaxDifficulty = 10.0
)

// TrainingState is the scheduling record for one (learner, meaning) pair.
//
// Stability and Difficulty are nil until the first review. Step indexes the
// active learning or relearning step sequence and is 0 while in review.
type TrainingState struct {
	Due        time.Time  `json:"due"`
	Stability  *float64   `json:"stability"`
	Difficulty *float64   `json:"difficulty"`
	State      CardState  `json:"state"`
	Step       int        `json:"step"`
	LastReview *time.Time `json:"last_review"`
	Reps       int        `json:"reps"`
	Lapses     int        `json:"lapses"`
}

// NewTrainingState returns the state of a meaning that has never been reviewed.
// It is due immediately.
func NewTrainingState(now time.Time) TrainingState {
	return TrainingState{
		Due:   now,
		State: StateLearning,
	}
}

// IsNew reports whether the meaning has never been reviewed.
func (t TrainingState) IsNew() bool {
	return t.Stability == nil
}

// Clone returns a deep copy so callers can derive a new state without
// aliasing the pointer fields of the original.
func (t TrainingState) Clone() TrainingState {
	c := t
	if t.Stability != nil {
		s := *t.Stability
		c.Stability = &s
	}
	if t.Difficulty != nil {
		d := *t.Difficulty
		c.Difficulty = &d
	}
	if t.LastReview != nil {
		lr := *t.LastReview
		c.LastReview = &lr
	}
	return c
}

// Validate checks the structural invariants of the state.
// Every failure wraps ErrInvalidState.
func (t TrainingState) Validate() error {
	if !t.State.IsValid() {
		return fmt.Errorf("%w: unknown state %d", ErrInvalidState, int(t.State))
	}
	if t.Due.IsZero() {
		return fmt.Errorf("%w: due is not set", ErrInvalidState)
	}
	if (t.Stability == nil) != (t.Difficulty == nil) {
		return fmt.Errorf("%w: stability and difficulty must be set together", ErrInvalidState)
	}
	if t.Stability != nil {
		if s := *t.Stability; math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
			return fmt.Errorf("%w: stability must be finite and positive, got %g", ErrInvalidState, s)
		}
		if d := *t.Difficulty; math.IsNaN(d) || d < MinDifficulty || d > MaxDifficulty {
			return fmt.Errorf("%w: difficulty %g outside [%g, %g]",
				ErrInvalidState, *t.Difficulty, MinDifficulty, MaxDifficulty)
		}
		if t.LastReview == nil {
			return fmt.Errorf("%w: reviewed state has no last_review", ErrInvalidState)
		}
	}
	if t.State == StateReview && t.Stability == nil {
		return fmt.Errorf("%w: review state without memory parameters", ErrInvalidState)
	}
	if t.Step < 0 {
		return fmt.Errorf("%w: negative step", ErrInvalidState)
	}
	if t.State == StateReview && t.Step != 0 {
		return fmt.Errorf("%w: review state with step %d", ErrInvalidState, t.Step)
	}
	if t.Reps < 0 || t.Lapses < 0 {
		return fmt.Errorf("%w: negative counters", ErrInvalidState)
	}
	if t.Lapses > t.Reps {
		return fmt.Errorf("%w: lapses (%d) exceed reps (%d)", ErrInvalidState, t.Lapses, t.Reps)
	}
	return nil
}
