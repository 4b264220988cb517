package srs

import (
	"math"

	"github.com/langtools/langtools-api/internal/domain"
)

const minStability = 0.001

// MemoryModel estimates recall probability and derives new memory
// parameters from a review. It holds no state beyond its weights and the
// constants derived from them.
type MemoryModel struct {
	w      Weights
	decay  float64
	factor float64
}

// NewMemoryModel precomputes the forgetting-curve constants for w.
// factor is chosen so that R(S, S) == 0.9.
func NewMemoryModel(w Weights) *MemoryModel {
	decay := -w[20]
	return &MemoryModel{
		w:      w,
		decay:  decay,
		factor: math.Pow(0.9, 1/decay) - 1,
	}
}

// Retrievability returns R(t, S) = (1 + factor*t/S)^decay for elapsed days t.
// It is strictly decreasing in t.
func (m *MemoryModel) Retrievability(elapsedDays, stability float64) float64 {
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	return math.Pow(1+m.factor*elapsedDays/stability, m.decay)
}

// IntervalDays returns the unrounded number of days after which
// retrievability falls to retention.
func (m *MemoryModel) IntervalDays(stability, retention float64) float64 {
	return stability / m.factor * (math.Pow(retention, 1/m.decay) - 1)
}

// InitialStability seeds stability from the first rating.
func (m *MemoryModel) InitialStability(rating domain.Rating) float64 {
	return math.Max(m.w[rating-1], minStability)
}

// InitialDifficulty seeds difficulty from the first rating.
func (m *MemoryModel) InitialDifficulty(rating domain.Rating) float64 {
	return clampDifficulty(m.rawInitialDifficulty(rating))
}

func (m *MemoryModel) rawInitialDifficulty(rating domain.Rating) float64 {
	return m.w[4] - math.Exp(m.w[5]*float64(rating-1)) + 1
}

// UpdateDifficulty moves difficulty up on AGAIN and down on EASY, damped
// toward the bounds and pulled slightly back toward the EASY baseline.
func (m *MemoryModel) UpdateDifficulty(difficulty float64, rating domain.Rating) float64 {
	delta := -m.w[6] * (float64(rating) - 3)
	damped := difficulty + (domain.MaxDifficulty-difficulty)*delta/9
	reverted := m.w[7]*m.rawInitialDifficulty(domain.RatingEasy) + (1-m.w[7])*damped
	return clampDifficulty(reverted)
}

// UpdateStability returns stability after a review on a later day, given the
// retrievability r at review time.
func (m *MemoryModel) UpdateStability(stability, difficulty, r float64, rating domain.Rating) float64 {
	if rating == domain.RatingAgain {
		return m.forgetStability(stability, difficulty, r)
	}
	return m.recallStability(stability, difficulty, r, rating)
}

// shortTermFloorStep spaces the minimum same-day multipliers of HARD, GOOD
// and EASY so their ordering survives when the raw multiplier saturates.
const shortTermFloorStep = 0.05

// ShortTermStability handles reviews less than a day after the previous one.
// A successful recall strictly raises stability, and EASY > GOOD > HARD.
func (m *MemoryModel) ShortTermStability(stability float64, rating domain.Rating) float64 {
	inc := math.Exp(m.w[17]*(float64(rating)-3+m.w[18])) * math.Pow(stability, -m.w[19])
	if rating != domain.RatingAgain {
		inc = math.Max(inc, 1+shortTermFloorStep*float64(rating-domain.RatingAgain))
	}
	return math.Max(stability*inc, minStability)
}

func (m *MemoryModel) recallStability(s, d, r float64, rating domain.Rating) float64 {
	hardPenalty, easyBonus := 1.0, 1.0
	switch rating {
	case domain.RatingHard:
		hardPenalty = m.w[15]
	case domain.RatingEasy:
		easyBonus = m.w[16]
	}
	growth := math.Exp(m.w[8]) *
		(11 - d) *
		math.Pow(s, -m.w[9]) *
		(math.Exp((1-r)*m.w[10]) - 1) *
		hardPenalty * easyBonus
	return s * (1 + growth)
}

// forgetStability takes the smaller of the long-term post-lapse estimate and
// a plain shrink of the current value, so a lapse always lowers stability.
func (m *MemoryModel) forgetStability(s, d, r float64) float64 {
	long := m.w[11] *
		math.Pow(d, -m.w[12]) *
		(math.Pow(s+1, m.w[13]) - 1) *
		math.Exp((1-r)*m.w[14])
	short := s / math.Exp(m.w[17]*m.w[18])
	return math.Max(math.Min(long, short), minStability)
}

func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, domain.MinDifficulty), domain.MaxDifficulty)
}
