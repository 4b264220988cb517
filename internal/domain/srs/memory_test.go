package srs

import (
	"testing"

	"github.com/langtools/langtools-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRetrievability(t *testing.T) {
	t.Parallel()
	m := NewMemoryModel(DefaultWeights)

	assert.InDelta(t, 1.0, m.Retrievability(0, 5), 1e-12)
	assert.InDelta(t, 0.9, m.Retrievability(5, 5), 1e-9, "R(S, S) is the reference threshold")
	assert.InDelta(t, 1.0, m.Retrievability(-3, 5), 1e-12, "negative elapsed time is clamped")

	prev := 1.0
	for _, days := range []float64{0.5, 1, 2, 7, 30, 365} {
		r := m.Retrievability(days, 5)
		assert.Less(t, r, prev, "retrievability must strictly decrease (t=%v)", days)
		assert.Greater(t, r, 0.0)
		prev = r
	}
}

func TestInitialParameters(t *testing.T) {
	t.Parallel()
	m := NewMemoryModel(DefaultWeights)

	assert.Equal(t, 0.212, m.InitialStability(domain.RatingAgain))
	assert.Equal(t, 8.2956, m.InitialStability(domain.RatingEasy))

	again := m.InitialDifficulty(domain.RatingAgain)
	hard := m.InitialDifficulty(domain.RatingHard)
	good := m.InitialDifficulty(domain.RatingGood)
	easy := m.InitialDifficulty(domain.RatingEasy)

	assert.InDelta(t, 6.4133, again, 1e-9)
	assert.Greater(t, again, hard)
	assert.Greater(t, hard, good)
	assert.GreaterOrEqual(t, good, easy)
	assert.Equal(t, domain.MinDifficulty, easy, "easy seed clamps to the lower bound")
}

func TestUpdateStabilityOrdering(t *testing.T) {
	t.Parallel()
	m := NewMemoryModel(DefaultWeights)

	const s, d, r = 5.0, 5.0, 0.9

	again := m.UpdateStability(s, d, r, domain.RatingAgain)
	hard := m.UpdateStability(s, d, r, domain.RatingHard)
	good := m.UpdateStability(s, d, r, domain.RatingGood)
	easy := m.UpdateStability(s, d, r, domain.RatingEasy)

	assert.Less(t, again, s)
	assert.Greater(t, again, 0.0)
	assert.Greater(t, hard, s)
	assert.Greater(t, good, hard)
	assert.Greater(t, easy, good)
}

func TestUpdateStabilityDiminishingReturns(t *testing.T) {
	t.Parallel()
	m := NewMemoryModel(DefaultWeights)

	easier := m.UpdateStability(5, 3, 0.9, domain.RatingGood)
	harder := m.UpdateStability(5, 8, 0.9, domain.RatingGood)
	assert.Greater(t, easier, harder, "growth shrinks as difficulty rises")

	smallGain := m.UpdateStability(50, 5, 0.9, domain.RatingGood) / 50
	largeGain := m.UpdateStability(5, 5, 0.9, domain.RatingGood) / 5
	assert.Greater(t, largeGain, smallGain, "relative growth shrinks as stability rises")
}

func TestUpdateStabilityFloor(t *testing.T) {
	t.Parallel()
	m := NewMemoryModel(DefaultWeights)

	assert.Equal(t, minStability, m.UpdateStability(minStability, 10, 0.1, domain.RatingAgain))
	assert.Equal(t, minStability, m.ShortTermStability(minStability/2, domain.RatingAgain))
}

func TestShortTermStability(t *testing.T) {
	t.Parallel()
	m := NewMemoryModel(DefaultWeights)

	for _, s := range []float64{0.5, 2.3, 10, 80} {
		assert.Less(t, m.ShortTermStability(s, domain.RatingAgain), s)
		hard := m.ShortTermStability(s, domain.RatingHard)
		good := m.ShortTermStability(s, domain.RatingGood)
		easy := m.ShortTermStability(s, domain.RatingEasy)
		assert.Greater(t, hard, s, "S=%v", s)
		assert.Greater(t, good, hard, "S=%v", s)
		assert.Greater(t, easy, good, "S=%v", s)
	}
}

func TestShortTermStabilityOrderingAtHighStability(t *testing.T) {
	t.Parallel()
	m := NewMemoryModel(DefaultWeights)

	// At large S the raw multiplier falls below every floor.
	for _, s := range []float64{1e4, 1e5} {
		hard := m.ShortTermStability(s, domain.RatingHard)
		good := m.ShortTermStability(s, domain.RatingGood)
		easy := m.ShortTermStability(s, domain.RatingEasy)
		assert.InDelta(t, s*(1+shortTermFloorStep), hard, 1e-9*s)
		assert.InDelta(t, s*(1+2*shortTermFloorStep), good, 1e-9*s)
		assert.InDelta(t, s*(1+3*shortTermFloorStep), easy, 1e-9*s)
	}
}

func TestUpdateDifficulty(t *testing.T) {
	t.Parallel()
	m := NewMemoryModel(DefaultWeights)

	tests := []struct {
		name   string
		start  float64
		rating domain.Rating
		check  func(t *testing.T, got float64)
	}{
		{"again raises", 5, domain.RatingAgain, func(t *testing.T, got float64) { assert.Greater(t, got, 5.0) }},
		{"hard raises less than again", 5, domain.RatingHard, func(t *testing.T, got float64) {
			assert.Greater(t, got, 5.0)
			assert.Less(t, got, m.UpdateDifficulty(5, domain.RatingAgain))
		}},
		{"good is roughly unchanged", 5, domain.RatingGood, func(t *testing.T, got float64) { assert.InDelta(t, 5.0, got, 0.02) }},
		{"easy lowers", 5, domain.RatingEasy, func(t *testing.T, got float64) { assert.Less(t, got, 5.0) }},
		{"clamped at top", 10, domain.RatingAgain, func(t *testing.T, got float64) { assert.LessOrEqual(t, got, 10.0) }},
		{"clamped at bottom", 1, domain.RatingEasy, func(t *testing.T, got float64) { assert.Equal(t, 1.0, got) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tc.check(t, m.UpdateDifficulty(tc.start, tc.rating))
		})
	}
}
