package srs

import (
	"math"
	"testing"
	"time"

	"github.com/langtools/langtools-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

func newTestScheduler(t *testing.T, mutate func(*Config)) *Scheduler {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := NewScheduler(cfg)
	require.NoError(t, err)
	return s
}

func review(t *testing.T, s *Scheduler, ts domain.TrainingState, r domain.Rating, at time.Time) domain.TrainingState {
	t.Helper()
	next, err := s.ProcessReview(ts, r, at)
	require.NoError(t, err)
	return next
}

// graduated returns a state in REVIEW reached through a single EASY rating.
func graduated(t *testing.T, s *Scheduler) domain.TrainingState {
	t.Helper()
	ts := review(t, s, s.NewTrainingData(t0), domain.RatingEasy, t0)
	require.Equal(t, domain.StateReview, ts.State)
	return ts
}

func TestNewScheduler(t *testing.T) {
	t.Parallel()

	s := NewDefaultScheduler()
	assert.Equal(t, 0.90, s.Config().DesiredRetention)
	assert.Equal(t, []time.Duration{time.Minute, 10 * time.Minute}, s.Config().LearningSteps)
	assert.Equal(t, []time.Duration{10 * time.Minute}, s.Config().RelearningSteps)
	assert.True(t, s.Config().EnableFuzz)

	_, err := NewScheduler(Config{DesiredRetention: 2})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSchedulerConfigIsIsolated(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	s, err := NewScheduler(cfg)
	require.NoError(t, err)

	cfg.LearningSteps[0] = time.Hour
	s.Config().LearningSteps[1] = time.Hour

	assert.Equal(t, []time.Duration{time.Minute, 10 * time.Minute}, s.Config().LearningSteps)
}

func TestNewTrainingData(t *testing.T) {
	t.Parallel()
	s := NewDefaultScheduler()

	ts := s.NewTrainingData(t0)
	assert.Equal(t, domain.StateLearning, ts.State)
	assert.Equal(t, t0, ts.Due)
	assert.Nil(t, ts.Stability)
	assert.Nil(t, ts.Difficulty)
	assert.Nil(t, ts.LastReview)
	assert.Zero(t, ts.Step)
}

func TestProcessReviewFirstReview(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t, func(c *Config) { c.EnableFuzz = false })

	tests := []struct {
		rating    domain.Rating
		wantState domain.CardState
		wantStep  int
		wantDue   time.Time
	}{
		{domain.RatingAgain, domain.StateLearning, 0, t0.Add(time.Minute)},
		{domain.RatingHard, domain.StateLearning, 0, t0.Add(5*time.Minute + 30*time.Second)},
		{domain.RatingGood, domain.StateLearning, 1, t0.Add(10 * time.Minute)},
		{domain.RatingEasy, domain.StateReview, 0, t0.Add(8 * day)},
	}

	for _, tc := range tests {
		t.Run(tc.rating.String(), func(t *testing.T) {
			t.Parallel()
			got := review(t, s, s.NewTrainingData(t0), tc.rating, t0)

			assert.Equal(t, tc.wantState, got.State)
			assert.Equal(t, tc.wantStep, got.Step)
			assert.Equal(t, tc.wantDue, got.Due)
			assert.Equal(t, 1, got.Reps)
			require.NotNil(t, got.LastReview)
			assert.Equal(t, t0, *got.LastReview)
			require.NotNil(t, got.Stability)
			require.NotNil(t, got.Difficulty)
			assert.NoError(t, got.Validate())
		})
	}
}

func TestProcessReviewIsDeterministic(t *testing.T) {
	t.Parallel()
	s := NewDefaultScheduler()

	ratings := []domain.Rating{
		domain.RatingGood, domain.RatingGood, domain.RatingEasy, domain.RatingHard,
		domain.RatingAgain, domain.RatingGood, domain.RatingGood, domain.RatingEasy,
	}

	run := func() []domain.TrainingState {
		ts := s.NewTrainingData(t0)
		at := t0
		var out []domain.TrainingState
		for _, r := range ratings {
			ts = review(t, s, ts, r, at)
			out = append(out, ts)
			at = ts.Due
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func TestProcessReviewCounters(t *testing.T) {
	t.Parallel()
	s := NewDefaultScheduler()

	ratings := []domain.Rating{
		domain.RatingAgain, domain.RatingAgain, domain.RatingGood, domain.RatingGood,
		domain.RatingAgain, domain.RatingHard, domain.RatingGood, domain.RatingEasy,
		domain.RatingAgain, domain.RatingGood, domain.RatingEasy, domain.RatingHard,
	}

	ts := s.NewTrainingData(t0)
	at := t0
	for i, r := range ratings {
		next := review(t, s, ts, r, at)

		assert.Equal(t, ts.Reps+1, next.Reps, "review %d", i)
		wantLapses := ts.Lapses
		if r == domain.RatingAgain {
			wantLapses++
		}
		assert.Equal(t, wantLapses, next.Lapses, "review %d", i)
		assert.LessOrEqual(t, next.Lapses, next.Reps)
		assert.True(t, next.Due.After(at), "review %d due must follow review time", i)
		if next.State == domain.StateReview {
			assert.Zero(t, next.Step)
		}
		require.NoError(t, next.Validate())

		ts = next
		at = next.Due
	}
}

func TestProcessReviewAgainFromReview(t *testing.T) {
	t.Parallel()
	s := NewDefaultScheduler()
	ts := graduated(t, s)

	for _, offset := range []time.Duration{time.Hour, day, 30 * day} {
		at := ts.Due.Add(offset)
		got := review(t, s, ts, domain.RatingAgain, at)

		assert.Equal(t, domain.StateRelearning, got.State)
		assert.Zero(t, got.Step)
		assert.True(t, got.Due.After(at))
		assert.Equal(t, at.Add(10*time.Minute), got.Due)
		assert.Less(t, *got.Stability, *ts.Stability)
		assert.Greater(t, *got.Difficulty, *ts.Difficulty)
	}
}

func TestProcessReviewRelearningGraduates(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t, func(c *Config) { c.EnableFuzz = false })
	ts := graduated(t, s)

	lapsed := review(t, s, ts, domain.RatingAgain, ts.Due)
	require.Equal(t, domain.StateRelearning, lapsed.State)

	back := review(t, s, lapsed, domain.RatingGood, lapsed.Due)
	assert.Equal(t, domain.StateReview, back.State)
	assert.Zero(t, back.Step)
	assert.Equal(t, 1, back.Lapses)
	assert.True(t, back.Due.After(lapsed.Due.Add(23*time.Hour)))
}

func TestProcessReviewSuccessfulReviewGrowsInterval(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t, func(c *Config) { c.EnableFuzz = false })
	ts := graduated(t, s)

	hard := review(t, s, ts, domain.RatingHard, ts.Due)
	good := review(t, s, ts, domain.RatingGood, ts.Due)
	easy := review(t, s, ts, domain.RatingEasy, ts.Due)

	assert.Equal(t, domain.StateReview, good.State)
	assert.Greater(t, *hard.Stability, *ts.Stability)
	assert.Greater(t, *good.Stability, *hard.Stability)
	assert.Greater(t, *easy.Stability, *good.Stability)
	assert.False(t, good.Due.Before(hard.Due))
	assert.False(t, easy.Due.Before(good.Due))
}

func TestProcessReviewEasyGraduatesWithinLearningSteps(t *testing.T) {
	t.Parallel()

	for _, steps := range [][]time.Duration{
		nil,
		{time.Minute},
		{time.Minute, 10 * time.Minute},
		{time.Minute, 5 * time.Minute, time.Hour},
	} {
		s := newTestScheduler(t, func(c *Config) { c.LearningSteps = steps })

		ts := s.NewTrainingData(t0)
		at := t0
		limit := max(len(steps), 1)
		for i := 0; i < limit && ts.State != domain.StateReview; i++ {
			ts = review(t, s, ts, domain.RatingEasy, at)
			at = ts.Due
		}
		assert.Equal(t, domain.StateReview, ts.State, "steps %v", steps)
	}
}

func TestProcessReviewGoodWalksLearningSteps(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t, func(c *Config) { c.EnableFuzz = false })

	first := review(t, s, s.NewTrainingData(t0), domain.RatingGood, t0)
	assert.Equal(t, domain.StateLearning, first.State)
	assert.Equal(t, 1, first.Step)

	second := review(t, s, first, domain.RatingGood, first.Due)
	assert.Equal(t, domain.StateReview, second.State)
	assert.Zero(t, second.Step)

	again := review(t, s, first, domain.RatingAgain, first.Due)
	assert.Equal(t, domain.StateLearning, again.State, "a learning lapse restarts the steps")
	assert.Zero(t, again.Step)
	assert.Equal(t, first.Due.Add(time.Minute), again.Due)
}

func TestProcessReviewShrunkStepsGraduate(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t, func(c *Config) { c.LearningSteps = []time.Duration{time.Minute} })

	last := time.Date(2025, 3, 31, 9, 0, 0, 0, time.UTC)
	stored := domain.TrainingState{
		Due:        t0,
		Stability:  ptr(2.0),
		Difficulty: ptr(5.0),
		State:      domain.StateLearning,
		Step:       3,
		LastReview: &last,
		Reps:       3,
	}

	got := review(t, s, stored, domain.RatingHard, t0)
	assert.Equal(t, domain.StateReview, got.State)
}

func TestProcessReviewInvalidRating(t *testing.T) {
	t.Parallel()
	s := NewDefaultScheduler()
	ts := graduated(t, s)
	before := ts.Clone()

	for _, r := range []domain.Rating{0, 5, -1, 42} {
		got, err := s.ProcessReview(ts, r, t0.Add(day))
		assert.ErrorIs(t, err, domain.ErrInvalidRating)
		assert.Equal(t, domain.TrainingState{}, got)
		assert.Equal(t, before, ts, "input must be unchanged")
	}
}

func TestProcessReviewDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	s := NewDefaultScheduler()
	ts := graduated(t, s)
	before := ts.Clone()

	_ = review(t, s, ts, domain.RatingAgain, ts.Due)
	_ = review(t, s, ts, domain.RatingEasy, ts.Due)

	assert.Equal(t, before, ts)
}

func TestProcessReviewInvalidState(t *testing.T) {
	t.Parallel()
	s := NewDefaultScheduler()

	tests := []struct {
		name  string
		state domain.TrainingState
	}{
		{"stability without difficulty", domain.TrainingState{
			Due: t0, State: domain.StateReview, Stability: ptr(3.0), LastReview: &t0, Reps: 1,
		}},
		{"lapses exceed reps", domain.TrainingState{Due: t0, State: domain.StateLearning, Lapses: 2, Reps: 1}},
		{"unknown state", domain.TrainingState{Due: t0, State: 9}},
		{"NaN stability", domain.TrainingState{
			Due: t0, State: domain.StateReview, Stability: ptr(math.NaN()), Difficulty: ptr(5.0), LastReview: &t0, Reps: 1,
		}},
		{"infinite stability", domain.TrainingState{
			Due: t0, State: domain.StateReview, Stability: ptr(math.Inf(1)), Difficulty: ptr(5.0), LastReview: &t0, Reps: 1,
		}},
		{"NaN difficulty", domain.TrainingState{
			Due: t0, State: domain.StateReview, Stability: ptr(3.0), Difficulty: ptr(math.NaN()), LastReview: &t0, Reps: 1,
		}},
		{"review state with step", domain.TrainingState{
			Due: t0, State: domain.StateReview, Stability: ptr(3.0), Difficulty: ptr(5.0), LastReview: &t0, Reps: 1, Step: 1,
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := s.ProcessReview(tc.state, domain.RatingGood, t0)
			assert.ErrorIs(t, err, domain.ErrInvalidState)
		})
	}
}

func TestProcessReviewWorkedExample(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t, func(c *Config) { c.LearningSteps = []time.Duration{10 * time.Minute} })

	ts := s.NewTrainingData(t0)
	assert.Equal(t, t0, ts.Due)

	ts = review(t, s, ts, domain.RatingGood, t0)
	assert.Equal(t, 1, ts.Reps)
	assert.Contains(t, []domain.CardState{domain.StateLearning, domain.StateReview}, ts.State)
	assert.True(t, ts.Due.After(t0))

	at := t0.Add(day)
	ts = review(t, s, ts, domain.RatingAgain, at)
	assert.Equal(t, 1, ts.Lapses)
	assert.Equal(t, domain.StateRelearning, ts.State)
	assert.Zero(t, ts.Step)
	assert.True(t, ts.Due.After(at))
	assert.False(t, ts.Due.After(at.Add(10*time.Minute)))
}

func TestProcessReviewFuzzBounds(t *testing.T) {
	t.Parallel()
	fuzzed := NewDefaultScheduler()
	plain := newTestScheduler(t, func(c *Config) { c.EnableFuzz = false })
	ts := graduated(t, plain)

	for i := 0; i < 100; i++ {
		at := ts.Due.Add(time.Duration(i) * 37 * time.Minute)

		want := review(t, plain, ts, domain.RatingGood, at)
		got := review(t, fuzzed, ts, domain.RatingGood, at)

		ivl := int(want.Due.Sub(at) / day)
		lo, hi := fuzzed.Policy().FuzzRange(ivl)

		assert.False(t, got.Due.Before(at))
		assert.False(t, got.Due.Before(at.Add(time.Duration(lo)*day)))
		assert.False(t, got.Due.After(at.Add(time.Duration(hi)*day)))
		assert.Equal(t, *want.Stability, *got.Stability, "fuzz only moves the due date")
	}
}

func TestPreviewReview(t *testing.T) {
	t.Parallel()
	s := NewDefaultScheduler()
	ts := graduated(t, s)
	at := ts.Due

	preview, err := s.PreviewReview(ts, at)
	require.NoError(t, err)
	require.Len(t, preview, 4)

	for _, r := range domain.Ratings {
		direct := review(t, s, ts, r, at)
		assert.Equal(t, direct, preview[r], "preview for %s", r)
	}
	assert.Equal(t, domain.StateRelearning, preview[domain.RatingAgain].State)
}

func TestSchedulerRetrievability(t *testing.T) {
	t.Parallel()
	s := NewDefaultScheduler()

	_, err := s.Retrievability(s.NewTrainingData(t0), t0)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	ts := graduated(t, s)
	now, err := s.Retrievability(ts, *ts.LastReview)
	require.NoError(t, err)
	later, err := s.Retrievability(ts, ts.LastReview.Add(30*day))
	require.NoError(t, err)

	assert.InDelta(t, 1.0, now, 1e-12)
	assert.Less(t, later, now)
}

func ptr[T any](v T) *T { return &v }
