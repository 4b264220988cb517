package srs

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	"github.com/langtools/langtools-api/internal/domain"
)

const day = 24 * time.Hour

// Policy turns memory-model output into concrete delays.
type Policy struct {
	cfg   Config
	model *MemoryModel
}

// NewPolicy builds a policy over an already validated configuration.
func NewPolicy(cfg Config, model *MemoryModel) *Policy {
	return &Policy{cfg: cfg, model: model}
}

// Interval returns the whole number of days until retrievability reaches the
// desired retention, within [1, MaximumInterval].
func (p *Policy) Interval(stability float64) int {
	return p.clampDays(p.model.IntervalDays(stability, p.cfg.DesiredRetention), 1)
}

// clampDays rounds days into [lo, MaximumInterval]. Clamping happens before
// the int conversion so huge or non-finite inputs cannot overflow.
func (p *Policy) clampDays(days float64, lo int) int {
	if math.IsNaN(days) {
		return lo
	}
	return int(math.Min(math.Max(math.Round(days), float64(lo)), float64(p.cfg.MaximumInterval)))
}

func (p *Policy) steps(state domain.CardState) []time.Duration {
	if state == domain.StateRelearning {
		return p.cfg.RelearningSteps
	}
	return p.cfg.LearningSteps
}

// hardDelay repeats the current step. On the first step it waits a bit
// longer than the step itself.
func hardDelay(steps []time.Duration, step int) time.Duration {
	if step == 0 {
		if len(steps) == 1 {
			return steps[0] * 3 / 2
		}
		return (steps[0] + steps[1]) / 2
	}
	return steps[step]
}

// FuzzRange returns the inclusive bounds, in days, that a fuzzed interval
// may take. Intervals under 2.5 days are never fuzzed.
func (p *Policy) FuzzRange(interval int) (lo, hi int) {
	if float64(interval) < 2.5 {
		return interval, interval
	}
	ivl := float64(interval)
	delta := fuzzDelta(ivl)
	hi = p.clampDays(ivl+delta, 2)
	lo = min(p.clampDays(ivl-delta, 2), hi)
	return lo, hi
}

var fuzzBands = []struct {
	start, end, factor float64
}{
	{2.5, 7, 0.15},
	{7, 20, 0.10},
	{20, math.Inf(1), 0.05},
}

func fuzzDelta(ivl float64) float64 {
	delta := 1.0
	for _, b := range fuzzBands {
		delta += b.factor * math.Max(math.Min(ivl, b.end)-b.start, 0)
	}
	return delta
}

// fuzz picks an interval from FuzzRange using a generator seeded from the
// review itself, so the same review always lands on the same day.
func (p *Policy) fuzz(interval int, seed uint64) int {
	lo, hi := p.FuzzRange(interval)
	if lo == hi {
		return lo
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return lo + rng.IntN(hi-lo+1)
}

func fuzzSeed(reviewTime time.Time, reps int, stability float64) uint64 {
	h := fnv.New64a()
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(reviewTime.UnixNano()))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(reps))
	binary.LittleEndian.PutUint64(buf[16:24], math.Float64bits(stability))
	_, _ = h.Write(buf[:])
	return h.Sum64()
}
