// Package policy implements the three pluggable policies the saga consults:
// retry timing, circuit breaking, and adaptive page sizing (§4.2-§4.4). All
// three are pure functions of their inputs; none of them suspends or reads
// ambient state, matching the domain layer's I/O-free discipline.
package policy

import (
	"blesync/internal/domain"
)

// RetryDecision is the result of a RetryPolicy.Decide call: either Schedule
// a retry at a future timestamp, or GiveUp.
type RetryDecision struct {
	ShouldSchedule bool
	At             domain.TimestampMs
}

func Schedule(at domain.TimestampMs) RetryDecision {
	return RetryDecision{ShouldSchedule: true, At: at}
}

func GiveUp() RetryDecision {
	return RetryDecision{ShouldSchedule: false}
}

// RetryPolicy decides whether and when to retry an operation family.
type RetryPolicy interface {
	Decide(now domain.TimestampMs, attemptsForOp int, reason domain.RetryReason) RetryDecision
}

// Sampler draws a uniform float64 in [lo, hi). Tests inject a fixed sampler
// so retry delays are deterministic (§9: "Deterministic randomness").
type Sampler interface {
	Uniform(lo, hi float64) float64
}

// FixedSampler always returns the same value, used by tests to make jitter
// deterministic (jitterRatio = 0 has the same effect, but a FixedSampler
// also lets tests exercise a nonzero jitterRatio deterministically).
type FixedSampler struct {
	Value float64
}

func (s FixedSampler) Uniform(lo, hi float64) float64 {
	if s.Value < lo {
		return lo
	}
	if s.Value > hi {
		return hi
	}
	return s.Value
}

// ExponentialRetryPolicy implements the default retry policy (§4.2):
// exponential backoff with multiplicative jitter, bounded and capped at
// MaxAttempts.
type ExponentialRetryPolicy struct {
	MaxAttempts  int
	MinBackoffMs int64
	MaxBackoffMs int64
	JitterRatio  float64
	Random       Sampler
}

// NewExponentialRetryPolicy returns a policy with the given bounds that draws
// its jitter factor from random. A nil random is replaced by
// FixedSampler{Value: 1}, which applies no jitter.
func NewExponentialRetryPolicy(maxAttempts int, minBackoffMs, maxBackoffMs int64, jitterRatio float64, random Sampler) ExponentialRetryPolicy {
	if random == nil {
		random = FixedSampler{Value: 1}
	}
	return ExponentialRetryPolicy{
		MaxAttempts:  maxAttempts,
		MinBackoffMs: minBackoffMs,
		MaxBackoffMs: maxBackoffMs,
		JitterRatio:  jitterRatio,
		Random:       random,
	}
}

func (p ExponentialRetryPolicy) Decide(now domain.TimestampMs, attemptsForOp int, _ domain.RetryReason) RetryDecision {
	if attemptsForOp >= p.MaxAttempts {
		return GiveUp()
	}

	nextIndex := attemptsForOp + 1 // 1-based
	raw := float64(p.MinBackoffMs)
	for i := 1; i < nextIndex; i++ {
		raw *= 2
	}
	raw = clampF(raw, float64(p.MinBackoffMs), float64(p.MaxBackoffMs))

	lo := 1 - p.JitterRatio
	if lo < 0 {
		lo = 0
	}
	hi := 1 + p.JitterRatio
	factor := p.Random.Uniform(lo, hi)

	delay := clampF(raw*factor, float64(p.MinBackoffMs), float64(p.MaxBackoffMs))
	return Schedule(now + domain.TimestampMs(delay))
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
