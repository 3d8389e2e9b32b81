package policy

import "math/rand"

// RandomSampler draws jitter from the process-global math/rand source. It is
// the production counterpart of FixedSampler, which tests use instead for
// deterministic delays.
type RandomSampler struct{}

func (RandomSampler) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rand.Float64()*(hi-lo)
}
