package policy

import (
	"testing"

	"blesync/internal/domain"
)

var testReason = domain.RetryReason{Kind: domain.RetryBackoffAfterFailure}

func TestExponentialRetryPolicyDecide(t *testing.T) {
	p := NewExponentialRetryPolicy(3, 100, 10_000, 0, FixedSampler{Value: 1})

	d := p.Decide(0, 0, testReason)
	if !d.ShouldSchedule || d.At != 100 {
		t.Fatalf("attempt 0: expected Schedule(100), got %+v", d)
	}

	d = p.Decide(0, 1, testReason)
	if !d.ShouldSchedule || d.At != 200 {
		t.Fatalf("attempt 1: expected Schedule(200), got %+v", d)
	}

	d = p.Decide(0, 3, testReason)
	if d.ShouldSchedule {
		t.Fatalf("attempt 3 with cap 3: expected GiveUp, got %+v", d)
	}
}

func TestExponentialRetryPolicyClampsToMax(t *testing.T) {
	p := NewExponentialRetryPolicy(10, 100, 500, 0, FixedSampler{Value: 1})
	d := p.Decide(0, 5, testReason)
	if !d.ShouldSchedule || d.At != 500 {
		t.Fatalf("expected the raw backoff clamped to MaxBackoffMs=500, got %+v", d)
	}
}
