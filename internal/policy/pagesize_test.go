package policy

import "testing"

func TestDefaultPageSizingPolicyTransitions(t *testing.T) {
	p := NewDefaultPageSizingPolicy(20, 200, 20, 10)

	next := p.Next(20, OutcomeStable)
	if next != 40 {
		t.Fatalf("Stable from 20: expected 40, got %d", next)
	}

	next = p.Next(40, OutcomeHardFailure)
	if next != 20 {
		t.Fatalf("HardFailure from 40: expected clamp to 20, got %d", next)
	}

	next = p.Next(20, OutcomeMostlyStable)
	if next != 30 {
		t.Fatalf("MostlyStable from 20: expected 30, got %d", next)
	}
}

func TestDefaultPageSizingPolicyNeverBelowMin(t *testing.T) {
	p := NewDefaultPageSizingPolicy(20, 200, 20, 50)
	next := p.Next(30, OutcomeTransientFailure)
	if next != 20 {
		t.Fatalf("expected shrink to clamp at MinPage=20, got %d", next)
	}
}
