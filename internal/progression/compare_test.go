package progression

import (
	"testing"

	"github.com/JohnZolton/lyfter-sub000/internal/models"
)

func intPtr(v int) *int { return &v }

func set(weight int, reps *int, targetWeight, targetReps int) models.Set {
	return models.Set{Weight: weight, Reps: reps, TargetWeight: targetWeight, TargetReps: targetReps, RIR: models.DefaultRIR}
}

// TestClassifyTargetPending verifies that an unlogged set with a carried
// target shows the target rather than a verdict.
func TestClassifyTargetPending(t *testing.T) {
	s := set(100, nil, 100, 8)
	if v := Classify(s, nil); v != TargetPending {
		t.Errorf("Classify = %v, want %v", v, TargetPending)
	}

	// Explicit 0 reps with a target still counts as pending for display.
	s = set(100, intPtr(0), 100, 8)
	if v := Classify(s, nil); v != TargetPending {
		t.Errorf("Classify(0 reps) = %v, want %v", v, TargetPending)
	}
}

// TestClassifyNoData verifies the no-verdict cases: nothing logged and no
// target, or logged but nothing to compare against.
func TestClassifyNoData(t *testing.T) {
	if v := Classify(set(100, nil, 0, 0), nil); v != NoData {
		t.Errorf("unlogged, no target = %v, want %v", v, NoData)
	}
	if v := Classify(set(100, intPtr(8), 0, 0), nil); v != NoData {
		t.Errorf("logged, no target, no prior = %v, want %v", v, NoData)
	}
}

// TestClassifyMatchOrBeatTarget verifies that meeting both targets is an
// Improvement regardless of the prior set.
func TestClassifyMatchOrBeatTarget(t *testing.T) {
	worsePrior := set(200, intPtr(20), 0, 0)
	cases := []struct {
		name  string
		s     models.Set
		prior *models.Set
	}{
		{"exact match, no prior", set(100, intPtr(8), 100, 8), nil},
		{"beat weight", set(110, intPtr(8), 100, 8), nil},
		{"beat reps", set(100, intPtr(10), 100, 8), nil},
		{"prior would regress", set(100, intPtr(8), 100, 8), &worsePrior},
	}
	for _, tc := range cases {
		if v := Classify(tc.s, tc.prior); v != Improvement {
			t.Errorf("%s: Classify = %v, want %v", tc.name, v, Improvement)
		}
	}
}

// TestClassifyAgainstPrior verifies the prior-comparison rules: weight is the
// primary axis, reps break ties, equal-on-both is Maintenance.
func TestClassifyAgainstPrior(t *testing.T) {
	prior := set(100, intPtr(8), 0, 0)
	cases := []struct {
		name string
		s    models.Set
		want Verdict
	}{
		{"heavier", set(105, intPtr(5), 100, 12), Improvement},
		{"same weight, more reps", set(100, intPtr(9), 100, 12), Improvement},
		{"same weight, same reps", set(100, intPtr(8), 100, 12), Maintenance},
		{"same weight, fewer reps", set(100, intPtr(7), 100, 12), Regression},
		{"lighter", set(95, intPtr(8), 100, 12), Regression},
		// Weight dominates: dropping weight regresses even with more reps.
		{"lighter, more reps", set(90, intPtr(15), 100, 12), Regression},
	}
	for _, tc := range cases {
		if v := Classify(tc.s, &prior); v != tc.want {
			t.Errorf("%s: Classify = %v, want %v", tc.name, v, tc.want)
		}
	}
}

// TestClassifyNeverMaintenanceBelowPrior sweeps equal-weight rep counts at or
// below the prior and checks none of them read as Maintenance unless exactly
// equal.
func TestClassifyNeverMaintenanceBelowPrior(t *testing.T) {
	prior := set(100, intPtr(8), 0, 0)
	for reps := 0; reps <= 8; reps++ {
		s := set(100, intPtr(reps), 100, 12)
		v := Classify(s, &prior)
		switch {
		case reps == 0:
			// Still pending for display purposes.
			if v != TargetPending {
				t.Errorf("reps=0: Classify = %v, want %v", v, TargetPending)
			}
		case reps == 8:
			if v != Maintenance {
				t.Errorf("reps=8: Classify = %v, want %v", v, Maintenance)
			}
		default:
			if v != Regression {
				t.Errorf("reps=%d: Classify = %v, want %v", reps, v, Regression)
			}
		}
	}
}

// TestEstimateOneRM verifies the Epley estimate and its zero-reps guard.
func TestEstimateOneRM(t *testing.T) {
	if got := EstimateOneRM(100, 0); got != 0 {
		t.Errorf("EstimateOneRM(100, 0) = %v, want 0", got)
	}
	got := EstimateOneRM(100, 10)
	want := 100 * (1 + 10.0/30)
	if got != want {
		t.Errorf("EstimateOneRM(100, 10) = %v, want %v", got, want)
	}
}
