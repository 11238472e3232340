// Package progression holds the match-or-beat decision rules: classifying a
// logged set against its target and prior-cycle counterpart, cascading an
// edited weight onto upcoming sets, and truncating sets for a deload.
package progression

import "github.com/JohnZolton/lyfter-sub000/internal/models"

// Verdict is the outcome of comparing a set against its target and its
// prior-cycle counterpart.
type Verdict string

const (
	// Improvement: the set met or beat both targets, or beat the prior set.
	Improvement Verdict = "improvement"
	// Maintenance: weight and reps exactly match the prior set.
	Maintenance Verdict = "maintenance"
	// Regression: lighter than the prior set, or same weight for fewer reps.
	Regression Verdict = "regression"
	// TargetPending: reps not logged yet but a target exists to display.
	TargetPending Verdict = "target_pending"
	// NoData: nothing to compare against.
	NoData Verdict = "no_data"
)

// Classify grades current against its target and, failing that, against the
// prior-cycle set. Rules are evaluated in order:
//
//  1. reps not logged, target known  -> TargetPending
//  2. reps not logged, no target     -> NoData
//  3. weight and reps both meet the target -> Improvement (prior ignored)
//  4. no prior set                   -> NoData
//  5. compare against prior: weight is the primary axis, reps break ties.
//
// A heavier-but-fewer-reps set regresses under rule 5: dropping weight is a
// regression no matter how many reps came back.
func Classify(current models.Set, prior *models.Set) Verdict {
	hasTarget := current.TargetReps > 0

	if current.Pending() {
		if hasTarget {
			return TargetPending
		}
		return NoData
	}

	reps := current.RepsDone()

	if hasTarget && current.Weight >= current.TargetWeight && reps >= current.TargetReps {
		return Improvement
	}

	if prior == nil {
		return NoData
	}

	switch {
	case current.Weight > prior.Weight:
		return Improvement
	case current.Weight < prior.Weight:
		return Regression
	case reps > prior.RepsDone():
		return Improvement
	case reps == prior.RepsDone():
		return Maintenance
	default:
		return Regression
	}
}
