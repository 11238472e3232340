package progression

import "github.com/JohnZolton/lyfter-sub000/internal/models"

// TakeDeload truncates an exercise's sets for this cycle: every set numbered
// after referenceSetNumber is dropped. Invoked when the lifter confirms they
// are still sore at a given point in the workout. Returns the kept sets and
// the dropped ones (the caller owes the dropped sets a persistence delete).
func TakeDeload(sets []models.Set, referenceSetNumber int) (kept, dropped []models.Set) {
	for i := range sets {
		s := sets[i].Clone()
		if s.SetNumber <= referenceSetNumber {
			kept = append(kept, s)
		} else {
			dropped = append(dropped, s)
		}
	}
	return kept, dropped
}
