package session

import (
	"reflect"
	"testing"

	"github.com/JohnZolton/lyfter-sub000/internal/models"
)

// TestPhaseProgression walks one exercise through the whole lifecycle.
func TestPhaseProgression(t *testing.T) {
	s, w := loadedStore(t)
	ex := w.Exercises[0]

	phase := func() Phase {
		t.Helper()
		snap := s.Snapshot()
		return PhaseOf(&snap.Exercises[0])
	}

	if got := phase(); got != PhaseNotStarted {
		t.Errorf("initial phase = %v, want %v", got, PhaseNotStarted)
	}

	// First weight edit starts the exercise.
	edited := ex.Sets[0]
	edited.Weight = 105
	s.UpdateSet(ex.ID, edited)
	if got := phase(); got != PhaseStarted {
		t.Errorf("after first edit = %v, want %v", got, PhaseStarted)
	}

	s.ApplySoreness(ex.ID, models.SorenessHealedOnTime)
	if got := phase(); got != PhaseSorenessLogged {
		t.Errorf("after soreness = %v, want %v", got, PhaseSorenessLogged)
	}

	// Log sets one by one: in progress until all recorded.
	for i, set := range ex.Sets {
		set.Weight = 105
		set.Reps = intPtr(8)
		s.UpdateSet(ex.ID, set)
		want := PhaseInProgress
		if i == len(ex.Sets)-1 {
			want = PhaseCompleted
		}
		if got := phase(); got != want {
			t.Errorf("after logging set %d = %v, want %v", i+1, got, want)
		}
	}

	if _, saved := s.SaveFeedback(ex.ID, models.PumpHigh, models.EffortMedium); !saved {
		t.Fatal("SaveFeedback on completed exercise not saved")
	}
	if got := phase(); got != PhaseFeedbackSaved {
		t.Errorf("after feedback = %v, want %v", got, PhaseFeedbackSaved)
	}
}

// TestPhaseZeroRepsCountsAsRecorded verifies an explicit 0 completes the
// exercise (a logged failure is still logged).
func TestPhaseZeroRepsCountsAsRecorded(t *testing.T) {
	s, w := loadedStore(t)
	ex := w.Exercises[0]
	for _, set := range ex.Sets {
		set.Reps = intPtr(0)
		s.UpdateSet(ex.ID, set)
	}
	snap := s.Snapshot()
	if got := PhaseOf(&snap.Exercises[0]); got != PhaseCompleted {
		t.Errorf("phase with all-zero reps = %v, want %v", got, PhaseCompleted)
	}
}

// TestSorenessAWhileAgoAppendsSet verifies early recovery appends one set
// cloned from the last set, reps unset.
func TestSorenessAWhileAgoAppendsSet(t *testing.T) {
	s, w := loadedStore(t)
	ex := w.Exercises[0]

	snap, effect := s.ApplySoreness(ex.ID, models.SorenessHealedAWhileAgo)
	if effect == nil || effect.AddedSet == nil {
		t.Fatal("no added set reported")
	}
	sets := snap.Exercises[0].Sets
	if len(sets) != 4 {
		t.Fatalf("sets = %d, want 4", len(sets))
	}
	added := sets[3]
	if added.SetNumber != 4 {
		t.Errorf("added setNumber = %d, want 4", added.SetNumber)
	}
	if added.Weight != 100 || added.RIR != models.DefaultRIR {
		t.Errorf("added set = %dkg rir %d, want clone of last (100, %d)", added.Weight, added.RIR, models.DefaultRIR)
	}
	if added.TargetWeight != 100 {
		t.Errorf("added targetWeight = %d, want 100", added.TargetWeight)
	}
	if added.Reps != nil {
		t.Error("added set should have reps unset")
	}
}

// TestSorenessAWhileAgoFallsBackToWeight verifies the appended set's target
// falls back to the last set's weight when it carries no target.
func TestSorenessAWhileAgoFallsBackToWeight(t *testing.T) {
	s := NewStore()
	w := testWorkout()
	for i := range w.Exercises[0].Sets {
		w.Exercises[0].Sets[i].TargetWeight = 0
		w.Exercises[0].Sets[i].TargetReps = 0
	}
	s.SetWorkout(w)

	snap, _ := s.ApplySoreness(w.Exercises[0].ID, models.SorenessHealedAWhileAgo)
	added := snap.Exercises[0].Sets[3]
	if added.TargetWeight != 100 {
		t.Errorf("added targetWeight = %d, want fallback to last weight 100", added.TargetWeight)
	}
}

// TestSorenessStillSoreRemovesLastSet verifies lagging recovery removes the
// last set.
func TestSorenessStillSoreRemovesLastSet(t *testing.T) {
	s, w := loadedStore(t)
	ex := w.Exercises[0]

	snap, effect := s.ApplySoreness(ex.ID, models.SorenessStillSore)
	if effect == nil || effect.RemovedSet == nil {
		t.Fatal("no removed set reported")
	}
	if effect.RemovedSet.SetNumber != 3 {
		t.Errorf("removed setNumber = %d, want 3", effect.RemovedSet.SetNumber)
	}
	if got := len(snap.Exercises[0].Sets); got != 2 {
		t.Errorf("sets = %d, want 2", got)
	}
}

// TestSorenessOnTimeNoAdjustment verifies the middle answer records the
// survey without touching volume.
func TestSorenessOnTimeNoAdjustment(t *testing.T) {
	s, w := loadedStore(t)
	snap, effect := s.ApplySoreness(w.Exercises[0].ID, models.SorenessHealedOnTime)
	if effect == nil {
		t.Fatal("no effect reported")
	}
	if effect.AddedSet != nil || effect.RemovedSet != nil {
		t.Error("on-time answer adjusted volume")
	}
	if got := len(snap.Exercises[0].Sets); got != 3 {
		t.Errorf("sets = %d, want 3", got)
	}
}

// TestSorenessResubmissionIgnored verifies the idempotency guard: a second
// answer, same or different, is a no-op.
func TestSorenessResubmissionIgnored(t *testing.T) {
	s, w := loadedStore(t)
	exID := w.Exercises[0].ID

	s.ApplySoreness(exID, models.SorenessHealedAWhileAgo)
	before := s.Snapshot()

	_, effect := s.ApplySoreness(exID, models.SorenessHealedAWhileAgo)
	if effect != nil {
		t.Error("resubmission reported an effect")
	}
	_, effect = s.ApplySoreness(exID, models.SorenessStillSore)
	if effect != nil {
		t.Error("changed answer reported an effect")
	}

	after := s.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Error("resubmission mutated the workout")
	}
	if got := len(after.Exercises[0].Sets); got != 4 {
		t.Errorf("sets = %d, want 4 (no double append, no late removal)", got)
	}
}

// TestSorenessInvalidAnswer verifies junk answers are ignored.
func TestSorenessInvalidAnswer(t *testing.T) {
	s, w := loadedStore(t)
	before := s.Snapshot()
	_, effect := s.ApplySoreness(w.Exercises[0].ID, models.Soreness("shrug"))
	if effect != nil {
		t.Error("invalid answer reported an effect")
	}
	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Error("invalid answer mutated the workout")
	}
}

// TestSaveFeedbackGating verifies feedback needs a completed exercise and
// both ratings.
func TestSaveFeedbackGating(t *testing.T) {
	s, w := loadedStore(t)
	ex := w.Exercises[0]

	// Not completed yet.
	if _, saved := s.SaveFeedback(ex.ID, models.PumpHigh, models.EffortHard); saved {
		t.Error("feedback saved on incomplete exercise")
	}

	for _, set := range ex.Sets {
		set.Reps = intPtr(8)
		s.UpdateSet(ex.ID, set)
	}

	// Invalid ratings.
	if _, saved := s.SaveFeedback(ex.ID, models.Pump("huge"), models.EffortHard); saved {
		t.Error("feedback saved with invalid pump")
	}
	if _, saved := s.SaveFeedback(ex.ID, models.PumpHigh, models.Effort("brutal")); saved {
		t.Error("feedback saved with invalid effort")
	}

	snap, saved := s.SaveFeedback(ex.ID, models.PumpMedium, models.EffortHard)
	if !saved {
		t.Fatal("feedback not saved on completed exercise")
	}
	got := snap.Exercises[0]
	if got.Pump != models.PumpMedium || got.Effort != models.EffortHard || !got.FeedbackRecorded {
		t.Errorf("exercise feedback = %+v, want medium/hard recorded", got)
	}

	// Terminal: a second save is refused.
	if _, saved := s.SaveFeedback(ex.ID, models.PumpLow, models.EffortEasy); saved {
		t.Error("feedback saved twice")
	}
}

// TestSorenessAfterFeedbackIgnored verifies the survey gate closes once the
// exercise is terminal.
func TestSorenessAfterFeedbackIgnored(t *testing.T) {
	s, w := loadedStore(t)
	ex := w.Exercises[0]
	for _, set := range ex.Sets {
		set.Reps = intPtr(8)
		s.UpdateSet(ex.ID, set)
	}
	s.SaveFeedback(ex.ID, models.PumpLow, models.EffortEasy)

	before := s.Snapshot()
	_, effect := s.ApplySoreness(ex.ID, models.SorenessStillSore)
	if effect != nil {
		t.Error("soreness accepted after feedback saved")
	}
	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Error("late soreness mutated the workout")
	}
}
