package session

import (
	"github.com/JohnZolton/lyfter-sub000/internal/models"
	"github.com/google/uuid"
)

// Phase is where an exercise sits in its per-session lifecycle. The surveys
// are optional gates: an exercise is fully usable without ever answering
// them, the phase just reports what the UI should offer next.
type Phase string

const (
	// PhaseNotStarted: no set touched yet.
	PhaseNotStarted Phase = "not_started"
	// PhaseStarted: a set was edited, soreness survey not answered.
	PhaseStarted Phase = "started"
	// PhaseSorenessLogged: soreness answered, no reps recorded yet.
	PhaseSorenessLogged Phase = "soreness_logged"
	// PhaseInProgress: some, not all, sets have recorded reps.
	PhaseInProgress Phase = "in_progress"
	// PhaseCompleted: every set has recorded reps (an explicit 0 counts),
	// pump/effort survey not saved.
	PhaseCompleted Phase = "completed"
	// PhaseFeedbackSaved: pump and effort recorded. Terminal.
	PhaseFeedbackSaved Phase = "feedback_saved"
)

// PhaseOf derives the lifecycle phase from the exercise snapshot. The
// InProgress and Completed transitions are automatic: they are recomputed
// from the set collection rather than stored.
func PhaseOf(ex *models.Exercise) Phase {
	if ex.FeedbackRecorded {
		return PhaseFeedbackSaved
	}

	recorded := 0
	for i := range ex.Sets {
		if ex.Sets[i].Recorded() {
			recorded++
		}
	}

	switch {
	case len(ex.Sets) > 0 && recorded == len(ex.Sets):
		return PhaseCompleted
	case recorded > 0:
		return PhaseInProgress
	case ex.Soreness != "":
		return PhaseSorenessLogged
	case ex.Touched:
		return PhaseStarted
	default:
		return PhaseNotStarted
	}
}

// SorenessEffect reports the structural side effect of a soreness answer so
// the caller can mirror it to persistence.
type SorenessEffect struct {
	Answer     models.Soreness
	AddedSet   *models.Set
	RemovedSet *models.Set
}

// ApplySoreness records the pre-exercise soreness answer and applies its
// volume adjustment:
//
//   - "a while ago": recovery came early, append one set cloned from the
//     last set (reps unset, target carried from the last set's target or
//     weight).
//   - "on time": no adjustment.
//   - "still sore": recovery is lagging, remove the last set.
//
// Re-submitting an answer for an exercise that already has one is a no-op;
// without the guard a double-tap would double-append or double-remove.
func (s *Store) ApplySoreness(exerciseID uuid.UUID, answer models.Soreness) (*models.Workout, *SorenessEffect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workout == nil {
		return nil, nil
	}
	idx, ok := s.findExercise(exerciseID)
	if !ok || !answer.Valid() {
		return s.snapshotLocked(), nil
	}
	ex := &s.workout.Exercises[idx]
	if ex.Soreness != "" || ex.FeedbackRecorded {
		return s.snapshotLocked(), nil
	}

	ex.Soreness = answer
	effect := &SorenessEffect{Answer: answer}

	switch answer {
	case models.SorenessHealedAWhileAgo:
		if last := ex.LastSet(); last != nil {
			targetWeight := last.TargetWeight
			if targetWeight == 0 {
				targetWeight = last.Weight
			}
			added := models.Set{
				ID:           uuid.New(),
				ExerciseID:   ex.ID,
				SetNumber:    last.SetNumber + 1,
				Weight:       last.Weight,
				RIR:          last.RIR,
				TargetWeight: targetWeight,
				TargetReps:   last.TargetReps,
			}
			ex.Sets = append(ex.Sets, added)
			effect.AddedSet = &added
		}
	case models.SorenessStillSore:
		if len(ex.Sets) > 0 {
			removed := ex.Sets[len(ex.Sets)-1].Clone()
			ex.Sets = ex.Sets[:len(ex.Sets)-1]
			effect.RemovedSet = &removed
		}
	}

	return s.snapshotLocked(), effect
}

// SaveFeedback records the post-exercise pump and effort ratings. Both are
// required, and the exercise must have every set recorded; otherwise the
// call is a no-op and saved is false. Terminal for the exercise instance.
func (s *Store) SaveFeedback(exerciseID uuid.UUID, pump models.Pump, effort models.Effort) (snapshot *models.Workout, saved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workout == nil {
		return nil, false
	}
	idx, ok := s.findExercise(exerciseID)
	if !ok || !pump.Valid() || !effort.Valid() {
		return s.snapshotLocked(), false
	}
	ex := &s.workout.Exercises[idx]
	if PhaseOf(ex) != PhaseCompleted {
		return s.snapshotLocked(), false
	}

	ex.Pump = pump
	ex.Effort = effort
	ex.FeedbackRecorded = true
	return s.snapshotLocked(), true
}
