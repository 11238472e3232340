package session

import (
	"reflect"
	"testing"

	"github.com/JohnZolton/lyfter-sub000/internal/models"
	"github.com/JohnZolton/lyfter-sub000/internal/progression"
	"github.com/google/uuid"
)

func intPtr(v int) *int { return &v }

// testWorkout builds a workout with three exercises of three sets each,
// targets at 100x8, nothing logged.
func testWorkout() *models.Workout {
	w := &models.Workout{
		ID:         uuid.New(),
		UserID:     1,
		NominalDay: models.Monday,
	}
	for e := 0; e < 3; e++ {
		ex := models.Exercise{
			ID:          uuid.New(),
			WorkoutID:   w.ID,
			Description: []string{"Bench Press", "Incline DB Press", "Cable Fly"}[e],
			MuscleGroup: models.Chest,
			Order:       e + 1,
		}
		for n := 1; n <= 3; n++ {
			ex.Sets = append(ex.Sets, models.Set{
				ID:           uuid.New(),
				ExerciseID:   ex.ID,
				SetNumber:    n,
				Weight:       100,
				RIR:          models.DefaultRIR,
				TargetWeight: 100,
				TargetReps:   8,
			})
		}
		w.Exercises = append(w.Exercises, ex)
	}
	return w
}

func loadedStore(t *testing.T) (*Store, *models.Workout) {
	t.Helper()
	s := NewStore()
	w := testWorkout()
	s.SetWorkout(w)
	return s, w
}

func orderSequence(w *models.Workout) []int {
	out := make([]int, len(w.Exercises))
	for i := range w.Exercises {
		out[i] = w.Exercises[i].Order
	}
	return out
}

// TestEmptyStoreOpsAreNoOps verifies every operation on an empty store
// returns nil without panicking.
func TestEmptyStoreOpsAreNoOps(t *testing.T) {
	s := NewStore()
	id := uuid.New()

	if got := s.UpdateWorkoutMeta("x", models.Monday); got != nil {
		t.Error("UpdateWorkoutMeta on empty store returned a workout")
	}
	if got := s.AddExercise(models.Exercise{ID: id}); got != nil {
		t.Error("AddExercise on empty store returned a workout")
	}
	if got := s.RemoveExercise(id); got != nil {
		t.Error("RemoveExercise on empty store returned a workout")
	}
	if got := s.AddSet(models.Set{ID: id}); got != nil {
		t.Error("AddSet on empty store returned a workout")
	}
	if got, removed := s.RemoveSet(id); got != nil || removed != nil {
		t.Error("RemoveSet on empty store returned a workout or set")
	}
	if got := s.UpdateSet(id, models.Set{ID: id}); got != nil {
		t.Error("UpdateSet on empty store returned a workout")
	}
	if got := s.MoveExerciseUp(id); got != nil {
		t.Error("MoveExerciseUp on empty store returned a workout")
	}
}

// TestMissingEntityIsNoOp verifies operations naming an absent exercise or
// set return a snapshot deep-equal to the input.
func TestMissingEntityIsNoOp(t *testing.T) {
	s, _ := loadedStore(t)
	before := s.Snapshot()
	missing := uuid.New()

	s.RemoveExercise(missing)
	s.ReplaceExercise(missing, models.Exercise{ID: uuid.New()})
	s.UpdateExerciseDescription(missing, "renamed")
	s.AddSet(models.Set{ID: uuid.New(), ExerciseID: missing})
	s.RemoveSet(missing)
	s.UpdateSet(missing, models.Set{ID: uuid.New()})
	s.UpdateSet(before.Exercises[0].ID, models.Set{ID: missing, Weight: 999})
	s.MoveExerciseUp(missing)
	s.MoveExerciseDown(missing)
	s.TakeDeload(missing)
	s.SetDeloadDenied(missing)

	after := s.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("snapshot mutated by missing-entity operations:\nbefore: %+v\nafter:  %+v", before, after)
	}
}

// TestSetWorkoutClears verifies SetWorkout(nil) empties the store.
func TestSetWorkoutClears(t *testing.T) {
	s, _ := loadedStore(t)
	if got := s.SetWorkout(nil); got != nil {
		t.Error("SetWorkout(nil) returned a workout")
	}
	if got := s.Snapshot(); got != nil {
		t.Error("Snapshot after clear returned a workout")
	}
}

// TestSnapshotIsolation verifies mutating a returned snapshot does not leak
// into the store.
func TestSnapshotIsolation(t *testing.T) {
	s, _ := loadedStore(t)
	snap := s.Snapshot()
	snap.Exercises[0].Sets[0].Weight = 999
	snap.Exercises[0].Description = "tampered"

	fresh := s.Snapshot()
	if fresh.Exercises[0].Sets[0].Weight == 999 {
		t.Error("set mutation leaked through snapshot")
	}
	if fresh.Exercises[0].Description == "tampered" {
		t.Error("exercise mutation leaked through snapshot")
	}
}

// TestAddRemoveExercise verifies appending and filtering, and that removal
// does not renumber surviving order values.
func TestAddRemoveExercise(t *testing.T) {
	s, w := loadedStore(t)

	ex := models.Exercise{ID: uuid.New(), WorkoutID: w.ID, Description: "Triceps Pushdown", MuscleGroup: models.Triceps, Order: 4}
	snap := s.AddExercise(ex)
	if len(snap.Exercises) != 4 {
		t.Fatalf("exercises = %d, want 4", len(snap.Exercises))
	}

	snap = s.RemoveExercise(w.Exercises[1].ID)
	if len(snap.Exercises) != 3 {
		t.Fatalf("exercises = %d, want 3", len(snap.Exercises))
	}
	// Orders stay 1,3,4: only the move operations renormalize.
	if got, want := orderSequence(snap), []int{1, 3, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("orders after removal = %v, want %v", got, want)
	}
}

// TestReplaceExercise verifies swap-by-identity keeps the slot.
func TestReplaceExercise(t *testing.T) {
	s, w := loadedStore(t)
	repl := models.Exercise{ID: uuid.New(), WorkoutID: w.ID, Description: "Machine Press", MuscleGroup: models.Chest, Order: 2}

	snap := s.ReplaceExercise(w.Exercises[1].ID, repl)
	if snap.Exercises[1].ID != repl.ID {
		t.Errorf("slot 1 = %v, want replacement %v", snap.Exercises[1].ID, repl.ID)
	}
	if len(snap.Exercises) != 3 {
		t.Errorf("exercises = %d, want 3", len(snap.Exercises))
	}
}

// TestRemoveSetRemovesLast verifies the undo-last-set semantics: always the
// highest-numbered set, regardless of which sets are logged.
func TestRemoveSetRemovesLast(t *testing.T) {
	s, w := loadedStore(t)
	exID := w.Exercises[0].ID

	snap, removed := s.RemoveSet(exID)
	if removed == nil {
		t.Fatal("RemoveSet returned no set")
	}
	if removed.SetNumber != 3 {
		t.Errorf("removed setNumber = %d, want 3", removed.SetNumber)
	}
	if got := len(snap.Exercises[0].Sets); got != 2 {
		t.Errorf("sets = %d, want 2", got)
	}

	// Again: now set 2 is the last.
	_, removed = s.RemoveSet(exID)
	if removed.SetNumber != 2 {
		t.Errorf("removed setNumber = %d, want 2", removed.SetNumber)
	}

	// Drain and verify the empty-exercise no-op.
	s.RemoveSet(exID)
	snap, removed = s.RemoveSet(exID)
	if removed != nil {
		t.Error("RemoveSet on empty exercise returned a set")
	}
	if got := len(snap.Exercises[0].Sets); got != 0 {
		t.Errorf("sets = %d, want 0", got)
	}
}

// TestUpdateSetCascades verifies UpdateSet replaces by set id and cascades
// the weight onto later pending sets only.
func TestUpdateSetCascades(t *testing.T) {
	s, w := loadedStore(t)
	ex := w.Exercises[0]

	// Log set 3 first so we can see it skipped by the cascade from set 1.
	logged := ex.Sets[2]
	logged.Reps = intPtr(8)
	s.UpdateSet(ex.ID, logged)

	edited := ex.Sets[0]
	edited.Weight = 110
	edited.Reps = intPtr(8)
	snap := s.UpdateSet(ex.ID, edited)

	sets := snap.Exercises[0].Sets
	if sets[0].Weight != 110 || *sets[0].Reps != 8 {
		t.Errorf("edited set = %d x %v, want 110 x 8", sets[0].Weight, sets[0].Reps)
	}
	if sets[1].Weight != 110 {
		t.Errorf("pending set 2 weight = %d, want 110 (cascaded)", sets[1].Weight)
	}
	if sets[2].Weight != 100 {
		t.Errorf("logged set 3 weight = %d, want 100 (untouched)", sets[2].Weight)
	}
}

// TestUpdateSetPreservesPrior verifies the prior-cycle back-reference
// survives a set replacement (it is read-only and never overwritten by
// incoming payloads).
func TestUpdateSetPreservesPrior(t *testing.T) {
	s := NewStore()
	w := testWorkout()
	prior := &models.Set{SetNumber: 1, Weight: 95, Reps: intPtr(8)}
	w.Exercises[0].Sets[0].Prior = prior
	s.SetWorkout(w)

	edited := w.Exercises[0].Sets[0]
	edited.Prior = nil // incoming payloads carry no prior
	edited.Weight = 100
	edited.Reps = intPtr(9)
	snap := s.UpdateSet(w.Exercises[0].ID, edited)

	got := snap.Exercises[0].Sets[0].Prior
	if got == nil || got.Weight != 95 {
		t.Errorf("prior = %+v, want weight 95 preserved", got)
	}
}

// TestMoveExerciseRoundTrip verifies up-then-down on a middle exercise
// restores the original order sequence.
func TestMoveExerciseRoundTrip(t *testing.T) {
	s, w := loadedStore(t)
	mid := w.Exercises[1].ID
	before := s.Snapshot()

	s.MoveExerciseUp(mid)
	after := s.MoveExerciseDown(mid)

	if !reflect.DeepEqual(before, after) {
		t.Errorf("up-then-down changed the workout:\nbefore: %v\nafter:  %v",
			orderSequence(before), orderSequence(after))
	}
}

// TestMoveExerciseRenormalizes verifies a move reassigns dense 1-based
// orders even when the incoming orders were sparse.
func TestMoveExerciseRenormalizes(t *testing.T) {
	s := NewStore()
	w := testWorkout()
	w.Exercises[0].Order = 1
	w.Exercises[1].Order = 5 // sparse, as left behind by a removal
	w.Exercises[2].Order = 9
	s.SetWorkout(w)

	snap := s.MoveExerciseDown(w.Exercises[0].ID)
	if got, want := orderSequence(snap), []int{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("orders = %v, want %v", got, want)
	}
	if snap.Exercises[0].ID != w.Exercises[1].ID {
		t.Error("exercise did not move down")
	}
}

// TestMoveExerciseBoundaries verifies moving the first up and the last down
// are no-ops.
func TestMoveExerciseBoundaries(t *testing.T) {
	s, w := loadedStore(t)
	before := s.Snapshot()

	s.MoveExerciseUp(w.Exercises[0].ID)
	after := s.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Error("MoveExerciseUp at index 0 mutated the workout")
	}

	s.MoveExerciseDown(w.Exercises[2].ID)
	after = s.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Error("MoveExerciseDown at last index mutated the workout")
	}
}

// TestTakeDeload verifies truncation at the reference set and that the
// dropped sets come back for persistence deletes.
func TestTakeDeload(t *testing.T) {
	s := NewStore()
	w := testWorkout()
	ex := &w.Exercises[0]
	ex.Sets = append(ex.Sets, models.Set{ID: uuid.New(), ExerciseID: ex.ID, SetNumber: 4, Weight: 100})
	s.SetWorkout(w)

	snap, dropped := s.TakeDeload(ex.Sets[1].ID) // reference set 2
	if got := len(snap.Exercises[0].Sets); got != 2 {
		t.Errorf("sets after deload = %d, want 2", got)
	}
	if len(dropped) != 2 {
		t.Errorf("dropped = %d, want 2", len(dropped))
	}
	for _, d := range dropped {
		if d.SetNumber <= 2 {
			t.Errorf("dropped set %d, want only setNumber > 2", d.SetNumber)
		}
	}
	// Other exercises untouched.
	if got := len(snap.Exercises[1].Sets); got != 3 {
		t.Errorf("neighbor exercise sets = %d, want 3", got)
	}
}

// TestSetDeloadDenied verifies the owning exercise is annotated and nothing
// else changes.
func TestSetDeloadDenied(t *testing.T) {
	s, w := loadedStore(t)
	snap := s.SetDeloadDenied(w.Exercises[1].Sets[0].ID)
	if !snap.Exercises[1].DeloadDenied {
		t.Error("DeloadDenied not set on owning exercise")
	}
	if snap.Exercises[0].DeloadDenied || snap.Exercises[2].DeloadDenied {
		t.Error("DeloadDenied leaked to other exercises")
	}
	if got := len(snap.Exercises[1].Sets); got != 3 {
		t.Errorf("sets = %d, want 3 (deny must not truncate)", got)
	}
}

// TestUpdateWorkoutMeta verifies description and nominal day updates, and
// that an invalid day is ignored.
func TestUpdateWorkoutMeta(t *testing.T) {
	s, _ := loadedStore(t)
	snap := s.UpdateWorkoutMeta("push day", models.Thursday)
	if snap.Description != "push day" || snap.NominalDay != models.Thursday {
		t.Errorf("meta = %q/%v, want push day/Thursday", snap.Description, snap.NominalDay)
	}

	snap = s.UpdateWorkoutMeta("pull day", models.Weekday(42))
	if snap.NominalDay != models.Thursday {
		t.Errorf("nominal day = %v, want Thursday kept on invalid input", snap.NominalDay)
	}
}

// TestMatchOrBeatScenario walks the end-to-end logging flow: hit the target
// on set 1, then bump the working weight before sets 2 and 3.
func TestMatchOrBeatScenario(t *testing.T) {
	s, w := loadedStore(t)
	ex := w.Exercises[0]

	// Log set 1 at exactly the 100x8 target.
	set1 := ex.Sets[0]
	set1.Reps = intPtr(8)
	snap := s.UpdateSet(ex.ID, set1)
	if v := progression.Classify(snap.Exercises[0].Sets[0], nil); v != progression.Improvement {
		t.Errorf("verdict after hitting target = %v, want %v", v, progression.Improvement)
	}

	// Bump set 1 to 110 before logging the rest.
	set1.Weight = 110
	snap = s.UpdateSet(ex.ID, set1)

	sets := snap.Exercises[0].Sets
	if *sets[0].Reps != 8 {
		t.Errorf("set 1 reps = %v, want 8 kept", *sets[0].Reps)
	}
	if sets[1].Weight != 110 || sets[2].Weight != 110 {
		t.Errorf("sets 2-3 weights = %d, %d, want 110, 110", sets[1].Weight, sets[2].Weight)
	}
	if sets[1].Reps != nil || sets[2].Reps != nil {
		t.Error("sets 2-3 should still be unlogged")
	}
}
