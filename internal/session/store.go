// Package session holds the in-memory model of an active workout: a
// single-writer store of today's workout snapshot, the exercise feedback
// state machine, and the fire-and-forget persister that trails local
// mutations into durable storage.
package session

import (
	"sync"

	"github.com/JohnZolton/lyfter-sub000/internal/models"
	"github.com/JohnZolton/lyfter-sub000/internal/progression"
	"github.com/google/uuid"
)

// Store is the single source of truth for one user's active workout. Every
// operation is an atomic transform over an immutable snapshot: callers get
// deep copies in and out, so two snapshots never alias.
//
// Operations referencing a workout, exercise or set that is not in the
// current snapshot are silent no-ops returning the unchanged snapshot. The
// store is driven by UI events that can race with data loading; ignoring a
// stale reference beats crashing mid-workout.
type Store struct {
	mu      sync.Mutex
	workout *models.Workout
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// SetWorkout replaces the whole snapshot. A nil workout clears the store.
func (s *Store) SetWorkout(w *models.Workout) *models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w == nil {
		s.workout = nil
		return nil
	}
	s.workout = w.Clone()
	return s.workout.Clone()
}

// Snapshot returns a deep copy of the current workout, or nil when the store
// is empty.
func (s *Store) Snapshot() *models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() *models.Workout {
	if s.workout == nil {
		return nil
	}
	return s.workout.Clone()
}

// UpdateWorkoutMeta updates the workout's mutable metadata.
func (s *Store) UpdateWorkoutMeta(description string, nominalDay models.Weekday) *models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workout == nil {
		return nil
	}
	s.workout.Description = description
	if nominalDay.Valid() {
		s.workout.NominalDay = nominalDay
	}
	return s.snapshotLocked()
}

// AddExercise appends an exercise to the workout. Existing order values are
// left alone; only the move operations renormalize ordering.
func (s *Store) AddExercise(ex models.Exercise) *models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workout == nil {
		return nil
	}
	s.workout.Exercises = append(s.workout.Exercises, ex.Clone())
	return s.snapshotLocked()
}

// RemoveExercise drops the exercise with the given id. Remaining order
// values are deliberately not renumbered here.
func (s *Store) RemoveExercise(exerciseID uuid.UUID) *models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workout == nil {
		return nil
	}
	if _, ok := s.findExercise(exerciseID); !ok {
		return s.snapshotLocked()
	}
	kept := s.workout.Exercises[:0]
	for i := range s.workout.Exercises {
		if s.workout.Exercises[i].ID != exerciseID {
			kept = append(kept, s.workout.Exercises[i])
		}
	}
	s.workout.Exercises = kept
	return s.snapshotLocked()
}

// ReplaceExercise swaps the exercise with oldID for newEx, keeping its slot.
func (s *Store) ReplaceExercise(oldID uuid.UUID, newEx models.Exercise) *models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workout == nil {
		return nil
	}
	idx, ok := s.findExercise(oldID)
	if !ok {
		return s.snapshotLocked()
	}
	s.workout.Exercises[idx] = newEx.Clone()
	return s.snapshotLocked()
}

// UpdateExerciseDescription renames an exercise in place.
func (s *Store) UpdateExerciseDescription(exerciseID uuid.UUID, description string) *models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workout == nil {
		return nil
	}
	idx, ok := s.findExercise(exerciseID)
	if !ok {
		return s.snapshotLocked()
	}
	s.workout.Exercises[idx].Description = description
	return s.snapshotLocked()
}

// AddSet appends a set to its exercise. The caller supplies a correct
// SetNumber; no renumbering happens here.
func (s *Store) AddSet(set models.Set) *models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workout == nil {
		return nil
	}
	idx, ok := s.findExercise(set.ExerciseID)
	if !ok {
		return s.snapshotLocked()
	}
	ex := &s.workout.Exercises[idx]
	ex.Sets = append(ex.Sets, set.Clone())
	return s.snapshotLocked()
}

// RemoveSet removes the last (highest-numbered) set of the exercise, the
// "undo last set" gesture. Returns the removed set so the caller can issue
// the persistence delete.
func (s *Store) RemoveSet(exerciseID uuid.UUID) (*models.Workout, *models.Set) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workout == nil {
		return nil, nil
	}
	idx, ok := s.findExercise(exerciseID)
	if !ok {
		return s.snapshotLocked(), nil
	}
	ex := &s.workout.Exercises[idx]
	if len(ex.Sets) == 0 {
		return s.snapshotLocked(), nil
	}
	removed := ex.Sets[len(ex.Sets)-1].Clone()
	ex.Sets = ex.Sets[:len(ex.Sets)-1]
	return s.snapshotLocked(), &removed
}

// UpdateSet replaces the set matching updated.ID within the exercise and
// cascades the new weight onto later pending sets. Editing today's working
// weight forecasts the same weight for the rest of the exercise; sets with
// logged reps are history and stay put.
//
// Marks the exercise as touched: the first edit is what moves the feedback
// state machine out of NotStarted.
func (s *Store) UpdateSet(exerciseID uuid.UUID, updated models.Set) *models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workout == nil {
		return nil
	}
	exIdx, ok := s.findExercise(exerciseID)
	if !ok {
		return s.snapshotLocked()
	}
	ex := &s.workout.Exercises[exIdx]

	setIdx := -1
	for i := range ex.Sets {
		if ex.Sets[i].ID == updated.ID {
			setIdx = i
			break
		}
	}
	if setIdx < 0 {
		return s.snapshotLocked()
	}

	prior := ex.Sets[setIdx].Prior
	replacement := updated.Clone()
	replacement.Prior = prior
	ex.Sets[setIdx] = replacement
	ex.Sets = progression.Cascade(ex.Sets, setIdx, replacement.Weight)

	if !ex.FeedbackRecorded {
		ex.Touched = true
	}
	return s.snapshotLocked()
}

// MoveExerciseUp swaps the exercise with its predecessor. A no-op when the
// exercise is already first. This and MoveExerciseDown are the only
// operations that renormalize order values to a dense 1..N.
func (s *Store) MoveExerciseUp(exerciseID uuid.UUID) *models.Workout {
	return s.moveExercise(exerciseID, -1)
}

// MoveExerciseDown swaps the exercise with its successor. A no-op when the
// exercise is already last.
func (s *Store) MoveExerciseDown(exerciseID uuid.UUID) *models.Workout {
	return s.moveExercise(exerciseID, +1)
}

func (s *Store) moveExercise(exerciseID uuid.UUID, direction int) *models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workout == nil {
		return nil
	}
	idx, ok := s.findExercise(exerciseID)
	if !ok {
		return s.snapshotLocked()
	}
	other := idx + direction
	if other < 0 || other >= len(s.workout.Exercises) {
		return s.snapshotLocked()
	}
	exs := s.workout.Exercises
	exs[idx], exs[other] = exs[other], exs[idx]
	for i := range exs {
		exs[i].Order = i + 1
	}
	return s.snapshotLocked()
}

// TakeDeload truncates the owning exercise's sets to the given set's number.
// Returns the dropped sets so the caller can issue persistence deletes.
func (s *Store) TakeDeload(setID uuid.UUID) (*models.Workout, []models.Set) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workout == nil {
		return nil, nil
	}
	exIdx, setIdx, ok := s.findSet(setID)
	if !ok {
		return s.snapshotLocked(), nil
	}
	ex := &s.workout.Exercises[exIdx]
	ref := ex.Sets[setIdx].SetNumber
	kept, dropped := progression.TakeDeload(ex.Sets, ref)
	ex.Sets = kept
	return s.snapshotLocked(), dropped
}

// SetDeloadDenied marks the set's owning exercise as having declined a
// suggested deload. Session-local: the flag suppresses repeat prompts and is
// never persisted.
func (s *Store) SetDeloadDenied(setID uuid.UUID) *models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workout == nil {
		return nil
	}
	exIdx, _, ok := s.findSet(setID)
	if !ok {
		return s.snapshotLocked()
	}
	s.workout.Exercises[exIdx].DeloadDenied = true
	return s.snapshotLocked()
}

// findExercise returns the index of the exercise with the given id.
// Callers hold s.mu.
func (s *Store) findExercise(exerciseID uuid.UUID) (int, bool) {
	for i := range s.workout.Exercises {
		if s.workout.Exercises[i].ID == exerciseID {
			return i, true
		}
	}
	return 0, false
}

// findSet returns the exercise and set indexes for the given set id.
// Callers hold s.mu.
func (s *Store) findSet(setID uuid.UUID) (exIdx, setIdx int, ok bool) {
	for i := range s.workout.Exercises {
		for j := range s.workout.Exercises[i].Sets {
			if s.workout.Exercises[i].Sets[j].ID == setID {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}
