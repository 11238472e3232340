package models

import (
	"time"

	"github.com/google/uuid"
)

// Weekday is the nominal plan slot a workout belongs to, independent of the
// calendar date it was actually performed on.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func (d Weekday) String() string {
	if d < Sunday || d > Saturday {
		return "Unknown"
	}
	return weekdayNames[d]
}

// Valid reports whether d is one of the seven weekdays.
func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Saturday
}

// MuscleGroup tags an exercise with the muscle it primarily trains.
type MuscleGroup string

const (
	Chest      MuscleGroup = "chest"
	Triceps    MuscleGroup = "triceps"
	Back       MuscleGroup = "back"
	Biceps     MuscleGroup = "biceps"
	Shoulders  MuscleGroup = "shoulders"
	Abs        MuscleGroup = "abs"
	Quads      MuscleGroup = "quads"
	Glutes     MuscleGroup = "glutes"
	Hamstrings MuscleGroup = "hamstrings"
	Calves     MuscleGroup = "calves"
)

// MuscleGroups lists every valid muscle group tag.
var MuscleGroups = []MuscleGroup{
	Chest, Triceps, Back, Biceps, Shoulders, Abs, Quads, Glutes, Hamstrings, Calves,
}

func (m MuscleGroup) Valid() bool {
	for _, g := range MuscleGroups {
		if m == g {
			return true
		}
	}
	return false
}

// DefaultRIR is the reps-in-reserve assumed for a set until the lifter logs
// something else.
const DefaultRIR = 3

// Set is one logged (or planned) set of an exercise. Reps is nil until the
// lifter records performance. An explicit 0 is a recorded failure, not a
// pending set; the distinction matters for exercise completion.
type Set struct {
	ID           uuid.UUID `json:"id"`
	ExerciseID   uuid.UUID `json:"exercise_id"`
	SetNumber    int       `json:"set_number"`
	Weight       int       `json:"weight"`
	Reps         *int      `json:"reps,omitempty"`
	RIR          int       `json:"rir"`
	TargetWeight int       `json:"target_weight"`
	TargetReps   int       `json:"target_reps"`

	// Prior is the corresponding set from the previous cycle, read-only and
	// used for comparison only. Never written through.
	Prior *Set `json:"prior,omitempty"`
}

// Recorded reports whether the lifter has logged reps for this set at all
// (an explicit 0 counts).
func (s *Set) Recorded() bool {
	return s.Reps != nil
}

// Pending reports whether the set is still a forecast: no reps, or an
// untouched 0. Pending sets are the ones a weight cascade may overwrite.
func (s *Set) Pending() bool {
	return s.Reps == nil || *s.Reps == 0
}

// RepsDone returns the recorded rep count, 0 if unrecorded.
func (s *Set) RepsDone() int {
	if s.Reps == nil {
		return 0
	}
	return *s.Reps
}

// Clone returns a copy of the set. The Prior back-reference is shared, not
// copied: prior-cycle sets are immutable through this relation.
func (s *Set) Clone() Set {
	out := *s
	if s.Reps != nil {
		reps := *s.Reps
		out.Reps = &reps
	}
	return out
}

// Soreness is the lifter's answer to the pre-exercise recovery survey.
type Soreness string

const (
	SorenessHealedAWhileAgo Soreness = "a while ago"
	SorenessHealedOnTime    Soreness = "on time"
	SorenessStillSore       Soreness = "still sore"
)

func (s Soreness) Valid() bool {
	switch s {
	case SorenessHealedAWhileAgo, SorenessHealedOnTime, SorenessStillSore:
		return true
	}
	return false
}

// Pump is the post-exercise pump rating.
type Pump string

const (
	PumpLow    Pump = "low"
	PumpMedium Pump = "medium"
	PumpHigh   Pump = "high"
)

func (p Pump) Valid() bool {
	return p == PumpLow || p == PumpMedium || p == PumpHigh
}

// Effort is the post-exercise perceived-effort (RPE) rating.
type Effort string

const (
	EffortEasy   Effort = "easy"
	EffortMedium Effort = "medium"
	EffortHard   Effort = "hard"
)

func (e Effort) Valid() bool {
	return e == EffortEasy || e == EffortMedium || e == EffortHard
}

// Exercise is one slot in a workout with its ordered sets.
//
// Soreness, Touched and DeloadDenied are session annotations: they exist only
// on the in-memory snapshot during an active workout and are not stored as
// columns (soreness is persisted as an event, not as state).
type Exercise struct {
	ID               uuid.UUID   `json:"id"`
	WorkoutID        uuid.UUID   `json:"workout_id"`
	Description      string      `json:"description"`
	MuscleGroup      MuscleGroup `json:"muscle_group"`
	Order            int         `json:"order"`
	FeedbackRecorded bool        `json:"feedback_recorded"`
	Pump             Pump        `json:"pump,omitempty"`
	Effort           Effort      `json:"effort,omitempty"`
	Sets             []Set       `json:"sets"`

	Soreness     Soreness `json:"soreness,omitempty"`
	Touched      bool     `json:"touched,omitempty"`
	DeloadDenied bool     `json:"deload_denied,omitempty"`
}

// LastSet returns the highest-numbered set, or nil if the exercise has none.
func (e *Exercise) LastSet() *Set {
	if len(e.Sets) == 0 {
		return nil
	}
	return &e.Sets[len(e.Sets)-1]
}

// Clone returns a deep copy of the exercise and its sets.
func (e *Exercise) Clone() Exercise {
	out := *e
	if e.Sets != nil {
		out.Sets = make([]Set, len(e.Sets))
		for i := range e.Sets {
			out.Sets[i] = e.Sets[i].Clone()
		}
	}
	return out
}

// Workout is one day's training: an ordered collection of exercises.
type Workout struct {
	ID          uuid.UUID  `json:"id"`
	PlanID      *uuid.UUID `json:"plan_id,omitempty"`
	UserID      int        `json:"user_id"`
	NominalDay  Weekday    `json:"nominal_day"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	Exercises   []Exercise `json:"exercises"`
}

// Clone returns a deep copy of the workout, its exercises and sets.
func (w *Workout) Clone() *Workout {
	out := *w
	if w.PlanID != nil {
		pid := *w.PlanID
		out.PlanID = &pid
	}
	if w.Exercises != nil {
		out.Exercises = make([]Exercise, len(w.Exercises))
		for i := range w.Exercises {
			out.Exercises[i] = w.Exercises[i].Clone()
		}
	}
	return &out
}

// WorkoutPlan is a named weekly template: one conceptual slot per weekday,
// instantiated into concrete workouts week after week.
type WorkoutPlan struct {
	ID        uuid.UUID `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Workouts  []Workout `json:"workouts,omitempty"`
}
