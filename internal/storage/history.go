package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SetHistoryRow is one logged set with its workout context, used for
// progression queries.
type SetHistoryRow struct {
	WorkoutID    uuid.UUID `json:"workout_id"`
	WorkoutDate  time.Time `json:"workout_date"`
	Exercise     string    `json:"exercise"`
	MuscleGroup  string    `json:"muscle_group"`
	SetNumber    int       `json:"set_number"`
	Weight       int       `json:"weight"`
	Reps         *int      `json:"reps"`
	RIR          int       `json:"rir"`
	TargetWeight int       `json:"target_weight"`
	TargetReps   int       `json:"target_reps"`
}

// ExerciseHistory retrieves a user's logged sets for exercises whose
// description matches the filter (partial, case-insensitive), oldest first.
func (db *DB) ExerciseHistory(ctx context.Context, userID int, exerciseFilter string, since time.Time) ([]SetHistoryRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT w.id, w.created_at, e.description, e.muscle_group,
		        s.set_number, s.weight, s.reps, s.rir, s.target_weight, s.target_reps
		 FROM sets s
		 JOIN exercises e ON e.id = s.exercise_id
		 JOIN workouts w ON w.id = e.workout_id
		 WHERE w.user_id = $1
		   AND w.created_at >= $2
		   AND ($3 = '' OR e.description ILIKE '%' || $3 || '%')
		 ORDER BY w.created_at ASC, e.ord ASC, s.set_number ASC`,
		userID, since, exerciseFilter)
	if err != nil {
		return nil, fmt.Errorf("querying exercise history: %w", err)
	}
	defer rows.Close()

	var result []SetHistoryRow
	for rows.Next() {
		var r SetHistoryRow
		if err := rows.Scan(&r.WorkoutID, &r.WorkoutDate, &r.Exercise, &r.MuscleGroup,
			&r.SetNumber, &r.Weight, &r.Reps, &r.RIR, &r.TargetWeight, &r.TargetReps); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// TrainingWeek aggregates one week of logged training volume.
type TrainingWeek struct {
	WeekStart time.Time `json:"week_start"`
	Workouts  int       `json:"workouts"`
	Sets      int       `json:"sets"`
	Reps      int       `json:"reps"`
	Tonnage   int       `json:"tonnage"`
}

// TrainingSummary aggregates logged sets per week: workout count, set count,
// total reps and tonnage (weight x reps over recorded sets).
func (db *DB) TrainingSummary(ctx context.Context, userID int, start, end time.Time) ([]TrainingWeek, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date_trunc('week', w.created_at) AS week_start,
		        COUNT(DISTINCT w.id),
		        COUNT(s.id),
		        COALESCE(SUM(s.reps), 0),
		        COALESCE(SUM(s.weight * s.reps), 0)
		 FROM sets s
		 JOIN exercises e ON e.id = s.exercise_id
		 JOIN workouts w ON w.id = e.workout_id
		 WHERE w.user_id = $1
		   AND w.created_at >= $2 AND w.created_at < $3
		   AND s.reps IS NOT NULL
		 GROUP BY week_start
		 ORDER BY week_start ASC`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying training summary: %w", err)
	}
	defer rows.Close()

	var result []TrainingWeek
	for rows.Next() {
		var t TrainingWeek
		if err := rows.Scan(&t.WeekStart, &t.Workouts, &t.Sets, &t.Reps, &t.Tonnage); err != nil {
			return nil, fmt.Errorf("scanning training week: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
