package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/JohnZolton/lyfter-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateWorkout inserts a workout row (no exercises).
func (db *DB) CreateWorkout(ctx context.Context, w *models.Workout) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO workouts (id, plan_id, user_id, nominal_day, description, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		w.ID, w.PlanID, w.UserID, int(w.NominalDay), w.Description, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}
	return nil
}

// ListWorkouts retrieves a user's workouts, newest first, without exercises.
func (db *DB) ListWorkouts(ctx context.Context, userID, limit int) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, plan_id, user_id, nominal_day, description, created_at
		 FROM workouts
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.Workout
	for rows.Next() {
		var w models.Workout
		var day int
		if err := rows.Scan(&w.ID, &w.PlanID, &w.UserID, &day, &w.Description, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		w.NominalDay = models.Weekday(day)
		result = append(result, w)
	}
	return result, rows.Err()
}

// GetWorkoutByID retrieves a workout with its exercises, sets, and each
// set's prior-cycle counterpart attached for comparison.
func (db *DB) GetWorkoutByID(ctx context.Context, workoutID uuid.UUID) (*models.Workout, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, plan_id, user_id, nominal_day, description, created_at
		 FROM workouts WHERE id = $1`,
		workoutID)

	var w models.Workout
	var day int
	err := row.Scan(&w.ID, &w.PlanID, &w.UserID, &day, &w.Description, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying workout: %w", err)
	}
	w.NominalDay = models.Weekday(day)

	exRows, err := db.Pool.Query(ctx,
		`SELECT id, workout_id, description, muscle_group, ord, feedback_recorded, pump, effort
		 FROM exercises
		 WHERE workout_id = $1
		 ORDER BY ord ASC`,
		workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer exRows.Close()

	exIdx := map[uuid.UUID]int{}
	for exRows.Next() {
		var ex models.Exercise
		if err := exRows.Scan(&ex.ID, &ex.WorkoutID, &ex.Description, &ex.MuscleGroup,
			&ex.Order, &ex.FeedbackRecorded, &ex.Pump, &ex.Effort); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		exIdx[ex.ID] = len(w.Exercises)
		w.Exercises = append(w.Exercises, ex)
	}
	if err := exRows.Err(); err != nil {
		return nil, err
	}
	if len(w.Exercises) == 0 {
		return &w, nil
	}

	// One pass picks up each set and its prior via self-join.
	setRows, err := db.Pool.Query(ctx,
		`SELECT s.id, s.exercise_id, s.set_number, s.weight, s.reps, s.rir,
		        s.target_weight, s.target_reps,
		        p.id, p.exercise_id, p.set_number, p.weight, p.reps, p.rir,
		        p.target_weight, p.target_reps
		 FROM sets s
		 LEFT JOIN sets p ON p.id = s.prior_set_id
		 JOIN exercises e ON e.id = s.exercise_id
		 WHERE e.workout_id = $1
		 ORDER BY e.ord ASC, s.set_number ASC`,
		workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var s models.Set
		var (
			priorID         *uuid.UUID
			priorExerciseID *uuid.UUID
			priorNumber     *int
			priorWeight     *int
			priorReps       *int
			priorRIR        *int
			priorTargetW    *int
			priorTargetR    *int
		)
		if err := setRows.Scan(&s.ID, &s.ExerciseID, &s.SetNumber, &s.Weight, &s.Reps, &s.RIR,
			&s.TargetWeight, &s.TargetReps,
			&priorID, &priorExerciseID, &priorNumber, &priorWeight, &priorReps, &priorRIR,
			&priorTargetW, &priorTargetR); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		if priorID != nil {
			s.Prior = &models.Set{
				ID:           *priorID,
				ExerciseID:   *priorExerciseID,
				SetNumber:    *priorNumber,
				Weight:       *priorWeight,
				Reps:         priorReps,
				RIR:          *priorRIR,
				TargetWeight: *priorTargetW,
				TargetReps:   *priorTargetR,
			}
		}
		idx, ok := exIdx[s.ExerciseID]
		if !ok {
			continue
		}
		w.Exercises[idx].Sets = append(w.Exercises[idx].Sets, s)
	}
	return &w, setRows.Err()
}

// UpdateWorkoutMeta updates the mutable workout-level fields.
func (db *DB) UpdateWorkoutMeta(ctx context.Context, workoutID uuid.UUID, description string, nominalDay models.Weekday) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE workouts SET description = $2, nominal_day = $3 WHERE id = $1`,
		workoutID, description, int(nominalDay))
	if err != nil {
		return fmt.Errorf("updating workout meta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// LatestWorkoutForDay returns the most recent workout instance of a plan's
// nominal-day slot.
func (db *DB) LatestWorkoutForDay(ctx context.Context, planID uuid.UUID, day models.Weekday) (*models.Workout, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, plan_id, user_id, nominal_day, description, created_at
		 FROM workouts
		 WHERE plan_id = $1 AND nominal_day = $2
		 ORDER BY created_at DESC
		 LIMIT 1`,
		planID, int(day))

	var w models.Workout
	var d int
	err := row.Scan(&w.ID, &w.PlanID, &w.UserID, &d, &w.Description, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest workout: %w", err)
	}
	w.NominalDay = models.Weekday(d)
	return &w, nil
}

// CreateWorkoutFromPrevious clones a workout's structure into next week's
// instance: reps are reset, targets shift to the prior cycle's performance
// (logged weight and reps where present, carried targets otherwise), and
// every new set keeps a prior_set_id back-reference for comparison.
func (db *DB) CreateWorkoutFromPrevious(ctx context.Context, priorWorkoutID uuid.UUID) (*models.Workout, error) {
	prior, err := db.GetWorkoutByID(ctx, priorWorkoutID)
	if err != nil {
		return nil, fmt.Errorf("loading prior workout: %w", err)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting rollover tx: %w", err)
	}
	defer tx.Rollback(ctx)

	next := &models.Workout{
		ID:          uuid.New(),
		PlanID:      prior.PlanID,
		UserID:      prior.UserID,
		NominalDay:  prior.NominalDay,
		Description: prior.Description,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO workouts (id, plan_id, user_id, nominal_day, description)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING created_at`,
		next.ID, next.PlanID, next.UserID, int(next.NominalDay), next.Description).Scan(&next.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting rollover workout: %w", err)
	}

	for i := range prior.Exercises {
		priorEx := &prior.Exercises[i]
		ex := models.Exercise{
			ID:          uuid.New(),
			WorkoutID:   next.ID,
			Description: priorEx.Description,
			MuscleGroup: priorEx.MuscleGroup,
			Order:       priorEx.Order,
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO exercises (id, workout_id, description, muscle_group, ord)
			 VALUES ($1,$2,$3,$4,$5)`,
			ex.ID, ex.WorkoutID, ex.Description, ex.MuscleGroup, ex.Order)
		if err != nil {
			return nil, fmt.Errorf("inserting rollover exercise: %w", err)
		}

		for j := range priorEx.Sets {
			priorSet := &priorEx.Sets[j]
			targetWeight := priorSet.TargetWeight
			targetReps := priorSet.TargetReps
			if priorSet.Recorded() {
				targetWeight = priorSet.Weight
				targetReps = priorSet.RepsDone()
			}
			set := models.Set{
				ID:           uuid.New(),
				ExerciseID:   ex.ID,
				SetNumber:    priorSet.SetNumber,
				Weight:       priorSet.Weight,
				RIR:          models.DefaultRIR,
				TargetWeight: targetWeight,
				TargetReps:   targetReps,
				Prior:        priorSet,
			}
			_, err = tx.Exec(ctx,
				`INSERT INTO sets (id, exercise_id, set_number, weight, rir, target_weight, target_reps, prior_set_id)
				 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
				set.ID, set.ExerciseID, set.SetNumber, set.Weight, set.RIR,
				set.TargetWeight, set.TargetReps, priorSet.ID)
			if err != nil {
				return nil, fmt.Errorf("inserting rollover set: %w", err)
			}
			ex.Sets = append(ex.Sets, set)
		}
		next.Exercises = append(next.Exercises, ex)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing rollover: %w", err)
	}
	return next, nil
}
