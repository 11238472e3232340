package storage

import (
	"context"
	"fmt"

	"github.com/JohnZolton/lyfter-sub000/internal/models"
	"github.com/google/uuid"
)

// AddExercise creates an exercise in a workout at the given order slot and
// returns the created record.
func (db *DB) AddExercise(ctx context.Context, workoutID uuid.UUID, order int, muscleGroup models.MuscleGroup, description string) (*models.Exercise, error) {
	ex := &models.Exercise{
		ID:          uuid.New(),
		WorkoutID:   workoutID,
		Description: description,
		MuscleGroup: muscleGroup,
		Order:       order,
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO exercises (id, workout_id, description, muscle_group, ord)
		 VALUES ($1,$2,$3,$4,$5)`,
		ex.ID, ex.WorkoutID, ex.Description, ex.MuscleGroup, ex.Order)
	if err != nil {
		return nil, fmt.Errorf("inserting exercise: %w", err)
	}
	return ex, nil
}

// DeleteExercise removes an exercise and, via cascade, its sets.
func (db *DB) DeleteExercise(ctx context.Context, exerciseID uuid.UUID) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM exercises WHERE id = $1`, exerciseID)
	if err != nil {
		return fmt.Errorf("deleting exercise: %w", err)
	}
	return nil
}

// UpdateExerciseDescription renames an exercise.
func (db *DB) UpdateExerciseDescription(ctx context.Context, exerciseID uuid.UUID, description string) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE exercises SET description = $2 WHERE id = $1`,
		exerciseID, description)
	if err != nil {
		return fmt.Errorf("updating exercise description: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordExerciseSoreness appends the soreness survey answer to the
// exercise's event log.
func (db *DB) RecordExerciseSoreness(ctx context.Context, exerciseID uuid.UUID, answer models.Soreness) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO soreness_log (exercise_id, answer) VALUES ($1, $2)`,
		exerciseID, answer)
	if err != nil {
		return fmt.Errorf("recording soreness: %w", err)
	}
	return nil
}

// RecordExerciseFeedback stores the post-exercise pump and effort ratings
// and marks the exercise's feedback as recorded.
func (db *DB) RecordExerciseFeedback(ctx context.Context, exerciseID uuid.UUID, pump models.Pump, effort models.Effort) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE exercises SET pump = $2, effort = $3, feedback_recorded = TRUE WHERE id = $1`,
		exerciseID, pump, effort)
	if err != nil {
		return fmt.Errorf("recording exercise feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
