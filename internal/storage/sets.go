package storage

import (
	"context"
	"fmt"

	"github.com/JohnZolton/lyfter-sub000/internal/models"
	"github.com/google/uuid"
)

// CreateSet durably stores a newly added set.
func (db *DB) CreateSet(ctx context.Context, s *models.Set) error {
	var priorID *uuid.UUID
	if s.Prior != nil {
		priorID = &s.Prior.ID
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO sets (id, exercise_id, set_number, weight, reps, rir, target_weight, target_reps, prior_set_id)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		s.ID, s.ExerciseID, s.SetNumber, s.Weight, s.Reps, s.RIR, s.TargetWeight, s.TargetReps, priorID)
	if err != nil {
		return fmt.Errorf("inserting set: %w", err)
	}
	return nil
}

// UpdateSet updates the mutable fields of an existing set.
func (db *DB) UpdateSet(ctx context.Context, setID uuid.UUID, weight int, reps *int, rir int) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE sets SET weight = $2, reps = $3, rir = $4 WHERE id = $1`,
		setID, weight, reps, rir)
	if err != nil {
		return fmt.Errorf("updating set: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSet removes a set. Sets referencing it as their prior keep working:
// the reference is cleared, not cascaded.
func (db *DB) DeleteSet(ctx context.Context, setID uuid.UUID) error {
	_, err := db.Pool.Exec(ctx, `UPDATE sets SET prior_set_id = NULL WHERE prior_set_id = $1`, setID)
	if err != nil {
		return fmt.Errorf("clearing prior references: %w", err)
	}
	_, err = db.Pool.Exec(ctx, `DELETE FROM sets WHERE id = $1`, setID)
	if err != nil {
		return fmt.Errorf("deleting set: %w", err)
	}
	return nil
}
