package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/JohnZolton/lyfter-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreatePlan inserts a workout plan.
func (db *DB) CreatePlan(ctx context.Context, p *models.WorkoutPlan) error {
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO workout_plans (id, user_id, name) VALUES ($1,$2,$3) RETURNING created_at`,
		p.ID, p.UserID, p.Name).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

// GetPlan retrieves a plan with its workout instances (meta only, newest
// first per day slot).
func (db *DB) GetPlan(ctx context.Context, planID uuid.UUID) (*models.WorkoutPlan, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, created_at FROM workout_plans WHERE id = $1`,
		planID)

	var p models.WorkoutPlan
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying plan: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT id, plan_id, user_id, nominal_day, description, created_at
		 FROM workouts
		 WHERE plan_id = $1
		 ORDER BY nominal_day ASC, created_at DESC`,
		planID)
	if err != nil {
		return nil, fmt.Errorf("querying plan workouts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var w models.Workout
		var day int
		if err := rows.Scan(&w.ID, &w.PlanID, &w.UserID, &day, &w.Description, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning plan workout: %w", err)
		}
		w.NominalDay = models.Weekday(day)
		p.Workouts = append(p.Workouts, w)
	}
	return &p, rows.Err()
}

// ListPlans retrieves a user's plans without workouts.
func (db *DB) ListPlans(ctx context.Context, userID int) ([]models.WorkoutPlan, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, created_at FROM workout_plans
		 WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()
	return scanPlans(rows)
}

// ListAllPlans retrieves every plan across users, for the rollover
// scheduler.
func (db *DB) ListAllPlans(ctx context.Context) ([]models.WorkoutPlan, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, created_at FROM workout_plans ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying all plans: %w", err)
	}
	defer rows.Close()
	return scanPlans(rows)
}

func scanPlans(rows pgx.Rows) ([]models.WorkoutPlan, error) {
	var result []models.WorkoutPlan
	for rows.Next() {
		var p models.WorkoutPlan
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
