package mcp

import (
	"context"
	"time"

	"github.com/JohnZolton/lyfter-sub000/internal/models"
	"github.com/JohnZolton/lyfter-sub000/internal/storage"
	"github.com/google/uuid"
)

// DataSource abstracts the data layer for MCP tools. *storage.DB satisfies
// it; tests substitute a fake.
type DataSource interface {
	ListWorkouts(ctx context.Context, userID, limit int) ([]models.Workout, error)
	GetWorkoutByID(ctx context.Context, workoutID uuid.UUID) (*models.Workout, error)
	ExerciseHistory(ctx context.Context, userID int, exerciseFilter string, since time.Time) ([]storage.SetHistoryRow, error)
	TrainingSummary(ctx context.Context, userID int, start, end time.Time) ([]storage.TrainingWeek, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
