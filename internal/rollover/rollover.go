// Package rollover advances workout plans to their next cycle. Each nominal
// day's workout is cloned from the previous cycle once that cycle is old
// enough, with targets shifted to whatever was actually lifted.
package rollover

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/JohnZolton/lyfter-sub000/internal/models"
	"github.com/JohnZolton/lyfter-sub000/internal/storage"
	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
)

// minCycleAge guards against double rollover: a workout younger than this is
// still the current cycle.
const minCycleAge = 6 * 24 * time.Hour

// Source is the slice of the storage layer the scheduler reads and writes.
type Source interface {
	ListAllPlans(ctx context.Context) ([]models.WorkoutPlan, error)
	LatestWorkoutForDay(ctx context.Context, planID uuid.UUID, day models.Weekday) (*models.Workout, error)
	CreateWorkoutFromPrevious(ctx context.Context, priorWorkoutID uuid.UUID) (*models.Workout, error)
}

// Scheduler clones due workouts into their next cycle on a daily tick.
type Scheduler struct {
	scheduler *gocron.Scheduler
	src       Source
	log       *slog.Logger
	now       func() time.Time
}

// New creates a scheduler. It does nothing until Start is called.
func New(src Source, log *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		src:       src,
		log:       log,
		now:       time.Now,
	}
}

// Start begins the daily rollover check in the background.
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Day().At("03:00").Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		s.RunOnce(ctx)
	})
	s.scheduler.StartAsync()
}

// Stop terminates the scheduled job.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunOnce rolls every plan whose workout for today's nominal day has
// finished its cycle. Safe to call repeatedly: a freshly cloned workout is
// too young to roll again.
func (s *Scheduler) RunOnce(ctx context.Context) {
	day := models.Weekday(s.now().Weekday())

	plans, err := s.src.ListAllPlans(ctx)
	if err != nil {
		s.log.Error("rollover: list plans failed", "error", err)
		return
	}

	for _, plan := range plans {
		latest, err := s.src.LatestWorkoutForDay(ctx, plan.ID, day)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				s.log.Error("rollover: latest workout lookup failed", "plan", plan.Name, "error", err)
			}
			continue
		}
		if s.now().Sub(latest.CreatedAt) < minCycleAge {
			continue
		}

		next, err := s.src.CreateWorkoutFromPrevious(ctx, latest.ID)
		if err != nil {
			s.log.Error("rollover: clone failed", "plan", plan.Name, "workout_id", latest.ID, "error", err)
			continue
		}
		s.log.Info("rolled workout to next cycle",
			"plan", plan.Name,
			"day", day.String(),
			"from", latest.ID,
			"to", next.ID,
		)
	}
}
