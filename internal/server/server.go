package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/JohnZolton/lyfter-sub000/internal/models"
	"github.com/JohnZolton/lyfter-sub000/internal/session"
	"github.com/JohnZolton/lyfter-sub000/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Persistence is the slice of the storage layer the HTTP handlers drive.
// *storage.DB satisfies it; tests substitute a fake.
type Persistence interface {
	UserSource

	CreateWorkout(ctx context.Context, w *models.Workout) error
	ListWorkouts(ctx context.Context, userID, limit int) ([]models.Workout, error)
	GetWorkoutByID(ctx context.Context, workoutID uuid.UUID) (*models.Workout, error)
	UpdateWorkoutMeta(ctx context.Context, workoutID uuid.UUID, description string, nominalDay models.Weekday) error
	CreateWorkoutFromPrevious(ctx context.Context, priorWorkoutID uuid.UUID) (*models.Workout, error)
	LatestWorkoutForDay(ctx context.Context, planID uuid.UUID, day models.Weekday) (*models.Workout, error)

	AddExercise(ctx context.Context, workoutID uuid.UUID, order int, muscleGroup models.MuscleGroup, description string) (*models.Exercise, error)
	DeleteExercise(ctx context.Context, exerciseID uuid.UUID) error
	UpdateExerciseDescription(ctx context.Context, exerciseID uuid.UUID, description string) error
	RecordExerciseSoreness(ctx context.Context, exerciseID uuid.UUID, answer models.Soreness) error
	RecordExerciseFeedback(ctx context.Context, exerciseID uuid.UUID, pump models.Pump, effort models.Effort) error

	CreateSet(ctx context.Context, s *models.Set) error
	UpdateSet(ctx context.Context, setID uuid.UUID, weight int, reps *int, rir int) error
	DeleteSet(ctx context.Context, setID uuid.UUID) error

	CreatePlan(ctx context.Context, p *models.WorkoutPlan) error
	GetPlan(ctx context.Context, planID uuid.UUID) (*models.WorkoutPlan, error)
	ListPlans(ctx context.Context, userID int) ([]models.WorkoutPlan, error)
}

// Compile-time check: *storage.DB satisfies Persistence.
var _ Persistence = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db        Persistence
	log       *slog.Logger
	persister *session.Persister
	router    chi.Router

	mu       sync.Mutex
	sessions map[int]*session.Store
}

// New creates a new Server with all routes configured. Identity defaults to
// the dev middleware; SetTailscale switches to tailnet identity.
func New(db Persistence, persister *session.Persister, log *slog.Logger) *Server {
	s := &Server{
		db:        db,
		log:       log,
		persister: persister,
		sessions:  map[int]*session.Store{},
	}
	s.buildRouter(DevIdentity)
	return s
}

// SetTailscale switches identity resolution to the tailnet local client.
func (s *Server) SetTailscale(lc WhoIsClient) {
	s.buildRouter(TailscaleIdentity(lc, s.db, s.log))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) buildRouter(identity func(http.Handler) http.Handler) {
	r := chi.NewRouter()
	r.Use(RequestLogging(s.log))
	r.Use(CORS)
	r.Use(identity)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)

		r.Post("/workouts", s.handleCreateWorkout)
		r.Get("/workouts", s.handleListWorkouts)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Post("/workouts/{id}/rollover", s.handleRollover)
		r.Post("/workouts/{id}/session", s.handleStartSession)

		r.Get("/session", s.handleGetSession)
		r.Delete("/session", s.handleEndSession)
		r.Get("/session/sync", s.handleSyncStatus)
		r.Post("/session/meta", s.handleUpdateMeta)
		r.Post("/session/exercises", s.handleAddExercise)
		r.Delete("/session/exercises/{id}", s.handleRemoveExercise)
		r.Post("/session/exercises/{id}/replace", s.handleReplaceExercise)
		r.Post("/session/exercises/{id}/description", s.handleUpdateExerciseDescription)
		r.Post("/session/exercises/{id}/move", s.handleMoveExercise)
		r.Post("/session/exercises/{id}/sets", s.handleAddSet)
		r.Delete("/session/exercises/{id}/sets", s.handleRemoveSet)
		r.Post("/session/exercises/{id}/soreness", s.handleSoreness)
		r.Post("/session/exercises/{id}/feedback", s.handleFeedback)
		r.Post("/session/sets/{id}", s.handleUpdateSet)
		r.Post("/session/deload", s.handleTakeDeload)
		r.Post("/session/deload/deny", s.handleDenyDeload)

		r.Post("/plans", s.handleCreatePlan)
		r.Get("/plans", s.handleListPlans)
		r.Get("/plans/{id}", s.handleGetPlan)
		r.Post("/plans/{id}/start", s.handleStartDay)
	})

	s.router = r
}

// sessionFor returns the user's active-workout store, creating an empty one
// on first use. One store per user keeps the single-writer contract.
func (s *Server) sessionFor(userID int) *session.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[userID]
	if !ok {
		st = session.NewStore()
		s.sessions[userID] = st
	}
	return st
}

// persist schedules a storage call on the fire-and-forget trail. The local
// snapshot has already moved on; a failure is logged and journaled, never
// surfaced into the mutation path.
func (s *Server) persist(name string, fn func(context.Context) error) {
	s.persister.Enqueue(name, fn)
}
