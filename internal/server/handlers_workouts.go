package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/JohnZolton/lyfter-sub000/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req struct {
		Description string         `json:"description"`
		NominalDay  models.Weekday `json:"nominal_day"`
		PlanID      *uuid.UUID     `json:"plan_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if !req.NominalDay.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid nominal day"})
		return
	}

	workout := &models.Workout{
		ID:          uuid.New(),
		PlanID:      req.PlanID,
		UserID:      uid,
		NominalDay:  req.NominalDay,
		Description: req.Description,
	}
	if err := s.db.CreateWorkout(r.Context(), workout); err != nil {
		s.log.Error("create workout failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	workouts, err := s.db.ListWorkouts(r.Context(), uid, limit)
	if err != nil {
		s.log.Error("list workouts failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	workoutID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return
	}

	workout, err := s.db.GetWorkoutByID(r.Context(), workoutID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	if workout.UserID != uid {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "not your workout"})
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

// handleRollover clones a completed workout into the next cycle's template.
func (s *Server) handleRollover(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	workoutID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return
	}

	prior, err := s.db.GetWorkoutByID(r.Context(), workoutID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	if prior.UserID != uid {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "not your workout"})
		return
	}

	next, err := s.db.CreateWorkoutFromPrevious(r.Context(), workoutID)
	if err != nil {
		s.log.Error("rollover failed", "workout_id", workoutID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, next)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "plan name is required"})
		return
	}

	plan := &models.WorkoutPlan{ID: uuid.New(), UserID: uid, Name: req.Name}
	if err := s.db.CreatePlan(r.Context(), plan); err != nil {
		s.log.Error("create plan failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	plans, err := s.db.ListPlans(r.Context(), uid)
	if err != nil {
		s.log.Error("list plans failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

// handleStartDay loads a plan day's current-cycle workout into the caller's
// active session.
func (s *Server) handleStartDay(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan ID"})
		return
	}
	var req struct {
		NominalDay models.Weekday `json:"nominal_day"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if !req.NominalDay.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid nominal day"})
		return
	}

	plan, err := s.db.GetPlan(r.Context(), planID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "plan not found"})
		return
	}
	if plan.UserID != uid {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "not your plan"})
		return
	}

	latest, err := s.db.LatestWorkoutForDay(r.Context(), planID, req.NominalDay)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no workout for that day"})
		return
	}
	workout, err := s.db.GetWorkoutByID(r.Context(), latest.ID)
	if err != nil {
		s.log.Error("start day: load workout failed", "workout_id", latest.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	snap := s.sessionFor(uid).SetWorkout(workout)
	s.writeSnapshot(w, snap)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan ID"})
		return
	}

	plan, err := s.db.GetPlan(r.Context(), planID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "plan not found"})
		return
	}
	if plan.UserID != uid {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "not your plan"})
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
