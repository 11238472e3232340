package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/JohnZolton/lyfter-sub000/internal/models"
	"github.com/JohnZolton/lyfter-sub000/internal/progression"
	"github.com/JohnZolton/lyfter-sub000/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// snapshotResponse is what every session mutation returns: the new snapshot
// plus derived per-set verdicts and per-exercise phases for rendering.
type snapshotResponse struct {
	Workout  *models.Workout                   `json:"workout"`
	Verdicts map[uuid.UUID]progression.Verdict `json:"verdicts,omitempty"`
	Phases   map[uuid.UUID]session.Phase       `json:"phases,omitempty"`
}

func buildSnapshotResponse(w *models.Workout) snapshotResponse {
	resp := snapshotResponse{Workout: w}
	if w == nil {
		return resp
	}
	resp.Verdicts = map[uuid.UUID]progression.Verdict{}
	resp.Phases = map[uuid.UUID]session.Phase{}
	for i := range w.Exercises {
		ex := &w.Exercises[i]
		resp.Phases[ex.ID] = session.PhaseOf(ex)
		for j := range ex.Sets {
			resp.Verdicts[ex.Sets[j].ID] = progression.Classify(ex.Sets[j], ex.Sets[j].Prior)
		}
	}
	return resp
}

func (s *Server) writeSnapshot(w http.ResponseWriter, snap *models.Workout) {
	if snap == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active session"})
		return
	}
	writeJSON(w, http.StatusOK, buildSnapshotResponse(snap))
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

// handleStartSession loads a workout into the caller's active session.
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
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

	snap := s.sessionFor(uid).SetWorkout(workout)
	s.writeSnapshot(w, snap)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	s.writeSnapshot(w, s.sessionFor(uid).Snapshot())
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	s.sessionFor(uid).SetWorkout(nil)
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.persister.Status())
}

func (s *Server) handleUpdateMeta(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req struct {
		Description string         `json:"description"`
		NominalDay  models.Weekday `json:"nominal_day"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	st := s.sessionFor(uid)
	snap := st.UpdateWorkoutMeta(req.Description, req.NominalDay)
	if snap != nil {
		workoutID := snap.ID
		description := snap.Description
		day := snap.NominalDay
		s.persist("update workout meta", func(ctx context.Context) error {
			return s.db.UpdateWorkoutMeta(ctx, workoutID, description, day)
		})
	}
	s.writeSnapshot(w, snap)
}

// handleAddExercise creates the exercise record synchronously (the store
// needs its id), then appends it to the snapshot.
func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req struct {
		Description string             `json:"description"`
		MuscleGroup models.MuscleGroup `json:"muscle_group"`
		Order       int                `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if !req.MuscleGroup.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid muscle group"})
		return
	}

	st := s.sessionFor(uid)
	snap := st.Snapshot()
	if snap == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active session"})
		return
	}
	order := req.Order
	if order <= 0 {
		order = len(snap.Exercises) + 1
	}

	ex, err := s.db.AddExercise(r.Context(), snap.ID, order, req.MuscleGroup, req.Description)
	if err != nil {
		s.log.Error("add exercise failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.writeSnapshot(w, st.AddExercise(*ex))
}

func (s *Server) handleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exerciseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}

	snap := s.sessionFor(uid).RemoveExercise(exerciseID)
	s.persist("delete exercise", func(ctx context.Context) error {
		return s.db.DeleteExercise(ctx, exerciseID)
	})
	s.writeSnapshot(w, snap)
}

// handleReplaceExercise swaps an exercise for a fresh one in the same slot:
// the replacement record is created synchronously, the old record's delete
// rides the persistence trail.
func (s *Server) handleReplaceExercise(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	oldID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}
	var req struct {
		Description string             `json:"description"`
		MuscleGroup models.MuscleGroup `json:"muscle_group"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if !req.MuscleGroup.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid muscle group"})
		return
	}

	st := s.sessionFor(uid)
	snap := st.Snapshot()
	if snap == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active session"})
		return
	}
	order := 0
	for i := range snap.Exercises {
		if snap.Exercises[i].ID == oldID {
			order = snap.Exercises[i].Order
			break
		}
	}
	if order == 0 {
		s.writeSnapshot(w, snap)
		return
	}

	ex, err := s.db.AddExercise(r.Context(), snap.ID, order, req.MuscleGroup, req.Description)
	if err != nil {
		s.log.Error("replace exercise failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.persist("delete replaced exercise", func(ctx context.Context) error {
		return s.db.DeleteExercise(ctx, oldID)
	})
	s.writeSnapshot(w, st.ReplaceExercise(oldID, *ex))
}

func (s *Server) handleUpdateExerciseDescription(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exerciseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}
	var req struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	snap := s.sessionFor(uid).UpdateExerciseDescription(exerciseID, req.Description)
	s.persist("update exercise description", func(ctx context.Context) error {
		return s.db.UpdateExerciseDescription(ctx, exerciseID, req.Description)
	})
	s.writeSnapshot(w, snap)
}

func (s *Server) handleMoveExercise(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exerciseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}
	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	st := s.sessionFor(uid)
	var snap *models.Workout
	switch req.Direction {
	case "up":
		snap = st.MoveExerciseUp(exerciseID)
	case "down":
		snap = st.MoveExerciseDown(exerciseID)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "direction must be up or down"})
		return
	}
	s.writeSnapshot(w, snap)
}

// handleAddSet appends one set to the exercise, cloned from its current
// last set.
func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exerciseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}

	st := s.sessionFor(uid)
	snap := st.Snapshot()
	if snap == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active session"})
		return
	}

	set := models.Set{
		ID:         uuid.New(),
		ExerciseID: exerciseID,
		SetNumber:  1,
		RIR:        models.DefaultRIR,
	}
	for i := range snap.Exercises {
		ex := &snap.Exercises[i]
		if ex.ID != exerciseID {
			continue
		}
		if last := ex.LastSet(); last != nil {
			set.SetNumber = last.SetNumber + 1
			set.Weight = last.Weight
			set.RIR = last.RIR
			set.TargetWeight = last.TargetWeight
			set.TargetReps = last.TargetReps
		}
		break
	}

	after := st.AddSet(set)
	s.persist("create set", func(ctx context.Context) error {
		return s.db.CreateSet(ctx, &set)
	})
	s.writeSnapshot(w, after)
}

func (s *Server) handleRemoveSet(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exerciseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}

	snap, removed := s.sessionFor(uid).RemoveSet(exerciseID)
	if removed != nil {
		setID := removed.ID
		s.persist("delete set", func(ctx context.Context) error {
			return s.db.DeleteSet(ctx, setID)
		})
	}
	s.writeSnapshot(w, snap)
}

// handleUpdateSet records logged performance for one set. Negative values
// are rejected before the store is touched; the comparator and cascade never
// see them.
func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	setID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid set ID"})
		return
	}
	var req struct {
		Weight *int `json:"weight"`
		Reps   *int `json:"reps"`
		RIR    *int `json:"rir"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if (req.Weight != nil && *req.Weight < 0) || (req.Reps != nil && *req.Reps < 0) || (req.RIR != nil && *req.RIR < 0) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight, reps and rir must be non-negative"})
		return
	}

	st := s.sessionFor(uid)
	snap := st.Snapshot()
	if snap == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active session"})
		return
	}

	var current *models.Set
	var exerciseID uuid.UUID
	for i := range snap.Exercises {
		for j := range snap.Exercises[i].Sets {
			if snap.Exercises[i].Sets[j].ID == setID {
				current = &snap.Exercises[i].Sets[j]
				exerciseID = snap.Exercises[i].ID
			}
		}
	}
	if current == nil {
		s.writeSnapshot(w, snap)
		return
	}

	// Absent fields keep the set's current values; only reps is always
	// replaced, since clearing it is how a logged set is un-logged.
	updated := current.Clone()
	if req.Weight != nil {
		updated.Weight = *req.Weight
	}
	updated.Reps = req.Reps
	if req.RIR != nil {
		updated.RIR = *req.RIR
	}

	after := st.UpdateSet(exerciseID, updated)
	s.persist("update set", func(ctx context.Context) error {
		return s.db.UpdateSet(ctx, setID, updated.Weight, updated.Reps, updated.RIR)
	})
	s.writeSnapshot(w, after)
}

// handleSoreness records the pre-exercise soreness answer and mirrors its
// volume adjustment (extra set or dropped set) to persistence.
func (s *Server) handleSoreness(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exerciseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}
	var req struct {
		Answer models.Soreness `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if !req.Answer.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid soreness answer"})
		return
	}

	snap, effect := s.sessionFor(uid).ApplySoreness(exerciseID, req.Answer)
	if effect != nil {
		answer := effect.Answer
		s.persist("record soreness", func(ctx context.Context) error {
			return s.db.RecordExerciseSoreness(ctx, exerciseID, answer)
		})
		if effect.AddedSet != nil {
			added := *effect.AddedSet
			s.persist("create soreness set", func(ctx context.Context) error {
				return s.db.CreateSet(ctx, &added)
			})
		}
		if effect.RemovedSet != nil {
			removedID := effect.RemovedSet.ID
			s.persist("delete soreness set", func(ctx context.Context) error {
				return s.db.DeleteSet(ctx, removedID)
			})
		}
	}
	s.writeSnapshot(w, snap)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exerciseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}
	var req struct {
		Pump   models.Pump   `json:"pump"`
		Effort models.Effort `json:"effort"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if !req.Pump.Valid() || !req.Effort.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pump and effort ratings are both required"})
		return
	}

	snap, saved := s.sessionFor(uid).SaveFeedback(exerciseID, req.Pump, req.Effort)
	if saved {
		s.persist("record exercise feedback", func(ctx context.Context) error {
			return s.db.RecordExerciseFeedback(ctx, exerciseID, req.Pump, req.Effort)
		})
	}
	s.writeSnapshot(w, snap)
}

// handleTakeDeload truncates the owning exercise at the given set.
func (s *Server) handleTakeDeload(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req struct {
		SetID uuid.UUID `json:"set_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	snap, dropped := s.sessionFor(uid).TakeDeload(req.SetID)
	for i := range dropped {
		setID := dropped[i].ID
		s.persist("delete deloaded set", func(ctx context.Context) error {
			return s.db.DeleteSet(ctx, setID)
		})
	}
	s.writeSnapshot(w, snap)
}

// handleDenyDeload annotates the owning exercise so the UI stops prompting.
// Session-local only; nothing is persisted.
func (s *Server) handleDenyDeload(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req struct {
		SetID uuid.UUID `json:"set_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.writeSnapshot(w, s.sessionFor(uid).SetDeloadDenied(req.SetID))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
