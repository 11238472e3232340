package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JohnZolton/lyfter-sub000/internal/models"
	"github.com/JohnZolton/lyfter-sub000/internal/progression"
	"github.com/JohnZolton/lyfter-sub000/internal/storage"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 90 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -90)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("List the user's workouts, newest first. Returns workout summaries with nominal day and exercise count."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of workouts to return. Defaults to 20.")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Retrieve one workout in full: exercises in order, every set with weight/reps/RIR, targets, and a progression verdict per logged set."),
	mcp.WithString("workout_id", mcp.Required(), mcp.Description("Workout UUID")),
)

var toolGetExerciseProgression = mcp.NewTool("get_exercise_progression",
	mcp.WithDescription("Set-by-set history for exercises matching a name filter, oldest first, with a match-or-beat verdict per set (improvement, maintenance, regression)."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name filter (partial match, e.g. 'bench press')")),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 90 days ago.")),
)

var toolGetTrainingSummary = mcp.NewTool("get_training_summary",
	mcp.WithDescription("Weekly training volume: workout count, logged sets, total reps and tonnage per week."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 90 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolEstimateOneRM = mcp.NewTool("estimate_one_rm",
	mcp.WithDescription("Estimate a one-rep max from a weight and rep count using the Epley formula."),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Weight lifted")),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Reps performed at that weight")),
)

// --- Tool handlers ---

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}
	uid := UserIDFromContext(ctx)

	workouts, err := h.ds.ListWorkouts(ctx, uid, limit)
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	type summary struct {
		ID          uuid.UUID `json:"id"`
		Description string    `json:"description"`
		NominalDay  string    `json:"nominal_day"`
		CreatedAt   time.Time `json:"created_at"`
		Exercises   int       `json:"exercises"`
	}
	out := make([]summary, 0, len(workouts))
	for i := range workouts {
		w := &workouts[i]
		out = append(out, summary{
			ID:          w.ID,
			Description: w.Description,
			NominalDay:  w.NominalDay.String(),
			CreatedAt:   w.CreatedAt,
			Exercises:   len(w.Exercises),
		})
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("workout_id")
	if err != nil {
		return mcp.NewToolResultError("workout_id parameter is required"), nil
	}
	workoutID, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("workout_id must be a UUID"), nil
	}

	workout, err := h.ds.GetWorkoutByID(ctx, workoutID)
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if workout.UserID != UserIDFromContext(ctx) {
		return mcp.NewToolResultError("workout not found"), nil
	}

	type annotatedSet struct {
		models.Set
		Verdict progression.Verdict `json:"verdict"`
	}
	type annotatedExercise struct {
		Description string             `json:"description"`
		MuscleGroup models.MuscleGroup `json:"muscle_group"`
		Order       int                `json:"order"`
		Sets        []annotatedSet     `json:"sets"`
	}

	out := struct {
		ID          uuid.UUID           `json:"id"`
		Description string              `json:"description"`
		NominalDay  string              `json:"nominal_day"`
		CreatedAt   time.Time           `json:"created_at"`
		Exercises   []annotatedExercise `json:"exercises"`
	}{
		ID:          workout.ID,
		Description: workout.Description,
		NominalDay:  workout.NominalDay.String(),
		CreatedAt:   workout.CreatedAt,
	}
	for i := range workout.Exercises {
		ex := &workout.Exercises[i]
		ae := annotatedExercise{
			Description: ex.Description,
			MuscleGroup: ex.MuscleGroup,
			Order:       ex.Order,
		}
		for j := range ex.Sets {
			ae.Sets = append(ae.Sets, annotatedSet{
				Set:     ex.Sets[j],
				Verdict: progression.Classify(ex.Sets[j], ex.Sets[j].Prior),
			})
		}
		out.Exercises = append(out.Exercises, ae)
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseProgression(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	start, _, err := defaultTimeRange(req.GetString("start", ""), "")
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	uid := UserIDFromContext(ctx)

	rows, err := h.ds.ExerciseHistory(ctx, uid, filter, start)
	if err != nil {
		h.log.Error("mcp get_exercise_progression", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	type progressionRow struct {
		storage.SetHistoryRow
		Verdict progression.Verdict `json:"verdict"`
	}
	out := make([]progressionRow, 0, len(rows))
	for i, row := range rows {
		current := models.Set{
			SetNumber:    row.SetNumber,
			Weight:       row.Weight,
			Reps:         row.Reps,
			RIR:          row.RIR,
			TargetWeight: row.TargetWeight,
			TargetReps:   row.TargetReps,
		}
		// The prior is the same-numbered set from this exercise's previous
		// workout in the result order.
		var prior *models.Set
		for j := i - 1; j >= 0; j-- {
			if rows[j].WorkoutID != row.WorkoutID && rows[j].Exercise == row.Exercise && rows[j].SetNumber == row.SetNumber {
				prior = &models.Set{
					SetNumber: rows[j].SetNumber,
					Weight:    rows[j].Weight,
					Reps:      rows[j].Reps,
					RIR:       rows[j].RIR,
				}
				break
			}
		}
		out = append(out, progressionRow{
			SetHistoryRow: row,
			Verdict:       progression.Classify(current, prior),
		})
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	uid := UserIDFromContext(ctx)

	weeks, err := h.ds.TrainingSummary(ctx, uid, start, end)
	if err != nil {
		h.log.Error("mcp get_training_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(weeks)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) estimateOneRM(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, err := req.RequireInt("weight")
	if err != nil {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}
	reps, err := req.RequireInt("reps")
	if err != nil {
		return mcp.NewToolResultError("reps parameter is required"), nil
	}
	if weight <= 0 || reps <= 0 {
		return mcp.NewToolResultError("weight and reps must be positive"), nil
	}

	oneRM := progression.EstimateOneRM(weight, reps)
	return mcp.NewToolResultText(fmt.Sprintf("Estimated 1RM: %.1f (Epley, from %d x %d)", oneRM, weight, reps)), nil
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
