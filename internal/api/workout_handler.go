package api

import (
	"alcyxob/trainer-analytics/internal/domain"
	"alcyxob/trainer-analytics/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler logs and browses training sessions.
type WorkoutHandler struct {
	workoutService service.WorkoutService
	loc            *time.Location
}

// NewWorkoutHandler creates a new WorkoutHandler. Plain dates are read in loc.
func NewWorkoutHandler(workoutService service.WorkoutService, loc *time.Location) *WorkoutHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &WorkoutHandler{workoutService: workoutService, loc: loc}
}

// --- DTOs ---

type WorkoutEntryRequest struct {
	ExerciseID string   `json:"exerciseId"`
	Sets       int      `json:"sets"`
	Reps       int      `json:"reps"`
	Weight     *float64 `json:"weight"` // kg, omitted for bodyweight work
	Duration   *int     `json:"duration"`
	Distance   *float64 `json:"distance"`
	RestTime   *int     `json:"restTime"`
	Notes      string   `json:"notes"`
}

type CreateWorkoutRequest struct {
	ClientID  string                `json:"clientId" binding:"required"`
	Name      string                `json:"name"`
	Date      string                `json:"date" binding:"required"` // YYYY-MM-DD or RFC 3339
	Type      string                `json:"type" binding:"omitempty,oneof=in_person assigned"`
	Status    string                `json:"status" binding:"omitempty,oneof=planned completed skipped"`
	Notes     string                `json:"notes"`
	Exercises []WorkoutEntryRequest `json:"exercises"`
}

type UpdateWorkoutEntryRequest struct {
	Sets        *int     `json:"sets"`
	Reps        *int     `json:"reps"`
	Weight      *float64 `json:"weight"`
	ClearWeight bool     `json:"clearWeight"`
	Notes       *string  `json:"notes"`
}

// --- Handler Methods ---

// CreateWorkout godoc
// @Summary Log a workout for a client
// @Description Entries without a valid exercise id or with no sets are dropped. Total volume is computed server side.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body CreateWorkoutRequest true "Workout with its exercise entries"
// @Success 201 {object} service.WorkoutDetail
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Client or exercise not found"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	trainerID, err := getTrainerIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer.")
		return
	}

	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid clientId format")
		return
	}
	date, err := domain.ParseDate(req.Date, h.loc)
	if err != nil {
		respondError(c, err)
		return
	}

	input := service.WorkoutInput{
		ClientID:  clientID,
		Name:      req.Name,
		Date:      date,
		Type:      domain.WorkoutType(req.Type),
		Status:    domain.WorkoutStatus(req.Status),
		Notes:     req.Notes,
		Exercises: make([]service.WorkoutEntryInput, 0, len(req.Exercises)),
	}
	for _, e := range req.Exercises {
		// A malformed id counts as a missing one; the service drops such entries.
		exerciseID, _ := primitive.ObjectIDFromHex(e.ExerciseID)
		input.Exercises = append(input.Exercises, service.WorkoutEntryInput{
			ExerciseID: exerciseID,
			Sets:       e.Sets,
			Reps:       e.Reps,
			Weight:     e.Weight,
			Duration:   e.Duration,
			Distance:   e.Distance,
			RestTime:   e.RestTime,
			Notes:      e.Notes,
		})
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), trainerID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workout)
}

// ListWorkouts godoc
// @Summary List workouts, newest first
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param clientId query string false "Only this client's workouts"
// @Param from query string false "Only workouts on or after this date"
// @Success 200 {array} service.WorkoutDetail
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	clientID, ok := queryID(c, "clientId")
	if !ok {
		return
	}
	filter := service.WorkoutFilter{ClientID: clientID}
	if raw := c.Query("from"); raw != "" {
		from, err := domain.ParseDate(raw, h.loc)
		if err != nil {
			respondError(c, err)
			return
		}
		filter.From = &from
	}

	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	workoutID, ok := pathID(c, "id")
	if !ok {
		return
	}
	workout, err := h.workoutService.GetWorkout(c.Request.Context(), workoutID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// UpdateWorkoutEntry corrects one logged entry and recomputes the workout total.
func (h *WorkoutHandler) UpdateWorkoutEntry(c *gin.Context) {
	workoutID, ok := pathID(c, "id")
	if !ok {
		return
	}
	entryID, ok := pathID(c, "entryId")
	if !ok {
		return
	}

	var req UpdateWorkoutEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	workout, err := h.workoutService.UpdateWorkoutEntry(c.Request.Context(), workoutID, entryID, service.WorkoutEntryPatch{
		Sets:        req.Sets,
		Reps:        req.Reps,
		Weight:      req.Weight,
		ClearWeight: req.ClearWeight,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}
