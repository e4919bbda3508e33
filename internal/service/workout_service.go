package service

import (
	"alcyxob/trainer-analytics/internal/domain"
	"alcyxob/trainer-analytics/internal/metrics"
	"alcyxob/trainer-analytics/internal/repository"
	"alcyxob/trainer-analytics/internal/volume"
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutEntryInput is one exercise entry of a new workout.
type WorkoutEntryInput struct {
	ExerciseID primitive.ObjectID
	Sets       int
	Reps       int
	Weight     *float64
	Duration   *int
	Distance   *float64
	RestTime   *int
	Notes      string
}

// WorkoutInput carries a new workout. Type and Status fall back to
// in_person and completed when empty.
type WorkoutInput struct {
	ClientID  primitive.ObjectID
	Name      string
	Date      time.Time
	Type      domain.WorkoutType
	Status    domain.WorkoutStatus
	Notes     string
	Exercises []WorkoutEntryInput
}

// WorkoutEntryPatch changes one logged entry. Nil fields are left unchanged.
type WorkoutEntryPatch struct {
	Sets        *int
	Reps        *int
	Weight      *float64
	ClearWeight bool // turns the entry into bodyweight work
	Notes       *string
}

// WorkoutFilter narrows ListWorkouts.
type WorkoutFilter struct {
	ClientID *primitive.ObjectID
	From     *time.Time // inclusive
}

// WorkoutEntryDetail is an entry with its catalog exercise resolved.
type WorkoutEntryDetail struct {
	domain.WorkoutExercise
	ExerciseName     string `json:"exerciseName"`
	ExerciseCategory string `json:"exerciseCategory"`
}

// WorkoutDetail is a workout with the client name and resolved entries.
type WorkoutDetail struct {
	domain.Workout
	ClientName string               `json:"clientName"`
	Exercises  []WorkoutEntryDetail `json:"exercises"`
}

type WorkoutService interface {
	// CreateWorkout validates, computes volumes and persists the workout with
	// all of its entries as one unit. Nothing is written on failure.
	CreateWorkout(ctx context.Context, trainerID primitive.ObjectID, input WorkoutInput) (*WorkoutDetail, error)
	GetWorkout(ctx context.Context, workoutID primitive.ObjectID) (*WorkoutDetail, error)
	ListWorkouts(ctx context.Context, filter WorkoutFilter) ([]WorkoutDetail, error)
	// UpdateWorkoutEntry patches one entry and rewrites the derived volumes.
	UpdateWorkoutEntry(ctx context.Context, workoutID, entryID primitive.ObjectID, patch WorkoutEntryPatch) (*WorkoutDetail, error)
}

type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	clientRepo   repository.ClientRepository
	exerciseRepo repository.ExerciseRepository
	metrics      *metrics.Manager
}

func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	clientRepo repository.ClientRepository,
	exerciseRepo repository.ExerciseRepository,
	m *metrics.Manager,
) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		clientRepo:   clientRepo,
		exerciseRepo: exerciseRepo,
		metrics:      m,
	}
}

// validEntries drops entries without an exercise reference or with no sets.
func validEntries(entries []WorkoutEntryInput) []domain.WorkoutExercise {
	out := make([]domain.WorkoutExercise, 0, len(entries))
	for _, e := range entries {
		if e.ExerciseID == primitive.NilObjectID || e.Sets <= 0 {
			continue
		}
		out = append(out, domain.WorkoutExercise{
			ExerciseID: e.ExerciseID,
			Sets:       e.Sets,
			Reps:       e.Reps,
			Weight:     e.Weight,
			Duration:   e.Duration,
			Distance:   e.Distance,
			RestTime:   e.RestTime,
			Notes:      e.Notes,
		})
	}
	return out
}

func (s *workoutService) CreateWorkout(ctx context.Context, trainerID primitive.ObjectID, input WorkoutInput) (*WorkoutDetail, error) {
	entries := validEntries(input.Exercises)
	if len(entries) == 0 {
		return nil, domain.InvalidInputf("a workout needs at least one exercise with an exercise id and positive sets")
	}

	workout := &domain.Workout{
		ClientID:  input.ClientID,
		TrainerID: trainerID,
		Name:      strings.TrimSpace(input.Name),
		Date:      input.Date,
		Type:      input.Type,
		Status:    input.Status,
		Notes:     input.Notes,
		Exercises: entries,
	}
	if workout.Type == "" {
		workout.Type = domain.WorkoutInPerson
	}
	if workout.Status == "" {
		workout.Status = domain.WorkoutCompleted
	}
	if err := workout.Validate(); err != nil {
		return nil, err
	}
	if err := volume.Apply(workout); err != nil {
		return nil, err
	}

	client, err := s.clientRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("client", input.ClientID)
		}
		return nil, repoError(s.metrics, "getClient", err)
	}

	catalog := make(map[primitive.ObjectID]domain.Exercise, len(entries))
	for _, e := range entries {
		if _, seen := catalog[e.ExerciseID]; seen {
			continue
		}
		exercise, err := s.exerciseRepo.GetByID(ctx, e.ExerciseID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, notFound("exercise", e.ExerciseID)
			}
			return nil, repoError(s.metrics, "getExercise", err)
		}
		catalog[e.ExerciseID] = *exercise
	}

	// Create re-checks the client, which may have been deleted since the lookup.
	if _, err := s.workoutRepo.Create(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("client", input.ClientID)
		}
		return nil, repoError(s.metrics, "createWorkout", err)
	}

	s.metrics.CounterWorkoutsCreated.Inc()
	log.WithFields(log.Fields{
		"workout_id":   workout.ID.Hex(),
		"client_id":    workout.ClientID.Hex(),
		"entries":      len(workout.Exercises),
		"total_volume": workout.TotalVolume,
	}).Info("workout created")

	detail := detailOf(*workout, client.Name, catalog)
	return &detail, nil
}

func (s *workoutService) GetWorkout(ctx context.Context, workoutID primitive.ObjectID) (*WorkoutDetail, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("workout", workoutID)
		}
		return nil, repoError(s.metrics, "getWorkout", err)
	}
	return s.resolve(ctx, workout)
}

// ListWorkouts returns the matching workouts, newest first.
func (s *workoutService) ListWorkouts(ctx context.Context, filter WorkoutFilter) ([]WorkoutDetail, error) {
	workouts, err := s.workoutRepo.List(ctx, repository.WorkoutFilter{ClientID: filter.ClientID, From: filter.From})
	if err != nil {
		return nil, repoError(s.metrics, "listWorkouts", err)
	}

	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, repoError(s.metrics, "listClients", err)
	}
	names := make(map[primitive.ObjectID]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}

	details := make([]WorkoutDetail, 0, len(workouts))
	for _, w := range workouts {
		details = append(details, detailOf(w, names[w.ClientID], catalog))
	}
	return details, nil
}

func (s *workoutService) UpdateWorkoutEntry(ctx context.Context, workoutID, entryID primitive.ObjectID, patch WorkoutEntryPatch) (*WorkoutDetail, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("workout", workoutID)
		}
		return nil, repoError(s.metrics, "getWorkout", err)
	}

	i := workout.Entry(entryID)
	if i < 0 {
		return nil, notFound("workout entry", entryID)
	}

	entry := &workout.Exercises[i]
	if patch.Sets != nil {
		entry.Sets = *patch.Sets
	}
	if patch.Reps != nil {
		entry.Reps = *patch.Reps
	}
	if patch.ClearWeight {
		entry.Weight = nil
	} else if patch.Weight != nil {
		w := *patch.Weight
		entry.Weight = &w
	}
	if patch.Notes != nil {
		entry.Notes = *patch.Notes
	}

	if err := volume.Apply(workout); err != nil {
		return nil, err
	}
	if err := s.workoutRepo.ReplaceExercises(ctx, workoutID, workout.Exercises, workout.TotalVolume); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("workout", workoutID)
		}
		return nil, repoError(s.metrics, "updateWorkoutEntry", err)
	}

	log.WithFields(log.Fields{
		"workout_id":   workoutID.Hex(),
		"entry_id":     entryID.Hex(),
		"total_volume": workout.TotalVolume,
	}).Info("workout entry updated")
	return s.resolve(ctx, workout)
}

func (s *workoutService) resolve(ctx context.Context, workout *domain.Workout) (*WorkoutDetail, error) {
	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	var clientName string
	client, err := s.clientRepo.GetByID(ctx, workout.ClientID)
	switch {
	case err == nil:
		clientName = client.Name
	case !errors.Is(err, repository.ErrNotFound):
		return nil, repoError(s.metrics, "getClient", err)
	}

	detail := detailOf(*workout, clientName, catalog)
	return &detail, nil
}

func (s *workoutService) catalog(ctx context.Context) (map[primitive.ObjectID]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.ListByName(ctx)
	if err != nil {
		return nil, repoError(s.metrics, "listExercises", err)
	}
	catalog := make(map[primitive.ObjectID]domain.Exercise, len(exercises))
	for _, e := range exercises {
		catalog[e.ID] = e
	}
	return catalog, nil
}

func detailOf(w domain.Workout, clientName string, catalog map[primitive.ObjectID]domain.Exercise) WorkoutDetail {
	entries := make([]WorkoutEntryDetail, 0, len(w.Exercises))
	for _, e := range w.Exercises {
		exercise := catalog[e.ExerciseID]
		entries = append(entries, WorkoutEntryDetail{
			WorkoutExercise:  e,
			ExerciseName:     exercise.Name,
			ExerciseCategory: exercise.Category,
		})
	}
	return WorkoutDetail{Workout: w, ClientName: clientName, Exercises: entries}
}
