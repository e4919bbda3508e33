package service

import (
	"alcyxob/trainer-analytics/internal/domain"
	"alcyxob/trainer-analytics/internal/metrics"
	"alcyxob/trainer-analytics/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultExercises is the catalog installed on first access. Custom entries
// live alongside it.
var DefaultExercises = []domain.Exercise{
	{Name: "Bench Press", Category: "Chest", MuscleGroup: "Chest"},
	{Name: "Squat", Category: "Legs", MuscleGroup: "Quadriceps"},
	{Name: "Deadlift", Category: "Back", MuscleGroup: "Hamstrings"},
	{Name: "Overhead Press", Category: "Shoulders", MuscleGroup: "Shoulders"},
	{Name: "Barbell Row", Category: "Back", MuscleGroup: "Lats"},
	{Name: "Pull-ups", Category: "Back", MuscleGroup: "Lats"},
	{Name: "Dips", Category: "Chest", MuscleGroup: "Triceps"},
	{Name: "Bicep Curls", Category: "Arms", MuscleGroup: "Biceps"},
	{Name: "Tricep Extensions", Category: "Arms", MuscleGroup: "Triceps"},
	{Name: "Lat Pulldown", Category: "Back", MuscleGroup: "Lats"},
	{Name: "Leg Press", Category: "Legs", MuscleGroup: "Quadriceps"},
	{Name: "Leg Curls", Category: "Legs", MuscleGroup: "Hamstrings"},
	{Name: "Calf Raises", Category: "Legs", MuscleGroup: "Calves"},
	{Name: "Plank", Category: "Core", MuscleGroup: "Abs"},
	{Name: "Russian Twists", Category: "Core", MuscleGroup: "Abs"},
	{Name: "Treadmill", Category: "Cardio", MuscleGroup: "Cardiovascular"},
	{Name: "Elliptical", Category: "Cardio", MuscleGroup: "Cardiovascular"},
	{Name: "Stationary Bike", Category: "Cardio", MuscleGroup: "Cardiovascular"},
}

// ExerciseInput carries the caller-supplied fields of a new catalog entry.
type ExerciseInput struct {
	Name         string
	Category     string
	MuscleGroup  string
	Description  string
	Instructions string
}

type ExerciseService interface {
	// SeedCatalog installs whichever DefaultExercises are missing and
	// returns how many entries this call inserted.
	SeedCatalog(ctx context.Context) (int, error)
	// ListExercises seeds the catalog if needed and returns it sorted by name.
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	CreateExercise(ctx context.Context, input ExerciseInput) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	metrics      *metrics.Manager
	seeded       atomic.Bool
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, m *metrics.Manager) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		metrics:      m,
	}
}

// SeedCatalog ensures each default entry by name. Every run walks the whole
// list, so an earlier partial run or custom entries never hide a default.
// After one complete run later calls return without touching storage;
// catalog entries are never deleted.
func (s *exerciseService) SeedCatalog(ctx context.Context) (int, error) {
	if s.seeded.Load() {
		return 0, nil
	}

	inserted := 0
	for _, d := range DefaultExercises {
		exercise := d
		ok, err := s.exerciseRepo.EnsureByName(ctx, &exercise)
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			// another seeder got there first
			log.WithError(fmt.Errorf("%w: %s", domain.ErrConflictDuplicateSeed, exercise.Name)).Debug("seed entry skipped")
		case err != nil:
			return inserted, repoError(s.metrics, "seedCatalog", err)
		case ok:
			inserted++
			s.metrics.CounterExercisesSeeded.Inc()
		}
	}
	s.seeded.Store(true)

	if inserted > 0 {
		log.WithField("inserted", inserted).Info("exercise catalog seeded")
	}
	return inserted, nil
}

func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	if _, err := s.SeedCatalog(ctx); err != nil {
		return nil, err
	}
	exercises, err := s.exerciseRepo.ListByName(ctx)
	if err != nil {
		return nil, repoError(s.metrics, "listExercises", err)
	}
	return exercises, nil
}

// CreateExercise adds a custom entry to the catalog. Names are unique.
func (s *exerciseService) CreateExercise(ctx context.Context, input ExerciseInput) (*domain.Exercise, error) {
	exercise := &domain.Exercise{
		Name:         strings.TrimSpace(input.Name),
		Category:     strings.TrimSpace(input.Category),
		MuscleGroup:  strings.TrimSpace(input.MuscleGroup),
		Description:  input.Description,
		Instructions: input.Instructions,
	}
	if err := exercise.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.InvalidInputf("exercise %q already exists", exercise.Name)
		}
		return nil, repoError(s.metrics, "createExercise", err)
	}

	log.WithFields(log.Fields{"exercise_id": exercise.ID.Hex(), "name": exercise.Name}).Info("exercise created")
	return exercise, nil
}

func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("exercise", exerciseID)
		}
		return nil, repoError(s.metrics, "getExercise", err)
	}
	return exercise, nil
}
