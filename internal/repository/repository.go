package repository

import (
	"alcyxob/trainer-analytics/internal/domain" // Import our defined domain models
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ClientRepository defines the interface for interacting with client data.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error) // Newest first
	// Update overwrites the mutable profile fields. CreatedAt and TrainerID are never written.
	Update(ctx context.Context, client *domain.Client) error
	// DeleteCascade removes the client together with all of its workouts and
	// measurements. Either everything is removed or nothing is.
	DeleteCascade(ctx context.Context, id primitive.ObjectID) error
}

// ExerciseRepository defines the interface for interacting with the exercise catalog.
type ExerciseRepository interface {
	// Create returns ErrDuplicate when an exercise with the same name exists.
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	ListByName(ctx context.Context) ([]domain.Exercise, error) // Sorted by name, ascending
	// EnsureByName inserts the exercise unless an exercise with the same name
	// already exists. It reports whether a new entry was inserted and is safe
	// to call concurrently for the same name. A caller that loses an insert
	// race to another writer gets ErrDuplicate; the entry exists either way.
	EnsureByName(ctx context.Context, exercise *domain.Exercise) (bool, error)
}

// WorkoutFilter narrows workout queries. Nil fields are not applied.
type WorkoutFilter struct {
	ClientID *primitive.ObjectID
	From     *time.Time // Inclusive
	To       *time.Time // Exclusive
	Limit    int64      // 0 means no limit
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	// Create persists the workout header and all of its exercise entries as one unit.
	// It returns ErrNotFound when the owning client does not exist at write time.
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	List(ctx context.Context, filter WorkoutFilter) ([]domain.Workout, error) // Newest date first
	// ReplaceExercises swaps the entry set and its derived total in a single write.
	ReplaceExercises(ctx context.Context, workoutID primitive.ObjectID, exercises []domain.WorkoutExercise, totalVolume float64) error
	CountByClient(ctx context.Context) (map[primitive.ObjectID]int64, error)
}

// MeasurementFilter narrows measurement queries. Nil fields are not applied.
type MeasurementFilter struct {
	ClientID *primitive.ObjectID
	Limit    int64 // 0 means no limit
}

// MeasurementRepository defines the interface for interacting with measurement data.
type MeasurementRepository interface {
	// Create returns ErrNotFound when the owning client does not exist at write time.
	Create(ctx context.Context, measurement *domain.Measurement) (primitive.ObjectID, error)
	List(ctx context.Context, filter MeasurementFilter) ([]domain.Measurement, error) // Newest date first
	CountByClient(ctx context.Context) (map[primitive.ObjectID]int64, error)
}
