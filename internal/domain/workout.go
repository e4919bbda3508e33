package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutType tells whether the session happened with the trainer or was done by the client alone.
type WorkoutType string

const (
	WorkoutInPerson WorkoutType = "in_person"
	WorkoutAssigned WorkoutType = "assigned"
)

func (t WorkoutType) Valid() bool {
	return t == WorkoutInPerson || t == WorkoutAssigned
}

// WorkoutStatus tracks the workout lifecycle.
type WorkoutStatus string

const (
	WorkoutPlanned   WorkoutStatus = "planned"
	WorkoutCompleted WorkoutStatus = "completed"
	WorkoutSkipped   WorkoutStatus = "skipped"
)

func (s WorkoutStatus) Valid() bool {
	switch s {
	case WorkoutPlanned, WorkoutCompleted, WorkoutSkipped:
		return true
	}
	return false
}

// Workout represents a single logged training session of a client.
// The exercise entries are stored inside the workout document, so the header
// and its entries are always written together.
type Workout struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`   // Owning client
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"` // Who logged it
	Name        string             `bson:"name,omitempty" json:"name,omitempty"`
	Date        time.Time          `bson:"date" json:"date"`
	Type        WorkoutType        `bson:"type" json:"type"`
	Status      WorkoutStatus      `bson:"status" json:"status"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Exercises   []WorkoutExercise  `bson:"exercises" json:"exercises"`
	TotalVolume float64            `bson:"totalVolume" json:"totalVolume"` // Derived, sum of entry volumes
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutExercise is one logged performance of one catalog exercise within a workout.
type WorkoutExercise struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	WorkoutID  primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"` // Reference into the catalog
	Sets       int                `bson:"sets" json:"sets"`
	Reps       int                `bson:"reps" json:"reps"`
	Weight     *float64           `bson:"weight,omitempty" json:"weight,omitempty"`     // nil for bodyweight work
	Duration   *int               `bson:"duration,omitempty" json:"duration,omitempty"` // seconds
	Distance   *float64           `bson:"distance,omitempty" json:"distance,omitempty"`
	RestTime   *int               `bson:"restTime,omitempty" json:"restTime,omitempty"` // seconds
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Volume     float64            `bson:"volume" json:"volume"` // Derived, sets x reps x weight
}

// Validate checks the workout header. Entries are validated while their volume is computed.
func (w *Workout) Validate() error {
	if w.ClientID == primitive.NilObjectID {
		return InvalidInputf("client id is required")
	}
	if w.TrainerID == primitive.NilObjectID {
		return InvalidInputf("trainer id is required")
	}
	if w.Date.IsZero() {
		return InvalidInputf("workout date is required")
	}
	if !w.Type.Valid() {
		return InvalidInputf("unknown workout type %q", w.Type)
	}
	if !w.Status.Valid() {
		return InvalidInputf("unknown workout status %q", w.Status)
	}
	return nil
}

// Entry returns the index of the entry with the given id, or -1.
func (w *Workout) Entry(entryID primitive.ObjectID) int {
	for i := range w.Exercises {
		if w.Exercises[i].ID == entryID {
			return i
		}
	}
	return -1
}
