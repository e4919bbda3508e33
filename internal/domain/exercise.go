// internal/domain/exercise.go
package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise represents a single exercise definition in the shared catalog.
// Catalog entries are reference data and are not owned by any client.
type Exercise struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"` // Unique within the catalog
	Category     string             `bson:"category" json:"category"`
	MuscleGroup  string             `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"` // e.g., "Chest", "Quadriceps"
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Instructions string             `bson:"instructions,omitempty" json:"instructions,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

func (e *Exercise) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return InvalidInputf("exercise name is required")
	}
	if strings.TrimSpace(e.Category) == "" {
		return InvalidInputf("exercise category is required")
	}
	return nil
}
