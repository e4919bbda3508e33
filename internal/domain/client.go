package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client is a person coached by a trainer. A client owns its workouts and measurements.
type Client struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"` // Trainer who registered the client
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	DateOfBirth *time.Time         `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Goals       string             `bson:"goals,omitempty" json:"goals,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"` // Never changes after insert
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Validate checks the structural shape of a client.
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return InvalidInputf("client name is required")
	}
	if c.TrainerID == primitive.NilObjectID {
		return InvalidInputf("trainer id is required")
	}
	return nil
}
