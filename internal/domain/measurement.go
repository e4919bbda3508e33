package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MeasurementField names one numeric body observation.
type MeasurementField string

const (
	FieldWeight         MeasurementField = "weight"
	FieldBodyFatPercent MeasurementField = "bodyFatPercent"
	FieldMuscleMass     MeasurementField = "muscleMass"
	FieldBMI            MeasurementField = "bmi"
	FieldChest          MeasurementField = "chest"
	FieldWaist          MeasurementField = "waist"
	FieldHips           MeasurementField = "hips"
	FieldLeftArm        MeasurementField = "leftArm"
	FieldRightArm       MeasurementField = "rightArm"
	FieldLeftThigh      MeasurementField = "leftThigh"
	FieldRightThigh     MeasurementField = "rightThigh"
	FieldNeck           MeasurementField = "neck"
)

// MeasurementFields lists every numeric observation a measurement can carry.
var MeasurementFields = []MeasurementField{
	FieldWeight, FieldBodyFatPercent, FieldMuscleMass, FieldBMI,
	FieldChest, FieldWaist, FieldHips,
	FieldLeftArm, FieldRightArm, FieldLeftThigh, FieldRightThigh, FieldNeck,
}

// Measurement is an append-only body measurement log entry of a client.
// A nil field means the value was not observed, which is different from zero.
type Measurement struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID       primitive.ObjectID `bson:"clientId" json:"clientId"`
	Date           time.Time          `bson:"date" json:"date"`
	Weight         *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
	BodyFatPercent *float64           `bson:"bodyFatPercent,omitempty" json:"bodyFatPercent,omitempty"`
	MuscleMass     *float64           `bson:"muscleMass,omitempty" json:"muscleMass,omitempty"`
	BMI            *float64           `bson:"bmi,omitempty" json:"bmi,omitempty"`
	Chest          *float64           `bson:"chest,omitempty" json:"chest,omitempty"`
	Waist          *float64           `bson:"waist,omitempty" json:"waist,omitempty"`
	Hips           *float64           `bson:"hips,omitempty" json:"hips,omitempty"`
	LeftArm        *float64           `bson:"leftArm,omitempty" json:"leftArm,omitempty"`
	RightArm       *float64           `bson:"rightArm,omitempty" json:"rightArm,omitempty"`
	LeftThigh      *float64           `bson:"leftThigh,omitempty" json:"leftThigh,omitempty"`
	RightThigh     *float64           `bson:"rightThigh,omitempty" json:"rightThigh,omitempty"`
	Neck           *float64           `bson:"neck,omitempty" json:"neck,omitempty"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// Field returns a pointer to the storage slot of the named observation, or nil for an unknown name.
func (m *Measurement) Field(name MeasurementField) **float64 {
	switch name {
	case FieldWeight:
		return &m.Weight
	case FieldBodyFatPercent:
		return &m.BodyFatPercent
	case FieldMuscleMass:
		return &m.MuscleMass
	case FieldBMI:
		return &m.BMI
	case FieldChest:
		return &m.Chest
	case FieldWaist:
		return &m.Waist
	case FieldHips:
		return &m.Hips
	case FieldLeftArm:
		return &m.LeftArm
	case FieldRightArm:
		return &m.RightArm
	case FieldLeftThigh:
		return &m.LeftThigh
	case FieldRightThigh:
		return &m.RightThigh
	case FieldNeck:
		return &m.Neck
	}
	return nil
}

func (m *Measurement) Validate() error {
	if m.ClientID == primitive.NilObjectID {
		return InvalidInputf("client id is required")
	}
	if m.Date.IsZero() {
		return InvalidInputf("measurement date is required")
	}
	return nil
}
