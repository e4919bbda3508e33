package api

import (
	"alcyxob/trainer-analytics/internal/domain"
	"alcyxob/trainer-analytics/internal/service"
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MeasurementHandler records body measurements.
type MeasurementHandler struct {
	measurementService service.MeasurementService
	loc                *time.Location
}

func NewMeasurementHandler(measurementService service.MeasurementService, loc *time.Location) *MeasurementHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &MeasurementHandler{measurementService: measurementService, loc: loc}
}

// rawValue keeps the text of a JSON value so that both 82.4 and "82.4" are
// accepted and parsing is left to the service. null reads as blank.
type rawValue string

func (v *rawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = rawValue(s)
		return nil
	}
	*v = rawValue(data)
	return nil
}

type CreateMeasurementRequest struct {
	ClientID       string   `json:"clientId" binding:"required"`
	Date           string   `json:"date" binding:"required"`
	Weight         rawValue `json:"weight"`
	BodyFatPercent rawValue `json:"bodyFatPercent"`
	MuscleMass     rawValue `json:"muscleMass"`
	BMI            rawValue `json:"bmi"`
	Chest          rawValue `json:"chest"`
	Waist          rawValue `json:"waist"`
	Hips           rawValue `json:"hips"`
	LeftArm        rawValue `json:"leftArm"`
	RightArm       rawValue `json:"rightArm"`
	LeftThigh      rawValue `json:"leftThigh"`
	RightThigh     rawValue `json:"rightThigh"`
	Neck           rawValue `json:"neck"`
	Notes          string   `json:"notes"`
}

func (r *CreateMeasurementRequest) values() map[domain.MeasurementField]string {
	return map[domain.MeasurementField]string{
		domain.FieldWeight:         string(r.Weight),
		domain.FieldBodyFatPercent: string(r.BodyFatPercent),
		domain.FieldMuscleMass:     string(r.MuscleMass),
		domain.FieldBMI:            string(r.BMI),
		domain.FieldChest:          string(r.Chest),
		domain.FieldWaist:          string(r.Waist),
		domain.FieldHips:           string(r.Hips),
		domain.FieldLeftArm:        string(r.LeftArm),
		domain.FieldRightArm:       string(r.RightArm),
		domain.FieldLeftThigh:      string(r.LeftThigh),
		domain.FieldRightThigh:     string(r.RightThigh),
		domain.FieldNeck:           string(r.Neck),
	}
}

// CreateMeasurement godoc
// @Summary Record a body measurement for a client
// @Description Blank or missing values are stored as not observed. Malformed or negative values are rejected.
// @Tags Measurements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param measurement body CreateMeasurementRequest true "Measurement values"
// @Success 201 {object} domain.Measurement
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Client not found"
// @Router /measurements [post]
func (h *MeasurementHandler) CreateMeasurement(c *gin.Context) {
	var req CreateMeasurementRequest
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

	measurement, err := h.measurementService.CreateMeasurement(c.Request.Context(), service.MeasurementInput{
		ClientID: clientID,
		Date:     date,
		Values:   req.values(),
		Notes:    req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, measurement)
}

// ListMeasurements returns measurements newest first, optionally for one client.
func (h *MeasurementHandler) ListMeasurements(c *gin.Context) {
	clientID, ok := queryID(c, "clientId")
	if !ok {
		return
	}
	measurements, err := h.measurementService.ListMeasurements(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, measurements)
}
