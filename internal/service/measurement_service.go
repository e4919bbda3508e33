package service

import (
	"alcyxob/trainer-analytics/internal/domain"
	"alcyxob/trainer-analytics/internal/metrics"
	"alcyxob/trainer-analytics/internal/repository"
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MeasurementInput carries a new measurement. Values holds the raw text of
// each observed field; blank values are treated as not observed.
type MeasurementInput struct {
	ClientID primitive.ObjectID
	Date     time.Time
	Values   map[domain.MeasurementField]string
	Notes    string
}

// MeasurementDetail is a measurement with the owning client's name.
type MeasurementDetail struct {
	domain.Measurement
	ClientName string `json:"clientName"`
}

type MeasurementService interface {
	CreateMeasurement(ctx context.Context, input MeasurementInput) (*domain.Measurement, error)
	// ListMeasurements returns measurements newest first, optionally for one client.
	ListMeasurements(ctx context.Context, clientID *primitive.ObjectID) ([]MeasurementDetail, error)
}

type measurementService struct {
	measurementRepo repository.MeasurementRepository
	clientRepo      repository.ClientRepository
	metrics         *metrics.Manager
}

func NewMeasurementService(
	measurementRepo repository.MeasurementRepository,
	clientRepo repository.ClientRepository,
	m *metrics.Manager,
) MeasurementService {
	return &measurementService{
		measurementRepo: measurementRepo,
		clientRepo:      clientRepo,
		metrics:         m,
	}
}

// ParseObservation converts the raw text of a measurement field. A blank
// value means no observation and yields nil. Malformed, non-finite and
// negative values are rejected.
func ParseObservation(field domain.MeasurementField, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, domain.InvalidInputf("%s: %q is not a number", field, raw)
	}
	if v < 0 {
		return nil, domain.InvalidInputf("%s must not be negative, got %v", field, v)
	}
	return &v, nil
}

func (s *measurementService) CreateMeasurement(ctx context.Context, input MeasurementInput) (*domain.Measurement, error) {
	m := &domain.Measurement{
		ClientID: input.ClientID,
		Date:     input.Date,
		Notes:    input.Notes,
	}
	for field, raw := range input.Values {
		slot := m.Field(field)
		if slot == nil {
			return nil, domain.InvalidInputf("unknown measurement field %q", field)
		}
		v, err := ParseObservation(field, raw)
		if err != nil {
			return nil, err
		}
		*slot = v
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.clientRepo.GetByID(ctx, input.ClientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("client", input.ClientID)
		}
		return nil, repoError(s.metrics, "getClient", err)
	}

	if _, err := s.measurementRepo.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("client", input.ClientID)
		}
		return nil, repoError(s.metrics, "createMeasurement", err)
	}

	log.WithFields(log.Fields{"measurement_id": m.ID.Hex(), "client_id": m.ClientID.Hex()}).Info("measurement recorded")
	return m, nil
}

func (s *measurementService) ListMeasurements(ctx context.Context, clientID *primitive.ObjectID) ([]MeasurementDetail, error) {
	measurements, err := s.measurementRepo.List(ctx, repository.MeasurementFilter{ClientID: clientID})
	if err != nil {
		return nil, repoError(s.metrics, "listMeasurements", err)
	}

	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, repoError(s.metrics, "listClients", err)
	}
	names := make(map[primitive.ObjectID]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}

	details := make([]MeasurementDetail, 0, len(measurements))
	for _, m := range measurements {
		details = append(details, MeasurementDetail{Measurement: m, ClientName: names[m.ClientID]})
	}
	return details, nil
}
