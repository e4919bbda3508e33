package service

import (
	"alcyxob/trainer-analytics/internal/domain"
	"alcyxob/trainer-analytics/internal/metrics"
	"alcyxob/trainer-analytics/internal/repository"
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	detailWorkoutLimit     = 10
	detailMeasurementLimit = 5
)

// ClientInput carries the fields of a new client. Only Name is required.
type ClientInput struct {
	Name        string
	Email       string
	Phone       string
	DateOfBirth *time.Time
	Goals       string
	Notes       string
}

// ClientPatch is a partial update. Nil fields are left unchanged; a pointer to
// an empty string clears the field. DateOfBirth takes YYYY-MM-DD or RFC 3339.
type ClientPatch struct {
	Name        *string
	Email       *string
	Phone       *string
	DateOfBirth *string
	Goals       *string
	Notes       *string
}

// ClientSummary is a client with the sizes of its owned collections.
type ClientSummary struct {
	domain.Client
	WorkoutCount     int64 `json:"workoutCount"`
	MeasurementCount int64 `json:"measurementCount"`
}

// ClientDetail is a client with its most recent activity.
type ClientDetail struct {
	domain.Client
	Workouts     []domain.Workout     `json:"workouts"`
	Measurements []domain.Measurement `json:"measurements"`
}

type ClientService interface {
	CreateClient(ctx context.Context, trainerID primitive.ObjectID, input ClientInput) (*domain.Client, error)
	GetClientDetail(ctx context.Context, clientID primitive.ObjectID) (*ClientDetail, error)
	ListClients(ctx context.Context) ([]ClientSummary, error)
	UpdateClient(ctx context.Context, clientID primitive.ObjectID, patch ClientPatch) (*domain.Client, error)
	// DeleteClient removes the client and everything it owns in one step.
	DeleteClient(ctx context.Context, clientID primitive.ObjectID) error
}

type clientService struct {
	clientRepo      repository.ClientRepository
	workoutRepo     repository.WorkoutRepository
	measurementRepo repository.MeasurementRepository
	metrics         *metrics.Manager
}

func NewClientService(
	clientRepo repository.ClientRepository,
	workoutRepo repository.WorkoutRepository,
	measurementRepo repository.MeasurementRepository,
	m *metrics.Manager,
) ClientService {
	return &clientService{
		clientRepo:      clientRepo,
		workoutRepo:     workoutRepo,
		measurementRepo: measurementRepo,
		metrics:         m,
	}
}

func (s *clientService) CreateClient(ctx context.Context, trainerID primitive.ObjectID, input ClientInput) (*domain.Client, error) {
	client := &domain.Client{
		TrainerID:   trainerID,
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.TrimSpace(input.Email),
		Phone:       strings.TrimSpace(input.Phone),
		DateOfBirth: input.DateOfBirth,
		Goals:       input.Goals,
		Notes:       input.Notes,
	}
	if err := client.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, repoError(s.metrics, "createClient", err)
	}

	log.WithFields(log.Fields{"client_id": client.ID.Hex(), "trainer_id": trainerID.Hex()}).Info("client created")
	return client, nil
}

func (s *clientService) getClient(ctx context.Context, clientID primitive.ObjectID) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("client", clientID)
		}
		return nil, repoError(s.metrics, "getClient", err)
	}
	return client, nil
}

func (s *clientService) GetClientDetail(ctx context.Context, clientID primitive.ObjectID) (*ClientDetail, error) {
	client, err := s.getClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	workouts, err := s.workoutRepo.List(ctx, repository.WorkoutFilter{ClientID: &clientID, Limit: detailWorkoutLimit})
	if err != nil {
		return nil, repoError(s.metrics, "listClientWorkouts", err)
	}
	measurements, err := s.measurementRepo.List(ctx, repository.MeasurementFilter{ClientID: &clientID, Limit: detailMeasurementLimit})
	if err != nil {
		return nil, repoError(s.metrics, "listClientMeasurements", err)
	}

	return &ClientDetail{
		Client:       *client,
		Workouts:     nonNil(workouts),
		Measurements: nonNil(measurements),
	}, nil
}

// ListClients returns all clients, newest first.
func (s *clientService) ListClients(ctx context.Context) ([]ClientSummary, error) {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, repoError(s.metrics, "listClients", err)
	}
	workoutCounts, err := s.workoutRepo.CountByClient(ctx)
	if err != nil {
		return nil, repoError(s.metrics, "countWorkouts", err)
	}
	measurementCounts, err := s.measurementRepo.CountByClient(ctx)
	if err != nil {
		return nil, repoError(s.metrics, "countMeasurements", err)
	}

	summaries := make([]ClientSummary, 0, len(clients))
	for _, c := range clients {
		summaries = append(summaries, ClientSummary{
			Client:           c,
			WorkoutCount:     workoutCounts[c.ID],
			MeasurementCount: measurementCounts[c.ID],
		})
	}
	return summaries, nil
}

func (s *clientService) UpdateClient(ctx context.Context, clientID primitive.ObjectID, patch ClientPatch) (*domain.Client, error) {
	client, err := s.getClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		client.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		client.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.Phone != nil {
		client.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.Goals != nil {
		client.Goals = *patch.Goals
	}
	if patch.Notes != nil {
		client.Notes = *patch.Notes
	}
	if patch.DateOfBirth != nil {
		if strings.TrimSpace(*patch.DateOfBirth) == "" {
			client.DateOfBirth = nil
		} else {
			dob, err := domain.ParseDate(*patch.DateOfBirth, time.UTC)
			if err != nil {
				return nil, err
			}
			client.DateOfBirth = &dob
		}
	}

	if err := client.Validate(); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Update(ctx, client); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("client", clientID)
		}
		return nil, repoError(s.metrics, "updateClient", err)
	}

	log.WithField("client_id", clientID.Hex()).Info("client updated")
	return client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, clientID primitive.ObjectID) error {
	if err := s.clientRepo.DeleteCascade(ctx, clientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("client", clientID)
		}
		return repoError(s.metrics, "deleteClient", err)
	}

	s.metrics.CounterClientsDeleted.Inc()
	log.WithField("client_id", clientID.Hex()).Info("client deleted with all workouts and measurements")
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
