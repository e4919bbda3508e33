package service_test

import (
	"context"
	"io"
	"testing"
	"time"

	"alcyxob/trainer-analytics/internal/domain"
	"alcyxob/trainer-analytics/internal/metrics"
	"alcyxob/trainer-analytics/internal/repository"
	"alcyxob/trainer-analytics/internal/repository/memory"
	"alcyxob/trainer-analytics/internal/service"
	"alcyxob/trainer-analytics/internal/storage"

	"github.com/brianvoe/gofakeit/v6"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	goleak.VerifyTestMain(m)
}

type fixture struct {
	store        *memory.Store
	metrics      *metrics.Manager
	trainerID    primitive.ObjectID
	exercises    service.ExerciseService
	clients      service.ClientService
	workouts     service.WorkoutService
	measurements service.MeasurementService
	analytics    service.AnalyticsService
}

type repos struct {
	clients      repository.ClientRepository
	exercises    repository.ExerciseRepository
	workouts     repository.WorkoutRepository
	measurements repository.MeasurementRepository
}

// newFixture wires every service to a fresh in-memory store. wrap may
// replace repositories, e.g. with failing decorators.
func newFixture(t *testing.T, fs storage.FileStorage, wrap func(*repos)) *fixture {
	t.Helper()

	store := memory.NewStore()
	r := &repos{
		clients:      store.Clients(),
		exercises:    store.Exercises(),
		workouts:     store.Workouts(),
		measurements: store.Measurements(),
	}
	if wrap != nil {
		wrap(r)
	}

	m := metrics.NewTestManager()
	return &fixture{
		store:        store,
		metrics:      m,
		trainerID:    primitive.NewObjectID(),
		exercises:    service.NewExerciseService(r.exercises, m),
		clients:      service.NewClientService(r.clients, r.workouts, r.measurements, m),
		workouts:     service.NewWorkoutService(r.workouts, r.clients, r.exercises, m),
		measurements: service.NewMeasurementService(r.measurements, r.clients, m),
		analytics: service.NewAnalyticsService(r.workouts, r.clients, r.exercises, fs,
			service.AnalyticsOptions{Location: time.UTC, URLExpiry: 10 * time.Minute}, m),
	}
}

func (f *fixture) newClient(t *testing.T, name string) *domain.Client {
	t.Helper()
	if name == "" {
		name = gofakeit.Name()
	}
	c, err := f.clients.CreateClient(context.Background(), f.trainerID, service.ClientInput{
		Name:  name,
		Email: gofakeit.Email(),
		Phone: gofakeit.Phone(),
	})
	require.NoError(t, err)
	return c
}

// exerciseID seeds the catalog if needed and returns the id of the named exercise.
func (f *fixture) exerciseID(t *testing.T, name string) primitive.ObjectID {
	t.Helper()
	exercises, err := f.exercises.ListExercises(context.Background())
	require.NoError(t, err)
	for _, e := range exercises {
		if e.Name == name {
			return e.ID
		}
	}
	t.Fatalf("exercise %q not in catalog", name)
	return primitive.NilObjectID
}

func (f *fixture) logWorkout(t *testing.T, clientID primitive.ObjectID, date time.Time, entries ...service.WorkoutEntryInput) *service.WorkoutDetail {
	t.Helper()
	w, err := f.workouts.CreateWorkout(context.Background(), f.trainerID, service.WorkoutInput{
		ClientID:  clientID,
		Date:      date,
		Exercises: entries,
	})
	require.NoError(t, err)
	return w
}

func kg(v float64) *float64 { return &v }

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

// failingWorkouts fails every write and read with err.
type failingWorkouts struct {
	repository.WorkoutRepository
	err error
}

func (f failingWorkouts) Create(context.Context, *domain.Workout) (primitive.ObjectID, error) {
	return primitive.NilObjectID, f.err
}

func (f failingWorkouts) List(context.Context, repository.WorkoutFilter) ([]domain.Workout, error) {
	return nil, f.err
}

// failingCascade fails cascade deletes with err.
type failingCascade struct {
	repository.ClientRepository
	err error
}

func (f failingCascade) DeleteCascade(context.Context, primitive.ObjectID) error {
	return f.err
}

// vanishingClients deletes each client right after a successful lookup, as a
// concurrent DeleteClient would.
type vanishingClients struct {
	repository.ClientRepository
}

func (v vanishingClients) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	c, err := v.ClientRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := v.ClientRepository.DeleteCascade(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}
