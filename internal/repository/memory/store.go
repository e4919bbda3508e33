// Package memory provides a mutex-guarded in-memory implementation of the
// repository interfaces. Every write is applied under the store lock, so
// multi-entity operations (cascade delete) are all-or-nothing to readers.
package memory

import (
	"alcyxob/trainer-analytics/internal/domain"
	"alcyxob/trainer-analytics/internal/repository"
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type state struct {
	clients       map[primitive.ObjectID]domain.Client
	exercises     map[primitive.ObjectID]domain.Exercise
	exerciseNames map[string]primitive.ObjectID
	workouts      map[primitive.ObjectID]domain.Workout
	measurements  map[primitive.ObjectID]domain.Measurement
}

// Store holds every collection behind one lock.
type Store struct {
	mu    sync.RWMutex
	state state
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		state: state{
			clients:       map[primitive.ObjectID]domain.Client{},
			exercises:     map[primitive.ObjectID]domain.Exercise{},
			exerciseNames: map[string]primitive.ObjectID{},
			workouts:      map[primitive.ObjectID]domain.Workout{},
			measurements:  map[primitive.ObjectID]domain.Measurement{},
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Clients() repository.ClientRepository           { return clientRepo{s} }
func (s *Store) Exercises() repository.ExerciseRepository       { return exerciseRepo{s} }
func (s *Store) Workouts() repository.WorkoutRepository         { return workoutRepo{s} }
func (s *Store) Measurements() repository.MeasurementRepository { return measurementRepo{s} }

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneClient(c domain.Client) domain.Client {
	c.DateOfBirth = cloneTime(c.DateOfBirth)
	return c
}

func cloneEntries(entries []domain.WorkoutExercise) []domain.WorkoutExercise {
	out := make([]domain.WorkoutExercise, len(entries))
	for i, e := range entries {
		e.Weight = cloneFloat(e.Weight)
		e.Distance = cloneFloat(e.Distance)
		e.Duration = cloneInt(e.Duration)
		e.RestTime = cloneInt(e.RestTime)
		out[i] = e
	}
	return out
}

func cloneWorkout(w domain.Workout) domain.Workout {
	w.Exercises = cloneEntries(w.Exercises)
	return w
}

func cloneMeasurement(m domain.Measurement) domain.Measurement {
	for _, f := range domain.MeasurementFields {
		slot := m.Field(f)
		*slot = cloneFloat(*slot)
	}
	return m
}

func countByClient[T any](items map[primitive.ObjectID]T, owner func(T) primitive.ObjectID) map[primitive.ObjectID]int64 {
	counts := map[primitive.ObjectID]int64{}
	for _, item := range items {
		counts[owner(item)]++
	}
	return counts
}

// --- clients ---

type clientRepo struct{ s *Store }

func (r clientRepo) Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error) {
	if client.Name == "" || client.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("client name and trainer ID are required")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	client.ID = primitive.NewObjectID()
	now := r.s.now()
	client.CreatedAt = now
	client.UpdatedAt = now
	r.s.state.clients[client.ID] = cloneClient(*client)
	return client.ID, nil
}

func (r clientRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.state.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c = cloneClient(c)
	return &c, nil
}

func (r clientRepo) List(ctx context.Context) ([]domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	clients := make([]domain.Client, 0, len(r.s.state.clients))
	for _, c := range r.s.state.clients {
		clients = append(clients, cloneClient(c))
	}
	sort.SliceStable(clients, func(i, j int) bool {
		if clients[i].CreatedAt.Equal(clients[j].CreatedAt) {
			return clients[i].ID.Hex() > clients[j].ID.Hex()
		}
		return clients[i].CreatedAt.After(clients[j].CreatedAt)
	})
	return clients, nil
}

func (r clientRepo) Update(ctx context.Context, client *domain.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.state.clients[client.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Name = client.Name
	existing.Email = client.Email
	existing.Phone = client.Phone
	existing.DateOfBirth = cloneTime(client.DateOfBirth)
	existing.Goals = client.Goals
	existing.Notes = client.Notes
	existing.UpdatedAt = r.s.now()
	r.s.state.clients[client.ID] = existing
	client.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r clientRepo) DeleteCascade(ctx context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.state.clients[id]; !ok {
		return repository.ErrNotFound
	}
	for wid, w := range r.s.state.workouts {
		if w.ClientID == id {
			delete(r.s.state.workouts, wid)
		}
	}
	for mid, m := range r.s.state.measurements {
		if m.ClientID == id {
			delete(r.s.state.measurements, mid)
		}
	}
	delete(r.s.state.clients, id)
	return nil
}

// --- exercises ---

type exerciseRepo struct{ s *Store }

func (r exerciseRepo) insert(exercise *domain.Exercise) {
	exercise.ID = primitive.NewObjectID()
	exercise.CreatedAt = r.s.now()
	r.s.state.exercises[exercise.ID] = *exercise
	r.s.state.exerciseNames[exercise.Name] = exercise.ID
}

func (r exerciseRepo) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" {
		return primitive.NilObjectID, errors.New("exercise name is required")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.state.exerciseNames[exercise.Name]; taken {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	r.insert(exercise)
	return exercise.ID, nil
}

func (r exerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.state.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r exerciseRepo) ListByName(ctx context.Context) ([]domain.Exercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	exercises := make([]domain.Exercise, 0, len(r.s.state.exercises))
	for _, e := range r.s.state.exercises {
		exercises = append(exercises, e)
	}
	sort.Slice(exercises, func(i, j int) bool { return exercises[i].Name < exercises[j].Name })
	return exercises, nil
}

func (r exerciseRepo) EnsureByName(ctx context.Context, exercise *domain.Exercise) (bool, error) {
	if exercise.Name == "" {
		return false, errors.New("exercise name is required")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.state.exerciseNames[exercise.Name]; taken {
		return false, nil
	}
	r.insert(exercise)
	return true, nil
}

// --- workouts ---

type workoutRepo struct{ s *Store }

func (r workoutRepo) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.ClientID == primitive.NilObjectID || workout.TrainerID == primitive.NilObjectID || len(workout.Exercises) == 0 {
		return primitive.NilObjectID, errors.New("workout requires clientId, trainerId and at least one exercise")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// The owner is checked under the same lock DeleteCascade takes.
	if _, ok := r.s.state.clients[workout.ClientID]; !ok {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	workout.ID = primitive.NewObjectID()
	now := r.s.now()
	workout.CreatedAt = now
	workout.UpdatedAt = now
	for i := range workout.Exercises {
		workout.Exercises[i].WorkoutID = workout.ID
		if workout.Exercises[i].ID == primitive.NilObjectID {
			workout.Exercises[i].ID = primitive.NewObjectID()
		}
	}
	r.s.state.workouts[workout.ID] = cloneWorkout(*workout)
	return workout.ID, nil
}

func (r workoutRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	w, ok := r.s.state.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	w = cloneWorkout(w)
	return &w, nil
}

func (r workoutRepo) List(ctx context.Context, filter repository.WorkoutFilter) ([]domain.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	workouts := []domain.Workout{}
	for _, w := range r.s.state.workouts {
		if filter.ClientID != nil && w.ClientID != *filter.ClientID {
			continue
		}
		if filter.From != nil && w.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !w.Date.Before(*filter.To) {
			continue
		}
		workouts = append(workouts, cloneWorkout(w))
	}
	sort.SliceStable(workouts, func(i, j int) bool {
		if workouts[i].Date.Equal(workouts[j].Date) {
			return workouts[i].CreatedAt.After(workouts[j].CreatedAt)
		}
		return workouts[i].Date.After(workouts[j].Date)
	})
	if filter.Limit > 0 && int64(len(workouts)) > filter.Limit {
		workouts = workouts[:filter.Limit]
	}
	return workouts, nil
}

func (r workoutRepo) ReplaceExercises(ctx context.Context, workoutID primitive.ObjectID, exercises []domain.WorkoutExercise, totalVolume float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	w, ok := r.s.state.workouts[workoutID]
	if !ok {
		return repository.ErrNotFound
	}
	w.Exercises = cloneEntries(exercises)
	w.TotalVolume = totalVolume
	w.UpdatedAt = r.s.now()
	r.s.state.workouts[workoutID] = w
	return nil
}

func (r workoutRepo) CountByClient(ctx context.Context) (map[primitive.ObjectID]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return countByClient(r.s.state.workouts, func(w domain.Workout) primitive.ObjectID { return w.ClientID }), nil
}

// --- measurements ---

type measurementRepo struct{ s *Store }

func (r measurementRepo) Create(ctx context.Context, measurement *domain.Measurement) (primitive.ObjectID, error) {
	if measurement.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("measurement requires clientId")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.state.clients[measurement.ClientID]; !ok {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	measurement.ID = primitive.NewObjectID()
	measurement.CreatedAt = r.s.now()
	r.s.state.measurements[measurement.ID] = cloneMeasurement(*measurement)
	return measurement.ID, nil
}

func (r measurementRepo) List(ctx context.Context, filter repository.MeasurementFilter) ([]domain.Measurement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	measurements := []domain.Measurement{}
	for _, m := range r.s.state.measurements {
		if filter.ClientID != nil && m.ClientID != *filter.ClientID {
			continue
		}
		measurements = append(measurements, cloneMeasurement(m))
	}
	sort.SliceStable(measurements, func(i, j int) bool {
		if measurements[i].Date.Equal(measurements[j].Date) {
			return measurements[i].CreatedAt.After(measurements[j].CreatedAt)
		}
		return measurements[i].Date.After(measurements[j].Date)
	})
	if filter.Limit > 0 && int64(len(measurements)) > filter.Limit {
		measurements = measurements[:filter.Limit]
	}
	return measurements, nil
}

func (r measurementRepo) CountByClient(ctx context.Context) (map[primitive.ObjectID]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return countByClient(r.s.state.measurements, func(m domain.Measurement) primitive.ObjectID { return m.ClientID }), nil
}
