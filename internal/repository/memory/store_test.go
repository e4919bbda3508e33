package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"alcyxob/trainer-analytics/internal/domain"
	"alcyxob/trainer-analytics/internal/repository"
	"alcyxob/trainer-analytics/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 9, 0, 0, 0, time.UTC)
}

func newWorkout(clientID primitive.ObjectID, date time.Time) *domain.Workout {
	w := 50.0
	return &domain.Workout{
		ClientID:  clientID,
		TrainerID: primitive.NewObjectID(),
		Date:      date,
		Type:      domain.WorkoutInPerson,
		Status:    domain.WorkoutCompleted,
		Exercises: []domain.WorkoutExercise{
			{ExerciseID: primitive.NewObjectID(), Sets: 2, Reps: 10, Weight: &w, Volume: 1000},
		},
		TotalVolume: 1000,
	}
}

func createClient(t *testing.T, store *memory.Store) primitive.ObjectID {
	t.Helper()
	id, err := store.Clients().Create(context.Background(), &domain.Client{TrainerID: primitive.NewObjectID(), Name: "Client"})
	require.NoError(t, err)
	return id
}

func TestStore_DeleteCascade(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	keep := &domain.Client{TrainerID: primitive.NewObjectID(), Name: "Keep"}
	drop := &domain.Client{TrainerID: primitive.NewObjectID(), Name: "Drop"}
	_, err := store.Clients().Create(ctx, keep)
	require.NoError(t, err)
	_, err = store.Clients().Create(ctx, drop)
	require.NoError(t, err)

	for _, c := range []*domain.Client{keep, drop} {
		_, err = store.Workouts().Create(ctx, newWorkout(c.ID, day(6)))
		require.NoError(t, err)
		_, err = store.Measurements().Create(ctx, &domain.Measurement{ClientID: c.ID, Date: day(6)})
		require.NoError(t, err)
	}

	require.NoError(t, store.Clients().DeleteCascade(ctx, drop.ID))

	_, err = store.Clients().GetByID(ctx, drop.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	workouts, err := store.Workouts().List(ctx, repository.WorkoutFilter{ClientID: &drop.ID})
	require.NoError(t, err)
	assert.Empty(t, workouts)

	measurements, err := store.Measurements().List(ctx, repository.MeasurementFilter{ClientID: &drop.ID})
	require.NoError(t, err)
	assert.Empty(t, measurements)

	workouts, err = store.Workouts().List(ctx, repository.WorkoutFilter{ClientID: &keep.ID})
	require.NoError(t, err)
	assert.Len(t, workouts, 1)

	assert.ErrorIs(t, store.Clients().DeleteCascade(ctx, drop.ID), repository.ErrNotFound)
}

func TestStore_WorkoutRangeAndOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	clientID := createClient(t, store)

	for _, d := range []int{5, 6, 12, 13} {
		_, err := store.Workouts().Create(ctx, newWorkout(clientID, day(d)))
		require.NoError(t, err)
	}

	from := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	workouts, err := store.Workouts().List(ctx, repository.WorkoutFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, workouts, 2)
	assert.Equal(t, day(12), workouts[0].Date)
	assert.Equal(t, day(6), workouts[1].Date)

	workouts, err = store.Workouts().List(ctx, repository.WorkoutFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	assert.Equal(t, day(13), workouts[0].Date)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	w := newWorkout(createClient(t, store), day(6))
	id, err := store.Workouts().Create(ctx, w)
	require.NoError(t, err)

	*w.Exercises[0].Weight = 999
	got, err := store.Workouts().GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 50.0, *got.Exercises[0].Weight)
}

func TestStore_EnsureByNameConcurrent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	var wg sync.WaitGroup
	inserted := make(chan bool, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.Exercises().EnsureByName(ctx, &domain.Exercise{Name: "Squat", Category: "Legs"})
			assert.NoError(t, err)
			inserted <- ok
		}()
	}
	wg.Wait()
	close(inserted)

	var wins int
	for ok := range inserted {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)

	catalog, err := store.Exercises().ListByName(ctx)
	require.NoError(t, err)
	assert.Len(t, catalog, 1)

	_, err = store.Exercises().Create(ctx, &domain.Exercise{Name: "Squat", Category: "Legs"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestStore_CountByClient(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	a, b := createClient(t, store), createClient(t, store)

	for _, id := range []primitive.ObjectID{a, a, b} {
		_, err := store.Workouts().Create(ctx, newWorkout(id, day(6)))
		require.NoError(t, err)
	}
	counts, err := store.Workouts().CountByClient(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[a])
	assert.EqualValues(t, 1, counts[b])
}

func TestStore_CreateRequiresClient(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	clientID := createClient(t, store)
	require.NoError(t, store.Clients().DeleteCascade(ctx, clientID))

	_, err := store.Workouts().Create(ctx, newWorkout(clientID, day(6)))
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = store.Measurements().Create(ctx, &domain.Measurement{ClientID: clientID, Date: day(6)})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	counts, err := store.Workouts().CountByClient(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)
	measurements, err := store.Measurements().List(ctx, repository.MeasurementFilter{ClientID: &clientID})
	require.NoError(t, err)
	assert.Empty(t, measurements)
}

// A delete racing with creates never leaves a record behind for the
// deleted client.
func TestStore_CreateRacesDeleteCascade(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	for round := 0; round < 20; round++ {
		clientID := createClient(t, store)

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, _ = store.Workouts().Create(ctx, newWorkout(clientID, day(6)))
			}()
			go func() {
				defer wg.Done()
				_, _ = store.Measurements().Create(ctx, &domain.Measurement{ClientID: clientID, Date: day(6)})
			}()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Clients().DeleteCascade(ctx, clientID))
		}()
		wg.Wait()

		workouts, err := store.Workouts().List(ctx, repository.WorkoutFilter{ClientID: &clientID})
		require.NoError(t, err)
		assert.Empty(t, workouts)
		measurements, err := store.Measurements().List(ctx, repository.MeasurementFilter{ClientID: &clientID})
		require.NoError(t, err)
		assert.Empty(t, measurements)
	}
}
