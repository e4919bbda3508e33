package service_test

import (
	"context"
	"errors"
	"testing"

	"alcyxob/trainer-analytics/internal/domain"
	"alcyxob/trainer-analytics/internal/repository"
	"alcyxob/trainer-analytics/internal/service"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func intPtr(i int) *int { return &i }

func TestWorkoutService_CreateWorkoutComputesVolume(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil)
	c := f.newClient(t, "Alex Lifter")
	bench, row, dips := f.exerciseID(t, "Bench Press"), f.exerciseID(t, "Barbell Row"), f.exerciseID(t, "Dips")

	w, err := f.workouts.CreateWorkout(ctx, f.trainerID, service.WorkoutInput{
		ClientID: c.ID,
		Name:     "Upper body",
		Date:     at(2025, 1, 6, 10),
		Exercises: []service.WorkoutEntryInput{
			{ExerciseID: bench, Sets: 3, Reps: 10, Weight: kg(135)},
			{ExerciseID: row, Sets: 4, Reps: 8, Weight: kg(95)},
			{ExerciseID: dips, Sets: 2, Reps: 12, Weight: kg(0)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 7090.0, w.TotalVolume)
	require.Len(t, w.Exercises, 3)
	assert.Equal(t, 4050.0, w.Exercises[0].Volume)
	assert.Equal(t, 3040.0, w.Exercises[1].Volume)
	assert.Equal(t, 0.0, w.Exercises[2].Volume)
	assert.Equal(t, "Bench Press", w.Exercises[0].ExerciseName)
	assert.Equal(t, "Chest", w.Exercises[0].ExerciseCategory)
	assert.Equal(t, "Alex Lifter", w.ClientName)
	assert.Equal(t, domain.WorkoutInPerson, w.Type)
	assert.Equal(t, domain.WorkoutCompleted, w.Status)
	assert.Equal(t, f.trainerID, w.TrainerID)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CounterWorkoutsCreated))

	stored, err := f.store.Workouts().GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 7090.0, stored.TotalVolume)
	for _, e := range stored.Exercises {
		assert.Equal(t, w.ID, e.WorkoutID)
	}
}

func TestWorkoutService_CreateWorkoutFiltersEntries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil)
	c := f.newClient(t, "")
	squat := f.exerciseID(t, "Squat")

	w, err := f.workouts.CreateWorkout(ctx, f.trainerID, service.WorkoutInput{
		ClientID: c.ID,
		Date:     at(2025, 1, 6, 10),
		Type:     domain.WorkoutAssigned,
		Exercises: []service.WorkoutEntryInput{
			{Sets: 3, Reps: 10, Weight: kg(50)},
			{ExerciseID: squat, Sets: 0, Reps: 10, Weight: kg(50)},
			{ExerciseID: squat, Sets: 5, Reps: 5, Weight: kg(100)},
		},
	})
	require.NoError(t, err)
	require.Len(t, w.Exercises, 1)
	assert.Equal(t, 2500.0, w.TotalVolume)
	assert.Equal(t, domain.WorkoutAssigned, w.Type)
}

func TestWorkoutService_CreateWorkoutRejections(t *testing.T) {
	f := newFixture(t, nil, nil)
	c := f.newClient(t, "")
	squat := f.exerciseID(t, "Squat")

	tests := []struct {
		name    string
		input   service.WorkoutInput
		wantErr error
	}{
		{
			name:    "no exercises",
			input:   service.WorkoutInput{ClientID: c.ID, Date: at(2025, 1, 6, 10)},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "only invalid exercises",
			input: service.WorkoutInput{ClientID: c.ID, Date: at(2025, 1, 6, 10), Exercises: []service.WorkoutEntryInput{
				{Sets: 3, Reps: 5}, {ExerciseID: squat, Sets: -1, Reps: 5},
			}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "missing date",
			input: service.WorkoutInput{ClientID: c.ID, Exercises: []service.WorkoutEntryInput{
				{ExerciseID: squat, Sets: 3, Reps: 5},
			}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "zero reps",
			input: service.WorkoutInput{ClientID: c.ID, Date: at(2025, 1, 6, 10), Exercises: []service.WorkoutEntryInput{
				{ExerciseID: squat, Sets: 3, Reps: 0},
			}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "negative weight",
			input: service.WorkoutInput{ClientID: c.ID, Date: at(2025, 1, 6, 10), Exercises: []service.WorkoutEntryInput{
				{ExerciseID: squat, Sets: 3, Reps: 5, Weight: kg(-20)},
			}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "unknown type",
			input: service.WorkoutInput{ClientID: c.ID, Date: at(2025, 1, 6, 10), Type: "remote", Exercises: []service.WorkoutEntryInput{
				{ExerciseID: squat, Sets: 3, Reps: 5},
			}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "unknown client",
			input: service.WorkoutInput{ClientID: primitive.NewObjectID(), Date: at(2025, 1, 6, 10), Exercises: []service.WorkoutEntryInput{
				{ExerciseID: squat, Sets: 3, Reps: 5},
			}},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "unknown exercise",
			input: service.WorkoutInput{ClientID: c.ID, Date: at(2025, 1, 6, 10), Exercises: []service.WorkoutEntryInput{
				{ExerciseID: squat, Sets: 3, Reps: 5},
				{ExerciseID: primitive.NewObjectID(), Sets: 3, Reps: 5},
			}},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.workouts.CreateWorkout(context.Background(), f.trainerID, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	workouts, err := f.workouts.ListWorkouts(context.Background(), service.WorkoutFilter{})
	require.NoError(t, err)
	assert.Empty(t, workouts, "rejected workouts must not be persisted")
}

func TestWorkoutService_CreateWorkoutStorageFailure(t *testing.T) {
	cause := errors.New("write concern timeout")
	f := newFixture(t, nil, func(r *repos) {
		r.workouts = failingWorkouts{WorkoutRepository: r.workouts, err: cause}
	})
	c := f.newClient(t, "")
	squat := f.exerciseID(t, "Squat")

	_, err := f.workouts.CreateWorkout(context.Background(), f.trainerID, service.WorkoutInput{
		ClientID:  c.ID,
		Date:      at(2025, 1, 6, 10),
		Exercises: []service.WorkoutEntryInput{{ExerciseID: squat, Sets: 3, Reps: 5}},
	})
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
	assert.ErrorIs(t, err, cause)
	assert.Zero(t, testutil.ToFloat64(f.metrics.CounterWorkoutsCreated))
}

func TestWorkoutService_CreateWorkoutClientDeletedConcurrently(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, func(r *repos) {
		r.clients = vanishingClients{ClientRepository: r.clients}
	})
	c := f.newClient(t, "")
	squat := f.exerciseID(t, "Squat")

	_, err := f.workouts.CreateWorkout(ctx, f.trainerID, service.WorkoutInput{
		ClientID:  c.ID,
		Date:      at(2025, 1, 6, 10),
		Exercises: []service.WorkoutEntryInput{{ExerciseID: squat, Sets: 3, Reps: 5, Weight: kg(100)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.store.Clients().GetByID(ctx, c.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	orphans, err := f.store.Workouts().List(ctx, repository.WorkoutFilter{ClientID: &c.ID})
	require.NoError(t, err)
	assert.Empty(t, orphans)
	assert.Zero(t, testutil.ToFloat64(f.metrics.CounterWorkoutsCreated))
	assert.Zero(t, testutil.ToFloat64(f.metrics.CounterStorageFailures.WithLabelValues("createWorkout")))
}

func TestWorkoutService_UpdateWorkoutEntry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil)
	c := f.newClient(t, "")
	squat, plank := f.exerciseID(t, "Squat"), f.exerciseID(t, "Plank")

	w := f.logWorkout(t, c.ID, at(2025, 1, 6, 10),
		service.WorkoutEntryInput{ExerciseID: squat, Sets: 3, Reps: 5, Weight: kg(100)},
		service.WorkoutEntryInput{ExerciseID: plank, Sets: 3, Reps: 1},
	)
	require.Equal(t, 1500.0, w.TotalVolume)
	entryID := w.Exercises[0].ID

	updated, err := f.workouts.UpdateWorkoutEntry(ctx, w.ID, entryID, service.WorkoutEntryPatch{
		Sets:   intPtr(5),
		Weight: kg(110),
	})
	require.NoError(t, err)
	assert.Equal(t, 2750.0, updated.Exercises[0].Volume)
	assert.Equal(t, 2750.0, updated.TotalVolume)
	assert.Equal(t, "Squat", updated.Exercises[0].ExerciseName)

	updated, err = f.workouts.UpdateWorkoutEntry(ctx, w.ID, entryID, service.WorkoutEntryPatch{ClearWeight: true})
	require.NoError(t, err)
	assert.Nil(t, updated.Exercises[0].Weight)
	assert.Zero(t, updated.TotalVolume)

	_, err = f.workouts.UpdateWorkoutEntry(ctx, w.ID, entryID, service.WorkoutEntryPatch{Reps: intPtr(0)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	stored, err := f.workouts.GetWorkout(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Exercises[0].Reps, "rejected patch must not be stored")
	assert.Equal(t, 5, stored.Exercises[0].Sets)

	_, err = f.workouts.UpdateWorkoutEntry(ctx, w.ID, primitive.NewObjectID(), service.WorkoutEntryPatch{Sets: intPtr(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.workouts.UpdateWorkoutEntry(ctx, primitive.NewObjectID(), entryID, service.WorkoutEntryPatch{Sets: intPtr(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWorkoutService_ListWorkouts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil)
	squat := f.exerciseID(t, "Squat")
	alice, bob := f.newClient(t, "Alice"), f.newClient(t, "Bob")
	entry := service.WorkoutEntryInput{ExerciseID: squat, Sets: 1, Reps: 10, Weight: kg(40)}

	f.logWorkout(t, alice.ID, at(2025, 1, 2, 9), entry)
	f.logWorkout(t, alice.ID, at(2025, 1, 9, 9), entry)
	f.logWorkout(t, bob.ID, at(2025, 1, 5, 9), entry)

	all, err := f.workouts.ListWorkouts(ctx, service.WorkoutFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, at(2025, 1, 9, 9), all[0].Date)
	assert.Equal(t, "Bob", all[1].ClientName)
	assert.Equal(t, "Squat", all[2].Exercises[0].ExerciseName)

	from := at(2025, 1, 5, 0)
	recentAlice, err := f.workouts.ListWorkouts(ctx, service.WorkoutFilter{ClientID: &alice.ID, From: &from})
	require.NoError(t, err)
	require.Len(t, recentAlice, 1)
	assert.Equal(t, at(2025, 1, 9, 9), recentAlice[0].Date)
	assert.Equal(t, "Alice", recentAlice[0].ClientName)
}

var _ repository.WorkoutRepository = failingWorkouts{}
