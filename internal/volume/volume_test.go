package volume_test

import (
	"testing"

	"alcyxob/trainer-analytics/internal/domain"
	"alcyxob/trainer-analytics/internal/volume"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestExerciseVolume(t *testing.T) {
	tests := []struct {
		name    string
		sets    int
		reps    int
		weight  *float64
		want    float64
		wantErr bool
	}{
		{name: "loaded", sets: 3, reps: 10, weight: ptr(135), want: 4050},
		{name: "fractional load", sets: 2, reps: 5, weight: ptr(22.5), want: 225},
		{name: "zero weight", sets: 2, reps: 12, weight: ptr(0), want: 0},
		{name: "bodyweight", sets: 4, reps: 15, weight: nil, want: 0},
		{name: "zero sets", sets: 0, reps: 10, weight: ptr(50), wantErr: true},
		{name: "negative reps", sets: 3, reps: -1, weight: ptr(50), wantErr: true},
		{name: "negative weight", sets: 3, reps: 10, weight: ptr(-5), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := volume.ExerciseVolume(tt.sets, tt.reps, tt.weight)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorkoutVolume(t *testing.T) {
	entries := []domain.WorkoutExercise{
		{Sets: 3, Reps: 10, Weight: ptr(135)},
		{Sets: 4, Reps: 8, Weight: ptr(95)},
		{Sets: 2, Reps: 12, Weight: ptr(0)},
	}
	total, err := volume.WorkoutVolume(entries)
	require.NoError(t, err)
	assert.Equal(t, 7090.0, total)

	total, err = volume.WorkoutVolume(nil)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = volume.WorkoutVolume([]domain.WorkoutExercise{{Sets: 1, Reps: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApply(t *testing.T) {
	w := &domain.Workout{
		Exercises: []domain.WorkoutExercise{
			{Sets: 3, Reps: 10, Weight: ptr(135)},
			{Sets: 4, Reps: 8, Weight: ptr(95)},
			{Sets: 2, Reps: 12},
		},
	}
	require.NoError(t, volume.Apply(w))
	assert.Equal(t, 4050.0, w.Exercises[0].Volume)
	assert.Equal(t, 3040.0, w.Exercises[1].Volume)
	assert.Equal(t, 0.0, w.Exercises[2].Volume)
	assert.Equal(t, 7090.0, w.TotalVolume)

	// a failing entry leaves previously derived values intact
	w.Exercises[1].Weight = ptr(-1)
	assert.ErrorIs(t, volume.Apply(w), domain.ErrInvalidInput)
	assert.Equal(t, 3040.0, w.Exercises[1].Volume)
	assert.Equal(t, 7090.0, w.TotalVolume)
}
