// Package volume computes training volume, the sets x reps x load figure
// used by every progress metric.
package volume

import (
	"alcyxob/trainer-analytics/internal/domain"
)

// ExerciseVolume returns sets * reps * weight. A nil weight counts as 0,
// so bodyweight exercises are valid and contribute no volume.
func ExerciseVolume(sets, reps int, weight *float64) (float64, error) {
	if sets <= 0 {
		return 0, domain.InvalidInputf("sets must be positive, got %d", sets)
	}
	if reps <= 0 {
		return 0, domain.InvalidInputf("reps must be positive, got %d", reps)
	}
	w := 0.0
	if weight != nil {
		if *weight < 0 {
			return 0, domain.InvalidInputf("weight must not be negative, got %v", *weight)
		}
		w = *weight
	}
	return float64(sets) * float64(reps) * w, nil
}

// WorkoutVolume sums the volume of every entry. An empty slice yields 0.
func WorkoutVolume(entries []domain.WorkoutExercise) (float64, error) {
	var total float64
	for _, e := range entries {
		v, err := ExerciseVolume(e.Sets, e.Reps, e.Weight)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

// Apply recomputes every derived volume field of the workout in place.
// On error the workout is left untouched.
func Apply(w *domain.Workout) error {
	volumes := make([]float64, len(w.Exercises))
	var total float64
	for i, e := range w.Exercises {
		v, err := ExerciseVolume(e.Sets, e.Reps, e.Weight)
		if err != nil {
			return err
		}
		volumes[i] = v
		total += v
	}
	for i := range w.Exercises {
		w.Exercises[i].Volume = volumes[i]
	}
	w.TotalVolume = total
	return nil
}
