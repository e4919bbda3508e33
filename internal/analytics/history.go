package analytics

import (
	"sort"
	"time"

	"alcyxob/trainer-analytics/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryPoint summarises one exercise on one day.
type HistoryPoint struct {
	Date      time.Time `json:"date"`
	Sets      int       `json:"sets"`
	AvgReps   float64   `json:"avgReps"`
	MaxWeight *float64  `json:"maxWeight,omitempty"`
	Volume    float64   `json:"volume"`
}

type ExerciseHistory struct {
	ClientID   primitive.ObjectID `json:"clientId"`
	ExerciseID primitive.ObjectID `json:"exerciseId"`
	Points     []HistoryPoint     `json:"points"`
}

// BuildExerciseHistory collects every entry of exerciseID across the workouts
// and groups them per calendar day, oldest day first. Reps are averaged per set.
func BuildExerciseHistory(clientID, exerciseID primitive.ObjectID, loc *time.Location, workouts []domain.Workout) ExerciseHistory {
	type acc struct {
		sets      int
		repsTotal int
		maxWeight *float64
		volume    float64
	}

	day2stats := map[time.Time]*acc{}
	for _, w := range workouts {
		if w.ClientID != clientID {
			continue
		}
		day := WindowFor(w.Date, Day, loc).Start
		for _, e := range w.Exercises {
			if e.ExerciseID != exerciseID {
				continue
			}
			a := day2stats[day]
			if a == nil {
				a = &acc{}
				day2stats[day] = a
			}
			a.sets += e.Sets
			a.repsTotal += e.Sets * e.Reps
			a.volume += e.Volume
			if e.Weight != nil && (a.maxWeight == nil || *e.Weight > *a.maxWeight) {
				weight := *e.Weight
				a.maxWeight = &weight
			}
		}
	}

	history := ExerciseHistory{ClientID: clientID, ExerciseID: exerciseID, Points: []HistoryPoint{}}
	for day, a := range day2stats {
		history.Points = append(history.Points, HistoryPoint{
			Date:      day,
			Sets:      a.sets,
			AvgReps:   Average(float64(a.repsTotal), a.sets),
			MaxWeight: a.maxWeight,
			Volume:    a.volume,
		})
	}
	sort.Slice(history.Points, func(i, j int) bool {
		return history.Points[i].Date.Before(history.Points[j].Date)
	})
	return history
}
