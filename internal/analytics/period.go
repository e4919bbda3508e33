// Package analytics buckets workouts into calendar-aligned windows and
// derives volume totals, averages and period-over-period comparisons.
// Everything here is a pure function of its inputs.
package analytics

import (
	"fmt"
	"strings"
	"time"

	"alcyxob/trainer-analytics/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Granularity is the length of an aggregation window.
type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
)

// ParseGranularity accepts "day", "week", "month" and their "-ly" forms.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "daily":
		return Day, nil
	case "week", "weekly":
		return Week, nil
	case "month", "monthly":
		return Month, nil
	}
	return "", domain.InvalidInputf("unknown granularity %q", s)
}

// Window is a half-open time range [Start, End).
type Window struct {
	Granularity Granularity `json:"granularity"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Label       string      `json:"label"`
}

// WindowFor returns the window of the given granularity that contains ref.
// Days start at midnight in loc, weeks on Monday, months on the 1st.
func WindowFor(ref time.Time, g Granularity, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	t := ref.In(loc)
	dayStart := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)

	w := Window{Granularity: g}
	switch g {
	case Week:
		offset := (int(dayStart.Weekday()) + 6) % 7 // days since Monday
		w.Start = dayStart.AddDate(0, 0, -offset)
		w.End = w.Start.AddDate(0, 0, 7)
		w.Label = "Week of " + w.Start.Format("Jan 2")
	case Month:
		w.Start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
		w.End = w.Start.AddDate(0, 1, 0)
		w.Label = w.Start.Format("January 2006")
	default:
		w.Granularity = Day
		w.Start = dayStart
		w.End = dayStart.AddDate(0, 0, 1)
		w.Label = w.Start.Format("Jan 2")
	}
	return w
}

// Previous returns the window immediately before w, shifted back by one unit of its granularity.
func (w Window) Previous() Window {
	var ref time.Time
	switch w.Granularity {
	case Week:
		ref = w.Start.AddDate(0, 0, -7)
	case Month:
		ref = w.Start.AddDate(0, -1, 0)
	default:
		ref = w.Start.AddDate(0, 0, -1)
	}
	return WindowFor(ref, w.Granularity, w.Start.Location())
}

// Contains reports whether t falls in [Start, End). A timestamp exactly on a
// boundary belongs to the window that starts there.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (w Window) String() string {
	return fmt.Sprintf("%s [%s, %s)", w.Label, w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}

// Summary aggregates the workouts of one window.
type Summary struct {
	Window                  Window  `json:"window"`
	TotalVolume             float64 `json:"totalVolume"`
	WorkoutCount            int     `json:"workoutCount"`
	UniqueClientCount       *int    `json:"uniqueClientCount,omitempty"` // nil unless fleet-wide
	AverageVolumePerWorkout float64 `json:"averageVolumePerWorkout"`
}

// Average divides total by count and defines the empty case as 0.
func Average(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// Summarize aggregates the workouts that fall inside the window; the rest are ignored.
// When fleet is set the number of distinct clients is reported as well.
func Summarize(window Window, workouts []domain.Workout, fleet bool) Summary {
	s := Summary{Window: window}
	clients := map[primitive.ObjectID]struct{}{}
	for _, w := range workouts {
		if !window.Contains(w.Date) {
			continue
		}
		s.TotalVolume += w.TotalVolume
		s.WorkoutCount++
		clients[w.ClientID] = struct{}{}
	}
	if fleet {
		n := len(clients)
		s.UniqueClientCount = &n
	}
	s.AverageVolumePerWorkout = Average(s.TotalVolume, s.WorkoutCount)
	return s
}

// SummarizeByClient splits the windowed workouts per owning client.
func SummarizeByClient(window Window, workouts []domain.Workout) map[primitive.ObjectID]Summary {
	grouped := map[primitive.ObjectID][]domain.Workout{}
	for _, w := range workouts {
		if window.Contains(w.Date) {
			grouped[w.ClientID] = append(grouped[w.ClientID], w)
		}
	}
	out := make(map[primitive.ObjectID]Summary, len(grouped))
	for clientID, list := range grouped {
		out[clientID] = Summarize(window, list, false)
	}
	return out
}

// Comparison puts the current window next to the one before it.
type Comparison struct {
	Granularity  Granularity         `json:"granularity"`
	ClientID     *primitive.ObjectID `json:"clientId,omitempty"` // nil for fleet-wide
	Current      Summary             `json:"current"`
	Previous     Summary             `json:"previous"`
	VolumeDelta  float64             `json:"volumeDelta"`
	WorkoutDelta int                 `json:"workoutDelta"`
	VolumeChange *float64            `json:"volumeChangePercent,omitempty"` // nil when the previous window had no volume
}

// Compare builds the current-vs-previous comparison of two summaries.
func Compare(current, previous Summary) Comparison {
	c := Comparison{
		Granularity:  current.Window.Granularity,
		Current:      current,
		Previous:     previous,
		VolumeDelta:  current.TotalVolume - previous.TotalVolume,
		WorkoutDelta: current.WorkoutCount - previous.WorkoutCount,
	}
	if previous.TotalVolume != 0 {
		pct := c.VolumeDelta / previous.TotalVolume * 100
		c.VolumeChange = &pct
	}
	return c
}
