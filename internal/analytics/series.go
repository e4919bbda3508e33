package analytics

import (
	"time"

	"alcyxob/trainer-analytics/internal/domain"
)

// MaxSeriesDays bounds the length of a daily series.
const MaxSeriesDays = 366

// VolumePoint is the volume lifted on one calendar day.
type VolumePoint struct {
	Date     time.Time `json:"date"`
	Label    string    `json:"label"`
	Volume   float64   `json:"volume"`
	Workouts int       `json:"workouts"`
}

type VolumeSeries struct {
	From               time.Time     `json:"from"`
	To                 time.Time     `json:"to"`
	Points             []VolumePoint `json:"points"`
	TotalVolume        float64       `json:"totalVolume"`
	AverageDailyVolume float64       `json:"averageDailyVolume"`
}

// SeriesRange returns the half-open range covering every calendar day from
// the day of from through the day of to, both inclusive.
func SeriesRange(from, to time.Time, loc *time.Location) (time.Time, time.Time, error) {
	start := WindowFor(from, Day, loc).Start
	end := WindowFor(to, Day, loc).End
	if !start.Before(end) {
		return time.Time{}, time.Time{}, domain.InvalidInputf("range end %s is before start %s",
			to.Format(time.DateOnly), from.Format(time.DateOnly))
	}
	if days := dayCount(start, end); days > MaxSeriesDays {
		return time.Time{}, time.Time{}, domain.InvalidInputf("range of %d days exceeds %d", days, MaxSeriesDays)
	}
	return start, end, nil
}

// DailySeries buckets workouts by calendar day between from and to
// (inclusive days). Days without workouts are present with zero volume.
func DailySeries(from, to time.Time, loc *time.Location, workouts []domain.Workout) (VolumeSeries, error) {
	start, end, err := SeriesRange(from, to, loc)
	if err != nil {
		return VolumeSeries{}, err
	}

	series := VolumeSeries{From: start, To: end}
	index := map[string]int{}
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		index[d.Format(time.DateOnly)] = len(series.Points)
		series.Points = append(series.Points, VolumePoint{Date: d, Label: d.Format("Jan 2")})
	}

	for _, w := range workouts {
		i, ok := index[w.Date.In(start.Location()).Format(time.DateOnly)]
		if !ok {
			continue
		}
		series.Points[i].Volume += w.TotalVolume
		series.Points[i].Workouts++
		series.TotalVolume += w.TotalVolume
	}
	series.AverageDailyVolume = Average(series.TotalVolume, len(series.Points))
	return series, nil
}

func dayCount(start, end time.Time) int {
	n := 0
	for d := start; d.Before(end) && n <= MaxSeriesDays; d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}
