package analytics

import (
	"sort"

	"alcyxob/trainer-analytics/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientRow is one client's line in a report.
type ClientRow struct {
	ClientID                primitive.ObjectID `json:"clientId"`
	Name                    string             `json:"name"`
	TotalVolume             float64            `json:"totalVolume"`
	WorkoutCount            int                `json:"workoutCount"`
	AverageVolumePerWorkout float64            `json:"averageVolumePerWorkout"`
}

// FleetTotals sums the report rows.
type FleetTotals struct {
	TotalVolume             float64 `json:"totalVolume"`
	TotalWorkouts           int     `json:"totalWorkouts"`
	ClientCount             int     `json:"clientCount"`
	ActiveClientCount       int     `json:"activeClientCount"`
	AverageVolumePerClient  float64 `json:"averageVolumePerClient"`
	AverageVolumePerWorkout float64 `json:"averageVolumePerWorkout"`
}

type Report struct {
	Window     Window      `json:"window"`
	Clients    []ClientRow `json:"clients"`
	Fleet      FleetTotals `json:"fleet"`
	Comparison *Comparison `json:"comparison,omitempty"`
}

// Compose turns per-client summaries into a report. Every client in clients
// gets a row, including those without workouts in the window. Summaries for
// ids missing from clients are still counted in the fleet totals under an
// empty name so the totals match the aggregator.
func Compose(window Window, clients []domain.Client, perClient map[primitive.ObjectID]Summary) Report {
	rows := make([]ClientRow, 0, len(clients))
	seen := make(map[primitive.ObjectID]struct{}, len(clients))
	for _, c := range clients {
		seen[c.ID] = struct{}{}
		rows = append(rows, row(c.ID, c.Name, perClient[c.ID]))
	}
	for id, s := range perClient {
		if _, ok := seen[id]; !ok {
			rows = append(rows, row(id, "", s))
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalVolume != rows[j].TotalVolume {
			return rows[i].TotalVolume > rows[j].TotalVolume
		}
		return rows[i].Name < rows[j].Name
	})

	fleet := FleetTotals{ClientCount: len(rows)}
	for _, r := range rows {
		fleet.TotalVolume += r.TotalVolume
		fleet.TotalWorkouts += r.WorkoutCount
		if r.WorkoutCount > 0 {
			fleet.ActiveClientCount++
		}
	}
	fleet.AverageVolumePerClient = Average(fleet.TotalVolume, fleet.ClientCount)
	fleet.AverageVolumePerWorkout = Average(fleet.TotalVolume, fleet.TotalWorkouts)

	return Report{Window: window, Clients: rows, Fleet: fleet}
}

func row(id primitive.ObjectID, name string, s Summary) ClientRow {
	return ClientRow{
		ClientID:                id,
		Name:                    name,
		TotalVolume:             s.TotalVolume,
		WorkoutCount:            s.WorkoutCount,
		AverageVolumePerWorkout: Average(s.TotalVolume, s.WorkoutCount),
	}
}
