package graph

import (
	"context"
	"math"

	"github.com/passbi/passbi_planner/internal/models"
)

// Unreachable is the fee between two stations with no connecting path
var Unreachable = math.Inf(1)

// DistanceMatrix holds all-pairs shortest travel fees over one request's network.
// It is built per request and never shared.
type DistanceMatrix struct {
	stations []models.Station
	index    map[models.Station]int
	fees     [][]float64
}

// CollectStations returns the station set of a request in deterministic order:
// the starting station, task stations in input order, then connection endpoints.
func CollectStations(start models.Station, tasks []models.Task, conns []models.Connection) []models.Station {
	seen := make(map[models.Station]bool)
	stations := []models.Station{}

	add := func(s models.Station) {
		if !seen[s] {
			seen[s] = true
			stations = append(stations, s)
		}
	}

	add(start)
	for _, task := range tasks {
		add(task.Station)
	}
	for _, conn := range conns {
		u, v := conn.Endpoints()
		add(u)
		add(v)
	}

	return stations
}

// BuildDistanceMatrix runs Floyd-Warshall over the given stations and connections.
// Connection endpoints missing from stations are added at the end.
// ctx is checked once per intermediate station.
func BuildDistanceMatrix(ctx context.Context, stations []models.Station, conns []models.Connection) (*DistanceMatrix, error) {
	dm := &DistanceMatrix{
		index: make(map[models.Station]int, len(stations)),
	}
	for _, s := range stations {
		dm.addStation(s)
	}
	for _, conn := range conns {
		u, v := conn.Endpoints()
		dm.addStation(u)
		dm.addStation(v)
	}

	n := len(dm.stations)
	dm.fees = make([][]float64, n)
	for i := range dm.fees {
		row := make([]float64, n)
		for j := range row {
			if i != j {
				row[j] = Unreachable
			}
		}
		dm.fees[i] = row
	}

	// Direct links, keeping the cheapest of any duplicates
	for _, conn := range conns {
		u, v := conn.Endpoints()
		a, b := dm.index[u], dm.index[v]
		if a == b {
			continue
		}
		if conn.Fee < dm.fees[a][b] {
			dm.fees[a][b] = conn.Fee
			dm.fees[b][a] = conn.Fee
		}
	}

	for k := 0; k < n; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rowK := dm.fees[k]
		for i := 0; i < n; i++ {
			ik := dm.fees[i][k]
			if math.IsInf(ik, 1) {
				continue
			}
			rowI := dm.fees[i]
			for j := 0; j < n; j++ {
				if d := ik + rowK[j]; d < rowI[j] {
					rowI[j] = d
				}
			}
		}
	}

	return dm, nil
}

func (dm *DistanceMatrix) addStation(s models.Station) {
	if _, ok := dm.index[s]; ok {
		return
	}
	dm.index[s] = len(dm.stations)
	dm.stations = append(dm.stations, s)
}

// Len returns the number of distinct stations
func (dm *DistanceMatrix) Len() int {
	return len(dm.stations)
}

// Index returns the matrix position of a station
func (dm *DistanceMatrix) Index(s models.Station) (int, bool) {
	i, ok := dm.index[s]
	return i, ok
}

// Fee returns the cheapest travel fee from a to b.
// Unknown or disconnected stations yield Unreachable.
func (dm *DistanceMatrix) Fee(a, b models.Station) float64 {
	i, ok := dm.index[a]
	if !ok {
		return Unreachable
	}
	j, ok := dm.index[b]
	if !ok {
		return Unreachable
	}
	return dm.fees[i][j]
}

// FeeAt is Fee by matrix position
func (dm *DistanceMatrix) FeeAt(i, j int) float64 {
	return dm.fees[i][j]
}

// Reachable reports whether b can be reached from a
func (dm *DistanceMatrix) Reachable(a, b models.Station) bool {
	return !math.IsInf(dm.Fee(a, b), 1)
}
