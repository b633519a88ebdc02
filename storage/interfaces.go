package storage

import "col-heatmap/models"

// CoverageWriter is the interface any export backend must satisfy.
type CoverageWriter interface {
	Write(rows []ExportRow) error
	Close() error
}

// ExportRow is one resolved city with its map position.
type ExportRow struct {
	City      string
	Index     float64
	Year      int
	Latitude  float64
	Longitude float64
	HasCoords bool
}

var exportHeader = []string{"city", "cost_of_living_index", "year", "latitude", "longitude"}

// BuildRows joins a coverage with the coordinate table, in target order.
func BuildRows(cov *models.Coverage, coords map[string]models.Coordinate) []ExportRow {
	resolved := cov.Resolved()
	rows := make([]ExportRow, 0, len(resolved))
	for _, c := range resolved {
		row := ExportRow{City: c.City, Index: c.Index, Year: c.Year}
		if pos, ok := coords[c.City]; ok {
			row.Latitude, row.Longitude, row.HasCoords = pos.Lat, pos.Lon, true
		}
		rows = append(rows, row)
	}
	return rows
}
