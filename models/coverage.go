package models

import (
	"time"

	"golang.org/x/net/html"
)

// RawRow is one data row of a yearly rankings table, as fetched.
// It is consumed by the row parser within the same year and then dropped.
type RawRow struct {
	Year     int
	Position int
	Node     *html.Node
}

// ParsedEntry is the (city, index) pair read from a single RawRow.
type ParsedEntry struct {
	City  string
	Index float64
}

// CoverageMap maps a city name to its cost-of-living index.
type CoverageMap map[string]float64

// InsertIfAbsent stores index for city only when the city has no value yet.
// Years are walked newest first, so the first value seen is the most recent
// one and must never be replaced. Returns true if the value was stored.
func (m CoverageMap) InsertIfAbsent(city string, index float64) bool {
	if _, ok := m[city]; ok {
		return false
	}
	m[city] = index
	return true
}

// Has reports whether city is already resolved.
func (m CoverageMap) Has(city string) bool {
	_, ok := m[city]
	return ok
}

// YearAttempt records what a single year contributed to a run.
type YearAttempt struct {
	Year      int
	Rows      int
	Parsed    int
	Skipped   int
	NewCities []string
	Err       error
}

// Coverage is the finished artifact of one collection run.
type Coverage struct {
	RunID    string
	Targets  []string
	Values   CoverageMap
	Sources  map[string]int // city -> year that resolved it
	Attempts []YearAttempt
	Complete bool
	Started  time.Time
	Finished time.Time
}

// Missing returns the targets that were not resolved, in target order.
func (c *Coverage) Missing() []string {
	var out []string
	for _, city := range c.Targets {
		if !c.Values.Has(city) {
			out = append(out, city)
		}
	}
	return out
}

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// CityIndex is a resolved city ready for reporting or export.
type CityIndex struct {
	City  string
	Index float64
	Year  int
}

// Resolved lists resolved cities in target order.
func (c *Coverage) Resolved() []CityIndex {
	out := make([]CityIndex, 0, len(c.Values))
	for _, city := range c.Targets {
		idx, ok := c.Values[city]
		if !ok {
			continue
		}
		out = append(out, CityIndex{City: city, Index: idx, Year: c.Sources[city]})
	}
	return out
}

// SummaryReport holds the computed statistics over a finished coverage.
type SummaryReport struct {
	TotalTargets  int
	ResolvedCount int
	Complete      bool
	AverageIndex  float64
	MinIndex      float64
	MaxIndex      float64
	MostExpensive *CityIndex
	Cheapest      *CityIndex
	Ranked        []CityIndex
	Missing       []string
	CitiesByYear  map[int]int
}
