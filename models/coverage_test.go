package models

import (
	"reflect"
	"testing"
)

func TestCoverageMapInsertIfAbsent(t *testing.T) {
	m := CoverageMap{}
	if !m.InsertIfAbsent("Ankara", 45.2) {
		t.Error("first insert should store the value")
	}
	if m.InsertIfAbsent("Ankara", 40.0) {
		t.Error("second insert must not overwrite")
	}
	if m["Ankara"] != 45.2 {
		t.Errorf("Ankara: got %v, want 45.2", m["Ankara"])
	}
}

func TestCoverageMissingAndResolved(t *testing.T) {
	c := &Coverage{
		Targets: []string{"Ankara", "Bursa", "Izmir"},
		Values:  CoverageMap{"Izmir": 38.7, "Ankara": 45.2},
		Sources: map[string]int{"Izmir": 2023, "Ankara": 2024},
	}

	if got := c.Missing(); !reflect.DeepEqual(got, []string{"Bursa"}) {
		t.Errorf("Missing: got %v", got)
	}
	want := []CityIndex{{City: "Ankara", Index: 45.2, Year: 2024}, {City: "Izmir", Index: 38.7, Year: 2023}}
	if got := c.Resolved(); !reflect.DeepEqual(got, want) {
		t.Errorf("Resolved: got %v, want %v", got, want)
	}
}
