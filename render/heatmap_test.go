package render

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"col-heatmap/models"
	"col-heatmap/utils"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		v, min, max float64
		want        float64
	}{
		{30, 30, 50, 0},
		{50, 30, 50, 1},
		{40, 30, 50, 0.5},
		{60, 30, 50, 1},
		{10, 30, 50, 0},
		{42, 42, 42, 0.5},
	}

	for _, tt := range tests {
		if got := Normalize(tt.v, tt.min, tt.max); got != tt.want {
			t.Errorf("Normalize(%v, %v, %v) = %v; want %v", tt.v, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestExtent(t *testing.T) {
	b := Extent([]models.Coordinate{
		{Lat: 41.0082, Lon: 28.9784},
		{Lat: 36.9081, Lon: 30.6956},
		{Lat: 39.9255, Lon: 32.8663},
	})

	const eps = 1e-9
	checks := []struct {
		name      string
		got, want float64
	}{
		{"MinLat", b.MinLat, 35.9081},
		{"MaxLat", b.MaxLat, 42.0082},
		{"MinLon", b.MinLon, 26.9784},
		{"MaxLon", b.MaxLon, 34.8663},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > eps {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestRenderWritesImage(t *testing.T) {
	coords := map[string]models.Coordinate{
		"Ankara": {Lat: 39.9255, Lon: 32.8663},
		"Izmir":  {Lat: 38.4237, Lon: 27.1428},
	}
	cov := &models.Coverage{
		Targets: []string{"Ankara", "Izmir", "Atlantis"},
		Values:  models.CoverageMap{"Ankara": 45.2, "Izmir": 38.7, "Atlantis": 12},
		Sources: map[string]int{"Ankara": 2024, "Izmir": 2023, "Atlantis": 2024},
	}

	path := filepath.Join(t.TempDir(), "maps", "heatmap.png")
	if err := NewHeatmap(coords, utils.Discard()).Render(cov, path); err != nil {
		t.Fatalf("Render: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("heatmap file is empty")
	}
}

func TestRenderNoData(t *testing.T) {
	h := NewHeatmap(map[string]models.Coordinate{}, utils.Discard())
	cov := &models.Coverage{
		Targets: []string{"Ankara"},
		Values:  models.CoverageMap{"Ankara": 45.2},
	}
	err := h.Render(cov, filepath.Join(t.TempDir(), "x.png"))
	if !errors.Is(err, ErrNoData) {
		t.Errorf("err = %v; want ErrNoData", err)
	}
}

func TestColorBarSpansIndexRange(t *testing.T) {
	tests := []struct {
		min, max         float64
		wantMin, wantMax float64
	}{
		{38.7, 52.8, 38.7, 52.8},
		{42, 42, 42, 43},
	}

	for _, tt := range tests {
		p := newColorBar(tt.min, tt.max)
		if p.X.Label.Text != colorBarLabel {
			t.Errorf("label: got %q", p.X.Label.Text)
		}
		if p.X.Min != tt.wantMin || p.X.Max != tt.wantMax {
			t.Errorf("newColorBar(%v, %v): X range [%v, %v], want [%v, %v]",
				tt.min, tt.max, p.X.Min, p.X.Max, tt.wantMin, tt.wantMax)
		}
	}
}

func TestRenderSingleCity(t *testing.T) {
	coords := map[string]models.Coordinate{"Ankara": {Lat: 39.9255, Lon: 32.8663}}
	cov := &models.Coverage{
		Targets: []string{"Ankara"},
		Values:  models.CoverageMap{"Ankara": 45.2},
		Sources: map[string]int{"Ankara": 2024},
	}

	path := filepath.Join(t.TempDir(), "one.png")
	if err := NewHeatmap(coords, utils.Discard()).Render(cov, path); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("expected non-empty image, stat err %v", err)
	}
}
