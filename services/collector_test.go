package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"col-heatmap/models"
	"col-heatmap/scraper/numbeo"
	"col-heatmap/utils"
)

// fakeFetcher serves pre-rendered rows per year and records every call.
type fakeFetcher struct {
	rows  map[int][]models.RawRow
	errs  map[int]error
	calls []int
}

func (f *fakeFetcher) Fetch(ctx context.Context, year int) ([]models.RawRow, error) {
	f.calls = append(f.calls, year)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.errs[year]; err != nil {
		return nil, err
	}
	return f.rows[year], nil
}

// tableRows renders "City, Turkey | index" rows and returns them as raw rows.
func tableRows(t *testing.T, year int, entries ...string) []models.RawRow {
	t.Helper()
	var b strings.Builder
	b.WriteString(`<table id="t2"><tbody>`)
	for i := 0; i+1 < len(entries); i += 2 {
		fmt.Fprintf(&b, `<tr style="width: 100%%"><td>%d</td><td>%s, Turkey</td><td>%s</td></tr>`,
			i/2+1, entries[i], entries[i+1])
	}
	b.WriteString(`</tbody></table>`)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("parse rows: %v", err)
	}
	rows, err := numbeo.ExtractRows(doc, year)
	if err != nil {
		t.Fatalf("extract rows: %v", err)
	}
	return rows
}

func newTestCollector(f YearFetcher) *Collector {
	return NewCollector(f, numbeo.NewParser(), utils.Discard())
}

func TestCollectScenarioRecencyWins(t *testing.T) {
	f := &fakeFetcher{rows: map[int][]models.RawRow{
		2024: tableRows(t, 2024, "Ankara", "45.2"),
		2023: tableRows(t, 2023, "Ankara", "50.0", "Izmir", "38.7"),
	}}

	cov, err := newTestCollector(f).Collect(context.Background(), utils.NewCitySet("Ankara", "Izmir"), []int{2024, 2023})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := models.CoverageMap{"Ankara": 45.2, "Izmir": 38.7}
	if !reflect.DeepEqual(cov.Values, want) {
		t.Errorf("Values: got %v, want %v", cov.Values, want)
	}
	if !cov.Complete {
		t.Error("expected complete coverage")
	}
	if cov.Sources["Ankara"] != 2024 || cov.Sources["Izmir"] != 2023 {
		t.Errorf("Sources: got %v", cov.Sources)
	}
	if cov.RunID == "" {
		t.Error("RunID should be set")
	}
}

func TestCollectIncompleteFlag(t *testing.T) {
	rows := func(year int) []models.RawRow { return tableRows(t, year, "Ankara", "45.0") }
	f := &fakeFetcher{rows: map[int][]models.RawRow{2024: rows(2024), 2023: rows(2023), 2022: rows(2022)}}

	cov, err := newTestCollector(f).Collect(context.Background(), utils.NewCitySet("Ankara", "Bursa"), []int{2024, 2023, 2022})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := (models.CoverageMap{"Ankara": 45.0}); !reflect.DeepEqual(cov.Values, want) {
		t.Errorf("Values: got %v, want %v", cov.Values, want)
	}
	if cov.Complete {
		t.Error("expected incomplete coverage")
	}
	if !reflect.DeepEqual(cov.Missing(), []string{"Bursa"}) {
		t.Errorf("Missing: got %v", cov.Missing())
	}
	if len(f.calls) != 3 {
		t.Errorf("fetches: got %d, want 3", len(f.calls))
	}
}

func TestCollectEarlyExit(t *testing.T) {
	f := &fakeFetcher{rows: map[int][]models.RawRow{
		2024: tableRows(t, 2024, "Ankara", "45.2"),
		2023: tableRows(t, 2023, "Izmir", "38.7"),
		2022: tableRows(t, 2022, "Bursa", "30.0"),
	}}

	cov, err := newTestCollector(f).Collect(context.Background(), utils.NewCitySet("Ankara", "Izmir"), []int{2024, 2023, 2022, 2021})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cov.Complete {
		t.Error("expected complete coverage")
	}
	if !reflect.DeepEqual(f.calls, []int{2024, 2023}) {
		t.Errorf("fetched years: got %v, want [2024 2023]", f.calls)
	}
}

func TestCollectTerminationBound(t *testing.T) {
	for _, window := range []int{0, 1, 3, 6} {
		f := &fakeFetcher{errs: map[int]error{}}
		years := YearWindow(2025, window)
		for _, y := range years {
			f.errs[y] = errors.New("connection refused")
		}

		cov, err := newTestCollector(f).Collect(context.Background(), utils.NewCitySet("Ankara", "Bursa", "Konya"), years)
		if err != nil {
			t.Fatalf("window %d: unexpected error: %v", window, err)
		}
		if len(f.calls) > window {
			t.Errorf("window %d: %d fetches", window, len(f.calls))
		}
		if len(cov.Attempts) != len(f.calls) {
			t.Errorf("window %d: %d attempts recorded for %d fetches", window, len(cov.Attempts), len(f.calls))
		}
		if cov.Complete {
			t.Errorf("window %d: unexpected complete coverage", window)
		}
	}
}

func TestCollectFetchFailureIsNonFatal(t *testing.T) {
	fetchErr := errors.New("HTTP 503")
	f := &fakeFetcher{
		errs: map[int]error{2024: fetchErr},
		rows: map[int][]models.RawRow{2023: tableRows(t, 2023, "Ankara", "41.0")},
	}

	cov, err := newTestCollector(f).Collect(context.Background(), utils.NewCitySet("Ankara"), []int{2024, 2023})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cov.Values["Ankara"] != 41.0 || !cov.Complete {
		t.Errorf("expected Ankara from 2023, got %v (complete=%v)", cov.Values, cov.Complete)
	}
	if !errors.Is(cov.Attempts[0].Err, fetchErr) {
		t.Errorf("attempt 2024 error: got %v", cov.Attempts[0].Err)
	}
}

func TestCollectSkipsBadRows(t *testing.T) {
	f := &fakeFetcher{rows: map[int][]models.RawRow{
		2024: tableRows(t, 2024, "Ankara", "N/A", "Istanbul", "?", "Izmir", "38.7", "Bursa", "33.1"),
		2023: tableRows(t, 2023, "Ankara", "40.0"),
	}}

	cov, err := newTestCollector(f).Collect(context.Background(), utils.NewCitySet("Ankara", "Izmir", "Bursa"), []int{2024, 2023})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.CoverageMap{"Ankara": 40.0, "Izmir": 38.7, "Bursa": 33.1}
	if !reflect.DeepEqual(cov.Values, want) {
		t.Errorf("Values: got %v, want %v", cov.Values, want)
	}
	if a := cov.Attempts[0]; a.Skipped != 2 || a.Parsed != 2 || a.Rows != 4 {
		t.Errorf("2024 attempt: got %+v", a)
	}
}

func TestCollectDuplicateLabelFirstWins(t *testing.T) {
	f := &fakeFetcher{rows: map[int][]models.RawRow{
		2024: tableRows(t, 2024, "Ankara", "45.2", "Ankara", "99.9"),
	}}

	cov, err := newTestCollector(f).Collect(context.Background(), utils.NewCitySet("Ankara"), []int{2024})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cov.Values["Ankara"] != 45.2 {
		t.Errorf("Ankara: got %v, want 45.2", cov.Values["Ankara"])
	}
}

func TestCollectIgnoresNonTargets(t *testing.T) {
	f := &fakeFetcher{rows: map[int][]models.RawRow{
		2024: tableRows(t, 2024, "Zurich", "120.0", "Ankara", "45.2"),
	}}

	cov, _ := newTestCollector(f).Collect(context.Background(), utils.NewCitySet("Ankara"), []int{2024})
	if _, ok := cov.Values["Zurich"]; ok {
		t.Error("non-target city must not be stored")
	}
}

func TestCollectIdempotent(t *testing.T) {
	rows := map[int][]models.RawRow{
		2024: tableRows(t, 2024, "Ankara", "45.2", "Konya", "30.1"),
		2023: tableRows(t, 2023, "Ankara", "44.0", "Izmir", "38.7"),
	}
	targets := utils.NewCitySet("Ankara", "Izmir", "Konya", "Bursa")
	years := []int{2024, 2023}

	first, _ := newTestCollector(&fakeFetcher{rows: rows}).Collect(context.Background(), targets, years)
	second, _ := newTestCollector(&fakeFetcher{rows: rows}).Collect(context.Background(), targets, years)

	if !reflect.DeepEqual(first.Values, second.Values) || first.Complete != second.Complete {
		t.Errorf("runs differ: %v vs %v", first.Values, second.Values)
	}
	if first.RunID == second.RunID {
		t.Error("each run should get its own RunID")
	}
}

func TestCollectEmptyTargets(t *testing.T) {
	f := &fakeFetcher{}
	cov, err := newTestCollector(f).Collect(context.Background(), utils.NewCitySet(), []int{2024})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cov.Complete || len(f.calls) != 0 {
		t.Errorf("empty targets: complete=%v fetches=%d", cov.Complete, len(f.calls))
	}
}

func TestCollectRejectsUnorderedYears(t *testing.T) {
	f := &fakeFetcher{}
	for _, years := range [][]int{{2023, 2024}, {2024, 2024}} {
		_, err := newTestCollector(f).Collect(context.Background(), utils.NewCitySet("Ankara"), years)
		if !errors.Is(err, ErrYearOrder) {
			t.Errorf("years %v: err = %v; want ErrYearOrder", years, err)
		}
	}
	if len(f.calls) != 0 {
		t.Errorf("no fetch should happen for an invalid window, got %v", f.calls)
	}
}

func TestCollectCancelledContextEndsByWindow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &fakeFetcher{rows: map[int][]models.RawRow{2023: tableRows(t, 2023, "Ankara", "41.0")}}
	cov, err := newTestCollector(f).Collect(ctx, utils.NewCitySet("Ankara"), []int{2024, 2023})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(f.calls, []int{2024, 2023}) {
		t.Errorf("fetched years: got %v, want [2024 2023]", f.calls)
	}
	if cov.Complete || len(cov.Values) != 0 {
		t.Errorf("expected empty incomplete coverage, got %v (complete=%v)", cov.Values, cov.Complete)
	}
	for _, a := range cov.Attempts {
		if !errors.Is(a.Err, context.Canceled) {
			t.Errorf("attempt %d: err = %v; want context.Canceled", a.Year, a.Err)
		}
	}
}

func TestYearWindow(t *testing.T) {
	if got := YearWindow(2025, 4); !reflect.DeepEqual(got, []int{2025, 2024, 2023, 2022}) {
		t.Errorf("YearWindow(2025, 4) = %v", got)
	}
	if got := YearWindow(2025, 0); got != nil {
		t.Errorf("YearWindow(2025, 0) = %v; want nil", got)
	}
}
