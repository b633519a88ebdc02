package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"col-heatmap/metrics"
	"col-heatmap/models"
	"col-heatmap/utils"
)

// ErrYearOrder is returned when the year window is not strictly descending.
var ErrYearOrder = errors.New("years must be strictly descending")

// YearFetcher returns the raw rows published for one year.
type YearFetcher interface {
	Fetch(ctx context.Context, year int) ([]models.RawRow, error)
}

// RowParser turns one raw row into a (city, index) entry.
type RowParser interface {
	Parse(row models.RawRow) (models.ParsedEntry, error)
}

// Collector resolves a cost-of-living index for every target city by walking
// the year window from newest to oldest.
type Collector struct {
	fetcher YearFetcher
	parser  RowParser
	logger  *utils.Logger
}

// NewCollector creates a Collector.
func NewCollector(fetcher YearFetcher, parser RowParser, logger *utils.Logger) *Collector {
	return &Collector{fetcher: fetcher, parser: parser, logger: logger}
}

// Collect queries each year in order and keeps the first value seen for each
// target city. It stops as soon as every target is resolved or the window is
// used up, so at most len(years) fetches happen. Fetch and parse failures
// never end the run; an unresolved city only shows up as Complete == false.
//
// The returned error is non-nil only for an invalid window. ctx is handed to
// the fetcher as is; a cancelled ctx makes the remaining fetches fail, which
// counts as empty years like any other fetch failure.
func (c *Collector) Collect(ctx context.Context, targets *utils.CitySet, years []int) (*models.Coverage, error) {
	if err := checkDescending(years); err != nil {
		return nil, err
	}

	cov := &models.Coverage{
		RunID:   uuid.NewString(),
		Targets: targets.Names(),
		Values:  make(models.CoverageMap, targets.Size()),
		Sources: make(map[string]int, targets.Size()),
		Started: time.Now(),
	}
	defer c.finish(cov)

	c.logger.Info("[collector] Run %s: %d target cities, years %v", cov.RunID, targets.Size(), years)

	if targets.Size() == 0 {
		cov.Complete = true
		return cov, nil
	}
	if len(years) == 0 {
		c.logger.Warn("[collector] Empty year window, nothing to fetch")
		return cov, nil
	}

	for i, year := range years {
		cov.Attempts = append(cov.Attempts, c.collectYear(ctx, cov, targets, year))

		if len(cov.Values) == targets.Size() {
			cov.Complete = true
			c.logger.Info("[collector] Successfully gathered cost of living data for all %d target cities", targets.Size())
			break
		}
		if i == len(years)-1 {
			c.logger.Warn("[collector] Could not gather data for all target cities within %d years; missing: %s",
				len(years), strings.Join(cov.Missing(), ", "))
			utils.CaptureWarning("incomplete cost of living coverage", map[string]string{
				"run_id":  cov.RunID,
				"missing": strings.Join(cov.Missing(), ","),
			})
			break
		}
		c.logger.Info("[collector] Remaining cities to find: %s", strings.Join(cov.Missing(), ", "))
	}

	return cov, nil
}

func (c *Collector) collectYear(ctx context.Context, cov *models.Coverage, targets *utils.CitySet, year int) models.YearAttempt {
	attempt := models.YearAttempt{Year: year}

	rows, err := c.fetcher.Fetch(ctx, year)
	if err != nil {
		attempt.Err = err
		c.logger.Error("[collector] Error fetching data for %d: %v", year, err)
		utils.CaptureError(err, map[string]string{"year": strconv.Itoa(year), "run_id": cov.RunID})
		return attempt
	}
	attempt.Rows = len(rows)

	for _, row := range rows {
		entry, err := c.parser.Parse(row)
		if err != nil {
			attempt.Skipped++
			if targets.Contains(entry.City) {
				c.logger.Warn("[collector] Could not convert index for %s (%d) to a number: %v", entry.City, year, err)
			} else {
				c.logger.Debug("[collector] %d row %d skipped: %v", year, row.Position, err)
			}
			continue
		}
		attempt.Parsed++

		if !targets.Contains(entry.City) {
			continue
		}
		if cov.Values.InsertIfAbsent(entry.City, entry.Index) {
			cov.Sources[entry.City] = year
			attempt.NewCities = append(attempt.NewCities, entry.City)
			c.logger.Info("[collector] Cost of Living Index for %s (%d): %.2f", entry.City, year, entry.Index)
		}
	}

	c.logger.Debug("[collector] %d: %d rows, %d parsed, %d skipped, %d new cities",
		year, attempt.Rows, attempt.Parsed, attempt.Skipped, len(attempt.NewCities))
	return attempt
}

func (c *Collector) finish(cov *models.Coverage) {
	cov.Finished = time.Now()
	metrics.CitiesTargeted.Set(float64(len(cov.Targets)))
	metrics.CitiesResolved.Set(float64(len(cov.Values)))
	if cov.Complete {
		metrics.CoverageComplete.Set(1)
	} else {
		metrics.CoverageComplete.Set(0)
	}
}

func checkDescending(years []int) error {
	for i := 1; i < len(years); i++ {
		if years[i] >= years[i-1] {
			return fmt.Errorf("%w: %d follows %d", ErrYearOrder, years[i], years[i-1])
		}
	}
	return nil
}

// YearWindow returns size years counting down from current.
func YearWindow(current, size int) []int {
	if size <= 0 {
		return nil
	}
	years := make([]int, size)
	for i := range years {
		years[i] = current - i
	}
	return years
}
