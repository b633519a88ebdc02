package numbeo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"

	"col-heatmap/metrics"
	"col-heatmap/models"
	"col-heatmap/utils"
)

// Fetcher retrieves the data rows of one year's rankings page.
type Fetcher struct {
	baseURL   string
	transport Transport
	cooldown  *utils.Cooldown
	logger    *utils.Logger
}

// NewFetcher creates a Fetcher for baseURL. cooldown is taken after every
// attempt, successful or not.
func NewFetcher(baseURL string, transport Transport, cooldown *utils.Cooldown, logger *utils.Logger) *Fetcher {
	return &Fetcher{
		baseURL:   baseURL,
		transport: transport,
		cooldown:  cooldown,
		logger:    logger,
	}
}

// URL returns the rankings page address for year.
func (f *Fetcher) URL(year int) string {
	u, err := url.Parse(f.baseURL)
	if err != nil {
		return f.baseURL + "?title=" + strconv.Itoa(year)
	}
	q := u.Query()
	q.Set("title", strconv.Itoa(year))
	u.RawQuery = q.Encode()
	return u.String()
}

// Fetch performs exactly one retrieval for year. A page without the rankings
// table yields no rows and no error. Network, timeout and status failures
// are returned so the caller can count the year as empty.
func (f *Fetcher) Fetch(ctx context.Context, year int) ([]models.RawRow, error) {
	pageURL := f.URL(year)
	defer f.cooldown.Wait(ctx)

	f.logger.Info("[numbeo] Fetching data from: %s", pageURL)
	metrics.FetchAttemptsTotal.Inc()

	start := time.Now()
	body, err := f.transport.Get(ctx, pageURL)
	metrics.FetchDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.FetchFailuresTotal.WithLabelValues(failureKind(err)).Inc()
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		metrics.FetchFailuresTotal.WithLabelValues("parse").Inc()
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	rows, err := ExtractRows(doc, year)
	if errors.Is(err, ErrNoTable) || errors.Is(err, ErrNoTableBody) {
		f.logger.Warn("[numbeo] %d: %v", year, err)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	metrics.RowsSeenTotal.Add(float64(len(rows)))
	f.logger.Debug("[numbeo] %d: %d data rows", year, len(rows))
	return rows, nil
}
