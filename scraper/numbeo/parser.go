package numbeo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"col-heatmap/metrics"
	"col-heatmap/models"
)

const cityLinkSelector = "a.cityOrCountryInIndicesTable"

var (
	ErrTooFewCells = errors.New("row has fewer than 3 cells")
	ErrMissingCell = errors.New("row has an empty city or index cell")
	ErrBadIndex    = errors.New("index cell is not a number")
)

// Parser turns one rankings row into a (city, index) entry. Rows are laid
// out as: rank | "City, Country" | cost-of-living index | ...
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads the city from cell 1 and the index from cell 2. A failure
// only concerns this row; the caller skips it and moves on. When the city
// could be read but the index could not, the returned entry still carries
// the city so the caller can say which city was skipped.
func (p *Parser) Parse(row models.RawRow) (models.ParsedEntry, error) {
	entry, err := p.parse(row)
	if err != nil {
		metrics.RowsSkippedTotal.WithLabelValues(SkipReason(err)).Inc()
	}
	return entry, err
}

func (p *Parser) parse(row models.RawRow) (models.ParsedEntry, error) {
	if row.Node == nil {
		return models.ParsedEntry{}, ErrTooFewCells
	}

	cells := goquery.NewDocumentFromNode(row.Node).ChildrenFiltered("td")
	if cells.Length() < 3 {
		return models.ParsedEntry{}, fmt.Errorf("%w: got %d", ErrTooFewCells, cells.Length())
	}

	city := CityFromLabel(cityLabel(cells.Eq(1)))
	indexText := strings.TrimSpace(cells.Eq(2).Text())
	if city == "" || indexText == "" {
		return models.ParsedEntry{}, ErrMissingCell
	}

	index, err := strconv.ParseFloat(indexText, 64)
	if err != nil {
		return models.ParsedEntry{City: city}, fmt.Errorf("%w: %q for %s", ErrBadIndex, indexText, city)
	}
	if math.IsNaN(index) || math.IsInf(index, 0) {
		return models.ParsedEntry{City: city}, fmt.Errorf("%w: %q for %s", ErrBadIndex, indexText, city)
	}

	return models.ParsedEntry{City: city, Index: index}, nil
}

// cityLabel prefers the city link inside the cell and falls back to the
// whole cell text.
func cityLabel(cell *goquery.Selection) string {
	if link := cell.Find(cityLinkSelector).First(); link.Length() > 0 {
		return link.Text()
	}
	return cell.Text()
}

// CityFromLabel keeps the part of a "City, Country" label before the first
// comma, with whitespace trimmed and internal runs collapsed.
func CityFromLabel(label string) string {
	city, _, _ := strings.Cut(label, ",")
	return strings.Join(strings.Fields(city), " ")
}

// SkipReason labels a parse error for metrics and logs.
func SkipReason(err error) string {
	switch {
	case errors.Is(err, ErrTooFewCells):
		return "too_few_cells"
	case errors.Is(err, ErrMissingCell):
		return "missing_cell"
	case errors.Is(err, ErrBadIndex):
		return "bad_index"
	default:
		return "other"
	}
}
