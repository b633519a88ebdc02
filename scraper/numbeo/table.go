package numbeo

import (
	"errors"

	"github.com/PuerkitoBio/goquery"

	"col-heatmap/models"
)

const (
	rankingsTableID = "t2"
	dataRowStyle    = "width: 100%"
)

var (
	// ErrNoTable means the page has no rankings table for that year.
	ErrNoTable = errors.New("rankings table not found")
	// ErrNoTableBody means the rankings table has no body.
	ErrNoTableBody = errors.New("rankings table has no body")
)

// ExtractRows returns the data rows of the rankings table in document order.
// Header and footer rows are left out: only rows carrying the data row style
// are kept. A missing table or body is reported with ErrNoTable or
// ErrNoTableBody, which callers treat as "no data" for the year.
func ExtractRows(doc *goquery.Document, year int) ([]models.RawRow, error) {
	table := doc.Find("table#" + rankingsTableID).First()
	if table.Length() == 0 {
		return nil, ErrNoTable
	}

	tbody := table.ChildrenFiltered("tbody").First()
	if tbody.Length() == 0 {
		return nil, ErrNoTableBody
	}

	trs := tbody.ChildrenFiltered(`tr[style="` + dataRowStyle + `"]`)
	rows := make([]models.RawRow, 0, trs.Length())
	trs.Each(func(i int, tr *goquery.Selection) {
		rows = append(rows, models.RawRow{Year: year, Position: i, Node: tr.Get(0)})
	})
	return rows, nil
}
