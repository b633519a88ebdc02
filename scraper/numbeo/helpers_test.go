package numbeo

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"col-heatmap/models"
)

// rankingsPage renders a rankings page with one data row per entry plus a
// header row that must never be picked up.
func rankingsPage(rows ...[]string) string {
	var b strings.Builder
	b.WriteString(`<html><body><table id="t2"><thead><tr><th>Rank</th><th>City</th><th>Cost of Living Index</th></tr></thead><tbody>`)
	b.WriteString(`<tr class="header"><td>-</td><td>City</td><td>Index</td></tr>`)
	for _, cells := range rows {
		b.WriteString(`<tr style="width: 100%">`)
		for i, c := range cells {
			if i == 1 {
				fmt.Fprintf(&b, `<td class="cityOrCountryInIndicesTable"><a class="cityOrCountryInIndicesTable" href="#">%s</a></td>`, c)
				continue
			}
			fmt.Fprintf(&b, "<td>%s</td>", c)
		}
		b.WriteString("</tr>")
	}
	b.WriteString(`</tbody></table></body></html>`)
	return b.String()
}

func mustDoc(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	return doc
}

func rowFromHTML(t *testing.T, tr string) models.RawRow {
	t.Helper()
	doc := mustDoc(t, "<table><tbody>"+tr+"</tbody></table>")
	sel := doc.Find("tr").First()
	if sel.Length() == 0 {
		t.Fatalf("no <tr> in %q", tr)
	}
	return models.RawRow{Node: sel.Get(0)}
}
