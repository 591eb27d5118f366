package surfforecast

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gschone-data/pySurf/internal/domain"
)

// ErrLayout is returned when a page lacks the rows every forecast table has.
var ErrLayout = errors.New("unexpected forecast page layout")

// Row names used by the forecast table's data-row-name attribute.
const (
	rowDays      = "days"
	rowTime      = "time"
	rowWave      = "wave-height"
	rowPeriods   = "periods"
	rowWind      = "wind"
	rowWindState = "wind-state"
)

// ParseForecastTable extracts the raw columns of a forecast page. The days
// row spans several columns per day, so each day label is repeated colspan
// times to line up with the other rows.
func ParseForecastTable(spot string, r io.Reader) (domain.RawSpotTable, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return domain.RawSpotTable{}, fmt.Errorf("parse %s page: %w", spot, err)
	}

	days := row(doc, rowDays)
	if days.Length() == 0 {
		return domain.RawSpotTable{}, fmt.Errorf("%s: %w: no %q row", spot, ErrLayout, rowDays)
	}
	times := row(doc, rowTime)
	if times.Length() == 0 {
		return domain.RawSpotTable{}, fmt.Errorf("%s: %w: no %q row", spot, ErrLayout, rowTime)
	}

	table := domain.RawSpotTable{
		Spot:       spot,
		Days:       expandDays(days),
		Times:      cellTexts(times),
		Waves:      cellTexts(row(doc, rowWave)),
		Periods:    cellTexts(row(doc, rowPeriods)),
		Winds:      cellTexts(row(doc, rowWind)),
		WindStates: cellTexts(row(doc, rowWindState)),
	}

	doc.Find("div.star-rating").Each(func(_ int, s *goquery.Selection) {
		table.Ratings = append(table.Ratings, strings.TrimSpace(s.Text()))
	})

	return table, nil
}

func row(doc *goquery.Document, name string) *goquery.Selection {
	return doc.Find(fmt.Sprintf("tr[data-row-name=%q]", name)).First()
}

func expandDays(tr *goquery.Selection) []string {
	var days []string
	tr.ChildrenFiltered("td").Each(func(_ int, td *goquery.Selection) {
		span := 1
		if v, ok := td.Attr("colspan"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
				span = n
			}
		}
		name := td.AttrOr("data-day-name", "")
		for range span {
			days = append(days, name)
		}
	})
	return days
}

func cellTexts(tr *goquery.Selection) []string {
	var cells []string
	tr.ChildrenFiltered("td").Each(func(_ int, td *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(td.Text()))
	})
	return cells
}
