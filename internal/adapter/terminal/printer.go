// Package terminal prints region reports as tables on a terminal.
package terminal

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gschone-data/pySurf/internal/domain"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	bestStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	goodStyle   = cellStyle.Foreground(lipgloss.Color("42"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// goodRating highlights rows worth paddling out for.
const goodRating = 4

// Printer writes reports to w. It implements pipeline.ReportSink.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Publish(_ context.Context, report domain.Report) error {
	_, err := io.WriteString(p.w, Render(report)+"\n")
	return err
}

// Render formats a report as a title, a best-session line and a table.
func Render(report domain.Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(report.Region.Name))
	b.WriteString("\n")
	b.WriteString(bestLine(report.Best))
	b.WriteString("\n")

	if len(report.Table) == 0 {
		b.WriteString("No forecast available.")
		return b.String()
	}

	rows := make([][]string, len(report.Table))
	for i, row := range report.Table {
		rows[i] = []string{row.Date, row.When, row.Rating, row.Weather, spotNames(row.Spots)}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Date", "When", "Rating", "Weather", "Spots").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(report.Table) && report.Table[row].BestRating >= goodRating:
				return goodStyle
			default:
				return cellStyle
			}
		})

	b.WriteString(t.Render())
	return b.String()
}

func bestLine(best domain.BestSession) string {
	if !best.Found {
		return "Best session: " + domain.NoData
	}
	return bestStyle.Render(fmt.Sprintf("Best session: %s %s %s %s",
		best.Date, best.When, best.Rating, spotNames(best.Links)))
}

func spotNames(links []domain.SpotLink) string {
	names := make([]string, len(links))
	for i, l := range links {
		names[i] = l.Name
	}
	return strings.Join(names, ", ")
}
