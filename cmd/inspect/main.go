// Command inspect extracts one spot's forecast table and prints every stage
// of its normalization. It is used to check the scraper against layout
// changes and to capture fixtures for the test suites.
//
// Usage:
//
//	go run ./cmd/inspect -spot La-Sauzaie
//	go run ./cmd/inspect -file internal/adapter/surfforecast/testdata/six_day.html -date 2024-05-18
//	go run ./cmd/inspect -spot Sion -json-out testdata/sion_raw.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gschone-data/pySurf/internal/adapter/surfforecast"
	"github.com/gschone-data/pySurf/internal/config"
	"github.com/gschone-data/pySurf/internal/domain"
	"github.com/gschone-data/pySurf/internal/observability"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	spot := flag.String("spot", "", "spot slug to fetch from the forecast site")
	file := flag.String("file", "", "parse a saved forecast page instead of fetching")
	date := flag.String("date", "", "reference date as YYYY-MM-DD (default: today in TIMEZONE)")
	jsonOut := flag.String("json-out", "", "write the raw extracted columns as JSON to this path")
	flag.Parse()

	if (*spot == "") == (*file == "") {
		flag.Usage()
		return fmt.Errorf("exactly one of -spot or -file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	clock := clockwork.NewRealClock()
	if *date != "" {
		d, err := time.Parse(time.DateOnly, *date)
		if err != nil {
			return fmt.Errorf("invalid -date: %w", err)
		}
		// Noon keeps the date stable across TIMEZONE offsets.
		clock = clockwork.NewFakeClockAt(d.Add(12 * time.Hour))
	}
	today := domain.Today(clock, cfg.Location)

	table, err := extract(cfg, *spot, *file)
	if err != nil {
		return err
	}

	if *jsonOut != "" {
		if err := writeJSON(*jsonOut, table); err != nil {
			return fmt.Errorf("writing raw table: %w", err)
		}
		log.Printf("wrote raw table: %s", *jsonOut)
	}

	printRaw(table)

	rows, report := domain.NormalizeSpot(table, today)
	fmt.Printf("\n=== Normalized (%d rows, reference %s) ===\n", report.Rows, today.Format(time.DateOnly))
	if report.Truncated() {
		fmt.Printf("column mismatch: days=%d times=%d ratings=%d\n", report.Days, report.Times, report.Ratings)
	}
	if report.Empty() {
		fmt.Println("no usable rows")
		return nil
	}

	for _, row := range domain.Reconstruct(rows, today) {
		fmt.Printf("%s  %-10s %-6s %-11s %-12s %s\n",
			row.Key(),
			row.DayLabel,
			domain.FormatRating(row.Rating)+ratingSuffix(row.Rating),
			row.TimeOfDay,
			domain.FormatWeather(row.WaveHeight, row.Period),
			strings.TrimSpace(fmt.Sprintf("%d%s %s", row.WindSpeed, row.WindDir, row.WindState)),
		)
	}
	return nil
}

func extract(cfg *config.Config, spot, file string) (domain.RawSpotTable, error) {
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return domain.RawSpotTable{}, fmt.Errorf("open: %w", err)
		}
		defer f.Close()
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		return surfforecast.ParseForecastTable(name, f)
	}

	logger := observability.NewLogger(cfg)
	client := surfforecast.NewClient(cfg.ForecastURL, cfg.FetchTimeout, observability.NewMetricsForTesting(), logger)
	log.Printf("fetching %s", client.SpotURL(spot))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	defer cancel()
	return client.ExtractSpot(ctx, spot)
}

func printRaw(t domain.RawSpotTable) {
	fmt.Printf("=== Raw columns for %s ===\n", t.Spot)
	printColumn(os.Stdout, "days", t.Days)
	printColumn(os.Stdout, "times", t.Times)
	printColumn(os.Stdout, "ratings", t.Ratings)
	printColumn(os.Stdout, "waves", t.Waves)
	printColumn(os.Stdout, "periods", t.Periods)
	printColumn(os.Stdout, "winds", t.Winds)
	printColumn(os.Stdout, "wind states", t.WindStates)
}

func printColumn(w io.Writer, name string, values []string) {
	fmt.Fprintf(w, "%-12s (%2d) %s\n", name, len(values), strings.Join(values, " | "))
}

func ratingSuffix(rating int) string {
	switch {
	case rating < 0:
		return domain.SaturationMarker
	case rating == 0:
		return "0"
	default:
		return ""
	}
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
