package pipeline

import (
	"context"
	"log/slog"
	"time"

	sharedretry "github.com/couchcryptid/storm-data-shared/retry"
	"github.com/gschone-data/pySurf/internal/domain"
)

type retryPolicy struct {
	attempts   int
	backoff    time.Duration
	maxBackoff time.Duration
}

// processSpot turns one spot into dated rows. Every failure is absorbed
// here: the spot then contributes no rows to the run.
func (p *Pipeline) processSpot(ctx context.Context, logger *slog.Logger, spot string, today time.Time) []domain.DatedForecastRow {
	logger = logger.With("spot", spot)

	table, err := p.extract(ctx, spot)
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn("spot extraction failed, skipping", "error", err)
		}
		p.metrics.SpotExtractions.WithLabelValues("error").Inc()
		return nil
	}

	rows, report := domain.NormalizeSpot(table, today)
	if report.Truncated() {
		logger.Warn("column lengths differ, truncating",
			"days", report.Days,
			"times", report.Times,
			"ratings", report.Ratings,
		)
		p.metrics.SpotLengthMismatches.Inc()
	}
	if report.Empty() {
		logger.Info("spot has no usable rows")
		p.metrics.SpotExtractions.WithLabelValues("empty").Inc()
		return nil
	}

	p.metrics.SpotExtractions.WithLabelValues("ok").Inc()
	p.metrics.RowsNormalized.Add(float64(len(rows)))
	return domain.Reconstruct(rows, today)
}

// extract calls the extractor through the rate limiter, retrying with
// exponential backoff.
func (p *Pipeline) extract(ctx context.Context, spot string) (domain.RawSpotTable, error) {
	backoff := p.retry.backoff
	var err error
	for attempt := range max(1, p.retry.attempts) {
		if attempt > 0 {
			if !sharedretry.SleepWithContext(ctx, backoff) {
				return domain.RawSpotTable{}, ctx.Err()
			}
			backoff = sharedretry.NextBackoff(backoff, p.retry.maxBackoff)
		}
		if werr := p.limiter.Wait(ctx); werr != nil {
			return domain.RawSpotTable{}, werr
		}

		var table domain.RawSpotTable
		table, err = p.extractor.ExtractSpot(ctx, spot)
		if err == nil {
			return table, nil
		}
		if ctx.Err() != nil {
			return domain.RawSpotTable{}, err
		}
	}
	return domain.RawSpotTable{}, err
}
