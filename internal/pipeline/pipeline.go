package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gschone-data/pySurf/internal/domain"
	"github.com/gschone-data/pySurf/internal/observability"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// ErrNoData is returned when no spot of a region produced a usable row.
var ErrNoData = errors.New("no forecast data")

// SpotExtractor returns the raw forecast columns of one spot.
type SpotExtractor interface {
	ExtractSpot(ctx context.Context, spot string) (domain.RawSpotTable, error)
}

// ReportSink receives every report a run produces.
type ReportSink interface {
	Publish(ctx context.Context, report domain.Report) error
}

type namedSink struct {
	name string
	sink ReportSink
}

// Pipeline runs the fetch-normalize-aggregate-publish cycle for a region.
type Pipeline struct {
	extractor SpotExtractor
	sinks     []namedSink
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	location  *time.Location
	limiter   *rate.Limiter
	linker    domain.SpotLinker
	retry     retryPolicy
	ready     atomic.Bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock sets the clock that decides "today" and report timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// WithLocation sets the time zone whose calendar date is "today".
func WithLocation(loc *time.Location) Option {
	return func(p *Pipeline) { p.location = loc }
}

// WithLimiter bounds the rate of page fetches across all spots.
func WithLimiter(l *rate.Limiter) Option {
	return func(p *Pipeline) { p.limiter = l }
}

// WithLinker sets how spot names become forecast page links.
func WithLinker(l domain.SpotLinker) Option {
	return func(p *Pipeline) { p.linker = l }
}

// WithRetries retries a failed spot extraction up to n more times, starting
// at the given backoff and doubling up to maxBackoff.
func WithRetries(n int, backoff, maxBackoff time.Duration) Option {
	return func(p *Pipeline) {
		p.retry = retryPolicy{attempts: n + 1, backoff: backoff, maxBackoff: maxBackoff}
	}
}

// WithSink adds a report sink. Sinks are published to in the order added.
func WithSink(name string, sink ReportSink) Option {
	return func(p *Pipeline) { p.sinks = append(p.sinks, namedSink{name: name, sink: sink}) }
}

// New creates a Pipeline with the given extractor and observability.
func New(extractor SpotExtractor, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor: extractor,
		logger:    logger,
		metrics:   metrics,
		clock:     clockwork.NewRealClock(),
		location:  time.UTC,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		retry:     retryPolicy{attempts: 1},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once a region run has produced a report.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no forecast report produced yet")
	}
	return nil
}

// RunRegion fetches every spot of the region concurrently, consolidates
// their rows and publishes the report to all sinks. It returns ErrNoData
// when no spot yielded rows. Sink failures are returned alongside the
// report.
func (p *Pipeline) RunRegion(ctx context.Context, region domain.Region) (domain.Report, error) {
	start := p.clock.Now()
	p.metrics.PipelineRunning.Inc()
	defer p.metrics.PipelineRunning.Dec()

	logger := p.logger.With("region", region.Slug)
	logger.Info("region run started", "spots", len(region.Spots))

	today := domain.Today(p.clock, p.location)

	// Results are indexed by spot so concatenation order is the configured
	// spot order whatever the completion order.
	perSpot := make([][]domain.DatedForecastRow, len(region.Spots))
	var wg sync.WaitGroup
	for i, spot := range region.Spots {
		wg.Go(func() {
			perSpot[i] = p.processSpot(ctx, logger, spot, today)
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		p.metrics.RunsTotal.WithLabelValues(region.Slug, "error").Inc()
		return domain.Report{}, fmt.Errorf("region %s: %w", region.Slug, err)
	}

	spotsWithData := 0
	for _, rows := range perSpot {
		if len(rows) > 0 {
			spotsWithData++
		}
	}

	slots := domain.Aggregate(perSpot)
	if len(slots) == 0 {
		p.metrics.RunsTotal.WithLabelValues(region.Slug, "no_data").Inc()
		return domain.Report{}, fmt.Errorf("region %s: %w", region.Slug, ErrNoData)
	}

	report := domain.NewReport(region, p.clock.Now(), slots, spotsWithData, p.linker)
	p.ready.Store(true)

	p.metrics.SlotsProduced.WithLabelValues(region.Slug).Set(float64(len(slots)))
	p.metrics.LastSuccess.WithLabelValues(region.Slug).Set(float64(report.GeneratedAt.Unix()))
	p.metrics.RunDuration.WithLabelValues(region.Slug).Observe(p.clock.Since(start).Seconds())

	err := p.publish(ctx, logger, report)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	p.metrics.RunsTotal.WithLabelValues(region.Slug, outcome).Inc()

	logger.Info("region run complete",
		"slots", len(slots),
		"spots_with_data", spotsWithData,
		"best_rating", report.Best.Rating,
		"duration", p.clock.Since(start),
	)
	return report, err
}

// RunAll runs each region in order. Regions without data are logged and
// skipped; other failures are joined into the returned error.
func (p *Pipeline) RunAll(ctx context.Context, regions []domain.Region) ([]domain.Report, error) {
	var (
		reports []domain.Report
		errs    []error
	)
	for _, region := range regions {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		report, err := p.RunRegion(ctx, region)
		switch {
		case errors.Is(err, ErrNoData):
			p.logger.Warn("nothing to render", "region", region.Slug)
			continue
		case err != nil:
			errs = append(errs, err)
		}
		if len(report.Slots) > 0 {
			reports = append(reports, report)
		}
	}
	return reports, errors.Join(errs...)
}

func (p *Pipeline) publish(ctx context.Context, logger *slog.Logger, report domain.Report) error {
	var errs []error
	for _, s := range p.sinks {
		if err := s.sink.Publish(ctx, report); err != nil {
			logger.Error("publish report failed", "sink", s.name, "error", err)
			p.metrics.SinkErrors.WithLabelValues(s.name).Inc()
			errs = append(errs, fmt.Errorf("sink %s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}
