// Command surf-etl fetches surf forecasts for every configured region,
// consolidates them per slot and publishes HTML pages, Kafka messages and
// an HTTP API. With -once it runs a single pass and exits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gschone-data/pySurf/internal/adapter/httpadapter"
	kafkaadapter "github.com/gschone-data/pySurf/internal/adapter/kafka"
	"github.com/gschone-data/pySurf/internal/adapter/site"
	"github.com/gschone-data/pySurf/internal/adapter/surfforecast"
	"github.com/gschone-data/pySurf/internal/adapter/terminal"
	"github.com/gschone-data/pySurf/internal/config"
	"github.com/gschone-data/pySurf/internal/domain"
	"github.com/gschone-data/pySurf/internal/observability"
	"github.com/gschone-data/pySurf/internal/pipeline"
	"github.com/gschone-data/pySurf/internal/scheduler"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

const (
	cacheEntries = 256
	retryBackoff = 200 * time.Millisecond
	retryMax     = 5 * time.Second
)

func main() {
	once := flag.Bool("once", false, "run every region once, print the tables and exit")
	region := flag.String("region", "", "only process this region slug")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	regions := cfg.Regions
	if *region != "" {
		r, err := config.RegionBySlug(cfg.Regions, *region)
		if err != nil {
			logger.Error("invalid -region", "region", *region, "error", err)
			os.Exit(1)
		}
		regions = []domain.Region{r}
	}

	if err := run(cfg, regions, *once, logger, metrics); err != nil {
		logger.Error("surf-etl failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, regions []domain.Region, once bool, logger *slog.Logger, metrics *observability.Metrics) error {
	client := surfforecast.NewClient(cfg.ForecastURL, cfg.FetchTimeout, metrics, logger)

	var extractor pipeline.SpotExtractor = client
	if cfg.CacheTTL > 0 {
		extractor = surfforecast.NewCachedExtractor(client, cacheEntries, cfg.CacheTTL, clockwork.NewRealClock())
		logger.Info("forecast page cache enabled", "ttl", cfg.CacheTTL)
	}

	renderer, err := site.NewRenderer(cfg.Regions, cfg.Location)
	if err != nil {
		return fmt.Errorf("site renderer: %w", err)
	}
	store := pipeline.NewReportStore()

	opts := []pipeline.Option{
		pipeline.WithLocation(cfg.Location),
		pipeline.WithLimiter(rate.NewLimiter(rate.Limit(cfg.FetchRPS), 1)),
		pipeline.WithLinker(client.SpotURL),
		pipeline.WithRetries(cfg.FetchRetries, retryBackoff, retryMax),
		pipeline.WithSink("store", store),
		pipeline.WithSink("site", site.NewWriter(renderer, cfg.OutputDir, cfg.DefaultRegion, logger)),
	}

	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		opts = append(opts, pipeline.WithSink("kafka", writer))
		logger.Info("kafka publication enabled", "topic", cfg.KafkaTopic)
	}

	if once {
		opts = append(opts, pipeline.WithSink("terminal", terminal.NewPrinter(os.Stdout)))
	}

	p := pipeline.New(extractor, logger, metrics, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if once {
		reports, err := p.RunAll(ctx, regions)
		logger.Info("single run complete", "reports", len(reports), "output_dir", cfg.OutputDir)
		return err
	}

	reports := httpadapter.NewReportHandler(cfg.Regions, cfg.DefaultRegion, store, p, renderer, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, reports, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the scheduled regeneration.
	sched := scheduler.New(cfg.Schedule, func(ctx context.Context) error {
		_, err := p.RunAll(ctx, regions)
		return err
	}, logger)

	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx, true) }()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	select {
	case err := <-done:
		if err != nil {
			logger.Error("scheduler error", "error", err)
		}
	case <-shutdownCtx.Done():
		logger.Warn("scheduler did not stop before shutdown timeout")
	}

	logger.Info("shutdown complete")
	return nil
}
