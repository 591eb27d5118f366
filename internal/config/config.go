package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on minimal images

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/gschone-data/pySurf/internal/domain"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	// SpotPlaceholder is substituted with the spot slug in ForecastURL.
	SpotPlaceholder = "{spot}"

	// DefaultForecastURL is the six-day forecast page of a spot.
	DefaultForecastURL = "https://fr.surf-forecast.com/breaks/" + SpotPlaceholder + "/forecasts/latest/six_day"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Forecast source.
	ForecastURL  string
	FetchTimeout time.Duration
	FetchRPS     float64
	FetchRetries int
	CacheTTL     time.Duration // 0 disables the page cache
	Location     *time.Location

	// Output and scheduling.
	OutputDir string
	Schedule  string

	Regions       []domain.Region
	DefaultRegion string

	// Kafka publication of consolidated slots.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is honoured when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parsePositiveDuration("FETCH_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	rps, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("FETCH_RPS", "2"), 64)
	if err != nil || rps <= 0 {
		return nil, errors.New("invalid FETCH_RPS: must be a positive number")
	}

	retries, err := strconv.Atoi(sharedcfg.EnvOrDefault("FETCH_RETRIES", "2"))
	if err != nil || retries < 0 || retries > 10 {
		return nil, errors.New("invalid FETCH_RETRIES: must be 0-10")
	}

	cacheTTL, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_CACHE_TTL", "15m"))
	if err != nil || cacheTTL < 0 {
		return nil, errors.New("invalid FETCH_CACHE_TTL: must be a non-negative duration")
	}

	loc, err := time.LoadLocation(sharedcfg.EnvOrDefault("TIMEZONE", "Europe/Paris"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	regions := DefaultRegions()
	if path := os.Getenv("REGIONS_FILE"); path != "" {
		if regions, err = LoadRegionsFile(path); err != nil {
			return nil, err
		}
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ForecastURL:  sharedcfg.EnvOrDefault("FORECAST_BASE_URL", DefaultForecastURL),
		FetchTimeout: fetchTimeout,
		FetchRPS:     rps,
		FetchRetries: retries,
		CacheTTL:     cacheTTL,
		Location:     loc,

		OutputDir: sharedcfg.EnvOrDefault("OUTPUT_DIR", "_site"),
		Schedule:  sharedcfg.EnvOrDefault("SCHEDULE", "0 */3 * * *"),

		Regions:       regions,
		DefaultRegion: sharedcfg.EnvOrDefault("DEFAULT_REGION", "vendee"),

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "surf-forecast-slots"),
	}

	if !strings.Contains(cfg.ForecastURL, SpotPlaceholder) {
		return nil, fmt.Errorf("FORECAST_BASE_URL must contain %s", SpotPlaceholder)
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE: %w", err)
	}
	if _, err := RegionBySlug(cfg.Regions, cfg.DefaultRegion); err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_REGION: %w", err)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}
