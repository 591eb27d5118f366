package surfforecast

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gschone-data/pySurf/internal/domain"
	"github.com/gschone-data/pySurf/internal/observability"
)

const spotPlaceholder = "{spot}"

// Client fetches six-day forecast pages and extracts their table rows.
// It implements pipeline.SpotExtractor.
type Client struct {
	urlTemplate string
	httpClient  *http.Client
	userAgent   string
	metrics     *observability.Metrics
	logger      *slog.Logger
}

// NewClient creates a forecast page client. urlTemplate must contain
// "{spot}", which is replaced with the path-escaped spot slug.
func NewClient(urlTemplate string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		urlTemplate: urlTemplate,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: "Mozilla/5.0 (compatible; surf-forecast-aggregator/1.0)",
		metrics:   metrics,
		logger:    logger,
	}
}

// SpotURL returns the forecast page of a spot.
func (c *Client) SpotURL(spot string) string {
	return strings.ReplaceAll(c.urlTemplate, spotPlaceholder, url.PathEscape(spot))
}

// ExtractSpot downloads the spot's forecast page and returns its raw columns.
func (c *Client) ExtractSpot(ctx context.Context, spot string) (domain.RawSpotTable, error) {
	start := time.Now()
	defer func() {
		c.metrics.SpotFetchDuration.Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SpotURL(spot), nil)
	if err != nil {
		return domain.RawSpotTable{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RawSpotTable{}, fmt.Errorf("fetch %s: %w", spot, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.RawSpotTable{}, fmt.Errorf("fetch %s: status %d: %s", spot, resp.StatusCode, body)
	}

	table, err := ParseForecastTable(spot, resp.Body)
	if err != nil {
		return domain.RawSpotTable{}, err
	}

	c.logger.Debug("spot page parsed",
		"spot", spot,
		"days", len(table.Days),
		"times", len(table.Times),
		"ratings", len(table.Ratings),
	)
	return table, nil
}
