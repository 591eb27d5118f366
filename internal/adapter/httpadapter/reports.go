package httpadapter

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/mux"
	"github.com/gschone-data/pySurf/internal/config"
	"github.com/gschone-data/pySurf/internal/domain"
	"github.com/gschone-data/pySurf/internal/pipeline"
)

// ReportSource returns the latest report of a region.
type ReportSource interface {
	Latest(slug string) (domain.Report, bool)
}

// RegionRunner regenerates a region on demand.
type RegionRunner interface {
	RunRegion(ctx context.Context, region domain.Region) (domain.Report, error)
}

// PageRenderer renders a report as an HTML page.
type PageRenderer interface {
	RenderRegion(w io.Writer, report domain.Report) error
}

// ReportHandler serves region reports as JSON and HTML.
type ReportHandler struct {
	regions       []domain.Region
	defaultRegion string
	source        ReportSource
	runner        RegionRunner
	pages         PageRenderer
	logger        *slog.Logger
}

// NewReportHandler creates the report routes. runner and pages may be nil,
// which disables on-demand refresh and HTML pages respectively.
func NewReportHandler(regions []domain.Region, defaultRegion string, source ReportSource, runner RegionRunner, pages PageRenderer, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		regions:       regions,
		defaultRegion: defaultRegion,
		source:        source,
		runner:        runner,
		pages:         pages,
		logger:        logger,
	}
}

// RegisterRoutes registers all report routes.
func (h *ReportHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.redirectDefault).Methods(http.MethodGet)
	router.HandleFunc("/api/regions", h.listRegions).Methods(http.MethodGet)
	router.HandleFunc("/api/regions/{slug}", h.getReport).Methods(http.MethodGet)
	router.HandleFunc("/api/regions/{slug}/refresh", h.refresh).Methods(http.MethodPost)
	router.HandleFunc("/regions/{slug}", h.getPage).Methods(http.MethodGet)
}

// RegionSummary is one entry of GET /api/regions.
type RegionSummary struct {
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Spots       []string   `json:"spots"`
	Default     bool       `json:"default"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
}

func (h *ReportHandler) listRegions(w http.ResponseWriter, _ *http.Request) {
	out := make([]RegionSummary, len(h.regions))
	for i, r := range h.regions {
		out[i] = RegionSummary{Slug: r.Slug, Name: r.Name, Spots: r.Spots, Default: r.Slug == h.defaultRegion}
		if report, ok := h.source.Latest(r.Slug); ok {
			generated := report.GeneratedAt
			out[i].GeneratedAt = &generated
		}
	}
	sharedobs.WriteJSON(w, http.StatusOK, out)
}

func (h *ReportHandler) getReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.latest(w, r)
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) refresh(w http.ResponseWriter, r *http.Request) {
	if h.runner == nil {
		writeError(w, http.StatusNotImplemented, "refresh disabled")
		return
	}
	region, ok := h.region(w, r)
	if !ok {
		return
	}

	report, err := h.runner.RunRegion(r.Context(), region)
	switch {
	case errors.Is(err, pipeline.ErrNoData):
		writeError(w, http.StatusBadGateway, "no forecast data for "+region.Slug)
		return
	case err != nil && len(report.Slots) == 0:
		h.logger.Error("refresh failed", "region", region.Slug, "error", err)
		writeError(w, http.StatusInternalServerError, "refresh failed")
		return
	case err != nil:
		// Report produced but a sink failed; the caller still gets fresh data.
		h.logger.Warn("refresh published partially", "region", region.Slug, "error", err)
	}
	sharedobs.WriteJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) getPage(w http.ResponseWriter, r *http.Request) {
	if h.pages == nil {
		writeError(w, http.StatusNotFound, "html pages disabled")
		return
	}
	report, ok := h.latest(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.pages.RenderRegion(&buf, report); err != nil {
		h.logger.Error("render page failed", "region", report.Region.Slug, "error", err)
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *ReportHandler) redirectDefault(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/regions/"+h.defaultRegion, http.StatusFound)
}

func (h *ReportHandler) region(w http.ResponseWriter, r *http.Request) (domain.Region, bool) {
	// Static pages link to each other as "<slug>.html".
	slug := strings.TrimSuffix(mux.Vars(r)["slug"], ".html")
	region, err := config.RegionBySlug(h.regions, slug)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return domain.Region{}, false
	}
	return region, true
}

func (h *ReportHandler) latest(w http.ResponseWriter, r *http.Request) (domain.Report, bool) {
	region, ok := h.region(w, r)
	if !ok {
		return domain.Report{}, false
	}
	report, ok := h.source.Latest(region.Slug)
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no report yet for "+region.Slug)
		return domain.Report{}, false
	}
	return report, true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
