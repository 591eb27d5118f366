// Package site renders region reports as static HTML pages.
package site

import (
	"context"
	_ "embed"
	"fmt"
	"html"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gschone-data/pySurf/internal/domain"
	"github.com/nikolalohinski/gonja"
	"github.com/nikolalohinski/gonja/exec"
)

//go:embed templates/region.html.j2
var regionTemplate string

// GeneratedLayout formats the "last update" line.
const GeneratedLayout = "02/01/2006 15:04"

// Renderer turns reports into HTML pages.
type Renderer struct {
	tpl      *exec.Template
	regions  []domain.Region
	location *time.Location
}

// NewRenderer compiles the page template. regions feed the navigation bar.
func NewRenderer(regions []domain.Region, loc *time.Location) (*Renderer, error) {
	tpl, err := gonja.FromString(regionTemplate)
	if err != nil {
		return nil, fmt.Errorf("compile region template: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{tpl: tpl, regions: regions, location: loc}, nil
}

// RenderRegion writes the HTML page of a report.
func (r *Renderer) RenderRegion(w io.Writer, report domain.Report) error {
	out, err := r.tpl.Execute(r.pageContext(report))
	if err != nil {
		return fmt.Errorf("render %s: %w", report.Region.Slug, err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func (r *Renderer) pageContext(report domain.Report) gonja.Context {
	nav := make([]map[string]any, len(r.regions))
	for i, reg := range r.regions {
		nav[i] = map[string]any{
			"name":   reg.Name,
			"href":   PageName(reg.Slug),
			"active": reg.Slug == report.Region.Slug,
		}
	}

	rows := make([]map[string]any, len(report.Table))
	for i, row := range report.Table {
		rows[i] = map[string]any{
			"date":       row.Date,
			"when":       row.When,
			"rating":     row.Rating,
			"weather":    row.Weather,
			"spots_html": spotsHTML(row.Spots),
		}
	}

	return gonja.Context{
		"region":       map[string]any{"slug": report.Region.Slug, "name": report.Region.Name},
		"regions":      nav,
		"generated_at": report.GeneratedAt.In(r.location).Format(GeneratedLayout),
		"best": map[string]any{
			"found":      report.Best.Found,
			"date":       report.Best.Date,
			"when":       report.Best.When,
			"rating":     report.Best.Rating,
			"spots_html": spotsHTML(report.Best.Links),
		},
		"rows":     rows,
		"has_rows": len(rows) > 0,
	}
}

// spotsHTML links each spot to its forecast page, one per line.
func spotsHTML(links []domain.SpotLink) string {
	parts := make([]string, len(links))
	for i, l := range links {
		name := html.EscapeString(l.Name)
		if l.URL == "" {
			parts[i] = name
			continue
		}
		parts[i] = fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener">%s</a>`, html.EscapeString(l.URL), name)
	}
	return strings.Join(parts, domain.SpotSeparator)
}

// PageName is the file name of a region's page.
func PageName(slug string) string {
	return slug + ".html"
}

// Writer writes one page per region into a directory, plus index.html for
// the default region. It implements pipeline.ReportSink.
type Writer struct {
	renderer      *Renderer
	dir           string
	defaultRegion string
	logger        *slog.Logger
}

// NewWriter creates a static site writer rooted at dir.
func NewWriter(renderer *Renderer, dir, defaultRegion string, logger *slog.Logger) *Writer {
	return &Writer{renderer: renderer, dir: dir, defaultRegion: defaultRegion, logger: logger}
}

func (w *Writer) Publish(_ context.Context, report domain.Report) error {
	var buf strings.Builder
	if err := w.renderer.RenderRegion(&buf, report); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	names := []string{PageName(report.Region.Slug)}
	if report.Region.Slug == w.defaultRegion {
		names = append(names, "index.html")
	}
	for _, name := range names {
		if err := writeFileAtomic(filepath.Join(w.dir, name), buf.String()); err != nil {
			return err
		}
	}

	w.logger.Info("site page written", "region", report.Region.Slug, "pages", names)
	return nil
}

// writeFileAtomic replaces path so a web server never serves a partial page.
func writeFileAtomic(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".page-*")
	if err != nil {
		return fmt.Errorf("create temp page: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error takes precedence
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
