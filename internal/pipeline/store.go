package pipeline

import (
	"context"
	"sync"

	"github.com/gschone-data/pySurf/internal/domain"
)

// ReportStore keeps the latest report of each region in memory.
// It implements ReportSink.
type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]domain.Report
}

// NewReportStore creates an empty store.
func NewReportStore() *ReportStore {
	return &ReportStore{reports: make(map[string]domain.Report)}
}

func (s *ReportStore) Publish(_ context.Context, report domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.Region.Slug] = report
	return nil
}

// Latest returns the most recent report of a region.
func (s *ReportStore) Latest(slug string) (domain.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[slug]
	return r, ok
}
