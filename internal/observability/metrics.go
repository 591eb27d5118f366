package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "surf_forecast"

// Metrics holds the Prometheus counters, histograms, and gauges for the forecast pipeline.
type Metrics struct {
	RunsTotal       *prometheus.CounterVec // labels: region, outcome={success,no_data,error}
	RunDuration     *prometheus.HistogramVec
	PipelineRunning prometheus.Gauge
	LastSuccess     *prometheus.GaugeVec // labels: region

	// Per-spot extraction metrics.
	SpotExtractions      *prometheus.CounterVec // labels: outcome={ok,empty,error}
	SpotFetchDuration    prometheus.Histogram
	RowsNormalized       prometheus.Counter
	SpotLengthMismatches prometheus.Counter

	SlotsProduced *prometheus.GaugeVec   // labels: region
	SinkErrors    *prometheus.CounterVec // labels: sink
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.PipelineRunning,
		m.LastSuccess,
		m.SpotExtractions,
		m.SpotFetchDuration,
		m.RowsNormalized,
		m.SpotLengthMismatches,
		m.SlotsProduced,
		m.SinkErrors,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Region aggregation runs by outcome.",
		}, []string{"region", "outcome"}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete region fetch-aggregate-publish cycle.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}, []string{"region"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while a run is in progress, 0 otherwise.",
		}),
		LastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that produced slots.",
		}, []string{"region"}),
		SpotExtractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spot_extractions_total",
			Help:      "Spot page extractions by outcome.",
		}, []string{"outcome"}),
		SpotFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "spot_fetch_duration_seconds",
			Help:      "Forecast page fetch and parse duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RowsNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_normalized_total",
			Help:      "Forecast rows produced by normalization.",
		}),
		SpotLengthMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spot_length_mismatches_total",
			Help:      "Spots whose day, time and rating columns disagreed in length.",
		}),
		SlotsProduced: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "slots_produced",
			Help:      "Consolidated slots in the latest report.",
		}, []string{"region"}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Report publication failures by sink.",
		}, []string{"sink"}),
	}
}
