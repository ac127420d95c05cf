// Package metrics defines the Prometheus metric collectors used across the
// engine and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the engine.
type Metrics struct {
	DocsProcessedTotal   prometheus.Counter
	TokensExtractedTotal prometheus.Counter
	AggregationRunsTotal *prometheus.CounterVec
	AggregationDuration  prometheus.Histogram
	DistinctWords        prometheus.Gauge
	SearchQueriesTotal   *prometheus.CounterVec
	SearchLatency        *prometheus.HistogramVec
	SearchResultsCount   prometheus.Histogram
	AnalysisCacheHits    prometheus.Counter
	AnalysisCacheMisses  prometheus.Counter
	ExportsTotal         *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		DocsProcessedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wordfreq_docs_processed_total",
				Help: "Total documents processed by aggregation runs.",
			},
		),
		TokensExtractedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wordfreq_tokens_extracted_total",
				Help: "Total valid tokens extracted from the corpus.",
			},
		),
		AggregationRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordfreq_aggregation_runs_total",
				Help: "Total aggregation runs by status (completed, cached, failed, timeout).",
			},
			[]string{"status"},
		),
		AggregationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wordfreq_aggregation_duration_seconds",
				Help:    "Wall-clock duration of aggregation runs in seconds.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		DistinctWords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "wordfreq_distinct_words",
				Help: "Number of distinct word entries in the current aggregate.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordfreq_search_queries_total",
				Help: "Total search queries by mode and result type (hit, zero_result, error).",
			},
			[]string{"mode", "result_type"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wordfreq_search_latency_seconds",
				Help:    "Search query latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
			},
			[]string{"mode"},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wordfreq_search_results_count",
				Help:    "Number of results returned per search query.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
		AnalysisCacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wordfreq_analysis_cache_hits_total",
				Help: "Total deep-analysis cache hits.",
			},
		),
		AnalysisCacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wordfreq_analysis_cache_misses_total",
				Help: "Total deep-analysis cache misses.",
			},
		),
		ExportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordfreq_exports_total",
				Help: "Total export operations by format and status.",
			},
			[]string{"format", "status"},
		),
	}

	prometheus.MustRegister(
		m.DocsProcessedTotal,
		m.TokensExtractedTotal,
		m.AggregationRunsTotal,
		m.AggregationDuration,
		m.DistinctWords,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.AnalysisCacheHits,
		m.AnalysisCacheMisses,
		m.ExportsTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
