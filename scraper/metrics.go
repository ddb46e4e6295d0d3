package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scraper.
type Metrics struct {
	Registry              *prometheus.Registry
	FetchesTotal          *prometheus.CounterVec
	FetchDuration         prometheus.Histogram
	CoachesExtractedTotal *prometheus.CounterVec
	FallbackTotal         prometheus.Counter
	ErrorsTotal           *prometheus.CounterVec
	InstitutionsTotal     *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	fetches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coachscan_fetches_total",
			Help: "Total directory page fetches by outcome.",
		},
		[]string{"outcome"},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coachscan_fetch_duration_seconds",
			Help:    "Latency of directory page fetches.",
			Buckets: prometheus.DefBuckets,
		},
	)
	coaches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coachscan_coaches_extracted_total",
			Help: "Coach candidates extracted, by strategy.",
		},
		[]string{"strategy"},
	)
	fallback := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coachscan_free_text_fallback_total",
			Help: "Pages where no structural strategy matched.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coachscan_errors_total",
			Help: "Total number of scan errors by type.",
		},
		[]string{"error_type"},
	)
	institutions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coachscan_institutions_total",
			Help: "Institutions processed by status.",
		},
		[]string{"status"},
	)

	registry.MustRegister(fetches, fetchDuration, coaches, fallback, errorsTotal, institutions)

	return &Metrics{
		Registry:              registry,
		FetchesTotal:          fetches,
		FetchDuration:         fetchDuration,
		CoachesExtractedTotal: coaches,
		FallbackTotal:         fallback,
		ErrorsTotal:           errorsTotal,
		InstitutionsTotal:     institutions,
	}
}

// IncFetch increments the fetch counter for an outcome.
func (m *Metrics) IncFetch(outcome string) {
	if m == nil {
		return
	}
	m.FetchesTotal.WithLabelValues(outcome).Inc()
}

// ObserveDuration records a fetch duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// AddCoaches adds n extracted candidates for a strategy.
func (m *Metrics) AddCoaches(strategy string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CoachesExtractedTotal.WithLabelValues(strategy).Add(float64(n))
}

// IncFallback counts a page that needed the free-text fallback.
func (m *Metrics) IncFallback() {
	if m == nil {
		return
	}
	m.FallbackTotal.Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// IncInstitution counts a processed institution as "succeeded" or "failed".
func (m *Metrics) IncInstitution(status string) {
	if m == nil {
		return
	}
	m.InstitutionsTotal.WithLabelValues(status).Inc()
}
