// Package metrics registers the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts requests per route template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contractpro_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency per route template.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contractpro_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// PanicsRecovered counts handler panics per route template.
	PanicsRecovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contractpro_panics_recovered_total",
			Help: "Total number of recovered handler panics",
		},
		[]string{"path"},
	)

	// RenderDuration observes how long a render takes, per output format.
	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contractpro_render_duration_seconds",
			Help:    "Document render duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"format"},
	)

	// RenderFailures counts renders that produced no output.
	RenderFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contractpro_render_failures_total",
			Help: "Total number of failed renders",
		},
		[]string{"format"},
	)

	// LogoFetchFailures counts logos omitted from a render.
	LogoFetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contractpro_logo_fetch_failures_total",
			Help: "Total number of logos that could not be embedded",
		},
	)

	// PDFBytes observes the size of produced PDF documents.
	PDFBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contractpro_pdf_bytes",
			Help:    "Size of rendered PDF documents in bytes",
			Buckets: prometheus.ExponentialBuckets(4096, 2, 10),
		},
	)

	// DispatchOutcomes counts delivery attempts by outcome.
	DispatchOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contractpro_dispatch_total",
			Help: "Total number of contract deliveries by outcome",
		},
		[]string{"outcome"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
