package obs

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)

	// OperationDuration times internal operations wrapped with Time.
	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "operation_duration_seconds", Help: "Internal operation duration in seconds.", Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60}},
		[]string{"op", "result"},
	)

	// GenerationAttempts counts engine attempts by outcome (ok, status_500, malformed, ...).
	GenerationAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "itinerary_generation_attempts_total", Help: "Generation attempts by outcome."},
		[]string{"outcome"},
	)
	// GenerationResults counts finished generation flows by terminal reason.
	GenerationResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "itinerary_generation_results_total", Help: "Generation flows by result."},
		[]string{"result"},
	)
	RefinementResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "itinerary_refinement_results_total", Help: "Refinement requests by result."},
		[]string{"result"},
	)
	ImageFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "itinerary_image_failures_total", Help: "Illustrative images reported as failed by browsers."},
	)
)

var regOnce sync.Once

// RegisterDefault registers every collector on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(OperationDuration)
		Registry.MustRegister(GenerationAttempts)
		Registry.MustRegister(GenerationResults)
		Registry.MustRegister(RefinementResults)
		Registry.MustRegister(ImageFailures)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
