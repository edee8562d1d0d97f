// Package metrics exposes request counters and latency for the analysis pipeline in Prometheus
// format. The pipeline itself stays metrics-free; recording happens at the transport edge.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loresico/gemma3-vision-demo/pkg/vision/domain"
)

type Recorder struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  prometheus.Histogram
}

// NewRecorder uses its own registry so tests can create recorders freely without colliding on the
// process-global default one.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gemma3_demo_analyze_requests_total",
		Help: "Analyze requests by outcome error kind (\"none\" means success).",
	}, []string{"kind"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gemma3_demo_analyze_duration_seconds",
		Help:    "Wall time of analyze calls, including temp file handling.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})
	registry.MustRegister(requests, latency)
	return &Recorder{
		registry: registry,
		requests: requests,
		latency:  latency,
	}
}

// Record counts one finished analyze call.
func (r *Recorder) Record(result domain.AnalysisResult, elapsed time.Duration) {
	r.requests.WithLabelValues(result.ErrorKind.String()).Inc()
	r.latency.Observe(elapsed.Seconds())
}

// Handler serves the recorder's registry in Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
