package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder receives tool call and upstream request observations.
type Recorder interface {
	ObserveToolCall(tool string, duration time.Duration, err error)
	ObserveUpstream(endpoint string, statusCode int, duration time.Duration)
}

type PrometheusMetrics struct {
	toolCalls        *prometheus.CounterVec
	toolCallDuration *prometheus.HistogramVec
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		toolCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pkgpeep_tool_calls_total",
				Help: "Total number of tool calls by tool and outcome",
			},
			[]string{"tool", "status"},
		),
		toolCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pkgpeep_tool_call_duration_seconds",
				Help:    "Duration of tool calls in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"tool", "status"},
		),
		upstreamRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pkgpeep_upstream_requests_total",
				Help: "Total number of requests sent to the npm registry APIs",
			},
			[]string{"endpoint", "code"},
		),
		upstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pkgpeep_upstream_request_duration_seconds",
				Help:    "Latency of npm registry API requests in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"endpoint"},
		),
	}
}

func (p *PrometheusMetrics) ObserveToolCall(tool string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	p.toolCalls.WithLabelValues(tool, status).Inc()
	p.toolCallDuration.WithLabelValues(tool, status).Observe(duration.Seconds())
}

// ObserveUpstream records one upstream request. A zero status code means the
// request never produced a response (DNS, connection or timeout failure).
func (p *PrometheusMetrics) ObserveUpstream(endpoint string, statusCode int, duration time.Duration) {
	code := "none"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	p.upstreamRequests.WithLabelValues(endpoint, code).Inc()
	p.upstreamDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// Nop discards all observations.
type Nop struct{}

func (Nop) ObserveToolCall(string, time.Duration, error) {}
func (Nop) ObserveUpstream(string, int, time.Duration)   {}

var (
	_ Recorder = (*PrometheusMetrics)(nil)
	_ Recorder = Nop{}
)
