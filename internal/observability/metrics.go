package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/candidate-evaluator/internal/types"
)

// Metrics holds the Prometheus collectors for evaluations and HTTP traffic.
type Metrics struct {
	gatherer prometheus.Gatherer

	evaluations        *prometheus.CounterVec
	evaluationDuration prometheus.Summary
	rejections         *prometheus.CounterVec
	degraded           prometheus.Counter
	requestDuration    *prometheus.SummaryVec
	requests           *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg. Each registry may only be used once.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	objectives := map[float64]float64{
		0.5:  0.05,
		0.9:  0.01,
		0.95: 0.005,
		0.99: 0.001,
	}

	return &Metrics{
		gatherer: reg,
		evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evaluator_evaluations_total",
				Help: "Total number of completed evaluations",
			},
			[]string{"recommendation", "match_level"},
		),
		evaluationDuration: factory.NewSummary(prometheus.SummaryOpts{
			Name:       "evaluator_evaluation_duration_seconds",
			Help:       "Evaluation duration in seconds",
			Objectives: objectives,
		}),
		rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evaluator_hard_rejections_total",
				Help: "Total number of triggered hard rejection rules",
			},
			[]string{"rule"},
		),
		degraded: factory.NewCounter(prometheus.CounterOpts{
			Name: "evaluator_degraded_evaluations_total",
			Help: "Evaluations completed without semantic skill matching",
		}),
		requestDuration: factory.NewSummaryVec(
			prometheus.SummaryOpts{
				Name:       "http_request_duration_seconds",
				Help:       "HTTP request duration in seconds",
				Objectives: objectives,
			},
			[]string{"method", "path", "status_code"},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
	}
}

// ObserveEvaluation records one completed evaluation. Safe on a nil receiver.
func (m *Metrics) ObserveEvaluation(result *types.EvaluationResult, d time.Duration) {
	if m == nil || result == nil {
		return
	}
	m.evaluations.WithLabelValues(string(result.Recommendation), string(result.MatchLevel)).Inc()
	m.evaluationDuration.Observe(d.Seconds())
	for _, rule := range result.HardRejections {
		m.rejections.WithLabelValues(rule).Inc()
	}
	if result.Degraded {
		m.degraded.Inc()
	}
}

// ObserveRequest records one served HTTP request. Safe on a nil receiver.
func (m *Metrics) ObserveRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
	m.requests.WithLabelValues(method, path, code).Inc()
}

// Handler exposes the registered metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
