package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the Prometheus registry and the collectors the
// API reports into.
type MetricsService struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	promotionPromoted  prometheus.Counter
	promotionGraduated prometheus.Counter
	promotionRuns      prometheus.Counter
}

func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route, and status.",
	}, []string{"method", "route", "status"})

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	promotionPromoted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "promotion_students_promoted_total",
		Help: "Students advanced into a new school year.",
	})
	promotionGraduated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "promotion_students_graduated_total",
		Help: "Students graduated out of the top grade.",
	})
	promotionRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "promotion_runs_total",
		Help: "Completed promotion workflow runs.",
	})

	registry.MustRegister(httpRequests, httpDuration, promotionPromoted, promotionGraduated, promotionRuns)

	return &MetricsService{
		registry:           registry,
		httpRequests:       httpRequests,
		httpDuration:       httpDuration,
		promotionPromoted:  promotionPromoted,
		promotionGraduated: promotionGraduated,
		promotionRuns:      promotionRuns,
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *MetricsService) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one completed HTTP request.
func (m *MetricsService) ObserveRequest(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObservePromotion records the outcome of one promotion run.
func (m *MetricsService) ObservePromotion(promoted, graduated int) {
	m.promotionRuns.Inc()
	m.promotionPromoted.Add(float64(promoted))
	m.promotionGraduated.Add(float64(graduated))
}
