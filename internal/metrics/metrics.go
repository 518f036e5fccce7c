package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wonny/squadpick/internal/contracts"
)

const namespace = "squadpick"

// Recorder owns a private Prometheus registry. A nil *Recorder records nothing.
// ⭐ SSOT: 메트릭 정의는 여기서만
type Recorder struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	generations     *prometheus.CounterVec
	rateLimited     *prometheus.CounterVec
}

// New registers every collector on a fresh registry
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route template and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route template.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "team_generations_total",
			Help:      "Team generation calls by strategy and outcome.",
		}, []string{"strategy", "result"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by a rate limit bucket.",
		}, []string{"bucket"}),
	}

	r.registry.MustRegister(
		r.requests,
		r.requestDuration,
		r.generations,
		r.rateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveRequest records one served HTTP request
func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// TeamGeneration records a team generation outcome.
// Unknown strategies share one label value to keep cardinality bounded.
func (r *Recorder) TeamGeneration(strategy contracts.Strategy, result string) {
	if r == nil {
		return
	}
	label := string(strategy)
	if strategy != contracts.StrategyBalanced && strategy != contracts.StrategyRanked {
		label = "unknown"
	}
	r.generations.WithLabelValues(label, result).Inc()
}

// RateLimited records a rejected request
func (r *Recorder) RateLimited(bucket string) {
	if r == nil {
		return
	}
	r.rateLimited.WithLabelValues(bucket).Inc()
}

// Handler exposes the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
