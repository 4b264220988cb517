// Package metrics exports Prometheus metrics for reviews, generation and
// HTTP traffic. A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "langtools"

// Recorder owns a registry and the collectors registered on it.
type Recorder struct {
	registry *prometheus.Registry

	reviews         *prometheus.CounterVec
	reviewConflicts prometheus.Counter
	generations     *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New creates a Recorder with its own registry, including the Go runtime
// and process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "srs",
			Name:      "reviews_total",
			Help:      "Reviews processed, by rating and resulting state.",
		}, []string{"rating", "state"}),
		reviewConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "srs",
			Name:      "review_conflicts_total",
			Help:      "Review writes rejected because the training record changed concurrently.",
		}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "requests_total",
			Help:      "Dictionary generation requests, by outcome.",
		}, []string{"outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	r.registry.MustRegister(
		r.reviews,
		r.reviewConflicts,
		r.generations,
		r.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveReview counts a processed review.
func (r *Recorder) ObserveReview(rating, state string) {
	if r == nil {
		return
	}
	r.reviews.WithLabelValues(rating, state).Inc()
}

// ObserveReviewConflict counts a lost optimistic-concurrency race.
func (r *Recorder) ObserveReviewConflict() {
	if r == nil {
		return
	}
	r.reviewConflicts.Inc()
}

// ObserveGeneration counts a generation request with outcome "ok" or an
// error class.
func (r *Recorder) ObserveGeneration(outcome string) {
	if r == nil {
		return
	}
	r.generations.WithLabelValues(outcome).Inc()
}

// ObserveHTTP records the latency of one request. route is the chi route
// pattern, not the raw path, to keep label cardinality bounded.
func (r *Recorder) ObserveHTTP(method, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
