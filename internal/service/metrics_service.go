package service

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the gateway.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	checkTotal      *prometheus.CounterVec
	checkDuration   prometheus.Observer
	backendDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// NewMetricsService registers the gateway's Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	checkTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "availability_checks_total",
		Help: "Slot availability checks by outcome",
	}, []string{"outcome"})

	checkDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "availability_check_duration_seconds",
		Help:    "Latency of slot availability checks",
		Buckets: prometheus.DefBuckets,
	})

	backendDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_call_duration_seconds",
		Help:    "Latency of school backend round trips",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reference_cache_hits_total",
		Help: "Reference collection cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reference_cache_misses_total",
		Help: "Reference collection cache misses",
	})

	registry.MustRegister(requestDuration, requestTotal, checkTotal, checkDuration, backendDuration, cacheHits, cacheMisses)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		checkTotal:      checkTotal,
		checkDuration:   checkDuration,
		backendDuration: backendDuration,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
	}
}

// Handler exposes the scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	if s == nil {
		return promhttp.Handler()
	}
	return s.handler
}

// ObserveHTTPRequest records an inbound request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if s == nil {
		return
	}
	labels := prometheus.Labels{"method": method, "path": path, "status": httpStatusLabel(status)}
	s.requestDuration.With(labels).Observe(duration.Seconds())
	s.requestTotal.With(labels).Inc()
}

// ObserveAvailabilityCheck records a settled availability check.
func (s *MetricsService) ObserveAvailabilityCheck(outcome string, duration time.Duration) {
	if s == nil {
		return
	}
	s.checkTotal.With(prometheus.Labels{"outcome": outcome}).Inc()
	s.checkDuration.Observe(duration.Seconds())
}

// ObserveBackendCall records a school backend round trip.
func (s *MetricsService) ObserveBackendCall(endpoint string, duration time.Duration) {
	if s == nil {
		return
	}
	s.backendDuration.With(prometheus.Labels{"endpoint": endpoint}).Observe(duration.Seconds())
}

// RecordCacheLookup counts a reference cache hit or miss.
func (s *MetricsService) RecordCacheLookup(hit bool) {
	if s == nil {
		return
	}
	if hit {
		s.cacheHits.Inc()
	} else {
		s.cacheMisses.Inc()
	}
}

func httpStatusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
