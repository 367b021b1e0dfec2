package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	sentimentFetches *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	alertCycles      *prometheus.CounterVec
	alertsDelivered  *prometheus.CounterVec
	subscriberCount  prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Business metrics
	r.sentimentFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fgi_upstream_fetches_total",
			Help: "Total number of upstream series fetches",
		},
		[]string{"provider", "status"},
	)
	r.cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fgi_cache_lookups_total",
			Help: "Total number of read-path cache lookups",
		},
		[]string{"result"},
	)
	r.alertCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fgi_alert_cycles_total",
			Help: "Total number of alert check cycles",
		},
		[]string{"outcome"},
	)
	r.alertsDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fgi_alerts_delivered_total",
			Help: "Total number of alert messages delivered to subscribers",
		},
		[]string{"status"},
	)
	r.subscriberCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fgi_subscribers",
			Help: "Number of alert subscribers",
		},
	)

	reg.MustRegister(r.sentimentFetches)
	reg.MustRegister(r.cacheLookups)
	reg.MustRegister(r.alertCycles)
	reg.MustRegister(r.alertsDelivered)
	reg.MustRegister(r.subscriberCount)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordFetch records one upstream fetch outcome.
func (r *Registry) RecordFetch(provider, status string) {
	r.sentimentFetches.WithLabelValues(provider, status).Inc()
}

// RecordCacheLookup records a cache hit or miss on the read path.
func (r *Registry) RecordCacheLookup(result string) {
	r.cacheLookups.WithLabelValues(result).Inc()
}

// RecordAlertCycle records the outcome of one alert check.
func (r *Registry) RecordAlertCycle(outcome string) {
	r.alertCycles.WithLabelValues(outcome).Inc()
}

// RecordAlertDelivery records per-subscriber delivery outcomes.
func (r *Registry) RecordAlertDelivery(status string, count int) {
	r.alertsDelivered.WithLabelValues(status).Add(float64(count))
}

// SetSubscriberCount sets the subscriber gauge.
func (r *Registry) SetSubscriberCount(count int) {
	r.subscriberCount.Set(float64(count))
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
