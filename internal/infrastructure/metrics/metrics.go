package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the client-side request metrics. Every outbound task
// service call is counted and timed, labelled by method, endpoint and
// response status.
type Collector struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates a collector with its own registry
func New() *Collector {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskclient_requests_total",
			Help: "Total number of task service requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskclient_request_duration_seconds",
			Help:    "Task service request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	registry.MustRegister(requestsTotal, requestDuration)

	return &Collector{
		registry:        registry,
		requestsTotal:   requestsTotal,
		requestDuration: requestDuration,
	}
}

// Observe records one finished request. Status 0 marks a transport
// failure with no response.
func (c *Collector) Observe(method, endpoint string, status int, seconds float64) {
	c.requestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, endpoint).Observe(seconds)
}

// Registry exposes the underlying registry for scraping
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
