package metric

import (
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"
)

const namespace = "rentdash"

// Registry holds all client metrics.
type Registry struct {
	registry *prometheus.Registry

	// Backend requests
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RateLimitWait   prometheus.Histogram

	// Session gate
	SessionTransitions *prometheus.CounterVec

	// Rental desk
	RentalsBooked prometheus.Counter
}

// NewRegistry creates a registry with all client metrics registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Backend requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Backend request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RateLimitWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "rate_limit_wait_seconds",
			Help:      "Time spent waiting for the client-side rate limiter.",
			Buckets:   []float64{.001, .01, .05, .1, .5, 1},
		}),
		SessionTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "transitions_total",
			Help:      "Session gate transitions by resulting state.",
		}, []string{"state"}),
		RentalsBooked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rental",
			Name:      "booked_total",
			Help:      "Rentals booked by this process.",
		}),
	}

	r.registry.MustRegister(
		r.RequestsTotal,
		r.RequestDuration,
		r.RateLimitWait,
		r.SessionTransitions,
		r.RentalsBooked,
		collectors.NewGoCollector(),
	)
	return r
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// MustRegister registers additional collectors.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.registry.MustRegister(cs...)
}

// Register registers a collector, ignoring one that is already registered.
func (r *Registry) Register(c prometheus.Collector) error {
	if err := r.registry.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

// ObserveRequest records one backend request. code is 0 for transport
// failures.
func (r *Registry) ObserveRequest(method, route string, code int, d time.Duration) {
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	r.RequestsTotal.WithLabelValues(method, route, label).Inc()
	r.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveSessionState records a session gate transition.
func (r *Registry) ObserveSessionState(state string) {
	r.SessionTransitions.WithLabelValues(state).Inc()
}

// WriteText writes all metrics in Prometheus text exposition format.
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
