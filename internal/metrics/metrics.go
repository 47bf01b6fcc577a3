// Package metrics collects Prometheus metrics for the account lifecycle and the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services and middleware report to.
type Recorder interface {
	RecordRegistration()
	RecordLogin(success bool)
	RecordEmail(kind string, err error)
	RecordPasswordOutcome(status string)
	RecordCheckout(total float64)
	RecordHTTPRequest(method string, route string, status int, d time.Duration)
}

type Collector struct {
	registrations    prometheus.Counter
	logins           *prometheus.CounterVec
	emails           *prometheus.CounterVec
	passwordOutcomes *prometheus.CounterVec
	orders           prometheus.Counter
	orderValue       prometheus.Counter
	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
}

// NewCollector creates the collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fitness_registrations_total",
			Help: "Accounts registered.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitness_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitness_emails_total",
			Help: "Outbound emails by kind and result.",
		}, []string{"kind", "result"}),
		passwordOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitness_password_outcomes_total",
			Help: "Password change and reset outcomes.",
		}, []string{"status"}),
		orders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fitness_orders_total",
			Help: "Orders placed.",
		}),
		orderValue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fitness_order_value_total",
			Help: "Sum of order totals.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitness_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fitness_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.registrations,
		c.logins,
		c.emails,
		c.passwordOutcomes,
		c.orders,
		c.orderValue,
		c.httpRequests,
		c.httpLatency,
	)
	return c
}

func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

func (c *Collector) RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.logins.WithLabelValues(result).Inc()
}

func (c *Collector) RecordEmail(kind string, err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	c.emails.WithLabelValues(kind, result).Inc()
}

func (c *Collector) RecordPasswordOutcome(status string) {
	c.passwordOutcomes.WithLabelValues(status).Inc()
}

func (c *Collector) RecordCheckout(total float64) {
	c.orders.Inc()
	c.orderValue.Add(total)
}

func (c *Collector) RecordHTTPRequest(method string, route string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

// Noop discards everything. Tests and tools that do not expose /metrics use it.
type Noop struct{}

func (Noop) RecordRegistration() {}
func (Noop) RecordLogin(bool) {}
func (Noop) RecordEmail(string, error) {}
func (Noop) RecordPasswordOutcome(string) {}
func (Noop) RecordCheckout(float64) {}
func (Noop) RecordHTTPRequest(string, string, int, time.Duration) {}

// Handler serves the registry for Prometheus scraping.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
