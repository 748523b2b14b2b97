// Package metrics exposes console metrics to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records HYVE API calls, guard redirects, discarded list
// responses and logins.
type Collector struct {
	apiCalls     *prometheus.CounterVec
	apiLatency   *prometheus.HistogramVec
	redirects    *prometheus.CounterVec
	staleDiscard *prometheus.CounterVec
	logins       *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		apiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hyve_admin_api_requests_total",
			Help: "HYVE API requests by method, route and status. Status 0 is a transport failure.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hyve_admin_api_request_duration_seconds",
			Help:    "HYVE API request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		redirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hyve_admin_guard_redirects_total",
			Help: "Requests redirected or refused by a route guard.",
		}, []string{"guard"}),
		staleDiscard: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hyve_admin_list_stale_responses_total",
			Help: "List responses discarded because a newer query superseded them.",
		}, []string{"list"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hyve_admin_logins_total",
			Help: "Console login attempts by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(c.apiCalls, c.apiLatency, c.redirects, c.staleDiscard, c.logins)
	return c
}

// ObserveAPICall records one HYVE API request.
func (c *Collector) ObserveAPICall(method, route string, status int, elapsed time.Duration) {
	c.apiCalls.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.apiLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordRedirect records a guard decision other than allow.
func (c *Collector) RecordRedirect(guard string) {
	c.redirects.WithLabelValues(guard).Inc()
}

// RecordStale records a discarded list response.
func (c *Collector) RecordStale(list string) {
	c.staleDiscard.WithLabelValues(list).Inc()
}

// RecordLogin records a login attempt; result is "success", "failure",
// "forbidden" or "error".
func (c *Collector) RecordLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
