// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector counts auth and graph operation outcomes
type Collector struct {
	registry      *prometheus.Registry
	logins        *prometheus.CounterVec
	registrations *prometheus.CounterVec
	verifications *prometheus.CounterVec
	graphOps      *prometheus.CounterVec
}

// NewCollector creates a Collector backed by its own registry
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "follownet_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "follownet_registrations_total",
			Help: "Registration attempts by result.",
		}, []string{"result"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "follownet_token_verifications_total",
			Help: "Bearer token verifications by result.",
		}, []string{"result"}),
		graphOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "follownet_graph_ops_total",
			Help: "Social graph operations by operation and result.",
		}, []string{"op", "result"}),
	}

	c.registry.MustRegister(c.logins, c.registrations, c.verifications, c.graphOps)
	return c
}

// RecordLogin counts a login attempt
func (c *Collector) RecordLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

// RecordRegistration counts a registration attempt
func (c *Collector) RecordRegistration(result string) {
	c.registrations.WithLabelValues(result).Inc()
}

// RecordTokenVerification counts a token verification
func (c *Collector) RecordTokenVerification(result string) {
	c.verifications.WithLabelValues(result).Inc()
}

// RecordGraphOp counts a graph operation
func (c *Collector) RecordGraphOp(op, result string) {
	c.graphOps.WithLabelValues(op, result).Inc()
}

// Handler returns the HTTP handler serving the /metrics endpoint
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
