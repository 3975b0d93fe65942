// Package metrics exposes the service's prometheus instrumentation:
// run counts/durations, per-role fallback counts and cache traffic.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the service collectors. A nil *Metrics is valid and
// records nothing, so optional wiring stays branch-free at call sites.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal      *prometheus.CounterVec
	runDuration    prometheus.Histogram
	agentFallbacks *prometheus.CounterVec
	cacheTotal     *prometheus.CounterVec
}

// New creates and registers the service collectors
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_runs_total",
			Help:      "Analysis runs by terminal status",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_run_duration_seconds",
			Help:      "Wall time of one analysis run",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		agentFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_fallbacks_total",
			Help:      "Agent invocations that degraded to the heuristic path",
		}, []string{"role"}),
		cacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_cache_total",
			Help:      "Response cache lookups by outcome",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.runsTotal,
		m.runDuration,
		m.agentFallbacks,
		m.cacheTotal,
	)

	return m
}

// Handler serves the registry in prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRun records one completed run
func (m *Metrics) RecordRun(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(status).Inc()
	m.runDuration.Observe(duration.Seconds())
}

// RecordFallback records a degraded agent invocation
func (m *Metrics) RecordFallback(role string) {
	if m == nil {
		return
	}
	m.agentFallbacks.WithLabelValues(role).Inc()
}

// RecordCache records a cache lookup outcome ("hit" or "miss")
func (m *Metrics) RecordCache(outcome string) {
	if m == nil {
		return
	}
	m.cacheTotal.WithLabelValues(outcome).Inc()
}
