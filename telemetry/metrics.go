// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service counters. Each instance owns its registry so
// tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	SessionsCreated   prometheus.Counter
	Joins             prometheus.Counter
	Swipes            *prometheus.CounterVec
	Votes             *prometheus.CounterVec
	Consensus         prometheus.Counter
	Completions       prometheus.Counter
	Conflicts         prometheus.Counter
	LiveSubscribers   prometheus.Gauge
	RequestDuration   *prometheus.HistogramVec
	CandidateFallback prometheus.Counter
}

// NewMetrics registers every collector on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quickly_dine",
			Name:      "sessions_created_total",
			Help:      "Sessions created.",
		}),
		Joins: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quickly_dine",
			Name:      "session_joins_total",
			Help:      "Successful join requests, including idempotent rejoins.",
		}),
		Swipes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quickly_dine",
			Name:      "swipes_total",
			Help:      "Recorded swipes by direction.",
		}, []string{"direction"}),
		Votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quickly_dine",
			Name:      "votes_total",
			Help:      "Recorded votes by choice.",
		}, []string{"vote"}),
		Consensus: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quickly_dine",
			Name:      "consensus_reached_total",
			Help:      "Sessions that moved from matching to voting.",
		}),
		Completions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quickly_dine",
			Name:      "sessions_completed_total",
			Help:      "Sessions that resolved a winner.",
		}),
		Conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quickly_dine",
			Name:      "update_conflicts_total",
			Help:      "Session updates that exhausted their retries.",
		}),
		LiveSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quickly_dine",
			Name:      "live_subscribers",
			Help:      "Open live update connections.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quickly_dine",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		CandidateFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quickly_dine",
			Name:      "candidate_fallback_total",
			Help:      "Candidate pages served without the group filter.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.SessionsCreated,
		m.Joins,
		m.Swipes,
		m.Votes,
		m.Consensus,
		m.Completions,
		m.Conflicts,
		m.LiveSubscribers,
		m.RequestDuration,
		m.CandidateFallback,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
