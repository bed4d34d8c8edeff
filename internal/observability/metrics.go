// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the authkit Prometheus collectors.
type Metrics struct {
	AuthAttempts *prometheus.CounterVec
	AuthDuration prometheus.Histogram
	HTTPRequests *prometheus.CounterVec
}

// NewMetrics creates the authkit collectors and registers them with reg.
// Panics if registration fails (following prometheus convention).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AuthAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authkit_authentication_attempts_total",
				Help: "Total number of authentication attempts by outcome",
			},
			[]string{"outcome"},
		),
		AuthDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "authkit_authentication_duration_seconds",
				Help:    "Authentication attempt duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authkit_http_requests_total",
				Help: "Total number of API requests by route and status",
			},
			[]string{"route", "status"},
		),
	}
	reg.MustRegister(m.AuthAttempts, m.AuthDuration, m.HTTPRequests)
	return m
}

// RecordAttempt counts one authentication attempt. Its signature matches auth.Recorder.
func (m *Metrics) RecordAttempt(outcome string, elapsed time.Duration) {
	m.AuthAttempts.WithLabelValues(outcome).Inc()
	m.AuthDuration.Observe(elapsed.Seconds())
}

// RecordRequest counts one API request.
func (m *Metrics) RecordRequest(route string, status int) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
