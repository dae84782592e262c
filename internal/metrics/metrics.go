// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics holds the Prometheus collectors of the server. All of them
// live in the default registry and are served by [Handler].
package metrics

import (
	"net/http"

	grpcprometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "org_site"

var (
	HTTPInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_in_flight_requests",
		Help:      "In-flight HTTP requests.",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latencies in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	HTTPRateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_rate_limited_total",
		Help:      "Requests rejected by the per-client rate limiter.",
	})
)

var (
	// DBAttempts counts every database call made through the retry loop,
	// the final one included.
	DBAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "db_attempts_total",
		Help:      "Database operation attempts, including retries.",
	}, []string{"op"})

	DBRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "db_retries_total",
		Help:      "Database operations retried after a transient error.",
	}, []string{"op"})
)

var (
	// AuthEvents counts auth outcomes, e.g. event="signin" result="invalid_credentials".
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Authentication events by kind and result.",
	}, []string{"event", "result"})

	SessionsCleaned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_cleaned_total",
		Help:      "Expired sessions removed by cleanup.",
	})

	AvatarsPurged = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "avatars_purged_total",
		Help:      "Deleted avatars processed by the sweep.",
	}, []string{"result"})

	JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_runs_total",
		Help:      "Background job runs by job and result.",
	}, []string{"job", "result"})
)

// GRPCServer holds the per-method gRPC server collectors. The library
// registers them on the default registry itself; its interceptors are
// installed on the gRPC server and InitializeMetrics is called once services
// are registered.
var GRPCServer = func() *grpcprometheus.ServerMetrics {
	m := grpcprometheus.DefaultServerMetrics
	m.EnableHandlingTimeHistogram()
	return m
}()

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
