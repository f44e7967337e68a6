// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

// Package metrics holds the Prometheus collectors exported on /metrics.
//
// The prediction collectors keep the names operators already scrape:
// pred_requests_total, pred_errors_total, pred_latency_seconds,
// model_version_info and feedback_submitted_total.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Prediction Metrics
	PredRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pred_requests_total",
			Help: "Number of prediction requests received.",
		},
	)

	PredErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pred_errors_total",
			Help: "Number of prediction requests that raised an error.",
		},
	)

	// PredLatency brackets the model call only, not decoding or enrichment.
	PredLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pred_latency_seconds",
			Help:    "Prediction latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	ModelVersionInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "model_version_info",
			Help: "Deployed model version",
		},
		[]string{"version"},
	)

	FeedbackSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedback_submitted_total",
			Help: "Number of feedback submissions received.",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// PredictTimer starts a timer that records into pred_latency_seconds.
// Callers defer ObserveDuration so the sample is recorded on every exit path.
//
//	timer := metrics.PredictTimer()
//	defer timer.ObserveDuration()
func PredictTimer() *prometheus.Timer {
	return prometheus.NewTimer(PredLatency)
}

// SetModelVersion publishes the deployed model version as the only
// model_version_info series.
func SetModelVersion(version string) {
	ModelVersionInfo.Reset()
	ModelVersionInfo.WithLabelValues(version).Set(1)
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
