// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

// Package middleware provides the HTTP middleware shared by every route:
//
//   - RequestID: accepts or generates X-Request-ID and puts it, plus a fresh
//     correlation ID, into the logging context.
//   - PrometheusMetrics: records api_requests_total,
//     api_request_duration_seconds and api_active_requests, labelled by the
//     chi route pattern so that path parameters do not create new series.
//
// Both are written as http.HandlerFunc wrappers; internal/api adapts them
// to chi's func(http.Handler) http.Handler form.
package middleware
