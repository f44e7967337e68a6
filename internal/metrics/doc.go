// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

/*
Package metrics holds the Prometheus collectors of the rent service. They
are registered on the default registry at init and exposed at /metrics.

Prediction metrics:
  - pred_requests_total: every POST /predict that reached the prediction
    service (counter)
  - pred_errors_total: predictions whose model call failed (counter)
  - pred_latency_seconds: model call duration, default buckets (histogram)
  - model_version_info{version}: 1 for the deployed version (gauge)

Feedback:
  - feedback_submitted_total: stored feedback records (counter)

API metrics, recorded by internal/middleware:
  - api_requests_total{method,endpoint,status_code} (counter)
  - api_request_duration_seconds{method,endpoint} (histogram)
  - api_active_requests (gauge)

The endpoint label is the chi route pattern, never the raw path.
*/
package metrics
