// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

/*
Package api is the HTTP boundary of the rent estimation service.

Routes:

	POST /predict    listing JSON -> {"predicted_rent": 1133.46}
	GET  /version    {"model_version": "v1"}
	GET  /healthz    {"status": "ok", "model_version": "v1"}
	POST /feedback   store feedback about a prediction (201)
	GET  /feedback   recent feedback, newest first
	GET  /metrics    Prometheus exposition
	GET  /           embedded HTML page, assets under /static/

Every request passes through request ID assignment, real IP extraction,
panic recovery and CORS. JSON routes add security headers and Prometheus
request metrics; /predict and /feedback are rate limited per client IP.

Errors use the envelope written by ResponseWriter:

	{"success": false, "error": {"code": "VALIDATION_FAILED", ...}, "meta": {...}}

Malformed JSON is BAD_REQUEST (400), a missing or non-finite field is
VALIDATION_FAILED (422) and a failed model call is INTERNAL_ERROR (500).
The handlers never reach the prediction pipeline with an invalid body.
*/
package api
