// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

// Package logging provides zerolog-based structured logging for the rent
// service and rentctl.
//
// The server logs JSON to stdout by default; rentctl logs in console format
// to stderr so its output can be piped.
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("model_version", v).Msg("Model artifacts loaded")
//
// # Configuration
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json or console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// # Tracing fields
//
// Records written through Ctx carry:
//
//   - request_id: the X-Request-ID of the HTTP request being served
//   - correlation_id: a short id grouping all records of one request
//   - model_version: the deployed model tag
//
// The request ID middleware fills the context; pipeline records add an
// event name (predict_request, predict_success, predict_error):
//
//	logging.Ctx(r.Context()).Info().Str("event", "predict_success").Msg("Prediction served")
//
// Listing coordinates are never logged.
//
// # Suture
//
// NewSlogLogger bridges log/slog onto the global zerolog logger for
// sutureslog, which only accepts an *slog.Logger.
//
// Always finish an event with Msg or Send; an unfinished chain writes
// nothing.
package logging
