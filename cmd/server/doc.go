// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

// Package main is the entry point for the RentPredict server.
//
// RentPredict serves monthly rent estimates for residential listings from a
// gradient boosted tree model trained offline. The artifacts it serves are
// produced with `rentctl bundle`.
//
// # Startup
//
//  1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
//  2. Logging: zerolog, JSON by default
//  3. Artifacts: pipeline and priors from the versioned store, feature
//     schema and model metadata from the artifact directory. Any failure
//     here, including a schema that does not match the pipeline, stops the
//     process before it listens.
//  4. Feedback store (optional): BadgerDB, with a supervised GC service
//  5. HTTP server: chi router, supervised by suture
//
// SIGINT and SIGTERM stop the supervisor tree; the HTTP server drains
// in-flight requests before exiting.
//
// # Running
//
//	ARTIFACTS_DIR=/srv/rentpredict/artifacts HTTP_PORT=8000 rentpredict
//
// See package config for every setting.
package main
