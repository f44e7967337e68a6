// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

// Package model invokes the regression model that turns a feature vector
// into a rent estimate.
//
// The rest of the service sees the model only through the Regressor
// interface: one operation from a features.Vector to a float64. Invoke wraps
// a single call, rejects non-finite outputs and rounds to cents.
//
// # Pipeline
//
// Pipeline is the concrete model shipped with the service: a column
// encoder (passthrough for numeric columns, one-hot for categorical ones)
// followed by a gradient-boosted tree ensemble. Trees are imported from an
// XGBoost JSON dump with ParseXGBoostDump.
//
// # Thread Safety
//
// Pipeline is immutable after Prepare and safe for concurrent use. A
// Regressor that is not can be wrapped with Serialize, which guards only
// the Predict call.
package model
