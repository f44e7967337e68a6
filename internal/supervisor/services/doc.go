// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

// Package services adapts the rent service's long-running components to
// suture's Serve(ctx) error contract:
//
//   - HTTPServerService runs an *http.Server and shuts it down gracefully
//     when its context is canceled.
//   - FeedbackGCService periodically reclaims BadgerDB value log space in
//     the feedback store.
//
// Each wrapper implements fmt.Stringer so suture can name it in events.
package services
