// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/rentpredict/internal/api"
	"github.com/tomtom215/rentpredict/internal/artifacts"
	"github.com/tomtom215/rentpredict/internal/config"
	"github.com/tomtom215/rentpredict/internal/feedback"
	"github.com/tomtom215/rentpredict/internal/logging"
	"github.com/tomtom215/rentpredict/internal/metrics"
	"github.com/tomtom215/rentpredict/internal/predict"
	"github.com/tomtom215/rentpredict/internal/supervisor"
	"github.com/tomtom215/rentpredict/internal/supervisor/services"
)

// application is everything main wires together.
type application struct {
	cfg      *config.Config
	bundle   *artifacts.Bundle
	service  *predict.Service
	feedback *feedback.Store // nil when disabled
	server   *http.Server
}

// newApplication loads the artifacts and builds the HTTP server. It fails
// on any artifact problem so the process never serves a partial model.
func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	bundle, err := artifacts.LoadBundle(ctx, cfg.BundleConfig())
	if err != nil {
		return nil, fmt.Errorf("load artifacts: %w", err)
	}

	service, err := predict.NewFromBundle(bundle, cfg.Model.Version, cfg.Model.SerializeInference)
	if err != nil {
		return nil, fmt.Errorf("build prediction service: %w", err)
	}
	metrics.SetModelVersion(service.Version())

	logging.Info().
		Str("event", "startup").
		Str("model_version", service.Version()).
		Int("pipeline_version", bundle.PipelineInfo.Version).
		Int("priors_version", bundle.PriorsInfo.Version).
		Int("columns", len(bundle.Schema.Columns())).
		Float64("uplift_factor", bundle.Meta.Uplift()).
		Msg("Model artifacts loaded; uplift factor is recorded but not applied")

	app := &application{cfg: cfg, bundle: bundle, service: service}

	var store api.FeedbackStore
	if cfg.Feedback.Enabled {
		app.feedback, err = feedback.Open(feedback.Config{
			Path:     cfg.Feedback.Path,
			InMemory: cfg.Feedback.InMemory,
		})
		if err != nil {
			return nil, err
		}
		store = app.feedback
		logging.Info().Str("path", cfg.Feedback.Path).Bool("in_memory", cfg.Feedback.InMemory).Msg("Feedback store opened")
	}

	chiMW := api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
		RateLimitDisabled:  cfg.Security.RateLimitDisabled,
	})
	router := api.NewRouter(api.NewHandler(service, store), chiMW)

	app.server = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	return app, nil
}

// register adds the application's services to the supervisor tree.
func (a *application) register(tree *supervisor.Tree) {
	if a.feedback != nil {
		tree.AddDataService(services.NewFeedbackGCService(a.feedback, a.cfg.Feedback.GCInterval))
		logging.Info().Dur("interval", a.cfg.Feedback.GCInterval).Msg("Feedback GC service added")
	}

	tree.AddAPIService(services.NewHTTPServerService(a.server, 10*time.Second))
	logging.Info().Str("addr", a.server.Addr).Msg("HTTP server service added")
}

// Close releases resources the supervisor does not own.
func (a *application) Close() error {
	if a.feedback != nil {
		return a.feedback.Close()
	}
	return nil
}
