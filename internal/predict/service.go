// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

// Package predict orchestrates one rent prediction: normalize, resolve
// priors, assemble, invoke the model. It also feeds the prediction
// metrics and writes the request, success and error log records.
package predict

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/rentpredict/internal/artifacts"
	"github.com/tomtom215/rentpredict/internal/features"
	"github.com/tomtom215/rentpredict/internal/logging"
	"github.com/tomtom215/rentpredict/internal/metrics"
	"github.com/tomtom215/rentpredict/internal/model"
)

// DefaultModelVersion is reported when neither configuration nor model
// metadata name a version.
const DefaultModelVersion = "v1"

// ErrModelPanic wraps a panic raised inside the model call.
var ErrModelPanic = errors.New("predict: model panicked")

// Result is a served prediction.
type Result struct {
	PredictedRent float64
	CityPrior     float64
	PC4Prior      float64
	PC4           string
	HasPC4        bool
}

// Service serves predictions. All of its state is read-only after
// construction, so one Service is shared by every request.
type Service struct {
	priors    *features.PriorTables
	assembler *features.Assembler
	regressor model.Regressor
	version   string
}

// NewService builds a Service from loaded parts.
func NewService(priors *features.PriorTables, assembler *features.Assembler, regressor model.Regressor, version string) (*Service, error) {
	if priors == nil || assembler == nil || regressor == nil {
		return nil, errors.New("predict: priors, assembler and regressor are required")
	}
	if err := priors.Validate(); err != nil {
		return nil, err
	}
	if version == "" {
		version = DefaultModelVersion
	}
	return &Service{
		priors:    priors,
		assembler: assembler,
		regressor: regressor,
		version:   version,
	}, nil
}

// NewFromBundle builds a Service from a loaded artifact bundle. An empty
// version falls back to the bundle metadata. With serialize set, model
// calls are made one at a time.
func NewFromBundle(b *artifacts.Bundle, version string, serialize bool) (*Service, error) {
	if b == nil {
		return nil, errors.New("predict: bundle is nil")
	}
	if version == "" && b.Meta != nil {
		version = b.Meta.ModelVersion
	}
	var r model.Regressor = b.Pipeline
	if serialize {
		r = model.Serialize(r)
	}
	return NewService(b.Priors, b.Assembler, r, version)
}

// Version returns the model version tag.
func (s *Service) Version() string {
	return s.version
}

// Predict runs the whole pipeline for one listing. A model error is
// counted, logged and returned unchanged.
func (s *Service) Predict(ctx context.Context, in features.Listing) (Result, error) {
	metrics.PredRequests.Inc()
	ctx = logging.ContextWithModelVersion(ctx, s.version)

	row := features.Normalize(in)
	enriched := s.priors.Resolve(row)
	vec := s.assembler.Assemble(enriched)

	logging.Ctx(ctx).Info().
		Str("event", "predict_request").
		Str("city", row.City).
		Str("pc4", row.PC4).
		Bool("has_pc4", row.HasPC4).
		Float64("area_sqm", row.AreaSqm).
		Str("property_type", row.PropertyType).
		Msg("Prediction requested")

	rent, err := s.infer(ctx, vec)
	if err != nil {
		metrics.PredErrors.Inc()
		logging.Ctx(ctx).Error().
			Err(err).
			Str("event", "predict_error").
			Str("city", row.City).
			Msg("Prediction failed")
		return Result{}, err
	}

	logging.Ctx(ctx).Info().
		Str("event", "predict_success").
		Float64("predicted_rent", rent).
		Float64("city_prior", enriched.CityPrior).
		Float64("pc4_prior", enriched.PC4Prior).
		Msg("Prediction served")

	return Result{
		PredictedRent: rent,
		CityPrior:     enriched.CityPrior,
		PC4Prior:      enriched.PC4Prior,
		PC4:           row.PC4,
		HasPC4:        row.HasPC4,
	}, nil
}

// infer times the model call alone. A panic in the model becomes an
// ErrModelPanic error so it reaches the same counting and logging as a
// returned error.
func (s *Service) infer(ctx context.Context, vec features.Vector) (rent float64, err error) {
	timer := metrics.PredictTimer()
	defer timer.ObserveDuration()
	defer func() {
		if r := recover(); r != nil {
			rent, err = 0, fmt.Errorf("%w: %v", ErrModelPanic, r)
		}
	}()

	return model.Invoke(ctx, s.regressor, vec)
}
