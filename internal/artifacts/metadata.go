// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package artifacts

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/goccy/go-json"
)

// ErrInvalidMetadata is returned for a model_meta.json that lacks required fields.
var ErrInvalidMetadata = errors.New("invalid model metadata")

// ModelMeta is the model_meta.json record written by the training job.
// Only uplift_factor is required.
type ModelMeta struct {
	// UpliftFactor adjusts for rent growth since the training data was
	// collected. It is loaded and reported but not applied to predictions.
	UpliftFactor *float64 `json:"uplift_factor" yaml:"uplift_factor"`

	ModelVersion string `json:"model_version,omitempty" yaml:"model_version,omitempty"`
	ModelName    string `json:"model_name,omitempty" yaml:"model_name,omitempty"`
	Algorithm    string `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	Target       string `json:"target,omitempty" yaml:"target,omitempty"`
	Currency     string `json:"currency,omitempty" yaml:"currency,omitempty"`
	TrainedAt    string `json:"trained_at,omitempty" yaml:"trained_at,omitempty"`
	Dataset      string `json:"dataset,omitempty" yaml:"dataset,omitempty"`
	DataPeriod   string `json:"data_period,omitempty" yaml:"data_period,omitempty"`
	Split        string `json:"split,omitempty" yaml:"split,omitempty"`
	IntendedUse  string `json:"intended_use,omitempty" yaml:"intended_use,omitempty"`
	Author       string `json:"author,omitempty" yaml:"author,omitempty"`

	Metrics     *EvalMetrics `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Limitations []string     `json:"limitations,omitempty" yaml:"limitations,omitempty"`
	Frameworks  []string     `json:"frameworks,omitempty" yaml:"frameworks,omitempty"`
}

// EvalMetrics holds held-out evaluation results.
type EvalMetrics struct {
	R2   *float64 `json:"r2,omitempty" yaml:"r2,omitempty"`
	MAE  *float64 `json:"mae,omitempty" yaml:"mae,omitempty"`
	RMSE *float64 `json:"rmse,omitempty" yaml:"rmse,omitempty"`
}

// Uplift returns the uplift factor. It is only valid after ParseMetadata.
func (m *ModelMeta) Uplift() float64 {
	if m == nil || m.UpliftFactor == nil {
		return 0
	}
	return *m.UpliftFactor
}

// ParseMetadata decodes a model_meta.json document.
func ParseMetadata(data []byte) (*ModelMeta, error) {
	var m ModelMeta
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model metadata: %w", err)
	}
	if m.UpliftFactor == nil {
		return nil, fmt.Errorf("%w: uplift_factor is missing", ErrInvalidMetadata)
	}
	if math.IsNaN(*m.UpliftFactor) || math.IsInf(*m.UpliftFactor, 0) {
		return nil, fmt.Errorf("%w: uplift_factor is not finite", ErrInvalidMetadata)
	}
	return &m, nil
}

// LoadMetadata reads and decodes a model_meta.json file.
func LoadMetadata(path string) (*ModelMeta, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("read model metadata: %w", err)
	}
	return ParseMetadata(data)
}
