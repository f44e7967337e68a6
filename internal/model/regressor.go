// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package model

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/tomtom215/rentpredict/internal/features"
)

// ErrNonFinite is returned when the model produces NaN or an infinity.
var ErrNonFinite = errors.New("model returned a non-finite prediction")

// Regressor predicts a single value for one feature vector.
type Regressor interface {
	Predict(ctx context.Context, v features.Vector) (float64, error)
}

// RegressorFunc adapts a plain function to Regressor.
type RegressorFunc func(ctx context.Context, v features.Vector) (float64, error)

// Predict calls f.
func (f RegressorFunc) Predict(ctx context.Context, v features.Vector) (float64, error) {
	return f(ctx, v)
}

// Invoke runs one prediction and rounds it to two decimals.
// A model error is returned as is; it is never retried or replaced by a
// default value.
func Invoke(ctx context.Context, r Regressor, v features.Vector) (float64, error) {
	raw, err := r.Predict(ctx, v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, fmt.Errorf("%w: %v", ErrNonFinite, raw)
	}
	return Round2(raw), nil
}

// Round2 rounds x to two decimal places, half to even on the exact binary
// value of x. 2.675 is stored as 2.67499999... and becomes 2.67, while
// 0.125 is exact and becomes 0.12.
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	if err != nil {
		return x
	}
	return r
}

// Serialized guards a Regressor that is not safe for concurrent calls.
type Serialized struct {
	mu    sync.Mutex
	inner Regressor
}

// Serialize wraps r so that at most one Predict runs at a time.
func Serialize(r Regressor) *Serialized {
	return &Serialized{inner: r}
}

// Predict implements Regressor.
func (s *Serialized) Predict(ctx context.Context, v features.Vector) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Predict(ctx, v)
}
