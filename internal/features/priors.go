// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package features

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidPriors is returned when prior tables cannot guarantee a defined
// prior for every input.
var ErrInvalidPriors = errors.New("invalid prior tables")

// PriorTables holds the target-encoding statistics computed at training time.
// The JSON names match the exported training artifact.
type PriorTables struct {
	// GlobalMean is the unconditional mean rent of the training data.
	GlobalMean float64 `json:"gmean"`

	// City maps a normalized city name to its mean rent.
	City map[string]float64 `json:"city_prior"`

	// PC4 maps a 4-digit postal prefix to its mean rent.
	PC4 map[string]float64 `json:"pc4_prior"`
}

// Validate checks that the tables can always resolve to a finite prior.
// A NaN entry is tolerated and treated as absent, the way the training
// pipeline filled missing statistics; an infinite entry is rejected.
func (t *PriorTables) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: tables are nil", ErrInvalidPriors)
	}
	if math.IsNaN(t.GlobalMean) || math.IsInf(t.GlobalMean, 0) {
		return fmt.Errorf("%w: gmean must be finite, got %v", ErrInvalidPriors, t.GlobalMean)
	}
	for k, v := range t.City {
		if math.IsInf(v, 0) {
			return fmt.Errorf("%w: city_prior[%q] is infinite", ErrInvalidPriors, k)
		}
	}
	for k, v := range t.PC4 {
		if math.IsInf(v, 0) {
			return fmt.Errorf("%w: pc4_prior[%q] is infinite", ErrInvalidPriors, k)
		}
	}
	return nil
}

// Resolve computes both priors for a normalized row.
func (t *PriorTables) Resolve(row NormalizedRow) EnrichedRow {
	cityPrior := t.CityPrior(row.City)
	return EnrichedRow{
		NormalizedRow: row,
		CityPrior:     cityPrior,
		PC4Prior:      t.PC4Prior(row.PC4, row.HasPC4, cityPrior),
	}
}

// CityPrior returns the city's mean rent, or the global mean for a city
// the tables do not know.
func (t *PriorTables) CityPrior(city string) float64 {
	if v, ok := lookup(t.City, city); ok {
		return v
	}
	return t.GlobalMean
}

// PC4Prior returns the postal prefix's mean rent. Without a known prefix it
// degrades to the already resolved city prior, and to the global mean if
// that is undefined.
func (t *PriorTables) PC4Prior(pc4 string, hasPC4 bool, cityPrior float64) float64 {
	if hasPC4 {
		if v, ok := lookup(t.PC4, pc4); ok {
			return v
		}
	}
	// cityPrior is always defined after CityPrior; keep the global mean as the last resort.
	if !math.IsNaN(cityPrior) {
		return cityPrior
	}
	return t.GlobalMean
}

func lookup(m map[string]float64, key string) (float64, bool) {
	v, ok := m[key]
	if !ok || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
