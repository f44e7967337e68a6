// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

// Package features turns a raw rent listing into the ordered feature vector
// the regression model consumes.
//
// The request-time path is four pure steps:
//
//	row := features.Normalize(listing)        // trim, lowercase, extract pc4
//	enriched := priors.Resolve(row)           // city_prior, pc4_prior
//	vec := assembler.Assemble(enriched)       // schema order
//
// PriorTables, Schema and Assembler are built once at startup and are
// read-only afterwards, so they are shared by concurrent requests without
// locking. Every schema problem surfaces from NewAssembler, never from
// Assemble.
package features

// Listing is the raw listing description sent by a client.
// All fields are required at the HTTP boundary; the pipeline itself
// accepts any values, including empty strings and negative areas.
type Listing struct {
	AreaSqm   float64
	Latitude  float64
	Longitude float64

	City          string
	PC4           string
	PropertyType  string
	Furnish       string
	Internet      string
	Kitchen       string
	Shower        string
	Toilet        string
	Living        string
	SmokingInside string
	Pets          string
}

// NormalizedRow is a Listing with trimmed, lowercased categorical fields and
// the postal code reduced to its 4-digit prefix.
type NormalizedRow struct {
	AreaSqm   float64
	Latitude  float64
	Longitude float64

	City string

	// PC4 is the 4-digit postal prefix. It is only meaningful when HasPC4
	// is true; a postal code without four consecutive digits has no prefix.
	PC4    string
	HasPC4 bool

	PropertyType  string
	Furnish       string
	Internet      string
	Kitchen       string
	Shower        string
	Toilet        string
	Living        string
	SmokingInside string
	Pets          string
}

// EnrichedRow is a NormalizedRow plus the two resolved geographic priors.
// Both priors are always set.
type EnrichedRow struct {
	NormalizedRow

	CityPrior float64
	PC4Prior  float64
}

// Listing converts the row back into a Listing. An absent postal prefix
// becomes the empty string. Normalizing the result yields the same row.
func (r NormalizedRow) Listing() Listing {
	return Listing{
		AreaSqm:       r.AreaSqm,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		City:          r.City,
		PC4:           r.PC4,
		PropertyType:  r.PropertyType,
		Furnish:       r.Furnish,
		Internet:      r.Internet,
		Kitchen:       r.Kitchen,
		Shower:        r.Shower,
		Toilet:        r.Toilet,
		Living:        r.Living,
		SmokingInside: r.SmokingInside,
		Pets:          r.Pets,
	}
}
