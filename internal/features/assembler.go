// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package features

import (
	"fmt"
	"sort"
	"strconv"
)

// field describes how one named column is read from an EnrichedRow.
type field struct {
	kind Kind
	num  func(*EnrichedRow) float64
	str  func(*EnrichedRow) Value
}

func numericField(get func(*EnrichedRow) float64) field {
	return field{kind: KindNumeric, num: get}
}

func categoricalField(get func(*EnrichedRow) string) field {
	return field{kind: KindCategorical, str: func(r *EnrichedRow) Value { return Categorical(get(r)) }}
}

// fields lists every column a schema may reference, keyed by its training name.
var fields = map[string]field{
	"areaSqm":    numericField(func(r *EnrichedRow) float64 { return r.AreaSqm }),
	"latitude":   numericField(func(r *EnrichedRow) float64 { return r.Latitude }),
	"longitude":  numericField(func(r *EnrichedRow) float64 { return r.Longitude }),
	"city_prior": numericField(func(r *EnrichedRow) float64 { return r.CityPrior }),
	"pc4_prior":  numericField(func(r *EnrichedRow) float64 { return r.PC4Prior }),

	"city": categoricalField(func(r *EnrichedRow) string { return r.City }),
	"pc4": {kind: KindCategorical, str: func(r *EnrichedRow) Value {
		if !r.HasPC4 {
			return Missing()
		}
		return Categorical(r.PC4)
	}},
	"propertyType":  categoricalField(func(r *EnrichedRow) string { return r.PropertyType }),
	"furnish":       categoricalField(func(r *EnrichedRow) string { return r.Furnish }),
	"internet":      categoricalField(func(r *EnrichedRow) string { return r.Internet }),
	"kitchen":       categoricalField(func(r *EnrichedRow) string { return r.Kitchen }),
	"shower":        categoricalField(func(r *EnrichedRow) string { return r.Shower }),
	"toilet":        categoricalField(func(r *EnrichedRow) string { return r.Toilet }),
	"living":        categoricalField(func(r *EnrichedRow) string { return r.Living }),
	"smokingInside": categoricalField(func(r *EnrichedRow) string { return r.SmokingInside }),
	"pets":          categoricalField(func(r *EnrichedRow) string { return r.Pets }),
}

// KnownColumns returns every column name a schema may reference, sorted.
func KnownColumns() []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Assembler lays out enriched rows in schema order. It is compiled once
// from a Schema and is safe for concurrent use.
type Assembler struct {
	schema  Schema
	columns []string
	getters []func(*EnrichedRow) Value
}

// NewAssembler compiles a schema. It fails when a column is unknown,
// listed twice, or a categorical field is listed among num_cols.
// A numeric field listed among cat_cols is emitted as its decimal text.
func NewAssembler(schema Schema) (*Assembler, error) {
	columns := schema.Columns()
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: schema lists no columns", ErrSchemaMismatch)
	}

	a := &Assembler{
		schema:  schema,
		columns: columns,
		getters: make([]func(*EnrichedRow) Value, 0, len(columns)),
	}

	seen := make(map[string]bool, len(columns))
	for i, name := range columns {
		if seen[name] {
			return nil, fmt.Errorf("%w: column %q listed more than once", ErrSchemaMismatch, name)
		}
		seen[name] = true

		f, ok := fields[name]
		if !ok {
			return nil, fmt.Errorf("%w: %w %q", ErrSchemaMismatch, ErrUnknownColumn, name)
		}

		numericSlot := i < len(schema.NumCols)
		switch {
		case numericSlot && f.kind != KindNumeric:
			return nil, fmt.Errorf("%w: %q is categorical but listed in num_cols", ErrSchemaMismatch, name)
		case numericSlot:
			get := f.num
			a.getters = append(a.getters, func(r *EnrichedRow) Value { return Numeric(get(r)) })
		case f.kind == KindNumeric:
			get := f.num
			a.getters = append(a.getters, func(r *EnrichedRow) Value {
				return Categorical(strconv.FormatFloat(get(r), 'g', -1, 64))
			})
		default:
			a.getters = append(a.getters, f.str)
		}
	}

	return a, nil
}

// Columns returns the compiled column order.
func (a *Assembler) Columns() []string {
	out := make([]string, len(a.columns))
	copy(out, a.columns)
	return out
}

// Schema returns the schema the assembler was compiled from.
func (a *Assembler) Schema() Schema {
	return a.schema
}

// Assemble builds the feature vector for one row. It cannot fail: every
// column was checked by NewAssembler.
func (a *Assembler) Assemble(row EnrichedRow) Vector {
	values := make([]Value, len(a.getters))
	for i, get := range a.getters {
		values[i] = get(&row)
	}
	return Vector{Columns: a.columns, Values: values}
}
