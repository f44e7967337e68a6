// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package features

import "strconv"

// Kind tells how a Value must be read.
type Kind uint8

const (
	KindNumeric Kind = iota
	KindCategorical
	KindMissing
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	case KindMissing:
		return "missing"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one cell of a feature vector.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
}

// Numeric returns a numeric value.
func Numeric(f float64) Value { return Value{Kind: KindNumeric, Num: f} }

// Categorical returns a categorical value.
func Categorical(s string) Value { return Value{Kind: KindCategorical, Str: s} }

// Missing returns an absent value.
func Missing() Value { return Value{Kind: KindMissing} }

// String renders the value for logs and the offline CLI.
func (v Value) String() string {
	switch v.Kind {
	case KindNumeric:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindCategorical:
		return strconv.Quote(v.Str)
	default:
		return "<missing>"
	}
}

// Vector is a model-ready row: Values[i] belongs to Columns[i].
// Columns is shared with the Assembler that produced it and must not be
// modified.
type Vector struct {
	Columns []string
	Values  []Value
}

// Len returns the number of columns.
func (v Vector) Len() int { return len(v.Values) }

// Get returns the value of a named column.
func (v Vector) Get(column string) (Value, bool) {
	for i, c := range v.Columns {
		if c == column {
			return v.Values[i], true
		}
	}
	return Value{}, false
}
