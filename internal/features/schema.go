// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package features

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

var (
	// ErrSchemaMismatch is returned when the feature schema cannot be served
	// by the pipeline. It is always a startup error.
	ErrSchemaMismatch = errors.New("feature schema mismatch")

	// ErrUnknownColumn is returned for a schema column that no listing field provides.
	ErrUnknownColumn = errors.New("unknown feature column")
)

// Schema is the ordered column layout the model was trained on.
// The JSON names match the exported features.json artifact.
type Schema struct {
	NumCols []string `json:"num_cols" yaml:"num_cols"`
	CatCols []string `json:"cat_cols" yaml:"cat_cols"`
}

// Columns returns num_cols followed by cat_cols.
func (s Schema) Columns() []string {
	cols := make([]string, 0, len(s.NumCols)+len(s.CatCols))
	cols = append(cols, s.NumCols...)
	return append(cols, s.CatCols...)
}

// ParseSchema decodes a features.json document.
func ParseSchema(data []byte) (Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return Schema{}, fmt.Errorf("decode feature schema: %w", err)
	}
	if len(s.NumCols)+len(s.CatCols) == 0 {
		return Schema{}, fmt.Errorf("%w: schema lists no columns", ErrSchemaMismatch)
	}
	return s, nil
}

// LoadSchema reads and decodes a features.json file.
func LoadSchema(path string) (Schema, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return Schema{}, fmt.Errorf("read feature schema: %w", err)
	}
	return ParseSchema(data)
}

// MatchColumns reports whether the schema lays out exactly the given columns
// in the same order.
func (s Schema) MatchColumns(columns []string) error {
	want := s.Columns()
	if len(want) != len(columns) {
		return fmt.Errorf("%w: schema has %d columns, model expects %d", ErrSchemaMismatch, len(want), len(columns))
	}
	for i := range want {
		if want[i] != columns[i] {
			return fmt.Errorf("%w: column %d is %q in schema, %q in model", ErrSchemaMismatch, i, want[i], columns[i])
		}
	}
	return nil
}
