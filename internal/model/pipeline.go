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
	"sync"

	"github.com/tomtom215/rentpredict/internal/features"
)

var (
	// ErrVectorLength is returned when a vector does not have the layout
	// the pipeline was fitted on.
	ErrVectorLength = errors.New("feature vector layout mismatch")

	// ErrValueKind is returned when a cell has the wrong kind for its encoder.
	ErrValueKind = errors.New("feature value has wrong kind")

	// ErrInvalidPipeline is returned by Prepare for an unusable pipeline.
	ErrInvalidPipeline = errors.New("invalid pipeline")
)

// Encoding selects how a column is expanded into model inputs.
type Encoding string

const (
	// EncodingPassthrough copies a numeric value; a missing value becomes NaN.
	EncodingPassthrough Encoding = "passthrough"

	// EncodingOneHot expands a categorical value into one indicator per known
	// category. Unknown and missing values set no indicator.
	EncodingOneHot Encoding = "onehot"
)

// ColumnEncoder describes one input column.
type ColumnEncoder struct {
	Name       string   `json:"name"`
	Encoding   Encoding `json:"encoding"`
	Categories []string `json:"categories,omitempty"`
}

// Pipeline is a fitted column encoder followed by a tree ensemble.
// The exported fields are what gets persisted; call Prepare after decoding.
type Pipeline struct {
	Columns []ColumnEncoder
	Booster Booster

	once    sync.Once
	err     error
	offsets []int
	index   []map[string]int
	width   int
}

// Prepare validates the pipeline and builds its lookup tables. It is safe
// to call more than once and always returns the first result.
func (p *Pipeline) Prepare() error {
	p.once.Do(func() { p.err = p.prepare() })
	return p.err
}

func (p *Pipeline) prepare() error {
	if len(p.Columns) == 0 {
		return fmt.Errorf("%w: no columns", ErrInvalidPipeline)
	}

	p.offsets = make([]int, len(p.Columns))
	p.index = make([]map[string]int, len(p.Columns))
	seen := make(map[string]bool, len(p.Columns))
	width := 0

	for i, c := range p.Columns {
		if c.Name == "" {
			return fmt.Errorf("%w: column %d has no name", ErrInvalidPipeline, i)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate column %q", ErrInvalidPipeline, c.Name)
		}
		seen[c.Name] = true
		p.offsets[i] = width

		switch c.Encoding {
		case EncodingPassthrough:
			width++
		case EncodingOneHot:
			idx := make(map[string]int, len(c.Categories))
			for j, cat := range c.Categories {
				if _, dup := idx[cat]; dup {
					return fmt.Errorf("%w: column %q lists category %q twice", ErrInvalidPipeline, c.Name, cat)
				}
				idx[cat] = j
			}
			p.index[i] = idx
			width += len(c.Categories)
		default:
			return fmt.Errorf("%w: column %q has unknown encoding %q", ErrInvalidPipeline, c.Name, c.Encoding)
		}
	}
	p.width = width

	if err := p.Booster.Validate(width); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPipeline, err)
	}
	return nil
}

// InputColumns returns the column names the pipeline expects, in order.
func (p *Pipeline) InputColumns() []string {
	names := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		names[i] = c.Name
	}
	return names
}

// EncodedFeatureNames names every model input after encoding: the column
// name for passthrough columns and name_category for one-hot indicators.
// ParseXGBoostDump resolves split names against this list.
func (p *Pipeline) EncodedFeatureNames() []string {
	var names []string
	for _, c := range p.Columns {
		if c.Encoding == EncodingOneHot {
			for _, cat := range c.Categories {
				names = append(names, c.Name+"_"+cat)
			}
			continue
		}
		names = append(names, c.Name)
	}
	return names
}

// Encode expands a feature vector into the dense model input.
func (p *Pipeline) Encode(v features.Vector) ([]float64, error) {
	if err := p.Prepare(); err != nil {
		return nil, err
	}
	if len(v.Values) != len(p.Columns) || len(v.Columns) != len(p.Columns) {
		return nil, fmt.Errorf("%w: got %d values, want %d", ErrVectorLength, len(v.Values), len(p.Columns))
	}

	x := make([]float64, p.width)
	for i, c := range p.Columns {
		if v.Columns[i] != c.Name {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrVectorLength, i, v.Columns[i], c.Name)
		}
		val := v.Values[i]
		off := p.offsets[i]

		switch c.Encoding {
		case EncodingPassthrough:
			switch val.Kind {
			case features.KindNumeric:
				x[off] = val.Num
			case features.KindMissing:
				x[off] = math.NaN()
			default:
				return nil, fmt.Errorf("%w: column %q is %v, want numeric", ErrValueKind, c.Name, val.Kind)
			}
		case EncodingOneHot:
			switch val.Kind {
			case features.KindCategorical:
				if j, ok := p.index[i][val.Str]; ok {
					x[off+j] = 1
				}
			case features.KindMissing:
			default:
				return nil, fmt.Errorf("%w: column %q is %v, want categorical", ErrValueKind, c.Name, val.Kind)
			}
		}
	}
	return x, nil
}

// Predict implements Regressor.
func (p *Pipeline) Predict(ctx context.Context, v features.Vector) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	x, err := p.Encode(v)
	if err != nil {
		return 0, err
	}
	return p.Booster.Predict(x), nil
}
