// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package artifacts

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/tomtom215/rentpredict/internal/features"
	"github.com/tomtom215/rentpredict/internal/model"
)

// EncoderExport is the column encoder description written by the training
// job next to the XGBoost dump.
type EncoderExport struct {
	Columns   []model.ColumnEncoder `json:"columns"`
	BaseScore float64               `json:"base_score"`
}

// ImportSources holds raw training exports.
type ImportSources struct {
	Encoder  []byte // EncoderExport JSON
	TreeDump []byte // XGBoost dump_model(..., dump_format="json")
	Priors   []byte // {"gmean":..., "city_prior":{...}, "pc4_prior":{...}}

	// Version to save both artifacts as; 0 means the next free version.
	Version     int
	Source      string
	Description string

	// WriteSchema writes features.json derived from the encoder columns.
	WriteSchema bool
}

// ImportResult reports the stored artifacts.
type ImportResult struct {
	Pipeline Metadata
	Priors   Metadata
	Schema   features.Schema
}

// BuildPipeline assembles and validates a pipeline from an encoder export
// and a tree dump.
func BuildPipeline(encoderJSON, treeDump []byte) (*model.Pipeline, error) {
	var enc EncoderExport
	if err := json.Unmarshal(encoderJSON, &enc); err != nil {
		return nil, fmt.Errorf("decode encoder export: %w", err)
	}

	p := &model.Pipeline{Columns: enc.Columns}
	trees, err := model.ParseXGBoostDump(treeDump, p.EncodedFeatureNames())
	if err != nil {
		return nil, err
	}
	p.Booster = model.Booster{BaseScore: enc.BaseScore, Trees: trees}

	if err := p.Prepare(); err != nil {
		return nil, err
	}
	return p, nil
}

// SchemaFor derives the feature schema from a pipeline: passthrough columns
// are numeric, one-hot columns categorical. The pipeline must list every
// numeric column first.
func SchemaFor(p *model.Pipeline) (features.Schema, error) {
	var s features.Schema
	for _, c := range p.Columns {
		if c.Encoding == model.EncodingPassthrough {
			s.NumCols = append(s.NumCols, c.Name)
		} else {
			s.CatCols = append(s.CatCols, c.Name)
		}
	}
	if err := s.MatchColumns(p.InputColumns()); err != nil {
		return features.Schema{}, err
	}
	if _, err := features.NewAssembler(s); err != nil {
		return features.Schema{}, err
	}
	return s, nil
}

// Import validates training exports and saves them as versioned artifacts.
// Nothing is written unless every export is valid.
func Import(ctx context.Context, store *Store, cfg BundleConfig, src ImportSources) (*ImportResult, error) {
	pipe, err := BuildPipeline(src.Encoder, src.TreeDump)
	if err != nil {
		return nil, err
	}
	schema, err := SchemaFor(pipe)
	if err != nil {
		return nil, err
	}

	var priors features.PriorTables
	if err := json.Unmarshal(src.Priors, &priors); err != nil {
		return nil, fmt.Errorf("decode priors export: %w", err)
	}
	if err := priors.Validate(); err != nil {
		return nil, err
	}

	meta := Metadata{Source: src.Source, Description: src.Description}
	pipeMeta, err := store.Save(ctx, cfg.PipelineName, src.Version, pipe, meta)
	if err != nil {
		return nil, fmt.Errorf("save pipeline: %w", err)
	}
	priorsMeta, err := store.Save(ctx, cfg.PriorsName, src.Version, &priors, meta)
	if err != nil {
		return nil, fmt.Errorf("save priors: %w", err)
	}

	if src.WriteSchema {
		data, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode schema: %w", err)
		}
		if err := os.WriteFile(cfg.resolve(cfg.SchemaFile), data, 0o600); err != nil {
			return nil, fmt.Errorf("write schema: %w", err)
		}
	}

	return &ImportResult{Pipeline: pipeMeta, Priors: priorsMeta, Schema: schema}, nil
}
