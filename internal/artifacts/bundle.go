// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package artifacts

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/tomtom215/rentpredict/internal/features"
	"github.com/tomtom215/rentpredict/internal/model"
)

// BundleConfig locates the artifacts of one deployment.
type BundleConfig struct {
	Dir string

	PipelineName    string
	PipelineVersion int // 0 for latest
	PriorsName      string
	PriorsVersion   int // 0 for latest

	// SchemaFile and MetadataFile are relative to Dir unless absolute.
	SchemaFile   string
	MetadataFile string
}

// DefaultBundleConfig returns the file names the training job writes.
func DefaultBundleConfig(dir string) BundleConfig {
	return BundleConfig{
		Dir:          dir,
		PipelineName: "rent_pipeline",
		PriorsName:   "priors",
		SchemaFile:   "features.json",
		MetadataFile: "model_meta.json",
	}
}

func (c BundleConfig) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Dir, name)
}

// Bundle is everything the prediction path needs, loaded and cross-checked.
// All fields are read-only after LoadBundle returns.
type Bundle struct {
	Pipeline  *model.Pipeline
	Priors    *features.PriorTables
	Schema    features.Schema
	Assembler *features.Assembler
	Meta      *ModelMeta

	PipelineInfo Metadata
	PriorsInfo   Metadata
}

// LoadBundle loads and validates every artifact. Any failure, including a
// schema that does not lay out exactly the pipeline's input columns, is
// returned as an error and must stop startup.
func LoadBundle(ctx context.Context, cfg BundleConfig) (*Bundle, error) {
	store, err := OpenStore(cfg.Dir)
	if err != nil {
		return nil, err
	}

	var pipe model.Pipeline
	pipeInfo, err := store.Load(ctx, cfg.PipelineName, cfg.PipelineVersion, &pipe)
	if err != nil {
		return nil, fmt.Errorf("load pipeline: %w", err)
	}
	if err := pipe.Prepare(); err != nil {
		return nil, fmt.Errorf("load pipeline: %w", err)
	}

	var priors features.PriorTables
	priorsInfo, err := store.Load(ctx, cfg.PriorsName, cfg.PriorsVersion, &priors)
	if err != nil {
		return nil, fmt.Errorf("load priors: %w", err)
	}
	if err := priors.Validate(); err != nil {
		return nil, fmt.Errorf("load priors: %w", err)
	}

	schema, err := features.LoadSchema(cfg.resolve(cfg.SchemaFile))
	if err != nil {
		return nil, err
	}
	assembler, err := features.NewAssembler(schema)
	if err != nil {
		return nil, err
	}
	if err := schema.MatchColumns(pipe.InputColumns()); err != nil {
		return nil, err
	}

	meta, err := LoadMetadata(cfg.resolve(cfg.MetadataFile))
	if err != nil {
		return nil, err
	}

	return &Bundle{
		Pipeline:     &pipe,
		Priors:       &priors,
		Schema:       schema,
		Assembler:    assembler,
		Meta:         meta,
		PipelineInfo: *pipeInfo,
		PriorsInfo:   *priorsInfo,
	}, nil
}
