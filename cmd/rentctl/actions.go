// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/rentpredict/internal/api"
	"github.com/tomtom215/rentpredict/internal/artifacts"
	"github.com/tomtom215/rentpredict/internal/features"
	"github.com/tomtom215/rentpredict/internal/logging"
	"github.com/tomtom215/rentpredict/internal/modelcard"
	"github.com/tomtom215/rentpredict/internal/predict"
	"github.com/tomtom215/rentpredict/internal/validation"
)

func bundleAction(c *cli.Context) error {
	cfg := bundleConfig(c)

	src := artifacts.ImportSources{
		Version:     c.Int("version"),
		Description: c.String("description"),
		WriteSchema: c.Bool("write-schema"),
	}
	var err error
	if src.Encoder, err = os.ReadFile(c.String("encoder")); err != nil {
		return fmt.Errorf("read encoder export: %w", err)
	}
	if src.TreeDump, err = os.ReadFile(c.String("trees")); err != nil {
		return fmt.Errorf("read tree dump: %w", err)
	}
	if src.Priors, err = os.ReadFile(c.String("priors")); err != nil {
		return fmt.Errorf("read priors export: %w", err)
	}
	src.Source = filepath.Base(c.String("trees"))

	// Check the metadata before anything is written.
	var metaData []byte
	if p := c.String("meta"); p != "" {
		if metaData, err = os.ReadFile(p); err != nil {
			return fmt.Errorf("read model metadata: %w", err)
		}
		if _, err := artifacts.ParseMetadata(metaData); err != nil {
			return err
		}
	}

	store, err := artifacts.NewStore(cfg.Dir)
	if err != nil {
		return err
	}
	res, err := artifacts.Import(c.Context, store, cfg, src)
	if err != nil {
		return err
	}

	if metaData != nil {
		if err := os.WriteFile(filepath.Join(cfg.Dir, cfg.MetadataFile), metaData, 0o600); err != nil {
			return fmt.Errorf("write model metadata: %w", err)
		}
	}

	if keep := c.Int("keep"); keep > 0 {
		for _, name := range []string{cfg.PipelineName, cfg.PriorsName} {
			n, err := store.Prune(c.Context, name, keep)
			if err != nil {
				return err
			}
			if n > 0 {
				logging.Info().Str("artifact", name).Int("removed", n).Msg("Pruned old versions")
			}
		}
	}

	w := c.App.Writer
	fmt.Fprintf(w, "%s v%d  %s\n", res.Pipeline.Name, res.Pipeline.Version, shortChecksum(res.Pipeline.Checksum))
	fmt.Fprintf(w, "%s v%d  %s\n", res.Priors.Name, res.Priors.Version, shortChecksum(res.Priors.Checksum))
	if src.WriteSchema {
		fmt.Fprintf(w, "schema: %d numeric, %d categorical columns\n", len(res.Schema.NumCols), len(res.Schema.CatCols))
	}
	return nil
}

// predictOutput mirrors the POST /predict body, plus the resolved priors
// with --explain.
type predictOutput struct {
	PredictedRent float64  `json:"predicted_rent"`
	PC4           *string  `json:"pc4,omitempty"`
	CityPrior     *float64 `json:"city_prior,omitempty"`
	PC4Prior      *float64 `json:"pc4_prior,omitempty"`
}

func predictAction(c *cli.Context) error {
	var in io.Reader = c.App.Reader
	if path := c.Args().First(); path != "" && path != "-" {
		f, err := os.Open(path) //nolint:gosec // operator-supplied path
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read listing: %w", err)
	}
	var req api.PredictRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("decode listing: %w", err)
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return fmt.Errorf("invalid listing: %w", verr)
	}

	bundle, err := artifacts.LoadBundle(c.Context, bundleConfig(c))
	if err != nil {
		return err
	}
	svc, err := predict.NewFromBundle(bundle, "", false)
	if err != nil {
		return err
	}
	res, err := svc.Predict(c.Context, req.Listing())
	if err != nil {
		return err
	}

	out := predictOutput{PredictedRent: res.PredictedRent}
	if c.Bool("explain") {
		out.CityPrior = &res.CityPrior
		out.PC4Prior = &res.PC4Prior
		if res.HasPC4 {
			out.PC4 = &res.PC4
		}
	}
	return json.NewEncoder(c.App.Writer).Encode(out)
}

// inventory is the YAML form of inspect.
type inventory struct {
	Dir       string               `yaml:"dir"`
	Artifacts []artifacts.Metadata `yaml:"artifacts"`
	Model     *artifacts.ModelMeta `yaml:"model,omitempty"`
	Schema    *features.Schema     `yaml:"schema,omitempty"`
}

func inspectAction(c *cli.Context) error {
	cfg := bundleConfig(c)
	store, err := artifacts.OpenStore(cfg.Dir)
	if err != nil {
		return err
	}
	list, err := store.List(c.Context)
	if err != nil {
		return err
	}

	inv := inventory{Dir: cfg.Dir, Artifacts: list}
	if inv.Model, err = optional(artifacts.LoadMetadata(filepath.Join(cfg.Dir, cfg.MetadataFile))); err != nil {
		return err
	}
	if inv.Schema, err = optional(loadSchema(filepath.Join(cfg.Dir, cfg.SchemaFile))); err != nil {
		return err
	}

	switch c.String("format") {
	case "yaml":
		enc := yaml.NewEncoder(c.App.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(inv); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "table":
		printTable(c.App.Writer, inv)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table or yaml)", c.String("format"))
	}
}

func printTable(w io.Writer, inv inventory) {
	if len(inv.Artifacts) == 0 {
		fmt.Fprintf(w, "No artifacts in %s\n", inv.Dir)
	} else {
		fmt.Fprintf(w, "%-20s %-8s %-20s %-10s %-12s %s\n", "Name", "Version", "Saved", "Size", "Checksum", "Source")
		fmt.Fprintln(w, strings.Repeat("-", 90))
		for _, m := range inv.Artifacts {
			fmt.Fprintf(w, "%-20s %-8d %-20s %-10d %-12s %s\n",
				m.Name,
				m.Version,
				m.SavedAt.Format("2006-01-02 15:04:05"),
				m.SizeBytes,
				shortChecksum(m.Checksum),
				m.Source,
			)
		}
		fmt.Fprintf(w, "\nTotal: %d artifact versions\n", len(inv.Artifacts))
	}

	if inv.Model != nil {
		fmt.Fprintf(w, "\nModel:   %s %s\n", inv.Model.ModelName, inv.Model.ModelVersion)
		fmt.Fprintf(w, "Uplift:  %.2f (recorded, not applied)\n", inv.Model.Uplift())
	}
	if inv.Schema != nil {
		fmt.Fprintf(w, "Columns: %s\n", strings.Join(inv.Schema.Columns(), ", "))
	}
}

func modelcardAction(c *cli.Context) error {
	format, err := modelcard.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}

	cfg := bundleConfig(c)
	meta, err := artifacts.LoadMetadata(filepath.Join(cfg.Dir, cfg.MetadataFile))
	if err != nil {
		return err
	}
	schema, err := optional(loadSchema(filepath.Join(cfg.Dir, cfg.SchemaFile)))
	if err != nil {
		return err
	}
	if schema == nil {
		schema = &features.Schema{}
	}

	now := time.Now().UTC()
	path := c.String("out")
	if path == "" {
		return modelcard.Render(c.App.Writer, format, meta, *schema, now)
	}

	f, err := os.Create(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return err
	}
	if err := modelcard.Render(f, format, meta, *schema, now); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logging.Info().Str("path", path).Str("format", string(format)).Msg("Model card written")
	return nil
}

func loadSchema(path string) (*features.Schema, error) {
	s, err := features.LoadSchema(path)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// optional turns a missing file into a nil result.
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return v, err
}

func shortChecksum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}
