// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"port too high", func(c *Config) { c.Server.Port = 65536 }, "HTTP_PORT"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"no artifacts dir", func(c *Config) { c.Artifacts.Dir = "" }, "ARTIFACTS_DIR"},
		{"no pipeline name", func(c *Config) { c.Artifacts.PipelineName = "" }, "PIPELINE_NAME"},
		{"no schema file", func(c *Config) { c.Artifacts.SchemaFile = "" }, "SCHEMA_FILE"},
		{"negative version", func(c *Config) { c.Artifacts.PriorsVersion = -1 }, "versions"},
		{"feedback without path", func(c *Config) {
			c.Feedback.Enabled = true
			c.Feedback.Path = ""
		}, "FEEDBACK_PATH"},
		{"feedback in memory without path", func(c *Config) {
			c.Feedback.Enabled = true
			c.Feedback.InMemory = true
			c.Feedback.Path = ""
		}, ""},
		{"feedback disabled without path", func(c *Config) { c.Feedback.Path = "" }, ""},
		{"zero rate window", func(c *Config) { c.Security.RateLimitWindow = 0 }, "RATE_LIMIT_WINDOW"},
		{"zero rate window when disabled", func(c *Config) {
			c.Security.RateLimitWindow = 0
			c.Security.RateLimitDisabled = true
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestConversions(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Logging.Level = "debug"
	cfg.Artifacts.PipelineVersion = 4

	lc := cfg.LogConfig()
	if lc.Level != "debug" || lc.Format != "json" || !lc.Timestamp {
		t.Errorf("LogConfig() = %+v", lc)
	}

	bc := cfg.BundleConfig()
	if bc.Dir != "artifacts" || bc.PipelineVersion != 4 || bc.MetadataFile != "model_meta.json" {
		t.Errorf("BundleConfig() = %+v", bc)
	}

	if cfg.IsProduction() {
		t.Error("default environment reported as production")
	}
}
