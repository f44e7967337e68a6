// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomtom215/rentpredict/internal/artifacts"
	"github.com/tomtom215/rentpredict/internal/logging"
)

// Config is the complete server configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Model     ModelConfig     `koanf:"model"`
	Feedback  FeedbackConfig  `koanf:"feedback"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development" or "production"
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// ArtifactsConfig locates the model artifacts. A version of 0 selects the
// latest stored version.
type ArtifactsConfig struct {
	Dir             string `koanf:"dir"`
	PipelineName    string `koanf:"pipeline_name"`
	PipelineVersion int    `koanf:"pipeline_version"`
	PriorsName      string `koanf:"priors_name"`
	PriorsVersion   int    `koanf:"priors_version"`
	SchemaFile      string `koanf:"schema_file"`
	MetadataFile    string `koanf:"metadata_file"`
}

// ModelConfig holds model serving settings.
type ModelConfig struct {
	// Version overrides the version tag from model metadata.
	Version string `koanf:"version"`

	// SerializeInference makes model calls one at a time.
	SerializeInference bool `koanf:"serialize_inference"`
}

// FeedbackConfig configures the feedback store.
type FeedbackConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Path       string        `koanf:"path"`
	InMemory   bool          `koanf:"in_memory"`
	GCInterval time.Duration `koanf:"gc_interval"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Load reads an optional .env file and then the layered configuration.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	return LoadWithKoanf()
}

// loadDotEnv loads .env files into the process environment. Missing files
// are not an error.
func loadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// LogConfig converts the logging section for logging.Init.
func (c *Config) LogConfig() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Logging.Level
	lc.Format = c.Logging.Format
	lc.Caller = c.Logging.Caller
	return lc
}

// BundleConfig converts the artifacts section for artifacts.LoadBundle.
func (c *Config) BundleConfig() artifacts.BundleConfig {
	return artifacts.BundleConfig{
		Dir:             c.Artifacts.Dir,
		PipelineName:    c.Artifacts.PipelineName,
		PipelineVersion: c.Artifacts.PipelineVersion,
		PriorsName:      c.Artifacts.PriorsName,
		PriorsVersion:   c.Artifacts.PriorsVersion,
		SchemaFile:      c.Artifacts.SchemaFile,
		MetadataFile:    c.Artifacts.MetadataFile,
	}
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
