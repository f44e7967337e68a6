// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateArtifacts(); err != nil {
		return err
	}
	if err := c.validateFeedback(); err != nil {
		return err
	}
	return c.validateSecurity()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("SERVER_TIMEOUT must not be negative, got %s", c.Server.Timeout)
	}
	return nil
}

var (
	validLogLevels  = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}
	validLogFormats = []string{"json", "console"}
)

func (c *Config) validateLogging() error {
	if !contains(validLogLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("LOG_LEVEL must be one of %s, got %q", strings.Join(validLogLevels, ", "), c.Logging.Level)
	}
	if !contains(validLogFormats, strings.ToLower(c.Logging.Format)) {
		return fmt.Errorf("LOG_FORMAT must be one of %s, got %q", strings.Join(validLogFormats, ", "), c.Logging.Format)
	}
	return nil
}

func (c *Config) validateArtifacts() error {
	a := c.Artifacts
	switch {
	case a.Dir == "":
		return errors.New("ARTIFACTS_DIR is required")
	case a.PipelineName == "":
		return errors.New("PIPELINE_NAME is required")
	case a.PriorsName == "":
		return errors.New("PRIORS_NAME is required")
	case a.SchemaFile == "":
		return errors.New("SCHEMA_FILE is required")
	case a.MetadataFile == "":
		return errors.New("METADATA_FILE is required")
	case a.PipelineVersion < 0 || a.PriorsVersion < 0:
		return errors.New("artifact versions must not be negative (0 selects the latest)")
	}
	return nil
}

func (c *Config) validateFeedback() error {
	if !c.Feedback.Enabled {
		return nil
	}
	if !c.Feedback.InMemory && c.Feedback.Path == "" {
		return errors.New("FEEDBACK_PATH is required when FEEDBACK_ENABLED=true")
	}
	if c.Feedback.GCInterval <= 0 {
		return fmt.Errorf("FEEDBACK_GC_INTERVAL must be positive, got %s", c.Feedback.GCInterval)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.Security.RateLimitWindow)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
