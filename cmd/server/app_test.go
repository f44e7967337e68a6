// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/rentpredict/internal/artifacts"
	"github.com/tomtom215/rentpredict/internal/config"
	"github.com/tomtom215/rentpredict/internal/metrics"
)

var testdataDir = filepath.Join("..", "..", "internal", "artifacts", "testdata")

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(testdataDir, name))
	if err != nil {
		t.Fatal(err)
	}
	return data
}

// testConfig imports the testdata bundle into a temporary artifact
// directory and returns a configuration serving it.
func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	store, err := artifacts.NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	bcfg := artifacts.DefaultBundleConfig(dir)
	_, err = artifacts.Import(context.Background(), store, bcfg, artifacts.ImportSources{
		Encoder:     readTestdata(t, "encoder.json"),
		TreeDump:    readTestdata(t, "trees.json"),
		Priors:      readTestdata(t, "priors.json"),
		WriteSchema: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, bcfg.MetadataFile), readTestdata(t, "model_meta.json"), 0o600); err != nil {
		t.Fatal(err)
	}

	return &config.Config{
		Server:    config.ServerConfig{Host: "127.0.0.1", Port: 8000, Timeout: 5 * time.Second},
		Logging:   config.LoggingConfig{Level: "info", Format: "json"},
		Artifacts: config.ArtifactsConfig{Dir: dir, PipelineName: bcfg.PipelineName, PriorsName: bcfg.PriorsName, SchemaFile: bcfg.SchemaFile, MetadataFile: bcfg.MetadataFile},
		Feedback:  config.FeedbackConfig{Enabled: true, InMemory: true, GCInterval: time.Minute},
		Security:  config.SecurityConfig{RateLimitDisabled: true},
	}
}

func TestApplication_ServesPredictions(t *testing.T) {
	cfg := testConfig(t)
	app, err := newApplication(context.Background(), cfg)
	if err != nil {
		t.Fatalf("newApplication() error = %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	if app.service.Version() != "v1" {
		t.Errorf("Version() = %q, want v1 from metadata", app.service.Version())
	}
	if got := testutil.ToFloat64(metrics.ModelVersionInfo.WithLabelValues("v1")); got != 1 {
		t.Errorf("model_version_info{version=v1} = %v, want 1", got)
	}

	body := `{"areaSqm":45,"latitude":52.0907,"longitude":5.1214,"city":"Utrecht","pc4":"3511 AB",
		"propertyType":"Apartment","furnish":"Furnished","internet":"Yes","kitchen":"Own","shower":"Own",
		"toilet":"Own","living":"Own","smokingInside":"No","pets":"No"}`
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
	w := httptest.NewRecorder()
	app.server.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp map[string]float64
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["predicted_rent"] != 1133.46 {
		t.Errorf("predicted_rent = %v, want 1133.46", resp["predicted_rent"])
	}

	req = httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(`{"predicted_rent":1133.46,"rating":5}`))
	w = httptest.NewRecorder()
	app.server.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Errorf("feedback status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestApplication_ConfiguredVersionWins(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.Version = "2026-q1"
	cfg.Feedback.Enabled = false

	app, err := newApplication(context.Background(), cfg)
	if err != nil {
		t.Fatalf("newApplication() error = %v", err)
	}
	if app.service.Version() != "2026-q1" {
		t.Errorf("Version() = %q, want 2026-q1", app.service.Version())
	}
	if app.feedback != nil {
		t.Error("feedback store opened while disabled")
	}
	if err := app.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestApplication_MissingArtifactsFail(t *testing.T) {
	cfg := testConfig(t)
	cfg.Artifacts.Dir = filepath.Join(t.TempDir(), "absent")

	if _, err := newApplication(context.Background(), cfg); err == nil {
		t.Fatal("expected startup error for a missing artifact directory")
	}
}
