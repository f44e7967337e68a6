// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package modelcard

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/rentpredict/internal/artifacts"
	"github.com/tomtom215/rentpredict/internal/features"
)

func loadTestdata(t *testing.T) (*artifacts.ModelMeta, features.Schema) {
	t.Helper()

	meta, err := artifacts.LoadMetadata(filepath.Join("..", "artifacts", "testdata", "model_meta.json"))
	if err != nil {
		t.Fatal(err)
	}
	schema, err := features.LoadSchema(filepath.Join("..", "artifacts", "testdata", "features.json"))
	if err != nil {
		t.Fatal(err)
	}
	return meta, schema
}

var generated = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestRender_MarkdownFromTestdata(t *testing.T) {
	t.Parallel()

	meta, schema := loadTestdata(t)

	var b strings.Builder
	if err := Render(&b, FormatMarkdown, meta, schema, generated); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	card := b.String()

	want := []string{
		"# Model Card: NL Rent Prediction (v1)",
		"## 2. Intended Use",
		"- **Algorithm:** XGBoost Regressor",
		"pc4_prior",
		"| R² | 0.845 |",
		"| MAE | 142.00 EUR |",
		"uplift factor of 1.50",
		"is not applied to served predictions",
		"- Geographic coverage is limited to the Netherlands.",
		"## 8. Author",
		"_Generated 2026-03-01._",
	}
	for _, s := range want {
		if !strings.Contains(card, s) {
			t.Errorf("card is missing %q\n%s", s, card)
		}
	}
	if strings.Contains(card, "RMSE") {
		t.Error("card lists RMSE although it was not recorded")
	}
}

func TestRender_Minimal(t *testing.T) {
	t.Parallel()

	uplift := 1.0
	var b strings.Builder
	err := Render(&b, FormatMarkdown, &artifacts.ModelMeta{UpliftFactor: &uplift}, features.Schema{NumCols: []string{"areaSqm"}}, time.Unix(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	card := b.String()

	for _, s := range []string{"# Model Card: Rent Prediction (v1)", "No evaluation metrics were recorded.", "uplift factor of 1.00"} {
		if !strings.Contains(card, s) {
			t.Errorf("card is missing %q", s)
		}
	}
	for _, s := range []string{"Intended Use", "Limitations", "Author", "Categorical features"} {
		if strings.Contains(card, s) {
			t.Errorf("card has empty section %q", s)
		}
	}
}

func TestRender_NilMeta(t *testing.T) {
	t.Parallel()

	if err := Render(&strings.Builder{}, FormatPDF, nil, features.Schema{}, time.Now()); err == nil {
		t.Error("expected error for nil metadata")
	}
}

func TestBuild_NumbersSectionsInOrder(t *testing.T) {
	t.Parallel()

	uplift := 1.5
	c, err := Build(&artifacts.ModelMeta{UpliftFactor: &uplift, Author: "Data team"}, features.Schema{}, generated)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"1. Model Overview",
		"2. Model Details",
		"3. Performance",
		"4. Uplift Factor",
		"5. Ethical Considerations",
		"6. Author",
	}
	if len(c.Sections) != len(want) {
		t.Fatalf("got %d sections, want %d", len(c.Sections), len(want))
	}
	for i, s := range c.Sections {
		if s.Title != want[i] {
			t.Errorf("section %d = %q, want %q", i, s.Title, want[i])
		}
	}
}

func TestRender_PDF(t *testing.T) {
	t.Parallel()

	meta, schema := loadTestdata(t)

	var buf bytes.Buffer
	if err := Render(&buf, FormatPDF, meta, schema, generated); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.Bytes()

	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", out[:min(len(out), 16)])
	}
	if !bytes.Contains(out, []byte("%%EOF")) {
		t.Error("output has no PDF trailer")
	}
}

func TestWritePDF_ContainsSectionTitles(t *testing.T) {
	t.Parallel()

	meta, schema := loadTestdata(t)
	c, err := Build(meta, schema, generated)
	if err != nil {
		t.Fatal(err)
	}

	// Uncompressed content streams keep text operands readable.
	var buf bytes.Buffer
	if err := c.writePDF(&buf, false); err != nil {
		t.Fatalf("writePDF() error = %v", err)
	}
	out := buf.String()

	for _, s := range c.Sections {
		if !strings.Contains(out, "("+s.Title+")") {
			t.Errorf("PDF is missing section %q", s.Title)
		}
	}
	for _, s := range []string{"Metric", "MAE", "142.00 EUR", "Generated 2026-03-01."} {
		if !strings.Contains(out, s) {
			t.Errorf("PDF is missing %q", s)
		}
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"pdf", FormatPDF, false},
		{"PDF", FormatPDF, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"html", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
