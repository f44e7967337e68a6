// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

// Package modelcard builds the model card for an artifact bundle from its
// model metadata and feature schema, and renders it as PDF or Markdown.
package modelcard

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/rentpredict/internal/artifacts"
	"github.com/tomtom215/rentpredict/internal/features"
)

const (
	defaultName    = "Rent Prediction"
	defaultVersion = "v1"
)

// Format selects the card's output encoding.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "md"
)

// ParseFormat accepts "pdf", "md" or "markdown".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return FormatPDF, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("modelcard: unknown format %q (want pdf or md)", s)
	}
}

// Card is a model card independent of its output format.
type Card struct {
	Title     string
	Sections  []Section
	Generated time.Time
}

// Section is one numbered heading. Empty parts are not rendered.
type Section struct {
	Title      string
	Paragraphs []string
	Items      []Item   // labelled bullets
	List       []string // plain bullets
	Metrics    []Item   // two-column table
}

// Item is a label and its value.
type Item struct {
	Label string
	Value string
}

// Footer is the line printed at the end of every rendering.
func (c *Card) Footer() string {
	return "Generated " + c.Generated.UTC().Format("2006-01-02") + "."
}

// Build assembles the card. Sections without content are left out and the
// remaining ones are numbered in order.
func Build(meta *artifacts.ModelMeta, schema features.Schema, generated time.Time) (*Card, error) {
	if meta == nil {
		return nil, errors.New("modelcard: metadata is nil")
	}

	c := &Card{
		Title:     fmt.Sprintf("Model Card: %s (%s)", or(meta.ModelName, defaultName), or(meta.ModelVersion, defaultVersion)),
		Generated: generated,
	}

	c.add(Section{Title: "Model Overview", Paragraphs: []string{overview(meta)}})

	if meta.IntendedUse != "" {
		c.add(Section{Title: "Intended Use", Paragraphs: []string{meta.IntendedUse}})
	}

	c.add(Section{Title: "Model Details", Items: items(
		Item{"Algorithm", meta.Algorithm},
		Item{"Numeric features", strings.Join(schema.NumCols, ", ")},
		Item{"Categorical features", strings.Join(schema.CatCols, ", ")},
		Item{"Frameworks", strings.Join(meta.Frameworks, ", ")},
		Item{"Data split", meta.Split},
		Item{"Trained at", meta.TrainedAt},
	)})

	perf := Section{Title: "Performance", Metrics: metrics(meta.Metrics, meta.Currency)}
	if len(perf.Metrics) == 0 {
		perf.Paragraphs = []string{"No evaluation metrics were recorded."}
	}
	c.add(perf)

	c.add(Section{Title: "Uplift Factor", Paragraphs: []string{fmt.Sprintf(
		"The metadata records an uplift factor of %s for rent growth since the data period. "+
			"It is not applied to served predictions.",
		strconv.FormatFloat(meta.Uplift(), 'f', 2, 64))}})

	if len(meta.Limitations) > 0 {
		c.add(Section{Title: "Limitations", List: meta.Limitations})
	}

	c.add(Section{Title: "Ethical Considerations", Paragraphs: []string{
		"Predictions must not be used for real rental pricing decisions or credit-related purposes.",
	}})

	if meta.Author != "" {
		c.add(Section{Title: "Author", Paragraphs: []string{meta.Author}})
	}

	return c, nil
}

// Render builds the card and writes it to w in the given format.
func Render(w io.Writer, format Format, meta *artifacts.ModelMeta, schema features.Schema, generated time.Time) error {
	c, err := Build(meta, schema, generated)
	if err != nil {
		return err
	}
	switch format {
	case FormatPDF:
		return c.WritePDF(w)
	case FormatMarkdown:
		return c.WriteMarkdown(w)
	default:
		return fmt.Errorf("modelcard: unknown format %q", format)
	}
}

func (c *Card) add(s Section) {
	s.Title = strconv.Itoa(len(c.Sections)+1) + ". " + s.Title
	c.Sections = append(c.Sections, s)
}

func overview(meta *artifacts.ModelMeta) string {
	var b strings.Builder
	fmt.Fprintf(&b, "This model predicts %s", or(meta.Target, "monthly rent"))
	if meta.Currency != "" {
		fmt.Fprintf(&b, " (%s)", meta.Currency)
	}
	b.WriteString(" for residential listings.")
	if meta.Dataset != "" {
		fmt.Fprintf(&b, " It was trained on %s", meta.Dataset)
		if meta.DataPeriod != "" {
			fmt.Fprintf(&b, " covering %s", meta.DataPeriod)
		}
		b.WriteString(".")
	}
	return b.String()
}

func metrics(m *artifacts.EvalMetrics, currency string) []Item {
	if m == nil {
		return nil
	}
	unit := ""
	if currency != "" {
		unit = " " + currency
	}
	var out []Item
	if m.R2 != nil {
		out = append(out, Item{"R²", strconv.FormatFloat(*m.R2, 'f', 3, 64)})
	}
	if m.MAE != nil {
		out = append(out, Item{"MAE", strconv.FormatFloat(*m.MAE, 'f', 2, 64) + unit})
	}
	if m.RMSE != nil {
		out = append(out, Item{"RMSE", strconv.FormatFloat(*m.RMSE, 'f', 2, 64) + unit})
	}
	return out
}

// items drops entries with an empty value.
func items(in ...Item) []Item {
	out := in[:0]
	for _, it := range in {
		if it.Value != "" {
			out = append(out, it)
		}
	}
	return out
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
