// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package modelcard

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// A4 portrait, millimetres.
const (
	pageMargin  = 20.0
	bodyLine    = 5.0
	metricLabel = 50.0
	metricValue = 50.0
)

// WritePDF writes the card as an A4 PDF document.
func (c *Card) WritePDF(w io.Writer) error {
	return c.writePDF(w, true)
}

func (c *Card) writePDF(w io.Writer, compress bool) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetTitle(c.Title, true)
	pdf.SetCreator("rentctl", false)
	pdf.SetCreationDate(c.Generated)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)

	// The core fonts are cp1252; this maps the card's "²", "€" and dashes.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	footer := tr(c.Footer())
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("%s  Page %d", footer, pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, tr(c.Title), "", "L", false)
	pdf.Ln(4)

	for _, s := range c.Sections {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.MultiCell(0, 7, tr(s.Title), "", "L", false)
		pdf.Ln(2)

		pdf.SetFont("Helvetica", "", 10)
		for _, p := range s.Paragraphs {
			pdf.MultiCell(0, bodyLine, tr(p), "", "L", false)
			pdf.Ln(2)
		}
		for _, it := range s.Items {
			pdf.MultiCell(0, bodyLine, tr("• "+it.Label+": "+it.Value), "", "L", false)
		}
		for _, l := range s.List {
			pdf.MultiCell(0, bodyLine, tr("• "+l), "", "L", false)
		}
		if len(s.Metrics) > 0 {
			writeMetricsTable(pdf, tr, s.Metrics)
		}
		pdf.Ln(4)
	}

	return pdf.Output(w)
}

func writeMetricsTable(pdf *fpdf.Fpdf, tr func(string) string, rows []Item) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(metricLabel, 6, "Metric", "1", 0, "L", true, 0, "")
	pdf.CellFormat(metricValue, 6, "Held-out value", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range rows {
		pdf.CellFormat(metricLabel, 6, tr(r.Label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(metricValue, 6, tr(r.Value), "1", 1, "R", false, 0, "")
	}
}
