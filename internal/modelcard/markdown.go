// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package modelcard

import (
	"fmt"
	"io"
	"strings"
)

// WriteMarkdown writes the card as Markdown.
func (c *Card) WriteMarkdown(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", c.Title)
	for _, s := range c.Sections {
		fmt.Fprintf(&b, "## %s\n\n", s.Title)
		for _, p := range s.Paragraphs {
			b.WriteString(p + "\n\n")
		}
		if len(s.Items) > 0 {
			for _, it := range s.Items {
				fmt.Fprintf(&b, "- **%s:** %s\n", it.Label, it.Value)
			}
			b.WriteString("\n")
		}
		if len(s.List) > 0 {
			for _, l := range s.List {
				b.WriteString("- " + l + "\n")
			}
			b.WriteString("\n")
		}
		if len(s.Metrics) > 0 {
			b.WriteString("| Metric | Held-out value |\n|---|---|\n")
			for _, m := range s.Metrics {
				fmt.Fprintf(&b, "| %s | %s |\n", m.Label, m.Value)
			}
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(&b, "_%s_\n", c.Footer())

	_, err := io.WriteString(w, b.String())
	return err
}
