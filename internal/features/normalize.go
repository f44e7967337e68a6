// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package features

import (
	"regexp"
	"strings"
)

// pc4Pattern matches the first run of four ASCII digits. A longer digit run
// yields its first four digits ("35111" -> "3511"), as the training
// pipeline extracted them.
var pc4Pattern = regexp.MustCompile(`[0-9]{4}`)

// Normalize trims and lowercases every categorical field and extracts the
// postal prefix. Numeric fields pass through unchanged.
func Normalize(in Listing) NormalizedRow {
	pc4, ok := ExtractPC4(in.PC4)

	return NormalizedRow{
		AreaSqm:   in.AreaSqm,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,

		City:   normalizeCategory(in.City),
		PC4:    pc4,
		HasPC4: ok,

		PropertyType:  normalizeCategory(in.PropertyType),
		Furnish:       normalizeCategory(in.Furnish),
		Internet:      normalizeCategory(in.Internet),
		Kitchen:       normalizeCategory(in.Kitchen),
		Shower:        normalizeCategory(in.Shower),
		Toilet:        normalizeCategory(in.Toilet),
		Living:        normalizeCategory(in.Living),
		SmokingInside: normalizeCategory(in.SmokingInside),
		Pets:          normalizeCategory(in.Pets),
	}
}

// ExtractPC4 returns the first four consecutive digits of a free-form
// postal code. The second result is false when there are none; that is a
// normal case handled by the prior fallback chain, not an error.
//
//	ExtractPC4("3511 AB") // "3511", true
//	ExtractPC4("unknown") // "", false
func ExtractPC4(raw string) (string, bool) {
	m := pc4Pattern.FindString(raw)
	if m == "" {
		return "", false
	}
	return m, true
}

// normalizeCategory trims surrounding whitespace and lowercases.
// strings.ToLower does not depend on the process locale.
func normalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
