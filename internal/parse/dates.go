package parse

import (
	"regexp"
	"strings"
	"time"
)

// Date handling is calendar-date only: parsed values are normalized to UTC
// midnight and compared as dates, never timestamps.

var dateLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
	"01-02-2006",
	"January 2006", // month-year only, day defaults to 1
}

var (
	// "this 5th day of June, 2025" legal long form
	reDayOfForm = regexp.MustCompile(`(?i)\b(?:this\s+)?(\d{1,2})(?:st|nd|rd|th)?\s+day\s+of\s+([A-Za-z]+),?\s+(\d{4})\b`)
	// generic date-like tokens: "June 5, 2025", "6/5/2025", "2025-06-05"
	reDateToken = regexp.MustCompile(`(?i)\b(?:[A-Za-z]{3,9}\.?\s+\d{1,2},?\s+\d{4}|\d{1,2}[/-]\d{1,2}[/-]\d{4}|\d{4}-\d{2}-\d{2})\b`)
)

// normalizeDate truncates to UTC midnight.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseDateToken parses one date-like token. Returns nil when the token does
// not parse; unparsable dates are dropped, never an error.
func parseDateToken(tok string) *time.Time {
	tok = strings.TrimSpace(strings.ReplaceAll(tok, ".", ""))
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, tok); err == nil {
			d := normalizeDate(t)
			return &d
		}
	}
	return nil
}

// findDate returns the first parsable date in the span, preferring the legal
// "Nth day of Month, Year" long form over bare tokens.
func findDate(span string) *time.Time {
	if m := reDayOfForm.FindStringSubmatch(span); m != nil {
		rebuilt := m[2] + " " + m[1] + ", " + m[3]
		if d := parseDateToken(rebuilt); d != nil {
			return d
		}
	}
	for _, tok := range reDateToken.FindAllString(span, -1) {
		if d := parseDateToken(tok); d != nil {
			return d
		}
	}
	return nil
}
