// Normalize the date text the job boards publish into comparable dates.
// Ported behavior: relative "N days/weeks ago" phrases and a fixed list of
// absolute formats, tried in order.

package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var numberRegex = regexp.MustCompile(`(\d+)`)

// Absolute formats tried in order; the first one that parses wins.
// dd/mm vs mm/dd ambiguity is inherent in the inputs and resolved only by
// format order, same as the sites themselves.
var absoluteFormats = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"2 January 2006",
	"2 Jan 2006",
}

// Parse converts a raw date string to a calendar date. The second return is
// false when the text carries no usable date, which is a normal state for
// these sites, not an error. now is injected so relative phrases stay
// deterministic under test.
func Parse(text string, now time.Time) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	lower := strings.ToLower(text)
	if lower == "not specified" || lower == "unknown" {
		return time.Time{}, false
	}

	if strings.Contains(lower, "ago") {
		switch {
		case strings.Contains(lower, "day"):
			if n, ok := leadingNumber(text); ok {
				return now.AddDate(0, 0, -n), true
			}
		case strings.Contains(lower, "week"):
			if n, ok := leadingNumber(text); ok {
				return now.AddDate(0, 0, -n*7), true
			}
		case strings.Contains(lower, "hour"):
			return now, true
		}
	}

	for _, format := range absoluteFormats {
		if t, err := time.Parse(format, text); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func leadingNumber(text string) (int, bool) {
	match := numberRegex.FindString(text)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Day truncates a time to its calendar date in the time's location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
