package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// slashDatePattern matches M/D/YYYY dates, optionally followed by a time
// component which is discarded.
var slashDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})(?:[ T].*)?$`)

// timestampLayouts are tried in order for values that carry a time component.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseReportDate converts the date column of a sales row into a time.Time.
//
// Accepted forms, in order of precedence:
//   - values containing a time separator parse as full timestamps
//   - M/D/YYYY (optional trailing time discarded) parses as local-time midnight
//   - YYYY-MM-DD parses as midnight UTC
//
// The local/UTC split between the two date-only forms is deliberate and
// matched by existing stored data; do not normalize it.
func ParseReportDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}

	if strings.ContainsAny(value, "T:") {
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t, nil
			}
		}
	}

	if m := slashDatePattern.FindStringSubmatch(value); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, fmt.Errorf("invalid calendar date %q", value)
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), nil
	}

	// time.Parse with a date-only layout yields midnight UTC.
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date format %q", value)
}
