package util

import (
	"time"
)

// QuotaDateFormat is the ISO day format used by the quota history endpoint.
const QuotaDateFormat = "2006-01-02"

// ParseQuotaDate parses a quota date string. Tries the plain ISO day form
// first, then RFC3339 for payloads that carry a full timestamp.
// Returns (t, true) if any worked; the result is day-granular in UTC.
func ParseQuotaDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(QuotaDateFormat, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DayOf(t), true
	}
	return time.Time{}, false
}

// DayOf truncates a timestamp to day granularity in UTC.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatQuotaDate renders a date in the ISO day form.
func FormatQuotaDate(t time.Time) string {
	return t.UTC().Format(QuotaDateFormat)
}
