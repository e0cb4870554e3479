package web

import "time"

const invalidDate = "Invalid Date"

func parseTimestamp(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// FormatDate renders an ISO-8601 timestamp as a short UTC date.
func FormatDate(s string) string {
	t, ok := parseTimestamp(s)
	if !ok {
		return invalidDate
	}
	return t.Format("1/2/2006")
}

func FormatDateTime(s string) string {
	t, ok := parseTimestamp(s)
	if !ok {
		return invalidDate
	}
	return t.Format("1/2/2006 at 3:04:05 PM")
}
