package shared

import "time"

// ParseDate reads from/to style query filters. Date-only values (2026-01-31)
// and full RFC3339 timestamps are both accepted; date-only values resolve to
// midnight UTC.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse(time.DateOnly, value)
}
