package utils

import (
	"fmt"
	"time"
)

// ParseDateOrTime accepts an RFC3339 timestamp or a plain 2006-01-02 date (UTC midnight).
// endOfDay moves a plain date to its last nanosecond so it can close a range.
func ParseDateOrTime(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected RFC3339 or YYYY-MM-DD", s)
	}
	if endOfDay {
		d = d.Add(24*time.Hour - time.Nanosecond)
	}
	return d, nil
}
