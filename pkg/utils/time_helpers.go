package utils

import (
	"fmt"
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDateParam accepts RFC3339 or a bare date. A bare date used as a range end
// is stretched to the last nanosecond of that day so the range stays inclusive.
func ParseDateParam(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected RFC3339 or YYYY-MM-DD", value)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// FloorMinutes returns the whole minutes between start and end, rounded down.
func FloorMinutes(start, end time.Time) int {
	return int(math.Floor(end.Sub(start).Seconds() / 60))
}
