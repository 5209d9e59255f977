// Package timerange provides minute-granularity time-of-day arithmetic used
// by the schedule conflict checker and the active-session resolver.
package timerange

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a clock time with minute precision, independent of any date
// or timezone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Parse parses a "HH:MM" (or "H:MM") string into a TimeOfDay.
func Parse(s string) (TimeOfDay, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", s)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time %q out of range", s)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// FromTime extracts the wall-clock component of an instant.
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// Minutes returns the time as minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// String returns the zero-padded 24-hour form, e.g. "09:00".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Format12h returns the 12-hour clock form, e.g. "9:00 AM". Hours 0 and 12
// both display as 12.
func (t TimeOfDay) Format12h() string {
	ampm := "AM"
	if t.Hour >= 12 {
		ampm = "PM"
	}

	hour := t.Hour % 12
	if hour == 0 {
		hour = 12
	}

	return fmt.Sprintf("%d:%02d %s", hour, t.Minute, ampm)
}

// MarshalJSON encodes the time as a "HH:MM" string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a "HH:MM" string.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) intersect. Ranges that merely touch at an endpoint
// (aEnd == bStart) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart.Minutes() < bEnd.Minutes() && aEnd.Minutes() > bStart.Minutes()
}

// Contains reports whether t falls within [start, end] with inclusive
// boundaries. This is the active-window rule and is deliberately different
// from the half-open rule used by Overlaps.
func Contains(start, end, t TimeOfDay) bool {
	m := t.Minutes()
	return start.Minutes() <= m && m <= end.Minutes()
}

// Label formats a range as the session label used to key attendance
// records, e.g. "09:00 - 10:30".
func Label(start, end TimeOfDay) string {
	return start.String() + " - " + end.String()
}

// FormatRange12h formats a range for display, e.g. "9:00 AM - 10:30 AM".
func FormatRange12h(start, end TimeOfDay) string {
	return start.Format12h() + " - " + end.Format12h()
}
