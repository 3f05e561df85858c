package timeutil

import (
	"fmt"
	"time"
)

// ParseClock parses a wall-clock string in "15:04" or "15:04:05" format
// and returns the hour, minute and second components.
func ParseClock(s string) (hour, min, sec int, err error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid clock value %q: %w", s, err)
		}
	}
	return t.Hour(), t.Minute(), t.Second(), nil
}

// At returns the given date with its wall-clock time replaced by the clock string.
func At(date time.Time, clock string) (time.Time, error) {
	h, m, s, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, s, 0, date.Location()), nil
}

// DayBounds returns the [start, end) interval covering the calendar day of t
// in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// WeekBounds returns the [start, end) interval covering the Monday-based week of t.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	dayStart, _ := DayBounds(t)
	weekday := int(dayStart.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the preceding Monday-based week
	}
	start := dayStart.AddDate(0, 0, -(weekday - 1))
	return start, start.AddDate(0, 0, 7)
}

// SlotsBetween generates slot start times on the calendar day of date,
// from the open clock up to (but excluding) the close clock, stepping by step.
func SlotsBetween(date time.Time, openClock, closeClock string, step time.Duration) ([]time.Time, error) {
	open, err := At(date, openClock)
	if err != nil {
		return nil, err
	}
	close, err := At(date, closeClock)
	if err != nil {
		return nil, err
	}
	if !open.Before(close) {
		return nil, fmt.Errorf("open time %s is not before close time %s", openClock, closeClock)
	}

	var slots []time.Time
	for t := open; t.Before(close); t = t.Add(step) {
		slots = append(slots, t)
	}
	return slots, nil
}

// WithinBusinessHours reports whether the interval [start, end) falls entirely
// inside the open/close clock window on start's calendar day.
func WithinBusinessHours(start, end time.Time, openClock, closeClock string) (bool, error) {
	open, err := At(start, openClock)
	if err != nil {
		return false, err
	}
	close, err := At(start, closeClock)
	if err != nil {
		return false, err
	}
	return !start.Before(open) && !end.After(close), nil
}

// InLocation converts t into the named IANA timezone. An empty name means UTC.
func InLocation(t time.Time, tz string) (time.Time, error) {
	if tz == "" {
		return t.UTC(), nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return t.In(loc), nil
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
