package activity

import (
	"fmt"
	"time"
)

// AbsoluteDateLayout is used once an event is a week old or more.
const AbsoluteDateLayout = "Jan 2, 2006"

// DayKeyLayout is the layout of daily bucket keys.
const DayKeyLayout = "2006-01-02"

// RelativeTime formats ts relative to now. Units are truncated, never
// rounded. Timestamps after now read as "Just now".
func RelativeTime(ts, now time.Time) string {
	return RelativeTimeIn(ts, now, time.UTC)
}

// RelativeTimeIn is RelativeTime with the absolute date rendered in loc.
func RelativeTimeIn(ts, now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	d := now.Sub(ts)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int64(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int64(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int64(d/(24*time.Hour)))
	default:
		return ts.In(loc).Format(AbsoluteDateLayout)
	}
}

// DayBucketKey returns the calendar day of ts in loc as YYYY-MM-DD.
func DayBucketKey(ts time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return ts.In(loc).Format(DayKeyLayout)
}

// startOfDay returns midnight of ts's calendar day in loc.
func startOfDay(ts time.Time, loc *time.Location) time.Time {
	t := ts.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
