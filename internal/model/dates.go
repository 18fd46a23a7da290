package model

import (
	"math"
	"time"
)

// DateLayout is the calendar-date format used for due dates, activity dates
// and snapshot week bounds.
const DateLayout = "2006-01-02"

// DateOf returns the local calendar date of t.
func DateOf(t time.Time) string {
	return t.Local().Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// AddDays shifts a calendar date. Invalid input is returned unchanged.
func AddDays(date string, n int) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(DateLayout)
}

// StartOfDay returns local midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// DaysBetween counts calendar days from a to b (b-a).
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDate(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDate(b)
	if err != nil {
		return 0, err
	}
	// Round to absorb DST shifts.
	return int(math.Round(tb.Sub(ta).Hours() / 24)), nil
}

// InRange reports whether date falls within [from, to]. Dates compare
// lexically because of the fixed-width layout.
func InRange(date, from, to string) bool {
	return date != "" && date >= from && date <= to
}

type Urgency string

const (
	UrgencyNone     Urgency = ""
	UrgencyOverdue  Urgency = "overdue"
	UrgencyToday    Urgency = "today"
	UrgencyThisWeek Urgency = "this-week"
	UrgencyFuture   Urgency = "future"
)

// DueUrgency classifies a due date relative to today.
func DueUrgency(dueDate, today string) Urgency {
	diff, err := DaysBetween(today, dueDate)
	if dueDate == "" || err != nil {
		return UrgencyNone
	}
	switch {
	case diff < 0:
		return UrgencyOverdue
	case diff == 0:
		return UrgencyToday
	case diff <= 7:
		return UrgencyThisWeek
	}
	return UrgencyFuture
}

// DateGroup buckets a past date into the feed headings Today, Yesterday,
// This Week, Last Week and This Month. Older dates render as "Jan 2, 2006".
func DateGroup(date, today string) string {
	diff, err := DaysBetween(date, today)
	if err != nil {
		return "Unknown"
	}
	switch {
	case diff == 0:
		return "Today"
	case diff == 1:
		return "Yesterday"
	case diff < 7:
		return "This Week"
	case diff < 14:
		return "Last Week"
	case diff < 30:
		return "This Month"
	}
	t, _ := ParseDate(date)
	return t.Format("Jan 2, 2006")
}
