// Package dates normalizes free-text date expressions against a reference
// "today". It only resolves; whether a date is acceptable (e.g. not in the
// past for out-of-office) is the caller's decision.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const ISO = "2006-01-02"

var inDaysPattern = regexp.MustCompile(`^in (\d+) days?$`)

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// Resolve turns an expression into a calendar date in ref's location.
// Supported: strict YYYY-MM-DD, "today", "tomorrow", "in N days", bare weekday
// names and "next <weekday>" (the next occurrence strictly after ref), "next
// week" (coming Monday), "end of week" (Friday of the current week), "next
// month" (day 1 of the following month). Anything else reports ok=false;
// nothing is ever guessed.
func Resolve(expression string, ref time.Time) (time.Time, bool) {
	expr := strings.ToLower(strings.TrimSpace(expression))
	if expr == "" {
		return time.Time{}, false
	}

	today := Truncate(ref)

	switch expr {
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDate(0, 0, 1), true
	case "next week":
		return NextWeekday(today, time.Monday), true
	case "end of week", "end of the week":
		return endOfWeek(today), true
	case "next month":
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, 1, 0), true
	}

	if m := inDaysPattern.FindStringSubmatch(expr); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		return today.AddDate(0, 0, n), true
	}

	if wd, ok := weekdays[strings.TrimPrefix(expr, "next ")]; ok {
		return NextWeekday(today, wd), true
	}

	return ParseISO(expression, ref.Location())
}

// ParseISO parses a strict YYYY-MM-DD date. Malformed or impossible calendar
// dates are rejected, not corrected.
func ParseISO(s string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(ISO, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Truncate drops the time-of-day component, keeping the location.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NextWeekday returns the next occurrence of wd strictly after ref.
func NextWeekday(ref time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(ref.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return Truncate(ref).AddDate(0, 0, days)
}

// endOfWeek is the Friday of ref's week, or ref itself when ref is a Friday.
// Saturday and Sunday roll forward to the coming Friday.
func endOfWeek(ref time.Time) time.Time {
	days := (int(time.Friday) - int(ref.Weekday()) + 7) % 7
	return Truncate(ref).AddDate(0, 0, days)
}
