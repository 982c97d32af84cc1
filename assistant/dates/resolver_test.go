package dates

import (
	"testing"
	"time"
)

// Monday, 15 January 2024.
var refMonday = time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveRelative(t *testing.T) {
	t.Parallel()

	cases := []struct {
		expr string
		want time.Time
	}{
		{"today", day(2024, time.January, 15)},
		{"tomorrow", day(2024, time.January, 16)},
		{"in 3 days", day(2024, time.January, 18)},
		{"in 1 day", day(2024, time.January, 16)},
		{"next week", day(2024, time.January, 22)},
		{"end of week", day(2024, time.January, 19)},
		{"next month", day(2024, time.February, 1)},
		// Weekday names resolve strictly after the reference day: asking for
		// Monday on a Monday gives the following week.
		{"monday", day(2024, time.January, 22)},
		{"next monday", day(2024, time.January, 22)},
		{"friday", day(2024, time.January, 19)},
		{"Tuesday", day(2024, time.January, 16)},
	}

	for _, tc := range cases {
		got, ok := Resolve(tc.expr, refMonday)
		if !ok {
			t.Fatalf("Resolve(%q) not ok", tc.expr)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("Resolve(%q) = %s, want %s", tc.expr, got.Format(ISO), tc.want.Format(ISO))
		}
	}
}

func TestResolveAbsolute(t *testing.T) {
	t.Parallel()

	got, ok := Resolve("2024-03-01", refMonday)
	if !ok {
		t.Fatal("expected absolute date to resolve")
	}
	if got.Format(ISO) != "2024-03-01" {
		t.Fatalf("got %s", got.Format(ISO))
	}
}

func TestResolveRejectsMalformed(t *testing.T) {
	t.Parallel()

	for _, expr := range []string{
		"",
		"someday",
		"in many days",
		"2024-13-01",
		"2024-02-30",
		"24-01-15",
		"2024/01/15",
		"january 15",
	} {
		if _, ok := Resolve(expr, refMonday); ok {
			t.Fatalf("Resolve(%q) unexpectedly resolved", expr)
		}
	}
}

func TestResolveNeverReturnsPast(t *testing.T) {
	t.Parallel()

	relative := []string{"tomorrow", "in 2 days", "next week", "end of week", "next month", "sunday", "next friday"}
	today := Truncate(refMonday)
	for _, expr := range relative {
		got, ok := Resolve(expr, refMonday)
		if !ok {
			t.Fatalf("Resolve(%q) not ok", expr)
		}
		if got.Before(today) {
			t.Fatalf("Resolve(%q) = %s is before today", expr, got.Format(ISO))
		}
	}
}

func TestEndOfWeekOnFriday(t *testing.T) {
	t.Parallel()

	friday := day(2024, time.January, 19)
	got, ok := Resolve("end of week", friday)
	if !ok || !got.Equal(friday) {
		t.Fatalf("got %v ok=%v, want same Friday", got, ok)
	}
}

func TestNextWeekdayIsStrictlyAfter(t *testing.T) {
	t.Parallel()

	got := NextWeekday(refMonday, time.Monday)
	if !got.Equal(day(2024, time.January, 22)) {
		t.Fatalf("got %s", got.Format(ISO))
	}
}
