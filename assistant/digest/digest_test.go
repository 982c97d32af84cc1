package digest

import (
	"strings"
	"testing"
	"time"

	storex "leadline/assistant/store"
)

var user = &storex.User{ID: 1, Name: "Dana"}

func lead(name, company, next string) storex.Lead {
	return storex.Lead{Name: name, Company: company, NextSteps: next, Status: storex.LeadActive}
}

func TestMorningEmptyDayIsCelebratory(t *testing.T) {
	t.Parallel()

	got := Morning(user, nil, nil)
	if !strings.Contains(got, "No follow-ups scheduled for today") {
		t.Fatalf("got %q", got)
	}
	if strings.Contains(got, "OVERDUE") || strings.Contains(got, "TODAY") {
		t.Fatalf("empty day must not list sections: %q", got)
	}
}

func TestMorningOmitsEmptySections(t *testing.T) {
	t.Parallel()

	got := Morning(user, nil, []storex.Lead{lead("John", "Acme", "send proposal")})
	if strings.Contains(got, "OVERDUE") {
		t.Fatalf("overdue section should be omitted: %q", got)
	}
	if !strings.Contains(got, "TODAY (1)") || !strings.Contains(got, "John (Acme) - send proposal") {
		t.Fatalf("got %q", got)
	}

	got = Morning(user, []storex.Lead{lead("Mary", "Beta", "call")}, nil)
	if !strings.Contains(got, "OVERDUE (1)") || strings.Contains(got, "TODAY") {
		t.Fatalf("got %q", got)
	}
}

func TestEveningListsPending(t *testing.T) {
	t.Parallel()

	pending := []storex.Lead{lead("John", "Acme", "send proposal"), lead("Mary", "Beta", "call")}
	got := Evening(user, pending)
	if !strings.Contains(got, "Still pending (2)") {
		t.Fatalf("got %q", got)
	}
	if !strings.Contains(got, "Done with [name]") {
		t.Fatalf("missing usage hint: %q", got)
	}
}

func TestWeeklyIncludesOOOBanner(t *testing.T) {
	t.Parallel()

	until := time.Date(2024, time.January, 26, 0, 0, 0, 0, time.UTC)
	ooo := &storex.User{ID: 2, Name: "Sam", OOOUntil: &until}

	got := Weekly(ooo, nil, nil)
	if !strings.Contains(got, "OOO until 2024-01-26") {
		t.Fatalf("got %q", got)
	}
	if !strings.Contains(got, "No follow-ups scheduled for this week.") {
		t.Fatalf("got %q", got)
	}
}

func TestWeeklyListsWeekAndOverdue(t *testing.T) {
	t.Parallel()

	week := []storex.Lead{lead("John", "Acme", "demo")}
	overdue := []storex.Lead{lead("Mary", "Beta", "call")}
	got := Weekly(user, week, overdue)
	if !strings.Contains(got, "THIS WEEK (1)") || !strings.Contains(got, "OVERDUE (1)") {
		t.Fatalf("got %q", got)
	}
}
