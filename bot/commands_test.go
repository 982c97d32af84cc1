package bot

import (
	"testing"
	"time"
)

func TestParseAddArgs(t *testing.T) {
	t.Parallel()

	args, usage := parseAddArgs("John | Acme Corp | Send proposal | 2024-01-15", time.UTC)
	if usage != "" {
		t.Fatalf("unexpected usage message: %q", usage)
	}
	if args.name != "John" || args.company != "Acme Corp" || args.nextSteps != "Send proposal" {
		t.Fatalf("got %+v", args)
	}
	if args.followUp == nil || args.followUp.Format("2006-01-02") != "2024-01-15" {
		t.Fatalf("follow up = %v", args.followUp)
	}
}

func TestParseAddArgsDateOptional(t *testing.T) {
	t.Parallel()

	args, usage := parseAddArgs("John | Acme | Send proposal", time.UTC)
	if usage != "" {
		t.Fatalf("unexpected usage message: %q", usage)
	}
	if args.followUp != nil {
		t.Fatalf("follow up should be nil, got %v", args.followUp)
	}
}

func TestParseAddArgsRejectsMalformed(t *testing.T) {
	t.Parallel()

	if _, usage := parseAddArgs("John | Acme", time.UTC); usage != addUsage {
		t.Fatalf("expected usage message, got %q", usage)
	}
	if _, usage := parseAddArgs("", time.UTC); usage != addUsage {
		t.Fatalf("expected usage message, got %q", usage)
	}
	if _, usage := parseAddArgs("John | Acme | Call | 15-01-2024", time.UTC); usage != "Invalid date format. Use YYYY-MM-DD." {
		t.Fatalf("expected date message, got %q", usage)
	}
}

func TestParseUpdateArgs(t *testing.T) {
	t.Parallel()

	args, usage := parseUpdateArgs("3 next_steps Meeting scheduled for Thursday", time.UTC)
	if usage != "" {
		t.Fatalf("unexpected usage message: %q", usage)
	}
	if args.leadID != 3 {
		t.Fatalf("lead id = %d", args.leadID)
	}
	if args.patch.NextSteps == nil || *args.patch.NextSteps != "Meeting scheduled for Thursday" {
		t.Fatalf("patch = %+v", args.patch)
	}
	if args.patch.FollowUpDate != nil {
		t.Fatalf("follow up must be untouched")
	}
}

func TestParseUpdateArgsFollowUp(t *testing.T) {
	t.Parallel()

	args, usage := parseUpdateArgs("3 follow_up 2024-02-01", time.UTC)
	if usage != "" {
		t.Fatalf("unexpected usage message: %q", usage)
	}
	if args.patch.FollowUpDate == nil || args.patch.FollowUpDate.Format("2006-01-02") != "2024-02-01" {
		t.Fatalf("patch = %+v", args.patch)
	}
}

func TestParseUpdateArgsRejectsMalformed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
	}{
		{"", updateUsage},
		{"3 next_steps", updateUsage},
		{"abc next_steps call", "Invalid lead ID."},
		{"3 budget 5000", "Unknown field. Use: next_steps, follow_up"},
		{"3 follow_up soon", "Invalid date. Use YYYY-MM-DD."},
	}
	for _, tc := range cases {
		if _, usage := parseUpdateArgs(tc.raw, time.UTC); usage != tc.want {
			t.Fatalf("%q: got %q, want %q", tc.raw, usage, tc.want)
		}
	}
}

func TestOOOHint(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC) // Monday

	got := oooHint("I'm out until next friday", today)
	if got != "To set out-of-office, use: /ooo 2024-01-19" {
		t.Fatalf("got %q", got)
	}

	got = oooHint("ooo until whenever", today)
	if got == "" || got == "To set out-of-office, use: /ooo YYYY-MM-DD" {
		t.Fatalf("expected echo of unresolved expression, got %q", got)
	}

	if got := oooHint("tell me a joke", today); got != "" {
		t.Fatalf("expected no hint, got %q", got)
	}
}
