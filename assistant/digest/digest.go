// Package digest formats scheduled reminder summaries. It only composes
// text; whether a digest is sent at all is the scheduler's decision.
package digest

import (
	"fmt"
	"strings"

	datesx "leadline/assistant/dates"
	storex "leadline/assistant/store"
)

// Morning lists overdue leads, then leads due today. Either section is
// omitted when empty; a fully empty day gets a short all-clear instead.
func Morning(user *storex.User, overdue, dueToday []storex.Lead) string {
	if len(overdue) == 0 && len(dueToday) == 0 {
		return fmt.Sprintf("Good morning, %s! No follow-ups scheduled for today. Have a great day!", user.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Good morning, %s! Here's your day:\n\n", user.Name)
	if len(overdue) > 0 {
		fmt.Fprintf(&b, "⚠️ OVERDUE (%d):\n%s\n\n", len(overdue), formatLeads(overdue))
	}
	if len(dueToday) > 0 {
		fmt.Fprintf(&b, "📋 TODAY (%d):\n%s", len(dueToday), formatLeads(dueToday))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Evening is the end-of-day check-in over still-pending leads (due today plus
// overdue). Callers should skip sending when pending is empty.
func Evening(user *storex.User, pending []storex.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "EOD check-in, %s!\n\n", user.Name)
	fmt.Fprintf(&b, "📌 Still pending (%d):\n%s\n\n", len(pending), formatLeads(pending))
	b.WriteString("Update with: 'Done with [name]' or 'Update [name] - [new status]'")
	return b.String()
}

// Weekly previews the coming week. It is informational and always sent, OOO
// users included, with a banner when an out-of-office date is set.
func Weekly(user *storex.User, week, overdue []storex.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Week ahead preview, %s!\n\n", user.Name)

	if user.OOOUntil != nil {
		fmt.Fprintf(&b, "🏖️ You're marked OOO until %s\n\n", user.OOOUntil.Format(datesx.ISO))
	}
	if len(overdue) > 0 {
		fmt.Fprintf(&b, "⚠️ OVERDUE (%d):\n%s\n\n", len(overdue), formatLeads(overdue))
	}
	if len(week) > 0 {
		fmt.Fprintf(&b, "📅 THIS WEEK (%d):\n%s", len(week), formatLeads(week))
	} else {
		b.WriteString("No follow-ups scheduled for this week.")
	}
	return b.String()
}

func formatLeads(leads []storex.Lead) string {
	if len(leads) == 0 {
		return "None"
	}
	lines := make([]string, 0, len(leads))
	for _, lead := range leads {
		lines = append(lines, fmt.Sprintf("  • %s (%s) - %s", lead.Name, lead.Company, lead.NextSteps))
	}
	return strings.Join(lines, "\n")
}
