package intent

import (
	"context"
	"testing"
	"time"

	contractx "leadline/assistant/contract"
	storex "leadline/assistant/store"
)

var today = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

func extract(t *testing.T, utterance string) contractx.Intent {
	t.Helper()
	intent, err := NewRuleExtractor().Extract(context.Background(), utterance, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return intent
}

func TestRulesAddLead(t *testing.T) {
	t.Parallel()

	intent := extract(t, "Add lead John at Acme, need to send proposal")
	if intent.Kind != contractx.IntentAddLead {
		t.Fatalf("kind = %s", intent.Kind)
	}
	if intent.Name != "John" {
		t.Fatalf("name = %q", intent.Name)
	}
	if intent.Company != "Acme" {
		t.Fatalf("company = %q", intent.Company)
	}
	if intent.NextSteps != "need to send proposal" {
		t.Fatalf("next steps = %q", intent.NextSteps)
	}
}

func TestRulesAddLeadVariants(t *testing.T) {
	t.Parallel()

	cases := []struct {
		utterance    string
		name         string
		company      string
	}{
		{"Add John from Acme Corp, follow up on pricing", "John", "Acme Corp"},
		{"new lead mary poole @ beta industries", "Mary Poole", "Beta Industries"},
		{"Add a lead Sam at Gamma", "Sam", "Gamma"},
	}

	for _, tc := range cases {
		intent := extract(t, tc.utterance)
		if intent.Kind != contractx.IntentAddLead {
			t.Fatalf("%q: kind = %s", tc.utterance, intent.Kind)
		}
		if intent.Name != tc.name || intent.Company != tc.company {
			t.Fatalf("%q: got name=%q company=%q", tc.utterance, intent.Name, intent.Company)
		}
	}
}

func TestRulesAddWithoutSeparatorIsNotAdd(t *testing.T) {
	t.Parallel()

	// "add" with no name/company split cannot be placed cleanly; the
	// utterance falls through the chain and ends up unknown.
	intent := extract(t, "add some notes")
	if intent.Kind == contractx.IntentAddLead {
		t.Fatalf("expected fallthrough, got add_lead: %+v", intent)
	}
}

func TestRulesCompleteLead(t *testing.T) {
	t.Parallel()

	cases := []struct {
		utterance string
		name      string
		status    storex.LeadStatus
	}{
		{"Done with John", "John", ""},
		{"Won John", "John", storex.LeadWon},
		{"Lost the acme deal", "The Acme Deal", storex.LeadLost},
		{"Mark mary complete", "Mary", ""},
	}

	for _, tc := range cases {
		intent := extract(t, tc.utterance)
		if intent.Kind != contractx.IntentCompleteLead {
			t.Fatalf("%q: kind = %s", tc.utterance, intent.Kind)
		}
		if intent.Name != tc.name {
			t.Fatalf("%q: name = %q, want %q", tc.utterance, intent.Name, tc.name)
		}
		if intent.Status != tc.status {
			t.Fatalf("%q: status = %q, want %q", tc.utterance, intent.Status, tc.status)
		}
	}
}

func TestRulesUpdateLead(t *testing.T) {
	t.Parallel()

	cases := []struct {
		utterance string
		name      string
		next      string
	}{
		{"Update John - meeting scheduled", "John", "meeting scheduled"},
		{"john: sent proposal", "John", "sent proposal"},
	}

	for _, tc := range cases {
		intent := extract(t, tc.utterance)
		if intent.Kind != contractx.IntentUpdateLead {
			t.Fatalf("%q: kind = %s", tc.utterance, intent.Kind)
		}
		if intent.Name != tc.name || intent.NextSteps != tc.next {
			t.Fatalf("%q: got name=%q next=%q", tc.utterance, intent.Name, intent.NextSteps)
		}
	}
}

func TestRulesListLeads(t *testing.T) {
	t.Parallel()

	for _, utterance := range []string{"Show my leads", "what leads do I have", "my leads"} {
		intent := extract(t, utterance)
		if intent.Kind != contractx.IntentListLeads {
			t.Fatalf("%q: kind = %s", utterance, intent.Kind)
		}
	}
}

func TestRulesUnknown(t *testing.T) {
	t.Parallel()

	for _, utterance := range []string{"", "hello there", "what's the weather like"} {
		intent := extract(t, utterance)
		if intent.Kind != contractx.IntentUnknown {
			t.Fatalf("%q: kind = %s, want unknown", utterance, intent.Kind)
		}
	}
}

func TestRulesExtractIsIdempotent(t *testing.T) {
	t.Parallel()

	first := extract(t, "gibberish with no meaning")
	second := extract(t, "gibberish with no meaning")
	if first.Kind != contractx.IntentUnknown || second.Kind != contractx.IntentUnknown {
		t.Fatalf("got %s then %s", first.Kind, second.Kind)
	}
}
