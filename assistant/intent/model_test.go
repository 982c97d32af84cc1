package intent

import (
	"testing"
	"time"

	contractx "leadline/assistant/contract"
	storex "leadline/assistant/store"
)

func TestDecodeIntentWellFormed(t *testing.T) {
	t.Parallel()

	raw := `{"action":"add_lead","name":"John","company":"Acme","next_steps":"send proposal","follow_up_date":"2024-01-16","status":null}`
	intent := decodeIntent(raw, time.UTC)

	if intent.Kind != contractx.IntentAddLead {
		t.Fatalf("kind = %s", intent.Kind)
	}
	if intent.FollowUp == nil || intent.FollowUp.Format("2006-01-02") != "2024-01-16" {
		t.Fatalf("follow up = %v", intent.FollowUp)
	}
}

func TestDecodeIntentStripsCodeFences(t *testing.T) {
	t.Parallel()

	raw := "```json\n{\"action\":\"list_leads\"}\n```"
	intent := decodeIntent(raw, time.UTC)
	if intent.Kind != contractx.IntentListLeads {
		t.Fatalf("kind = %s", intent.Kind)
	}
}

func TestDecodeIntentMalformedJSON(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "not json", `{"action":`, `[1,2,3]`} {
		intent := decodeIntent(raw, time.UTC)
		if intent.Kind != contractx.IntentUnknown {
			t.Fatalf("%q: kind = %s, want unknown", raw, intent.Kind)
		}
	}
}

func TestDecodeIntentUnrecognizedAction(t *testing.T) {
	t.Parallel()

	raw := `{"action":"delete_everything","name":"John"}`
	intent := decodeIntent(raw, time.UTC)
	if intent.Kind != contractx.IntentUnknown {
		t.Fatalf("kind = %s, want unknown", intent.Kind)
	}
}

func TestDecodeIntentDiscardsMalformedDate(t *testing.T) {
	t.Parallel()

	for _, date := range []string{"tomorrow", "16/01/2024", "2024-02-30", "null"} {
		raw := `{"action":"update_lead","name":"John","next_steps":"call","follow_up_date":"` + date + `"}`
		intent := decodeIntent(raw, time.UTC)
		if intent.Kind != contractx.IntentUpdateLead {
			t.Fatalf("kind = %s", intent.Kind)
		}
		if intent.FollowUp != nil {
			t.Fatalf("date %q: follow up should have been discarded, got %v", date, intent.FollowUp)
		}
	}
}

func TestDecodeIntentNormalizesStatus(t *testing.T) {
	t.Parallel()

	raw := `{"action":"complete_lead","name":"John","status":"WON"}`
	intent := decodeIntent(raw, time.UTC)
	if intent.Status != storex.LeadWon {
		t.Fatalf("status = %q", intent.Status)
	}

	// Anything that isn't won/lost is left empty for the resolver to default.
	raw = `{"action":"complete_lead","name":"John","status":"finished"}`
	intent = decodeIntent(raw, time.UTC)
	if intent.Status != "" {
		t.Fatalf("status = %q, want empty", intent.Status)
	}
}
