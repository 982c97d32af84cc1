// Package intent turns free-text utterances into typed intents. Two
// interchangeable strategies implement contract.Extractor: a deterministic
// rule matcher and a model-backed structured extraction. Callers depend only
// on the interface, never on which strategy produced an intent.
package intent

import (
	"context"
	"strings"
	"time"
	"unicode"

	contractx "leadline/assistant/contract"
	storex "leadline/assistant/store"
)

var (
	listTriggers     = []string{"show", "my leads", "list leads", "what leads", "list"}
	addPrefixes      = []string{"add lead", "add a lead", "new lead", "add"}
	nameCompanySeps  = []string{" at ", " from ", " @ "}
	completePatterns = []string{"done with ", "mark ", "complete ", "won ", "lost "}
	completeSuffixes = []string{" complete", " done", " as won", " as lost"}
	updateSeps       = []string{" - ", ": ", ", "}
)

// RuleExtractor classifies utterances with fixed trigger phrases and
// separator tokens. It never errors: anything it cannot place cleanly into an
// intent is IntentUnknown.
type RuleExtractor struct{}

var _ contractx.Extractor = RuleExtractor{}

func NewRuleExtractor() RuleExtractor {
	return RuleExtractor{}
}

func (RuleExtractor) Extract(_ context.Context, utterance string, _ time.Time) (contractx.Intent, error) {
	text := strings.TrimSpace(utterance)
	if text == "" {
		return contractx.Unknown(), nil
	}
	lower := strings.ToLower(text)

	for _, trigger := range listTriggers {
		if strings.Contains(lower, trigger) {
			return contractx.Intent{Kind: contractx.IntentListLeads}, nil
		}
	}

	if intent, ok := parseAdd(text, lower); ok {
		return intent, nil
	}
	if intent, ok := parseComplete(lower); ok {
		return intent, nil
	}
	if intent, ok := parseUpdate(lower); ok {
		return intent, nil
	}

	return contractx.Unknown(), nil
}

// parseAdd handles "Add lead John at Acme, need to send proposal" and
// variants. Missing company or next steps are left empty; the resolver owns
// the defaults.
func parseAdd(text, lower string) (contractx.Intent, bool) {
	if !strings.Contains(lower, "add") && !strings.Contains(lower, "new lead") {
		return contractx.Intent{}, false
	}

	for _, prefix := range addPrefixes {
		if strings.HasPrefix(lower, prefix) {
			text = strings.TrimSpace(text[len(prefix):])
			break
		}
	}

	var name, company, nextSteps string
	rest := strings.ToLower(text)
	for _, sep := range nameCompanySeps {
		idx := strings.Index(rest, sep)
		if idx < 0 {
			continue
		}
		name = strings.TrimSpace(text[:idx])
		remainder := text[idx+len(sep):]
		if comma := strings.Index(remainder, ","); comma >= 0 {
			company = strings.TrimSpace(remainder[:comma])
			nextSteps = strings.TrimSpace(remainder[comma+1:])
		} else {
			company = strings.TrimSpace(remainder)
		}
		break
	}

	if name == "" {
		return contractx.Intent{}, false
	}

	return contractx.Intent{
		Kind:      contractx.IntentAddLead,
		Name:      titleCase(name),
		Company:   titleCase(company),
		NextSteps: nextSteps,
	}, true
}

// parseComplete handles "Done with John", "Mark John complete", "Won John".
func parseComplete(lower string) (contractx.Intent, bool) {
	for _, pattern := range completePatterns {
		idx := strings.Index(lower, pattern)
		if idx < 0 {
			continue
		}
		remainder := lower[idx+len(pattern):]
		for _, suffix := range completeSuffixes {
			remainder = strings.ReplaceAll(remainder, suffix, "")
		}
		name := titleCase(strings.TrimSpace(remainder))
		if name == "" {
			return contractx.Intent{}, false
		}

		var status storex.LeadStatus
		switch {
		case strings.Contains(lower, "won"):
			status = storex.LeadWon
		case strings.Contains(lower, "lost"):
			status = storex.LeadLost
		}

		return contractx.Intent{
			Kind:   contractx.IntentCompleteLead,
			Name:   name,
			Status: status,
		}, true
	}
	return contractx.Intent{}, false
}

// parseUpdate handles "Update John - meeting scheduled" and "John: sent
// proposal".
func parseUpdate(lower string) (contractx.Intent, bool) {
	text := strings.TrimSpace(strings.ReplaceAll(lower, "update", ""))

	for _, sep := range updateSeps {
		idx := strings.Index(text, sep)
		if idx < 0 {
			continue
		}
		name := titleCase(strings.TrimSpace(text[:idx]))
		if name == "" {
			return contractx.Intent{}, false
		}
		return contractx.Intent{
			Kind:      contractx.IntentUpdateLead,
			Name:      name,
			NextSteps: strings.TrimSpace(text[idx+len(sep):]),
		}, true
	}
	return contractx.Intent{}, false
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
