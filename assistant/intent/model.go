package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"

	contractx "leadline/assistant/contract"
	datesx "leadline/assistant/dates"
	storex "leadline/assistant/store"
)

const modelSystemPrompt = `You convert a sales representative's utterance into exactly one JSON object, no prose, no code fences:

{"action":"add_lead"|"update_lead"|"complete_lead"|"list_leads"|"unknown","name":string,"company":string,"next_steps":string,"follow_up_date":"YYYY-MM-DD"|null,"status":"won"|"lost"|null}

Today is %s. Resolve relative date expressions ("tomorrow", "next Friday") into absolute YYYY-MM-DD dates yourself. Leave fields you cannot fill as empty strings or null. When the utterance is not about leads, use action "unknown".`

// ModelExtractor delegates intent extraction to a chat model and defensively
// re-validates everything that comes back. A response that is not well-formed
// JSON, or that does not fit the intent schema, is IntentUnknown rather than
// a fault.
type ModelExtractor struct {
	client      *openaisdk.Client
	model       string
	temperature float64
}

var _ contractx.Extractor = (*ModelExtractor)(nil)

func NewModelExtractor(client *openaisdk.Client, model string, temperature float64) (*ModelExtractor, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: model client is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%w: model name is required", contractx.ErrValidation)
	}
	return &ModelExtractor{
		client:      client,
		model:       strings.TrimSpace(model),
		temperature: temperature,
	}, nil
}

func (m *ModelExtractor) Extract(ctx context.Context, utterance string, today time.Time) (contractx.Intent, error) {
	if strings.TrimSpace(utterance) == "" {
		return contractx.Unknown(), nil
	}

	// The day of week matters: "next Monday" is ambiguous without it.
	sys := fmt.Sprintf(modelSystemPrompt, today.Format("Monday, 2006-01-02"))

	resp, err := m.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(m.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(sys),
			openaisdk.UserMessage(utterance),
		},
		Temperature: openaisdk.Float(m.temperature),
	})
	if err != nil {
		return contractx.Unknown(), fmt.Errorf("%w: chat completion: %v", contractx.ErrModelInvoke, err)
	}
	if len(resp.Choices) == 0 {
		return contractx.Unknown(), nil
	}

	return decodeIntent(resp.Choices[0].Message.Content, today.Location()), nil
}

type modelOutput struct {
	Action       string `json:"action"`
	Name         string `json:"name"`
	Company      string `json:"company"`
	NextSteps    string `json:"next_steps"`
	FollowUpDate string `json:"follow_up_date"`
	Status       string `json:"status"`
}

// decodeIntent maps a raw model response onto an Intent. Schema violations
// degrade to IntentUnknown; a malformed date is dropped, not guessed at.
func decodeIntent(raw string, loc *time.Location) contractx.Intent {
	payload := stripFences(raw)

	var out modelOutput
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return contractx.Unknown()
	}

	var kind contractx.IntentKind
	switch contractx.IntentKind(strings.TrimSpace(out.Action)) {
	case contractx.IntentAddLead:
		kind = contractx.IntentAddLead
	case contractx.IntentUpdateLead:
		kind = contractx.IntentUpdateLead
	case contractx.IntentCompleteLead:
		kind = contractx.IntentCompleteLead
	case contractx.IntentListLeads:
		kind = contractx.IntentListLeads
	default:
		return contractx.Unknown()
	}

	var followUp *time.Time
	if s := strings.TrimSpace(out.FollowUpDate); s != "" && !strings.EqualFold(s, "null") {
		if d, ok := datesx.ParseISO(s, loc); ok {
			followUp = &d
		}
	}

	var status storex.LeadStatus
	switch strings.ToLower(strings.TrimSpace(out.Status)) {
	case string(storex.LeadWon):
		status = storex.LeadWon
	case string(storex.LeadLost):
		status = storex.LeadLost
	}

	return contractx.Intent{
		Kind:      kind,
		Name:      strings.TrimSpace(out.Name),
		Company:   strings.TrimSpace(out.Company),
		NextSteps: strings.TrimSpace(out.NextSteps),
		FollowUp:  followUp,
		Status:    status,
	}
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
