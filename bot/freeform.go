package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	contractx "leadline/assistant/contract"
	datesx "leadline/assistant/dates"
	resolvex "leadline/assistant/resolve"
	storex "leadline/assistant/store"
)

const fallbackHelp = "I didn't understand that. Try:\n" +
	"• 'Add lead John at Acme, need to send proposal'\n" +
	"• 'Show my leads'\n" +
	"• 'Done with John'\n" +
	"• 'Update John - meeting scheduled'\n\n" +
	"Or type /help for all commands."

func (b *Bot) handleText(ctx context.Context, logger zerolog.Logger, msg *tgbotapi.Message) {
	if b.stage(msg.Chat.ID) == stageAwaitName {
		b.receiveName(ctx, logger, msg)
		return
	}

	user := b.registeredUser(ctx, logger, msg)
	if user == nil {
		return
	}
	b.handleUtterance(ctx, logger, user, msg.Chat.ID, msg.Text)
}

func (b *Bot) handleVoice(ctx context.Context, logger zerolog.Logger, msg *tgbotapi.Message) {
	user := b.registeredUser(ctx, logger, msg)
	if user == nil {
		return
	}

	if b.transcriber == nil {
		b.reply(logger, msg.Chat.ID, "Voice notes aren't set up on this deployment. Please type your message instead.")
		return
	}

	b.reply(logger, msg.Chat.ID, "🎤 Processing...")

	audio, err := b.downloadVoice(ctx, msg.Voice.FileID)
	if err != nil {
		logger.Error().Err(err).Msg("voice download failed")
		b.reply(logger, msg.Chat.ID, "Couldn't fetch that voice note, please try again.")
		return
	}

	text, err := b.transcriber.Transcribe(ctx, audio)
	if err != nil {
		logger.Error().Err(err).Msg("transcription failed")
		b.reply(logger, msg.Chat.ID, "Couldn't transcribe audio. Please try again or type your message.")
		return
	}

	b.reply(logger, msg.Chat.ID, fmt.Sprintf("Heard: \"%s\"", text))
	b.handleUtterance(ctx, logger, user, msg.Chat.ID, text)
}

// handleUtterance is the free-text pipeline: extract an intent, resolve it
// against a fresh snapshot of the user's active leads, apply the outcome to
// the store, and report back.
func (b *Bot) handleUtterance(ctx context.Context, logger zerolog.Logger, user *storex.User, chatID int64, text string) {
	intent, err := b.extractor.Extract(ctx, text, b.today())
	if err != nil {
		logger.Error().Err(err).Msg("intent extraction failed")
		b.reply(logger, chatID, "Sorry, I couldn't process that right now. Please try again.")
		return
	}

	snapshot, err := b.store.Leads(ctx, user.ID, storex.LeadActive)
	if err != nil {
		logger.Error().Err(err).Msg("load lead snapshot failed")
		b.reply(logger, chatID, "Something went wrong, please try again.")
		return
	}

	outcome := resolvex.Resolve(intent, user, snapshot)
	logger.Debug().
		Str("intent", string(intent.Kind)).
		Str("outcome", string(outcome.Kind)).
		Msg("utterance resolved")

	reply, err := b.applyOutcome(ctx, user, outcome, snapshot, text)
	if err != nil {
		logger.Error().Err(err).Msg("apply outcome failed")
		b.reply(logger, chatID, "Something went wrong, please try again.")
		return
	}
	b.reply(logger, chatID, reply)
}

// applyOutcome performs the store mutation an outcome calls for and renders
// the user-facing confirmation. Rejections mutate nothing.
func (b *Bot) applyOutcome(
	ctx context.Context,
	user *storex.User,
	outcome contractx.Outcome,
	snapshot []storex.Lead,
	utterance string,
) (string, error) {
	switch outcome.Kind {
	case contractx.OutcomeCreated:
		created := outcome.Created
		lead, err := b.store.AddLead(ctx, created.UserID, created.Name, created.Company, created.NextSteps, created.FollowUp)
		if err != nil {
			return "", err
		}
		reply := fmt.Sprintf("Added lead:\n  Name: %s\n  Company: %s\n  Next: %s", lead.Name, lead.Company, lead.NextSteps)
		if lead.FollowUpDate != nil {
			reply += fmt.Sprintf("\n  Follow-up: %s", lead.FollowUpDate.Format(datesx.ISO))
		} else {
			reply += fmt.Sprintf("\n\nSet follow-up with: /update %d follow_up YYYY-MM-DD", lead.ID)
		}
		return reply, nil

	case contractx.OutcomeUpdated:
		if err := b.store.UpdateLead(ctx, outcome.LeadID, outcome.Patch); err != nil {
			return "", err
		}
		reply := fmt.Sprintf("Updated %s", leadName(snapshot, outcome.LeadID))
		if outcome.Patch.NextSteps != nil {
			reply += ": " + *outcome.Patch.NextSteps
		}
		if outcome.Patch.FollowUpDate != nil {
			reply += fmt.Sprintf(" (follow-up %s)", outcome.Patch.FollowUpDate.Format(datesx.ISO))
		}
		return reply, nil

	case contractx.OutcomeStatusChanged:
		if err := b.store.CompleteLead(ctx, outcome.LeadID, outcome.NewStatus); err != nil {
			return "", err
		}
		name := leadName(snapshot, outcome.LeadID)
		if outcome.NewStatus == storex.LeadWon {
			return fmt.Sprintf("Marked %s as WON! 🎉", name), nil
		}
		return fmt.Sprintf("Marked %s as %s.", name, outcome.NewStatus), nil

	case contractx.OutcomeListed:
		return renderLeadList(outcome.Leads), nil

	case contractx.OutcomeRejected:
		return b.renderRejection(outcome, utterance), nil

	default:
		return fallbackHelp, nil
	}
}

func (b *Bot) renderRejection(outcome contractx.Outcome, utterance string) string {
	switch outcome.Reason {
	case contractx.RejectNoMatch:
		return "Couldn't find a matching active lead. Check /leads for the exact name."
	case contractx.RejectAmbiguousMatch:
		var sb strings.Builder
		sb.WriteString("Multiple matches found:\n")
		for _, lead := range outcome.Candidates {
			fmt.Fprintf(&sb, "  #%d %s (%s)\n", lead.ID, lead.Name, lead.Company)
		}
		sb.WriteString("\nUse: /update ID or /done ID")
		return sb.String()
	case contractx.RejectMissingRequiredField:
		return "Matched the lead but there was nothing to change. Tell me the new next steps or a follow-up date."
	default:
		if hint := oooHint(utterance, b.today()); hint != "" {
			return hint
		}
		return fallbackHelp
	}
}

// oooHint nudges toward /ooo when an unresolvable utterance looks like an
// out-of-office request, resolving the date expression when it can.
func oooHint(utterance string, today time.Time) string {
	lower := strings.ToLower(utterance)
	if !strings.Contains(lower, "out") && !strings.Contains(lower, "ooo") && !strings.Contains(lower, "office") {
		return ""
	}

	var expr string
	for _, marker := range []string{"until ", "till "} {
		if idx := strings.Index(lower, marker); idx >= 0 {
			expr = strings.TrimSpace(lower[idx+len(marker):])
			break
		}
	}
	if expr == "" {
		return "To set out-of-office, use: /ooo YYYY-MM-DD"
	}

	if d, ok := datesx.Resolve(expr, today); ok {
		return fmt.Sprintf("To set out-of-office, use: /ooo %s", d.Format(datesx.ISO))
	}
	return fmt.Sprintf("To set out-of-office, use: /ooo YYYY-MM-DD\n(I heard: '%s' but need the exact date)", expr)
}

func leadName(snapshot []storex.Lead, id int64) string {
	for _, lead := range snapshot {
		if lead.ID == id {
			return lead.Name
		}
	}
	return fmt.Sprintf("#%d", id)
}

func renderLeadList(leads []storex.Lead) string {
	if len(leads) == 0 {
		return "No active leads."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Your leads (%d):\n", len(leads))
	for _, lead := range leads {
		fmt.Fprintf(&sb, "  • %s (%s) - %s\n", lead.Name, lead.Company, lead.NextSteps)
	}
	return strings.TrimRight(sb.String(), "\n")
}
