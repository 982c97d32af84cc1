package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	datesx "leadline/assistant/dates"
	storex "leadline/assistant/store"
)

const helpText = `Commands & Voice Examples:

ADD A LEAD:
• Voice: "Add lead John at Acme, need to send proposal"
• Text: /add John | Acme Corp | Send proposal | 2024-01-15

UPDATE A LEAD:
• Voice: "Update John - meeting scheduled"
• Text: /update 1 next_steps Meeting scheduled

LIST LEADS:
• Voice: "Show my leads"
• Text: /leads

MARK COMPLETE:
• Voice: "Done with John" or "Won John"
• Text: /done 1 won

OUT OF OFFICE:
• Voice: "Out until Jan 15"
• Text: /ooo 2024-01-15 (or /ooo off to disable)

VIEW TODAY:
• /today - See today's follow-ups`

const (
	addUsage = "Usage: /add Name | Company | Next Steps | YYYY-MM-DD (date optional)\n" +
		"Example: /add John | Acme Corp | Send proposal | 2024-01-15"
	updateUsage = "Usage: /update ID field value\n" +
		"Fields: next_steps, follow_up (YYYY-MM-DD)\n" +
		"Example: /update 1 next_steps Meeting scheduled"
	doneUsage = "Usage: /done ID [won|lost]\nExample: /done 1 won"
	oooUsage  = "Usage: /ooo YYYY-MM-DD or /ooo off"
)

func (b *Bot) handleCommand(ctx context.Context, logger zerolog.Logger, msg *tgbotapi.Message) {
	logger = logger.With().Str("command", msg.Command()).Int64("telegram_id", msg.From.ID).Logger()

	if msg.Command() == "start" {
		b.handleStart(ctx, logger, msg)
		return
	}
	if msg.Command() == "help" {
		b.reply(logger, msg.Chat.ID, helpText)
		return
	}

	user := b.registeredUser(ctx, logger, msg)
	if user == nil {
		return
	}

	switch msg.Command() {
	case "add":
		b.handleAdd(ctx, logger, user, msg)
	case "leads":
		b.handleLeads(ctx, logger, user, msg)
	case "today":
		b.handleToday(ctx, logger, user, msg)
	case "update":
		b.handleUpdateCmd(ctx, logger, user, msg)
	case "done":
		b.handleDone(ctx, logger, user, msg)
	case "ooo":
		b.handleOOO(ctx, logger, user, msg)
	default:
		b.reply(logger, msg.Chat.ID, "Unknown command. Type /help to see what I can do.")
	}
}

type addArgs struct {
	name      string
	company   string
	nextSteps string
	followUp  *time.Time
}

// parseAddArgs splits "/add Name | Company | Next Steps | [YYYY-MM-DD]".
func parseAddArgs(raw string, loc *time.Location) (addArgs, string) {
	parts := strings.Split(raw, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 3 || parts[0] == "" {
		return addArgs{}, addUsage
	}

	args := addArgs{name: parts[0], company: parts[1], nextSteps: parts[2]}
	if len(parts) >= 4 && parts[3] != "" {
		d, ok := datesx.ParseISO(parts[3], loc)
		if !ok {
			return addArgs{}, "Invalid date format. Use YYYY-MM-DD."
		}
		args.followUp = &d
	}
	return args, ""
}

func (b *Bot) handleAdd(ctx context.Context, logger zerolog.Logger, user *storex.User, msg *tgbotapi.Message) {
	args, usage := parseAddArgs(msg.CommandArguments(), b.loc)
	if usage != "" {
		b.reply(logger, msg.Chat.ID, usage)
		return
	}

	lead, err := b.store.AddLead(ctx, user.ID, args.name, args.company, args.nextSteps, args.followUp)
	if err != nil {
		logger.Error().Err(err).Msg("add lead failed")
		b.reply(logger, msg.Chat.ID, "Couldn't save the lead, please try again.")
		return
	}

	reply := fmt.Sprintf("Added: %s at %s\nNext: %s", lead.Name, lead.Company, lead.NextSteps)
	if lead.FollowUpDate != nil {
		reply += fmt.Sprintf("\nFollow-up: %s", lead.FollowUpDate.Format(datesx.ISO))
	}
	b.reply(logger, msg.Chat.ID, reply)
}

func (b *Bot) handleLeads(ctx context.Context, logger zerolog.Logger, user *storex.User, msg *tgbotapi.Message) {
	leads, err := b.store.Leads(ctx, user.ID, storex.LeadActive)
	if err != nil {
		logger.Error().Err(err).Msg("list leads failed")
		b.reply(logger, msg.Chat.ID, "Couldn't load your leads, please try again.")
		return
	}
	if len(leads) == 0 {
		b.reply(logger, msg.Chat.ID, "No active leads. Add one with a voice note or /add.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Your active leads (%d):\n\n", len(leads))
	for _, lead := range leads {
		fmt.Fprintf(&sb, "#%d %s (%s)\n   → %s", lead.ID, lead.Name, lead.Company, lead.NextSteps)
		if lead.FollowUpDate != nil {
			fmt.Fprintf(&sb, "\n   📅 %s", lead.FollowUpDate.Format(datesx.ISO))
		}
		sb.WriteString("\n\n")
	}
	b.reply(logger, msg.Chat.ID, strings.TrimRight(sb.String(), "\n"))
}

func (b *Bot) handleToday(ctx context.Context, logger zerolog.Logger, user *storex.User, msg *tgbotapi.Message) {
	today := b.today()

	dueToday, err := b.store.LeadsDueToday(ctx, user.ID, today)
	if err != nil {
		logger.Error().Err(err).Msg("leads due today failed")
		b.reply(logger, msg.Chat.ID, "Couldn't load today's follow-ups, please try again.")
		return
	}
	overdue, err := b.store.OverdueLeads(ctx, user.ID, today)
	if err != nil {
		logger.Error().Err(err).Msg("overdue leads failed")
		b.reply(logger, msg.Chat.ID, "Couldn't load today's follow-ups, please try again.")
		return
	}

	if len(dueToday) == 0 && len(overdue) == 0 {
		b.reply(logger, msg.Chat.ID, "Nothing due today! 🎉")
		return
	}

	var sb strings.Builder
	if len(overdue) > 0 {
		fmt.Fprintf(&sb, "⚠️ OVERDUE (%d):\n", len(overdue))
		for _, lead := range overdue {
			fmt.Fprintf(&sb, "  • #%d %s (%s)\n", lead.ID, lead.Name, lead.Company)
		}
		sb.WriteString("\n")
	}
	if len(dueToday) > 0 {
		fmt.Fprintf(&sb, "📋 TODAY (%d):\n", len(dueToday))
		for _, lead := range dueToday {
			fmt.Fprintf(&sb, "  • #%d %s (%s) - %s\n", lead.ID, lead.Name, lead.Company, lead.NextSteps)
		}
	}
	b.reply(logger, msg.Chat.ID, strings.TrimRight(sb.String(), "\n"))
}

type updateArgs struct {
	leadID int64
	patch  storex.LeadPatch
	field  string
	value  string
}

// parseUpdateArgs splits "/update ID field value...". Unknown fields and bad
// dates come back as a corrective message, never an error.
func parseUpdateArgs(raw string, loc *time.Location) (updateArgs, string) {
	fields := strings.Fields(raw)
	if len(fields) < 3 {
		return updateArgs{}, updateUsage
	}

	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return updateArgs{}, "Invalid lead ID."
	}

	field := strings.ToLower(fields[1])
	value := strings.Join(fields[2:], " ")

	args := updateArgs{leadID: id, field: field, value: value}
	switch field {
	case "next_steps":
		args.patch.NextSteps = &value
	case "follow_up":
		d, ok := datesx.ParseISO(value, loc)
		if !ok {
			return updateArgs{}, "Invalid date. Use YYYY-MM-DD."
		}
		args.patch.FollowUpDate = &d
	default:
		return updateArgs{}, "Unknown field. Use: next_steps, follow_up"
	}
	return args, ""
}

func (b *Bot) handleUpdateCmd(ctx context.Context, logger zerolog.Logger, user *storex.User, msg *tgbotapi.Message) {
	args, usage := parseUpdateArgs(msg.CommandArguments(), b.loc)
	if usage != "" {
		b.reply(logger, msg.Chat.ID, usage)
		return
	}

	lead, err := b.ownedLead(ctx, logger, user, args.leadID)
	if err != nil {
		b.reply(logger, msg.Chat.ID, "Lead not found.")
		return
	}

	if err := b.store.UpdateLead(ctx, lead.ID, args.patch); err != nil {
		logger.Error().Err(err).Int64("lead_id", lead.ID).Msg("update lead failed")
		b.reply(logger, msg.Chat.ID, "Couldn't update the lead, please try again.")
		return
	}
	b.reply(logger, msg.Chat.ID, fmt.Sprintf("Updated #%d: %s = %s", lead.ID, args.field, args.value))
}

func (b *Bot) handleDone(ctx context.Context, logger zerolog.Logger, user *storex.User, msg *tgbotapi.Message) {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) == 0 {
		b.reply(logger, msg.Chat.ID, doneUsage)
		return
	}

	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		b.reply(logger, msg.Chat.ID, "Invalid lead ID.")
		return
	}

	lead, err := b.ownedLead(ctx, logger, user, id)
	if err != nil {
		b.reply(logger, msg.Chat.ID, "Lead not found.")
		return
	}

	status := storex.LeadWon
	if len(fields) > 1 {
		switch strings.ToLower(fields[1]) {
		case string(storex.LeadWon):
			status = storex.LeadWon
		case string(storex.LeadLost):
			status = storex.LeadLost
		}
	}

	if err := b.store.CompleteLead(ctx, lead.ID, status); err != nil {
		if errors.Is(err, storex.ErrLeadNotFound) {
			// Already won or lost; transitions are terminal.
			b.reply(logger, msg.Chat.ID, "Lead not found.")
			return
		}
		logger.Error().Err(err).Int64("lead_id", lead.ID).Msg("complete lead failed")
		b.reply(logger, msg.Chat.ID, "Couldn't update the lead, please try again.")
		return
	}

	if status == storex.LeadWon {
		b.reply(logger, msg.Chat.ID, fmt.Sprintf("Marked #%d %s as WON! 🎉", lead.ID, lead.Name))
	} else {
		b.reply(logger, msg.Chat.ID, fmt.Sprintf("Marked #%d %s as %s.", lead.ID, lead.Name, status))
	}
}

func (b *Bot) handleOOO(ctx context.Context, logger zerolog.Logger, user *storex.User, msg *tgbotapi.Message) {
	arg := strings.ToLower(strings.TrimSpace(msg.CommandArguments()))

	if arg == "" {
		if user.OOOUntil != nil {
			b.reply(logger, msg.Chat.ID, fmt.Sprintf(
				"You're OOO until %s. Use /ooo off to disable.", user.OOOUntil.Format(datesx.ISO)))
		} else {
			b.reply(logger, msg.Chat.ID, oooUsage)
		}
		return
	}

	if arg == "off" {
		if err := b.store.SetOutOfOffice(ctx, user.TelegramID, nil); err != nil {
			logger.Error().Err(err).Msg("clear ooo failed")
			b.reply(logger, msg.Chat.ID, "Couldn't update your status, please try again.")
			return
		}
		b.reply(logger, msg.Chat.ID, "OOO disabled. You'll receive reminders again.")
		return
	}

	until, ok := datesx.ParseISO(arg, b.loc)
	if !ok {
		b.reply(logger, msg.Chat.ID, "Invalid date. Use YYYY-MM-DD format.")
		return
	}
	// Temporal validation is the caller's job, not the resolver's.
	if until.Before(b.today()) {
		b.reply(logger, msg.Chat.ID, "OOO date must be in the future.")
		return
	}

	if err := b.store.SetOutOfOffice(ctx, user.TelegramID, &until); err != nil {
		logger.Error().Err(err).Msg("set ooo failed")
		b.reply(logger, msg.Chat.ID, "Couldn't update your status, please try again.")
		return
	}
	b.reply(logger, msg.Chat.ID, fmt.Sprintf("OOO set until %s. No reminders until then!", until.Format(datesx.ISO)))
}

// ownedLead enforces that cross-user lead ids behave exactly like missing
// ones, never leaking another user's data.
func (b *Bot) ownedLead(ctx context.Context, logger zerolog.Logger, user *storex.User, id int64) (*storex.Lead, error) {
	lead, err := b.store.LeadByID(ctx, id)
	if err != nil {
		if !errors.Is(err, storex.ErrLeadNotFound) {
			logger.Error().Err(err).Int64("lead_id", id).Msg("load lead failed")
		}
		return nil, storex.ErrLeadNotFound
	}
	if lead.UserID != user.ID {
		return nil, storex.ErrLeadNotFound
	}
	return lead, nil
}
