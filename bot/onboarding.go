package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	storex "leadline/assistant/store"
)

const continueCallback = "continue_onboarding"

const welcomeMessage = `Welcome to the Sales Lead Bot!

I help you track leads and follow-ups using voice or text.

What I can do:
• Add leads with voice notes or text
• Remind you each morning of today's follow-ups
• Check in each evening on what's still pending
• Sunday night preview of your week ahead
• Set out-of-office to pause reminders

Reminders run Mon-Fri.

Ready to get started?`

func (b *Bot) handleStart(ctx context.Context, logger zerolog.Logger, msg *tgbotapi.Message) {
	user, err := b.store.GetUser(ctx, msg.From.ID)
	if err == nil {
		b.setStage(msg.Chat.ID, stageNone)
		b.reply(logger, msg.Chat.ID, fmt.Sprintf(
			"Welcome back, %s! Send a voice note or type /help for commands.", user.Name))
		return
	}
	if !errors.Is(err, storex.ErrUserNotFound) {
		logger.Error().Err(err).Msg("load user failed")
		b.reply(logger, msg.Chat.ID, "Something went wrong, please try again.")
		return
	}

	welcome := tgbotapi.NewMessage(msg.Chat.ID, welcomeMessage)
	welcome.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Continue →", continueCallback),
		),
	)
	if _, err := b.api.Send(welcome); err != nil {
		logger.Error().Err(err).Msg("send welcome failed")
		return
	}
	b.setStage(msg.Chat.ID, stageAwaitContinue)
}

func (b *Bot) handleCallback(ctx context.Context, logger zerolog.Logger, cq *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		logger.Warn().Err(err).Msg("answer callback failed")
	}

	if cq.Data != continueCallback || cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	if b.stage(chatID) != stageAwaitContinue {
		return
	}

	edit := tgbotapi.NewEditMessageText(chatID, cq.Message.MessageID, "What's your name?")
	if _, err := b.api.Send(edit); err != nil {
		logger.Error().Err(err).Msg("edit onboarding message failed")
		return
	}
	b.setStage(chatID, stageAwaitName)
}

// receiveName finishes registration from the onboarding conversation.
func (b *Bot) receiveName(ctx context.Context, logger zerolog.Logger, msg *tgbotapi.Message) {
	name := strings.TrimSpace(msg.Text)
	if len(name) < 2 || len(name) > 50 {
		b.reply(logger, msg.Chat.ID, "Please enter a valid name (2-50 characters).")
		return
	}

	if _, err := b.store.CreateUser(ctx, msg.From.ID, name); err != nil {
		logger.Error().Err(err).Msg("create user failed")
		b.reply(logger, msg.Chat.ID, "Something went wrong, please try again.")
		return
	}
	b.setStage(msg.Chat.ID, stageNone)

	b.reply(logger, msg.Chat.ID, fmt.Sprintf(
		"Great, %s! You're all set.\n\n"+
			"Send me a voice note like:\n"+
			"'Add lead John at Acme, need to send proposal'\n\n"+
			"Or type /help anytime.", name))
}
