// Package bot is the Telegram transport: it owns message delivery, command
// parsing, and the onboarding conversation, and hands everything
// interpretation-shaped to the assistant packages.
package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	contractx "leadline/assistant/contract"
	datesx "leadline/assistant/dates"
	storex "leadline/assistant/store"
)

const maxVoiceDownloadBytes = 20 << 20

type Config struct {
	Token         string `envconfig:"TOKEN" split_words:"true" required:"true"`
	UpdateTimeout int    `envconfig:"UPDATE_TIMEOUT" split_words:"true" default:"30"`
}

type onboardStage int

const (
	stageNone onboardStage = iota
	stageAwaitContinue
	stageAwaitName
)

type Bot struct {
	api         *tgbotapi.BotAPI
	store       storex.Store
	extractor   contractx.Extractor
	transcriber contractx.Transcriber
	loc         *time.Location
	httpClient  *http.Client

	updateTimeout int
	now           func() time.Time

	mu         sync.Mutex
	onboarding map[int64]onboardStage
}

func New(
	api *tgbotapi.BotAPI,
	store storex.Store,
	extractor contractx.Extractor,
	transcriber contractx.Transcriber,
	loc *time.Location,
	cfg Config,
) (*Bot, error) {
	if api == nil {
		return nil, errors.New("telegram api client is required")
	}
	if store == nil {
		return nil, errors.New("record store is required")
	}
	if extractor == nil {
		return nil, errors.New("intent extractor is required")
	}
	if loc == nil {
		loc = time.UTC
	}

	timeout := cfg.UpdateTimeout
	if timeout <= 0 {
		timeout = 30
	}

	return &Bot{
		api:           api,
		store:         store,
		extractor:     extractor,
		transcriber:   transcriber,
		loc:           loc,
		httpClient:    &http.Client{Timeout: 60 * time.Second},
		updateTimeout: timeout,
		now:           time.Now,
		onboarding:    make(map[int64]onboardStage),
	}, nil
}

// Run consumes the update stream until ctx is cancelled. One update is
// handled at a time; a failure handling one user's update never stops the
// stream.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.updateTimeout
	updates := b.api.GetUpdatesChan(u)

	log.Info().Str("bot", b.api.Self.UserName).Msg("bot started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// SendMessage lets the digest scheduler push text to a chat.
func (b *Bot) SendMessage(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	logger := log.With().Str("update_id", uuid.NewString()).Logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("update handler panicked")
		}
	}()

	if update.CallbackQuery != nil {
		b.handleCallback(ctx, logger, update.CallbackQuery)
		return
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	switch {
	case msg.IsCommand():
		b.handleCommand(ctx, logger, msg)
	case msg.Voice != nil:
		b.handleVoice(ctx, logger, msg)
	case msg.Text != "":
		b.handleText(ctx, logger, msg)
	}
}

func (b *Bot) today() time.Time {
	return datesx.Truncate(b.now().In(b.loc))
}

func (b *Bot) reply(logger zerolog.Logger, chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		logger.Error().Err(err).Int64("chat_id", chatID).Msg("send reply failed")
	}
}

// registeredUser loads the sender's account, prompting for /start when there
// is none. Returns nil when handling should stop.
func (b *Bot) registeredUser(ctx context.Context, logger zerolog.Logger, msg *tgbotapi.Message) *storex.User {
	user, err := b.store.GetUser(ctx, msg.From.ID)
	if err != nil {
		if errors.Is(err, storex.ErrUserNotFound) {
			b.reply(logger, msg.Chat.ID, "Please /start first to register.")
			return nil
		}
		logger.Error().Err(err).Msg("load user failed")
		b.reply(logger, msg.Chat.ID, "Something went wrong, please try again.")
		return nil
	}
	return user
}

func (b *Bot) downloadVoice(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve voice file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build voice download request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download voice file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download voice file: status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxVoiceDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read voice file: %w", err)
	}
	return audio, nil
}

func (b *Bot) stage(chatID int64) onboardStage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.onboarding[chatID]
}

func (b *Bot) setStage(chatID int64, stage onboardStage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if stage == stageNone {
		delete(b.onboarding, chatID)
		return
	}
	b.onboarding[chatID] = stage
}
