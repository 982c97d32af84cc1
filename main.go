package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	contractx "leadline/assistant/contract"
	intentx "leadline/assistant/intent"
	storex "leadline/assistant/store"
	transcribex "leadline/assistant/transcribe"
	botx "leadline/bot"
	configx "leadline/pkg/config"
	groqx "leadline/pkg/groq"
	_ "leadline/pkg/logger/autoload"
	schedulerx "leadline/scheduler"
)

type AppConfig struct {
	Timezone string `envconfig:"TIMEZONE" default:"Asia/Singapore"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("APP")

	loc, err := time.LoadLocation(appCfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", appCfg.Timezone).Msg("invalid timezone")
	}

	storeCfg := configx.MustNew[storex.Config]("DATABASE")
	store := storex.MustNewPostgresStore(*storeCfg)
	defer store.Close()

	groqCfg := configx.MustNew[groqx.Config]("GROQ")
	groqClient := groqx.NewClient(*groqCfg)

	var extractor contractx.Extractor = intentx.NewRuleExtractor()
	var transcriber contractx.Transcriber
	if groqClient != nil {
		model, err := intentx.NewModelExtractor(groqClient, groqCfg.Model, groqCfg.Temperature)
		if err != nil {
			log.Fatal().Err(err).Msg("build model extractor failed")
		}
		extractor = intentx.NewChain(model, extractor)

		transcriber, err = transcribex.NewService(groqClient, groqCfg.WhisperModel)
		if err != nil {
			log.Fatal().Err(err).Msg("build transcriber failed")
		}
	} else {
		log.Warn().Msg("no groq api key, using rule-based extraction without voice support")
	}

	botCfg := configx.MustNew[botx.Config]("TELEGRAM")
	api, err := tgbotapi.NewBotAPI(botCfg.Token)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram api init failed")
	}

	b, err := botx.New(api, store, extractor, transcriber, loc, *botCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("bot init failed")
	}

	schedCfg := configx.MustNew[schedulerx.Config]("SCHEDULE")
	sched, err := schedulerx.New(store, b, loc, *schedCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler init failed")
	}
	sched.Start()
	defer func() { <-sched.Stop().Done() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := b.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("bot stopped unexpectedly")
	}
	log.Info().Msg("shutting down")
}
