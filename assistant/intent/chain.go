package intent

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	contractx "leadline/assistant/contract"
)

// ChainExtractor tries a primary strategy and falls back to a secondary one
// when the primary fails at the transport level (not when it merely returns
// IntentUnknown — an Unknown verdict is a verdict).
type ChainExtractor struct {
	primary  contractx.Extractor
	fallback contractx.Extractor
}

var _ contractx.Extractor = (*ChainExtractor)(nil)

func NewChain(primary, fallback contractx.Extractor) *ChainExtractor {
	return &ChainExtractor{primary: primary, fallback: fallback}
}

func (c *ChainExtractor) Extract(ctx context.Context, utterance string, today time.Time) (contractx.Intent, error) {
	intent, err := c.primary.Extract(ctx, utterance, today)
	if err == nil {
		return intent, nil
	}
	if c.fallback == nil {
		return intent, err
	}

	log.Warn().Err(err).Msg("primary extractor failed, falling back to rules")
	return c.fallback.Extract(ctx, utterance, today)
}
