package contract

import (
	"context"
	"time"
)

// Extractor turns a free-text utterance into a typed intent. Malformed or
// unrecognized input yields IntentUnknown with a nil error; the error return
// is reserved for transport faults of model-backed strategies.
type Extractor interface {
	Extract(ctx context.Context, utterance string, today time.Time) (Intent, error)
}

// Transcriber converts a voice note into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
