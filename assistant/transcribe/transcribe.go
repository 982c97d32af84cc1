// Package transcribe converts voice notes into text via a whisper model on
// an OpenAI-compatible endpoint.
package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"

	contractx "leadline/assistant/contract"
)

type Service struct {
	client   *openaisdk.Client
	model    string
	language string
}

var _ contractx.Transcriber = (*Service)(nil)

func NewService(client *openaisdk.Client, model string) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: transcription client is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%w: whisper model is required", contractx.ErrValidation)
	}
	return &Service{
		client:   client,
		model:    strings.TrimSpace(model),
		language: "en",
	}, nil
}

func (s *Service) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("%w: empty audio payload", contractx.ErrTranscription)
	}

	resp, err := s.client.Audio.Transcriptions.New(ctx, openaisdk.AudioTranscriptionNewParams{
		Model:    openaisdk.AudioModel(s.model),
		File:     openaisdk.File(bytes.NewReader(audio), "voice.ogg", "audio/ogg"),
		Language: openaisdk.String(s.language),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrTranscription, err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("%w: empty transcription", contractx.ErrTranscription)
	}
	return text, nil
}
