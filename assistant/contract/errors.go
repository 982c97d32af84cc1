package contract

import "errors"

var (
	ErrModelInvoke   = errors.New("model invoke failed")
	ErrTranscription = errors.New("transcription failed")
	ErrValidation    = errors.New("validation failed")
)
