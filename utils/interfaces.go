package utils

import (
	"context"
)

type AudioFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type AudioTranscriber interface {
	TranscribeAudio(ctx context.Context, audioFile string) (string, error)
}

type TextReformatter interface {
	// Reformat always returns usable text. A non-nil error means the raw
	// text was returned unchanged.
	Reformat(ctx context.Context, rawText, language string) (string, error)
}

type LanguageDetector interface {
	DetectLanguage(text string) string
}

type LLMClient interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

type TranscriptStore interface {
	SaveRaw(text string) error
	SaveFinal(text string) error
}

// Notifier receives progress and degraded-mode notices for the user.
type Notifier interface {
	Status(state State, message string)
	Warn(message string)
}
