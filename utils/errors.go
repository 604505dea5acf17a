package utils

import (
	"errors"
	"fmt"
)

// Validation and precondition errors. None of these reach an external service.
var (
	ErrEmptyURL               = errors.New("url must not be empty")
	ErrEmptyQuestion          = errors.New("question must not be empty")
	ErrNoTranscript           = errors.New("no transcript available, transcribe a video first")
	ErrBusy                   = errors.New("session is busy with another request")
	ErrEmptyTranscript        = errors.New("transcription produced no text")
	ErrEmptyResponse          = errors.New("llm returned empty content")
	ErrLLMUnavailable         = errors.New("no llm configured, set GOOGLE_API_KEY")
	ErrDownloaderNotInstalled = errors.New("yt-dlp not found")
	ErrMissingOutput          = errors.New("downloader produced no audio file")
)

// DownloadError wraps failures while fetching audio for a URL.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// TranscriptionError wraps speech-to-text failures for an audio file.
type TranscriptionError struct {
	AudioFile string
	Err       error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcribe %s: %v", e.AudioFile, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// ReformatError is always recovered: the raw transcript is used instead.
type ReformatError struct {
	Err error
}

func (e *ReformatError) Error() string {
	return fmt.Sprintf("reformat transcript: %v", e.Err)
}

func (e *ReformatError) Unwrap() error { return e.Err }

// ChatError keeps the unanswered question so it can be submitted again.
type ChatError struct {
	Question string
	Err      error
}

func (e *ChatError) Error() string {
	return fmt.Sprintf("answer question: %v", e.Err)
}

func (e *ChatError) Unwrap() error { return e.Err }

// StorageError wraps failures writing a transcript slot.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
