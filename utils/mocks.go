package utils

import (
	"context"
	"sync"
)

type MockAudioFetcher struct {
	FetchFunc func(ctx context.Context, url string) (string, error)
}

func (m *MockAudioFetcher) Fetch(ctx context.Context, url string) (string, error) {
	return m.FetchFunc(ctx, url)
}

type MockAudioTranscriber struct {
	TranscribeAudioFunc func(ctx context.Context, audioFile string) (string, error)
}

func (m *MockAudioTranscriber) TranscribeAudio(ctx context.Context, audioFile string) (string, error) {
	return m.TranscribeAudioFunc(ctx, audioFile)
}

type MockTextReformatter struct {
	ReformatFunc func(ctx context.Context, rawText, language string) (string, error)
}

func (m *MockTextReformatter) Reformat(ctx context.Context, rawText, language string) (string, error) {
	return m.ReformatFunc(ctx, rawText, language)
}

type MockLanguageDetector struct {
	DetectLanguageFunc func(text string) string
}

func (m *MockLanguageDetector) DetectLanguage(text string) string {
	return m.DetectLanguageFunc(text)
}

type MockLLMClient struct {
	InvokeFunc func(ctx context.Context, prompt string) (string, error)

	mu      sync.Mutex
	Prompts []string
}

func (m *MockLLMClient) Invoke(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()
	return m.InvokeFunc(ctx, prompt)
}

// Calls returns how many prompts were sent.
func (m *MockLLMClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// RecordingNotifier keeps every notice it receives.
type RecordingNotifier struct {
	mu       sync.Mutex
	States   []State
	Messages []string
	Warnings []string
}

func (n *RecordingNotifier) Status(state State, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.States = append(n.States, state)
	n.Messages = append(n.Messages, message)
}

func (n *RecordingNotifier) Warn(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Warnings = append(n.Warnings, message)
}
