package utils

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Dependencies are the stages an Orchestrator sequences. Detector, Notifier
// and Logger are optional. A nil Reformatter is built from LLM, and a nil LLM
// disables reformatting and chat.
type Dependencies struct {
	Fetcher     AudioFetcher
	Transcriber AudioTranscriber
	Reformatter TextReformatter
	Detector    LanguageDetector
	Store       TranscriptStore
	LLM         LLMClient
	Notifier    Notifier
	Logger      *slog.Logger
}

// Orchestrator owns one session: its state machine, its transcript and its
// chat history. Only one Start or Ask runs at a time; overlapping calls are
// rejected with ErrBusy.
type Orchestrator struct {
	fetcher     AudioFetcher
	transcriber AudioTranscriber
	reformatter TextReformatter
	detector    LanguageDetector
	store       TranscriptStore
	chat        *ChatSession
	notifier    Notifier
	logger      *slog.Logger
	llm         bool

	run sync.Mutex

	mu         sync.RWMutex
	state      State
	transcript *TranscriptionResult
}

func NewOrchestrator(deps Dependencies) *Orchestrator {
	o := &Orchestrator{
		fetcher:     deps.Fetcher,
		transcriber: deps.Transcriber,
		reformatter: deps.Reformatter,
		detector:    deps.Detector,
		store:       deps.Store,
		chat:        NewChatSession(deps.LLM),
		notifier:    deps.Notifier,
		logger:      deps.Logger,
		llm:         deps.LLM != nil,
	}
	if o.notifier == nil {
		o.notifier = nopNotifier{}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.reformatter == nil {
		o.reformatter = NewLLMReformatter(deps.LLM)
	}
	return o
}

// Busy reports whether a Start or Ask is in progress.
func (o *Orchestrator) Busy() bool {
	if !o.run.TryLock() {
		return true
	}
	o.run.Unlock()
	return false
}

// Start runs download, transcription and reformatting for url. The previous
// transcript and chat history are discarded before the run begins. Download
// and transcription failures leave the session idle; a reformatting failure
// only degrades the result to the raw transcript.
func (o *Orchestrator) Start(ctx context.Context, url string) (*TranscriptionResult, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrEmptyURL
	}
	if !o.run.TryLock() {
		return nil, ErrBusy
	}
	defer o.run.Unlock()

	o.reset()
	log := o.logger.With(slog.String("url", url))

	o.setState(StateDownloading, fmt.Sprintf("Downloading audio from %s", url))
	audioFile, err := o.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Error("download failed", slog.Any("error", err))
		o.setState(StateIdle, "Download failed")
		return nil, err
	}

	o.setState(StateTranscribing, "Transcribing audio, this may take a while")
	started := time.Now()
	raw, err := o.transcriber.TranscribeAudio(ctx, audioFile)
	if err == nil && strings.TrimSpace(raw) == "" {
		err = &TranscriptionError{AudioFile: audioFile, Err: ErrEmptyTranscript}
	}
	if err != nil {
		log.Error("transcription failed", slog.Any("error", err))
		o.setState(StateIdle, "Transcription failed")
		return nil, err
	}
	o.notifier.Status(StateTranscribing, "Transcription finished")

	if err := o.store.SaveRaw(raw); err != nil {
		log.Error("save raw transcript failed", slog.Any("error", err))
		o.setState(StateIdle, "Saving the transcript failed")
		return nil, err
	}

	var language string
	if o.detector != nil {
		language = o.detector.DetectLanguage(raw)
	}
	log.Info("transcribed",
		slog.Int("chars", len(raw)),
		slog.String("language", language),
		slog.Duration("took", time.Since(started)),
	)

	result := &TranscriptionResult{
		SourceURL: url,
		RawText:   raw,
		Language:  language,
		CreatedAt: time.Now().UTC(),
	}

	o.setState(StateReformatting, "Formatting transcript")
	formatted, err := o.reformatter.Reformat(ctx, raw, language)
	if err != nil {
		log.Warn("reformat failed, keeping raw transcript", slog.Any("error", err))
		o.notifier.Warn(fmt.Sprintf("Could not format the transcript, showing the raw text: %v", err))
		formatted = raw
	}
	if formatted != raw {
		result.ReformattedText = formatted
	}

	if err := o.store.SaveFinal(result.Text()); err != nil {
		log.Error("save final transcript failed", slog.Any("error", err))
		o.setState(StateIdle, "Saving the transcript failed")
		return nil, err
	}

	o.mu.Lock()
	o.transcript = result
	o.state = StateReady
	o.mu.Unlock()
	o.notifier.Status(StateReady, "Transcript ready")

	return result, nil
}

// Ask answers question against the current transcript. A failed answer
// leaves the history unchanged and returns a *ChatError holding the question.
func (o *Orchestrator) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}
	if !o.run.TryLock() {
		return "", ErrBusy
	}
	defer o.run.Unlock()

	o.mu.RLock()
	transcript := o.transcript
	o.mu.RUnlock()
	if transcript == nil {
		return "", ErrNoTranscript
	}

	answer, err := o.chat.AnswerInLanguage(ctx, transcript.Text(), question, transcript.Language)
	if err != nil {
		o.logger.Warn("chat turn failed", slog.Any("error", err))
		return "", err
	}
	return answer, nil
}

func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

func (o *Orchestrator) Transcript() *TranscriptionResult {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.transcript
}

func (o *Orchestrator) History() []ChatMessage {
	return o.chat.History()
}

func (o *Orchestrator) LLMAvailable() bool {
	return o.llm
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return Snapshot{
		State:      o.state,
		Transcript: o.transcript,
		History:    o.chat.History(),
	}
}

func (o *Orchestrator) reset() {
	o.mu.Lock()
	o.transcript = nil
	o.state = StateIdle
	o.mu.Unlock()
	o.chat.Reset()
}

func (o *Orchestrator) setState(state State, message string) {
	o.mu.Lock()
	o.state = state
	o.mu.Unlock()
	o.notifier.Status(state, message)
}

type nopNotifier struct{}

func (nopNotifier) Status(State, string) {}
func (nopNotifier) Warn(string)          {}
