package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/vitorpq/onescriber/config"
	"github.com/vitorpq/onescriber/utils"
)

// pipeline holds the process-wide, read-only pieces shared by every session.
type pipeline struct {
	cfg         *config.Config
	logger      *slog.Logger
	llm         utils.LLMClient
	transcriber *utils.RealAudioTranscriber
	detector    *utils.LinguaDetector
}

var llmNoticeOnce sync.Once

func newPipeline(cfg *config.Config, logger *slog.Logger, out io.Writer) *pipeline {
	p := &pipeline{
		cfg:         cfg,
		logger:      logger,
		transcriber: utils.NewRealAudioTranscriber(utils.NewSharedModel(speechModelLoader(cfg))),
		detector:    utils.NewLinguaDetector(),
	}
	if cfg.LLMAvailable() {
		p.llm = utils.NewOpenAIChatClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
	} else {
		llmNoticeOnce.Do(func() {
			fmt.Fprintln(out, "GOOGLE_API_KEY is not set: transcripts will not be formatted and chat is disabled.")
		})
	}
	return p
}

func speechModelLoader(cfg *config.Config) func() (utils.SpeechModel, error) {
	return func() (utils.SpeechModel, error) {
		switch cfg.Transcriber {
		case config.TranscriberAPI:
			return utils.LoadWhisperAPIModel(cfg.OpenAIAPIKey, cfg.FFmpegPath, cfg.FFprobePath)
		default:
			return utils.LoadWhisperCLIModel(cfg.WhisperPath, cfg.WhisperModel, filepath.Join(cfg.TmpDir, "whisper"))
		}
	}
}

// session builds an orchestrator whose audio and transcript slots live at
// the given paths.
func (p *pipeline) session(audioStem, rawPath, finalPath string, notifier utils.Notifier, logger *slog.Logger) *utils.Orchestrator {
	return utils.NewOrchestrator(utils.Dependencies{
		Fetcher:     utils.NewYtdlpAudioFetcher(p.cfg.YtdlpPath, audioStem),
		Transcriber: p.transcriber,
		Reformatter: utils.NewLLMReformatter(p.llm),
		Detector:    p.detector,
		Store:       utils.NewFileTranscriptStore(rawPath, finalPath),
		LLM:         p.llm,
		Notifier:    notifier,
		Logger:      logger,
	})
}

// localSession uses the well-known slots from the configuration.
func (p *pipeline) localSession(out io.Writer) *utils.Orchestrator {
	return p.session(p.cfg.AudioStem, p.cfg.TranscriptPath, p.cfg.FormattedPath, newConsoleNotifier(out), p.logger)
}

type consoleNotifier struct {
	out io.Writer
}

func newConsoleNotifier(out io.Writer) *consoleNotifier {
	return &consoleNotifier{out: out}
}

func (n *consoleNotifier) Status(state utils.State, message string) {
	fmt.Fprintf(n.out, "[%s] %s\n", state, message)
}

func (n *consoleNotifier) Warn(message string) {
	fmt.Fprintf(n.out, "warning: %s\n", message)
}

// logNotifier reports progress of HTTP sessions to the log.
type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) Status(state utils.State, message string) {
	n.logger.Info(message, slog.String("state", state.String()))
}

func (n logNotifier) Warn(message string) {
	n.logger.Warn(message)
}
