package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultMaxChunkDuration keeps uploads under the Whisper API size limit.
const DefaultMaxChunkDuration = 5 * time.Minute

// SpeechModel is a loaded speech-to-text backend. Implementations must be
// safe for concurrent use; they are never mutated after loading.
type SpeechModel interface {
	Transcribe(ctx context.Context, audioFile string) (string, error)
}

// SharedModel loads a SpeechModel lazily, at most once per process. A failed
// load is remembered and returned to every caller.
type SharedModel struct {
	once  sync.Once
	load  func() (SpeechModel, error)
	model SpeechModel
	err   error
}

func NewSharedModel(load func() (SpeechModel, error)) *SharedModel {
	return &SharedModel{load: load}
}

func (s *SharedModel) Get() (SpeechModel, error) {
	s.once.Do(func() {
		s.model, s.err = s.load()
	})
	return s.model, s.err
}

type RealAudioTranscriber struct {
	model *SharedModel
}

func NewRealAudioTranscriber(model *SharedModel) *RealAudioTranscriber {
	return &RealAudioTranscriber{model: model}
}

// TranscribeAudio blocks until the whole file is recognized.
func (t *RealAudioTranscriber) TranscribeAudio(ctx context.Context, audioFile string) (string, error) {
	if _, err := os.Stat(audioFile); err != nil {
		return "", &TranscriptionError{AudioFile: audioFile, Err: err}
	}

	model, err := t.model.Get()
	if err != nil {
		return "", &TranscriptionError{AudioFile: audioFile, Err: fmt.Errorf("load speech model: %w", err)}
	}

	text, err := model.Transcribe(ctx, audioFile)
	if err != nil {
		return "", &TranscriptionError{AudioFile: audioFile, Err: err}
	}
	return strings.TrimSpace(text), nil
}

// WhisperCLIModel runs the openai-whisper command line tool locally.
type WhisperCLIModel struct {
	path      string
	model     string
	outputDir string
}

// LoadWhisperCLIModel checks that the whisper binary is available.
func LoadWhisperCLIModel(path, model, outputDir string) (SpeechModel, error) {
	binary, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("whisper executable %q not found: %w", path, err)
	}
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create whisper output directory: %w", err)
	}
	return &WhisperCLIModel{path: binary, model: model, outputDir: outputDir}, nil
}

// Transcribe gives every call a private output directory, so concurrent
// sessions with identically named audio files never share whisper output.
func (w *WhisperCLIModel) Transcribe(ctx context.Context, audioFile string) (string, error) {
	runDir, err := os.MkdirTemp(w.outputDir, "run-*")
	if err != nil {
		return "", fmt.Errorf("failed to create whisper run directory: %w", err)
	}
	defer os.RemoveAll(runDir)

	cmd := exec.CommandContext(ctx, w.path, audioFile,
		"--model", w.model,
		"--output_format", "txt",
		"--output_dir", runDir,
		"--verbose", "False",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("whisper error: %v\nOutput: %s", err, strings.TrimSpace(string(out)))
	}

	txtFile := filepath.Join(runDir, strings.TrimSuffix(filepath.Base(audioFile), filepath.Ext(audioFile))+".txt")
	data, err := os.ReadFile(txtFile)
	if err != nil {
		return "", fmt.Errorf("failed to read whisper output: %w", err)
	}

	return string(data), nil
}

// WhisperAPIModel transcribes through the OpenAI Whisper API, splitting the
// audio into chunks with ffmpeg first.
type WhisperAPIModel struct {
	client      *openai.Client
	ffmpeg      string
	ffprobe     string
	maxDuration time.Duration
}

func LoadWhisperAPIModel(apiKey, ffmpeg, ffprobe string) (SpeechModel, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable is not set")
	}
	for _, tool := range []string{ffmpeg, ffprobe} {
		if _, err := exec.LookPath(tool); err != nil {
			return nil, fmt.Errorf("%s not found: %w", tool, err)
		}
	}
	return &WhisperAPIModel{
		client:      openai.NewClient(apiKey),
		ffmpeg:      ffmpeg,
		ffprobe:     ffprobe,
		maxDuration: DefaultMaxChunkDuration,
	}, nil
}

func (w *WhisperAPIModel) Transcribe(ctx context.Context, audioFile string) (string, error) {
	chunks, err := w.splitAudio(ctx, audioFile)
	defer func() {
		for _, chunk := range chunks {
			os.Remove(chunk)
		}
	}()
	if err != nil {
		return "", fmt.Errorf("failed to split audio: %w", err)
	}

	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		req := openai.AudioRequest{
			Model:    openai.Whisper1,
			FilePath: chunk,
		}
		resp, err := w.client.CreateTranscription(ctx, req)
		if err != nil {
			return "", fmt.Errorf("transcription error: %w", err)
		}
		parts = append(parts, strings.TrimSpace(resp.Text))
	}

	return strings.Join(parts, " "), nil
}

func (w *WhisperAPIModel) splitAudio(ctx context.Context, audioFile string) ([]string, error) {
	var chunks []string

	duration, err := w.audioDuration(ctx, audioFile)
	if err != nil {
		return nil, err
	}

	numChunks := int(duration.Seconds()/w.maxDuration.Seconds()) + 1

	for i := 0; i < numChunks; i++ {
		start := time.Duration(i) * w.maxDuration
		chunkFile := chunkFileName(audioFile, i)

		cmd := exec.CommandContext(ctx, w.ffmpeg, "-y", "-i", audioFile,
			"-ss", fmt.Sprintf("%f", start.Seconds()),
			"-t", fmt.Sprintf("%f", w.maxDuration.Seconds()),
			"-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", chunkFile)
		if err := cmd.Run(); err != nil {
			return chunks, fmt.Errorf("failed to create audio chunk: %w", err)
		}

		chunks = append(chunks, chunkFile)
	}

	return chunks, nil
}

func (w *WhisperAPIModel) audioDuration(ctx context.Context, audioFile string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, w.ffprobe, "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", audioFile)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to get audio duration: %w", err)
	}
	return parseDuration(string(output))
}

func parseDuration(seconds string) (time.Duration, error) {
	duration, err := time.ParseDuration(strings.TrimSpace(seconds) + "s")
	if err != nil {
		return 0, fmt.Errorf("failed to parse audio duration: %w", err)
	}
	return duration, nil
}

func chunkFileName(audioFile string, index int) string {
	return fmt.Sprintf("%s_chunk_%d.wav", strings.TrimSuffix(audioFile, filepath.Ext(audioFile)), index)
}
