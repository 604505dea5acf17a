// Package config loads onescriber settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	TranscriberLocal = "local"
	TranscriberAPI   = "api"
)

// Default endpoint is Gemini's OpenAI-compatible API, keyed by GOOGLE_API_KEY.
const (
	defaultLLMBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	defaultLLMModel   = "gemini-2.0-flash"
)

// Config holds all application configuration.
type Config struct {
	// LLM settings. An empty LLMAPIKey disables reformatting and chat.
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string

	// Speech-to-text settings
	Transcriber  string
	WhisperModel string
	WhisperPath  string
	OpenAIAPIKey string

	// External tools
	YtdlpPath   string
	FFmpegPath  string
	FFprobePath string

	// Storage slots
	AudioStem      string
	TranscriptPath string
	FormattedPath  string
	TmpDir         string
	DataDir        string

	ServerAddr string
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		LLMBaseURL:     defaultLLMBaseURL,
		LLMModel:       defaultLLMModel,
		Transcriber:    TranscriberLocal,
		WhisperModel:   "base",
		WhisperPath:    "whisper",
		YtdlpPath:      "yt-dlp",
		FFmpegPath:     "ffmpeg",
		FFprobePath:    "ffprobe",
		AudioStem:      filepath.Join(".tmp", "downloaded_audio"),
		TranscriptPath: "transcription.txt",
		FormattedPath:  "transcription.md",
		TmpDir:         ".tmp",
		DataDir:        "sessions",
		ServerAddr:     ":3000",
	}
}

// Load reads the .env file (if any) and the environment on top of the defaults.
// Priority: env vars > .env file > defaults
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	cfg := DefaultConfig()
	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFromEnv() {
	setString(&c.LLMAPIKey, "GOOGLE_API_KEY")
	setString(&c.LLMBaseURL, "LLM_BASE_URL")
	setString(&c.LLMModel, "LLM_MODEL")
	setString(&c.Transcriber, "TRANSCRIBER")
	setString(&c.WhisperModel, "WHISPER_MODEL")
	setString(&c.WhisperPath, "WHISPER_PATH")
	setString(&c.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.YtdlpPath, "YTDLP_PATH")
	setString(&c.FFmpegPath, "FFMPEG_PATH")
	setString(&c.FFprobePath, "FFPROBE_PATH")
	setString(&c.AudioStem, "AUDIO_STEM")
	setString(&c.TranscriptPath, "TRANSCRIPT_PATH")
	setString(&c.FormattedPath, "FORMATTED_PATH")
	setString(&c.TmpDir, "TMP_DIR")
	setString(&c.DataDir, "DATA_DIR")
	setString(&c.ServerAddr, "SERVER_ADDR")

	c.Transcriber = strings.ToLower(c.Transcriber)
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Transcriber {
	case TranscriberLocal:
	case TranscriberAPI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("TRANSCRIBER=%s requires OPENAI_API_KEY", TranscriberAPI)
		}
	default:
		return fmt.Errorf("unknown TRANSCRIBER %q (want %q or %q)", c.Transcriber, TranscriberLocal, TranscriberAPI)
	}
	if c.AudioStem == "" || c.TranscriptPath == "" || c.FormattedPath == "" {
		return errors.New("audio stem and transcript paths must not be empty")
	}
	return nil
}

// LLMAvailable reports whether an LLM credential was configured.
func (c *Config) LLMAvailable() bool {
	return c.LLMAPIKey != ""
}
