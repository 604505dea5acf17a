package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_API_KEY", "LLM_BASE_URL", "LLM_MODEL", "TRANSCRIBER", "WHISPER_MODEL",
		"WHISPER_PATH", "OPENAI_API_KEY", "YTDLP_PATH", "AUDIO_STEM", "TRANSCRIPT_PATH",
		"FORMATTED_PATH", "TMP_DIR", "DATA_DIR", "SERVER_ADDR",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, TranscriberLocal, cfg.Transcriber)
	assert.Equal(t, "base", cfg.WhisperModel)
	assert.Equal(t, "transcription.txt", cfg.TranscriptPath)
	assert.Equal(t, filepath.Join(".tmp", "downloaded_audio"), cfg.AudioStem)
	assert.False(t, cfg.LLMAvailable())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "secret")
	t.Setenv("LLM_MODEL", "gemini-1.5-pro")
	t.Setenv("TRANSCRIBER", "API")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.LLMAvailable())
	assert.Equal(t, "gemini-1.5-pro", cfg.LLMModel)
	assert.Equal(t, TranscriberAPI, cfg.Transcriber)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SERVER_ADDR=:9999\n"), 0644))
	t.Setenv("ENV_FILE", envFile)
	// godotenv skips keys that are already present, even when empty.
	require.NoError(t, os.Unsetenv("SERVER_ADDR"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.ServerAddr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.Transcriber = "vosk" }, wantErr: true},
		{name: "api without key", mutate: func(c *Config) { c.Transcriber = TranscriberAPI }, wantErr: true},
		{name: "api with key", mutate: func(c *Config) {
			c.Transcriber = TranscriberAPI
			c.OpenAIAPIKey = "sk-test"
		}},
		{name: "empty transcript slot", mutate: func(c *Config) { c.TranscriptPath = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
