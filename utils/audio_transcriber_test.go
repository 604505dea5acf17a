package utils

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSpeechModel struct {
	text string
	err  error
}

func (f fakeSpeechModel) Transcribe(ctx context.Context, audioFile string) (string, error) {
	return f.text, f.err
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "downloaded_audio.mp3")
	require.NoError(t, os.WriteFile(path, []byte("mock audio content"), 0644))
	return path
}

func TestSharedModel_LoadsOnce(t *testing.T) {
	var loads int32
	shared := NewSharedModel(func() (SpeechModel, error) {
		atomic.AddInt32(&loads, 1)
		return fakeSpeechModel{text: "hello"}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := shared.Get()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestSharedModel_StickyError(t *testing.T) {
	var loads int32
	loadErr := errors.New("model missing")
	shared := NewSharedModel(func() (SpeechModel, error) {
		atomic.AddInt32(&loads, 1)
		return nil, loadErr
	})

	transcriber := NewRealAudioTranscriber(shared)
	audio := writeAudio(t)

	for i := 0; i < 2; i++ {
		_, err := transcriber.TranscribeAudio(context.Background(), audio)
		assert.ErrorIs(t, err, loadErr)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestRealAudioTranscriber(t *testing.T) {
	t.Run("trims model output", func(t *testing.T) {
		transcriber := NewRealAudioTranscriber(NewSharedModel(func() (SpeechModel, error) {
			return fakeSpeechModel{text: "  hello world \n"}, nil
		}))

		text, err := transcriber.TranscribeAudio(context.Background(), writeAudio(t))
		require.NoError(t, err)
		assert.Equal(t, "hello world", text)
	})

	t.Run("missing file", func(t *testing.T) {
		transcriber := NewRealAudioTranscriber(NewSharedModel(func() (SpeechModel, error) {
			t.Fatal("model should not load for a missing file")
			return nil, nil
		}))

		_, err := transcriber.TranscribeAudio(context.Background(), filepath.Join(t.TempDir(), "nope.mp3"))
		var transcriptionErr *TranscriptionError
		require.True(t, errors.As(err, &transcriptionErr))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("model failure", func(t *testing.T) {
		transcriber := NewRealAudioTranscriber(NewSharedModel(func() (SpeechModel, error) {
			return fakeSpeechModel{err: errors.New("corrupt audio")}, nil
		}))

		_, err := transcriber.TranscribeAudio(context.Background(), writeAudio(t))
		var transcriptionErr *TranscriptionError
		assert.True(t, errors.As(err, &transcriptionErr))
	})
}

const fakeWhisper = `#!/bin/sh
audio="$1"; shift
dir="."
while [ $# -gt 0 ]; do
  if [ "$1" = "--output_dir" ]; then dir="$2"; shift; fi
  shift
done
name=$(basename "$audio")
name="${name%.*}"
printf ' ' > "$dir/$name.txt"
sleep 0.05
cat "$audio" >> "$dir/$name.txt"
`

func TestWhisperCLIModel(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "whisper")
	model, err := LoadWhisperCLIModel(writeFakeTool(t, "whisper", fakeWhisper), "base", outDir)
	require.NoError(t, err)

	transcriber := NewRealAudioTranscriber(NewSharedModel(func() (SpeechModel, error) { return model, nil }))
	text, err := transcriber.TranscribeAudio(context.Background(), writeAudio(t))
	require.NoError(t, err)
	assert.Equal(t, "mock audio content", text)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "whisper output should be cleaned up")
}

func TestWhisperCLIModel_ConcurrentSessions(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "whisper")
	model, err := LoadWhisperCLIModel(writeFakeTool(t, "whisper", fakeWhisper), "base", outDir)
	require.NoError(t, err)
	transcriber := NewRealAudioTranscriber(NewSharedModel(func() (SpeechModel, error) { return model, nil }))

	// Both sessions download to the same file name in their own directory.
	root := t.TempDir()
	sessions := map[string]string{"sessA": "first session audio", "sessB": "second session audio"}
	audio := make(map[string]string)
	for id, content := range sessions {
		dir := filepath.Join(root, id)
		require.NoError(t, os.MkdirAll(dir, 0755))
		audio[id] = filepath.Join(dir, "downloaded_audio.mp3")
		require.NoError(t, os.WriteFile(audio[id], []byte(content), 0644))
	}

	for i := 0; i < 5; i++ {
		var wg sync.WaitGroup
		for id, want := range sessions {
			wg.Add(1)
			go func(id, want string) {
				defer wg.Done()
				text, err := transcriber.TranscribeAudio(context.Background(), audio[id])
				if assert.NoError(t, err, id) {
					assert.Equal(t, want, text, id)
				}
			}(id, want)
		}
		wg.Wait()
	}

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoadWhisperCLIModel_NotInstalled(t *testing.T) {
	_, err := LoadWhisperCLIModel("/nonexistent/whisper", "base", t.TempDir())
	assert.Error(t, err)
}

func TestLoadWhisperAPIModel_RequiresKey(t *testing.T) {
	_, err := LoadWhisperAPIModel("", "ffmpeg", "ffprobe")
	assert.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration("312.5\n")
	require.NoError(t, err)
	assert.Equal(t, 312*time.Second+500*time.Millisecond, d)

	_, err = parseDuration("N/A")
	assert.Error(t, err)
}

func TestChunkFileName(t *testing.T) {
	assert.Equal(t, filepath.Join(".tmp", "downloaded_audio_chunk_2.wav"), chunkFileName(filepath.Join(".tmp", "downloaded_audio.mp3"), 2))
}
