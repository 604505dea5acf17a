package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// YtdlpAudioFetcher downloads the audio track of a video into a single
// well-known slot using yt-dlp.
type YtdlpAudioFetcher struct {
	// Path is the yt-dlp executable. Defaults to "yt-dlp".
	Path string

	// OutputStem is the slot path without extension, e.g. ".tmp/downloaded_audio".
	OutputStem string

	// AudioFormat is passed to --audio-format. Defaults to "mp3".
	AudioFormat string
}

func NewYtdlpAudioFetcher(path, outputStem string) *YtdlpAudioFetcher {
	return &YtdlpAudioFetcher{
		Path:        path,
		OutputStem:  outputStem,
		AudioFormat: "mp3",
	}
}

// Fetch makes a single download attempt. Any file left in the slot by a
// previous run is removed first.
func (y *YtdlpAudioFetcher) Fetch(ctx context.Context, url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", ErrEmptyURL
	}

	binary, err := exec.LookPath(y.path())
	if err != nil {
		return "", &DownloadError{URL: url, Err: ErrDownloaderNotInstalled}
	}

	if err := os.MkdirAll(filepath.Dir(y.OutputStem), os.ModePerm); err != nil {
		return "", &DownloadError{URL: url, Err: fmt.Errorf("create output directory: %w", err)}
	}
	if err := y.removeStale(); err != nil {
		return "", &DownloadError{URL: url, Err: err}
	}

	args := []string{
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", y.format(),
		"-o", y.OutputStem + ".%(ext)s",
		"--no-playlist",
		"--no-warnings",
		"--print", "after_move:filepath",
		url,
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", &DownloadError{URL: url, Err: fmt.Errorf("yt-dlp failed: %w: %s", err, msg)}
		}
		return "", &DownloadError{URL: url, Err: fmt.Errorf("yt-dlp failed: %w", err)}
	}

	audioFile := lastPrintedPath(stdout.String())
	if audioFile == "" {
		audioFile = y.OutputStem + "." + y.format()
	}
	if _, err := os.Stat(audioFile); err != nil {
		return "", &DownloadError{URL: url, Err: fmt.Errorf("%w: %s", ErrMissingOutput, audioFile)}
	}

	return audioFile, nil
}

func (y *YtdlpAudioFetcher) removeStale() error {
	matches, err := filepath.Glob(y.OutputStem + ".*")
	if err != nil {
		return fmt.Errorf("match stale audio: %w", err)
	}
	matches = append(matches, y.OutputStem)
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove stale audio %s: %w", m, err)
		}
	}
	return nil
}

func (y *YtdlpAudioFetcher) path() string {
	if y.Path != "" {
		return y.Path
	}
	return "yt-dlp"
}

func (y *YtdlpAudioFetcher) format() string {
	if y.AudioFormat != "" {
		return y.AudioFormat
	}
	return "mp3"
}

// lastPrintedPath returns the last non-empty line of yt-dlp's --print output.
func lastPrintedPath(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
