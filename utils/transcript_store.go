package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileTranscriptStore keeps one raw and one final transcript slot on disk.
// Each save replaces the previous content of its slot.
type FileTranscriptStore struct {
	RawPath   string
	FinalPath string
}

func NewFileTranscriptStore(rawPath, finalPath string) *FileTranscriptStore {
	return &FileTranscriptStore{RawPath: rawPath, FinalPath: finalPath}
}

func (s *FileTranscriptStore) SaveRaw(text string) error {
	return writeFileAtomic(s.RawPath, text)
}

func (s *FileTranscriptStore) SaveFinal(text string) error {
	return writeFileAtomic(s.FinalPath, text)
}

// writeFileAtomic writes through a temp file in the same directory and renames
// it over path, so readers never see a partial transcript.
func writeFileAtomic(path, text string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return &StorageError{Path: path, Err: fmt.Errorf("create directory: %w", err)}
	}

	tmp, err := os.CreateTemp(dir, ".transcript-*.tmp")
	if err != nil {
		return &StorageError{Path: path, Err: fmt.Errorf("create temp file: %w", err)}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &StorageError{Path: path, Err: fmt.Errorf("write: %w", err)}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &StorageError{Path: path, Err: fmt.Errorf("sync: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &StorageError{Path: path, Err: fmt.Errorf("close: %w", err)}
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return &StorageError{Path: path, Err: fmt.Errorf("chmod: %w", err)}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &StorageError{Path: path, Err: fmt.Errorf("rename: %w", err)}
	}
	return nil
}
