package utils

import (
	"fmt"
	"time"
)

// State is the orchestration stage of a session.
type State int

const (
	StateIdle State = iota
	StateDownloading
	StateTranscribing
	StateReformatting
	StateReady
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDownloading:
		return "downloading"
	case StateTranscribing:
		return "transcribing"
	case StateReformatting:
		return "reformatting"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for st := StateIdle; st <= StateReady; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// TranscriptionResult is created once per successful run and never mutated.
type TranscriptionResult struct {
	SourceURL       string    `json:"source_url"`
	RawText         string    `json:"raw_text"`
	ReformattedText string    `json:"reformatted_text,omitempty"`
	Language        string    `json:"language,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Text is the reformatted transcript when there is one, else the raw text.
func (r *TranscriptionResult) Text() string {
	if r.ReformattedText != "" {
		return r.ReformattedText
	}
	return r.RawText
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Snapshot is a point-in-time copy of a session.
type Snapshot struct {
	State      State                `json:"state"`
	Transcript *TranscriptionResult `json:"transcript,omitempty"`
	History    []ChatMessage        `json:"history"`
}
