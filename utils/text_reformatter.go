package utils

import (
	"context"
	"strings"
)

// LLMReformatter turns a raw transcript into Markdown bullets. A nil client
// means no LLM is configured and the text passes through untouched.
type LLMReformatter struct {
	client LLMClient
}

func NewLLMReformatter(client LLMClient) *LLMReformatter {
	return &LLMReformatter{client: client}
}

func (r *LLMReformatter) LLMAvailable() bool {
	return r.client != nil
}

func (r *LLMReformatter) Reformat(ctx context.Context, rawText, language string) (string, error) {
	if !r.LLMAvailable() {
		return rawText, nil
	}

	prompt, err := ReformatPrompt.Format(map[string]string{"transcricao_bruta": rawText})
	if err != nil {
		return rawText, &ReformatError{Err: err}
	}
	prompt = withLanguageHint(prompt, language)

	formatted, err := r.client.Invoke(ctx, prompt)
	if err != nil {
		return rawText, &ReformatError{Err: err}
	}
	if strings.TrimSpace(formatted) == "" {
		return rawText, &ReformatError{Err: ErrEmptyResponse}
	}
	return formatted, nil
}
