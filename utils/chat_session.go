package utils

import (
	"context"
	"strings"
	"sync"
)

// ChatSession answers questions about a transcript and keeps the
// conversation. History only ever grows by (user, assistant) pairs.
type ChatSession struct {
	client LLMClient

	mu      sync.Mutex
	history []ChatMessage
}

func NewChatSession(client LLMClient) *ChatSession {
	return &ChatSession{client: client}
}

// Answer asks the LLM about question using transcript as context. Nothing is
// recorded unless the LLM answers.
func (c *ChatSession) Answer(ctx context.Context, transcript, question string) (string, error) {
	return c.AnswerInLanguage(ctx, transcript, question, "")
}

// AnswerInLanguage is Answer with the reply steered towards language, the
// detected language of the transcript. An empty language adds no hint.
func (c *ChatSession) AnswerInLanguage(ctx context.Context, transcript, question, language string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}
	if c.client == nil {
		return "", &ChatError{Question: question, Err: ErrLLMUnavailable}
	}

	prompt, err := ChatPrompt.Format(map[string]string{
		"contexto": transcript,
		"pergunta": question,
	})
	if err != nil {
		return "", &ChatError{Question: question, Err: err}
	}
	prompt = withLanguageHint(prompt, language)

	answer, err := c.client.Invoke(ctx, prompt)
	if err != nil {
		return "", &ChatError{Question: question, Err: err}
	}
	if strings.TrimSpace(answer) == "" {
		return "", &ChatError{Question: question, Err: ErrEmptyResponse}
	}

	c.mu.Lock()
	c.history = append(c.history,
		ChatMessage{Role: RoleUser, Content: question},
		ChatMessage{Role: RoleAssistant, Content: answer},
	)
	c.mu.Unlock()

	return answer, nil
}

// History returns a copy of the conversation so far.
func (c *ChatSession) History() []ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ChatMessage{}, c.history...)
}

func (c *ChatSession) Reset() {
	c.mu.Lock()
	c.history = nil
	c.mu.Unlock()
}
